// This file is part of GopherDS.
//
// GopherDS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherDS is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherDS.  If not, see <https://www.gnu.org/licenses/>.

package version

import (
	"fmt"
	"runtime/debug"
)

// ApplicationName is the name to use when referring to the application.
const ApplicationName = "GopherDS"

// if number is empty then the project was probably not built using the makefile
var number string

// the vcs revision. suffixed with "+dirty" if the source has uncommitted
// modifications
var revision string

// the version string is "unreleased" if the project has been built without
// the makefile and "local" if there is no vcs information either
var version string

// Version returns the version string, the revision string and whether this is a
// numbered "release" version. if release is true then the revision information
// should be used sparingly
func Version() (string, string, bool) {
	return version, revision, version == number
}

// String returns the application name with the version information.
func String() string {
	if version == number {
		return fmt.Sprintf("%s %s", ApplicationName, version)
	}
	return fmt.Sprintf("%s %s (%s)", ApplicationName, version, revision)
}

// fromBuildSettings returns the version and revision strings from the build
// settings and the makefile version number.
func fromBuildSettings(settings []debug.BuildSetting, num string) (string, string) {
	var vcs bool
	var rev string
	var modified bool

	for _, v := range settings {
		switch v.Key {
		case "vcs":
			vcs = true
		case "vcs.revision":
			rev = v.Value
		case "vcs.modified":
			modified = v.Value == "true"
		}
	}

	if rev == "" {
		rev = "no revision information"
	} else if modified {
		rev = fmt.Sprintf("%s+dirty", rev)
	}

	switch {
	case num != "":
		return num, rev
	case vcs:
		return "unreleased", rev
	}
	return "local", rev
}

func init() {
	var settings []debug.BuildSetting
	if info, ok := debug.ReadBuildInfo(); ok {
		settings = info.Settings
	}
	version, revision = fromBuildSettings(settings, number)
}
