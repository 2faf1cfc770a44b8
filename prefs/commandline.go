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

package prefs

import (
	"strings"
)

// values given on the command line
var commandLine = make(map[string]string)

// SetCommandLine parses a string of semicolon separated key::value pairs.
// Values are applied by Disk.Load(). Malformed pairs are ignored. Calling the
// function again replaces all previous command line values.
func SetCommandLine(prefs string) {
	commandLine = make(map[string]string)
	for _, p := range strings.Split(prefs, ";") {
		k, v, ok := strings.Cut(p, "::")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		commandLine[k] = strings.TrimSpace(v)
	}
}

// CommandLineValue returns the command line value for the key.
func CommandLineValue(key string) (string, bool) {
	v, ok := commandLine[key]
	return v, ok
}
