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

// Package paths contains functions to prepare paths to GopherDS resources.
//
// The ResourcePath() function modifies the supplied resource string such that
// it is prepended with the appropriate config directory. For example, the
// following will return the path to the preferences file.
//
//	d, err := paths.ResourcePath("", "preferences")
//
// In development builds the base path is ".gopherds" in the current
// directory. In release builds (the release build tag) the base path is
// "gopherds" in the directory returned by os.UserConfigDir(). On a modern
// Linux system the path returned for the example above would be:
//
//	/home/user/.config/gopherds/preferences
//
// The directory part of the path is created if it does not already exist.
package paths
