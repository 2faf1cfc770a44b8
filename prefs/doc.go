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

// Package prefs stores user preferences. Preference values are typed (Bool,
// Int, Float, String) and safe to read from any goroutine. Values can be
// grouped into a Disk instance and saved to or loaded from a file. The file is
// made up of lines of the form:
//
//	key :: value
//
// Preferences can also be given on the command line as a single string of
// semicolon separated key::value pairs. These override values loaded from
// disk but are never saved.
//
// Hooks can be attached to any value. The pre-hook can refuse the new value by
// returning an error. The post-hook is called after the new value has been
// stored.
package prefs
