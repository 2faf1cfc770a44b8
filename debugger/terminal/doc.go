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

// Package terminal defines the operations required for command-line
// interaction with the debugger.
//
// Terminal interaction happens through the Terminal interface. There are two
// implementations of this interface: the PlainTerminal and the
// ColorTerminal, found respectively in the plainterm and colorterm
// sub-packages.
//
// History is not handled by this package. The ColorTerminal keeps its own
// history of input lines.
//
// Tab completion is provided by the commandline package.
package terminal
