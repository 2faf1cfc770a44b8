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

// Package savestate writes and reads the complete state of the emulated
// console. A savestate file begins with a short header:
//
//	magic       8 bytes    "GDSSTATE"
//	version     uint32     little-endian
//	game code   uint32     little-endian. zero if no cartridge was inserted
//
// The header is followed by the gob encoding of hardware.State.
//
// Import() decodes and validates the entire file before the console is
// changed. If an error is returned the console is left as it was.
package savestate
