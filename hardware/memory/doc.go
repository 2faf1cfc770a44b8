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

// Package memory implements the memory map of the two processors. Each core
// has its own Map and both maps share the same backing memory (the Shared
// type). A Map resolves an address, access width and access kind into a
// region and a cycle cost.
//
// Address decoding uses a table of 16KB pages. The table is a pure function of
// the address and of the current hardware configuration: the WRAMCNT register
// and, for the ARM9, the location and size of the tightly coupled memories.
// The table is rebuilt with Reconfigure() whenever that configuration changes.
//
// Accesses that fall outside the mapped regions, or which break a region's
// permissions, do not fault. Reads return the open bus value, which is derived
// from the most recently fetched opcode, and writes are dropped. Accesses like
// this are recorded in the Map's Faults log.
//
// Addresses in the I/O region are forwarded to an implementation of the IO
// interface. In practice this is the io.Table type in the io sub-package.
package memory
