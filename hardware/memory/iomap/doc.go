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

// Package iomap dispatches accesses to the I/O region of the memory map. The
// dispatch is a static table indexed by register word, built once when the
// console is created. Each entry of the table refers to a Handler.
//
// Handlers only see aligned 32bit words. Narrow accesses are converted by the
// table: a write is given a mask of the bytes being written and a read
// returns the whole word, from which the table extracts the bytes requested.
//
// Peripherals outside the core (video, audio) can install their own handlers
// with Install(). Ranges that nobody handles can be installed as a Latch, a
// plain register file that remembers what was written so that the values can
// be read back by the software and by the peripherals.
package iomap
