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

// Package ipc implements the inter-processor communication registers. The
// IPCSYNC register passes four bits between the cores and can interrupt the
// other core. The two FIFOs pass words in each direction.
//
// There is one IPC instance shared by both cores. Each core accesses it
// through its own Port, which is installed in that core's I/O table.
package ipc
