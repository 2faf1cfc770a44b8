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

// Package cp15 implements the system control coprocessor of the ARM9. The
// control register and the tightly coupled memory region registers are
// modelled because they change the ARM9 memory map and the location of the
// exception vectors. The wait-for-interrupt operations halt the ARM9.
//
// The cache and protection unit registers are stored so that software can
// read back what it wrote but they have no effect on emulation.
package cp15
