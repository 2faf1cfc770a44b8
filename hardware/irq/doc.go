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

// Package irq implements the interrupt controller of a single core. The
// controller is made up of the IME, IE and IF registers.
//
// An interrupt source is raised by setting its bit in IF. The core is
// interrupted only when the source is pending in IF, enabled in IE and IME is
// set. Clearing IME suppresses every source but leaves IF untouched. IF bits
// are acknowledged by writing a one to them.
//
// Raising a source is an edge. Raising a source that is already pending has
// no further effect but raising a source after it has been acknowledged sets
// it pending again.
package irq
