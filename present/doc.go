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

// Package present makes the state of the display available to goroutines
// other than the one running the emulation.
//
// At the start of every VBlank the display registers, palette, OAM and VRAM
// are copied into a Frame. Frames are double-buffered: the emulation fills
// the back buffer and swaps it with the front buffer if no consumer is
// currently borrowing the front buffer. The emulation never waits for a
// consumer. If the swap is not possible the frame is dropped.
package present
