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

// Package lcd implements the display timing of the console. It does not draw
// anything. The rasterisers are external to the emulation and learn about
// the progress of the display through the Subscriber interface.
//
// The LCD is driven by two scheduler events per scanline: one at the start
// of the line and one at the start of horizontal blanking. The functions
// that handle those events return the number of system cycles until the next
// event. Each core has its own DISPSTAT register but VCOUNT is common to
// both.
package lcd
