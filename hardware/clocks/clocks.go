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

// Package clocks defines the clock speeds of the two processors and of the
// peripheral bus.
//
// The scheduler measures time in system cycles. A system cycle is one cycle
// of the ARM9 clock. The ARM7 and the peripheral bus both run at half that
// speed.
package clocks

// Clock speeds in MHz.
const (
	ARM9 = 67.027964
	ARM7 = ARM9 / 2
	Bus  = ARM7
)

// System cycles per cycle of each clock.
const (
	ARM9Cycle = 1
	ARM7Cycle = 2
	BusCycle  = 2
)

// Display timing in system cycles.
const (
	DotCycles       = 6 * BusCycle
	ScanlineDots    = 355
	ScanlineCycles  = ScanlineDots * DotCycles
	HBlankStartDot  = 256
	HBlankCycles    = HBlankStartDot * DotCycles
	VisibleLines    = 192
	TotalLines      = 263
	FrameCycles     = ScanlineCycles * TotalLines
	FramesPerSecond = ARM9 * 1000000 / FrameCycles
)
