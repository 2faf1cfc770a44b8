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

package dma

import "fmt"

// Trigger is a DMA start condition.
type Trigger int

// List of valid Trigger values.
const (
	Immediate Trigger = iota
	VBlank
	HBlank
	DisplayStart
	MainMemDisplay
	DSSlot
	GBASlot
	GeometryFIFO
	WiFi
	Timer
	NumTriggers
)

func (t Trigger) String() string {
	switch t {
	case Immediate:
		return "immediate"
	case VBlank:
		return "vblank"
	case HBlank:
		return "hblank"
	case DisplayStart:
		return "display start"
	case MainMemDisplay:
		return "main memory display"
	case DSSlot:
		return "ds slot"
	case GBASlot:
		return "gba slot"
	case GeometryFIFO:
		return "geometry fifo"
	case WiFi:
		return "wifi"
	case Timer:
		return "timer"
	}
	return fmt.Sprintf("trigger%d", int(t))
}

// start timings for the ARM9, control register bits 27 to 29.
var arm9Timing = [8]Trigger{
	Immediate, VBlank, HBlank, DisplayStart,
	MainMemDisplay, DSSlot, GBASlot, GeometryFIFO,
}

// start timings for the ARM7, control register bits 28 and 29. the meaning of
// the last value depends on the channel.
func arm7Timing(channel int, v uint32) Trigger {
	switch v {
	case 0:
		return Immediate
	case 1:
		return VBlank
	case 2:
		return DSSlot
	}
	if channel&1 == 0 {
		return WiFi
	}
	return GBASlot
}
