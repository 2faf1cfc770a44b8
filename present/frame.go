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

package present

import (
	"image/color"

	"github.com/jetsetilly/gopherds/hardware/memory"
)

// the display registers of each 2D engine.
const (
	engineA      = 0x04000000
	engineB      = 0x04001000
	NumRegisters = 0x70 / 4
)

// Engine identifies one of the two 2D display engines.
type Engine int

// List of valid Engine values.
const (
	EngineA Engine = iota
	EngineB
	NumEngines
)

// Frame is a copy of the display state at the start of VBlank. It must be
// treated as read-only by consumers.
type Frame struct {
	// the frame number as reported by the LCD
	Number int

	Registers [NumEngines][NumRegisters]uint32

	Palette []byte
	OAM     []byte
	VRAM    []byte
}

func newFrame() *Frame {
	return &Frame{
		Palette: make([]byte, memory.PaletteSize),
		OAM:     make([]byte, memory.OAMSize),
		VRAM:    make([]byte, memory.VRAMSize),
	}
}

// Register returns the value of the display register of the engine at the
// offset. The offset is rounded down to a word.
func (f *Frame) Register(e Engine, offset uint32) uint32 {
	return f.Registers[e][(offset&0x7f)/4%NumRegisters]
}

// Color returns the palette entry as an RGBA value. Entries are 15bit BGR.
func (f *Frame) Color(idx int) color.NRGBA {
	idx = (idx * 2) % len(f.Palette)
	v := uint16(f.Palette[idx]) | uint16(f.Palette[idx+1])<<8
	scale := func(c uint16) uint8 {
		c &= 0x1f
		return uint8(c<<3 | c>>2)
	}
	return color.NRGBA{R: scale(v), G: scale(v >> 5), B: scale(v >> 10), A: 0xff}
}
