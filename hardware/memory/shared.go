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

package memory

import (
	"github.com/jetsetilly/gopherds/curated"
)

// Error patterns returned by Shared.Validate().
const (
	StateBufferCount = "memory: expected %d buffers, found %d"
	StateBufferSize  = "memory: %s is %d bytes, expected %d"
)

// Sizes of the memory buffers.
const (
	MainRAMSize  = 0x400000
	WRAMSize     = 0x8000
	ARM7WRAMSize = 0x10000
	VRAMSize     = 0x100000
	ARM7VRAMSize = 0x40000
	PaletteSize  = 0x800
	OAMSize      = 0x800
	ITCMSize     = 0x8000
	DTCMSize     = 0x4000
	BIOS9Size    = 0x1000
	BIOS7Size    = 0x4000
)

// Shared is the backing memory of the console. The two Map instances refer to
// it, never to a copy of it.
type Shared struct {
	MainRAM  []byte
	WRAM     []byte
	ARM7WRAM []byte
	VRAM     []byte
	ARM7VRAM []byte
	Palette  []byte
	OAM      []byte
	ITCM     []byte
	DTCM     []byte
	BIOS9    []byte
	BIOS7    []byte

	// allocation of the shared WRAM between the two cores
	WRAMCNT uint8
}

// NewShared is the preferred method of initialisation for the Shared type.
func NewShared() *Shared {
	return &Shared{
		MainRAM:  make([]byte, MainRAMSize),
		WRAM:     make([]byte, WRAMSize),
		ARM7WRAM: make([]byte, ARM7WRAMSize),
		VRAM:     make([]byte, VRAMSize),
		ARM7VRAM: make([]byte, ARM7VRAMSize),
		Palette:  make([]byte, PaletteSize),
		OAM:      make([]byte, OAMSize),
		ITCM:     make([]byte, ITCMSize),
		DTCM:     make([]byte, DTCMSize),
		BIOS9:    make([]byte, BIOS9Size),
		BIOS7:    make([]byte, BIOS7Size),
	}
}

// buffers returns every buffer in a fixed order, along with its name.
func (sh *Shared) buffers() []struct {
	name string
	data *[]byte
} {
	return []struct {
		name string
		data *[]byte
	}{
		{"main RAM", &sh.MainRAM},
		{"WRAM", &sh.WRAM},
		{"ARM7 WRAM", &sh.ARM7WRAM},
		{"VRAM", &sh.VRAM},
		{"ARM7 VRAM", &sh.ARM7VRAM},
		{"palette", &sh.Palette},
		{"OAM", &sh.OAM},
		{"ITCM", &sh.ITCM},
		{"DTCM", &sh.DTCM},
		{"ARM9 BIOS", &sh.BIOS9},
		{"ARM7 BIOS", &sh.BIOS7},
	}
}

// Reset clears all RAM. The BIOS images are left alone.
func (sh *Shared) Reset() {
	for _, b := range sh.buffers() {
		if b.data == &sh.BIOS9 || b.data == &sh.BIOS7 {
			continue
		}
		clear(*b.data)
	}
	sh.WRAMCNT = 0
}

// SharedState is the serialisable state of the Shared type.
type SharedState struct {
	Buffers [][]byte
	WRAMCNT uint8
}

// Snapshot creates a copy of the backing memory.
func (sh *Shared) Snapshot() SharedState {
	s := SharedState{WRAMCNT: sh.WRAMCNT}
	for _, b := range sh.buffers() {
		c := make([]byte, len(*b.data))
		copy(c, *b.data)
		s.Buffers = append(s.Buffers, c)
	}
	return s
}

// Validate checks that the state is compatible with the Shared type.
func (sh *Shared) Validate(s SharedState) error {
	bufs := sh.buffers()
	if len(s.Buffers) != len(bufs) {
		return curated.Errorf(StateBufferCount, len(bufs), len(s.Buffers))
	}
	for i, b := range bufs {
		if len(s.Buffers[i]) != len(*b.data) {
			return curated.Errorf(StateBufferSize, b.name, len(s.Buffers[i]), len(*b.data))
		}
	}
	return nil
}

// Restore the backing memory from a state previously validated with
// Validate(). The buffers are copied in place so that regions which refer to
// them remain valid. The page tables of any Map using the memory must be
// rebuilt with Reconfigure() afterwards.
func (sh *Shared) Restore(s SharedState) {
	if err := sh.Validate(s); err != nil {
		panic(err)
	}
	for i, b := range sh.buffers() {
		copy(*b.data, s.Buffers[i])
	}
	sh.WRAMCNT = s.WRAMCNT
}
