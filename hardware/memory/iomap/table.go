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

package iomap

import (
	"fmt"

	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/logger"
)

// Handler is implemented by peripherals that own registers in the I/O region.
// Addresses are always aligned to a 32bit word.
type Handler interface {
	ReadRegister(addr uint32) uint32

	// only the bits set in mask are being written
	WriteRegister(addr uint32, value uint32, mask uint32)
}

// Peeker is implemented by handlers whose ReadRegister() has side effects.
// PeekRegister must return the same value without those side effects.
type Peeker interface {
	PeekRegister(addr uint32) uint32
}

// HandlerFuncs adapts a pair of functions to the Handler interface.
type HandlerFuncs struct {
	Read  func(addr uint32) uint32
	Write func(addr uint32, value uint32, mask uint32)
}

// ReadRegister implements the Handler interface.
func (h HandlerFuncs) ReadRegister(addr uint32) uint32 {
	if h.Read == nil {
		return 0
	}
	return h.Read(addr)
}

// WriteRegister implements the Handler interface.
func (h HandlerFuncs) WriteRegister(addr uint32, value uint32, mask uint32) {
	if h.Write != nil {
		h.Write(addr, value, mask)
	}
}

// Base address of the I/O region.
const Base = 0x04000000

// the blocks of the I/O region that contain registers.
const (
	lowStart  = Base
	lowSize   = 0x2000
	highStart = 0x04100000
	highSize  = 0x40
)

type entry struct {
	name    string
	start   uint32
	end     uint32
	handler Handler
}

// Table is the I/O dispatch table for one core.
type Table struct {
	core    memory.Core
	entries []entry

	// index into entries for every word of each block. zero is no entry
	low  [lowSize / 4]uint16
	high [highSize / 4]uint16

	// report unhandled registers to the central logger
	LogUnhandled bool
}

// NewTable is the preferred method of initialisation for the Table type.
func NewTable(core memory.Core) *Table {
	return &Table{
		core: core,

		// the first entry is a placeholder for unhandled registers
		entries: []entry{{name: "unhandled"}},
	}
}

func (tab *Table) slot(addr uint32) *uint16 {
	switch {
	case addr >= lowStart && addr < lowStart+lowSize:
		return &tab.low[(addr-lowStart)>>2]
	case addr >= highStart && addr < highStart+highSize:
		return &tab.high[(addr-highStart)>>2]
	}
	return nil
}

// Install a handler for the registers between start and end inclusive. The
// range must lie inside the I/O region and must not overlap a range that has
// already been installed.
func (tab *Table) Install(name string, start uint32, end uint32, h Handler) {
	start = memory.Align(start, 4)
	end = memory.Align(end, 4)
	if end < start {
		panic(fmt.Sprintf("iomap: %s: bad range %08x to %08x", name, start, end))
	}

	tab.entries = append(tab.entries, entry{
		name:    name,
		start:   start,
		end:     end + 3,
		handler: h,
	})
	idx := uint16(len(tab.entries) - 1)

	for a := start; a <= end; a += 4 {
		s := tab.slot(a)
		if s == nil {
			panic(fmt.Sprintf("iomap: %s: %08x is outside the register blocks", name, a))
		}
		if *s != 0 {
			panic(fmt.Sprintf("iomap: %s: %08x is already handled by %s", name, a, tab.entries[*s].name))
		}
		*s = idx
	}
}

func (tab *Table) lookup(addr uint32) *entry {
	s := tab.slot(addr)
	if s == nil {
		return &tab.entries[0]
	}
	return &tab.entries[*s]
}

// Name returns the name of the handler for the address.
func (tab *Table) Name(addr uint32) string {
	return tab.lookup(addr).name
}

func (tab *Table) unhandled(addr uint32, access string) {
	if tab.LogUnhandled {
		logger.Logf(logger.Allow, tab.core.String(), "unhandled register %s: %08x", access, addr)
	}
}

// Read implements the memory.IO interface.
func (tab *Table) Read(addr uint32, width memory.Width) uint32 {
	e := tab.lookup(addr)
	if e.handler == nil {
		tab.unhandled(addr, "read")
		return 0
	}
	v := e.handler.ReadRegister(memory.Align(addr, 4))
	return (v >> memory.Lane(addr, width)) & width.Mask()
}

// Peek implements the memory.IO interface.
func (tab *Table) Peek(addr uint32, width memory.Width) uint32 {
	e := tab.lookup(addr)
	if e.handler == nil {
		return 0
	}
	var v uint32
	if p, ok := e.handler.(Peeker); ok {
		v = p.PeekRegister(memory.Align(addr, 4))
	} else {
		v = e.handler.ReadRegister(memory.Align(addr, 4))
	}
	return (v >> memory.Lane(addr, width)) & width.Mask()
}

// Write implements the memory.IO interface.
func (tab *Table) Write(addr uint32, width memory.Width, value uint32) {
	e := tab.lookup(addr)
	if e.handler == nil {
		tab.unhandled(addr, "write")
		return
	}
	lane := memory.Lane(addr, width)
	e.handler.WriteRegister(memory.Align(addr, 4), (value&width.Mask())<<lane, width.Mask()<<lane)
}
