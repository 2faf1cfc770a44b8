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

package hardware

import (
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/logger"
)

// system control register addresses.
const (
	EXMEMCNT = 0x04000204
	VRAMCNT  = 0x04000240
	WRAMSTAT = 0x04000241
	WRAMCNT  = 0x04000247
	POSTFLG  = 0x04000300
	HALTCNT  = 0x04000301
)

// EXMEMCNT bits. the ARM7 sees the upper bits of the ARM9 register.
const (
	exmemSlotARM7     = 0x0800
	exmemAlwaysSet    = 0x2000
	exmemARM9Writable = 0xe8ff
	exmemARM7Writable = 0x007f
)

// HALTCNT power down modes.
const (
	haltGBA   = 0x40
	haltHalt  = 0x80
	haltSleep = 0xc0
)

// SystemState is the serialisable state of the system control registers.
type SystemState struct {
	POSTFLG  [memory.NumCores]uint8
	EXMEMCNT [memory.NumCores]uint16
}

// slotOwner returns the core that has access to the DS slot.
func (ds *DS) slotOwner() memory.Core {
	if ds.sys.EXMEMCNT[memory.ARM9]&exmemSlotARM7 == exmemSlotARM7 {
		return memory.ARM7
	}
	return memory.ARM9
}

func (ds *DS) exmemcnt(core memory.Core) uint32 {
	v := ds.sys.EXMEMCNT[memory.ARM9] | exmemAlwaysSet
	if core == memory.ARM7 {
		v = (v &^ exmemARM7Writable) | ds.sys.EXMEMCNT[memory.ARM7]
	}
	return uint32(v)
}

// setWRAMCNT changes the allocation of the shared WRAM and rebuilds the
// memory maps of both cores.
func (ds *DS) setWRAMCNT(v uint8) {
	v &= 0x03
	if ds.Shared.WRAMCNT == v {
		return
	}
	ds.Shared.WRAMCNT = v
	ds.ARM9.Mem.Reconfigure()
	ds.ARM7.Mem.Reconfigure()
}

// vramstat returns which of the VRAM banks C and D are allocated to the ARM7.
func (ds *DS) vramstat() uint32 {
	cnt := ds.ARM9.Latch.Value(VRAMCNT)
	var v uint32
	if (cnt>>16)&0x87 == 0x82 {
		v |= 0x01
	}
	if (cnt>>24)&0x87 == 0x82 {
		v |= 0x02
	}
	return v
}

// systemRegisters is the handler for the system control registers of one
// core. bytes in the same words that belong to other peripherals are stored
// in the processor's latch.
type systemRegisters struct {
	ds *DS
	p  *Processor
}

// ReadRegister implements the iomap.Handler interface.
func (sr systemRegisters) ReadRegister(addr uint32) uint32 {
	ds := sr.ds
	core := sr.p.ID

	switch addr {
	case EXMEMCNT:
		return ds.exmemcnt(core)

	case VRAMCNT:
		if core == memory.ARM9 {
			return (sr.p.Latch.Value(addr) & 0x00ffffff) | uint32(ds.Shared.WRAMCNT)<<24
		}
		return ds.vramstat() | uint32(ds.Shared.WRAMCNT)<<8

	case POSTFLG:
		return uint32(ds.sys.POSTFLG[core])
	}

	return sr.p.Latch.Value(addr)
}

// WriteRegister implements the iomap.Handler interface.
func (sr systemRegisters) WriteRegister(addr uint32, value uint32, mask uint32) {
	ds := sr.ds
	core := sr.p.ID

	switch addr {
	case EXMEMCNT:
		reg := &ds.sys.EXMEMCNT[core]
		w := uint16(mask)
		if core == memory.ARM9 {
			w &= exmemARM9Writable
		} else {
			w &= exmemARM7Writable
		}
		*reg = (*reg &^ w) | (uint16(value) & w)
		return

	case VRAMCNT:
		if core == memory.ARM9 {
			if mask&0xff000000 != 0 {
				ds.setWRAMCNT(uint8(value >> 24))
			}
			sr.p.Latch.WriteRegister(addr, value, mask&0x00ffffff)
		}
		return

	case POSTFLG:
		if mask&0x000000ff != 0 {
			flg := &ds.sys.POSTFLG[core]

			// bit zero can be set but not cleared
			*flg |= uint8(value) & 0x01
			if core == memory.ARM9 {
				*flg = (*flg &^ 0x02) | uint8(value)&0x02
			}
		}

		if core == memory.ARM7 && mask&0x0000ff00 != 0 {
			switch uint8(value>>8) & 0xc0 {
			case haltHalt, haltSleep:
				sr.p.CPU.Halt()
			case haltGBA:
				logger.Logf(logger.Allow, core.String(), "GBA mode is not supported")
			}
		}
		return
	}

	sr.p.Latch.WriteRegister(addr, value, mask)
}
