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

package dsslot

import (
	"encoding/binary"
	"fmt"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware/clocks"
	"github.com/jetsetilly/gopherds/hardware/dma"
	"github.com/jetsetilly/gopherds/hardware/irq"
	"github.com/jetsetilly/gopherds/hardware/memory"
)

// register addresses. AUXSPIDATA is the high half of the AUXSPICNT word.
const (
	AUXSPICNT  = 0x040001a0
	AUXSPIDATA = 0x040001a2
	ROMCTRL    = 0x040001a4
	ROMCMD     = 0x040001a8
	ROMDATA    = 0x04100010
)

// AUXSPICNT bits.
const (
	auxSPIMode  = 0x2000
	auxIRQ      = 0x4000
	auxEnable   = 0x8000
	auxWritable = 0xe003
)

// ROMCTRL bits.
const (
	ctrlGap1      = 0x00001fff
	ctrlReady     = 0x00800000
	ctrlBlockSize = 0x07000000
	ctrlSlowClock = 0x08000000
	ctrlRelease   = 0x20000000
	ctrlBusy      = 0x80000000
	ctrlWritable  = 0x5f7fffff
)

// maximum length of a transfer in bytes.
const maxTransfer = 0x4000

// Interrupts is the interface to an interrupt controller.
type Interrupts interface {
	Raise(src irq.Source)
}

// DMA is the interface to a DMA controller.
type DMA interface {
	Trigger(t dma.Trigger)
}

// SlotState is the serialisable state of the slot registers.
type SlotState struct {
	AUXSPICNT  uint16
	AUXSPIDATA uint16
	ROMCTRL    uint32
	Cmd        [8]byte

	// response to the current command
	Buffer []byte
	Pos    int

	// the last word read from the data port
	Last uint32

	Stage Stage
}

// InvalidState is the error pattern for a SlotState that can not be restored.
const InvalidState = "dsslot: invalid state: %s"

// Validate checks that the state can be restored. The transfer buffer must
// be whole words and the position must be a word within it.
func (s SlotState) Validate() error {
	if len(s.Buffer) > maxTransfer || len(s.Buffer)%4 != 0 {
		return curated.Errorf(InvalidState, fmt.Sprintf("transfer buffer of %d bytes", len(s.Buffer)))
	}
	if s.Pos < 0 || s.Pos%4 != 0 || s.Pos > len(s.Buffer) {
		return curated.Errorf(InvalidState, fmt.Sprintf("position %d in transfer buffer of %d bytes", s.Pos, len(s.Buffer)))
	}
	if s.ROMCTRL&ctrlReady == ctrlReady && s.Pos >= len(s.Buffer) {
		return curated.Errorf(InvalidState, "data ready without a transfer buffer")
	}
	if s.Stage < StageInitial || s.Stage > StageKEY2 {
		return curated.Errorf(InvalidState, fmt.Sprintf("stage %d", s.Stage))
	}
	return nil
}

// Slot is the DS cartridge slot.
type Slot struct {
	state SlotState
	rom   *ROM

	irq [memory.NumCores]Interrupts
	dma [memory.NumCores]DMA

	// returns the core that has access to the slot
	owner func() memory.Core

	// Schedule is called when the next data word is to become ready after
	// the number of system cycles. WordReady() should be called at that time
	Schedule func(cycles int)
}

// NewSlot is the preferred method of initialisation for the Slot type.
func NewSlot(irq9 Interrupts, irq7 Interrupts, dma9 DMA, dma7 DMA, owner func() memory.Core) *Slot {
	return &Slot{
		irq:   [memory.NumCores]Interrupts{irq9, irq7},
		dma:   [memory.NumCores]DMA{dma9, dma7},
		owner: owner,
	}
}

func (sl *Slot) String() string {
	if sl.rom == nil {
		return "empty"
	}
	return sl.rom.String()
}

// Insert a cartridge into the slot. A nil ROM empties the slot.
func (sl *Slot) Insert(rom *ROM) {
	sl.rom = rom
}

// ROM returns the inserted cartridge. Returns nil if the slot is empty.
func (sl *Slot) ROM() *ROM {
	return sl.rom
}

// Reset the slot registers and the ROM device.
func (sl *Slot) Reset() {
	sl.state = SlotState{}
	if sl.rom != nil {
		sl.rom.Reset()
	}
}

// byteCycles returns the number of system cycles taken to transfer a byte.
func (sl *Slot) byteCycles() int {
	if sl.state.ROMCTRL&ctrlSlowClock == ctrlSlowClock {
		return 8 * clocks.BusCycle
	}
	return 5 * clocks.BusCycle
}

func blockLen(ctrl uint32) int {
	switch n := (ctrl & ctrlBlockSize) >> 24; n {
	case 0:
		return 0
	case 7:
		return 4
	default:
		return 0x100 << n
	}
}

func (sl *Slot) start() {
	st := &sl.state
	n := blockLen(st.ROMCTRL)

	st.Buffer = make([]byte, n)
	st.Pos = 0
	if sl.rom != nil {
		sl.rom.Command(st.Cmd, st.Buffer)
		st.Stage = sl.rom.Stage()
	} else {
		for i := range st.Buffer {
			st.Buffer[i] = 0xff
		}
	}

	if n == 0 {
		sl.finish()
		return
	}

	gap := int(st.ROMCTRL & ctrlGap1)
	if sl.Schedule != nil {
		sl.Schedule((8 + gap + 4) * sl.byteCycles())
	}
}

func (sl *Slot) finish() {
	st := &sl.state
	st.ROMCTRL &^= ctrlBusy | ctrlReady
	st.Buffer = nil
	st.Pos = 0
	if st.AUXSPICNT&auxIRQ == auxIRQ {
		sl.irq[sl.owner()].Raise(irq.SlotTransfer)
	}
}

// WordReady is called when the next data word has been transferred from the
// cartridge. The word can then be read from the data port.
func (sl *Slot) WordReady() {
	st := &sl.state
	if st.ROMCTRL&ctrlBusy == 0 {
		return
	}
	st.ROMCTRL |= ctrlReady
	sl.dma[sl.owner()].Trigger(dma.DSSlot)
}

// read the data port.
func (sl *Slot) data() uint32 {
	st := &sl.state
	if st.ROMCTRL&ctrlReady == 0 {
		return st.Last
	}

	st.Last = binary.LittleEndian.Uint32(st.Buffer[st.Pos:])
	st.Pos += 4
	st.ROMCTRL &^= ctrlReady

	if st.Pos >= len(st.Buffer) {
		sl.finish()
	} else if sl.Schedule != nil {
		sl.Schedule(4 * sl.byteCycles())
	}

	return st.Last
}

// Snapshot returns the state of the slot. The ROM data is not part of the
// state.
func (sl *Slot) Snapshot() SlotState {
	s := sl.state
	s.Buffer = append([]byte(nil), sl.state.Buffer...)
	if sl.rom != nil {
		s.Stage = sl.rom.Stage()
	}
	return s
}

// Restore the state of the slot.
func (sl *Slot) Restore(s SlotState) {
	sl.state = s
	sl.state.Buffer = append([]byte(nil), s.Buffer...)
	if sl.rom != nil {
		sl.rom.SetStage(s.Stage)
	}
}

// Port returns the register interface for the core.
func (sl *Slot) Port(core memory.Core) *Port {
	return &Port{sl: sl, core: core}
}

// Port is one core's view of the slot registers. It implements the
// iomap.Handler and iomap.Peeker interfaces. A core without access to the
// slot reads zero and its writes are ignored.
type Port struct {
	sl   *Slot
	core memory.Core
}

func (p *Port) String() string {
	return fmt.Sprintf("%s: %s", p.core, p.sl)
}

func (p *Port) access() bool {
	return p.sl.owner() == p.core
}

// ReadRegister implements the iomap.Handler interface.
func (p *Port) ReadRegister(addr uint32) uint32 {
	if !p.access() {
		return 0
	}
	if addr == ROMDATA {
		return p.sl.data()
	}
	return p.PeekRegister(addr)
}

// PeekRegister implements the iomap.Peeker interface.
func (p *Port) PeekRegister(addr uint32) uint32 {
	st := &p.sl.state
	switch addr {
	case AUXSPICNT:
		// backup memory is not emulated so SPI data always reads 0xff
		return uint32(st.AUXSPICNT) | 0xff<<16
	case ROMCTRL:
		return st.ROMCTRL
	case ROMCMD:
		return binary.LittleEndian.Uint32(st.Cmd[0:])
	case ROMCMD + 4:
		return binary.LittleEndian.Uint32(st.Cmd[4:])
	case ROMDATA:
		if st.ROMCTRL&ctrlReady == ctrlReady {
			return binary.LittleEndian.Uint32(st.Buffer[st.Pos:])
		}
		return st.Last
	}
	return 0
}

// WriteRegister implements the iomap.Handler interface.
func (p *Port) WriteRegister(addr uint32, value uint32, mask uint32) {
	if !p.access() {
		return
	}
	st := &p.sl.state

	switch addr {
	case AUXSPICNT:
		if mask&0xffff != 0 {
			m := uint16(mask) & auxWritable
			st.AUXSPICNT = (st.AUXSPICNT &^ m) | (uint16(value) & m)
		}
		if mask&0xffff0000 != 0 {
			st.AUXSPIDATA = uint16(value >> 16)
		}

	case ROMCTRL:
		m := mask & ctrlWritable
		// the release bit cannot be cleared once set
		release := (st.ROMCTRL | value&mask) & ctrlRelease
		st.ROMCTRL = (st.ROMCTRL &^ m) | (value & m) | release

		if value&mask&ctrlBusy == ctrlBusy && st.ROMCTRL&ctrlBusy == 0 {
			st.ROMCTRL |= ctrlBusy
			if st.AUXSPICNT&(auxEnable|auxSPIMode) == auxEnable {
				p.sl.start()
			} else {
				p.sl.finish()
			}
		}

	case ROMCMD, ROMCMD + 4:
		cmd := st.Cmd[addr-ROMCMD:]
		v := binary.LittleEndian.Uint32(cmd)
		binary.LittleEndian.PutUint32(cmd, (v&^mask)|(value&mask))
	}
}
