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
	"encoding/binary"
	"fmt"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware/cpu/arm"
	"github.com/jetsetilly/gopherds/hardware/dsslot"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/logger"
)

// the exception vectors of the minimal BIOS replacement. the reset and abort
// vectors loop forever. SWI returns immediately and IRQ branches to the
// interrupt handler that follows the vectors.
var stubVectors = [...]uint32{
	0xeafffffe, // reset: B .
	0xeafffffe, // undefined: B .
	0xe1b0f00e, // SWI: MOVS PC, LR
	0xeafffffe, // prefetch abort: B .
	0xeafffffe, // data abort: B .
	0xeafffffe, // reserved: B .
	0xea000000, // IRQ: B 0x20
	0xeafffffe, // FIQ: B .
}

// the IRQ handler of the ARM7 calls the user handler whose address is stored
// at the end of ARM7 WRAM.
var arm7Handler = [...]uint32{
	0xe92d500f, // STMDB SP!, {R0-R3, R12, LR}
	0xe3a00301, // MOV R0, #0x04000000
	0xe28fe000, // ADD LR, PC, #0
	0xe510f004, // LDR PC, [R0, #-4]
	0xe8bd500f, // LDMIA SP!, {R0-R3, R12, LR}
	0xe25ef004, // SUBS PC, LR, #4
}

// the IRQ handler of the ARM9 calls the user handler whose address is stored
// at the end of DTCM.
var arm9Handler = [...]uint32{
	0xe92d500f, // STMDB SP!, {R0-R3, R12, LR}
	0xee190f11, // MRC P15, 0, R0, C9, C1, 0
	0xe1a00620, // MOV R0, R0, LSR #12
	0xe1a00600, // MOV R0, R0, LSL #12
	0xe2800901, // ADD R0, R0, #0x4000
	0xe28fe000, // ADD LR, PC, #0
	0xe510f004, // LDR PC, [R0, #-4]
	0xe8bd500f, // LDMIA SP!, {R0-R3, R12, LR}
	0xe25ef004, // SUBS PC, LR, #4
}

// offset of the IRQ handler in the BIOS.
const stubHandler = 0x20

func writeStub(bios []byte, handler []uint32) {
	clear(bios)
	for i, w := range stubVectors {
		binary.LittleEndian.PutUint32(bios[i*4:], w)
	}
	for i, w := range handler {
		binary.LittleEndian.PutUint32(bios[stubHandler+i*4:], w)
	}
}

// the stack pointers left by the BIOS before jumping to the cartridge.
var bootStacks = [memory.NumCores]struct {
	svc uint32
	irq uint32
	sys uint32
}{
	{svc: 0x03002fc0, irq: 0x03003f80, sys: 0x03002f7c},
	{svc: 0x0380ffdc, irq: 0x0380ffb0, sys: 0x0380ff00},
}

// locations in main RAM written by the BIOS.
const (
	bootHeader    = 0x027ffe00
	bootChipID1   = 0x027ff800
	bootChipID2   = 0x027ffc00
	bootBootFlag  = 0x027ffc40
	bootCardLen   = 0x027ff850
	bootCardLen2  = 0x027ffc10
	bootCardFlags = 0x027ffc30
)

// DirectBoot loads the binaries of the inserted cartridge into memory and
// leaves the console in the state that the BIOS would leave it in at the
// point it jumps to the cartridge.
func (ds *DS) DirectBoot() error {
	rom := ds.Slot.ROM()
	if rom == nil {
		return curated.Errorf(NoCartridge)
	}
	h := rom.Header

	// CP15 and WRAMCNT change the memory map so they must be set before the
	// binaries are copied
	ds.CP15.DirectBoot()
	ds.setWRAMCNT(3)
	ds.sys.POSTFLG = [memory.NumCores]uint8{0x01, 0x01}
	ds.sys.EXMEMCNT[memory.ARM9] = 0x6000

	if err := ds.loadBinary(ds.ARM9, rom.Data(), h.ARM9); err != nil {
		return err
	}
	if err := ds.loadBinary(ds.ARM7, rom.Data(), h.ARM7); err != nil {
		return err
	}

	mem := ds.ARM9.Mem
	for i := 0; i < dsslot.HeaderSize; i += 4 {
		mem.Poke(bootHeader+uint32(i), memory.Width32, binary.LittleEndian.Uint32(h.Raw[i:]))
	}
	for _, a := range [...]uint32{bootChipID1, bootChipID1 + 4, bootChipID2, bootChipID2 + 4} {
		mem.Poke(a, memory.Width32, rom.ChipID())
	}
	mem.Poke(bootCardLen, memory.Width16, 0x5835)
	mem.Poke(bootCardLen2, memory.Width16, 0x5835)
	mem.Poke(bootCardFlags, memory.Width16, 0xffff)
	mem.Poke(bootBootFlag, memory.Width16, 0x0001)

	ds.bootRegisters(ds.ARM9, h.ARM9.Entry)
	ds.bootRegisters(ds.ARM7, h.ARM7.Entry)

	logger.Logf(logger.Allow, "hardware", "direct boot: %s", h)
	logger.Logf(logger.Allow, "hardware", "ARM9 %s", h.ARM9)
	logger.Logf(logger.Allow, "hardware", "ARM7 %s", h.ARM7)

	return nil
}

// copy a binary from the ROM through the processor's memory map.
func (ds *DS) loadBinary(p *Processor, data []byte, b dsslot.Binary) error {
	end := uint64(b.ROMOffset) + uint64(b.Size)
	if end > uint64(len(data)) {
		return curated.Errorf(BadBinary, p.ID, b)
	}

	src := data[b.ROMOffset:end]
	for i := 0; i < len(src); {
		if len(src)-i >= 4 {
			p.Mem.Poke(b.Load+uint32(i), memory.Width32, binary.LittleEndian.Uint32(src[i:]))
			i += 4
		} else {
			p.Mem.Poke(b.Load+uint32(i), memory.Width8, uint32(src[i]))
			i++
		}
	}
	return nil
}

// set the registers of the processor as they are when the BIOS jumps to the
// entry point.
func (ds *DS) bootRegisters(p *Processor, entry uint32) {
	cpu := p.CPU
	stacks := bootStacks[p.ID]

	for r := 0; r < arm.NumRegisters-1; r++ {
		cpu.SetRegister(r, 0)
	}

	cpu.SetCPSR(uint32(arm.ModeSupervisor))
	cpu.SetRegister(13, stacks.svc)
	cpu.SetRegister(14, 0)
	cpu.SetCPSR(uint32(arm.ModeIRQ))
	cpu.SetRegister(13, stacks.irq)
	cpu.SetRegister(14, 0)
	cpu.SetCPSR(uint32(arm.ModeSystem))
	cpu.SetRegister(13, stacks.sys)

	cpu.SetRegister(12, entry)
	cpu.SetRegister(14, entry)
	cpu.SetPC(entry)
}

// BIOSName returns a description of the BIOS in use by the core.
func (ds *DS) BIOSName(core memory.Core) string {
	hle := !ds.bios9
	if core == memory.ARM7 {
		hle = !ds.bios7
	}
	if hle {
		return fmt.Sprintf("%s: built-in IRQ handler", core)
	}
	return fmt.Sprintf("%s: BIOS image", core)
}
