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
	"sort"

	"github.com/jetsetilly/gopherds/hardware/cpu/arm"
	"github.com/jetsetilly/gopherds/hardware/memory"
)

// Registers is a copy of the visible register set of a core.
type Registers struct {
	R    [arm.NumRegisters]uint32
	CPSR uint32

	// SPSR is only valid if HasSPSR is true
	SPSR    uint32
	HasSPSR bool

	Mode   arm.Mode
	Thumb  bool
	Halted bool
}

// Registers returns the registers of the core. R[15] is the address of the
// next instruction to be executed.
func (ds *DS) Registers(core memory.Core) Registers {
	cpu := ds.Processor(core).CPU

	var r Registers
	for i := range r.R {
		r.R[i] = cpu.Register(i)
	}
	r.CPSR = cpu.CPSR()
	r.SPSR, r.HasSPSR = cpu.SPSR()
	r.Mode = cpu.Mode()
	r.Thumb = cpu.Thumb()
	r.Halted = cpu.IsHalted()
	return r
}

// SetRegister changes a register in the current mode of the core.
func (ds *DS) SetRegister(core memory.Core, n int, v uint32) {
	ds.Processor(core).CPU.SetRegister(n, v)
}

// StepCore runs the emulation until the core has executed one instruction.
// The other core and any due events run as normal in the meantime. Returns
// false if the core is halted and nothing was executed.
func (ds *DS) StepCore(core memory.Core) (arm.StepResult, bool) {
	p := ds.Processor(core)
	if !ds.Sched.StepCore(core) {
		return arm.StepResult{}, false
	}
	return p.LastResult(), true
}

// SetBreakpoint stops Run() before the instruction at the address is executed
// by the core.
func (ds *DS) SetBreakpoint(core memory.Core, addr uint32) {
	ds.Processor(core).breakpoints[addr] = true
}

// ClearBreakpoint removes a breakpoint. Returns false if there was no
// breakpoint at the address.
func (ds *DS) ClearBreakpoint(core memory.Core, addr uint32) bool {
	p := ds.Processor(core)
	if !p.breakpoints[addr] {
		return false
	}
	delete(p.breakpoints, addr)
	return true
}

// Breakpoints returns the breakpoints of the core in address order.
func (ds *DS) Breakpoints(core memory.Core) []uint32 {
	p := ds.Processor(core)
	bp := make([]uint32, 0, len(p.breakpoints))
	for a := range p.breakpoints {
		bp = append(bp, a)
	}
	sort.Slice(bp, func(i, j int) bool { return bp[i] < bp[j] })
	return bp
}

// Peek reads memory as seen by the core without side effects. I/O registers
// are peeked where the peripheral supports it.
func (ds *DS) Peek(core memory.Core, addr uint32, width memory.Width) (uint32, bool) {
	return ds.Processor(core).Mem.Peek(addr, width)
}

// Poke writes to memory as seen by the core, ignoring write permissions. I/O
// registers can not be poked.
func (ds *DS) Poke(core memory.Core, addr uint32, width memory.Width, value uint32) bool {
	return ds.Processor(core).Mem.Poke(addr, width, value)
}

// LiveRead reads memory with the same side effects as a CPU data access. The
// cost of the access is not charged to the core.
func (ds *DS) LiveRead(core memory.Core, addr uint32, width memory.Width) uint32 {
	v, _ := ds.Processor(core).Mem.Read(addr, width, memory.Read, false)
	return v
}

// LiveWrite writes memory with the same side effects as a CPU data access.
// The cost of the access is not charged to the core.
func (ds *DS) LiveWrite(core memory.Core, addr uint32, width memory.Width, value uint32) {
	_ = ds.Processor(core).Mem.Write(addr, width, memory.Write, false, value)
}

// Disassemble the instruction at the address using the current instruction
// set of the core.
func (ds *DS) Disassemble(core memory.Core, addr uint32) (arm.DisasmEntry, bool) {
	cpu := ds.Processor(core).CPU
	width := memory.Width32
	if cpu.Thumb() {
		width = memory.Width16
	}
	opcode, ok := ds.Peek(core, addr, width)
	if !ok {
		return arm.DisasmEntry{}, false
	}
	return arm.Disassemble(addr, opcode, cpu.Thumb()), true
}
