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

package arm

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/gopherds/hardware/cpu/arm/architecture"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/logger"
)

// Bus is the view of memory used by a core. It is satisfied by memory.Map.
// Cycle counts returned by the Bus are in cycles of the core.
type Bus interface {
	Read(addr uint32, width memory.Width, access memory.Access, seq bool) (uint32, int)
	Write(addr uint32, width memory.Width, access memory.Access, seq bool, value uint32) int
	Resolve(addr uint32, width memory.Width, access memory.Access, seq bool) memory.Resolution
}

// Interrupts is the view of the interrupt controller used by a core.
type Interrupts interface {
	// Pending returns true if an enabled interrupt is pending and the
	// interrupt master enable is set
	Pending() bool
}

// armFunction is an entry in the table of ARM instructions.
type armFunction func(opcode uint32)

// decodeFunction is a decoded thumb instruction.
type decodeFunction func()

type armState struct {
	// the register file for the current mode
	registers [NumRegisters]uint32

	status status

	// banked registers. the entry for the current mode is stale, the live
	// value being in the register file
	bankedSP [numBanks]uint32
	bankedLR [numBanks]uint32
	spsr     [numBanks]uint32

	// R8 to R12 for all modes except FIQ, and for FIQ mode. only the copy not
	// in use is up to date
	userHigh [5]uint32
	fiqHigh  [5]uint32

	vectorBase uint32
	halted     bool

	// the next instruction fetch is nonsequential
	nonSeq bool

	// number of instructions executed since reset
	instructions uint64

	// address and opcode of the instruction most recently executed
	executingPC uint32
	opcode      uint32

	// the program counter has been written to by the current instruction
	branched bool

	// accumulated cycles and the control flow event of the current step
	cycles    int
	event     Event
	exception Exception
}

// ARM implements the ARM946E-S and ARM7TDMI processors of the console.
type ARM struct {
	mmap architecture.Map

	// name used in log entries
	name string

	bus Bus
	irq Interrupts
	cp  Coprocessor

	state armState

	// ARM instructions indexed by bits 27-20 and 7-4 of the opcode
	armTable [4096]armFunction

	// thumb instructions are decoded on first execution
	thumbTable []decodeFunction
}

// NewARM is the preferred method of initialisation for the ARM type.
func NewARM(mmap architecture.Map, name string, bus Bus, irq Interrupts) *ARM {
	arm := &ARM{
		mmap:       mmap,
		name:       name,
		bus:        bus,
		irq:        irq,
		thumbTable: make([]decodeFunction, 0x10000),
	}

	for i := range arm.armTable {
		arm.armTable[i] = arm.decodeARM(uint32(i))
	}

	arm.Reset()

	return arm
}

// SetCoprocessor attaches the system control coprocessor. A core without a
// coprocessor treats all coprocessor instructions as undefined.
func (arm *ARM) SetCoprocessor(cp Coprocessor) {
	arm.cp = cp
}

// Architecture returns the architecture map of the core.
func (arm *ARM) Architecture() architecture.Map {
	return arm.mmap
}

func (arm *ARM) String() string {
	s := strings.Builder{}
	for i := 0; i < NumRegisters; i++ {
		if i > 0 && i%4 == 0 {
			s.WriteString("\n")
		} else if i > 0 {
			s.WriteString("  ")
		}
		s.WriteString(fmt.Sprintf("%-3s %08x", RegisterName(i), arm.Register(i)))
	}
	s.WriteString(fmt.Sprintf("\nCPSR %08x %s", arm.state.status.value(), arm.state.status.String()))
	return s.String()
}

func (arm *ARM) logf(format string, args ...any) {
	logger.Logf(logger.Allow, arm.name, format, args...)
}

// Reset the processor. The vector base is not changed by a reset, the
// coprocessor should be reset before the processor.
func (arm *ARM) Reset() {
	vectorBase := arm.state.vectorBase
	arm.state = armState{
		vectorBase: vectorBase,
	}
	arm.state.status.mode = ModeSupervisor
	arm.state.status.irqDisable = true
	arm.state.status.fiqDisable = true
	arm.SetPC(vectorBase + Reset.vector())
}

// SetVectorBase sets the address of the exception vectors. Called by the
// coprocessor when the high vectors bit is changed.
func (arm *ARM) SetVectorBase(base uint32) {
	arm.state.vectorBase = base
}

// VectorBase returns the address of the exception vectors.
func (arm *ARM) VectorBase() uint32 {
	return arm.state.vectorBase
}

// width of an instruction in the current instruction set.
func (arm *ARM) width() uint32 {
	if arm.state.status.thumb {
		return 2
	}
	return 4
}

// PC returns the address of the next instruction to be executed.
func (arm *ARM) PC() uint32 {
	return arm.state.registers[rPC] - 2*arm.width()
}

// SetPC sets the address of the next instruction to be executed. The
// instruction set is not changed.
func (arm *ARM) SetPC(addr uint32) {
	w := arm.width()
	arm.state.registers[rPC] = (addr &^ (w - 1)) + 2*w
	arm.state.nonSeq = true
}

// ExecutingPC returns the address of the instruction being executed, or most
// recently executed.
func (arm *ARM) ExecutingPC() uint32 {
	return arm.state.executingPC
}

// LastExecuted returns the address and opcode of the instruction most
// recently executed.
func (arm *ARM) LastExecuted() (uint32, uint32) {
	return arm.state.executingPC, arm.state.opcode
}

// Instructions returns the number of instructions executed since reset.
func (arm *ARM) Instructions() uint64 {
	return arm.state.instructions
}

// Register returns the value of a register in the current mode. The value of
// the PC is the address of the next instruction to be executed.
func (arm *ARM) Register(n int) uint32 {
	if n == rPC {
		return arm.PC()
	}
	return arm.state.registers[n]
}

// SetRegister changes the value of a register in the current mode.
func (arm *ARM) SetRegister(n int, v uint32) {
	if n == rPC {
		arm.SetPC(v)
		return
	}
	arm.state.registers[n] = v
}

// CPSR returns the current program status register.
func (arm *ARM) CPSR() uint32 {
	return arm.state.status.value()
}

// SetCPSR changes the current program status register, including the mode and
// the thumb bit.
func (arm *ARM) SetCPSR(v uint32) {
	pc := arm.PC()
	arm.writeCPSR(v, 0xffffffff)
	arm.SetPC(pc)
}

// SPSR returns the saved program status register of the current mode. Returns
// false if the mode has no SPSR.
func (arm *ARM) SPSR() (uint32, bool) {
	if spsr := arm.spsr(); spsr != nil {
		return *spsr, true
	}
	return 0, false
}

// Mode returns the current processor mode.
func (arm *ARM) Mode() Mode {
	return arm.state.status.mode
}

// Thumb returns true if the core is executing thumb instructions.
func (arm *ARM) Thumb() bool {
	return arm.state.status.thumb
}

// writeCPSR changes the bits of the CPSR selected by the mask, swapping the
// banked registers if the mode changes.
func (arm *ARM) writeCPSR(v uint32, mask uint32) {
	cpsr := (arm.state.status.value() &^ mask) | (v & mask)
	if !arm.mmap.HasV5 {
		cpsr &^= psrSaturation
	}
	arm.setMode(Mode(cpsr & psrMode))
	arm.state.status.setValue(cpsr)
}

// branch to a new address in the current instruction set. the pipeline is
// refilled at the end of the instruction.
func (arm *ARM) branch(addr uint32) {
	arm.state.registers[rPC] = addr
	arm.state.branched = true
	if arm.state.event == NoEvent {
		arm.state.event = Branch
	}
}

// branchExchange branches to an address and selects the instruction set from
// bit zero of the address.
func (arm *ARM) branchExchange(addr uint32) {
	arm.state.status.thumb = addr&0x01 == 0x01
	arm.branch(addr)
	if arm.state.event == Branch {
		arm.state.event = ModeSwitch
	}
}

// loadPC is used by the instructions that load the program counter from
// memory. whether the instruction set can change depends on the architecture.
func (arm *ARM) loadPC(v uint32) {
	if arm.mmap.InterworkingLoads {
		arm.branchExchange(v)
		return
	}
	arm.branch(v)
}

// Step executes a single instruction, or enters the IRQ exception if an
// interrupt is pending and not masked in the CPSR.
func (arm *ARM) Step() StepResult {
	if arm.state.halted {
		return StepResult{Event: Halted}
	}

	arm.state.cycles = 0
	arm.state.event = NoEvent
	arm.state.exception = NoException
	arm.state.branched = false

	if arm.irqPending() {
		// the return address is the next instruction plus four in both
		// instruction sets. the handler returns with SUBS PC, LR, #4
		//
		// entry costs 2S+1N. the first S is the fetch of the interrupted
		// instruction, which is discarded
		arm.state.cycles += arm.bus.Resolve(arm.PC(), memory.Width(arm.width()), memory.Fetch, true).Cycles
		arm.exception(IRQ, arm.PC()+4)
		arm.fillPipeline()
		return arm.result()
	}

	w := arm.width()
	arm.state.executingPC = arm.PC()

	if arm.state.status.thumb {
		opcode, cycles := arm.bus.Read(arm.state.executingPC, memory.Width16, memory.Fetch, !arm.state.nonSeq)
		arm.state.opcode = opcode
		arm.state.nonSeq = false
		arm.state.cycles += cycles

		f := arm.thumbTable[opcode]
		if f == nil {
			f = arm.decodeThumb(uint16(opcode))
			arm.thumbTable[opcode] = f
		}
		f()
	} else {
		opcode, cycles := arm.bus.Read(arm.state.executingPC, memory.Width32, memory.Fetch, !arm.state.nonSeq)
		arm.state.opcode = opcode
		arm.state.nonSeq = false
		arm.state.cycles += cycles

		cond := opcode >> 28
		if cond == 0b1111 {
			arm.unconditional(opcode)
		} else if arm.state.status.condition(cond) {
			arm.armTable[armIndex(opcode)](opcode)
		}
	}

	if arm.state.branched {
		arm.fillPipeline()
	} else {
		arm.state.registers[rPC] += w
	}

	arm.state.instructions++

	return arm.result()
}

func (arm *ARM) result() StepResult {
	return StepResult{
		Cycles:    arm.state.cycles * arm.mmap.ClockDivisor,
		Event:     arm.state.event,
		Exception: arm.state.exception,
	}
}
