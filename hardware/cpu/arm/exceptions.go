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

// Exception is one of the ARM exception types.
type Exception int

// List of valid Exception values. Data aborts and FIQ never happen on the
// console but are listed for completeness.
const (
	NoException Exception = iota
	Reset
	Undefined
	SoftwareInterrupt
	PrefetchAbort
	DataAbort
	IRQ
	FIQ
)

func (ex Exception) String() string {
	switch ex {
	case NoException:
		return "none"
	case Reset:
		return "reset"
	case Undefined:
		return "undefined instruction"
	case SoftwareInterrupt:
		return "software interrupt"
	case PrefetchAbort:
		return "prefetch abort"
	case DataAbort:
		return "data abort"
	case IRQ:
		return "IRQ"
	case FIQ:
		return "FIQ"
	}
	return "unknown exception"
}

// offset of the exception vector from the vector base.
func (ex Exception) vector() uint32 {
	switch ex {
	case Reset:
		return 0x00
	case Undefined:
		return 0x04
	case SoftwareInterrupt:
		return 0x08
	case PrefetchAbort:
		return 0x0c
	case DataAbort:
		return 0x10
	case IRQ:
		return 0x18
	case FIQ:
		return 0x1c
	}
	panic("arm: no vector for exception")
}

// processor mode entered by the exception.
func (ex Exception) mode() Mode {
	switch ex {
	case Undefined:
		return ModeUndefined
	case PrefetchAbort, DataAbort:
		return ModeAbort
	case IRQ:
		return ModeIRQ
	case FIQ:
		return ModeFIQ
	}
	return ModeSupervisor
}

// Event is a change in control flow caused by a call to Step().
type Event int

// List of valid Event values.
const (
	NoEvent Event = iota

	// the program counter was written to
	Branch

	// the instruction set was changed by a BX, BLX or a load into the
	// program counter
	ModeSwitch

	// an exception was entered. the Exception field of StepResult says which
	ExceptionEntry

	// an exception handler returned by restoring the CPSR from the SPSR
	ExceptionExit

	// the core is halted and did not execute an instruction
	Halted
)

func (ev Event) String() string {
	switch ev {
	case NoEvent:
		return "none"
	case Branch:
		return "branch"
	case ModeSwitch:
		return "mode switch"
	case ExceptionEntry:
		return "exception entry"
	case ExceptionExit:
		return "exception exit"
	case Halted:
		return "halted"
	}
	return "unknown event"
}

// StepResult is returned by the Step() function.
type StepResult struct {
	// cycles consumed, in system cycles
	Cycles int

	Event     Event
	Exception Exception
}

// enter an exception. the return address is the value placed in the link
// register of the exception's mode.
func (arm *ARM) exception(ex Exception, returnAddress uint32) {
	cpsr := arm.state.status.value()

	arm.setMode(ex.mode())
	arm.state.spsr[ex.mode().bank()] = cpsr
	arm.state.registers[rLR] = returnAddress

	arm.state.status.thumb = false
	arm.state.status.irqDisable = true
	if ex == Reset || ex == FIQ {
		arm.state.status.fiqDisable = true
	}

	arm.branch(arm.state.vectorBase + ex.vector())
	arm.state.event = ExceptionEntry
	arm.state.exception = ex
}

// returnFromException copies the SPSR to the CPSR. used by data processing
// instructions with the S bit set and the PC as the destination, and by LDM
// with the S bit set and the PC in the register list.
func (arm *ARM) returnFromException() {
	spsr := arm.spsr()
	if spsr == nil {
		return
	}
	arm.writeCPSR(*spsr, 0xffffffff)
	arm.state.event = ExceptionExit
}

// undefined instruction. the return address is the instruction following the
// undefined instruction.
func (arm *ARM) undefined(opcode uint32) {
	arm.logf("undefined instruction %08x at %08x", opcode, arm.state.executingPC)
	arm.exception(Undefined, arm.state.executingPC+arm.width())
}

// irqPending returns true if an IRQ will be taken at the next instruction
// boundary.
func (arm *ARM) irqPending() bool {
	return !arm.state.status.irqDisable && arm.irq != nil && arm.irq.Pending()
}

// Halt the core until the next call to Wake().
func (arm *ARM) Halt() {
	arm.state.halted = true
}

// Wake a halted core. The interrupt, if any, will be taken on the next call to
// Step() if interrupts are enabled in the CPSR.
func (arm *ARM) Wake() {
	arm.state.halted = false
}

// IsHalted returns true if the core is waiting for an interrupt.
func (arm *ARM) IsHalted() bool {
	return arm.state.halted
}
