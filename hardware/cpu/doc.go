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

// Package cpu contains the processor cores of the console. Both the ARM9
// (ARM946E-S) and the ARM7 (ARM7TDMI) are implemented by the arm package, with
// the differences between the two described by the architecture.Map given to
// arm.NewARM(). The ARM9 system control coprocessor is in the cp15 package.
//
// The cores do not know about each other or about the scheduler. A core is
// advanced one instruction at a time by Step(), which returns a StepResult
// with the number of system cycles consumed. Memory is reached through the
// arm.Bus interface, which is satisfied by the memory map of each core.
//
// Interrupts are taken at the start of Step() when the interrupt controller
// reports a pending interrupt and the CPSR allows it.
package cpu
