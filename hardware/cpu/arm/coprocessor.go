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

// Coprocessor is implemented by the system control coprocessor (CP15) of the
// ARM9. The ARM7 has no coprocessor.
type Coprocessor interface {
	// MRC reads a coprocessor register. Returns false if the register does
	// not exist, in which case the instruction is undefined
	MRC(opc1 uint32, crn uint32, crm uint32, opc2 uint32) (uint32, bool)

	// MCR writes a coprocessor register. Returns false if the register does
	// not exist, in which case the instruction is undefined
	MCR(opc1 uint32, crn uint32, crm uint32, opc2 uint32, value uint32) bool
}

// coprocessor register transfer. from "4.15 Coprocessor Register Transfers" in
// the "ARM7TDMI Data Sheet". only coprocessor 15 is recognised.
func (arm *ARM) armCoprocessorTransfer(opcode uint32) {
	load := opcode&0x00100000 == 0x00100000
	opc1 := (opcode >> 21) & 0x07
	crn := (opcode >> 16) & 0x0f
	rd := (opcode >> 12) & 0x0f
	cpn := (opcode >> 8) & 0x0f
	opc2 := (opcode >> 5) & 0x07
	crm := opcode & 0x0f

	if arm.cp == nil || cpn != 15 || !arm.state.status.mode.privileged() {
		arm.undefined(opcode)
		return
	}

	if load {
		v, ok := arm.cp.MRC(opc1, crn, crm, opc2)
		if !ok {
			arm.undefined(opcode)
			return
		}

		// MRC with the PC as the destination sets the condition flags
		if rd == rPC {
			arm.state.status.negative = v&psrNegative == psrNegative
			arm.state.status.zero = v&psrZero == psrZero
			arm.state.status.carry = v&psrCarry == psrCarry
			arm.state.status.overflow = v&psrOverflow == psrOverflow
		} else {
			arm.state.registers[rd] = v
		}
		arm.iCycle(2)
		return
	}

	v := arm.state.registers[rd]
	if rd == rPC {
		v += 4
	}
	if !arm.cp.MCR(opc1, crn, crm, opc2, v) {
		arm.undefined(opcode)
		return
	}
	arm.iCycle(1)
}
