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
	"math/bits"
)

// armIndex returns the index into the ARM instruction table for an opcode.
// bits 27-20 and bits 7-4 of an opcode are enough to identify the instruction.
func armIndex(opcode uint32) uint32 {
	return (opcode>>16)&0xff0 | (opcode>>4)&0x0f
}

// decodeARM returns the function for an entry in the ARM instruction table.
// the index is as returned by armIndex().
//
// based on "Figure 4-1: ARM instruction set formats" in the "ARM7TDMI Data
// Sheet", with the additions for ARMv5TE from the "ARM Architecture Reference
// Manual".
func (arm *ARM) decodeARM(idx uint32) armFunction {
	hi := idx >> 4
	lo := idx & 0x0f

	// ARMv5TE instructions are undefined on the ARMv4T core
	v5 := func(f armFunction) armFunction {
		if arm.mmap.HasV5 {
			return f
		}
		return arm.undefined
	}

	switch hi >> 5 {
	case 0b000:
		if lo == 0b1001 {
			switch {
			case hi&0xfc == 0x00:
				return arm.armMultiply
			case hi&0xf8 == 0x08:
				return arm.armMultiplyLong
			case hi&0xfb == 0x10:
				return arm.armSwap
			}
			return arm.undefined
		}

		if lo&0b1001 == 0b1001 {
			load := hi&0x01 == 0x01
			sh := (lo >> 1) & 0x03
			if !load && sh != 0b01 {
				return v5(arm.armDoublewordTransfer)
			}
			return arm.armHalfwordTransfer
		}

		// the data processing test instructions without the S bit are
		// used for miscellaneous instructions
		if hi&0xf9 == 0x10 {
			switch lo {
			case 0x0:
				if hi&0x02 == 0x02 {
					return arm.armMSR
				}
				return arm.armMRS
			case 0x1:
				if hi == 0x12 {
					return arm.armBranchExchange
				}
				if hi == 0x16 {
					return v5(arm.armCountLeadingZeros)
				}
			case 0x3:
				if hi == 0x12 {
					return v5(arm.armBranchLinkExchange)
				}
			case 0x5:
				return v5(arm.armSaturatingArithmetic)
			case 0x7:
				if hi == 0x12 {
					return v5(arm.armBreakpoint)
				}
			case 0x8, 0xa, 0xc, 0xe:
				return v5(arm.armSignedMultiply)
			}
			return arm.undefined
		}

		return arm.armDataProcessing

	case 0b001:
		if hi&0xfb == 0x32 {
			return arm.armMSR
		}
		if hi&0xfb == 0x30 {
			return arm.undefined
		}
		return arm.armDataProcessing

	case 0b010:
		return arm.armSingleTransfer

	case 0b011:
		if lo&0x01 == 0x01 {
			return arm.undefined
		}
		return arm.armSingleTransfer

	case 0b100:
		return arm.armBlockTransfer

	case 0b101:
		return arm.armBranch

	case 0b110:
		// LDC and STC. there is no coprocessor that supports them
		return arm.undefined

	case 0b111:
		if hi&0x10 == 0x10 {
			return arm.armSoftwareInterrupt
		}
		if lo&0x01 == 0x01 {
			return arm.armCoprocessorTransfer
		}
		// CDP
		return arm.undefined
	}

	panic("arm: impossible instruction table index")
}

// unconditional handles the instructions with a condition field of 0b1111. on
// the ARMv4T core the condition means "never".
func (arm *ARM) unconditional(opcode uint32) {
	if !arm.mmap.HasV5 {
		return
	}

	switch {
	case opcode&0x0e000000 == 0x0a000000:
		arm.armBranchLinkExchangeImmediate(opcode)
	case opcode&0x0d70f000 == 0x0550f000:
		// PLD. there is no cache to preload
	default:
		arm.undefined(opcode)
	}
}

// the shift types used by the barrel shifter.
const (
	shiftLSL = iota
	shiftLSR
	shiftASR
	shiftROR
)

// shiftImmediate performs a shift by an amount encoded in the instruction.
// returns the result and the carry out of the shifter.
//
// from "4.5.2 Shifts" in the "ARM7TDMI Data Sheet". an amount of zero
// encodes LSR #32, ASR #32 and RRX for the shift types other than LSL.
func (arm *ARM) shiftImmediate(typ uint32, v uint32, amount uint32) (uint32, bool) {
	carry := arm.state.status.carry

	switch typ {
	case shiftLSL:
		if amount == 0 {
			return v, carry
		}
		return v << amount, v&(1<<(32-amount)) != 0

	case shiftLSR:
		if amount == 0 {
			return 0, v&0x80000000 == 0x80000000
		}
		return v >> amount, v&(1<<(amount-1)) != 0

	case shiftASR:
		if amount == 0 {
			if v&0x80000000 == 0x80000000 {
				return 0xffffffff, true
			}
			return 0, false
		}
		return uint32(int32(v) >> amount), v&(1<<(amount-1)) != 0
	}

	// rotate right extended
	if amount == 0 {
		r := v >> 1
		if carry {
			r |= 0x80000000
		}
		return r, v&0x01 == 0x01
	}
	return bits.RotateLeft32(v, -int(amount)), v&(1<<(amount-1)) != 0
}

// shiftRegister performs a shift by an amount in the bottom byte of a
// register. returns the result and the carry out of the shifter.
func (arm *ARM) shiftRegister(typ uint32, v uint32, amount uint32) (uint32, bool) {
	carry := arm.state.status.carry

	amount &= 0xff
	if amount == 0 {
		return v, carry
	}

	switch typ {
	case shiftLSL:
		if amount < 32 {
			return v << amount, v&(1<<(32-amount)) != 0
		}
		if amount == 32 {
			return 0, v&0x01 == 0x01
		}
		return 0, false

	case shiftLSR:
		if amount < 32 {
			return v >> amount, v&(1<<(amount-1)) != 0
		}
		if amount == 32 {
			return 0, v&0x80000000 == 0x80000000
		}
		return 0, false

	case shiftASR:
		if amount < 32 {
			return uint32(int32(v) >> amount), v&(1<<(amount-1)) != 0
		}
		if v&0x80000000 == 0x80000000 {
			return 0xffffffff, true
		}
		return 0, false
	}

	amount &= 0x1f
	if amount == 0 {
		return v, v&0x80000000 == 0x80000000
	}
	return bits.RotateLeft32(v, -int(amount)), v&(1<<(amount-1)) != 0
}

// addWithCarry returns a+b+c, setting the carry and overflow flags if
// requested. subtraction is performed by passing the inverse of the second
// operand with a carry of one.
func (arm *ARM) addWithCarry(a uint32, b uint32, c uint32, setFlags bool) uint32 {
	if setFlags {
		arm.state.status.isCarry(a, b, c)
		arm.state.status.isOverflow(a, b, c)
	}
	return a + b + c
}

func (arm *ARM) carryValue() uint32 {
	if arm.state.status.carry {
		return 1
	}
	return 0
}

// writeback of a modified base register. writeback to the PC is ignored.
func (arm *ARM) writeback(rn uint32, v uint32) {
	if rn != rPC {
		arm.state.registers[rn] = v
	}
}
