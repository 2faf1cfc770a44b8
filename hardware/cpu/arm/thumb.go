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
	"github.com/jetsetilly/gopherds/hardware/memory"
)

func (arm *ARM) decodeThumb(opcode uint16) decodeFunction {
	// working backwards up the table in Figure 5-1 of the ARM7TDMI Data Sheet.
	// the ARMv5TE additions are tested for before the format they are encoded
	// in the space of
	if opcode&0xf800 == 0xe800 {
		// BLX suffix
		return arm.decodeThumbLongBranchWithLinkExchange(opcode)
	} else if opcode&0xf000 == 0xf000 {
		// format 19 - Long branch with link
		return arm.decodeThumbLongBranchWithLink(opcode)
	} else if opcode&0xf000 == 0xe000 {
		// format 18 - Unconditional branch
		return arm.decodeThumbUnconditionalBranch(opcode)
	} else if opcode&0xff00 == 0xdf00 {
		// format 17 - Software interrupt
		return arm.decodeThumbSoftwareInterrupt(opcode)
	} else if opcode&0xf000 == 0xd000 {
		// format 16 - Conditional branch
		return arm.decodeThumbConditionalBranch(opcode)
	} else if opcode&0xf000 == 0xc000 {
		// format 15 - Multiple load/store
		return arm.decodeThumbMultipleLoadStore(opcode)
	} else if opcode&0xff00 == 0xbe00 {
		// BKPT
		return arm.decodeThumbBreakpoint(opcode)
	} else if opcode&0xf600 == 0xb400 {
		// format 14 - Push/pop registers
		return arm.decodeThumbPushPopRegisters(opcode)
	} else if opcode&0xff00 == 0xb000 {
		// format 13 - Add offset to stack pointer
		return arm.decodeThumbAddOffsetToSP(opcode)
	} else if opcode&0xf000 == 0xb000 {
		return arm.decodeThumbUndefined(opcode)
	} else if opcode&0xf000 == 0xa000 {
		// format 12 - Load address
		return arm.decodeThumbLoadAddress(opcode)
	} else if opcode&0xf000 == 0x9000 {
		// format 11 - SP-relative load/store
		return arm.decodeThumbSPRelativeLoadStore(opcode)
	} else if opcode&0xf000 == 0x8000 {
		// format 10 - Load/store halfword
		return arm.decodeThumbLoadStoreHalfword(opcode)
	} else if opcode&0xe000 == 0x6000 {
		// format 9 - Load/store with immediate offset
		return arm.decodeThumbLoadStoreWithImmOffset(opcode)
	} else if opcode&0xf200 == 0x5200 {
		// format 8 - Load/store sign-extended byte/halfword
		return arm.decodeThumbLoadStoreSignExtendedByteHalfword(opcode)
	} else if opcode&0xf200 == 0x5000 {
		// format 7 - Load/store with register offset
		return arm.decodeThumbLoadStoreWithRegisterOffset(opcode)
	} else if opcode&0xf800 == 0x4800 {
		// format 6 - PC-relative load
		return arm.decodeThumbPCRelativeLoad(opcode)
	} else if opcode&0xfc00 == 0x4400 {
		// format 5 - Hi register operations/branch exchange
		return arm.decodeThumbHiRegisterOps(opcode)
	} else if opcode&0xfc00 == 0x4000 {
		// format 4 - ALU operations
		return arm.decodeThumbALUOperations(opcode)
	} else if opcode&0xe000 == 0x2000 {
		// format 3 - Move/compare/add/subtract immediate
		return arm.decodeThumbMovCmpAddSubImm(opcode)
	} else if opcode&0xf800 == 0x1800 {
		// format 2 - Add/subtract
		return arm.decodeThumbAddSubtract(opcode)
	}

	// format 1 - Move shifted register
	return arm.decodeThumbMoveShiftedRegister(opcode)
}

func (arm *ARM) decodeThumbUndefined(opcode uint16) decodeFunction {
	return func() {
		arm.undefined(uint32(opcode))
	}
}

func (arm *ARM) decodeThumbMoveShiftedRegister(opcode uint16) decodeFunction {
	// format 1 - Move shifted register
	op := uint32(opcode&0x1800) >> 11
	shift := uint32(opcode&0x07c0) >> 6
	srcReg := (opcode & 0x38) >> 3
	destReg := opcode & 0x07

	return func() {
		// the shift types and the meaning of a zero shift are the same as for
		// an immediate shift in the ARM instruction set
		result, carry := arm.shiftImmediate(op, arm.state.registers[srcReg], shift)
		arm.state.registers[destReg] = result
		arm.state.status.setCarry(carry)
		arm.state.status.isZero(result)
		arm.state.status.isNegative(result)
	}
}

func (arm *ARM) decodeThumbAddSubtract(opcode uint16) decodeFunction {
	// format 2 - Add/subtract
	immediate := opcode&0x0400 == 0x0400
	subtract := opcode&0x0200 == 0x0200
	imm := uint32((opcode & 0x01c0) >> 6)
	srcReg := (opcode & 0x038) >> 3
	destReg := opcode & 0x07

	return func() {
		// value to work with is either an immediate value or is in a register
		val := imm
		if !immediate {
			val = arm.state.registers[imm]
		}

		var result uint32
		if subtract {
			result = arm.addWithCarry(arm.state.registers[srcReg], ^val, 1, true)
		} else {
			result = arm.addWithCarry(arm.state.registers[srcReg], val, 0, true)
		}

		arm.state.registers[destReg] = result
		arm.state.status.isZero(result)
		arm.state.status.isNegative(result)
	}
}

// "The instructions in this group perform operations between a Lo register and
// an 8-bit immediate value".
func (arm *ARM) decodeThumbMovCmpAddSubImm(opcode uint16) decodeFunction {
	// format 3 - Move/compare/add/subtract immediate
	op := (opcode & 0x1800) >> 11
	destReg := (opcode & 0x0700) >> 8
	imm := uint32(opcode & 0x00ff)

	return func() {
		var result uint32

		switch op {
		case 0b00:
			// MOV
			result = imm
		case 0b01:
			// CMP
			result = arm.addWithCarry(arm.state.registers[destReg], ^imm, 1, true)
		case 0b10:
			// ADD
			result = arm.addWithCarry(arm.state.registers[destReg], imm, 0, true)
		case 0b11:
			// SUB
			result = arm.addWithCarry(arm.state.registers[destReg], ^imm, 1, true)
		}

		if op != 0b01 {
			arm.state.registers[destReg] = result
		}
		arm.state.status.isZero(result)
		arm.state.status.isNegative(result)
	}
}

// "The following instructions perform ALU operations on a Lo register pair".
func (arm *ARM) decodeThumbALUOperations(opcode uint16) decodeFunction {
	// format 4 - ALU operations
	op := (opcode & 0x03c0) >> 6
	srcReg := (opcode & 0x38) >> 3
	destReg := opcode & 0x07

	return func() {
		srcVal := arm.state.registers[srcReg]
		destVal := arm.state.registers[destReg]

		var result uint32
		write := true

		switch op {
		case 0b0000:
			// AND
			result = destVal & srcVal
		case 0b0001:
			// EOR
			result = destVal ^ srcVal
		case 0b0010:
			// LSL
			var carry bool
			result, carry = arm.shiftRegister(shiftLSL, destVal, srcVal)
			arm.state.status.setCarry(carry)
			arm.iCycle(1)
		case 0b0011:
			// LSR
			var carry bool
			result, carry = arm.shiftRegister(shiftLSR, destVal, srcVal)
			arm.state.status.setCarry(carry)
			arm.iCycle(1)
		case 0b0100:
			// ASR
			var carry bool
			result, carry = arm.shiftRegister(shiftASR, destVal, srcVal)
			arm.state.status.setCarry(carry)
			arm.iCycle(1)
		case 0b0101:
			// ADC
			result = arm.addWithCarry(destVal, srcVal, arm.carryValue(), true)
		case 0b0110:
			// SBC
			result = arm.addWithCarry(destVal, ^srcVal, arm.carryValue(), true)
		case 0b0111:
			// ROR
			var carry bool
			result, carry = arm.shiftRegister(shiftROR, destVal, srcVal)
			arm.state.status.setCarry(carry)
			arm.iCycle(1)
		case 0b1000:
			// TST
			result = destVal & srcVal
			write = false
		case 0b1001:
			// NEG
			result = arm.addWithCarry(0, ^srcVal, 1, true)
		case 0b1010:
			// CMP
			result = arm.addWithCarry(destVal, ^srcVal, 1, true)
			write = false
		case 0b1011:
			// CMN
			result = arm.addWithCarry(destVal, srcVal, 0, true)
			write = false
		case 0b1100:
			// ORR
			result = destVal | srcVal
		case 0b1101:
			// MUL. the destination register is the multiplier operand for
			// the purposes of early termination
			result = destVal * srcVal
			arm.iCycle(arm.multiplyCycles(destVal, true, false))
		case 0b1110:
			// BIC
			result = destVal &^ srcVal
		case 0b1111:
			// MVN
			result = ^srcVal
		}

		if write {
			arm.state.registers[destReg] = result
		}
		arm.state.status.isZero(result)
		arm.state.status.isNegative(result)
	}
}

func (arm *ARM) decodeThumbHiRegisterOps(opcode uint16) decodeFunction {
	// format 5 - Hi register operations/branch exchange
	op := (opcode & 0x300) >> 8
	hi1 := opcode&0x80 == 0x80
	hi2 := opcode&0x40 == 0x40
	srcReg := (opcode & 0x38) >> 3
	destReg := opcode & 0x07

	// labels used when decoding, not actually equal to opcode value
	const (
		add = iota
		cmp
		mov
		bx
	)

	if hi1 {
		destReg += 8
	}
	if hi2 {
		srcReg += 8
	}

	return func() {
		// the PC reads as the address of the instruction plus four
		srcVal := arm.state.registers[srcReg]

		switch op {
		case add:
			result := arm.state.registers[destReg] + srcVal
			if destReg == rPC {
				arm.branch(result)
			} else {
				arm.state.registers[destReg] = result
			}

		case cmp:
			result := arm.addWithCarry(arm.state.registers[destReg], ^srcVal, 1, true)
			arm.state.status.isZero(result)
			arm.state.status.isNegative(result)

		case mov:
			if destReg == rPC {
				arm.branch(srcVal)
			} else {
				arm.state.registers[destReg] = srcVal
			}

		case bx:
			// with the H1 bit set this is a BLX on ARMv5TE
			if hi1 && arm.mmap.HasV5 {
				arm.state.registers[rLR] = (arm.state.executingPC + 2) | 0x01
			}
			arm.branchExchange(srcVal)
		}
	}
}

func (arm *ARM) decodeThumbPCRelativeLoad(opcode uint16) decodeFunction {
	// format 6 - PC-relative load
	destReg := (opcode & 0x0700) >> 8
	imm := uint32(opcode&0x00ff) << 2

	return func() {
		// "Bit 1 of the PC value is forced to zero for the purpose of this
		// calculation, so the address is always word-aligned."
		addr := (arm.state.registers[rPC] &^ 0x03) + imm
		arm.state.registers[destReg] = arm.read(addr, memory.Width32, false)
		arm.iCycle(1)
	}
}

func (arm *ARM) decodeThumbLoadStoreWithRegisterOffset(opcode uint16) decodeFunction {
	// format 7 - Load/store with register offset
	load := opcode&0x0800 == 0x0800
	byteTransfer := opcode&0x0400 == 0x0400
	offsetReg := (opcode & 0x01c0) >> 6
	baseReg := (opcode & 0x0038) >> 3
	reg := opcode & 0x0007

	return func() {
		addr := arm.state.registers[baseReg] + arm.state.registers[offsetReg]
		arm.thumbLoadStore(addr, reg, load, byteTransfer)
	}
}

// the common part of the thumb word and byte transfers.
func (arm *ARM) thumbLoadStore(addr uint32, reg uint16, load bool, byteTransfer bool) {
	if load {
		if byteTransfer {
			arm.state.registers[reg] = arm.read(addr, memory.Width8, false)
		} else {
			arm.state.registers[reg] = arm.readWordRotated(addr)
		}
		arm.iCycle(1)
		return
	}

	if byteTransfer {
		arm.write(addr, memory.Width8, false, arm.state.registers[reg]&0xff)
	} else {
		arm.write(addr&^0x03, memory.Width32, false, arm.state.registers[reg])
	}
}

func (arm *ARM) decodeThumbLoadStoreSignExtendedByteHalfword(opcode uint16) decodeFunction {
	// format 8 - Load/store sign-extended byte/halfword
	hi := opcode&0x0800 == 0x0800
	sign := opcode&0x0400 == 0x0400
	offsetReg := (opcode & 0x01c0) >> 6
	baseReg := (opcode & 0x0038) >> 3
	reg := opcode & 0x0007

	return func() {
		addr := arm.state.registers[baseReg] + arm.state.registers[offsetReg]

		switch {
		case !sign && !hi:
			// STRH
			arm.write(addr&^0x01, memory.Width16, false, arm.state.registers[reg]&0xffff)
			return
		case !sign && hi:
			// LDRH
			arm.state.registers[reg] = arm.readHalfword(addr)
		case sign && !hi:
			// LDSB
			arm.state.registers[reg] = arm.readSignedByte(addr)
		case sign && hi:
			// LDSH
			arm.state.registers[reg] = arm.readSignedHalfword(addr)
		}

		arm.iCycle(1)
	}
}

func (arm *ARM) decodeThumbLoadStoreWithImmOffset(opcode uint16) decodeFunction {
	// format 9 - Load/store with immediate offset
	byteTransfer := opcode&0x1000 == 0x1000
	load := opcode&0x0800 == 0x0800
	offset := uint32((opcode & 0x07c0) >> 6)
	baseReg := (opcode & 0x0038) >> 3
	reg := opcode & 0x0007

	// "For word accesses (B = 0), the value specified by #Imm is a full 7-bit
	// address, but must be word-aligned"
	if !byteTransfer {
		offset <<= 2
	}

	return func() {
		addr := arm.state.registers[baseReg] + offset
		arm.thumbLoadStore(addr, reg, load, byteTransfer)
	}
}

func (arm *ARM) decodeThumbLoadStoreHalfword(opcode uint16) decodeFunction {
	// format 10 - Load/store halfword
	load := opcode&0x0800 == 0x0800
	offset := uint32((opcode&0x07c0)>>6) << 1
	baseReg := (opcode & 0x0038) >> 3
	reg := opcode & 0x0007

	return func() {
		addr := arm.state.registers[baseReg] + offset
		if load {
			arm.state.registers[reg] = arm.readHalfword(addr)
			arm.iCycle(1)
			return
		}
		arm.write(addr&^0x01, memory.Width16, false, arm.state.registers[reg]&0xffff)
	}
}

func (arm *ARM) decodeThumbSPRelativeLoadStore(opcode uint16) decodeFunction {
	// format 11 - SP-relative load/store
	load := opcode&0x0800 == 0x0800
	reg := (opcode & 0x0700) >> 8
	offset := uint32(opcode&0x00ff) << 2

	return func() {
		addr := arm.state.registers[rSP] + offset
		arm.thumbLoadStore(addr, reg, load, false)
	}
}

func (arm *ARM) decodeThumbLoadAddress(opcode uint16) decodeFunction {
	// format 12 - Load address
	sp := opcode&0x0800 == 0x0800
	destReg := (opcode & 0x0700) >> 8
	offset := uint32(opcode&0x00ff) << 2

	return func() {
		if sp {
			arm.state.registers[destReg] = arm.state.registers[rSP] + offset
			return
		}

		// "Where the PC is used as the source register (SP = 0), bit 1 of the
		// PC is always read as 0"
		arm.state.registers[destReg] = (arm.state.registers[rPC] &^ 0x03) + offset
	}
}

func (arm *ARM) decodeThumbAddOffsetToSP(opcode uint16) decodeFunction {
	// format 13 - Add offset to stack pointer
	sign := opcode&0x80 == 0x80
	imm := uint32(opcode&0x7f) << 2

	return func() {
		if sign {
			arm.state.registers[rSP] -= imm
			return
		}
		arm.state.registers[rSP] += imm
	}
}

func (arm *ARM) decodeThumbPushPopRegisters(opcode uint16) decodeFunction {
	// format 14 - Push/pop registers
	load := opcode&0x0800 == 0x0800
	pclr := opcode&0x0100 == 0x0100
	list := uint32(opcode & 0x00ff)

	if load {
		// POP is LDMIA SP!
		if pclr {
			list |= 1 << rPC
		}
		return func() {
			arm.blockTransfer(rSP, list, false, true, false, true, true)
		}
	}

	// PUSH is STMDB SP!
	if pclr {
		list |= 1 << rLR
	}
	return func() {
		arm.blockTransfer(rSP, list, true, false, false, true, false)
	}
}

func (arm *ARM) decodeThumbMultipleLoadStore(opcode uint16) decodeFunction {
	// format 15 - Multiple load/store
	load := opcode&0x0800 == 0x0800
	baseReg := uint32(opcode&0x07ff) >> 8
	list := uint32(opcode & 0x00ff)

	return func() {
		arm.blockTransfer(baseReg, list, false, true, false, true, load)
	}
}

func (arm *ARM) decodeThumbBreakpoint(opcode uint16) decodeFunction {
	if !arm.mmap.HasV5 {
		return arm.decodeThumbUndefined(opcode)
	}

	return func() {
		arm.exception(PrefetchAbort, arm.state.executingPC+4)
	}
}

func (arm *ARM) decodeThumbConditionalBranch(opcode uint16) decodeFunction {
	// format 16 - Conditional branch
	cond := uint32(opcode&0x0f00) >> 8
	offset := uint32(int32(int8(opcode&0x00ff))) << 1

	// the always condition is undefined in this format. the never condition
	// is format 17
	if cond == 0b1110 {
		return arm.decodeThumbUndefined(opcode)
	}

	return func() {
		if arm.state.status.condition(cond) {
			arm.branch(arm.state.registers[rPC] + offset)
		}
	}
}

func (arm *ARM) decodeThumbSoftwareInterrupt(_ uint16) decodeFunction {
	// format 17 - Software interrupt
	return func() {
		arm.exception(SoftwareInterrupt, arm.state.executingPC+2)
	}
}

func (arm *ARM) decodeThumbUnconditionalBranch(opcode uint16) decodeFunction {
	// format 18 - Unconditional branch
	offset := uint32(int32(uint32(opcode)<<21) >> 20)

	return func() {
		arm.branch(arm.state.registers[rPC] + offset)
	}
}

func (arm *ARM) decodeThumbLongBranchWithLink(opcode uint16) decodeFunction {
	// format 19 - Long branch with link
	low := opcode&0x0800 == 0x0800
	offset := uint32(opcode & 0x07ff)

	if !low {
		// first instruction. the offset is the high part of the branch
		// offset and is added to the PC
		hi := uint32(int32(offset<<21) >> 9)
		return func() {
			arm.state.registers[rLR] = arm.state.registers[rPC] + hi
		}
	}

	// second instruction. the offset is the low part
	offset <<= 1
	return func() {
		target := arm.state.registers[rLR] + offset
		arm.state.registers[rLR] = (arm.state.executingPC + 2) | 0x01
		arm.branch(target)
	}
}

// the second instruction of a BLX pair. ARMv5TE only. changes to the ARM
// instruction set.
func (arm *ARM) decodeThumbLongBranchWithLinkExchange(opcode uint16) decodeFunction {
	if !arm.mmap.HasV5 {
		return arm.decodeThumbUndefined(opcode)
	}

	offset := uint32(opcode&0x07ff) << 1

	return func() {
		target := (arm.state.registers[rLR] + offset) &^ 0x03
		arm.state.registers[rLR] = (arm.state.executingPC + 2) | 0x01
		arm.branchExchange(target)
	}
}
