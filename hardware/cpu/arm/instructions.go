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
	"math"
	"math/bits"

	"github.com/jetsetilly/gopherds/hardware/memory"
)

// "4.5 Data Processing" in the "ARM7TDMI Data Sheet".
func (arm *ARM) armDataProcessing(opcode uint32) {
	op := (opcode >> 21) & 0x0f
	setFlags := opcode&0x00100000 == 0x00100000
	rn := (opcode >> 16) & 0x0f
	rd := (opcode >> 12) & 0x0f

	var op2 uint32
	var shiftCarry bool
	rnVal := arm.state.registers[rn]

	if opcode&0x02000000 == 0x02000000 {
		// immediate value rotated right by twice the rotate field
		rot := (opcode >> 7) & 0x1e
		op2 = bits.RotateLeft32(opcode&0xff, -int(rot))
		shiftCarry = arm.state.status.carry
		if rot != 0 {
			shiftCarry = op2&0x80000000 == 0x80000000
		}
	} else {
		rm := opcode & 0x0f
		typ := (opcode >> 5) & 0x03
		rmVal := arm.state.registers[rm]

		if opcode&0x10 == 0x10 {
			// "4.5.5 Using R15 as an operand". the PC is 12 bytes ahead
			// when the shift amount is in a register because of the extra
			// cycle
			if rm == rPC {
				rmVal += 4
			}
			if rn == rPC {
				rnVal += 4
			}
			rs := (opcode >> 8) & 0x0f
			op2, shiftCarry = arm.shiftRegister(typ, rmVal, arm.state.registers[rs])
			arm.iCycle(1)
		} else {
			op2, shiftCarry = arm.shiftImmediate(typ, rmVal, (opcode>>7)&0x1f)
		}
	}

	var result uint32
	logical := false
	write := true

	// flags are set by the arithmetic operations as the result is calculated.
	// for an exception return the flags come from the SPSR
	arithFlags := setFlags && rd != rPC

	switch op {
	case 0b0000:
		// AND
		result = rnVal & op2
		logical = true
	case 0b0001:
		// EOR
		result = rnVal ^ op2
		logical = true
	case 0b0010:
		// SUB
		result = arm.addWithCarry(rnVal, ^op2, 1, arithFlags)
	case 0b0011:
		// RSB
		result = arm.addWithCarry(op2, ^rnVal, 1, arithFlags)
	case 0b0100:
		// ADD
		result = arm.addWithCarry(rnVal, op2, 0, arithFlags)
	case 0b0101:
		// ADC
		result = arm.addWithCarry(rnVal, op2, arm.carryValue(), arithFlags)
	case 0b0110:
		// SBC
		result = arm.addWithCarry(rnVal, ^op2, arm.carryValue(), arithFlags)
	case 0b0111:
		// RSC
		result = arm.addWithCarry(op2, ^rnVal, arm.carryValue(), arithFlags)
	case 0b1000:
		// TST
		result = rnVal & op2
		logical = true
		write = false
	case 0b1001:
		// TEQ
		result = rnVal ^ op2
		logical = true
		write = false
	case 0b1010:
		// CMP
		result = arm.addWithCarry(rnVal, ^op2, 1, setFlags)
		write = false
	case 0b1011:
		// CMN
		result = arm.addWithCarry(rnVal, op2, 0, setFlags)
		write = false
	case 0b1100:
		// ORR
		result = rnVal | op2
		logical = true
	case 0b1101:
		// MOV
		result = op2
		logical = true
	case 0b1110:
		// BIC
		result = rnVal &^ op2
		logical = true
	case 0b1111:
		// MVN
		result = ^op2
		logical = true
	}

	if !write {
		arm.state.status.isZero(result)
		arm.state.status.isNegative(result)
		if logical {
			arm.state.status.setCarry(shiftCarry)
		}
		return
	}

	if rd == rPC {
		if setFlags {
			arm.returnFromException()
		}
		arm.branch(result)
		return
	}

	arm.state.registers[rd] = result

	if setFlags {
		arm.state.status.isZero(result)
		arm.state.status.isNegative(result)
		if logical {
			arm.state.status.setCarry(shiftCarry)
		}
	}
}

// "4.6 PSR Transfer" in the "ARM7TDMI Data Sheet".
func (arm *ARM) armMRS(opcode uint32) {
	rd := (opcode >> 12) & 0x0f

	if opcode&0x00400000 == 0x00400000 {
		if spsr := arm.spsr(); spsr != nil {
			arm.state.registers[rd] = *spsr
			return
		}
	}

	arm.state.registers[rd] = arm.state.status.value()
}

func (arm *ARM) armMSR(opcode uint32) {
	var v uint32
	if opcode&0x02000000 == 0x02000000 {
		rot := (opcode >> 7) & 0x1e
		v = bits.RotateLeft32(opcode&0xff, -int(rot))
	} else {
		v = arm.state.registers[opcode&0x0f]
	}

	// field mask
	var mask uint32
	if opcode&0x00080000 == 0x00080000 {
		mask |= 0xff000000
	}
	if opcode&0x00040000 == 0x00040000 {
		mask |= 0x00ff0000
	}
	if opcode&0x00020000 == 0x00020000 {
		mask |= 0x0000ff00
	}
	if opcode&0x00010000 == 0x00010000 {
		mask |= 0x000000ff
	}

	if opcode&0x00400000 == 0x00400000 {
		if spsr := arm.spsr(); spsr != nil {
			*spsr = (*spsr &^ mask) | (v & mask)
		}
		return
	}

	// user mode can only change the condition flags. the thumb bit can never
	// be changed with MSR
	if !arm.state.status.mode.privileged() {
		mask &= 0xff000000
	}
	mask &^= psrThumb

	arm.writeCPSR(v, mask)
}

// "4.7 Multiply and Multiply-Accumulate" in the "ARM7TDMI Data Sheet".
func (arm *ARM) armMultiply(opcode uint32) {
	accumulate := opcode&0x00200000 == 0x00200000
	setFlags := opcode&0x00100000 == 0x00100000
	rd := (opcode >> 16) & 0x0f
	rn := (opcode >> 12) & 0x0f
	rs := (opcode >> 8) & 0x0f
	rm := opcode & 0x0f

	rsVal := arm.state.registers[rs]
	result := arm.state.registers[rm] * rsVal
	cycles := arm.multiplyCycles(rsVal, true, false)
	if accumulate {
		result += arm.state.registers[rn]
		cycles++
	}

	arm.state.registers[rd] = result
	if setFlags {
		arm.state.status.isZero(result)
		arm.state.status.isNegative(result)
	}

	arm.iCycle(cycles)
}

// "4.8 Multiply Long and Multiply-Accumulate Long" in the "ARM7TDMI Data
// Sheet".
func (arm *ARM) armMultiplyLong(opcode uint32) {
	signed := opcode&0x00400000 == 0x00400000
	accumulate := opcode&0x00200000 == 0x00200000
	setFlags := opcode&0x00100000 == 0x00100000
	rdHi := (opcode >> 16) & 0x0f
	rdLo := (opcode >> 12) & 0x0f
	rs := (opcode >> 8) & 0x0f
	rm := opcode & 0x0f

	rsVal := arm.state.registers[rs]
	rmVal := arm.state.registers[rm]

	var result uint64
	if signed {
		result = uint64(int64(int32(rmVal)) * int64(int32(rsVal)))
	} else {
		result = uint64(rmVal) * uint64(rsVal)
	}

	cycles := arm.multiplyCycles(rsVal, signed, true)
	if accumulate {
		result += uint64(arm.state.registers[rdHi])<<32 | uint64(arm.state.registers[rdLo])
		cycles++
	}

	arm.state.registers[rdLo] = uint32(result)
	arm.state.registers[rdHi] = uint32(result >> 32)
	if setFlags {
		arm.state.status.zero = result == 0
		arm.state.status.negative = result&0x8000000000000000 == 0x8000000000000000
	}

	arm.iCycle(cycles)
}

// "4.12 Single Data Swap" in the "ARM7TDMI Data Sheet".
func (arm *ARM) armSwap(opcode uint32) {
	byteSwap := opcode&0x00400000 == 0x00400000
	rn := (opcode >> 16) & 0x0f
	rd := (opcode >> 12) & 0x0f
	rm := opcode & 0x0f

	addr := arm.state.registers[rn]
	v := arm.state.registers[rm]

	var tmp uint32
	if byteSwap {
		tmp = arm.read(addr, memory.Width8, false)
		arm.write(addr, memory.Width8, false, v&0xff)
	} else {
		tmp = arm.readWordRotated(addr)
		arm.write(addr&^0x03, memory.Width32, false, v)
	}
	arm.state.registers[rd] = tmp

	arm.iCycle(1)
}

// "4.9 Single Data Transfer" in the "ARM7TDMI Data Sheet".
func (arm *ARM) armSingleTransfer(opcode uint32) {
	pre := opcode&0x01000000 == 0x01000000
	up := opcode&0x00800000 == 0x00800000
	byteTransfer := opcode&0x00400000 == 0x00400000
	writeback := opcode&0x00200000 == 0x00200000
	load := opcode&0x00100000 == 0x00100000
	rn := (opcode >> 16) & 0x0f
	rd := (opcode >> 12) & 0x0f

	var offset uint32
	if opcode&0x02000000 == 0x02000000 {
		// the carry out of the shifter is not used
		offset, _ = arm.shiftImmediate((opcode>>5)&0x03, arm.state.registers[opcode&0x0f], (opcode>>7)&0x1f)
	} else {
		offset = opcode & 0xfff
	}

	base := arm.state.registers[rn]
	modified := base - offset
	if up {
		modified = base + offset
	}

	addr := base
	if pre {
		addr = modified
	}

	// post-indexed transfers always write back. the T variants of the
	// instructions are treated as normal transfers because there is no
	// memory protection
	wb := !pre || writeback

	if load {
		var v uint32
		if byteTransfer {
			v = arm.read(addr, memory.Width8, false)
		} else {
			v = arm.readWordRotated(addr)
		}

		// write back before the destination register so that a load into
		// the base register keeps the loaded value
		if wb {
			arm.writeback(rn, modified)
		}

		arm.iCycle(1)

		if rd == rPC {
			arm.loadPC(v)
		} else {
			arm.state.registers[rd] = v
		}
		return
	}

	v := arm.state.registers[rd]
	if rd == rPC {
		v += 4
	}
	if byteTransfer {
		arm.write(addr, memory.Width8, false, v&0xff)
	} else {
		arm.write(addr&^0x03, memory.Width32, false, v)
	}

	if wb {
		arm.writeback(rn, modified)
	}
}

// halfwordAddress calculates the transfer address and the written back
// address for the halfword and doubleword transfers.
func (arm *ARM) halfwordAddress(opcode uint32) (addr uint32, modified uint32, wb bool) {
	pre := opcode&0x01000000 == 0x01000000
	up := opcode&0x00800000 == 0x00800000
	immediate := opcode&0x00400000 == 0x00400000
	writeback := opcode&0x00200000 == 0x00200000
	rn := (opcode >> 16) & 0x0f

	var offset uint32
	if immediate {
		offset = (opcode>>4)&0xf0 | opcode&0x0f
	} else {
		offset = arm.state.registers[opcode&0x0f]
	}

	base := arm.state.registers[rn]
	modified = base - offset
	if up {
		modified = base + offset
	}

	addr = base
	if pre {
		addr = modified
	}

	return addr, modified, !pre || writeback
}

// "4.10 Halfword and Signed Data Transfer" in the "ARM7TDMI Data Sheet".
func (arm *ARM) armHalfwordTransfer(opcode uint32) {
	load := opcode&0x00100000 == 0x00100000
	rn := (opcode >> 16) & 0x0f
	rd := (opcode >> 12) & 0x0f
	sh := (opcode >> 5) & 0x03

	addr, modified, wb := arm.halfwordAddress(opcode)

	if load {
		var v uint32
		switch sh {
		case 0b01:
			v = arm.readHalfword(addr)
		case 0b10:
			v = arm.readSignedByte(addr)
		case 0b11:
			v = arm.readSignedHalfword(addr)
		}

		if wb {
			arm.writeback(rn, modified)
		}

		arm.iCycle(1)

		if rd == rPC {
			arm.loadPC(v)
		} else {
			arm.state.registers[rd] = v
		}
		return
	}

	v := arm.state.registers[rd]
	if rd == rPC {
		v += 4
	}
	arm.write(addr&^0x01, memory.Width16, false, v&0xffff)

	if wb {
		arm.writeback(rn, modified)
	}
}

// LDRD and STRD. ARMv5TE only. the destination register must be even.
func (arm *ARM) armDoublewordTransfer(opcode uint32) {
	store := opcode&0x20 == 0x20
	rn := (opcode >> 16) & 0x0f
	rd := (opcode >> 12) & 0x0f

	if rd&0x01 == 0x01 {
		arm.undefined(opcode)
		return
	}

	addr, modified, wb := arm.halfwordAddress(opcode)
	addr &^= 0x03

	if store {
		lo := arm.state.registers[rd]
		hi := arm.state.registers[rd+1]
		if rd+1 == rPC {
			hi += 4
		}
		arm.write(addr, memory.Width32, false, lo)
		arm.write(addr+4, memory.Width32, true, hi)
		if wb {
			arm.writeback(rn, modified)
		}
		return
	}

	lo := arm.read(addr, memory.Width32, false)
	hi := arm.read(addr+4, memory.Width32, true)
	if wb {
		arm.writeback(rn, modified)
	}
	arm.iCycle(1)

	arm.state.registers[rd] = lo
	if rd+1 == rPC {
		arm.loadPC(hi)
	} else {
		arm.state.registers[rd+1] = hi
	}
}

// "4.11 Block Data Transfer" in the "ARM7TDMI Data Sheet".
func (arm *ARM) armBlockTransfer(opcode uint32) {
	pre := opcode&0x01000000 == 0x01000000
	up := opcode&0x00800000 == 0x00800000
	psr := opcode&0x00400000 == 0x00400000
	writeback := opcode&0x00200000 == 0x00200000
	load := opcode&0x00100000 == 0x00100000
	rn := (opcode >> 16) & 0x0f

	arm.blockTransfer(rn, opcode&0xffff, pre, up, psr, writeback, load)
}

// "4.4 Branch and Branch with Link" in the "ARM7TDMI Data Sheet".
func (arm *ARM) armBranch(opcode uint32) {
	offset := uint32(int32(opcode<<8) >> 6)
	if opcode&0x01000000 == 0x01000000 {
		arm.state.registers[rLR] = arm.state.executingPC + 4
	}
	arm.branch(arm.state.registers[rPC] + offset)
}

// BLX with an immediate offset. ARMv5TE only. always changes to thumb.
func (arm *ARM) armBranchLinkExchangeImmediate(opcode uint32) {
	offset := uint32(int32(opcode<<8) >> 6)
	if opcode&0x01000000 == 0x01000000 {
		offset += 2
	}
	arm.state.registers[rLR] = arm.state.executingPC + 4
	arm.branchExchange((arm.state.registers[rPC] + offset) | 0x01)
}

// "4.3 Branch and Exchange" in the "ARM7TDMI Data Sheet".
func (arm *ARM) armBranchExchange(opcode uint32) {
	arm.branchExchange(arm.state.registers[opcode&0x0f])
}

// BLX with a register. ARMv5TE only.
func (arm *ARM) armBranchLinkExchange(opcode uint32) {
	target := arm.state.registers[opcode&0x0f]
	arm.state.registers[rLR] = arm.state.executingPC + 4
	arm.branchExchange(target)
}

// "4.13 Software Interrupt" in the "ARM7TDMI Data Sheet".
func (arm *ARM) armSoftwareInterrupt(_ uint32) {
	arm.exception(SoftwareInterrupt, arm.state.executingPC+4)
}

// BKPT. ARMv5TE only. there is no debug hardware so the instruction causes a
// prefetch abort.
func (arm *ARM) armBreakpoint(_ uint32) {
	arm.exception(PrefetchAbort, arm.state.executingPC+4)
}

// CLZ. ARMv5TE only.
func (arm *ARM) armCountLeadingZeros(opcode uint32) {
	rd := (opcode >> 12) & 0x0f
	arm.state.registers[rd] = uint32(bits.LeadingZeros32(arm.state.registers[opcode&0x0f]))
}

// saturate a value to the range of a signed 32bit integer. returns true if the
// value was saturated.
func saturate(v int64) (uint32, bool) {
	if v > math.MaxInt32 {
		return 0x7fffffff, true
	}
	if v < math.MinInt32 {
		return 0x80000000, true
	}
	return uint32(int32(v)), false
}

// QADD, QSUB, QDADD and QDSUB. ARMv5TE only.
func (arm *ARM) armSaturatingArithmetic(opcode uint32) {
	op := (opcode >> 21) & 0x03
	rn := (opcode >> 16) & 0x0f
	rd := (opcode >> 12) & 0x0f
	rm := opcode & 0x0f

	a := int64(int32(arm.state.registers[rm]))
	b := int64(int32(arm.state.registers[rn]))

	// doubling variants
	if op&0x02 == 0x02 {
		d, sat := saturate(b * 2)
		b = int64(int32(d))
		if sat {
			arm.state.status.saturation = true
		}
	}

	r := a + b
	if op&0x01 == 0x01 {
		r = a - b
	}

	v, sat := saturate(r)
	if sat {
		arm.state.status.saturation = true
	}
	arm.state.registers[rd] = v
}

// the top or bottom halfword of a value, sign extended.
func halfword(v uint32, top bool) int64 {
	if top {
		return int64(int16(v >> 16))
	}
	return int64(int16(v))
}

// SMLAxy, SMLAWy, SMULWy, SMLALxy and SMULxy. ARMv5TE only.
func (arm *ARM) armSignedMultiply(opcode uint32) {
	op := (opcode >> 21) & 0x03
	rd := (opcode >> 16) & 0x0f
	rn := (opcode >> 12) & 0x0f
	rs := (opcode >> 8) & 0x0f
	rm := opcode & 0x0f
	x := opcode&0x20 == 0x20
	y := opcode&0x40 == 0x40

	rmVal := arm.state.registers[rm]
	rsVal := arm.state.registers[rs]

	// accumulation sets the Q flag on overflow but the result is not
	// saturated
	accumulate := func(p int64) uint32 {
		r := p + int64(int32(arm.state.registers[rn]))
		if r != int64(int32(r)) {
			arm.state.status.saturation = true
		}
		return uint32(r)
	}

	switch op {
	case 0b00:
		// SMLAxy
		arm.state.registers[rd] = accumulate(halfword(rmVal, x) * halfword(rsVal, y))

	case 0b01:
		// the top 32 bits of the 48bit product
		p := int64(int32((int64(int32(rmVal)) * halfword(rsVal, y)) >> 16))
		if x {
			// SMULWy
			arm.state.registers[rd] = uint32(p)
		} else {
			// SMLAWy
			arm.state.registers[rd] = accumulate(p)
		}

	case 0b10:
		// SMLALxy. rd is the high word and rn the low word of the accumulator
		acc := uint64(arm.state.registers[rd])<<32 | uint64(arm.state.registers[rn])
		acc += uint64(halfword(rmVal, x) * halfword(rsVal, y))
		arm.state.registers[rn] = uint32(acc)
		arm.state.registers[rd] = uint32(acc >> 32)
		arm.iCycle(1)

	case 0b11:
		// SMULxy
		arm.state.registers[rd] = uint32(halfword(rmVal, x) * halfword(rsVal, y))
	}
}
