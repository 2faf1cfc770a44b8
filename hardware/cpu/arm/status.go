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
	"strings"
)

// the bits of the CPSR and SPSR registers.
const (
	psrNegative   = 1 << 31
	psrZero       = 1 << 30
	psrCarry      = 1 << 29
	psrOverflow   = 1 << 28
	psrSaturation = 1 << 27
	psrIRQDisable = 1 << 7
	psrFIQDisable = 1 << 6
	psrThumb      = 1 << 5
	psrMode       = 0x1f
)

// the status register is the unpacked form of the CPSR.
type status struct {
	negative   bool
	zero       bool
	carry      bool
	overflow   bool
	saturation bool

	irqDisable bool
	fiqDisable bool

	// executing thumb instructions
	thumb bool

	mode Mode
}

func (sr status) String() string {
	s := strings.Builder{}

	flag := func(b bool, set rune, unset rune) {
		if b {
			s.WriteRune(set)
		} else {
			s.WriteRune(unset)
		}
	}

	flag(sr.negative, 'N', 'n')
	flag(sr.zero, 'Z', 'z')
	flag(sr.carry, 'C', 'c')
	flag(sr.overflow, 'V', 'v')
	flag(sr.saturation, 'Q', 'q')
	s.WriteRune(' ')
	flag(sr.irqDisable, 'I', 'i')
	flag(sr.fiqDisable, 'F', 'f')
	flag(sr.thumb, 'T', 't')
	s.WriteRune(' ')
	s.WriteString(sr.mode.String())

	return s.String()
}

// value packs the status into the CPSR format.
func (sr status) value() uint32 {
	v := uint32(sr.mode) & psrMode
	if sr.negative {
		v |= psrNegative
	}
	if sr.zero {
		v |= psrZero
	}
	if sr.carry {
		v |= psrCarry
	}
	if sr.overflow {
		v |= psrOverflow
	}
	if sr.saturation {
		v |= psrSaturation
	}
	if sr.irqDisable {
		v |= psrIRQDisable
	}
	if sr.fiqDisable {
		v |= psrFIQDisable
	}
	if sr.thumb {
		v |= psrThumb
	}
	return v
}

// setValue unpacks a value in the CPSR format. the mode field is copied
// without the register banks being changed, see ARM.writeCPSR() for that.
func (sr *status) setValue(v uint32) {
	sr.negative = v&psrNegative == psrNegative
	sr.zero = v&psrZero == psrZero
	sr.carry = v&psrCarry == psrCarry
	sr.overflow = v&psrOverflow == psrOverflow
	sr.saturation = v&psrSaturation == psrSaturation
	sr.irqDisable = v&psrIRQDisable == psrIRQDisable
	sr.fiqDisable = v&psrFIQDisable == psrFIQDisable
	sr.thumb = v&psrThumb == psrThumb
	sr.mode = Mode(v & psrMode)
}

func (sr *status) isNegative(a uint32) {
	sr.negative = a&0x80000000 == 0x80000000
}

func (sr *status) isZero(a uint32) {
	sr.zero = a == 0x00
}

func (sr *status) isOverflow(a, b, c uint32) {
	d := (a & 0x7fffffff) + (b & 0x7fffffff) + c
	d >>= 31
	e := (d & 0x01) + ((a >> 31) & 0x01) + ((b >> 31) & 0x01)
	e >>= 1
	sr.overflow = (d^e)&0x01 == 0x01
}

func (sr *status) isCarry(a, b, c uint32) {
	d := (a & 0x7fffffff) + (b & 0x7fffffff) + c
	d = (d >> 31) + (a >> 31) + (b >> 31)
	sr.carry = d&0x02 == 0x02
}

func (sr *status) setCarry(a bool) {
	sr.carry = a
}

// conditional execution information from "4.2 The Condition Field" in the
// "ARM7TDMI Data Sheet".
func (sr *status) condition(cond uint32) bool {
	switch cond {
	case 0b0000:
		// equal
		return sr.zero
	case 0b0001:
		// not equal
		return !sr.zero
	case 0b0010:
		// carry set
		return sr.carry
	case 0b0011:
		// carry clear
		return !sr.carry
	case 0b0100:
		// minus
		return sr.negative
	case 0b0101:
		// plus
		return !sr.negative
	case 0b0110:
		// overflow
		return sr.overflow
	case 0b0111:
		// no overflow
		return !sr.overflow
	case 0b1000:
		// unsigned higher C==1 and Z==0
		return sr.carry && !sr.zero
	case 0b1001:
		// unsigned lower or same C==0 or Z==1
		return !sr.carry || sr.zero
	case 0b1010:
		// signed greater than or equal N==V
		return sr.negative == sr.overflow
	case 0b1011:
		// signed less than N!=V
		return sr.negative != sr.overflow
	case 0b1100:
		// signed greater than Z==0 and N==V
		return !sr.zero && sr.negative == sr.overflow
	case 0b1101:
		// signed less than or equal Z==1 or N!=V
		return sr.zero || sr.negative != sr.overflow
	case 0b1110:
		// always
		return true
	}

	// the "never" condition. ARMv5 instructions that use this condition
	// field are decoded before the condition is checked
	return false
}

// list of condition mnemonics indexed by condition value.
var conditionMnemonic = [16]string{
	"EQ", "NE", "CS", "CC", "MI", "PL", "VS", "VC",
	"HI", "LS", "GE", "LT", "GT", "LE", "", "NV",
}
