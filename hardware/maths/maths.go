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

package maths

import (
	"fmt"
	"math"

	"github.com/jetsetilly/gopherds/hardware/clocks"
)

// register addresses.
const (
	DIVCNT       = 0x04000280
	DIVNUMER     = 0x04000290
	DIVDENOM     = 0x04000298
	DIVRESULT    = 0x040002a0
	DIVREMRESULT = 0x040002a8
	SQRTCNT      = 0x040002b0
	SQRTRESULT   = 0x040002b4
	SQRTPARAM    = 0x040002b8

	// first and last addresses of the register block
	Start = DIVCNT
	End   = SQRTPARAM + 7
)

// control register bits.
const (
	divMode   = 0x0003
	divByZero = 0x4000
	busy      = 0x8000
	sqrtMode  = 0x0001
)

// time taken by each operation in system cycles.
const (
	div32Cycles = 18 * clocks.BusCycle
	div64Cycles = 34 * clocks.BusCycle
	sqrtCycles  = 13 * clocks.BusCycle
)

// State is the serialisable state of the maths unit.
type State struct {
	DIVCNT    uint16
	Numer     uint64
	Denom     uint64
	Quotient  uint64
	Remainder uint64
	DivDone   uint64

	SQRTCNT  uint16
	Param    uint64
	Root     uint32
	SqrtDone uint64
}

// Maths is the division and square root hardware.
type Maths struct {
	state State

	// returns the current time in system cycles
	now func() uint64
}

// NewMaths is the preferred method of initialisation for the Maths type.
func NewMaths(now func() uint64) *Maths {
	return &Maths{now: now}
}

func (m *Maths) String() string {
	return fmt.Sprintf("div: %d / %d = %d rem %d, sqrt: %d = %d",
		int64(m.state.Numer), int64(m.state.Denom),
		int64(m.state.Quotient), int64(m.state.Remainder),
		m.state.Param, m.state.Root)
}

// Reset the maths unit.
func (m *Maths) Reset() {
	m.state = State{}
}

func (m *Maths) divide() {
	st := &m.state

	cycles := div64Cycles
	switch st.DIVCNT & divMode {
	case 0:
		cycles = div32Cycles
		num := int32(st.Numer)
		den := int32(st.Denom)
		switch {
		case den == 0:
			if num < 0 {
				st.Quotient = 0xffffffff00000001
			} else {
				st.Quotient = 0x00000000ffffffff
			}
			st.Remainder = uint64(int64(num))
		case num == math.MinInt32 && den == -1:
			st.Quotient = 0x80000000
			st.Remainder = 0
		default:
			st.Quotient = uint64(int64(num / den))
			st.Remainder = uint64(int64(num % den))
		}
	default:
		num := int64(st.Numer)
		var den int64
		if st.DIVCNT&divMode == 2 {
			den = int64(st.Denom)
		} else {
			den = int64(int32(st.Denom))
		}
		switch {
		case den == 0:
			if num < 0 {
				st.Quotient = 1
			} else {
				st.Quotient = math.MaxUint64
			}
			st.Remainder = uint64(num)
		case num == math.MinInt64 && den == -1:
			st.Quotient = 0x8000000000000000
			st.Remainder = 0
		default:
			st.Quotient = uint64(num / den)
			st.Remainder = uint64(num % den)
		}
	}

	// the division by zero flag looks at the full 64bit denominator
	// regardless of mode
	if st.Denom == 0 {
		st.DIVCNT |= divByZero
	} else {
		st.DIVCNT &^= divByZero
	}

	st.DivDone = m.now() + uint64(cycles)
}

func (m *Maths) sqrt() {
	st := &m.state
	if st.SQRTCNT&sqrtMode == sqrtMode {
		st.Root = isqrt(st.Param)
	} else {
		st.Root = isqrt(st.Param & 0xffffffff)
	}
	st.SqrtDone = m.now() + sqrtCycles
}

// isqrt returns the integer square root of v, rounded down.
func isqrt(v uint64) uint32 {
	var root, bit uint64
	bit = 1 << 62
	for bit > v {
		bit >>= 2
	}
	for bit != 0 {
		if v >= root+bit {
			v -= root + bit
			root = root>>1 + bit
		} else {
			root >>= 1
		}
		bit >>= 2
	}
	return uint32(root)
}

// write the 32bit half of a 64bit register.
func write64(reg *uint64, addr uint32, value uint32, mask uint32) {
	shift := (addr & 0x04) * 8
	m := uint64(mask) << shift
	*reg = (*reg &^ m) | ((uint64(value) << shift) & m)
}

func read64(reg uint64, addr uint32) uint32 {
	return uint32(reg >> ((addr & 0x04) * 8))
}

// ReadRegister implements the iomap.Handler interface.
func (m *Maths) ReadRegister(addr uint32) uint32 {
	st := &m.state
	switch addr &^ 0x07 {
	case DIVCNT:
		if addr == DIVCNT {
			v := uint32(st.DIVCNT)
			if m.now() < st.DivDone {
				v |= busy
			}
			return v
		}
	case DIVNUMER:
		return read64(st.Numer, addr)
	case DIVDENOM:
		return read64(st.Denom, addr)
	case DIVRESULT:
		return read64(st.Quotient, addr)
	case DIVREMRESULT:
		return read64(st.Remainder, addr)
	case SQRTCNT:
		if addr == SQRTCNT {
			v := uint32(st.SQRTCNT)
			if m.now() < st.SqrtDone {
				v |= busy
			}
			return v
		}
		return st.Root
	case SQRTPARAM:
		return read64(st.Param, addr)
	}
	return 0
}

// WriteRegister implements the iomap.Handler interface.
func (m *Maths) WriteRegister(addr uint32, value uint32, mask uint32) {
	st := &m.state
	switch addr &^ 0x07 {
	case DIVCNT:
		if addr == DIVCNT {
			v := uint16(value&mask) & divMode
			st.DIVCNT = (st.DIVCNT &^ (uint16(mask) & divMode)) | v
			m.divide()
		}
	case DIVNUMER:
		write64(&st.Numer, addr, value, mask)
		m.divide()
	case DIVDENOM:
		write64(&st.Denom, addr, value, mask)
		m.divide()
	case SQRTCNT:
		if addr == SQRTCNT {
			v := uint16(value&mask) & sqrtMode
			st.SQRTCNT = (st.SQRTCNT &^ (uint16(mask) & sqrtMode)) | v
			m.sqrt()
		}
	case SQRTPARAM:
		write64(&st.Param, addr, value, mask)
		m.sqrt()
	}
}

// Snapshot returns the state of the maths unit.
func (m *Maths) Snapshot() State {
	return m.state
}

// Restore the state of the maths unit.
func (m *Maths) Restore(s State) {
	m.state = s
}
