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

package maths_test

import (
	"testing"

	"github.com/jetsetilly/gopherds/hardware/maths"
	"github.com/jetsetilly/gopherds/test"
)

type clock struct {
	now uint64
}

func (c *clock) time() uint64 {
	return c.now
}

func write64(m *maths.Maths, addr uint32, v uint64) {
	m.WriteRegister(addr, uint32(v), 0xffffffff)
	m.WriteRegister(addr+4, uint32(v>>32), 0xffffffff)
}

func read64(m *maths.Maths, addr uint32) uint64 {
	return uint64(m.ReadRegister(addr)) | uint64(m.ReadRegister(addr+4))<<32
}

func TestDivide32(t *testing.T) {
	c := &clock{}
	m := maths.NewMaths(c.time)

	m.WriteRegister(maths.DIVCNT, 0, 0xffff)
	write64(m, maths.DIVNUMER, uint64(0xffffffff_ffffff9c))
	write64(m, maths.DIVDENOM, 7)
	test.ExpectEquality(t, int32(read64(m, maths.DIVRESULT)), int32(-14))
	test.ExpectEquality(t, int32(read64(m, maths.DIVREMRESULT)), int32(-2))

	// the busy flag is set until the result is ready
	test.ExpectEquality(t, m.ReadRegister(maths.DIVCNT)&0x8000, uint32(0x8000))
	c.now = 36
	test.ExpectEquality(t, m.ReadRegister(maths.DIVCNT)&0x8000, uint32(0))

	// division by zero
	write64(m, maths.DIVNUMER, 5)
	write64(m, maths.DIVDENOM, 0)
	test.ExpectEquality(t, read64(m, maths.DIVRESULT), uint64(0x00000000ffffffff))
	test.ExpectEquality(t, read64(m, maths.DIVREMRESULT), uint64(5))
	test.ExpectEquality(t, m.ReadRegister(maths.DIVCNT)&0x4000, uint32(0x4000))

	// overflow
	write64(m, maths.DIVNUMER, 0x80000000)
	write64(m, maths.DIVDENOM, 0xffffffff)
	test.ExpectEquality(t, read64(m, maths.DIVRESULT), uint64(0x80000000))
}

func TestDivide64(t *testing.T) {
	c := &clock{}
	m := maths.NewMaths(c.time)

	m.WriteRegister(maths.DIVCNT, 2, 0xffff)
	write64(m, maths.DIVNUMER, 1<<40)
	write64(m, maths.DIVDENOM, 1<<33)
	test.ExpectEquality(t, read64(m, maths.DIVRESULT), uint64(128))
	test.ExpectEquality(t, read64(m, maths.DIVREMRESULT), uint64(0))

	// 64/32 ignores the high half of the denominator, but the division by
	// zero flag does not
	m.WriteRegister(maths.DIVCNT, 1, 0xffff)
	test.ExpectEquality(t, read64(m, maths.DIVRESULT), ^uint64(0))
	test.ExpectEquality(t, m.ReadRegister(maths.DIVCNT)&0x4000, uint32(0))
	c.now = 100
	test.ExpectEquality(t, m.ReadRegister(maths.DIVCNT), uint32(1))
}

func TestSqrt(t *testing.T) {
	c := &clock{}
	m := maths.NewMaths(c.time)

	write64(m, maths.SQRTPARAM, 1<<32|1000000)
	test.ExpectEquality(t, m.ReadRegister(maths.SQRTRESULT), uint32(1000))

	m.WriteRegister(maths.SQRTCNT, 1, 0xffff)
	test.ExpectEquality(t, m.ReadRegister(maths.SQRTRESULT), uint32(65543))

	write64(m, maths.SQRTPARAM, 0xffffffff_ffffffff)
	test.ExpectEquality(t, m.ReadRegister(maths.SQRTRESULT), uint32(0xffffffff))
	test.ExpectEquality(t, m.ReadRegister(maths.SQRTCNT), uint32(0x8001))
}
