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

package timers_test

import (
	"testing"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware/irq"
	"github.com/jetsetilly/gopherds/hardware/timers"
	"github.com/jetsetilly/gopherds/test"
)

type raiser struct {
	raised []irq.Source
}

func (r *raiser) Raise(src irq.Source) {
	r.raised = append(r.raised, src)
}

// start a timer with a single 32bit write.
func start(tim *timers.Timers, n int, reload uint16, control uint16) {
	tim.WriteRegister(timers.Base+uint32(n)*4, uint32(reload)|uint32(control|0x80)<<16, 0xffffffff)
}

func TestPrescaler(t *testing.T) {
	r := &raiser{}
	tim := timers.NewTimers(r)

	start(tim, 0, 0x0000, 0x01)
	test.ExpectEquality(t, tim.Timer(0).Counter, uint16(0))

	// 64 bus cycles is 128 system cycles
	tim.Tick(127)
	test.ExpectEquality(t, tim.Timer(0).Counter, uint16(0))
	tim.Tick(1)
	test.ExpectEquality(t, tim.Timer(0).Counter, uint16(1))

	// the counter is visible in the low half of the register
	test.ExpectEquality(t, tim.ReadRegister(timers.Base)&0xffff, uint32(1))
	test.ExpectEquality(t, tim.ReadRegister(timers.Base)>>16, uint32(0x81))
}

func TestOverflow(t *testing.T) {
	r := &raiser{}
	tim := timers.NewTimers(r)

	start(tim, 1, 0xfff0, 0x40)

	// 16 increments to overflow, then reload
	tim.Tick(2 * 16)
	test.ExpectEquality(t, tim.Timer(1).Counter, uint16(0xfff0))
	test.ExpectEquality(t, len(r.raised), 1)
	test.ExpectEquality(t, r.raised[0], irq.Timer1)

	// two and a half periods
	var overflows int
	tim.OnOverflow = func(n int, count int) {
		overflows += count
	}
	tim.Tick(2 * 40)
	test.ExpectEquality(t, overflows, 2)
	test.ExpectEquality(t, tim.Timer(1).Counter, uint16(0xfff8))
}

func TestNextOverflow(t *testing.T) {
	r := &raiser{}
	tim := timers.NewTimers(r)

	_, ok := tim.NextOverflow()
	test.ExpectFailure(t, ok)

	// sixteen bus cycles is 32 system cycles
	start(tim, 0, 0xfff0, 0x40)
	at, ok := tim.NextOverflow()
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, at, uint64(32))

	// the time of the overflow does not move as the timer counts, including
	// when the time falls between bus cycles
	tim.CatchUp(3)
	at, _ = tim.NextOverflow()
	test.ExpectEquality(t, at, uint64(32))
	tim.CatchUp(20)
	at, _ = tim.NextOverflow()
	test.ExpectEquality(t, at, uint64(32))

	tim.CatchUp(32)
	test.ExpectEquality(t, len(r.raised), 1)
	at, _ = tim.NextOverflow()
	test.ExpectEquality(t, at, uint64(64))

	// a count-up timer overflows with the timer below it
	start(tim, 1, 0x0000, 0x04)
	at, _ = tim.NextOverflow()
	test.ExpectEquality(t, at, uint64(64))

	// the earliest overflow is chosen
	start(tim, 2, 0xffff, 0x01)
	at, _ = tim.NextOverflow()
	test.ExpectEquality(t, at, uint64(64))
	tim.WriteRegister(timers.Base, 0, 0xffff0000)
	at, _ = tim.NextOverflow()
	test.ExpectEquality(t, at, uint64(32+128))

	// prescaler progress is taken into account
	tim.CatchUp(132)
	at, _ = tim.NextOverflow()
	test.ExpectEquality(t, at, uint64(32+128))

	// a count-up timer with nothing to count can not overflow
	tim.WriteRegister(timers.Base+8, 0, 0xffff0000)
	_, ok = tim.NextOverflow()
	test.ExpectFailure(t, ok)
}

func TestValidate(t *testing.T) {
	tim := timers.NewTimers(&raiser{})
	start(tim, 3, 0, 0x03)
	tim.CatchUp(1001)
	test.ExpectSuccess(t, tim.Snapshot().Validate())

	s := tim.Snapshot()
	s.Residue = 2
	test.ExpectSuccess(t, curated.Is(s.Validate(), timers.InvalidState))

	s = tim.Snapshot()
	s.Timers[3].Prescale = 1024
	test.ExpectSuccess(t, curated.Is(s.Validate(), timers.InvalidState))

	s = tim.Snapshot()
	s.Timers[0].Prescale = -1
	test.ExpectSuccess(t, curated.Is(s.Validate(), timers.InvalidState))
}

func TestCascade(t *testing.T) {
	r := &raiser{}
	tim := timers.NewTimers(r)

	start(tim, 0, 0xfffe, 0x00)
	start(tim, 1, 0x0000, 0x04)
	start(tim, 2, 0xfffd, 0x44)

	// timer 0 overflows every two bus cycles. timer 1 increments once per
	// overflow
	tim.Tick(2 * 2)
	test.ExpectEquality(t, tim.Timer(1).Counter, uint16(1))

	// many overflows in a single batch
	tim.Tick(2 * 2 * 1000)
	test.ExpectEquality(t, tim.Timer(1).Counter, uint16(1001))
	test.ExpectEquality(t, tim.Timer(2).Counter, uint16(0xfffd))

	// timer 1 overflowing increments timer 2, which overflows after three
	tim.WriteRegister(timers.Base+4, 0, 0xffff0000)
	start(tim, 1, 0xfffe, 0x04)
	tim.Tick(2 * 2 * 2 * 3)
	test.ExpectEquality(t, tim.Timer(2).Counter, uint16(0xfffd))
	test.ExpectEquality(t, r.raised[len(r.raised)-1], irq.Timer2)
}

func TestCascadeStoppedTimer(t *testing.T) {
	r := &raiser{}
	tim := timers.NewTimers(r)

	// timer 1 is stopped so timer 2 never sees an overflow from timer 0
	start(tim, 0, 0xffff, 0x00)
	start(tim, 2, 0x0000, 0x04)
	tim.Tick(2 * 100)
	test.ExpectEquality(t, tim.Timer(2).Counter, uint16(0))
}

func TestCatchUp(t *testing.T) {
	r := &raiser{}
	tim := timers.NewTimers(r)
	start(tim, 0, 0, 0)

	// odd cycles are carried over
	tim.CatchUp(3)
	test.ExpectEquality(t, tim.Timer(0).Counter, uint16(1))
	tim.CatchUp(5)
	test.ExpectEquality(t, tim.Timer(0).Counter, uint16(2))

	defer func() {
		test.ExpectInequality(t, recover(), nil)
	}()
	tim.CatchUp(4)
}

func TestSnapshot(t *testing.T) {
	r := &raiser{}
	tim := timers.NewTimers(r)
	start(tim, 3, 0x1234, 0x02)
	s := tim.Snapshot()
	tim.Reset()
	test.ExpectEquality(t, tim.Timer(3).Reload, uint16(0))
	tim.Restore(s)
	test.ExpectEquality(t, tim.Timer(3).Reload, uint16(0x1234))
	test.ExpectEquality(t, tim.Timer(3).String(), "1234 (reload 1234) /256")
}
