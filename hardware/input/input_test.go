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

package input_test

import (
	"testing"

	"github.com/jetsetilly/gopherds/hardware/input"
	"github.com/jetsetilly/gopherds/hardware/irq"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/test"
)

type raiser struct {
	raised []irq.Source
}

func (r *raiser) Raise(src irq.Source) {
	r.raised = append(r.raised, src)
}

func TestKeyinput(t *testing.T) {
	r9 := &raiser{}
	r7 := &raiser{}
	kp := input.NewKeypad(r9, r7)
	p9 := kp.Port(memory.ARM9)
	p7 := kp.Port(memory.ARM7)

	test.ExpectEquality(t, p9.ReadRegister(input.KEYINPUT), uint32(0x03ff))

	kp.SetHeld(input.Keys(0).Set(input.A).Set(input.Up).Set(input.X))
	test.ExpectEquality(t, p9.ReadRegister(input.KEYINPUT), uint32(0x03be))
	test.ExpectEquality(t, p7.ReadRegister(input.KEYINPUT), uint32(0x03be))

	// EXTKEYIN is only visible to the ARM7
	test.ExpectEquality(t, p9.ReadRegister(0x04000134), uint32(0))
	test.ExpectEquality(t, p7.ReadRegister(0x04000134)>>16, uint32(0x007e))
}

func TestKeypadIRQ(t *testing.T) {
	r9 := &raiser{}
	r7 := &raiser{}
	kp := input.NewKeypad(r9, r7)
	p9 := kp.Port(memory.ARM9)

	// interrupt when both A and B are held
	p9.WriteRegister(input.KEYINPUT, 0xc003<<16, 0xffff0000)
	test.ExpectEquality(t, p9.ReadRegister(input.KEYINPUT)>>16, uint32(0xc003))

	kp.SetHeld(input.Keys(0).Set(input.A))
	test.ExpectEquality(t, len(r9.raised), 0)
	kp.SetHeld(input.Keys(0).Set(input.A).Set(input.B))
	test.ExpectEquality(t, len(r9.raised), 1)
	test.ExpectEquality(t, r9.raised[0], irq.Keypad)

	// either key in OR mode
	p9.WriteRegister(input.KEYINPUT, 0x4003<<16, 0xffff0000)
	test.ExpectEquality(t, len(r9.raised), 2)
	test.ExpectEquality(t, len(r7.raised), 0)
}

func TestHinge(t *testing.T) {
	r9 := &raiser{}
	r7 := &raiser{}
	kp := input.NewKeypad(r9, r7)

	kp.SetHeld(input.Keys(0).Set(input.Hinge))
	test.ExpectEquality(t, len(r7.raised), 0)
	kp.SetHeld(0)
	test.ExpectEquality(t, len(r7.raised), 1)
	test.ExpectEquality(t, r7.raised[0], irq.Hinge)
}

func TestQueue(t *testing.T) {
	q := input.NewQueue()
	ks, changed := q.Drain(0)
	test.ExpectEquality(t, changed, false)
	test.ExpectEquality(t, ks, input.Keys(0))

	test.ExpectSuccess(t, q.PushEvent(input.Event{Key: input.Start, Down: true}))
	test.ExpectSuccess(t, q.PushEvent(input.Event{Key: input.L, Down: true}))
	test.ExpectSuccess(t, q.PushEvent(input.Event{Key: input.Start, Down: false}))
	ks, changed = q.Drain(0)
	test.ExpectEquality(t, changed, true)
	test.ExpectEquality(t, ks.String(), "L")

	for i := 0; i < 64; i++ {
		_ = q.PushEvent(input.Event{Key: input.A, Down: true})
	}
	test.ExpectFailure(t, q.PushEvent(input.Event{Key: input.A, Down: true}))
}

func TestParseKey(t *testing.T) {
	k, err := input.ParseKey("select")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, k, input.Select)
	_, err = input.ParseKey("turbo")
	test.ExpectFailure(t, err)
}
