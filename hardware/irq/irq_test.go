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

package irq_test

import (
	"testing"

	"github.com/jetsetilly/gopherds/hardware/irq"
	"github.com/jetsetilly/gopherds/test"
)

func TestMasking(t *testing.T) {
	ctl := irq.NewController(0xffffffff)

	ctl.Raise(irq.Timer0)
	test.ExpectEquality(t, ctl.Flags(), uint32(1<<3))

	// not enabled in IE
	ctl.WriteRegister(irq.IME, 1, 0xffffffff)
	test.ExpectFailure(t, ctl.Pending())
	test.ExpectFailure(t, ctl.Wake())

	// enabled in IE but not the source that is pending
	ctl.WriteRegister(irq.IE, 1<<irq.VBlank, 0xffffffff)
	test.ExpectFailure(t, ctl.Pending())

	ctl.WriteRegister(irq.IE, 1<<irq.Timer0, 0xffffffff)
	test.ExpectSuccess(t, ctl.Pending())

	// IME suppresses all sources but doesn't clear IF
	ctl.WriteRegister(irq.IME, 0, 0xffffffff)
	test.ExpectFailure(t, ctl.Pending())
	test.ExpectSuccess(t, ctl.Wake())
	test.ExpectEquality(t, ctl.Flags(), uint32(1<<3))
}

func TestAcknowledge(t *testing.T) {
	ctl := irq.NewController(0xffffffff)
	ctl.WriteRegister(irq.IME, 1, 0x000000ff)
	ctl.WriteRegister(irq.IE, 0xffffffff, 0xffffffff)

	ctl.Raise(irq.IPCSync)
	ctl.Raise(irq.VBlank)
	test.ExpectEquality(t, ctl.ReadRegister(irq.IF), uint32(1<<16|1))

	// writing zero bits has no effect
	ctl.WriteRegister(irq.IF, 0, 0xffffffff)
	test.ExpectEquality(t, ctl.ReadRegister(irq.IF), uint32(1<<16|1))

	// writing one acknowledges
	ctl.WriteRegister(irq.IF, 1, 0xffffffff)
	test.ExpectEquality(t, ctl.ReadRegister(irq.IF), uint32(1<<16))

	// byte write to the third byte of IF
	ctl.WriteRegister(irq.IF, 0x01<<16, 0xff<<16)
	test.ExpectEquality(t, ctl.ReadRegister(irq.IF), uint32(0))
	test.ExpectFailure(t, ctl.Pending())

	// raising again after acknowledgement is a new edge
	ctl.Raise(irq.VBlank)
	test.ExpectSuccess(t, ctl.Pending())
}

func TestSourceMask(t *testing.T) {
	// sources that don't exist are never raised
	ctl := irq.NewController(0x0000ffff)
	ctl.Raise(irq.WiFi)
	test.ExpectEquality(t, ctl.Flags(), uint32(0))
	ctl.WriteRegister(irq.IE, 0xffffffff, 0xffffffff)
	test.ExpectEquality(t, ctl.Enabled(), uint32(0x0000ffff))
}

func TestSourceNames(t *testing.T) {
	test.ExpectEquality(t, irq.Timer(2).String(), "timer2")
	test.ExpectEquality(t, irq.DMA(3), irq.DMA3)
	test.ExpectEquality(t, irq.Source(14).String(), "irq14")
}

func TestSnapshot(t *testing.T) {
	ctl := irq.NewController(0xffffffff)
	ctl.Raise(irq.Keypad)
	s := ctl.Snapshot()
	ctl.Reset()
	test.ExpectEquality(t, ctl.Flags(), uint32(0))
	ctl.Restore(s)
	test.ExpectEquality(t, ctl.Flags(), uint32(1<<12))
}
