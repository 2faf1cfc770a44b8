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

package input

import (
	"github.com/jetsetilly/gopherds/hardware/irq"
	"github.com/jetsetilly/gopherds/hardware/memory"
)

// register addresses. KEYCNT is the high half of the KEYINPUT word and
// EXTKEYIN is in the high half of the word that follows.
const (
	KEYINPUT = 0x04000130
	KEYCNT   = 0x04000132
	EXTKEYIN = 0x04000136
)

// KEYCNT bits.
const (
	cntMask   = 0x03ff
	cntIRQ    = 0x4000
	cntAnd    = 0x8000
	cntStored = cntMask | cntIRQ | cntAnd
)

// EXTKEYIN bits that always read as one.
const extAlwaysSet = 0x0034

// Interrupts is the interface to an interrupt controller.
type Interrupts interface {
	Raise(src irq.Source)
}

// State is the serialisable state of the keypad.
type State struct {
	Held   Keys
	KEYCNT [memory.NumCores]uint16
}

// Keypad is the keypad hardware shared by both cores.
type Keypad struct {
	state State
	irq   [memory.NumCores]Interrupts
}

// NewKeypad is the preferred method of initialisation for the Keypad type.
func NewKeypad(arm9 Interrupts, arm7 Interrupts) *Keypad {
	return &Keypad{
		irq: [memory.NumCores]Interrupts{arm9, arm7},
	}
}

func (kp *Keypad) String() string {
	return kp.state.Held.String()
}

// Reset the keypad. All keys are released and the lid is open.
func (kp *Keypad) Reset() {
	kp.state = State{}
}

// Held returns the keys currently held.
func (kp *Keypad) Held() Keys {
	return kp.state.Held
}

// SetHeld changes the set of keys being held and raises any interrupts that
// result from the change.
func (kp *Keypad) SetHeld(ks Keys) {
	opened := kp.state.Held.Held(Hinge) && !ks.Held(Hinge)
	kp.state.Held = ks
	if opened {
		kp.irq[memory.ARM7].Raise(irq.Hinge)
	}
	kp.check(memory.ARM9)
	kp.check(memory.ARM7)
}

// check the keypad interrupt condition for the core.
func (kp *Keypad) check(core memory.Core) {
	cnt := kp.state.KEYCNT[core]
	if cnt&cntIRQ == 0 {
		return
	}
	mask := Keys(cnt & cntMask)
	held := kp.state.Held & mask

	var fire bool
	if cnt&cntAnd == cntAnd {
		fire = mask != 0 && held == mask
	} else {
		fire = held != 0
	}
	if fire {
		kp.irq[core].Raise(irq.Keypad)
	}
}

// keyinput returns the value of KEYINPUT, in which a zero bit means the key
// is held.
func (kp *Keypad) keyinput() uint32 {
	return uint32(^kp.state.Held) & cntMask
}

func (kp *Keypad) extkeyin() uint32 {
	v := uint32(extAlwaysSet)
	held := kp.state.Held
	if !held.Held(X) {
		v |= 0x01
	}
	if !held.Held(Y) {
		v |= 0x02
	}
	if !held.Held(Debug) {
		v |= 0x08
	}
	if !held.Held(Pen) {
		v |= 0x40
	}
	if held.Held(Hinge) {
		v |= 0x80
	}
	return v
}

// Snapshot returns the state of the keypad.
func (kp *Keypad) Snapshot() State {
	return kp.state
}

// Restore the state of the keypad.
func (kp *Keypad) Restore(s State) {
	kp.state = s
}

// Port returns the register interface for the core.
func (kp *Keypad) Port(core memory.Core) *Port {
	return &Port{kp: kp, core: core}
}

// Port is one core's view of the keypad. It implements the iomap.Handler
// interface.
type Port struct {
	kp   *Keypad
	core memory.Core
}

// ReadRegister implements the iomap.Handler interface.
func (p *Port) ReadRegister(addr uint32) uint32 {
	switch addr {
	case KEYINPUT:
		return p.kp.keyinput() | uint32(p.kp.state.KEYCNT[p.core])<<16
	case EXTKEYIN &^ 0x03:
		if p.core == memory.ARM7 {
			return p.kp.extkeyin() << 16
		}
	}
	return 0
}

// WriteRegister implements the iomap.Handler interface. Only KEYCNT is
// writable.
func (p *Port) WriteRegister(addr uint32, value uint32, mask uint32) {
	if addr != KEYINPUT || mask&0xffff0000 == 0 {
		return
	}
	cnt := uint32(p.kp.state.KEYCNT[p.core]) << 16
	cnt = (cnt &^ mask) | (value & mask)
	p.kp.state.KEYCNT[p.core] = uint16(cnt>>16) & cntStored
	p.kp.check(p.core)
}
