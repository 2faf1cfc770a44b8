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

package timers

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware/clocks"
	"github.com/jetsetilly/gopherds/hardware/irq"
)

// NumTimers is the number of timers per core.
const NumTimers = 4

// Base address of the timer registers. Each timer has one word: the low half
// is the counter (read) or reload value (write) and the high half is the
// control register.
const Base = 0x04000100

// control register bits.
const (
	ctrlPrescaler = 0x0003
	ctrlCountUp   = 0x0004
	ctrlIRQ       = 0x0040
	ctrlStart     = 0x0080
	ctrlMask      = ctrlPrescaler | ctrlCountUp | ctrlIRQ | ctrlStart
)

// InvalidState is the error pattern for a State that can not be restored.
const InvalidState = "timers: invalid state: %s"

// prescaler values in bus cycles.
var prescalers = [4]int{1, 64, 256, 1024}

// Interrupts is the interface to the interrupt controller.
type Interrupts interface {
	Raise(src irq.Source)
}

// Timer is the state of a single timer.
type Timer struct {
	Reload  uint16
	Counter uint16
	Control uint16

	// bus cycles counted towards the next increment
	Prescale int
}

func (t Timer) running() bool {
	return t.Control&ctrlStart == ctrlStart
}

func (t Timer) String() string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("%04x (reload %04x) ", t.Counter, t.Reload))
	if !t.running() {
		s.WriteString("stopped")
		return s.String()
	}
	if t.Control&ctrlCountUp == ctrlCountUp {
		s.WriteString("count-up")
	} else {
		s.WriteString(fmt.Sprintf("/%d", prescalers[t.Control&ctrlPrescaler]))
	}
	if t.Control&ctrlIRQ == ctrlIRQ {
		s.WriteString(" irq")
	}
	return s.String()
}

// add increments to the counter and return the number of overflows.
func (t *Timer) add(inc int) int {
	if inc == 0 {
		return 0
	}

	toOverflow := 0x10000 - int(t.Counter)
	if inc < toOverflow {
		t.Counter += uint16(inc)
		return 0
	}

	inc -= toOverflow
	period := 0x10000 - int(t.Reload)
	t.Counter = t.Reload + uint16(inc%period)
	return 1 + inc/period
}

// State is the serialisable state of the timers.
type State struct {
	Timers [NumTimers]Timer

	// system cycles not yet amounting to a bus cycle
	Residue int

	// the time of the last call to CatchUp()
	Last uint64
}

// Validate checks that the state can be restored.
func (s State) Validate() error {
	if s.Residue < 0 || s.Residue >= clocks.BusCycle {
		return curated.Errorf(InvalidState, fmt.Sprintf("residue of %d cycles", s.Residue))
	}
	for i, t := range s.Timers {
		if p := prescalers[t.Control&ctrlPrescaler]; t.Prescale < 0 || t.Prescale >= p {
			return curated.Errorf(InvalidState, fmt.Sprintf("timer%d prescale of %d", i, t.Prescale))
		}
	}
	return nil
}

// Timers is the set of four timers for a single core.
type Timers struct {
	state State
	irq   Interrupts

	// called with the timer number and the number of overflows
	OnOverflow func(n int, count int)
}

// NewTimers is the preferred method of initialisation for the Timers type.
func NewTimers(irq Interrupts) *Timers {
	return &Timers{irq: irq}
}

func (tim *Timers) String() string {
	var s strings.Builder
	for i, t := range tim.state.Timers {
		s.WriteString(fmt.Sprintf("timer%d: %s\n", i, t))
	}
	return s.String()
}

// Reset all timers.
func (tim *Timers) Reset() {
	tim.state = State{}
}

// Timer returns a copy of the numbered timer.
func (tim *Timers) Timer(n int) Timer {
	return tim.state.Timers[n]
}

// CatchUp advances the timers to the time given in system cycles.
func (tim *Timers) CatchUp(now uint64) {
	if now < tim.state.Last {
		panic(fmt.Sprintf("timers: time has moved backwards (%d to %d)", tim.state.Last, now))
	}
	elapsed := now - tim.state.Last
	tim.state.Last = now
	tim.Tick(int(elapsed))
}

// Tick advances all running timers by the number of system cycles.
func (tim *Timers) Tick(elapsed int) {
	cycles := tim.state.Residue + elapsed
	bus := cycles / clocks.BusCycle
	tim.state.Residue = cycles % clocks.BusCycle

	overflows := 0
	for i := range tim.state.Timers {
		t := &tim.state.Timers[i]
		if !t.running() {
			overflows = 0
			continue
		}

		var inc int
		if i > 0 && t.Control&ctrlCountUp == ctrlCountUp {
			inc = overflows
		} else {
			p := prescalers[t.Control&ctrlPrescaler]
			t.Prescale += bus
			inc = t.Prescale / p
			t.Prescale %= p
		}

		overflows = t.add(inc)
		if overflows > 0 {
			if t.Control&ctrlIRQ == ctrlIRQ {
				tim.irq.Raise(irq.Timer(i))
			}
			if tim.OnOverflow != nil {
				tim.OnOverflow(i, overflows)
			}
		}
	}
}

// NextOverflow returns the time in system cycles of the next overflow of a
// timer driven by its prescaler. Count-up timers can only overflow at the
// same time as the timer below them. Returns false if no such timer is
// running.
func (tim *Timers) NextOverflow() (uint64, bool) {
	var next uint64
	var ok bool

	for i, t := range tim.state.Timers {
		if !t.running() || (i > 0 && t.Control&ctrlCountUp == ctrlCountUp) {
			continue
		}
		p := prescalers[t.Control&ctrlPrescaler]
		bus := (0x10000-int(t.Counter))*p - t.Prescale
		at := tim.state.Last + uint64(bus*clocks.BusCycle-tim.state.Residue)
		if !ok || at < next {
			next = at
			ok = true
		}
	}

	return next, ok
}

// ReadRegister implements the iomap.Handler interface. The timers must have
// been brought up to date before the call.
func (tim *Timers) ReadRegister(addr uint32) uint32 {
	n := (addr - Base) >> 2
	if n >= NumTimers {
		return 0
	}
	t := tim.state.Timers[n]
	return uint32(t.Counter) | uint32(t.Control)<<16
}

// WriteRegister implements the iomap.Handler interface. The timers must have
// been brought up to date before the call.
func (tim *Timers) WriteRegister(addr uint32, value uint32, mask uint32) {
	n := (addr - Base) >> 2
	if n >= NumTimers {
		return
	}
	t := &tim.state.Timers[n]

	if mask&0x0000ffff != 0 {
		r := uint32(t.Reload)
		r = (r &^ mask) | (value & mask)
		t.Reload = uint16(r)
	}

	if mask&0xffff0000 != 0 {
		c := uint32(t.Control) << 16
		c = (c &^ mask) | (value & mask)
		ctrl := uint16(c>>16) & ctrlMask

		// starting the timer reloads the counter
		if !t.running() && ctrl&ctrlStart == ctrlStart {
			t.Counter = t.Reload
			t.Prescale = 0
		}
		t.Control = ctrl
	}
}

// Snapshot returns the state of the timers.
func (tim *Timers) Snapshot() State {
	return tim.state
}

// Restore the state of the timers.
func (tim *Timers) Restore(s State) {
	tim.state = s
}
