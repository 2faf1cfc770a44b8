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

package hardware

import (
	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware/cpu/arm"
	"github.com/jetsetilly/gopherds/hardware/cpu/cp15"
	"github.com/jetsetilly/gopherds/hardware/dma"
	"github.com/jetsetilly/gopherds/hardware/dsslot"
	"github.com/jetsetilly/gopherds/hardware/input"
	"github.com/jetsetilly/gopherds/hardware/ipc"
	"github.com/jetsetilly/gopherds/hardware/irq"
	"github.com/jetsetilly/gopherds/hardware/lcd"
	"github.com/jetsetilly/gopherds/hardware/maths"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/hardware/memory/iomap"
	"github.com/jetsetilly/gopherds/hardware/scheduler"
	"github.com/jetsetilly/gopherds/hardware/timers"
)

// InvalidState is the error pattern for a State that cannot be restored.
const InvalidState = "hardware: invalid state: %v"

// ProcessorState is the serialisable state of a Processor.
type ProcessorState struct {
	CPU    arm.State
	Mem    memory.MapState
	IRQ    irq.State
	Timers timers.State
	DMA    dma.State
	Latch  iomap.LatchState
}

// State is the complete serialisable state of the console. The cartridge
// data and the BIOS images are not included, with the exception of the
// stage of the cartridge's command protocol.
type State struct {
	Shared memory.SharedState
	ARM9   ProcessorState
	ARM7   ProcessorState
	CP15   cp15.State

	LCD    lcd.State
	IPC    ipc.State
	Keypad input.State
	Maths  maths.State
	Slot   dsslot.SlotState
	System SystemState

	Scheduler scheduler.State
}

func (p *Processor) snapshot() ProcessorState {
	return ProcessorState{
		CPU:    p.CPU.Snapshot(),
		Mem:    p.Mem.Snapshot(),
		IRQ:    p.IRQ.Snapshot(),
		Timers: p.Timers.Snapshot(),
		DMA:    p.DMA.Snapshot(),
		Latch:  p.Latch.Snapshot(),
	}
}

func (p *Processor) restore(s ProcessorState) {
	p.Mem.Restore(s.Mem)
	p.CPU.Restore(s.CPU)
	p.IRQ.Restore(s.IRQ)
	p.Timers.Restore(s.Timers)
	p.DMA.Restore(s.DMA)
	p.Latch.Restore(s.Latch)
	p.last = arm.StepResult{}
}

// Snapshot returns a copy of the state of the console.
func (ds *DS) Snapshot() *State {
	return &State{
		Shared:    ds.Shared.Snapshot(),
		ARM9:      ds.ARM9.snapshot(),
		ARM7:      ds.ARM7.snapshot(),
		CP15:      ds.CP15.Snapshot(),
		LCD:       ds.LCD.Snapshot(),
		IPC:       ds.IPC.Snapshot(),
		Keypad:    ds.Keypad.Snapshot(),
		Maths:     ds.Maths.Snapshot(),
		Slot:      ds.Slot.Snapshot(),
		System:    ds.sys,
		Scheduler: ds.Sched.Snapshot(),
	}
}

// Validate checks that the state can be restored. Restore() calls Validate()
// itself but the function is useful for checking a state before committing
// to it.
func (ds *DS) Validate(s *State) error {
	if s == nil {
		return curated.Errorf(InvalidState, "nil state")
	}
	if err := ds.Shared.Validate(s.Shared); err != nil {
		return curated.Errorf(InvalidState, err)
	}
	var timerEvents [memory.NumCores]int
	for _, ev := range s.Scheduler.Events {
		if ev.Kind >= scheduler.NumKinds {
			return curated.Errorf(InvalidState, "unknown event kind")
		}
		if ev.Deadline < s.Scheduler.Now {
			return curated.Errorf(InvalidState, "event is in the past")
		}
		if ev.Kind == scheduler.TimerOverflow {
			if ev.Arg >= uint64(memory.NumCores) {
				return curated.Errorf(InvalidState, "timer event for unknown core")
			}
			timerEvents[ev.Arg]++
			if timerEvents[ev.Arg] > 1 {
				return curated.Errorf(InvalidState, "more than one timer event for a core")
			}
		}
	}
	for _, c := range [...]struct {
		p  *Processor
		ps ProcessorState
	}{{ds.ARM9, s.ARM9}, {ds.ARM7, s.ARM7}} {
		p, ps := c.p, c.ps
		if ps.Timers.Last > s.Scheduler.Now {
			return curated.Errorf(InvalidState, "timers are ahead of the scheduler")
		}
		if err := ps.Timers.Validate(); err != nil {
			return curated.Errorf(InvalidState, err)
		}
		if err := p.DMA.Validate(ps.DMA); err != nil {
			return curated.Errorf(InvalidState, err)
		}
	}
	if err := s.Slot.Validate(); err != nil {
		return curated.Errorf(InvalidState, err)
	}
	return nil
}

// Restore the console to a previously snapshotted state. The state is
// validated first and the console is left unchanged if it is not valid.
func (ds *DS) Restore(s *State) error {
	if err := ds.Validate(s); err != nil {
		return err
	}

	ds.abort = nil
	ds.sys = s.System
	ds.Shared.Restore(s.Shared)

	// CP15 changes the ARM9 memory map and vector base
	ds.CP15.Restore(s.CP15)
	ds.ARM9.restore(s.ARM9)
	ds.ARM7.restore(s.ARM7)

	ds.LCD.Restore(s.LCD)
	ds.IPC.Restore(s.IPC)
	ds.Keypad.Restore(s.Keypad)
	ds.Maths.Restore(s.Maths)
	ds.Slot.Restore(s.Slot)

	ds.Sched.Restore(s.Scheduler)
	ds.relink()

	return nil
}

// relink the pending timer events of the restored scheduler to the
// processors.
func (ds *DS) relink() {
	ds.ARM9.timerEvent = 0
	ds.ARM7.timerEvent = 0
	for _, ev := range ds.Sched.Events() {
		if ev.Kind == scheduler.TimerOverflow {
			ds.Processor(memory.Core(ev.Arg)).timerEvent = ev.ID
		}
	}

	// states without a timer event for running timers are given one
	for _, p := range [...]*Processor{ds.ARM9, ds.ARM7} {
		if p.timerEvent == 0 {
			p.Timers.CatchUp(ds.Sched.Now())
			p.scheduleTimers()
		}
	}
}
