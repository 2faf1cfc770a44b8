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

package scheduler

import (
	"container/heap"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jetsetilly/gopherds/hardware/memory"
)

// Core is the interface to a CPU core required by the scheduler.
type Core interface {
	// Step executes a single instruction and returns the number of system
	// cycles consumed
	Step() int

	// IsHalted returns true if the core is waiting for an interrupt
	IsHalted() bool
}

// Actor identifies what was run by an iteration of the scheduler.
type Actor int

// List of valid Actor values. The values of the core actors are the same as
// the memory.Core values.
const (
	ActorARM9 Actor = iota
	ActorARM7
	ActorEvent
)

func (a Actor) String() string {
	switch a {
	case ActorARM9:
		return "ARM9"
	case ActorARM7:
		return "ARM7"
	case ActorEvent:
		return "event"
	}
	return "unknown"
}

// Scheduler orders the execution of the cores and the scheduled events.
type Scheduler struct {
	cores    [memory.NumCores]Core
	handlers [NumKinds]Handler

	clocks [memory.NumCores]uint64
	now    uint64

	events  eventHeap
	pending []Event
	nextID  ID
	seq     uint64

	// OnSettle is called at the end of every iteration with the current time
	OnSettle func(now uint64)
}

// NewScheduler is the preferred method of initialisation for the Scheduler
// type.
func NewScheduler(arm9 Core, arm7 Core) *Scheduler {
	sch := &Scheduler{
		cores: [memory.NumCores]Core{arm9, arm7},
	}
	sch.Reset()
	return sch
}

func (sch *Scheduler) String() string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("now=%d ARM9=%d ARM7=%d", sch.now, sch.clocks[memory.ARM9], sch.clocks[memory.ARM7]))
	for _, ev := range sch.Events() {
		s.WriteString(fmt.Sprintf("\n%d: %s (%d) @ %d", ev.ID, ev.Kind, ev.Arg, ev.Deadline))
	}
	return s.String()
}

// Reset the scheduler to time zero and remove all events. Handlers are kept.
func (sch *Scheduler) Reset() {
	sch.clocks = [memory.NumCores]uint64{}
	sch.now = 0
	sch.events = eventHeap{index: make(map[ID]int)}
	sch.pending = sch.pending[:0]
	sch.nextID = 1
	sch.seq = 0
}

// SetHandler sets the function to call for events of the kind.
func (sch *Scheduler) SetHandler(kind Kind, h Handler) {
	sch.handlers[kind] = h
}

// Now returns the time of the most recently started unit of work.
func (sch *Scheduler) Now() uint64 {
	return sch.now
}

// Clock returns the number of system cycles consumed by the core.
func (sch *Scheduler) Clock(core memory.Core) uint64 {
	return sch.clocks[core]
}

// Schedule an event to fire at the absolute time given in system cycles.
// Scheduling an event in the past is an error and will cause a panic.
func (sch *Scheduler) Schedule(deadline uint64, kind Kind, arg uint64) ID {
	if deadline < sch.now {
		panic(fmt.Sprintf("scheduler: time has moved backwards: event %s at %d scheduled at %d", kind, deadline, sch.now))
	}
	if kind >= NumKinds {
		panic(fmt.Sprintf("scheduler: unknown event kind %d", kind))
	}

	ev := Event{
		ID:       sch.nextID,
		Deadline: deadline,
		Kind:     kind,
		Arg:      arg,
		Seq:      sch.seq,
	}
	sch.nextID++
	sch.seq++
	sch.pending = append(sch.pending, ev)
	return ev.ID
}

// ScheduleIn schedules an event to fire a number of system cycles from now.
// The delay must be positive.
func (sch *Scheduler) ScheduleIn(delay int, kind Kind, arg uint64) ID {
	if delay <= 0 {
		panic(fmt.Sprintf("scheduler: non-positive delay (%d) for event %s", delay, kind))
	}
	return sch.Schedule(sch.now+uint64(delay), kind, arg)
}

// Cancel a scheduled event. Returns false if the event does not exist or has
// already fired.
func (sch *Scheduler) Cancel(id ID) bool {
	if i, ok := sch.events.index[id]; ok {
		heap.Remove(&sch.events, i)
		return true
	}
	for i, ev := range sch.pending {
		if ev.ID == id {
			sch.pending = slices.Delete(sch.pending, i, i+1)
			return true
		}
	}
	return false
}

// Events returns a copy of all scheduled events in the order that they will
// fire.
func (sch *Scheduler) Events() []Event {
	evs := make([]Event, 0, len(sch.events.events)+len(sch.pending))
	evs = append(evs, sch.events.events...)
	evs = append(evs, sch.pending...)
	slices.SortFunc(evs, func(a, b Event) int {
		if a.Deadline != b.Deadline {
			if a.Deadline < b.Deadline {
				return -1
			}
			return 1
		}
		if a.Seq < b.Seq {
			return -1
		}
		return 1
	})
	return evs
}

// Stall adds system cycles to a core's clock. The core will not be selected
// until the other actors have caught up.
func (sch *Scheduler) Stall(core memory.Core, cycles int) {
	if cycles < 0 {
		panic(fmt.Sprintf("scheduler: negative stall (%d) for %s", cycles, core))
	}
	sch.clocks[core] += uint64(cycles)
}

// advance the scheduler's notion of the current time.
func (sch *Scheduler) advance(t uint64) {
	if t < sch.now {
		panic(fmt.Sprintf("scheduler: time has moved backwards (%d to %d)", sch.now, t))
	}
	sch.now = t
}

// choose the next actor.
func (sch *Scheduler) choose() Actor {
	next := ActorEvent
	var t uint64

	for c := range sch.cores {
		if sch.cores[c].IsHalted() {
			continue
		}
		if next == ActorEvent || sch.clocks[c] < t {
			next = Actor(c)
			t = sch.clocks[c]
		}
	}

	if len(sch.events.events) > 0 {
		ev := sch.events.events[0]
		if next == ActorEvent || ev.Deadline <= t {
			return ActorEvent
		}
	}

	if next == ActorEvent {
		panic("scheduler: all cores halted with no pending events")
	}

	return next
}

// Iterate runs a single unit of work and returns the actor that was run.
func (sch *Scheduler) Iterate() Actor {
	sch.flush()
	actor := sch.choose()

	switch actor {
	case ActorEvent:
		ev := heap.Pop(&sch.events).(Event)
		sch.advance(ev.Deadline)

		// time passes for halted cores
		for c := range sch.cores {
			if sch.cores[c].IsHalted() && sch.clocks[c] < ev.Deadline {
				sch.clocks[c] = ev.Deadline
			}
		}

		if h := sch.handlers[ev.Kind]; h != nil {
			h(ev.Arg)
		}

	default:
		c := memory.Core(actor)
		sch.advance(sch.clocks[c])
		cycles := sch.cores[c].Step()
		if cycles <= 0 {
			panic(fmt.Sprintf("scheduler: %s step returned %d cycles", c, cycles))
		}
		sch.clocks[c] += uint64(cycles)
	}

	sch.settle()

	return actor
}

// make pending events visible to choose().
func (sch *Scheduler) flush() {
	for _, ev := range sch.pending {
		heap.Push(&sch.events, ev)
	}
	sch.pending = sch.pending[:0]
}

func (sch *Scheduler) settle() {
	sch.flush()

	if sch.OnSettle != nil {
		sch.OnSettle(sch.now)
	}

	// a core that has just been woken resumes at the current time
	for c := range sch.cores {
		if !sch.cores[c].IsHalted() && sch.clocks[c] < sch.now {
			sch.clocks[c] = sch.now
		}
	}
}

// StepCore runs the scheduler until the core has executed one instruction.
// Other actors run as normal in the meantime. Returns false if the core did
// not execute an instruction because it is halted.
func (sch *Scheduler) StepCore(core memory.Core) bool {
	for {
		if sch.cores[core].IsHalted() {
			return false
		}
		if sch.Iterate() == Actor(core) {
			return true
		}
	}
}

// Run the scheduler until the context is cancelled or the continue function
// returns false. The continue function is called after every iteration with
// the actor that was run.
func (sch *Scheduler) Run(ctx context.Context, cont func(Actor) bool) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !cont(sch.Iterate()) {
			return nil
		}
	}
}

// State is the serialisable state of the scheduler.
type State struct {
	Clocks [memory.NumCores]uint64
	Now    uint64
	Events []Event
	NextID ID
	Seq    uint64
}

// Snapshot returns the state of the scheduler. Events are stored in firing
// order.
func (sch *Scheduler) Snapshot() State {
	return State{
		Clocks: sch.clocks,
		Now:    sch.now,
		Events: sch.Events(),
		NextID: sch.nextID,
		Seq:    sch.seq,
	}
}

// Restore the state of the scheduler.
func (sch *Scheduler) Restore(s State) {
	sch.clocks = s.Clocks
	sch.now = s.Now
	sch.nextID = s.NextID
	sch.seq = s.Seq
	sch.pending = sch.pending[:0]
	sch.events = eventHeap{
		events: make([]Event, 0, len(s.Events)),
		index:  make(map[ID]int, len(s.Events)),
	}
	for _, ev := range s.Events {
		heap.Push(&sch.events, ev)
	}
}
