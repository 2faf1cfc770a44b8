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
	"context"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/hardware/scheduler"
)

// Step runs a single iteration of the scheduler. Returns the actor that ran
// and any error raised by a core during the iteration.
func (ds *DS) Step() (scheduler.Actor, error) {
	a := ds.Sched.Iterate()
	return a, ds.takeAbort()
}

func (ds *DS) takeAbort() error {
	err := ds.abort
	ds.abort = nil
	return err
}

// Run sets the emulation running until the context is cancelled or the
// continue function returns false. The continue function is called after every
// iteration of the scheduler and can be nil.
//
// Run also stops with an error when a core raises one or when the next
// instruction of a core is at a breakpoint. Breakpoints are not checked before
// the first iteration so that Run() can be called again to resume from a
// breakpoint.
func (ds *DS) Run(ctx context.Context, cont func(scheduler.Actor) bool) error {
	if cont == nil {
		cont = func(scheduler.Actor) bool { return true }
	}

	var stop error

	err := ds.Sched.Run(ctx, func(a scheduler.Actor) bool {
		if stop = ds.takeAbort(); stop != nil {
			return false
		}

		if a != scheduler.ActorEvent {
			p := ds.Processor(memory.Core(a))
			if len(p.breakpoints) > 0 {
				pc := p.CPU.PC()
				if p.breakpoints[pc] {
					stop = curated.Errorf(Breakpoint, p.ID, pc)
					return false
				}
			}
		}

		return cont(a)
	})

	if stop != nil {
		return stop
	}
	return err
}

// RunForFrameCount runs the emulation until the specified number of frames
// have been completed. Useful for regression tests and performance
// measurement.
func (ds *DS) RunForFrameCount(ctx context.Context, numFrames int) error {
	target := ds.LCD.Frame() + numFrames
	return ds.Run(ctx, func(scheduler.Actor) bool {
		return ds.LCD.Frame() < target
	})
}

// RunForCycles runs the emulation until the system clock has advanced by at
// least the number of cycles.
func (ds *DS) RunForCycles(ctx context.Context, cycles uint64) error {
	target := ds.Sched.Now() + cycles
	return ds.Run(ctx, func(scheduler.Actor) bool {
		return ds.Sched.Now() < target
	})
}
