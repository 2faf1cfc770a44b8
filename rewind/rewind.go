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

package rewind

import (
	"context"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware"
	"github.com/jetsetilly/gopherds/hardware/scheduler"
)

// RewindError is the error pattern for a failed return to an earlier frame.
const RewindError = "rewind: %v"

// entry in the history.
type entry struct {
	frame int
	state *hardware.State
}

// Rewind contains a history of console states.
type Rewind struct {
	ds    *hardware.DS
	Prefs *Preferences

	// circular array of entries. start is the index of the earliest entry
	// and there are n entries in the history. curr is the logical position of
	// the entry most recently added or plumbed in
	entries []entry
	start   int
	n       int
	curr    int

	// a new frame has started. resolved on the next call to Check()
	newFrame bool
}

// NewRewind is the preferred method of initialisation for the Rewind type.
// The rewind preferences are stored alongside the console preferences.
//
// The history starts with a snapshot of the current state of the console.
func NewRewind(ds *hardware.DS) (*Rewind, error) {
	r := &Rewind{ds: ds}

	var err error
	r.Prefs, err = newPreferences(r, ds.Prefs.Path())
	if err != nil {
		return nil, err
	}

	r.ds.LCD.AddSubscriber(r)
	r.allocate()

	return r, nil
}

// allocate the history array and reset.
func (r *Rewind) allocate() {
	n, _ := r.Prefs.MaxEntries.Get().(int)
	r.entries = make([]entry, max(n, 1))
	r.Reset()
}

// Reset removes all entries and takes a snapshot of the current state of the
// console. It should be called whenever the console is reset or a savestate
// is loaded.
func (r *Rewind) Reset() {
	clear(r.entries)
	r.start = 0
	r.n = 0
	r.curr = -1
	r.newFrame = false
	r.append()
}

// OnHBlank implements the lcd.Subscriber interface.
func (r *Rewind) OnHBlank(_ int) {
}

// OnVBlank implements the lcd.Subscriber interface.
func (r *Rewind) OnVBlank(_ int) {
	r.newFrame = true
}

// Check should be called between iterations of the scheduler, for example
// from the continue function given to hardware.DS.Run(). A snapshot is taken
// if a new frame has started and the frame number agrees with the snapshot
// frequency.
func (r *Rewind) Check() {
	if !r.newFrame {
		return
	}
	r.newFrame = false

	freq, _ := r.Prefs.Freq.Get().(int)
	if r.ds.LCD.Frame()%max(freq, 1) != 0 {
		return
	}

	r.append()
}

// idx converts a logical position to an index into the entries array.
func (r *Rewind) idx(pos int) int {
	return (r.start + pos) % len(r.entries)
}

func (r *Rewind) at(pos int) entry {
	return r.entries[r.idx(pos)]
}

// append a snapshot after the current position. Entries after the current
// position are forgotten.
func (r *Rewind) append() {
	r.n = r.curr + 1

	// forget the earliest entry if the history is full
	if r.n == len(r.entries) {
		r.entries[r.start] = entry{}
		r.start = r.idx(1)
		r.n--
	}

	r.entries[r.idx(r.n)] = entry{
		frame: r.ds.LCD.Frame(),
		state: r.ds.Snapshot(),
	}
	r.curr = r.n
	r.n++
}

// Frames of the current state of the rewind system.
type Frames struct {
	Start   int
	End     int
	Current int
}

// GetFrames returns the earliest and latest frames in the history and the
// current frame of the console.
func (r *Rewind) GetFrames() Frames {
	return Frames{
		Start:   r.at(0).frame,
		End:     r.at(r.n - 1).frame,
		Current: r.ds.LCD.Frame(),
	}
}

// GotoLast returns the console to the latest entry in the history.
func (r *Rewind) GotoLast() error {
	e := r.at(r.n - 1)
	return r.plumb(context.Background(), r.n-1, e.frame)
}

// GotoFrame returns the console to the start of VBlank in the requested
// frame. Requests outside of the history are clamped to the earliest and
// latest entries. Returns the frame number the console was returned to.
//
// Entries after the frame are forgotten as soon as a new entry is added.
func (r *Rewind) GotoFrame(ctx context.Context, frame int) (int, error) {
	if fn := r.at(0).frame; frame <= fn {
		return fn, r.plumb(ctx, 0, fn)
	}
	if fn := r.at(r.n - 1).frame; frame >= fn {
		return fn, r.plumb(ctx, r.n-1, fn)
	}

	// binary search for the latest entry at or before the frame
	s := 0
	e := r.n - 1
	for s < e {
		m := (s + e + 1) / 2
		if r.at(m).frame <= frame {
			s = m
		} else {
			e = m - 1
		}
	}

	return frame, r.plumb(ctx, s, frame)
}

// plumb in the entry at the logical position and run the emulation until the
// frame has been reached. Breakpoints are ignored while catching up.
func (r *Rewind) plumb(ctx context.Context, pos int, frame int) error {
	r.curr = pos

	if err := r.ds.Restore(r.at(pos).state); err != nil {
		return curated.Errorf(RewindError, err)
	}

	if r.ds.LCD.Frame() < frame {
		err := r.ds.Sched.Run(ctx, func(scheduler.Actor) bool {
			return r.ds.LCD.Frame() < frame
		})
		if err != nil {
			return curated.Errorf(RewindError, err)
		}
	}

	r.newFrame = false

	return nil
}
