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
	"fmt"
)

// Queue receives input events from other goroutines. The events are
// collected by the emulation with Drain().
type Queue struct {
	pushed chan Event
}

// NewQueue is the preferred method of initialisation for the Queue type.
func NewQueue() *Queue {
	return &Queue{
		pushed: make(chan Event, 64),
	}
}

// PushEvent pushes an Event onto the queue. Will drop the event and return an
// error if the queue is full. Safe to call from any goroutine.
func (q *Queue) PushEvent(ev Event) error {
	select {
	case q.pushed <- ev:
	default:
		return fmt.Errorf("input: pushed event queue is full: input dropped")
	}
	return nil
}

// Drain applies every queued event to the set of keys and returns the result.
// The boolean return value is false if there were no events.
func (q *Queue) Drain(ks Keys) (Keys, bool) {
	var changed bool
	for {
		select {
		case ev := <-q.pushed:
			ks = ev.Apply(ks)
			changed = true
		default:
			return ks, changed
		}
	}
}
