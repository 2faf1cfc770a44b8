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

// Kind identifies the handler of an event. The meaning of the event's
// argument depends on the kind.
type Kind uint8

// List of valid event kinds.
const (
	HBlank Kind = iota
	NextLine
	SlotWordReady
	InputChange
	TimerOverflow
	Test

	NumKinds
)

func (k Kind) String() string {
	switch k {
	case HBlank:
		return "hblank"
	case NextLine:
		return "next line"
	case SlotWordReady:
		return "slot word ready"
	case InputChange:
		return "input change"
	case TimerOverflow:
		return "timer overflow"
	case Test:
		return "test"
	}
	return "unknown"
}

// ID uniquely identifies a scheduled event.
type ID uint64

// Event is a single scheduled event.
type Event struct {
	ID       ID
	Deadline uint64
	Kind     Kind
	Arg      uint64

	// insertion order, used to break ties between events with the same
	// deadline
	Seq uint64
}

// Handler is called when an event fires with the event's argument.
type Handler func(arg uint64)

// eventHeap implements heap.Interface. the index map is kept up to date as
// items are moved.
type eventHeap struct {
	events []Event
	index  map[ID]int
}

func (h *eventHeap) Len() int {
	return len(h.events)
}

func (h *eventHeap) Less(i, j int) bool {
	a, b := h.events[i], h.events[j]
	if a.Deadline == b.Deadline {
		return a.Seq < b.Seq
	}
	return a.Deadline < b.Deadline
}

func (h *eventHeap) Swap(i, j int) {
	h.events[i], h.events[j] = h.events[j], h.events[i]
	h.index[h.events[i].ID] = i
	h.index[h.events[j].ID] = j
}

func (h *eventHeap) Push(x any) {
	ev := x.(Event)
	h.index[ev.ID] = len(h.events)
	h.events = append(h.events, ev)
}

func (h *eventHeap) Pop() any {
	n := len(h.events) - 1
	ev := h.events[n]
	h.events = h.events[:n]
	delete(h.index, ev.ID)
	return ev
}
