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

package ipc

// FIFODepth is the number of words each FIFO can hold.
const FIFODepth = 16

// FIFO is a fixed size queue of words.
type FIFO struct {
	Words [FIFODepth]uint32
	Head  int
	Len   int
}

// Empty returns true if there are no words in the queue.
func (f *FIFO) Empty() bool {
	return f.Len == 0
}

// Full returns true if no more words can be added.
func (f *FIFO) Full() bool {
	return f.Len == FIFODepth
}

// Push a word onto the end of the queue. Returns false if the queue is full.
func (f *FIFO) Push(v uint32) bool {
	if f.Full() {
		return false
	}
	f.Words[(f.Head+f.Len)%FIFODepth] = v
	f.Len++
	return true
}

// Pop the word at the front of the queue. Returns false if the queue is
// empty.
func (f *FIFO) Pop() (uint32, bool) {
	if f.Empty() {
		return 0, false
	}
	v := f.Words[f.Head]
	f.Head = (f.Head + 1) % FIFODepth
	f.Len--
	return v, true
}

// Front returns the word at the front of the queue without removing it.
func (f *FIFO) Front() (uint32, bool) {
	if f.Empty() {
		return 0, false
	}
	return f.Words[f.Head], true
}

// Clear the queue.
func (f *FIFO) Clear() {
	f.Head = 0
	f.Len = 0
}
