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

package iomap

// Latch is a plain register file for ranges of the I/O region that are not
// emulated by the core. Values written are remembered and can be read back.
type Latch struct {
	values [lowSize / 4]uint32

	// called after every write to the latch
	OnWrite func(addr uint32, value uint32)
}

// ReadRegister implements the Handler interface.
func (l *Latch) ReadRegister(addr uint32) uint32 {
	return l.Value(addr)
}

// WriteRegister implements the Handler interface.
func (l *Latch) WriteRegister(addr uint32, value uint32, mask uint32) {
	i := (addr - lowStart) >> 2
	if i >= uint32(len(l.values)) {
		return
	}
	l.values[i] = (l.values[i] &^ mask) | (value & mask)
	if l.OnWrite != nil {
		l.OnWrite(addr, l.values[i])
	}
}

// Value returns the current value of the latched register word.
func (l *Latch) Value(addr uint32) uint32 {
	i := (addr - lowStart) >> 2
	if i >= uint32(len(l.values)) {
		return 0
	}
	return l.values[i]
}

// LatchState is the serialisable state of a Latch.
type LatchState struct {
	Values []uint32
}

// Snapshot returns a copy of the latched values.
func (l *Latch) Snapshot() LatchState {
	s := LatchState{Values: make([]uint32, len(l.values))}
	copy(s.Values, l.values[:])
	return s
}

// Restore latched values.
func (l *Latch) Restore(s LatchState) {
	clear(l.values[:])
	copy(l.values[:], s.Values)
}
