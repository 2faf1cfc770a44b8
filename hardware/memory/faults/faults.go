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

// Package faults records the memory accesses that the fail-open policy of
// the memory map has quietly absorbed. Reads of unmapped memory return the
// open bus value and writes to unmapped or read-only memory are dropped. The
// emulation continues either way but the log is useful in the debugger.
package faults

import (
	"fmt"
	"io"
)

// Category classifies the approximate reason for a memory fault.
type Category string

// List of valid Category values.
const (
	OpenBus      Category = "open bus"
	DroppedWrite Category = "dropped write"
	ReadOnly     Category = "read only"
	NoExecute    Category = "no execute"
	IORegister   Category = "unhandled register"
)

// Entry is a single entry in the fault log.
type Entry struct {
	Category Category

	// addresses related to the fault
	InstructionAddr uint32
	AccessAddr      uint32

	// number of times this specific access has been seen
	Count int
}

func (e Entry) String() string {
	return fmt.Sprintf("%s: %08x (PC: %08x) x%d", e.Category, e.AccessAddr, e.InstructionAddr, e.Count)
}

type key struct {
	category        Category
	instructionAddr uint32
	accessAddr      uint32
}

// Faults is a log of faults for a single core.
type Faults struct {
	entries map[key]*Entry

	// all the entries in the order they first appeared
	Log []*Entry
}

// NewFaults is the preferred method of initialisation for the Faults type.
func NewFaults() *Faults {
	return &Faults{
		entries: make(map[key]*Entry),
	}
}

// Clear all entries from the log.
func (flt *Faults) Clear() {
	clear(flt.entries)
	flt.Log = flt.Log[:0]
}

// WriteLog writes the list of faults in the order they were added.
func (flt *Faults) WriteLog(w io.Writer) {
	for _, e := range flt.Log {
		io.WriteString(w, e.String())
		io.WriteString(w, "\n")
	}
}

// NewEntry adds an entry to the log. It returns true if this is the first time
// the fault has been seen.
func (flt *Faults) NewEntry(category Category, instructionAddr uint32, accessAddr uint32) bool {
	k := key{category: category, instructionAddr: instructionAddr, accessAddr: accessAddr}

	e, found := flt.entries[k]
	if !found {
		e = &Entry{
			Category:        category,
			InstructionAddr: instructionAddr,
			AccessAddr:      accessAddr,
		}
		flt.entries[k] = e
		flt.Log = append(flt.Log, e)
	}
	e.Count++

	return !found
}
