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

package trace

import (
	"bufio"
	"io"
	"strings"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware"
	"github.com/jetsetilly/gopherds/hardware/cpu/arm"
	"github.com/jetsetilly/gopherds/hardware/memory"
)

// Comparer checks every instruction executed by the console against a trace.
// Comparison stops at the first difference.
type Comparer struct {
	ds     *hardware.DS
	input  *bufio.Scanner
	unhook func()

	line    int
	matched int
	cycles  [memory.NumCores]uint64
	err     error
}

// NewComparer is the preferred method of initialisation for the Comparer
// type. Comparison starts immediately.
func NewComparer(ds *hardware.DS, input io.Reader) *Comparer {
	cmp := &Comparer{
		ds:    ds,
		input: bufio.NewScanner(input),
	}
	cmp.unhook = hook(ds, cmp.step)
	return cmp
}

// next returns the next entry in the trace, skipping header and blank lines.
func (cmp *Comparer) next() (Entry, bool) {
	for cmp.input.Scan() {
		cmp.line++
		l := strings.TrimSpace(cmp.input.Text())
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		e, err := ParseEntry(l, cmp.line)
		if err != nil {
			cmp.err = err
			return e, false
		}
		return e, true
	}
	if err := cmp.input.Err(); err != nil {
		cmp.err = curated.Errorf(ParseError, cmp.line, err)
	} else {
		cmp.err = curated.Errorf(Ended, cmp.line)
	}
	return Entry{}, false
}

func (cmp *Comparer) step(core memory.Core, r arm.StepResult) {
	if cmp.err != nil {
		return
	}

	exp, ok := cmp.next()
	if !ok {
		return
	}

	got := newEntry(cmp.ds, core, r)
	if got != exp {
		cmp.err = curated.Errorf(Mismatch, cmp.line, exp, got)
		return
	}

	cmp.matched++
	cmp.cycles[core] += uint64(r.Cycles)
}

// Err returns the first difference found. Returns nil if there have been no
// differences so far.
func (cmp *Comparer) Err() error {
	return cmp.err
}

// Matched returns the number of instructions that matched the trace.
func (cmp *Comparer) Matched() int {
	return cmp.matched
}

// Cycles returns the total cost of the matched instructions for the core.
func (cmp *Comparer) Cycles(core memory.Core) uint64 {
	return cmp.cycles[core]
}

// End the comparison. Returns the first difference if there was one.
func (cmp *Comparer) End() error {
	cmp.unhook()
	return cmp.err
}
