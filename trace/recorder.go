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
	"fmt"
	"io"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware"
	"github.com/jetsetilly/gopherds/hardware/cpu/arm"
	"github.com/jetsetilly/gopherds/hardware/memory"
)

// hook adds a function to the console's OnStep callback, keeping any callback
// already installed. The returned function removes the hook.
func hook(ds *hardware.DS, f func(memory.Core, arm.StepResult)) func() {
	prev := ds.OnStep
	ds.OnStep = func(core memory.Core, r arm.StepResult) {
		if prev != nil {
			prev(core, r)
		}
		f(core, r)
	}
	return func() {
		ds.OnStep = prev
	}
}

// Recorder writes every instruction executed by the console.
type Recorder struct {
	ds     *hardware.DS
	output *bufio.Writer
	unhook func()
	err    error

	count  int
	cycles [memory.NumCores]uint64
}

// NewRecorder is the preferred method of initialisation for the Recorder
// type. Recording starts immediately.
func NewRecorder(ds *hardware.DS, output io.Writer) (*Recorder, error) {
	rec := &Recorder{
		ds:     ds,
		output: bufio.NewWriter(output),
	}

	if err := rec.writeHeader(); err != nil {
		return nil, err
	}

	rec.unhook = hook(ds, rec.step)
	return rec, nil
}

func (rec *Recorder) writeHeader() error {
	cart := "no cartridge"
	if rom := rec.ds.Slot.ROM(); rom != nil {
		cart = rom.Header.String()
	}
	_, err := fmt.Fprintf(rec.output, "# gopherds trace\n# %s\n# %s\n# %s\n", cart,
		rec.ds.BIOSName(memory.ARM9), rec.ds.BIOSName(memory.ARM7))
	if err != nil {
		return curated.Errorf(WriteError, err)
	}
	return nil
}

func (rec *Recorder) step(core memory.Core, r arm.StepResult) {
	if rec.err != nil {
		return
	}
	e := newEntry(rec.ds, core, r)
	if _, err := fmt.Fprintln(rec.output, e.String()); err != nil {
		rec.err = curated.Errorf(WriteError, err)
		return
	}
	rec.count++
	rec.cycles[core] += uint64(r.Cycles)
}

// Count returns the number of instructions recorded.
func (rec *Recorder) Count() int {
	return rec.count
}

// Cycles returns the total cost of the instructions recorded for the core.
func (rec *Recorder) Cycles(core memory.Core) uint64 {
	return rec.cycles[core]
}

// Err returns the first error encountered while recording.
func (rec *Recorder) Err() error {
	return rec.err
}

// End the recording. The recorder can not be used afterwards.
func (rec *Recorder) End() error {
	rec.unhook()
	if rec.err != nil {
		return rec.err
	}
	if err := rec.output.Flush(); err != nil {
		return curated.Errorf(WriteError, err)
	}
	return nil
}
