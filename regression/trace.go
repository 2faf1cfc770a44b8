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

package regression

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jetsetilly/gopherds/database"
	"github.com/jetsetilly/gopherds/hardware"
	"github.com/jetsetilly/gopherds/hardware/scheduler"
	"github.com/jetsetilly/gopherds/trace"
)

const traceEntryID = "trace"

const (
	traceFieldCartridge int = iota
	traceFieldNumInstructions
	traceFieldTraceFile
	traceFieldNotes
	numTraceFields
)

// TraceRegression records every instruction executed by the console to a
// trace file. When the test is run the console is compared against the trace
// file instruction by instruction.
type TraceRegression struct {
	Cartridge       string
	NumInstructions int
	Notes           string

	traceFile string
}

// NewTraceRegression is the preferred method of initialisation for the
// TraceRegression type.
func NewTraceRegression(cartridge string, numInstructions int) (*TraceRegression, error) {
	if numInstructions < 1 {
		return nil, fmt.Errorf("number of instructions must be positive")
	}
	pth, err := cartridgePath(cartridge)
	if err != nil {
		return nil, err
	}
	return &TraceRegression{
		Cartridge:       pth,
		NumInstructions: numInstructions,
	}, nil
}

func deserialiseTraceEntry(fields database.SerialisedEntry) (database.Entry, error) {
	if len(fields) != numTraceFields {
		return nil, fmt.Errorf("trace entry: wrong number of fields (%d)", len(fields))
	}

	reg := &TraceRegression{
		Cartridge: fields[traceFieldCartridge],
		traceFile: fields[traceFieldTraceFile],
		Notes:     fields[traceFieldNotes],
	}

	var err error

	reg.NumInstructions, err = strconv.Atoi(fields[traceFieldNumInstructions])
	if err != nil {
		return nil, fmt.Errorf("trace entry: invalid number of instructions (%s)", fields[traceFieldNumInstructions])
	}

	return reg, nil
}

// ID implements the database.Entry interface.
func (reg *TraceRegression) ID() string {
	return traceEntryID
}

// String implements the database.Entry interface.
func (reg *TraceRegression) String() string {
	s := fmt.Sprintf("[trace] %s instructions=%d", filepath.Base(reg.Cartridge), reg.NumInstructions)
	if reg.Notes != "" {
		s = fmt.Sprintf("%s [%s]", s, reg.Notes)
	}
	return s
}

// Serialise implements the database.Entry interface.
func (reg *TraceRegression) Serialise() (database.SerialisedEntry, error) {
	return database.SerialisedEntry{
		reg.Cartridge,
		strconv.Itoa(reg.NumInstructions),
		reg.traceFile,
		reg.Notes,
	}, nil
}

// CleanUp implements the database.Entry interface. The trace file is
// removed.
func (reg *TraceRegression) CleanUp() error {
	err := os.Remove(reg.traceFile)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// run the console for the number of instructions.
func (reg *TraceRegression) run(ctx context.Context, ds *hardware.DS, stop func() bool) error {
	var count int
	return ds.Run(ctx, func(a scheduler.Actor) bool {
		if a != scheduler.ActorEvent {
			count++
		}
		return count < reg.NumInstructions && !stop()
	})
}

// regress implements the Regressor interface.
func (reg *TraceRegression) regress(ctx context.Context, newRegression bool, output io.Writer, msg string) (bool, string, error) {
	io.WriteString(output, msg)

	ds, err := newConsole(reg.Cartridge)
	if err != nil {
		return false, "", err
	}

	if newRegression {
		reg.traceFile, err = uniqueFilename("trace", ds)
		if err != nil {
			return false, "", err
		}

		f, err := os.Create(reg.traceFile)
		if err != nil {
			return false, "", err
		}
		defer f.Close()

		rec, err := trace.NewRecorder(ds, f)
		if err != nil {
			return false, "", err
		}

		err = reg.run(ctx, ds, func() bool { return rec.Err() != nil })
		if endErr := rec.End(); err == nil {
			err = endErr
		}
		if err != nil {
			return false, "", err
		}

		return true, "", nil
	}

	f, err := os.Open(reg.traceFile)
	if err != nil {
		return false, "", err
	}
	defer f.Close()

	cmp := trace.NewComparer(ds, f)

	err = reg.run(ctx, ds, func() bool { return cmp.Err() != nil })
	if err != nil {
		cmp.End()
		return false, "", err
	}

	if err := cmp.End(); err != nil {
		return false, err.Error(), nil
	}

	return true, "", nil
}
