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
	"fmt"
	"strconv"
	"strings"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware"
	"github.com/jetsetilly/gopherds/hardware/cpu/arm"
	"github.com/jetsetilly/gopherds/hardware/memory"
)

// Error patterns.
const (
	ParseError = "trace: line %d: %v"
	Mismatch   = "trace: line %d: expected %s: got %s"
	Ended      = "trace: ended at line %d"
	WriteError = "trace: %v"
)

const fieldSep = ", "

const (
	fieldCore int = iota
	fieldAddress
	fieldOpcode
	fieldCPSR
	fieldCycles
	fieldRegisters
	numFields
)

// Entry is a single executed instruction.
type Entry struct {
	Core      memory.Core
	Address   uint32
	Opcode    uint32
	CPSR      uint32
	Cycles    int
	Registers [arm.NumRegisters]uint32
}

func newEntry(ds *hardware.DS, core memory.Core, r arm.StepResult) Entry {
	addr, opcode := ds.Processor(core).CPU.LastExecuted()
	regs := ds.Registers(core)
	return Entry{
		Core:      core,
		Address:   addr,
		Opcode:    opcode,
		CPSR:      regs.CPSR,
		Cycles:    r.Cycles,
		Registers: regs.R,
	}
}

func (e Entry) String() string {
	f := make([]string, numFields)
	f[fieldCore] = e.Core.String()
	f[fieldAddress] = fmt.Sprintf("%08x", e.Address)
	f[fieldOpcode] = fmt.Sprintf("%08x", e.Opcode)
	f[fieldCPSR] = fmt.Sprintf("%08x", e.CPSR)
	f[fieldCycles] = strconv.Itoa(e.Cycles)

	r := make([]string, len(e.Registers))
	for i, v := range e.Registers {
		r[i] = fmt.Sprintf("%08x", v)
	}
	f[fieldRegisters] = strings.Join(r, " ")

	return strings.Join(f, fieldSep)
}

// ParseEntry is the inverse of Entry.String(). The line number is used in
// error messages.
func ParseEntry(line string, lineNum int) (Entry, error) {
	var e Entry

	toks := strings.Split(line, fieldSep)
	if len(toks) != numFields {
		return e, curated.Errorf(ParseError, lineNum, fmt.Sprintf("expected %d fields", numFields))
	}

	switch toks[fieldCore] {
	case memory.ARM9.String():
		e.Core = memory.ARM9
	case memory.ARM7.String():
		e.Core = memory.ARM7
	default:
		return e, curated.Errorf(ParseError, lineNum, fmt.Sprintf("unknown core %q", toks[fieldCore]))
	}

	hex := func(s string) (uint32, error) {
		v, err := strconv.ParseUint(s, 16, 32)
		return uint32(v), err
	}

	var err error
	if e.Address, err = hex(toks[fieldAddress]); err != nil {
		return e, curated.Errorf(ParseError, lineNum, err)
	}
	if e.Opcode, err = hex(toks[fieldOpcode]); err != nil {
		return e, curated.Errorf(ParseError, lineNum, err)
	}
	if e.CPSR, err = hex(toks[fieldCPSR]); err != nil {
		return e, curated.Errorf(ParseError, lineNum, err)
	}
	if e.Cycles, err = strconv.Atoi(toks[fieldCycles]); err != nil {
		return e, curated.Errorf(ParseError, lineNum, err)
	}

	regs := strings.Fields(toks[fieldRegisters])
	if len(regs) != len(e.Registers) {
		return e, curated.Errorf(ParseError, lineNum, fmt.Sprintf("expected %d registers", len(e.Registers)))
	}
	for i, s := range regs {
		if e.Registers[i], err = hex(s); err != nil {
			return e, curated.Errorf(ParseError, lineNum, err)
		}
	}

	return e, nil
}
