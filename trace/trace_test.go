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

package trace_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/hardware/scheduler"
	"github.com/jetsetilly/gopherds/trace"
	"github.com/jetsetilly/gopherds/test"
)

// the ARM9 sums the numbers from one to ten.
var arm9 = []uint32{
	0xe3a00000, // MOV R0, #0
	0xe3a0100a, // MOV R1, #10
	0xe0800001, // ADD R0, R0, R1
	0xe2511001, // SUBS R1, R1, #1
	0x1afffffc, // BNE to the ADD
	0xeafffffe, // B .
}

// the ARM7 doubles a value eight times.
var arm7 = []uint32{
	0xe3a02001, // MOV R2, #1
	0xe3a03000, // MOV R3, #0
	0xe1a02082, // MOV R2, R2, LSL #1
	0xe2833001, // ADD R3, R3, #1
	0xe3530008, // CMP R3, #8
	0x1afffffb, // BNE to the LSL
	0xeafffffe, // B .
}

func cartridge() []byte {
	data := make([]byte, 0x1000)
	le := binary.LittleEndian
	copy(data, "TRACE")
	copy(data[0x0c:], "TRCE")

	put := func(hdr int, offset uint32, load uint32, code []uint32) {
		le.PutUint32(data[hdr:], offset)
		le.PutUint32(data[hdr+4:], load)
		le.PutUint32(data[hdr+8:], load)
		le.PutUint32(data[hdr+12:], uint32(len(code)*4))
		for i, w := range code {
			le.PutUint32(data[int(offset)+i*4:], w)
		}
	}
	put(0x20, 0x200, 0x02000000, arm9)
	put(0x30, 0x400, 0x02380000, arm7)

	return data
}

func newDS(t *testing.T) *hardware.DS {
	t.Helper()
	ds, err := hardware.NewDS(nil)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, ds.Insert(cartridge()))
	test.DemandSuccess(t, ds.Reset())
	return ds
}

const numInstructions = 400

func record(t *testing.T) (*hardware.DS, *trace.Recorder, []byte) {
	t.Helper()
	ds := newDS(t)

	var buf bytes.Buffer
	rec, err := trace.NewRecorder(ds, &buf)
	test.DemandSuccess(t, err)

	err = ds.Run(context.Background(), func(scheduler.Actor) bool {
		return rec.Count() < numInstructions
	})
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, rec.End())

	return ds, rec, buf.Bytes()
}

func TestEndToEnd(t *testing.T) {
	ds, rec, data := record(t)
	test.ExpectEquality(t, rec.Count(), numInstructions)

	r9 := ds.Registers(memory.ARM9)
	test.ExpectEquality(t, r9.R[0], uint32(55))
	test.ExpectEquality(t, r9.R[1], uint32(0))
	test.ExpectEquality(t, r9.R[15], uint32(0x02000014))
	test.ExpectEquality(t, r9.CPSR&0x40000000, uint32(0x40000000))

	r7 := ds.Registers(memory.ARM7)
	test.ExpectEquality(t, r7.R[2], uint32(256))
	test.ExpectEquality(t, r7.R[3], uint32(8))
	test.ExpectEquality(t, r7.R[15], uint32(0x02380018))

	// every instruction costs at least one cycle
	test.ExpectSuccess(t, rec.Cycles(memory.ARM9) >= numInstructions/2)

	// the recorded trace is reproduced exactly by a second console
	other := newDS(t)
	cmp := trace.NewComparer(other, bytes.NewReader(data))
	err := other.Run(context.Background(), func(scheduler.Actor) bool {
		return cmp.Err() == nil && cmp.Matched() < numInstructions
	})
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, cmp.End())
	test.ExpectEquality(t, cmp.Matched(), numInstructions)
	test.ExpectEquality(t, cmp.Cycles(memory.ARM9), rec.Cycles(memory.ARM9))
	test.ExpectEquality(t, cmp.Cycles(memory.ARM7), rec.Cycles(memory.ARM7))
	test.ExpectEquality(t, other.Registers(memory.ARM9), r9)
	test.ExpectEquality(t, other.Registers(memory.ARM7), r7)
}

func TestMismatch(t *testing.T) {
	_, _, data := record(t)

	// change the cycle count of the tenth instruction
	lines := strings.Split(string(data), "\n")
	n := 0
	for i, l := range lines {
		if strings.HasPrefix(l, "#") {
			continue
		}
		n++
		if n == 10 {
			e, err := trace.ParseEntry(l, i+1)
			test.DemandSuccess(t, err)
			e.Cycles += 100
			lines[i] = e.String()
			break
		}
	}

	ds := newDS(t)
	cmp := trace.NewComparer(ds, strings.NewReader(strings.Join(lines, "\n")))
	err := ds.Run(context.Background(), func(scheduler.Actor) bool {
		return cmp.Err() == nil
	})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, cmp.Matched(), 9)
	test.ExpectSuccess(t, curated.Is(cmp.End(), trace.Mismatch))
}

func TestEnded(t *testing.T) {
	ds := newDS(t)
	cmp := trace.NewComparer(ds, strings.NewReader("# header only\n"))
	_, err := ds.Step()
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, curated.Is(cmp.End(), trace.Ended))
}

func TestParseEntry(t *testing.T) {
	_, err := trace.ParseEntry("ARM9, 00000000", 1)
	test.ExpectSuccess(t, curated.Is(err, trace.ParseError))

	_, err = trace.ParseEntry("ARM8, 00000000, 00000000, 00000000, 1, 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0", 1)
	test.ExpectFailure(t, err)

	e, err := trace.ParseEntry("ARM7, 02380000, e3a02001, 0000001f, 3, 0 0 1 0 0 0 0 0 0 0 0 0 0 0 0 2380004", 1)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, e.Core, memory.ARM7)
	test.ExpectEquality(t, e.Opcode, uint32(0xe3a02001))
	test.ExpectEquality(t, e.Cycles, 3)
	test.ExpectEquality(t, e.Registers[2], uint32(1))
	test.ExpectEquality(t, e.Registers[15], uint32(0x02380004))
}
