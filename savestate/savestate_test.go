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

package savestate_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware"
	"github.com/jetsetilly/gopherds/hardware/dma"
	"github.com/jetsetilly/gopherds/hardware/dsslot"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/hardware/scheduler"
	"github.com/jetsetilly/gopherds/hardware/timers"
	"github.com/jetsetilly/gopherds/savestate"
	"github.com/jetsetilly/gopherds/test"
)

// a cartridge in which each core counts in a loop and stores the count in
// main RAM.
func cartridge(code string) []byte {
	data := make([]byte, 0x1000)
	le := binary.LittleEndian
	copy(data, "SAVESTATE")
	copy(data[0x0c:], code)

	arm9 := []uint32{
		0xe2800001, // ADD R0, R0, #1
		0xe3a01402, // MOV R1, #0x02000000
		0xe5810800, // STR R0, [R1, #0x800]
		0xeafffffb, // B to the start
	}
	arm7 := []uint32{
		0xe2822001, // ADD R2, R2, #1
		0xeafffffd, // B to the start
	}

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

func newDS(t *testing.T, code string) *hardware.DS {
	t.Helper()
	ds, err := hardware.NewDS(nil)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, ds.Insert(cartridge(code)))
	test.DemandSuccess(t, ds.Reset())
	return ds
}

type result struct {
	now   uint64
	r9    hardware.Registers
	r7    hardware.Registers
	count uint32
}

func run(t *testing.T, ds *hardware.DS, cycles uint64) result {
	t.Helper()
	test.DemandSuccess(t, ds.RunForCycles(context.Background(), cycles))
	count, _ := ds.Peek(memory.ARM9, 0x02000800, memory.Width32)
	return result{
		now:   ds.Sched.Now(),
		r9:    ds.Registers(memory.ARM9),
		r7:    ds.Registers(memory.ARM7),
		count: count,
	}
}

func TestRoundTrip(t *testing.T) {
	ds := newDS(t, "SAVE")
	run(t, ds, 200000)

	var buf bytes.Buffer
	test.DemandSuccess(t, savestate.Export(&buf, ds))

	want := run(t, ds, 100000)

	test.DemandSuccess(t, savestate.Import(bytes.NewReader(buf.Bytes()), ds))
	test.ExpectInequality(t, ds.Sched.Now(), want.now)
	test.ExpectEquality(t, run(t, ds, 100000), want)

	// the savestate can be imported into a new console with the same
	// cartridge
	other := newDS(t, "SAVE")
	test.DemandSuccess(t, savestate.Import(bytes.NewReader(buf.Bytes()), other))
	test.ExpectEquality(t, run(t, other, 100000), want)
}

func TestFile(t *testing.T) {
	ds := newDS(t, "SAVE")
	run(t, ds, 50000)

	fn := filepath.Join(t.TempDir(), "test.state")
	test.DemandSuccess(t, savestate.Save(fn, ds))
	want := run(t, ds, 10000)

	test.DemandSuccess(t, savestate.Load(fn, ds))
	test.ExpectEquality(t, run(t, ds, 10000), want)

	err := savestate.Load(filepath.Join(t.TempDir(), "missing"), ds)
	test.ExpectSuccess(t, curated.Is(err, savestate.FileError))
}

// a failed import leaves the console unchanged.
func TestFailedImport(t *testing.T) {
	ds := newDS(t, "SAVE")
	run(t, ds, 50000)

	var buf bytes.Buffer
	test.DemandSuccess(t, savestate.Export(&buf, ds))
	good := buf.Bytes()

	run(t, ds, 10000)
	before := ds.Registers(memory.ARM9)
	now := ds.Sched.Now()

	unchanged := func() {
		t.Helper()
		test.ExpectEquality(t, ds.Registers(memory.ARM9), before)
		test.ExpectEquality(t, ds.Sched.Now(), now)
	}

	err := savestate.Import(bytes.NewReader([]byte("not a savestate file")), ds)
	test.ExpectSuccess(t, curated.Is(err, savestate.NotSavestate))
	unchanged()

	err = savestate.Import(bytes.NewReader(good[:4]), ds)
	test.ExpectSuccess(t, curated.Is(err, savestate.NotSavestate))
	unchanged()

	version := bytes.Clone(good)
	binary.LittleEndian.PutUint32(version[8:], savestate.Version+1)
	err = savestate.Import(bytes.NewReader(version), ds)
	test.ExpectSuccess(t, curated.Is(err, savestate.UnsupportedVersion))
	unchanged()

	err = savestate.Import(bytes.NewReader(good[:len(good)/2]), ds)
	test.ExpectSuccess(t, curated.Is(err, savestate.DecodeError))
	unchanged()

	// states that decode but can not be restored. the header of the good
	// savestate is reused for each of them
	corrupt := []struct {
		name    string
		pattern string
		change  func(s *hardware.State)
	}{
		{"slot buffer not whole words", dsslot.InvalidState, func(s *hardware.State) {
			s.Slot.Buffer = make([]byte, 6)
			s.Slot.Pos = 0
		}},
		{"slot buffer too long", dsslot.InvalidState, func(s *hardware.State) {
			s.Slot.Buffer = make([]byte, 0x4004)
			s.Slot.Pos = 0
		}},
		{"slot position not a word", dsslot.InvalidState, func(s *hardware.State) {
			s.Slot.Buffer = make([]byte, 8)
			s.Slot.Pos = 2
		}},
		{"slot position past buffer", dsslot.InvalidState, func(s *hardware.State) {
			s.Slot.Buffer = make([]byte, 8)
			s.Slot.Pos = 12
		}},
		{"slot negative position", dsslot.InvalidState, func(s *hardware.State) {
			s.Slot.Buffer = make([]byte, 8)
			s.Slot.Pos = -4
		}},
		{"slot ready at end of buffer", dsslot.InvalidState, func(s *hardware.State) {
			s.Slot.Buffer = make([]byte, 8)
			s.Slot.Pos = 8
			s.Slot.ROMCTRL |= 0x80800000
		}},
		{"slot stage", dsslot.InvalidState, func(s *hardware.State) {
			s.Slot.Stage = dsslot.StageKEY2 + 1
		}},
		{"dma timer link", dma.InvalidState, func(s *hardware.State) {
			s.ARM9.DMA.Channels[1].TimerLink = timers.NumTimers
		}},
		{"dma count", dma.InvalidState, func(s *hardware.State) {
			s.ARM7.DMA.Channels[0].Count = 0x4001
		}},
		{"timer prescale", timers.InvalidState, func(s *hardware.State) {
			s.ARM7.Timers.Timers[2].Control = 0x01
			s.ARM7.Timers.Timers[2].Prescale = 64
		}},
		{"timer residue", timers.InvalidState, func(s *hardware.State) {
			s.ARM9.Timers.Residue = -1
		}},
		{"timer event core", hardware.InvalidState, func(s *hardware.State) {
			s.Scheduler.Events = append(s.Scheduler.Events, scheduler.Event{
				Kind:     scheduler.TimerOverflow,
				Deadline: s.Scheduler.Now + 10,
				Arg:      uint64(memory.NumCores),
			})
		}},
	}
	for _, c := range corrupt {
		s := ds.Snapshot()
		c.change(s)

		var b bytes.Buffer
		b.Write(good[:16])
		test.DemandSuccess(t, gob.NewEncoder(&b).Encode(s))

		err = savestate.Import(&b, ds)
		test.ExpectSuccess(t, curated.Is(err, hardware.InvalidState), c.name)
		test.ExpectSuccess(t, curated.Has(err, c.pattern), c.name)
		unchanged()
	}

	// a different cartridge
	other := newDS(t, "ELSE")
	err = savestate.Import(bytes.NewReader(good), other)
	test.ExpectSuccess(t, curated.Is(err, savestate.WrongCartridge))
}
