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

package script_test

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/debugger/script"
	"github.com/jetsetilly/gopherds/debugger/terminal"
	"github.com/jetsetilly/gopherds/hardware"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/test"
)

// both cores count in R0 forever.
var counter = []uint32{
	0xe3a00000, // MOV R0, #0
	0xe2800001, // ADD R0, R0, #1
	0xeafffffd, // B to the ADD
}

func newDS(t *testing.T) *hardware.DS {
	t.Helper()

	data := make([]byte, 0x1000)
	le := binary.LittleEndian
	copy(data, "SCRIPT")
	copy(data[0x0c:], "SCRP")
	put := func(hdr int, offset uint32, load uint32) {
		le.PutUint32(data[hdr:], offset)
		le.PutUint32(data[hdr+4:], load)
		le.PutUint32(data[hdr+8:], load)
		le.PutUint32(data[hdr+12:], uint32(len(counter)*4))
		for i, w := range counter {
			le.PutUint32(data[int(offset)+i*4:], w)
		}
	}
	put(0x20, 0x200, 0x02000000)
	put(0x30, 0x400, 0x02380000)

	ds, err := hardware.NewDS(nil)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, ds.Insert(data))
	test.DemandSuccess(t, ds.Reset())
	return ds
}

func TestRescribe(t *testing.T) {
	scr, err := script.NewRescribe("test", strings.NewReader("# comment\nSTEP\n\n  # indented comment\nREGS  \n"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, scr.IsInteractive(), false)

	s, err := scr.TermRead(terminal.Prompt{}, nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s, "STEP")

	s, err = scr.TermRead(terminal.Prompt{}, nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s, "REGS")

	_, err = scr.TermRead(terminal.Prompt{}, nil)
	test.ExpectEquality(t, curated.Is(err, script.ScriptEnd), true)

	_, err = script.RescribeScript(filepath.Join(t.TempDir(), "missing"))
	test.ExpectEquality(t, curated.Is(err, script.ScriptFileError), true)
}

func TestScribe(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "script")

	var scr script.Scribe
	test.ExpectEquality(t, scr.IsActive(), false)
	test.DemandSuccess(t, scr.StartSession(filename))
	test.ExpectEquality(t, scr.IsActive(), true)
	test.ExpectFailure(t, scr.StartSession(filename))

	test.ExpectSuccess(t, scr.WriteInput("STEP"))
	test.ExpectSuccess(t, scr.WriteInput("BREAK 02000004"))
	scr.Rollback()

	// commands in a playback are not recorded
	test.ExpectSuccess(t, scr.StartPlayback())
	test.ExpectSuccess(t, scr.WriteInput("REGS"))
	scr.EndPlayback()

	test.ExpectSuccess(t, scr.WriteInput("RUN"))
	test.ExpectSuccess(t, scr.EndSession())
	test.ExpectEquality(t, scr.IsActive(), false)

	data, err := os.ReadFile(filename)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(data), "# gopherds debugger script\nSTEP\nRUN\n")

	// the file now exists
	test.ExpectFailure(t, scr.StartSession(filename))

	rsc, err := script.RescribeScript(filename)
	test.DemandSuccess(t, err)
	s, err := rsc.TermRead(terminal.Prompt{}, nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s, "STEP")
}

func TestLua(t *testing.T) {
	ds := newDS(t)

	var commands []string
	l := script.NewLua(context.Background(), ds, func(s string) error {
		commands = append(commands, s)
		return nil
	})
	defer l.Close()

	err := l.DoString(`
		a, op = step("ARM9")
		b = step("arm9")
		c = reg("ARM9", 0)
		setreg("ARM7", 5, 0x1234)
		d = reg("ARM7", 5)
		ok = poke("ARM9", 0x02001000, 0xbeef, 16)
		e = peek("ARM9", 0x02001000)
		f = peek("ARM9", 0x10000000)
		g = command("regs")
	`)
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, l.Global("a"), "33554432")
	test.ExpectEquality(t, l.Global("op"), "3818913792")
	test.ExpectEquality(t, l.Global("b"), "33554436")
	test.ExpectEquality(t, l.Global("c"), "1")
	test.ExpectEquality(t, l.Global("d"), "4660")
	test.ExpectEquality(t, l.Global("ok"), "true")
	test.ExpectEquality(t, l.Global("e"), "48879")
	test.ExpectEquality(t, l.Global("f"), "nil")
	test.ExpectEquality(t, l.Global("g"), "nil")
	test.ExpectEquality(t, len(commands), 1)
	test.ExpectEquality(t, commands[0], "regs")

	v, ok := ds.Peek(memory.ARM9, 0x02001000, memory.Width32)
	test.ExpectEquality(t, ok, true)
	test.ExpectEquality(t, v, uint32(0xbeef))
}

func TestLuaRun(t *testing.T) {
	ds := newDS(t)
	l := script.NewLua(context.Background(), ds, nil)
	defer l.Close()

	err := l.DoString(`
		start = frame()
		breakpoint("ARM7", 0x02380008)
		e = run(2)
		stopped = reg("ARM7", 15)
		n = command("regs")
	`)
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, strings.Contains(l.Global("e"), "breakpoint"), true)
	test.ExpectEquality(t, l.Global("stopped"), "37224456")
	test.ExpectEquality(t, l.Global("n"), "no debugger")

	test.ExpectFailure(t, l.DoString(`peek("ARM11", 0)`))
	test.ExpectFailure(t, l.DoString(`reg("ARM9", 16)`))
	test.ExpectFailure(t, l.DoString(`peek("ARM9", 0, 12)`))
	test.ExpectFailure(t, l.DoFile(filepath.Join(t.TempDir(), "missing.lua")))
}

func TestLuaCancel(t *testing.T) {
	ds := newDS(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := script.NewLua(ctx, ds, nil)
	defer l.Close()
	test.ExpectFailure(t, l.DoString(`while true do end`))
}
