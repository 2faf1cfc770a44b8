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

package debugger_test

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/gopherds/debugger"
	"github.com/jetsetilly/gopherds/debugger/terminal"
	"github.com/jetsetilly/gopherds/hardware"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/test"
)

type mockTerm struct {
	inp    []string
	output []string
	errors []string
}

func (trm *mockTerm) Initialise() error {
	return nil
}

func (trm *mockTerm) CleanUp() {
}

func (trm *mockTerm) RegisterTabCompletion(_ terminal.TabCompletion) {
}

func (trm *mockTerm) Silence(silenced bool) {
}

func (trm *mockTerm) TermRead(_ terminal.Prompt, _ *terminal.ReadEvents) (string, error) {
	if len(trm.inp) == 0 {
		return "", io.EOF
	}
	s := trm.inp[0]
	trm.inp = trm.inp[1:]
	return s, nil
}

func (trm *mockTerm) IsInteractive() bool {
	return false
}

func (trm *mockTerm) TermPrintLine(sty terminal.Style, s string) {
	switch sty {
	case terminal.StyleEcho:
	case terminal.StyleError:
		trm.errors = append(trm.errors, s)
	default:
		trm.output = append(trm.output, s)
	}
}

// contains returns true if any line of output begins with the string.
func (trm *mockTerm) contains(s string) bool {
	for _, o := range trm.output {
		if strings.HasPrefix(o, s) {
			return true
		}
	}
	return false
}

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
	copy(data, "DEBUGGER")
	copy(data[0x0c:], "DBUG")
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

func start(t *testing.T, ds *hardware.DS, initScript string, input ...string) *mockTerm {
	t.Helper()
	trm := &mockTerm{inp: input}
	dbg, err := debugger.NewDebugger(ds, trm)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, dbg.Start(initScript))
	return trm
}

func TestDebugger(t *testing.T) {
	ds := newDS(t)
	trm := start(t, ds, "",
		"regs",
		"step",
		"break 02000008",
		"run",
		"peek 02000000",
		"poke 02001000 0x1234 16",
		"peek $2001000 16",
		"core arm7",
		"setreg r5 99",
		"breaks",
		"disasm 02380000 2",
		"wibble",
		"peek 02000000 12",
		"help step",
		"quit",
		"regs",
	)

	test.ExpectEquality(t, trm.contains("R12 02000000  R13 03002f7c  R14 02000000  R15 02000000"), true)
	test.ExpectEquality(t, trm.contains("02000000 e3a00000"), true)
	test.ExpectEquality(t, trm.contains("breakpoint added at 02000008"), true)
	test.ExpectEquality(t, trm.contains("hardware: ARM9: breakpoint at 02000008"), true)
	test.ExpectEquality(t, trm.contains("next: 02000008 eafffffd"), true)
	test.ExpectEquality(t, trm.contains("02000000: e3a00000"), true)
	test.ExpectEquality(t, trm.contains("02001000: 1234"), true)
	test.ExpectEquality(t, trm.contains("ARM7"), true)
	test.ExpectEquality(t, trm.contains("no breakpoints"), true)
	test.ExpectEquality(t, trm.contains("02380000 e3a00000"), true)
	test.ExpectEquality(t, trm.contains("02380004 e2800001"), true)
	test.ExpectEquality(t, trm.contains("STEP [count]"), true)

	test.ExpectEquality(t, len(trm.errors), 2)
	test.ExpectEquality(t, trm.errors[0], "wibble: unrecognised command")

	// input after QUIT is not processed
	test.ExpectEquality(t, len(trm.inp), 1)

	test.ExpectEquality(t, ds.Registers(memory.ARM7).R[5], uint32(99))
	test.ExpectEquality(t, ds.Registers(memory.ARM9).R[15], uint32(0x02000008))
}

func TestStepHalted(t *testing.T) {
	ds := newDS(t)
	ds.ARM7.CPU.Halt()
	trm := start(t, ds, "", "core arm7", "step 3")
	test.ExpectEquality(t, trm.contains("ARM7 is halted"), true)
}

func TestScribeAndScript(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "script")

	ds := newDS(t)
	trm := start(t, ds, "",
		"scribe "+filename,
		"core arm7",
		"wibble",
		"step 2",
		"scribe",
	)
	test.ExpectEquality(t, len(trm.errors), 1)

	data, err := os.ReadFile(filename)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(data), "# gopherds debugger script\nCORE ARM7\nSTEP 2\n")

	// the script is run before the terminal input
	other := newDS(t)
	trm = start(t, other, filename, "regs")
	test.ExpectEquality(t, trm.contains("R0  00000001"), true)
	test.ExpectEquality(t, other.Registers(memory.ARM7).R[15], uint32(0x02380008))

	// missing scripts are reported and the session continues
	trm = start(t, newDS(t), filepath.Join(dir, "missing"), "regs")
	test.ExpectEquality(t, len(trm.errors), 1)
	test.ExpectEquality(t, trm.contains("R0"), true)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "state")

	ds := newDS(t)
	trm := start(t, ds, "",
		"step 2",
		"save "+filename,
		"step 3",
		"load "+filename,
		"load "+filepath.Join(dir, "missing"),
	)
	test.ExpectEquality(t, len(trm.errors), 1)
	test.ExpectEquality(t, ds.Registers(memory.ARM9).R[15], uint32(0x02000008))
	test.ExpectEquality(t, ds.Registers(memory.ARM9).R[0], uint32(1))
}

func TestDumpAndLua(t *testing.T) {
	dir := t.TempDir()
	dot := filepath.Join(dir, "arm9.dot")
	program := filepath.Join(dir, "program.lua")

	err := os.WriteFile(program, []byte(`
		setreg("ARM9", 3, 42)
		e = command("core arm7")
		if e ~= nil then error(e) end
	`), 0644)
	test.DemandSuccess(t, err)

	ds := newDS(t)
	trm := start(t, ds, "",
		"dump "+dot,
		"lua "+program,
		"core",
		"lua "+filepath.Join(dir, "missing.lua"),
	)
	test.ExpectEquality(t, len(trm.errors), 1)
	test.ExpectEquality(t, ds.Registers(memory.ARM9).R[3], uint32(42))
	test.ExpectEquality(t, trm.output[len(trm.output)-1], "ARM7")

	data, err := os.ReadFile(dot)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, strings.Contains(string(data), "digraph"), true)
}

func TestRewind(t *testing.T) {
	ds := newDS(t)
	trm := start(t, ds, "",
		"frame 2",
		"rewind",
		"rewind wibble",
		"rewind 1",
	)
	test.ExpectEquality(t, len(trm.errors), 1)

	// the first snapshot is of the console at the start of the session
	test.ExpectEquality(t, trm.contains("frames 0 to 0 (current 2)"), true)
	test.ExpectEquality(t, ds.LCD.Frame(), 0)
	test.ExpectEquality(t, ds.Registers(memory.ARM9).R[15], uint32(0x02000000))
}
