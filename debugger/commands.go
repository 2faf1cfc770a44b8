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

package debugger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/debugger/script"
	"github.com/jetsetilly/gopherds/debugger/terminal"
	"github.com/jetsetilly/gopherds/debugger/terminal/commandline"
	"github.com/jetsetilly/gopherds/hardware"
	"github.com/jetsetilly/gopherds/hardware/cpu/arm"
	"github.com/jetsetilly/gopherds/hardware/input"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/hardware/scheduler"
	"github.com/jetsetilly/gopherds/logger"
	"github.com/jetsetilly/gopherds/savestate"
)

// Error patterns.
const (
	BadNumber = "debugger: %s: not a number (%s)"
	BadWidth  = "debugger: %s: width must be 8, 16 or 32"
)

// default number of instructions shown by DISASM.
const disasmCount = 8

// default number of log entries shown by LOG.
const logCount = 10

func parseAddress(cmd string, s string) (uint32, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, curated.Errorf(BadNumber, cmd, s)
	}
	return uint32(v), nil
}

func parseValue(cmd string, s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, curated.Errorf(BadNumber, cmd, s)
	}
	return uint32(v), nil
}

func parseCount(cmd string, tokens *commandline.Tokens, def int) (int, error) {
	s, ok := tokens.Get()
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, curated.Errorf(BadNumber, cmd, s)
	}
	return n, nil
}

func parseWidth(cmd string, tokens *commandline.Tokens) (memory.Width, error) {
	s, ok := tokens.Get()
	if !ok {
		return memory.Width32, nil
	}
	switch s {
	case "8":
		return memory.Width8, nil
	case "16":
		return memory.Width16, nil
	case "32":
		return memory.Width32, nil
	}
	return 0, curated.Errorf(BadWidth, cmd)
}

// processTokens runs a validated command.
func (dbg *Debugger) processTokens(tokens *commandline.Tokens) error {
	cmd, _ := tokens.Get()

	switch cmd {
	case cmdHelp:
		if kw, ok := tokens.Get(); ok {
			dbg.printLines(terminal.StyleHelp, dbg.cmds.Help(kw))
		} else {
			dbg.printLines(terminal.StyleHelp, dbg.cmds.HelpOverview())
		}

	case cmdQuit:
		dbg.running = false

	case cmdReset:
		if err := dbg.ds.Reset(); err != nil {
			return err
		}
		dbg.rewind.Reset()
		dbg.printLine(terminal.StyleFeedback, "console reset")

	case cmdCore:
		if c, ok := tokens.Get(); ok {
			if c == "ARM7" {
				dbg.focus = memory.ARM7
			} else {
				dbg.focus = memory.ARM9
			}
		}
		dbg.printLine(terminal.StyleFeedback, "%s", dbg.focus)

	case cmdStep:
		n, err := parseCount(cmd, tokens, 1)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if !dbg.step() {
				break
			}
		}

	case cmdRun:
		return dbg.run(func(ctx context.Context) error {
			return dbg.ds.Run(ctx, dbg.cont(nil))
		})

	case cmdFrame:
		n, err := parseCount(cmd, tokens, 1)
		if err != nil {
			return err
		}
		target := dbg.ds.LCD.Frame() + n
		return dbg.run(func(ctx context.Context) error {
			return dbg.ds.Run(ctx, dbg.cont(func() bool {
				return dbg.ds.LCD.Frame() < target
			}))
		})

	case cmdCycles:
		n, err := parseCount(cmd, tokens, 1)
		if err != nil {
			return err
		}
		target := dbg.ds.Sched.Now() + uint64(n)
		return dbg.run(func(ctx context.Context) error {
			return dbg.ds.Run(ctx, dbg.cont(func() bool {
				return dbg.ds.Sched.Now() < target
			}))
		})

	case cmdRewind:
		s, ok := tokens.Get()
		if !ok {
			f := dbg.rewind.GetFrames()
			dbg.printLine(terminal.StyleFeedback, "frames %d to %d (current %d)", f.Start, f.End, f.Current)
			break
		}
		return dbg.run(func(ctx context.Context) error {
			if strings.ToUpper(s) == "LAST" {
				return dbg.rewind.GotoLast()
			}
			n, err := strconv.Atoi(s)
			if err != nil {
				return curated.Errorf(BadNumber, cmd, s)
			}
			_, err = dbg.rewind.GotoFrame(ctx, n)
			return err
		})

	case cmdRegs:
		dbg.printRegisters()

	case cmdSetReg:
		s, _ := tokens.Get()
		n, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(s), "R"))
		if err != nil || n < 0 || n >= arm.NumRegisters {
			return curated.Errorf(BadNumber, cmd, s)
		}
		s, _ = tokens.Get()
		v, err := parseValue(cmd, s)
		if err != nil {
			return err
		}
		dbg.ds.SetRegister(dbg.focus, n, v)

	case cmdPeek:
		s, _ := tokens.Get()
		addr, err := parseAddress(cmd, s)
		if err != nil {
			return err
		}
		width, err := parseWidth(cmd, tokens)
		if err != nil {
			return err
		}
		v, ok := dbg.ds.Peek(dbg.focus, addr, width)
		if !ok {
			dbg.printLine(terminal.StyleInstrument, "%08x: unmapped", addr)
			break
		}
		dbg.printLine(terminal.StyleInstrument, "%08x: %0*x", addr, int(width)*2, v)

	case cmdPoke:
		s, _ := tokens.Get()
		addr, err := parseAddress(cmd, s)
		if err != nil {
			return err
		}
		s, _ = tokens.Get()
		v, err := parseValue(cmd, s)
		if err != nil {
			return err
		}
		width, err := parseWidth(cmd, tokens)
		if err != nil {
			return err
		}
		if !dbg.ds.Poke(dbg.focus, addr, width, v) {
			return curated.Errorf("debugger: %s: cannot poke %08x", cmd, addr)
		}

	case cmdBreak:
		s, _ := tokens.Get()
		addr, err := parseAddress(cmd, s)
		if err != nil {
			return err
		}
		dbg.ds.SetBreakpoint(dbg.focus, addr)
		dbg.printLine(terminal.StyleFeedback, "breakpoint added at %08x", addr)

	case cmdClear:
		s, _ := tokens.Get()
		addr, err := parseAddress(cmd, s)
		if err != nil {
			return err
		}
		if !dbg.ds.ClearBreakpoint(dbg.focus, addr) {
			return curated.Errorf("debugger: %s: no breakpoint at %08x", cmd, addr)
		}
		dbg.printLine(terminal.StyleFeedback, "breakpoint cleared at %08x", addr)

	case cmdBreaks:
		bp := dbg.ds.Breakpoints(dbg.focus)
		if len(bp) == 0 {
			dbg.printLine(terminal.StyleFeedback, "no breakpoints")
		}
		for _, a := range bp {
			dbg.printLine(terminal.StyleFeedback, "%08x", a)
		}

	case cmdDisasm:
		return dbg.disasm(tokens)

	case cmdPress, cmdRelease:
		s, _ := tokens.Get()
		k, err := input.ParseKey(s)
		if err != nil {
			return curated.Errorf("debugger: %s: %v", cmd, err)
		}
		if err := dbg.ds.Input.PushEvent(input.Event{Key: k, Down: cmd == cmdPress}); err != nil {
			return curated.Errorf("debugger: %s: %v", cmd, err)
		}

	case cmdFaults:
		flt := dbg.ds.Processor(dbg.focus).Mem.Faults
		if s, ok := tokens.Get(); ok && s == "CLEAR" {
			flt.Clear()
			break
		}
		if len(flt.Log) == 0 {
			dbg.printLine(terminal.StyleFeedback, "no faults")
			break
		}
		var s strings.Builder
		flt.WriteLog(&s)
		dbg.printLines(terminal.StyleInstrument, s.String())

	case cmdLog:
		n, err := parseCount(cmd, tokens, logCount)
		if err != nil {
			return err
		}
		var s strings.Builder
		logger.Tail(&s, n)
		if s.Len() > 0 {
			dbg.printLines(terminal.StyleLog, s.String())
		}

	case cmdDump:
		filename, _ := tokens.Get()
		if err := dbg.dump(filename); err != nil {
			return err
		}
		dbg.printLine(terminal.StyleFeedback, "state of %s written to %s", dbg.focus, filename)

	case cmdScript:
		filename, _ := tokens.Get()
		return dbg.rescribe(filename)

	case cmdScribe:
		filename, ok := tokens.Get()
		if !ok {
			if !dbg.scribe.IsActive() {
				return curated.Errorf("debugger: %s: not recording", cmd)
			}
			filename = dbg.scribe.Filename()
			if err := dbg.scribe.EndSession(); err != nil {
				return err
			}
			dbg.printLine(terminal.StyleFeedback, "recording to %s ended", filename)
			break
		}
		if err := dbg.scribe.StartSession(filename); err != nil {
			return err
		}
		dbg.printLine(terminal.StyleFeedback, "recording to %s", filename)

	case cmdLua:
		filename, _ := tokens.Get()
		return dbg.run(func(ctx context.Context) error {
			l := script.NewLua(ctx, dbg.ds, dbg.parseInput)
			defer l.Close()
			return l.DoFile(filename)
		})

	case cmdSave:
		filename, _ := tokens.Get()
		if err := savestate.Save(filename, dbg.ds); err != nil {
			return err
		}
		dbg.printLine(terminal.StyleFeedback, "state saved to %s", filename)

	case cmdLoad:
		filename, _ := tokens.Get()
		if err := savestate.Load(filename, dbg.ds); err != nil {
			return err
		}
		dbg.rewind.Reset()
		dbg.printLine(terminal.StyleFeedback, "state loaded from %s", filename)

	default:
		return curated.Errorf(commandline.UnknownCommand, cmd)
	}

	return nil
}

// step the focused core by one instruction and print the disassembly.
// Returns false if the core is halted.
func (dbg *Debugger) step() bool {
	thumb := dbg.ds.Registers(dbg.focus).Thumb

	r, ok := dbg.ds.StepCore(dbg.focus)
	if !ok {
		dbg.printLine(terminal.StyleFeedback, "%s is halted", dbg.focus)
		return false
	}

	addr, opcode := dbg.ds.Processor(dbg.focus).CPU.LastExecuted()
	e := arm.Disassemble(addr, opcode, thumb)
	if r.Exception != arm.NoException {
		dbg.printLine(terminal.StyleCPUStep, "%s  (%d) %s", e, r.Cycles, r.Exception)
	} else {
		dbg.printLine(terminal.StyleCPUStep, "%s  (%d)", e, r.Cycles)
	}

	return true
}

// cont returns a continue function for hardware.DS.Run() that adds to the
// rewind history. The emulation runs until f returns false. A nil function
// runs forever.
func (dbg *Debugger) cont(f func() bool) func(scheduler.Actor) bool {
	return func(scheduler.Actor) bool {
		dbg.rewind.Check()
		return f == nil || f()
	}
}

// run the emulation with the function. The context passed to the function is
// cancelled by an interrupt signal.
func (dbg *Debugger) run(f func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-dbg.events.Signal:
			cancel()
		case <-done:
		}
	}()

	err := f(ctx)

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		dbg.printLine(terminal.StyleFeedback, "interrupted")
		err = nil
	case curated.Is(err, hardware.Breakpoint):
		dbg.printLine(terminal.StyleFeedback, "%v", err)
		err = nil
	default:
		return err
	}

	r := dbg.ds.Registers(dbg.focus)
	if e, ok := dbg.ds.Disassemble(dbg.focus, r.R[15]); ok {
		dbg.printLine(terminal.StyleInstrument, "next: %s", e)
	}

	return err
}

func (dbg *Debugger) printRegisters() {
	r := dbg.ds.Registers(dbg.focus)

	var s strings.Builder
	for i, v := range r.R {
		s.WriteString(fmt.Sprintf("R%-2d %08x", i, v))
		if i%4 == 3 {
			dbg.printLine(terminal.StyleInstrument, "%s", s.String())
			s.Reset()
		} else {
			s.WriteString("  ")
		}
	}

	s.WriteString(fmt.Sprintf("CPSR %08x  %s", r.CPSR, r.Mode))
	if r.Thumb {
		s.WriteString(" thumb")
	}
	if r.HasSPSR {
		s.WriteString(fmt.Sprintf("  SPSR %08x", r.SPSR))
	}
	if r.Halted {
		s.WriteString("  halted")
	}
	dbg.printLine(terminal.StyleInstrument, "%s", s.String())
}

func (dbg *Debugger) disasm(tokens *commandline.Tokens) error {
	addr := dbg.ds.Registers(dbg.focus).R[15]
	if s, ok := tokens.Get(); ok {
		var err error
		addr, err = parseAddress(cmdDisasm, s)
		if err != nil {
			return err
		}
	}

	n, err := parseCount(cmdDisasm, tokens, disasmCount)
	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		e, ok := dbg.ds.Disassemble(dbg.focus, addr)
		if !ok {
			dbg.printLine(terminal.StyleInstrument, "%08x unmapped", addr)
			break
		}
		dbg.printLine(terminal.StyleInstrument, "%s", e)
		if e.Thumb {
			addr += 2
		} else {
			addr += 4
		}
	}

	return nil
}
