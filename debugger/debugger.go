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
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/debugger/script"
	"github.com/jetsetilly/gopherds/debugger/terminal"
	"github.com/jetsetilly/gopherds/debugger/terminal/commandline"
	"github.com/jetsetilly/gopherds/hardware"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/logger"
	"github.com/jetsetilly/gopherds/rewind"
)

// the maximum depth of nested scripts.
const maxScriptDepth = 10

// Debugger is the basic debugging frontend for the emulation.
type Debugger struct {
	ds   *hardware.DS
	term terminal.Terminal
	cmds *commandline.Commands

	// the core that commands operate on
	focus memory.Core

	// the input loop ends when running is false
	running bool

	events terminal.ReadEvents

	scribe      script.Scribe
	scriptDepth int

	rewind *rewind.Rewind
}

// NewDebugger creates and initialises everything required for a new debugging
// session. Use the Start() method to actually begin the session.
func NewDebugger(ds *hardware.DS, term terminal.Terminal) (*Debugger, error) {
	cmds, err := commandline.NewCommands(commandTable)
	if err != nil {
		return nil, curated.Errorf("debugger: %v", err)
	}

	dbg := &Debugger{
		ds:    ds,
		term:  term,
		cmds:  cmds,
		focus: memory.ARM9,
		events: terminal.ReadEvents{
			Signal: make(chan os.Signal, 1),
		},
	}

	dbg.events.SignalHandler = func(sig os.Signal) error {
		return curated.Errorf(terminal.UserInterrupt)
	}

	dbg.rewind, err = rewind.NewRewind(ds)
	if err != nil {
		return nil, curated.Errorf("debugger: %v", err)
	}

	return dbg, nil
}

// Start the main debugger sequence. The initial script is run before control
// is passed to the terminal. An empty string means there is no initial script.
func (dbg *Debugger) Start(initScript string) error {
	if err := dbg.term.Initialise(); err != nil {
		return curated.Errorf("debugger: %v", err)
	}
	defer dbg.term.CleanUp()

	dbg.term.RegisterTabCompletion(commandline.NewTabCompletion(dbg.cmds))

	signal.Notify(dbg.events.Signal, os.Interrupt)
	defer signal.Stop(dbg.events.Signal)

	dbg.running = true

	if initScript != "" {
		if err := dbg.rescribe(initScript); err != nil {
			dbg.printLine(terminal.StyleError, "%v", err)
		}
	}

	err := dbg.inputLoop(dbg.term, false)

	if errScribe := dbg.scribe.EndSession(); errScribe != nil && err == nil {
		err = errScribe
	}

	logger.Log(logger.Allow, "debugger", "session ended")

	return err
}

// inputLoop reads and processes commands until the input is exhausted or the
// debugger is stopped.
func (dbg *Debugger) inputLoop(inp terminal.Input, scripting bool) error {
	for dbg.running {
		input, err := inp.TermRead(dbg.prompt(scripting), &dbg.events)
		if err != nil {
			switch {
			case curated.Is(err, script.ScriptEnd):
				return nil
			case curated.Is(err, terminal.UserInterrupt):
				dbg.running = false
				return nil
			case errors.Is(err, io.EOF):
				dbg.running = false
				return nil
			}
			return err
		}

		if scripting {
			dbg.printLine(terminal.StyleEcho, "%s", input)
		}

		if err := dbg.parseInput(input); err != nil {
			dbg.printLine(terminal.StyleError, "%v", err)
		}
	}

	return nil
}

func (dbg *Debugger) prompt(scripting bool) terminal.Prompt {
	r := dbg.ds.Registers(dbg.focus)
	return terminal.Prompt{
		Core:      dbg.focus.String(),
		Address:   r.R[15],
		Halted:    r.Halted,
		Scripting: scripting,
	}
}

// parseInput validates and runs a single line of input. Commands that
// succeed are written to the active scribe session.
func (dbg *Debugger) parseInput(input string) error {
	tokens := commandline.TokeniseInput(input)
	if tokens.Remaining() == 0 {
		return nil
	}

	if err := dbg.cmds.ValidateTokens(tokens); err != nil {
		return err
	}

	kw, _ := tokens.Peek()
	if kw != cmdScribe {
		if err := dbg.scribe.WriteInput(tokens.String()); err != nil {
			return err
		}
	}

	if err := dbg.processTokens(tokens); err != nil {
		dbg.scribe.Rollback()
		return err
	}

	return nil
}

// rescribe runs the commands in a debugger script.
func (dbg *Debugger) rescribe(filename string) error {
	if dbg.scriptDepth >= maxScriptDepth {
		return curated.Errorf("debugger: scripts nested too deeply")
	}

	scr, err := script.RescribeScript(filename)
	if err != nil {
		return err
	}

	if err := dbg.scribe.StartPlayback(); err != nil {
		return err
	}
	defer dbg.scribe.EndPlayback()

	dbg.scriptDepth++
	defer func() { dbg.scriptDepth-- }()

	return dbg.inputLoop(scr, true)
}

func (dbg *Debugger) printLine(sty terminal.Style, format string, args ...any) {
	dbg.term.TermPrintLine(sty, fmt.Sprintf(format, args...))
}

// printLines prints each line of a multiline string separately.
func (dbg *Debugger) printLines(sty terminal.Style, s string) {
	for _, l := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		dbg.term.TermPrintLine(sty, l)
	}
}
