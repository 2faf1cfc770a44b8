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

// Package plainterm implements the Terminal interface for the debugger. It is
// as simple as can be and offers no special features.
package plainterm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jetsetilly/gopherds/debugger/terminal"
	"golang.org/x/term"
)

// PlainTerminal is the most basic terminal interface. It keeps the terminal
// in whatever mode it started, probably cooked mode. As such, it offers only
// rudimentary editing and little control over output.
type PlainTerminal struct {
	input      io.Reader
	output     io.Writer
	reader     *bufio.Reader
	realInput  bool
	realOutput bool
	silenced   bool
}

// NewPlainTerminal creates a PlainTerminal that reads from and writes to the
// specified streams. Either may be nil, in which case stdin and stdout are
// used.
func NewPlainTerminal(input io.Reader, output io.Writer) *PlainTerminal {
	return &PlainTerminal{
		input:  input,
		output: output,
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Initialise performs any setting up required for the terminal.
func (pt *PlainTerminal) Initialise() error {
	if pt.input == nil {
		pt.input = os.Stdin
	}
	if pt.output == nil {
		pt.output = os.Stdout
	}
	pt.realInput = isTerminal(pt.input)
	pt.realOutput = isTerminal(pt.output)
	pt.reader = bufio.NewReader(pt.input)
	return nil
}

// CleanUp performs any cleaning up required for the terminal.
func (pt *PlainTerminal) CleanUp() {
}

// RegisterTabCompletion implements the terminal.Terminal interface.
func (pt *PlainTerminal) RegisterTabCompletion(terminal.TabCompletion) {
}

// Silence implements the terminal.Terminal interface.
func (pt *PlainTerminal) Silence(silenced bool) {
	pt.silenced = silenced
}

// TermPrintLine implements the terminal.Output interface.
func (pt *PlainTerminal) TermPrintLine(style terminal.Style, s string) {
	if pt.silenced && style != terminal.StyleError {
		return
	}

	// we don't need to echo user input for this type of terminal
	if style == terminal.StyleEcho {
		return
	}

	if style == terminal.StyleError {
		s = fmt.Sprintf("* %s", s)
	}

	io.WriteString(pt.output, s)
	io.WriteString(pt.output, "\n")
}

// TermRead implements the terminal.Input interface.
func (pt *PlainTerminal) TermRead(prompt terminal.Prompt, events *terminal.ReadEvents) (string, error) {
	if pt.realInput && pt.realOutput {
		io.WriteString(pt.output, prompt.String())
	}

	s, err := pt.reader.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return "", err
	}

	// while we were waiting for input we may have received an interrupt
	// signal. other events are serviced by the debugger elsewhere
	if events != nil {
		select {
		case sig := <-events.Signal:
			return "", events.SignalHandler(sig)
		default:
		}
	}

	return strings.TrimRight(s, "\r\n"), nil
}

// IsInteractive implements the terminal.Input interface.
func (pt *PlainTerminal) IsInteractive() bool {
	return pt.realInput
}
