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

// Package colorterm implements the Terminal interface for the GopherDS
// debugger. It supports color output, history and tab completion.
package colorterm

import (
	"os"

	"github.com/jetsetilly/gopherds/debugger/terminal"
	"github.com/jetsetilly/gopherds/debugger/terminal/colorterm/easyterm"
)

// the maximum number of entries in the command history.
const maxHistory = 100

// ColorTerminal implements debugger UI interface with a basic ANSI terminal.
type ColorTerminal struct {
	easyterm.EasyTerm

	reader        runeReader
	history       []string
	tabCompletion terminal.TabCompletion

	silenced bool
}

// Initialise perfoms any setting up required for the terminal.
func (ct *ColorTerminal) Initialise() error {
	err := ct.EasyTerm.Initialise(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}

	ct.history = make([]string, 0, maxHistory)
	ct.reader = initRuneReader(os.Stdin)

	return nil
}

// CleanUp perfoms any cleaning up required for the terminal.
func (ct *ColorTerminal) CleanUp() {
	ct.EasyTerm.TermPrint("\r")
	_ = ct.Flush()
	ct.EasyTerm.CleanUp()
}

// RegisterTabCompletion adds an implementation of TabCompletion to the
// ColorTerminal.
func (ct *ColorTerminal) RegisterTabCompletion(tc terminal.TabCompletion) {
	ct.tabCompletion = tc
}

// IsInteractive implements the terminal.Input interface.
func (ct *ColorTerminal) IsInteractive() bool {
	return true
}

// Silence implements the terminal.Terminal interface.
func (ct *ColorTerminal) Silence(silenced bool) {
	ct.silenced = silenced
}

// addHistory appends the input to the command history. Repeated commands are
// only added once.
func (ct *ColorTerminal) addHistory(input string) {
	if input == "" {
		return
	}
	if len(ct.history) > 0 && ct.history[len(ct.history)-1] == input {
		return
	}
	if len(ct.history) >= maxHistory {
		ct.history = ct.history[1:]
	}
	ct.history = append(ct.history, input)
}
