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

package terminal

import (
	"os"
)

// Error patterns returned by TermRead() if a signal is caught while waiting
// for input.
const (
	UserInterrupt = "user interrupt"
	UserQuit      = "user quit"
)

// ReadEvents should be monitored during a TermRead().
type ReadEvents struct {
	// interrupt signals from the operating system
	Signal chan os.Signal

	// the error returned by the handler is returned by TermRead()
	SignalHandler func(os.Signal) error
}

// Input defines the operations required by an interface that allows input.
type Input interface {
	// TermRead returns a single line of input. The prompt is displayed by the
	// terminal if appropriate.
	TermRead(prompt Prompt, events *ReadEvents) (string, error)

	// IsInteractive returns true for implementations that require user
	// interaction.
	IsInteractive() bool
}

// Output defines the operations required by an interface that allows output.
type Output interface {
	TermPrintLine(Style, string)
}

// Terminal defines the operations required by the debugger's command line
// interface.
type Terminal interface {
	Input
	Output

	// Initialise the terminal. Not all implementations need to do anything.
	Initialise() error

	// CleanUp restores the terminal to its original state, if possible.
	CleanUp()

	// RegisterTabCompletion registers the tab completion implementation to use
	// with the terminal. Not all implementations need to respond to this.
	RegisterTabCompletion(TabCompletion)

	// Silence all output except error messages.
	Silence(silenced bool)
}

// TabCompletion defines the operations required for tab completion. An
// implementation can be found in the commandline sub-package.
type TabCompletion interface {
	Complete(input string) string
	Reset()
}
