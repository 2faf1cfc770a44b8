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

// Package easyterm is a wrapper for "github.com/pkg/term/termios". It provides
// some features not present in that package, such as terminal geometry, and
// wraps termios functions in functions with friendlier names.
package easyterm

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Geometry is the size of the terminal in characters.
type Geometry struct {
	Rows int
	Cols int
}

// EasyTerm is the main container for posix terminals. Usually embedded in
// other struct types.
type EasyTerm struct {
	input  *os.File
	output *os.File

	canAttr    unix.Termios
	cbreakAttr unix.Termios

	// sig/ack channels to control the signal handler
	terminateSig chan bool
	terminateAck chan bool

	// geometry is updated by the signal handler
	mu       sync.Mutex
	geometry Geometry
}

// Initialise the fields in the EasyTerm struct.
func (et *EasyTerm) Initialise(input *os.File, output *os.File) error {
	if input == nil {
		return fmt.Errorf("easyterm: requires an input file")
	}
	if output == nil {
		return fmt.Errorf("easyterm: requires an output file")
	}

	et.input = input
	et.output = output

	// prepare the attributes for the different terminal modes we'll be using
	if err := termios.Tcgetattr(et.input.Fd(), &et.canAttr); err != nil {
		return fmt.Errorf("easyterm: %w", err)
	}
	et.cbreakAttr = et.canAttr
	termios.Cfmakecbreak(&et.cbreakAttr)

	_ = et.UpdateGeometry()

	et.terminateSig = make(chan bool)
	et.terminateAck = make(chan bool)

	go func() {
		sigwinch := make(chan os.Signal, 1)
		signal.Notify(sigwinch, syscall.SIGWINCH)
		defer func() {
			signal.Stop(sigwinch)
			et.terminateAck <- true
		}()

		for {
			select {
			case <-sigwinch:
				_ = et.UpdateGeometry()
			case <-et.terminateSig:
				return
			}
		}
	}()

	return nil
}

// CleanUp closes resources created in the Initialise() function and returns
// the terminal to canonical mode.
func (et *EasyTerm) CleanUp() {
	et.CanonicalMode()
	et.terminateSig <- true
	<-et.terminateAck
}

// TermPrint writes the string to the output file.
func (et *EasyTerm) TermPrint(s string) {
	et.output.WriteString(s)
}

// UpdateGeometry gets the current dimensions of the output terminal.
func (et *EasyTerm) UpdateGeometry() error {
	cols, rows, err := term.GetSize(int(et.output.Fd()))
	if err != nil {
		return fmt.Errorf("easyterm: %w", err)
	}

	et.mu.Lock()
	defer et.mu.Unlock()
	et.geometry = Geometry{Rows: rows, Cols: cols}
	return nil
}

// Geometry returns the most recent dimensions of the output terminal.
func (et *EasyTerm) Geometry() Geometry {
	et.mu.Lock()
	defer et.mu.Unlock()
	return et.geometry
}

// CanonicalMode puts the terminal into normal, everyday canonical mode.
func (et *EasyTerm) CanonicalMode() {
	_ = termios.Tcsetattr(et.input.Fd(), termios.TCSANOW, &et.canAttr)
}

// CBreakMode puts the terminal into cbreak mode. Input is available one
// character at a time and is not echoed. Signals are still generated.
func (et *EasyTerm) CBreakMode() {
	_ = termios.Tcsetattr(et.input.Fd(), termios.TCSANOW, &et.cbreakAttr)
}

// Flush makes sure the terminal's input and output buffers are empty.
func (et *EasyTerm) Flush() error {
	if err := termios.Tcflush(et.input.Fd(), termios.TCIFLUSH); err != nil {
		return err
	}
	return termios.Tcflush(et.output.Fd(), termios.TCOFLUSH)
}
