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

package script

import (
	"io"
	"os"
	"strings"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/debugger/terminal"
)

// Error patterns.
const (
	ScriptFileError = "script: %s: %v"
	ScriptEnd       = "script: %s: end of script"
)

const commentLine = "#"

// check if line is prepended with commentLine (ignoring leading spaces).
func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), commentLine)
}

// Rescribe represents a previously scribed script. The type implements the
// terminal.Input interface.
type Rescribe struct {
	name   string
	lines  []string
	lineCt int
}

// RescribeScript is the preferred method of initialisation for the Rescribe
// type.
func RescribeScript(filename string) (*Rescribe, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, curated.Errorf(ScriptFileError, filename, err)
	}
	defer f.Close()

	return NewRescribe(filename, f)
}

// NewRescribe creates a Rescribe instance from the reader. The name is used in
// error messages.
func NewRescribe(name string, r io.Reader) (*Rescribe, error) {
	buffer, err := io.ReadAll(r)
	if err != nil {
		return nil, curated.Errorf(ScriptFileError, name, err)
	}

	scr := &Rescribe{name: name}
	for _, l := range strings.Split(string(buffer), "\n") {
		l = strings.TrimSpace(l)
		if l == "" || isComment(l) {
			continue
		}
		scr.lines = append(scr.lines, l)
	}

	return scr, nil
}

// IsInteractive implements the terminal.Input interface.
func (scr *Rescribe) IsInteractive() bool {
	return false
}

// TermRead implements the terminal.Input interface.
func (scr *Rescribe) TermRead(_ terminal.Prompt, _ *terminal.ReadEvents) (string, error) {
	if scr.lineCt >= len(scr.lines) {
		return "", curated.Errorf(ScriptEnd, scr.name)
	}
	scr.lineCt++
	return scr.lines[scr.lineCt-1], nil
}
