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
	"fmt"
	"strings"
)

// Prompt specifies the prompt text.
type Prompt struct {
	// the core the debugger is focused on and the address of its next
	// instruction
	Core    string
	Address uint32

	// the focused core is halted and waiting for an interrupt
	Halted bool

	// the prompt is being shown while a script is running
	Scripting bool
}

// String returns the prompt with standard decoration. Good for terminals with
// no graphical capabilities.
func (p Prompt) String() string {
	s := strings.Builder{}
	s.WriteString("[ ")
	if p.Scripting {
		s.WriteString("(script) ")
	}
	s.WriteString(fmt.Sprintf("%s %08x", p.Core, p.Address))
	if p.Halted {
		s.WriteString(" halted")
	}
	s.WriteString(" ] >> ")
	return s.String()
}
