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

package plainterm_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/jetsetilly/gopherds/debugger/terminal"
	"github.com/jetsetilly/gopherds/debugger/terminal/plainterm"
	"github.com/jetsetilly/gopherds/test"
)

func TestPlainTerminal(t *testing.T) {
	var out bytes.Buffer
	pt := plainterm.NewPlainTerminal(strings.NewReader("regs\r\nstep arm7\nquit"), &out)
	test.DemandSuccess(t, pt.Initialise())
	test.ExpectFailure(t, pt.IsInteractive())

	for _, exp := range []string{"regs", "step arm7", "quit"} {
		s, err := pt.TermRead(terminal.Prompt{}, nil)
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, s, exp)
	}
	_, err := pt.TermRead(terminal.Prompt{}, nil)
	test.ExpectEquality(t, err, io.EOF)

	pt.TermPrintLine(terminal.StyleEcho, "echo")
	pt.TermPrintLine(terminal.StyleFeedback, "feedback")
	pt.TermPrintLine(terminal.StyleError, "error")
	pt.Silence(true)
	pt.TermPrintLine(terminal.StyleFeedback, "silenced")
	pt.TermPrintLine(terminal.StyleError, "still an error")

	test.ExpectEquality(t, out.String(), "feedback\n* error\n* still an error\n")
}
