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

package colorterm

import (
	"strings"
	"testing"

	"github.com/jetsetilly/gopherds/test"
)

func TestLineEditor(t *testing.T) {
	var ed lineEditor
	for _, r := range "stp" {
		ed.insert(r)
	}
	ed.cursor = 2
	ed.insert('e')
	test.ExpectEquality(t, string(ed.input), "step")
	test.ExpectEquality(t, ed.cursor, 3)

	ed.backspace()
	test.ExpectEquality(t, string(ed.input), "stp")
	ed.cursor = 0
	ed.backspace()
	test.ExpectEquality(t, string(ed.input), "stp")
	ed.delete()
	test.ExpectEquality(t, string(ed.input), "tp")
	ed.cursor = len(ed.input)
	ed.delete()
	test.ExpectEquality(t, string(ed.input), "tp")
}

func TestHistory(t *testing.T) {
	var ct ColorTerminal
	ct.addHistory("step")
	ct.addHistory("step")
	ct.addHistory("")
	ct.addHistory("regs")
	test.ExpectEquality(t, len(ct.history), 2)

	for i := 0; i < maxHistory+10; i++ {
		ct.addHistory(strings.Repeat("x", i+1))
	}
	test.ExpectEquality(t, len(ct.history), maxHistory)

	ed := lineEditor{historyIdx: len(ct.history)}
	ed.set([]rune("partial"))
	test.ExpectEquality(t, ct.escape(&ed, []rune{'['}), false)
	test.ExpectEquality(t, ct.escape(&ed, []rune{'[', 'A'}), true)
	test.ExpectEquality(t, string(ed.input), ct.history[len(ct.history)-1])
	ct.escape(&ed, []rune{'[', 'B'})
	test.ExpectEquality(t, string(ed.input), "partial")

	ct.escape(&ed, []rune{'[', 'H'})
	test.ExpectEquality(t, ed.cursor, 0)
	test.ExpectEquality(t, ct.escape(&ed, []rune{'[', '3'}), false)
	test.ExpectEquality(t, ct.escape(&ed, []rune{'[', '3', '~'}), true)
	test.ExpectEquality(t, string(ed.input), "artial")
}
