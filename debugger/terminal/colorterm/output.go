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
	"github.com/jetsetilly/gopherds/debugger/terminal"
	"github.com/jetsetilly/gopherds/debugger/terminal/colorterm/easyterm/ansi"
)

// TermPrintLine implements the terminal.Output interface.
func (ct *ColorTerminal) TermPrintLine(style terminal.Style, s string) {
	if ct.silenced && style != terminal.StyleError {
		return
	}

	// input has already been echoed by the terminal
	if style == terminal.StyleEcho {
		return
	}

	ct.EasyTerm.TermPrint("\r")

	switch style {
	case terminal.StyleHelp:
		ct.EasyTerm.TermPrint(ansi.DimPens["white"])
	case terminal.StyleFeedback:
		ct.EasyTerm.TermPrint(ansi.DimPens["white"])
	case terminal.StyleCPUStep:
		ct.EasyTerm.TermPrint(ansi.Pens["yellow"])
	case terminal.StyleInstrument:
		ct.EasyTerm.TermPrint(ansi.Pens["cyan"])
	case terminal.StyleLog:
		ct.EasyTerm.TermPrint(ansi.DimPens["magenta"])
	case terminal.StyleError:
		ct.EasyTerm.TermPrint(ansi.Pens["red"])
		ct.EasyTerm.TermPrint("* ")
	}

	ct.EasyTerm.TermPrint(s)
	ct.EasyTerm.TermPrint(ansi.NormalPen)
	ct.EasyTerm.TermPrint("\n")
}
