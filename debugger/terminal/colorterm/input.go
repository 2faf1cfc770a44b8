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
	"unicode"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/debugger/terminal"
	"github.com/jetsetilly/gopherds/debugger/terminal/colorterm/easyterm"
	"github.com/jetsetilly/gopherds/debugger/terminal/colorterm/easyterm/ansi"
)

// lineEditor is the state of the line currently being edited.
type lineEditor struct {
	input  []rune
	cursor int

	// index into the command history. equal to len(history) when the user
	// is not browsing history
	historyIdx int

	// the line as it was before history browsing started
	pending []rune
}

func (ed *lineEditor) set(s []rune) {
	ed.input = append(ed.input[:0], s...)
	ed.cursor = len(ed.input)
}

func (ed *lineEditor) insert(r rune) {
	ed.input = append(ed.input, 0)
	copy(ed.input[ed.cursor+1:], ed.input[ed.cursor:])
	ed.input[ed.cursor] = r
	ed.cursor++
}

func (ed *lineEditor) backspace() {
	if ed.cursor == 0 {
		return
	}
	ed.input = append(ed.input[:ed.cursor-1], ed.input[ed.cursor:]...)
	ed.cursor--
}

func (ed *lineEditor) delete() {
	if ed.cursor >= len(ed.input) {
		return
	}
	ed.input = append(ed.input[:ed.cursor], ed.input[ed.cursor+1:]...)
}

// TermRead implements the terminal.Input interface.
func (ct *ColorTerminal) TermRead(prompt terminal.Prompt, events *terminal.ReadEvents) (string, error) {
	if ct.silenced {
		return "", nil
	}

	ct.CBreakMode()
	defer ct.CanonicalMode()

	ed := lineEditor{historyIdx: len(ct.history)}

	if ct.tabCompletion != nil {
		ct.tabCompletion.Reset()
	}

	// the escape sequence being received
	var esc []rune

	for {
		ct.redraw(prompt, &ed)

		select {
		case sig := <-events.Signal:
			ct.EasyTerm.TermPrint("\n")
			if events.SignalHandler != nil {
				if err := events.SignalHandler(sig); err != nil {
					return "", err
				}
			}

		case rr := <-ct.reader:
			if rr.err != nil {
				ct.EasyTerm.TermPrint("\n")
				return "", rr.err
			}
			r := rr.r

			if esc != nil {
				esc = append(esc, r)
				if ct.escape(&ed, esc) {
					esc = nil
				}
				continue
			}

			switch r {
			case easyterm.KeyEsc:
				esc = []rune{}

			case easyterm.KeyInterrupt:
				ct.EasyTerm.TermPrint("\n")
				return "", curated.Errorf(terminal.UserInterrupt)

			case easyterm.KeySuspend:
				ct.CanonicalMode()
				easyterm.SuspendProcess()
				ct.CBreakMode()

			case easyterm.KeyTab:
				if ct.tabCompletion != nil {
					ed.set([]rune(ct.tabCompletion.Complete(string(ed.input[:ed.cursor]))))
				}

			case easyterm.KeyCarriageReturn, easyterm.KeyLineFeed:
				ct.EasyTerm.TermPrint("\n")
				s := string(ed.input)
				ct.addHistory(s)
				return s, nil

			case easyterm.KeyBackspace, easyterm.KeyDelete:
				ed.backspace()
				if ct.tabCompletion != nil {
					ct.tabCompletion.Reset()
				}

			default:
				if unicode.IsPrint(r) {
					ed.insert(r)
					if ct.tabCompletion != nil {
						ct.tabCompletion.Reset()
					}
				}
			}
		}
	}
}

// escape handles the cursor escape sequences. It returns true when the
// sequence is complete.
func (ct *ColorTerminal) escape(ed *lineEditor, esc []rune) bool {
	if esc[0] != easyterm.EscCursor {
		return true
	}
	if len(esc) < 2 {
		return false
	}

	switch esc[1] {
	case easyterm.CursorUp:
		if ed.historyIdx > 0 {
			if ed.historyIdx == len(ct.history) {
				ed.pending = append([]rune{}, ed.input...)
			}
			ed.historyIdx--
			ed.set([]rune(ct.history[ed.historyIdx]))
		}
	case easyterm.CursorDown:
		if ed.historyIdx < len(ct.history) {
			ed.historyIdx++
			if ed.historyIdx == len(ct.history) {
				ed.set(ed.pending)
			} else {
				ed.set([]rune(ct.history[ed.historyIdx]))
			}
		}
	case easyterm.CursorForward:
		if ed.cursor < len(ed.input) {
			ed.cursor++
		}
	case easyterm.CursorBackward:
		if ed.cursor > 0 {
			ed.cursor--
		}
	case easyterm.CursorHome:
		ed.cursor = 0
	case easyterm.CursorEnd:
		ed.cursor = len(ed.input)
	case easyterm.CursorDelete:
		// delete key is followed by a tilde
		if len(esc) < 3 {
			return false
		}
		ed.delete()
	}

	return true
}

// redraw the prompt and input line and position the cursor.
func (ct *ColorTerminal) redraw(prompt terminal.Prompt, ed *lineEditor) {
	ct.EasyTerm.TermPrint(ansi.ClearLine)
	ct.EasyTerm.TermPrint("\r")
	if prompt.Halted {
		ct.EasyTerm.TermPrint(ansi.DimPens["yellow"])
	} else {
		ct.EasyTerm.TermPrint(ansi.PenStyles["bold"])
	}
	ct.EasyTerm.TermPrint(prompt.String())
	ct.EasyTerm.TermPrint(ansi.NormalPen)
	ct.EasyTerm.TermPrint(string(ed.input))
	ct.EasyTerm.TermPrint(ansi.CursorMove(ed.cursor - len(ed.input)))
}
