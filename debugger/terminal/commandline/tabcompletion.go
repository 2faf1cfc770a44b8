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

package commandline

import (
	"strings"
)

// TabCompletion keeps track of the most recent tab completion attempt.
type TabCompletion struct {
	cmds *Commands

	matches []string
	match   int

	// the prefix of the input that is not being completed
	prefix string

	// the last completion returned. if the input to Complete() differs from
	// this then a new session is started
	lastCompletion string
}

// NewTabCompletion initialises a new TabCompletion instance. Completion
// works best if Complete() is called once per tab key press.
func NewTabCompletion(cmds *Commands) *TabCompletion {
	tc := &TabCompletion{cmds: cmds}
	tc.Reset()
	return tc
}

// Complete transforms the input such that the last word in the input is
// expanded to meet the closest match allowed by the command definitions.
// Subsequent calls to Complete() without an intervening call to Reset() will
// cycle through the original available options.
func (tc *TabCompletion) Complete(input string) string {
	if len(tc.matches) > 0 && input == tc.lastCompletion {
		tc.match++
		if tc.match >= len(tc.matches) {
			tc.match = 0
		}
		tc.lastCompletion = tc.prefix + tc.matches[tc.match] + " "
		return tc.lastCompletion
	}

	tc.Reset()

	fields := strings.Fields(input)
	trailing := strings.HasSuffix(input, " ")

	var candidates []string
	var word string

	switch {
	case len(fields) == 0:
		return input

	case len(fields) == 1 && !trailing:
		candidates = tc.cmds.Keywords()
		word = fields[0]

	case (len(fields) == 1 && trailing) || (len(fields) == 2 && !trailing):
		c, ok := tc.cmds.index[strings.ToUpper(fields[0])]
		if !ok || len(c.Options) == 0 {
			return input
		}
		candidates = c.Options
		if len(fields) == 2 {
			word = fields[1]
		}
		tc.prefix = strings.ToUpper(fields[0]) + " "

	default:
		return input
	}

	word = strings.ToUpper(word)
	for _, c := range candidates {
		if strings.HasPrefix(c, word) {
			tc.matches = append(tc.matches, c)
		}
	}

	if len(tc.matches) == 0 {
		tc.Reset()
		return input
	}

	tc.lastCompletion = tc.prefix + tc.matches[0] + " "
	return tc.lastCompletion
}

// Reset is used to clear an outstanding completion session.
func (tc *TabCompletion) Reset() {
	tc.matches = tc.matches[:0]
	tc.match = 0
	tc.prefix = ""
	tc.lastCompletion = ""
}
