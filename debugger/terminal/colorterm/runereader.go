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
	"bufio"
	"io"
)

// readRune is the value sent over the runeReader channel.
type readRune struct {
	r   rune
	err error
}

type runeReader chan readRune

// initRuneReader starts a goroutine that reads runes from the input and sends
// them to the returned channel. The goroutine ends on the first error.
func initRuneReader(input io.Reader) runeReader {
	reader := make(runeReader)

	go func() {
		b := bufio.NewReader(input)
		for {
			r, _, err := b.ReadRune()
			reader <- readRune{r: r, err: err}
			if err != nil {
				return
			}
		}
	}()

	return reader
}
