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

package logger

import (
	"io"
	"strings"
)

// ANSI sequences used by the Colorizer.
const (
	penTag    = "\033[36m"
	penRepeat = "\033[2m"
	penNormal = "\033[0m"
)

// Colorizer applies basic coloring rules to logging output. It is intended to
// be used as the echo writer when output is a terminal.
type Colorizer struct {
	out io.Writer
}

// NewColorizer is the preferred method of initialisation for the Colorizer
// type.
func NewColorizer(out io.Writer) Colorizer {
	return Colorizer{out: out}
}

// Write implements the io.Writer interface.
func (c Colorizer) Write(p []byte) (int, error) {
	s := string(p)

	var b strings.Builder
	if i := strings.Index(s, ": "); i > 0 {
		b.WriteString(penTag)
		b.WriteString(s[:i])
		b.WriteString(penNormal)
		s = s[i:]
	}
	if i := strings.LastIndex(s, " (repeat x"); i > 0 {
		b.WriteString(s[:i])
		b.WriteString(penRepeat)
		b.WriteString(strings.TrimSuffix(s[i:], "\n"))
		b.WriteString(penNormal)
		b.WriteString("\n")
	} else {
		b.WriteString(s)
	}

	if _, err := io.WriteString(c.out, b.String()); err != nil {
		return 0, err
	}
	return len(p), nil
}
