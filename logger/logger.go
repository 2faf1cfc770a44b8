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
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Entry represents a single line in the log.
type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string
	repeated  int
}

func (e Entry) String() string {
	var s strings.Builder
	s.WriteString(e.Tag)
	s.WriteString(": ")
	s.WriteString(e.Detail)
	if e.repeated > 0 {
		s.WriteString(fmt.Sprintf(" (repeat x%d)", e.repeated+1))
	}
	s.WriteString("\n")
	return s.String()
}

// Logger is a ring of entries. The zero value is not usable, use NewLogger().
type Logger struct {
	crit       sync.Mutex
	maxEntries int
	entries    []Entry
	echo       io.Writer
}

// NewLogger is the preferred method of initialisation for the Logger type.
func NewLogger(maxEntries int) *Logger {
	return &Logger{
		maxEntries: maxEntries,
		entries:    make([]Entry, 0, maxEntries),
	}
}

func detailString(detail any) string {
	switch d := detail.(type) {
	case string:
		return d
	case error:
		return d.Error()
	case fmt.Stringer:
		return d.String()
	}
	return fmt.Sprintf("%v", detail)
}

// Log adds an entry to the log. The detail argument will usually be a string
// or an error but any value can be used.
func (l *Logger) Log(perm Permission, tag string, detail any) {
	if perm != Allow && !perm.AllowLogging() {
		return
	}
	l.add(tag, detailString(detail))
}

// Logf adds a formatted entry to the log.
func (l *Logger) Logf(perm Permission, tag string, format string, args ...any) {
	if perm != Allow && !perm.AllowLogging() {
		return
	}
	l.add(tag, fmt.Sprintf(format, args...))
}

func (l *Logger) add(tag string, detail string) {
	l.crit.Lock()
	defer l.crit.Unlock()

	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	var e *Entry
	if len(l.entries) > 0 {
		e = &l.entries[len(l.entries)-1]
	}

	if e != nil && e.Tag == tag && e.Detail == detail {
		e.repeated++
		e.Timestamp = time.Now()
	} else {
		l.entries = append(l.entries, Entry{Timestamp: time.Now(), Tag: tag, Detail: detail})
		e = &l.entries[len(l.entries)-1]
		if len(l.entries) > l.maxEntries {
			l.entries = append(l.entries[:0], l.entries[len(l.entries)-l.maxEntries:]...)
			e = &l.entries[len(l.entries)-1]
		}
	}

	if l.echo != nil {
		io.WriteString(l.echo, e.String())
	}
}

// SetEcho prints every new entry to the writer as well as storing it. A nil
// writer stops the echo.
func (l *Logger) SetEcho(output io.Writer) {
	l.crit.Lock()
	defer l.crit.Unlock()
	l.echo = output
}

// Clear all entries.
func (l *Logger) Clear() {
	l.crit.Lock()
	defer l.crit.Unlock()
	l.entries = l.entries[:0]
}

// Write all entries to the writer.
func (l *Logger) Write(output io.Writer) {
	l.crit.Lock()
	defer l.crit.Unlock()
	for _, e := range l.entries {
		io.WriteString(output, e.String())
	}
}

// Tail writes the last N entries to the writer.
func (l *Logger) Tail(output io.Writer, number int) {
	l.crit.Lock()
	defer l.crit.Unlock()

	if number > len(l.entries) {
		number = len(l.entries)
	}
	if number < 0 {
		number = 0
	}
	for _, e := range l.entries[len(l.entries)-number:] {
		io.WriteString(output, e.String())
	}
}

// Copy returns a copy of every entry in the log.
func (l *Logger) Copy() []Entry {
	l.crit.Lock()
	defer l.crit.Unlock()
	c := make([]Entry, len(l.entries))
	copy(c, l.entries)
	return c
}
