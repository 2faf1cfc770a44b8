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

package test

import (
	"fmt"
	"strings"
)

// CompareWriter captures output so that it can be compared with an expected
// string.
type CompareWriter struct {
	buffer []byte
}

// Write implements the io.Writer interface.
func (tw *CompareWriter) Write(p []byte) (n int, err error) {
	tw.buffer = append(tw.buffer, p...)
	return len(p), nil
}

// Clear empties the buffer.
func (tw *CompareWriter) Clear() {
	tw.buffer = tw.buffer[:0]
}

// Compare buffered output with the expected string.
func (tw *CompareWriter) Compare(s string) bool {
	return s == string(tw.buffer)
}

func (tw *CompareWriter) String() string {
	return string(tw.buffer)
}

// CappedWriter stops buffering once a predefined size is reached.
type CappedWriter struct {
	buffer []byte
	size   int
}

// NewCappedWriter is the preferred method of initialisation for the
// CappedWriter type.
func NewCappedWriter(size int) (*CappedWriter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid size for CappedWriter (%d)", size)
	}
	return &CappedWriter{
		size:   size,
		buffer: make([]byte, 0, size),
	}, nil
}

func (r *CappedWriter) String() string {
	return string(r.buffer)
}

// Reset empties the buffer.
func (r *CappedWriter) Reset() {
	r.buffer = r.buffer[:0]
}

// Write implements the io.Writer interface.
func (r *CappedWriter) Write(p []byte) (n int, err error) {
	remaining := r.size - len(r.buffer)
	if remaining <= 0 {
		return 0, nil
	}
	if len(p) < remaining {
		r.buffer = append(r.buffer, p...)
		return len(p), nil
	}
	r.buffer = append(r.buffer, p[:remaining]...)
	return remaining, nil
}

// RingWriter keeps the most recent output up to a predefined size.
type RingWriter struct {
	buffer  []byte
	size    int
	cursor  int
	wrapped bool
}

// NewRingWriter is the preferred method of initialisation for the RingWriter
// type.
func NewRingWriter(size int) (*RingWriter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid size for RingWriter (%d)", size)
	}
	return &RingWriter{
		size:   size,
		buffer: make([]byte, size),
	}, nil
}

func (r *RingWriter) String() string {
	var s strings.Builder
	if r.wrapped {
		s.Write(r.buffer[r.cursor:])
	}
	s.Write(r.buffer[:r.cursor])
	return s.String()
}

// Reset empties the buffer.
func (r *RingWriter) Reset() {
	r.cursor = 0
	r.wrapped = false
}

// Write implements the io.Writer interface.
func (r *RingWriter) Write(p []byte) (n int, err error) {
	n = len(p)

	// only the tail of an oversized write can be kept
	if len(p) > r.size {
		p = p[len(p)-r.size:]
		r.cursor = 0
		r.wrapped = true
		copy(r.buffer, p)
		return n, nil
	}

	l := copy(r.buffer[r.cursor:], p)
	if l < len(p) {
		r.wrapped = true
		copy(r.buffer, p[l:])
	}
	r.cursor = (r.cursor + len(p)) % r.size
	if r.cursor == 0 && len(p) > 0 {
		r.wrapped = true
	}

	return n, nil
}
