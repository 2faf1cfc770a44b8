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

package curated

import (
	"errors"
	"fmt"
	"strings"
)

// curated is an implementation of the go language error interface.
type curated struct {
	pattern string
	values  []any
}

// Errorf creates a new curated error. Formatting is deferred until Error() is
// called.
func Errorf(pattern string, values ...any) error {
	return curated{
		pattern: pattern,
		values:  values,
	}
}

// Error implements the go language error interface.
func (er curated) Error() string {
	s := fmt.Sprintf(er.pattern, er.values...)

	// remove duplicate adjacent parts of the message
	p := strings.Split(s, ": ")
	n := p[:1]
	for _, q := range p[1:] {
		if q != n[len(n)-1] {
			n = append(n, q)
		}
	}

	return strings.Join(n, ": ")
}

// Unwrap returns the first error value used to create the curated error.
func (er curated) Unwrap() error {
	for _, v := range er.values {
		if e, ok := v.(error); ok {
			return e
		}
	}
	return nil
}

// IsAny checks if the error is a curated error.
func IsAny(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(curated)
	return ok
}

// Is checks if error is a curated error with a specific pattern.
func Is(err error, pattern string) bool {
	if err == nil {
		return false
	}
	if c, ok := err.(curated); ok {
		return c.pattern == pattern
	}
	return false
}

// Has checks if error is a curated error with a specific pattern somewhere in
// the chain.
func Has(err error, pattern string) bool {
	for err != nil {
		if Is(err, pattern) {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
