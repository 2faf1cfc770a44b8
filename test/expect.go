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
	"testing"

	"golang.org/x/exp/constraints"
)

// id builds a prefix for a failure message from the tags supplied to an
// Expect or Demand function.
func id(tags ...any) string {
	if len(tags) == 0 {
		return ""
	}
	var s strings.Builder
	for i, t := range tags {
		if i > 0 {
			s.WriteString(" ")
		}
		s.WriteString(fmt.Sprintf("%v", t))
	}
	s.WriteString(": ")
	return s.String()
}

// ExpectEquality compares a value against an expected value.
func ExpectEquality[T comparable](t *testing.T, value T, expectedValue T, tags ...any) bool {
	t.Helper()
	if value != expectedValue {
		t.Errorf("%sequality test of type %T failed: %v does not equal %v", id(tags...), value, value, expectedValue)
		return false
	}
	return true
}

// ExpectInequality is the inverse of ExpectEquality.
func ExpectInequality[T comparable](t *testing.T, value T, expectedValue T, tags ...any) bool {
	t.Helper()
	if value == expectedValue {
		t.Errorf("%sinequality test of type %T failed: %v equals %v", id(tags...), value, value, expectedValue)
		return false
	}
	return true
}

// ExpectApproximate checks that value is within tolerance of expectedValue.
// The tolerance is a proportion of expectedValue.
func ExpectApproximate[T constraints.Integer | constraints.Float](t *testing.T, value T, expectedValue T, tolerance float64, tags ...any) bool {
	t.Helper()
	top := float64(expectedValue) * (1 + tolerance)
	bot := float64(expectedValue) * (1 - tolerance)
	if top < bot {
		top, bot = bot, top
	}
	if float64(value) < bot || float64(value) > top {
		t.Errorf("%sapproximation test of type %T failed: %v is outside the range %v to %v", id(tags...), value, value, bot, top)
		return false
	}
	return true
}

// ExpectFailure tests argument v for a failure condition suitable for its
// type. Supported types:
//
//	bool -> bool == false
//	error -> error != nil
//
// If v is nil then the test fails.
func ExpectFailure(t *testing.T, v any, tags ...any) bool {
	t.Helper()

	switch v := v.(type) {
	case bool:
		if v {
			t.Errorf("%sexpected failure (bool)", id(tags...))
			return false
		}
	case error:
		if v == nil {
			t.Errorf("%sexpected failure (error)", id(tags...))
			return false
		}
	case nil:
		t.Errorf("%sexpected failure (nil)", id(tags...))
		return false
	default:
		t.Fatalf("%sunsupported type (%T) for expectation testing", id(tags...), v)
		return false
	}

	return true
}

// ExpectSuccess tests argument v for a success condition suitable for its
// type. Supported types:
//
//	bool -> bool == true
//	error -> error == nil
//
// If v is nil then the test succeeds.
func ExpectSuccess(t *testing.T, v any, tags ...any) bool {
	t.Helper()

	switch v := v.(type) {
	case bool:
		if !v {
			t.Errorf("%sexpected success (bool)", id(tags...))
			return false
		}
	case error:
		if v != nil {
			t.Errorf("%sexpected success (error: %v)", id(tags...), v)
			return false
		}
	case nil:
		return true
	default:
		t.Fatalf("%sunsupported type (%T) for expectation testing", id(tags...), v)
		return false
	}

	return true
}

// DemandEquality is like ExpectEquality but the test is stopped on failure.
func DemandEquality[T comparable](t *testing.T, value T, expectedValue T, tags ...any) {
	t.Helper()
	if value != expectedValue {
		t.Fatalf("%sequality test of type %T failed: %v does not equal %v", id(tags...), value, value, expectedValue)
	}
}

// DemandSuccess is like ExpectSuccess but the test is stopped on failure.
func DemandSuccess(t *testing.T, v any, tags ...any) {
	t.Helper()
	if !ExpectSuccess(t, v, tags...) {
		t.FailNow()
	}
}
