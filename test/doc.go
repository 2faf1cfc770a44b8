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

// Package test contains helper functions that remove common boilerplate from
// the tests in GopherDS.
//
// The Expect functions report a failure with t.Errorf() and allow the test to
// continue. The Demand functions use t.Fatalf() and stop the test
// immediately. Both accept optional tags which are prepended to the failure
// message, which is useful when the check is made inside a loop:
//
//	for i, v := range values {
//		test.ExpectEquality(t, f(v), want[i], "value", i)
//	}
//
// Nil is considered a success by ExpectSuccess() and a failure by
// ExpectFailure(). This follows the convention of a nil error meaning no
// error.
//
// CompareWriter, CappedWriter and RingWriter implement io.Writer and are used
// to capture output for comparison.
package test
