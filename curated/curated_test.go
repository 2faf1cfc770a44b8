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

package curated_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/test"
)

const (
	testError  = "test error: %s"
	testError2 = "test error 2: %v"
)

func TestDuplicateErrors(t *testing.T) {
	e := curated.Errorf(testError, "foo")
	test.ExpectEquality(t, e.Error(), "test error: foo")

	// packages wrapping errors with the same prefix are collapsed
	f := curated.Errorf("test error: %v", e)
	test.ExpectEquality(t, f.Error(), "test error: foo")
}

func TestIs(t *testing.T) {
	e := curated.Errorf(testError, "foo")
	test.ExpectSuccess(t, curated.Is(e, testError))
	test.ExpectSuccess(t, curated.IsAny(e))

	f := curated.Errorf(testError2, e)
	test.ExpectFailure(t, curated.Is(f, testError))
	test.ExpectSuccess(t, curated.Is(f, testError2))
	test.ExpectSuccess(t, curated.Has(f, testError))
	test.ExpectSuccess(t, curated.Has(f, testError2))

	// plain errors are not curated
	g := errors.New("plain")
	test.ExpectFailure(t, curated.IsAny(g))
	test.ExpectFailure(t, curated.Has(g, testError))

	// the chain can pass through errors wrapped by the fmt package
	h := fmt.Errorf("wrapped: %w", f)
	test.ExpectSuccess(t, curated.Has(h, testError))
	test.ExpectFailure(t, curated.IsAny(h))
}
