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

package statsview_test

import (
	"bytes"
	"testing"

	"github.com/jetsetilly/gopherds/statsview"
	"github.com/jetsetilly/gopherds/test"
)

func TestStub(t *testing.T) {
	if statsview.Available() {
		t.Skip("statsview is built")
	}
	var b bytes.Buffer
	statsview.Launch(&b)
	test.ExpectEquality(t, b.Len(), 0)
	test.ExpectEquality(t, statsview.Address, "")
}
