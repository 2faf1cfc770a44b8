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

package faults_test

import (
	"testing"

	"github.com/jetsetilly/gopherds/hardware/memory/faults"
	"github.com/jetsetilly/gopherds/test"
)

func TestFaults(t *testing.T) {
	flt := faults.NewFaults()

	test.ExpectSuccess(t, flt.NewEntry(faults.OpenBus, 0x02000000, 0x09000000))
	test.ExpectFailure(t, flt.NewEntry(faults.OpenBus, 0x02000000, 0x09000000))
	test.ExpectSuccess(t, flt.NewEntry(faults.DroppedWrite, 0x02000000, 0x09000000))
	test.ExpectEquality(t, len(flt.Log), 2)
	test.ExpectEquality(t, flt.Log[0].Count, 2)

	w := &test.CompareWriter{}
	flt.WriteLog(w)
	test.ExpectSuccess(t, w.Compare("open bus: 09000000 (PC: 02000000) x2\ndropped write: 09000000 (PC: 02000000) x1\n"))

	flt.Clear()
	test.ExpectEquality(t, len(flt.Log), 0)
}
