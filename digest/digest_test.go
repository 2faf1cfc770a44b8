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

package digest_test

import (
	"context"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/jetsetilly/gopherds/digest"
	"github.com/jetsetilly/gopherds/hardware"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/test"
)

// both cores count in R0 forever.
var counter = []uint32{
	0xe3a00000, // MOV R0, #0
	0xe2800001, // ADD R0, R0, #1
	0xeafffffd, // B to the ADD
}

func newDS(t *testing.T) *hardware.DS {
	t.Helper()

	data := make([]byte, 0x1000)
	le := binary.LittleEndian
	copy(data, "DIGEST")
	copy(data[0x0c:], "DGST")
	put := func(hdr int, offset uint32, load uint32) {
		le.PutUint32(data[hdr:], offset)
		le.PutUint32(data[hdr+4:], load)
		le.PutUint32(data[hdr+8:], load)
		le.PutUint32(data[hdr+12:], uint32(len(counter)*4))
		for i, w := range counter {
			le.PutUint32(data[int(offset)+i*4:], w)
		}
	}
	put(0x20, 0x200, 0x02000000)
	put(0x30, 0x400, 0x02380000)

	ds, err := hardware.NewDS(nil)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, ds.Insert(data))
	test.DemandSuccess(t, ds.Reset())
	return ds
}

func TestState(t *testing.T) {
	a := newDS(t)
	b := newDS(t)

	test.DemandSuccess(t, a.RunForFrameCount(context.Background(), 2))
	test.DemandSuccess(t, b.RunForFrameCount(context.Background(), 2))

	da, err := digest.State(a)
	test.DemandSuccess(t, err)
	db, err := digest.State(b)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(da), 40)
	test.ExpectEquality(t, da, db)

	b.SetRegister(memory.ARM9, 0, 0)
	db, err = digest.State(b)
	test.DemandSuccess(t, err)
	test.ExpectInequality(t, da, db)
}

func TestVideo(t *testing.T) {
	a := newDS(t)
	b := newDS(t)
	va := digest.NewVideo(a)
	vb := digest.NewVideo(b)

	test.ExpectEquality(t, va.Hash(), strings.Repeat("0", 40))

	test.DemandSuccess(t, a.RunForFrameCount(context.Background(), 2))
	test.DemandSuccess(t, b.RunForFrameCount(context.Background(), 2))
	test.ExpectEquality(t, va.Frames(), 2)
	test.ExpectEquality(t, va.Hash(), vb.Hash())

	// a change to the display state changes the digest of every later frame
	b.Shared.Palette[0] = 0x1f
	test.DemandSuccess(t, a.RunForFrameCount(context.Background(), 1))
	test.DemandSuccess(t, b.RunForFrameCount(context.Background(), 1))
	test.ExpectInequality(t, va.Hash(), vb.Hash())

	b.Shared.Palette[0] = 0x00
	test.DemandSuccess(t, a.RunForFrameCount(context.Background(), 1))
	test.DemandSuccess(t, b.RunForFrameCount(context.Background(), 1))
	test.ExpectInequality(t, va.Hash(), vb.Hash())

	va.ResetDigest()
	test.ExpectEquality(t, va.Hash(), strings.Repeat("0", 40))
	test.ExpectEquality(t, va.Frames(), 0)
}
