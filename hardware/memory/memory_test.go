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

package memory_test

import (
	"testing"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/hardware/memory/faults"
	"github.com/jetsetilly/gopherds/test"
)

// registers is a minimal implementation of the memory.IO interface.
type registers struct {
	values map[uint32]uint32
	reads  int
}

func (r *registers) Read(addr uint32, width memory.Width) uint32 {
	r.reads++
	return r.values[addr]
}

func (r *registers) Peek(addr uint32, width memory.Width) uint32 {
	return r.values[addr]
}

func (r *registers) Write(addr uint32, width memory.Width, value uint32) {
	r.values[addr] = value
}

func newMaps() (*memory.Shared, *memory.Map, *memory.Map, *registers) {
	sh := memory.NewShared()
	io := &registers{values: make(map[uint32]uint32)}
	return sh, memory.NewMap(memory.ARM9, sh, io), memory.NewMap(memory.ARM7, sh, io), io
}

func TestMainRAMMirror(t *testing.T) {
	_, arm9, arm7, _ := newMaps()

	arm9.Write(0x02000010, memory.Width32, memory.Write, false, 0x12345678)

	v, _ := arm9.Read(0x02400010, memory.Width32, memory.Read, false)
	test.ExpectEquality(t, v, uint32(0x12345678))

	v, _ = arm7.Read(0x02000012, memory.Width16, memory.Read, false)
	test.ExpectEquality(t, v, uint32(0x1234))

	v, _ = arm7.Read(0x02000013, memory.Width8, memory.Read, false)
	test.ExpectEquality(t, v, uint32(0x12))

	// unaligned word access is aligned by the memory map
	v, _ = arm9.Read(0x02000011, memory.Width32, memory.Read, false)
	test.ExpectEquality(t, v, uint32(0x12345678))
}

func TestWaitStates(t *testing.T) {
	_, arm9, arm7, _ := newMaps()

	res := arm7.Resolve(0x02000000, memory.Width32, memory.Read, false)
	test.ExpectEquality(t, res.Cycles, 10)
	res = arm7.Resolve(0x02000000, memory.Width32, memory.Read, true)
	test.ExpectEquality(t, res.Cycles, 2)
	res = arm7.Resolve(0x03800000, memory.Width16, memory.Fetch, false)
	test.ExpectEquality(t, res.Cycles, 1)

	res = arm9.Resolve(0x02000000, memory.Width16, memory.Read, false)
	test.ExpectEquality(t, res.Cycles, 18)
}

func TestOpenBus(t *testing.T) {
	sh, arm9, _, _ := newMaps()

	// an opcode fetch from main RAM sets the open bus value
	sh.MainRAM[0] = 0x01
	sh.MainRAM[1] = 0x02
	sh.MainRAM[2] = 0x03
	sh.MainRAM[3] = 0xe3
	v, _ := arm9.Read(0x02000000, memory.Width32, memory.Fetch, false)
	test.ExpectEquality(t, v, uint32(0xe3030201))

	v, _ = arm9.Read(0x00000000, memory.Width32, memory.Read, false)
	test.ExpectEquality(t, v, uint32(0xe3030201))
	v, _ = arm9.Read(0x00000002, memory.Width16, memory.Read, false)
	test.ExpectEquality(t, v, uint32(0xe303))
	v, _ = arm9.Read(0x00000001, memory.Width8, memory.Read, false)
	test.ExpectEquality(t, v, uint32(0x02))

	// writes are dropped and logged
	arm9.Write(0x00000000, memory.Width32, memory.Write, false, 0xffffffff)
	test.ExpectEquality(t, len(arm9.Faults.Log), 4)
	test.ExpectEquality(t, arm9.Faults.Log[0].Category, faults.OpenBus)
	test.ExpectEquality(t, arm9.Faults.Log[3].Category, faults.DroppedWrite)

	// thumb fetches are duplicated in both halves of the bus
	v, _ = arm9.Read(0x02000000, memory.Width16, memory.Fetch, false)
	test.ExpectEquality(t, v, uint32(0x0201))
	test.ExpectEquality(t, arm9.OpenBus(0x0, memory.Width32), uint32(0x02010201))
}

func TestReadOnly(t *testing.T) {
	sh, arm9, _, _ := newMaps()
	sh.BIOS9[0] = 0xaa

	arm9.Write(0xffff0000, memory.Width8, memory.Write, false, 0x55)
	v, _ := arm9.Read(0xffff0000, memory.Width8, memory.Read, false)
	test.ExpectEquality(t, v, uint32(0xaa))
	test.ExpectEquality(t, arm9.Faults.Log[0].Category, faults.ReadOnly)

	// poke ignores permissions
	test.ExpectSuccess(t, arm9.Poke(0xffff0000, memory.Width8, 0x55))
	v, _ = arm9.Read(0xffff0000, memory.Width8, memory.Read, false)
	test.ExpectEquality(t, v, uint32(0x55))

	// the empty GBA slot reads as all ones
	v, _ = arm9.Read(0x08000000, memory.Width16, memory.Read, false)
	test.ExpectEquality(t, v, uint32(0xffff))
}

func TestWRAMCNT(t *testing.T) {
	sh, arm9, arm7, _ := newMaps()

	// all shared WRAM to the ARM9. the ARM7 sees its own WRAM
	arm9.Write(0x03000000, memory.Width32, memory.Write, false, 0x11111111)
	arm7.Write(0x03000000, memory.Width32, memory.Write, false, 0x22222222)
	test.ExpectEquality(t, sh.WRAM[0], uint8(0x11))
	test.ExpectEquality(t, sh.ARM7WRAM[0], uint8(0x22))

	// second half to the ARM9, first half to the ARM7
	sh.WRAMCNT = 1
	arm9.Reconfigure()
	arm7.Reconfigure()
	arm9.Write(0x03000000, memory.Width8, memory.Write, false, 0x33)
	test.ExpectEquality(t, sh.WRAM[0x4000], uint8(0x33))
	v, _ := arm7.Read(0x03004000, memory.Width8, memory.Read, false)
	test.ExpectEquality(t, v, uint32(0x11))

	// nothing for the ARM9
	sh.WRAMCNT = 3
	arm9.Reconfigure()
	arm7.Reconfigure()
	res := arm9.Resolve(0x03000000, memory.Width32, memory.Read, false)
	test.ExpectEquality(t, res.Fault, memory.FaultUnmapped)
	v, _ = arm7.Read(0x03004000, memory.Width8, memory.Read, false)
	test.ExpectEquality(t, v, uint32(0x33))
}

func TestTCM(t *testing.T) {
	sh, arm9, _, _ := newMaps()

	arm9.SetTCM(memory.TCM{Enabled: true, Size: 0x2000000}, memory.TCM{Enabled: true, Base: 0x027c0000, Size: 0x4000})

	arm9.Write(0x027c0004, memory.Width32, memory.Write, false, 0xcafef00d)
	test.ExpectEquality(t, sh.DTCM[4], uint8(0x0d))
	test.ExpectEquality(t, sh.MainRAM[0x3c0004], uint8(0x00))

	// DMA sees main RAM underneath the DTCM
	arm9.Write(0x027c0004, memory.Width32, memory.DMAWrite, false, 0x12345678)
	test.ExpectEquality(t, sh.MainRAM[0x3c0004], uint8(0x78))
	test.ExpectEquality(t, sh.DTCM[4], uint8(0x0d))

	// DTCM can't be executed
	res := arm9.Resolve(0x027c0004, memory.Width32, memory.Fetch, false)
	test.ExpectEquality(t, res.Region.Name, "main RAM")

	// ITCM mirrors across its virtual size
	arm9.Write(0x00008000, memory.Width16, memory.Write, false, 0xbeef)
	test.ExpectEquality(t, sh.ITCM[0], uint8(0xef))
	res = arm9.Resolve(0x01ff8000, memory.Width32, memory.Fetch, true)
	test.ExpectEquality(t, res.Region.Name, "ITCM")
	test.ExpectEquality(t, res.Cycles, 1)

	arm9.SetTCM(memory.TCM{}, memory.TCM{})
	test.ExpectEquality(t, arm9.RegionName(0x00000000), "unmapped")
	test.ExpectEquality(t, arm9.RegionName(0x027c0004), "main RAM")
}

func TestBIOSProtection(t *testing.T) {
	sh, _, arm7, _ := newMaps()
	sh.BIOS7[0x10] = 0x78
	sh.BIOS7[0x11] = 0x56
	sh.BIOS7[0x12] = 0x34
	sh.BIOS7[0x13] = 0x12

	var pc uint32
	arm7.Plumb(func() uint32 { return pc })

	// inside the BIOS
	v, _ := arm7.Read(0x10, memory.Width32, memory.Read, false)
	test.ExpectEquality(t, v, uint32(0x12345678))

	// outside the BIOS the last value read is returned
	pc = 0x02000000
	v, _ = arm7.Read(0x100, memory.Width16, memory.Read, false)
	test.ExpectEquality(t, v, uint32(0x5678))
	v, _ = arm7.Read(0x102, memory.Width16, memory.Read, false)
	test.ExpectEquality(t, v, uint32(0x1234))
}

func TestIOAndDebugAccess(t *testing.T) {
	_, arm9, _, io := newMaps()

	arm9.Write(0x04000208, memory.Width32, memory.Write, false, 1)
	test.ExpectEquality(t, io.values[0x04000208], uint32(1))

	v, _ := arm9.Read(0x04000208, memory.Width32, memory.Read, false)
	test.ExpectEquality(t, v, uint32(1))
	test.ExpectEquality(t, io.reads, 1)

	// peek doesn't call the live read
	v, ok := arm9.Peek(0x04000208, memory.Width32)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, uint32(1))
	test.ExpectEquality(t, io.reads, 1)

	// registers can't be poked
	test.ExpectFailure(t, arm9.Poke(0x04000208, memory.Width32, 0))

	// palette and OAM ignore byte writes
	arm9.Write(0x05000000, memory.Width8, memory.Write, false, 0xff)
	v, _ = arm9.Peek(0x05000000, memory.Width8)
	test.ExpectEquality(t, v, uint32(0))
	arm9.Write(0x07000001, memory.Width8, memory.Write, false, 0xff)
	v, _ = arm9.Peek(0x07000000, memory.Width16)
	test.ExpectEquality(t, v, uint32(0))

	// VRAM accepts byte writes
	arm9.Write(0x06000001, memory.Width8, memory.Write, false, 0xab)
	v, _ = arm9.Peek(0x06000000, memory.Width16)
	test.ExpectEquality(t, v, uint32(0xab00))
}

func TestSnapshot(t *testing.T) {
	sh, arm9, _, _ := newMaps()
	sh.MainRAM[100] = 1
	sh.WRAMCNT = 2
	s := sh.Snapshot()

	sh.MainRAM[100] = 2
	sh.WRAMCNT = 0

	test.ExpectSuccess(t, sh.Validate(s))
	sh.Restore(s)
	arm9.Reconfigure()
	test.ExpectEquality(t, sh.MainRAM[100], uint8(1))
	v, _ := arm9.Peek(0x03004000, memory.Width8)
	test.ExpectEquality(t, v, uint32(0))

	s.Buffers[0] = s.Buffers[0][:10]
	test.ExpectSuccess(t, curated.Is(sh.Validate(s), memory.StateBufferSize))

	s.Buffers = s.Buffers[1:]
	test.ExpectSuccess(t, curated.Is(sh.Validate(s), memory.StateBufferCount))
}
