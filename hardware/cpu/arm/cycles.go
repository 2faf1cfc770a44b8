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

package arm

import (
	"math/bits"

	"github.com/jetsetilly/gopherds/hardware/memory"
)

// called whenever PC changes unexpectedly (by a branch instruction for
// example). the cost is a nonsequential fetch of the target followed by a
// sequential fetch of the next instruction.
func (arm *ARM) fillPipeline() {
	w := arm.width()
	width := memory.Width(w)
	pc := arm.state.registers[rPC] &^ (w - 1)

	arm.state.cycles += arm.bus.Resolve(pc, width, memory.Fetch, false).Cycles
	arm.state.cycles += arm.bus.Resolve(pc+w, width, memory.Fetch, true).Cycles

	arm.state.registers[rPC] = pc + 2*w
	arm.state.nonSeq = false
}

// internal cycles.
func (arm *ARM) iCycle(n int) {
	arm.state.cycles += n
}

// read a data value. a data access leaves the next instruction fetch
// nonsequential.
func (arm *ARM) read(addr uint32, width memory.Width, seq bool) uint32 {
	v, cycles := arm.bus.Read(addr, width, memory.Read, seq)
	arm.state.cycles += cycles
	arm.state.nonSeq = true
	return v
}

// write a data value. a data access leaves the next instruction fetch
// nonsequential.
func (arm *ARM) write(addr uint32, width memory.Width, seq bool, v uint32) {
	arm.state.cycles += arm.bus.Write(addr, width, memory.Write, seq, v)
	arm.state.nonSeq = true
}

// word loads from a misaligned address rotate the aligned word so that the
// addressed byte is in the bottom eight bits.
func (arm *ARM) readWordRotated(addr uint32) uint32 {
	v := arm.read(addr&^0x03, memory.Width32, false)
	return bits.RotateLeft32(v, -int(addr&0x03)*8)
}

// unsigned halfword load. misaligned halfword loads are rotated on the ARM7 and
// forced to alignment on the ARM9.
func (arm *ARM) readHalfword(addr uint32) uint32 {
	v := arm.read(addr&^0x01, memory.Width16, false)
	if arm.mmap.RotateHalfwordLoads && addr&0x01 == 0x01 {
		v = bits.RotateLeft32(v, -8)
	}
	return v
}

// signed halfword load. on the ARM7 a misaligned signed halfword load is a
// signed byte load.
func (arm *ARM) readSignedHalfword(addr uint32) uint32 {
	if arm.mmap.RotateHalfwordLoads && addr&0x01 == 0x01 {
		return uint32(int32(int8(arm.read(addr, memory.Width8, false))))
	}
	return uint32(int32(int16(arm.read(addr&^0x01, memory.Width16, false))))
}

func (arm *ARM) readSignedByte(addr uint32) uint32 {
	return uint32(int32(int8(arm.read(addr, memory.Width8, false))))
}

// the number of internal cycles used by the multiplier. from "6.20
// Instruction Speed Summary" in the "ARM7TDMI Data Sheet", the early
// termination depends on the value of the multiplier operand.
//
// the ARM946E-S has a faster multiplier and the cycles are not affected by
// the operand.
func (arm *ARM) multiplyCycles(rs uint32, signed bool, long bool) int {
	if arm.mmap.HasV5 {
		if long {
			return 2
		}
		return 1
	}

	m := 4
	switch {
	case rs&0xffffff00 == 0 || (signed && rs&0xffffff00 == 0xffffff00):
		m = 1
	case rs&0xffff0000 == 0 || (signed && rs&0xffff0000 == 0xffff0000):
		m = 2
	case rs&0xff000000 == 0 || (signed && rs&0xff000000 == 0xff000000):
		m = 3
	}
	if long {
		m++
	}
	return m
}
