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

package memory

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/exp/constraints"
)

// Core identifies one of the two processors.
type Core int

// List of valid Core values.
const (
	ARM9 Core = iota
	ARM7
	NumCores
)

func (c Core) String() string {
	switch c {
	case ARM9:
		return "ARM9"
	case ARM7:
		return "ARM7"
	}
	return fmt.Sprintf("core%d", int(c))
}

// Width of a memory access in bytes.
type Width uint32

// List of valid Width values.
const (
	Width8  Width = 1
	Width16 Width = 2
	Width32 Width = 4
)

func (w Width) String() string {
	return fmt.Sprintf("%dbit", w*8)
}

// Mask returns the value mask for the width.
func (w Width) Mask() uint32 {
	switch w {
	case Width8:
		return 0xff
	case Width16:
		return 0xffff
	}
	return 0xffffffff
}

// index into a WaitStates table.
func (w Width) index() int {
	switch w {
	case Width8:
		return 0
	case Width16:
		return 1
	}
	return 2
}

// Access is the kind of memory access being made.
type Access int

// List of valid Access values.
const (
	Fetch Access = iota
	Read
	Write
	DMARead
	DMAWrite
)

func (a Access) String() string {
	switch a {
	case Fetch:
		return "fetch"
	case Read:
		return "read"
	case Write:
		return "write"
	case DMARead:
		return "dma read"
	case DMAWrite:
		return "dma write"
	}
	return "unknown access"
}

func (a Access) isWrite() bool {
	return a == Write || a == DMAWrite
}

func (a Access) permission() Permission {
	switch a {
	case Fetch:
		return PermExec
	case Write, DMAWrite:
		return PermWrite
	}
	return PermRead
}

// Permission flags for a region.
type Permission uint8

// List of valid Permission flags.
const (
	PermRead Permission = 1 << iota
	PermWrite
	PermExec

	PermRW  = PermRead | PermWrite
	PermRX  = PermRead | PermExec
	PermRWX = PermRead | PermWrite | PermExec
)

// WaitStates is the cost of an access in cycles of the requesting core,
// indexed by access width (8, 16, 32) and then by whether the access is
// non-sequential (0) or sequential (1).
type WaitStates [3][2]int

// Cost returns the number of cycles for an access.
func (ws WaitStates) Cost(width Width, seq bool) int {
	if seq {
		return ws[width.index()][1]
	}
	return ws[width.index()][0]
}

// waits creates a WaitStates table where 8bit and 16bit accesses cost the
// same.
func waits(n16, s16, n32, s32 int) WaitStates {
	return WaitStates{{n16, s16}, {n16, s16}, {n32, s32}}
}

// Align address to the boundary.
func Align[I constraints.Unsigned](addr I, boundary I) I {
	return addr &^ (boundary - 1)
}

// Lane returns the bit shift of a narrow access within a 32bit word.
func Lane[I constraints.Unsigned](addr I, width Width) uint32 {
	return uint32(Align(addr, I(width))&3) * 8
}

// load a value from a byte slice. the offset must be aligned to the width.
func load(data []byte, offset uint32, width Width) uint32 {
	switch width {
	case Width8:
		return uint32(data[offset])
	case Width16:
		return uint32(binary.LittleEndian.Uint16(data[offset:]))
	}
	return binary.LittleEndian.Uint32(data[offset:])
}

// store a value in a byte slice. the offset must be aligned to the width.
func store(data []byte, offset uint32, width Width, value uint32) {
	switch width {
	case Width8:
		data[offset] = uint8(value)
	case Width16:
		binary.LittleEndian.PutUint16(data[offset:], uint16(value))
	default:
		binary.LittleEndian.PutUint32(data[offset:], value)
	}
}
