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

// Region is a contiguous range of the address space. The same region can
// appear on many pages of the page table, which is how mirroring is
// implemented. Offsets into the region's data are the address masked by the
// Mask field.
type Region struct {
	Name string

	// backing storage. usually a slice of one of the buffers in the Shared
	// type. nil if the region has no storage
	Data []byte
	Mask uint32

	Perm Permission
	Wait WaitStates

	// region is forwarded to the I/O registers
	IO bool

	// value returned by reads of a region with no data
	Fill uint32

	// 8bit writes are ignored by the hardware
	NoByteWrites bool

	// region can only be read while the program counter is inside it
	Protected bool
}

// Fault describes why a resolved access cannot complete.
type Fault int

// List of valid Fault values.
const (
	FaultNone Fault = iota
	FaultUnmapped
	FaultPermission
)

func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultUnmapped:
		return "unmapped"
	case FaultPermission:
		return "permission"
	}
	return "unknown fault"
}

// Resolution is the result of resolving an address.
type Resolution struct {
	Region *Region
	Offset uint32
	Fault  Fault
	Cycles int
}

// the regions that appear in a Map. not every map has every region.
const (
	regionUnmapped = iota
	regionITCM
	regionDTCM
	regionMainRAM
	regionSharedWRAM
	regionARM7WRAM
	regionIO
	regionPalette
	regionVRAM
	regionOAM
	regionGBASlot
	regionBIOS
	numRegions
)
