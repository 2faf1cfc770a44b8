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

// Package architecture defines the Map type that is used to specify the
// differences between the two ARM cores.
package architecture

// Architecture defines the instruction set supported by an ARM core.
type Architecture string

// List of valid Architecture values.
const (
	ARMv4T  Architecture = "ARMv4T"
	ARMv5TE Architecture = "ARMv5TE"
)

// Map of the differences between architectures.
type Map struct {
	Architecture Architecture

	// name of the processor implementing the architecture
	Processor string

	// the ARMv5TE instructions are available. when false, the instructions
	// are treated as undefined
	HasV5 bool

	// loads into the program counter (LDR, LDM and POP) change the
	// instruction set when bit zero of the loaded value is set
	InterworkingLoads bool

	// the base register of an STM is stored with its original value even
	// when it is not the first register in the list
	STMStoresOldBase bool

	// halfword loads from an odd address are rotated rather than being
	// forced to an aligned address
	RotateHalfwordLoads bool

	// system cycles for every cycle of the core
	ClockDivisor int
}

// NewMap is the preferred method of initialisation for the Map type.
func NewMap(arch Architecture) Map {
	mmap := Map{
		Architecture: arch,
	}

	switch mmap.Architecture {
	default:
		panic("architecture: unknown ARM architecture")

	case ARMv5TE:
		mmap.Processor = "ARM946E-S"
		mmap.HasV5 = true
		mmap.InterworkingLoads = true
		mmap.STMStoresOldBase = true
		mmap.RotateHalfwordLoads = false
		mmap.ClockDivisor = 1

	case ARMv4T:
		mmap.Processor = "ARM7TDMI"
		mmap.HasV5 = false
		mmap.InterworkingLoads = false
		mmap.STMStoresOldBase = false
		mmap.RotateHalfwordLoads = true
		mmap.ClockDivisor = 2
	}

	return mmap
}

// String returns the architecture and processor name.
func (mmap Map) String() string {
	return string(mmap.Architecture) + " (" + mmap.Processor + ")"
}
