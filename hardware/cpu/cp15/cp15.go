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

package cp15

import (
	"fmt"
	"sort"

	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/logger"
)

// identification registers of the ARM946E-S as fitted to the NDS.
const (
	MainID    = 0x41059461
	CacheType = 0x0f0d2112
	TCMSize   = 0x00140180
)

// bits in the control register.
const (
	ControlProtectionUnit = 1 << 0
	ControlDataCache      = 1 << 2
	ControlBigEndian      = 1 << 7
	ControlInstCache      = 1 << 12
	ControlHighVectors    = 1 << 13
	ControlRoundRobin     = 1 << 14
	ControlPreARMv5       = 1 << 15
	ControlDTCM           = 1 << 16
	ControlDTCMLoad       = 1 << 17
	ControlITCM           = 1 << 18
	ControlITCMLoad       = 1 << 19

	// bits 3 to 6 always read as one
	controlFixed = 0x00000078

	// the bits that can be changed by software
	controlWritable = 0x000ff085
)

// the values of the control register and TCM region registers after reset and
// after the BIOS has booted a cartridge.
const (
	ResetControl = 0x00012078

	BootControl    = 0x0005707d
	BootDTCMRegion = 0x027c000a
	BootITCMRegion = 0x00000020
)

// the vector base addresses selected by bit 13 of the control register.
const (
	lowVectors  = 0x00000000
	highVectors = 0xffff0000
)

// CPU is the interface to the ARM9 required by CP15.
type CPU interface {
	SetVectorBase(base uint32)
	Halt()
}

// Memory is the interface to the ARM9 memory map required by CP15.
type Memory interface {
	SetTCM(itcm memory.TCM, dtcm memory.TCM)
}

// CP15 is the system control coprocessor. It implements the arm.Coprocessor
// interface.
type CP15 struct {
	cpu CPU
	mem Memory

	control    uint32
	dtcmRegion uint32
	itcmRegion uint32

	// registers that are stored but have no effect
	stored map[uint32]uint32
}

// NewCP15 is the preferred method of initialisation for the CP15 type.
func NewCP15(cpu CPU, mem Memory) *CP15 {
	cp := &CP15{
		cpu: cpu,
		mem: mem,
	}
	cp.Reset()
	return cp
}

func (cp *CP15) String() string {
	return fmt.Sprintf("control=%08x DTCM=%08x ITCM=%08x", cp.control, cp.dtcmRegion, cp.itcmRegion)
}

// Reset CP15 to its power-on values.
func (cp *CP15) Reset() {
	cp.control = ResetControl
	cp.dtcmRegion = 0
	cp.itcmRegion = 0
	cp.stored = make(map[uint32]uint32)
	cp.apply()
}

// DirectBoot sets the control register and the TCM regions to the values
// left behind by the BIOS when it hands over to a cartridge.
func (cp *CP15) DirectBoot() {
	cp.control = BootControl
	cp.dtcmRegion = BootDTCMRegion
	cp.itcmRegion = BootITCMRegion
	cp.apply()
}

// Control returns the value of the control register.
func (cp *CP15) Control() uint32 {
	return cp.control
}

// DTCM returns the current location of the data TCM.
func (cp *CP15) DTCM() memory.TCM {
	return memory.TCM{
		Enabled: cp.control&ControlDTCM == ControlDTCM,
		Base:    cp.dtcmRegion &^ 0x0fff,
		Size:    regionSize(cp.dtcmRegion),
	}
}

// ITCM returns the current location of the instruction TCM. The ITCM of the
// ARM946E-S is fixed at address zero and the base field of the region
// register is ignored.
func (cp *CP15) ITCM() memory.TCM {
	return memory.TCM{
		Enabled: cp.control&ControlITCM == ControlITCM,
		Base:    0,
		Size:    regionSize(cp.itcmRegion),
	}
}

// the virtual size of a TCM region is encoded in bits 1 to 5 as a shift of
// 512 bytes. the smallest size is 4KB. sizes of 4GB and above do not fit in
// 32 bits and are treated as the largest size that does.
func regionSize(v uint32) uint32 {
	n := (v >> 1) & 0x1f
	if n < 3 {
		n = 3
	}
	if n > maxRegionShift {
		n = maxRegionShift
	}
	return 512 << n
}

// shift of the largest region size that fits in 32 bits.
const maxRegionShift = 22

// apply the control register and region registers to the ARM9.
func (cp *CP15) apply() {
	if cp.control&ControlHighVectors == ControlHighVectors {
		cp.cpu.SetVectorBase(highVectors)
	} else {
		cp.cpu.SetVectorBase(lowVectors)
	}
	cp.mem.SetTCM(cp.ITCM(), cp.DTCM())
}

// registers are identified by a single value for the purposes of storage.
func key(opc1 uint32, crn uint32, crm uint32, opc2 uint32) uint32 {
	return opc1<<12 | crn<<8 | crm<<4 | opc2
}

// MRC implements the arm.Coprocessor interface.
func (cp *CP15) MRC(opc1 uint32, crn uint32, crm uint32, opc2 uint32) (uint32, bool) {
	if opc1 != 0 {
		return 0, false
	}

	switch crn {
	case 0:
		if crm != 0 {
			return 0, false
		}
		switch opc2 {
		case 1:
			return CacheType, true
		case 2:
			return TCMSize, true
		}

		// unused opc2 values return the main ID
		return MainID, true

	case 1:
		if crm == 0 && opc2 == 0 {
			return cp.control, true
		}
		return 0, false

	case 7:
		// cache operations are write only
		return 0, false

	case 9:
		if crm == 1 {
			switch opc2 {
			case 0:
				return cp.dtcmRegion, true
			case 1:
				return cp.itcmRegion, true
			}
			return 0, false
		}
	}

	if !stored(crn, crm, opc2) {
		return 0, false
	}
	return cp.stored[key(opc1, crn, crm, opc2)], true
}

// MCR implements the arm.Coprocessor interface.
func (cp *CP15) MCR(opc1 uint32, crn uint32, crm uint32, opc2 uint32, value uint32) bool {
	if opc1 != 0 {
		return false
	}

	switch crn {
	case 0:
		// identification registers are read only. writes are ignored
		return true

	case 1:
		if crm != 0 || opc2 != 0 {
			return false
		}
		cp.control = (cp.control &^ controlWritable) | (value & controlWritable) | controlFixed
		cp.apply()
		return true

	case 7:
		switch {
		case crm == 0 && opc2 == 4, crm == 8 && opc2 == 2:
			cp.cpu.Halt()
		}

		// cache maintenance is not modelled
		return true

	case 9:
		if crm == 1 {
			switch opc2 {
			case 0:
				cp.dtcmRegion = value
			case 1:
				cp.itcmRegion = value
			default:
				return false
			}
			cp.apply()
			return true
		}
	}

	if !stored(crn, crm, opc2) {
		logger.Logf(logger.Allow, "CP15", "unrecognised register: c%d,c%d,%d", crn, crm, opc2)
		return false
	}
	cp.stored[key(opc1, crn, crm, opc2)] = value
	return true
}

// the cache and protection unit registers that are stored but not modelled.
func stored(crn uint32, crm uint32, opc2 uint32) bool {
	switch crn {
	case 2, 3:
		// cachability and write-buffer control
		return crm == 0 && opc2 <= 1
	case 5:
		// access permissions
		return crm == 0 && opc2 <= 3
	case 6:
		// protection regions
		return crm <= 7 && opc2 <= 1
	case 9:
		// cache lockdown
		return crm == 0 && opc2 <= 1
	case 13:
		// process ID
		return (crm == 0 || crm == 1) && opc2 <= 1
	case 15:
		// test and debug
		return true
	}
	return false
}

// StoredRegister is the value of a register that has no effect other than
// to be read back. Key identifies the register by its opc1/CRn/CRm/opc2 fields.
type StoredRegister struct {
	Key   uint32
	Value uint32
}

// State is the serialisable state of CP15.
type State struct {
	Control    uint32
	DTCMRegion uint32
	ITCMRegion uint32

	// sorted by key so that the encoding of a State is stable
	Stored []StoredRegister
}

// Snapshot returns a copy of the CP15 state.
func (cp *CP15) Snapshot() State {
	s := State{
		Control:    cp.control,
		DTCMRegion: cp.dtcmRegion,
		ITCMRegion: cp.itcmRegion,
		Stored:     make([]StoredRegister, 0, len(cp.stored)),
	}
	for k, v := range cp.stored {
		s.Stored = append(s.Stored, StoredRegister{Key: k, Value: v})
	}
	sort.Slice(s.Stored, func(i, j int) bool {
		return s.Stored[i].Key < s.Stored[j].Key
	})
	return s
}

// Restore CP15 state. The vector base and the memory map are updated to match.
func (cp *CP15) Restore(s State) {
	cp.control = s.Control
	cp.dtcmRegion = s.DTCMRegion
	cp.itcmRegion = s.ITCMRegion
	cp.stored = make(map[uint32]uint32, len(s.Stored))
	for _, r := range s.Stored {
		cp.stored[r.Key] = r.Value
	}
	cp.apply()
}
