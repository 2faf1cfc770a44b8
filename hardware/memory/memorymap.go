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
	"fmt"

	"github.com/jetsetilly/gopherds/hardware/memory/faults"
	"github.com/jetsetilly/gopherds/logger"
)

// IO is the interface to the I/O registers. Addresses are aligned to the
// width of the access.
type IO interface {
	Read(addr uint32, width Width) uint32
	Write(addr uint32, width Width, value uint32)

	// Peek returns the value of a register without side effects
	Peek(addr uint32, width Width) uint32
}

const (
	pageShift = 14
	pageSize  = 1 << pageShift
	numPages  = 1 << (32 - pageShift)
)

// the page tables. fetches and DMA see a different view of memory to data
// accesses by the CPU because the TCMs are not visible to them.
const (
	tableData = iota
	tableFetch
	tableDMA
	numTables
)

// TCM describes the location of one of the ARM9's tightly coupled memories.
type TCM struct {
	Enabled bool
	Base    uint32
	Size    uint32
}

// Map is the memory map for a single core.
type Map struct {
	core   Core
	shared *Shared
	io     IO

	regions [numRegions]Region
	pages   [numTables][]uint8

	// ARM9 only
	itcm TCM
	dtcm TCM

	// the most recently fetched opcode. thumb opcodes are duplicated in
	// both halves of the word
	openBus uint32

	// the most recent read of a protected region
	protectedLatch uint32

	// returns the address of the instruction being executed
	pc func() uint32

	// log of open bus reads and dropped writes
	Faults *faults.Faults

	// echo new faults to the central logger
	LogFaults bool
}

// NewMap is the preferred method of initialisation for the Map type.
func NewMap(core Core, shared *Shared, io IO) *Map {
	m := &Map{
		core:   core,
		shared: shared,
		io:     io,
		pc:     func() uint32 { return 0 },
		Faults: faults.NewFaults(),
	}
	for t := range m.pages {
		m.pages[t] = make([]uint8, numPages)
	}
	m.Reconfigure()
	return m
}

func (m *Map) String() string {
	return fmt.Sprintf("%s memory map", m.core)
}

// Core returns the core that the map belongs to.
func (m *Map) Core() Core {
	return m.core
}

// Plumb the function that returns the address of the instruction currently
// being executed. It is used for the BIOS protection and for the fault log.
func (m *Map) Plumb(pc func() uint32) {
	m.pc = pc
}

// SetTCM changes the location of the ARM9's tightly coupled memories and
// rebuilds the page table.
func (m *Map) SetTCM(itcm TCM, dtcm TCM) {
	m.itcm = itcm
	m.dtcm = dtcm
	m.Reconfigure()
}

// Resolve an address into a region. The Offset field of the result is aligned
// to the width of the access. Resolve() has no side effects.
func (m *Map) Resolve(addr uint32, width Width, access Access, seq bool) Resolution {
	t := tableData
	switch access {
	case Fetch:
		t = tableFetch
	case DMARead, DMAWrite:
		t = tableDMA
	}

	idx := m.pages[t][addr>>pageShift]
	r := &m.regions[idx]
	res := Resolution{
		Region: r,
		Offset: Align(addr, uint32(width)) & r.Mask,
		Cycles: r.Wait.Cost(width, seq),
	}

	if idx == regionUnmapped {
		res.Fault = FaultUnmapped
	} else if r.Perm&access.permission() == 0 {
		res.Fault = FaultPermission
	}

	return res
}

// OpenBus returns the value seen on the bus when reading from an address that
// nothing responds to.
func (m *Map) OpenBus(addr uint32, width Width) uint32 {
	return (m.openBus >> Lane(addr, width)) & width.Mask()
}

func (m *Map) fault(category faults.Category, addr uint32) {
	if m.Faults.NewEntry(category, m.pc(), addr) && m.LogFaults {
		logger.Logf(logger.Allow, m.core.String(), "%s: %08x (PC: %08x)", category, addr, m.pc())
	}
}

// Read a value from memory. Returns the value and the number of cycles taken
// by the access.
func (m *Map) Read(addr uint32, width Width, access Access, seq bool) (uint32, int) {
	res := m.Resolve(addr, width, access, seq)

	if res.Fault != FaultNone {
		if res.Fault == FaultPermission && access == Fetch {
			m.fault(faults.NoExecute, addr)
		} else {
			m.fault(faults.OpenBus, addr)
		}
		return m.OpenBus(addr, width), res.Cycles
	}

	r := res.Region

	var v uint32
	switch {
	case r.IO:
		v = m.io.Read(Align(addr, uint32(width)), width)
	case r.Data == nil:
		v = r.Fill & width.Mask()
	case r.Protected:
		if m.pc() <= r.Mask {
			m.protectedLatch = load(r.Data, Align(res.Offset, 4), Width32)
			v = load(r.Data, res.Offset, width)
		} else {
			v = (m.protectedLatch >> Lane(addr, width)) & width.Mask()
		}
	default:
		v = load(r.Data, res.Offset, width)
	}

	if access == Fetch {
		if width == Width16 {
			m.openBus = v | v<<16
		} else {
			m.openBus = v
		}
	}

	return v, res.Cycles
}

// Write a value to memory. Returns the number of cycles taken by the access.
func (m *Map) Write(addr uint32, width Width, access Access, seq bool, value uint32) int {
	res := m.Resolve(addr, width, access, seq)

	if res.Fault != FaultNone {
		if res.Fault == FaultPermission {
			m.fault(faults.ReadOnly, addr)
		} else {
			m.fault(faults.DroppedWrite, addr)
		}
		return res.Cycles
	}

	r := res.Region

	switch {
	case r.IO:
		m.io.Write(Align(addr, uint32(width)), width, value&width.Mask())
	case r.Data == nil:
		m.fault(faults.DroppedWrite, addr)
	case r.NoByteWrites && width == Width8:
	default:
		store(r.Data, res.Offset, width, value)
	}

	return res.Cycles
}

// Peek reads memory without side effects and without cycles. Registers are
// read with the Peek() function of the IO interface. The boolean return
// value is false if the address is unmapped, in which case the open bus value
// is returned.
func (m *Map) Peek(addr uint32, width Width) (uint32, bool) {
	res := m.Resolve(addr, width, Read, false)
	if res.Fault == FaultUnmapped {
		return m.OpenBus(addr, width), false
	}

	r := res.Region
	switch {
	case r.IO:
		return m.io.Peek(Align(addr, uint32(width)), width), true
	case r.Data == nil:
		return r.Fill & width.Mask(), true
	}
	return load(r.Data, res.Offset, width), true
}

// Poke writes memory without side effects and without cycles. Region
// permissions are ignored so read-only memory can be changed. I/O registers
// cannot be poked because writing to a register is itself a side effect. The
// return value is false if the write did not happen.
func (m *Map) Poke(addr uint32, width Width, value uint32) bool {
	res := m.Resolve(addr, width, Read, false)
	if res.Fault == FaultUnmapped {
		return false
	}

	r := res.Region
	if r.IO || r.Data == nil {
		return false
	}
	store(r.Data, res.Offset, width, value)
	return true
}

// MapState is the serialisable state of a Map.
type MapState struct {
	OpenBus        uint32
	ProtectedLatch uint32
}

// Snapshot returns the state of the map. The TCM configuration is not part
// of the state because it is restored through the CP15 coprocessor.
func (m *Map) Snapshot() MapState {
	return MapState{
		OpenBus:        m.openBus,
		ProtectedLatch: m.protectedLatch,
	}
}

// Restore the state of the map and rebuild the page table.
func (m *Map) Restore(s MapState) {
	m.openBus = s.OpenBus
	m.protectedLatch = s.ProtectedLatch
	m.Reconfigure()
}
