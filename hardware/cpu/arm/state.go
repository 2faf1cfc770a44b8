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

// State is the serialisable state of the ARM type.
type State struct {
	Registers [NumRegisters]uint32
	CPSR      uint32

	BankedSP [numBanks]uint32
	BankedLR [numBanks]uint32
	SPSR     [numBanks]uint32
	UserHigh [5]uint32
	FIQHigh  [5]uint32

	VectorBase    uint32
	Halted        bool
	NonSequential bool
	Instructions  uint64

	ExecutingPC uint32
	Opcode      uint32
}

// Snapshot returns a copy of the processor state.
func (arm *ARM) Snapshot() State {
	return State{
		Registers:     arm.state.registers,
		CPSR:          arm.state.status.value(),
		BankedSP:      arm.state.bankedSP,
		BankedLR:      arm.state.bankedLR,
		SPSR:          arm.state.spsr,
		UserHigh:      arm.state.userHigh,
		FIQHigh:       arm.state.fiqHigh,
		VectorBase:    arm.state.vectorBase,
		Halted:        arm.state.halted,
		NonSequential: arm.state.nonSeq,
		Instructions:  arm.state.instructions,
		ExecutingPC:   arm.state.executingPC,
		Opcode:        arm.state.opcode,
	}
}

// Restore the processor state from a previous snapshot. The register file in
// the snapshot is for the mode in the CPSR so no register banking takes place.
func (arm *ARM) Restore(s State) {
	arm.state = armState{
		registers:    s.Registers,
		bankedSP:     s.BankedSP,
		bankedLR:     s.BankedLR,
		spsr:         s.SPSR,
		userHigh:     s.UserHigh,
		fiqHigh:      s.FIQHigh,
		vectorBase:   s.VectorBase,
		halted:       s.Halted,
		nonSeq:       s.NonSequential,
		instructions: s.Instructions,
		executingPC:  s.ExecutingPC,
		opcode:       s.Opcode,
	}
	arm.state.status.setValue(s.CPSR)
}
