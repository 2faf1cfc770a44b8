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
	"fmt"
)

// register names.
const (
	rSP = 13 + iota
	rLR
	rPC
	NumRegisters
)

// RegisterName returns the conventional name of a register.
func RegisterName(n int) string {
	switch n {
	case rSP:
		return "SP"
	case rLR:
		return "LR"
	case rPC:
		return "PC"
	}
	return fmt.Sprintf("R%d", n)
}

// Mode is the processor mode as stored in the bottom five bits of the CPSR.
type Mode uint32

// List of valid Mode values.
const (
	ModeUser       Mode = 0x10
	ModeFIQ        Mode = 0x11
	ModeIRQ        Mode = 0x12
	ModeSupervisor Mode = 0x13
	ModeAbort      Mode = 0x17
	ModeUndefined  Mode = 0x1b
	ModeSystem     Mode = 0x1f
)

func (m Mode) String() string {
	switch m {
	case ModeUser:
		return "USR"
	case ModeFIQ:
		return "FIQ"
	case ModeIRQ:
		return "IRQ"
	case ModeSupervisor:
		return "SVC"
	case ModeAbort:
		return "ABT"
	case ModeUndefined:
		return "UND"
	case ModeSystem:
		return "SYS"
	}
	return fmt.Sprintf("%02x?", uint32(m))
}

// the register banks. user and system modes share a bank
const (
	bankUser = iota
	bankFIQ
	bankIRQ
	bankSupervisor
	bankAbort
	bankUndefined
	numBanks
)

// bank returns the register bank used by the mode. an invalid mode uses the
// user bank.
func (m Mode) bank() int {
	switch m {
	case ModeFIQ:
		return bankFIQ
	case ModeIRQ:
		return bankIRQ
	case ModeSupervisor:
		return bankSupervisor
	case ModeAbort:
		return bankAbort
	case ModeUndefined:
		return bankUndefined
	}
	return bankUser
}

// privileged modes are every mode except user mode.
func (m Mode) privileged() bool {
	return m != ModeUser
}

// setMode changes the processor mode and swaps the banked registers in and out
// of the register file.
func (arm *ARM) setMode(mode Mode) {
	from := arm.state.status.mode.bank()
	to := mode.bank()
	arm.state.status.mode = mode

	if from == to {
		return
	}

	arm.state.bankedSP[from] = arm.state.registers[rSP]
	arm.state.bankedLR[from] = arm.state.registers[rLR]
	arm.state.registers[rSP] = arm.state.bankedSP[to]
	arm.state.registers[rLR] = arm.state.bankedLR[to]

	// FIQ mode has its own copy of R8 to R12
	if from == bankFIQ {
		copy(arm.state.fiqHigh[:], arm.state.registers[8:13])
		copy(arm.state.registers[8:13], arm.state.userHigh[:])
	} else if to == bankFIQ {
		copy(arm.state.userHigh[:], arm.state.registers[8:13])
		copy(arm.state.registers[8:13], arm.state.fiqHigh[:])
	}
}

// userRegister returns the value of a register as seen by user mode,
// regardless of the current mode. used by the LDM/STM instructions with the S
// bit set.
func (arm *ARM) userRegister(n int) uint32 {
	bank := arm.state.status.mode.bank()
	switch {
	case bank == bankUser:
	case n >= 8 && n <= 12 && bank == bankFIQ:
		return arm.state.userHigh[n-8]
	case n == rSP:
		return arm.state.bankedSP[bankUser]
	case n == rLR:
		return arm.state.bankedLR[bankUser]
	}
	return arm.state.registers[n]
}

// setUserRegister is the counterpart to userRegister().
func (arm *ARM) setUserRegister(n int, v uint32) {
	bank := arm.state.status.mode.bank()
	switch {
	case bank == bankUser:
	case n >= 8 && n <= 12 && bank == bankFIQ:
		arm.state.userHigh[n-8] = v
		return
	case n == rSP:
		arm.state.bankedSP[bankUser] = v
		return
	case n == rLR:
		arm.state.bankedLR[bankUser] = v
		return
	}
	arm.state.registers[n] = v
}

// spsr returns a pointer to the saved program status register of the current
// mode. returns nil if the mode has no SPSR.
func (arm *ARM) spsr() *uint32 {
	bank := arm.state.status.mode.bank()
	if bank == bankUser {
		return nil
	}
	return &arm.state.spsr[bank]
}
