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

package irq

import (
	"fmt"
	"strings"
)

// Register addresses.
const (
	IME = 0x04000208
	IE  = 0x04000210
	IF  = 0x04000214
)

// State is the serialisable state of the interrupt controller.
type State struct {
	IME bool
	IE  uint32
	IF  uint32
}

// Controller is the interrupt controller for a single core.
type Controller struct {
	state State

	// bits of IE and IF that exist on this core
	mask uint32
}

// NewController is the preferred method of initialisation for the
// Controller type. The mask indicates which sources exist.
func NewController(mask uint32) *Controller {
	return &Controller{mask: mask}
}

func (ctl *Controller) String() string {
	var s strings.Builder
	if ctl.state.IME {
		s.WriteString("IME ")
	} else {
		s.WriteString("ime ")
	}
	s.WriteString(fmt.Sprintf("IE=%08x IF=%08x", ctl.state.IE, ctl.state.IF))
	return s.String()
}

// Reset the controller.
func (ctl *Controller) Reset() {
	ctl.state = State{}
}

// Raise an interrupt source.
func (ctl *Controller) Raise(src Source) {
	ctl.state.IF |= (1 << src) & ctl.mask
}

// Pending returns true if an enabled interrupt is pending and IME is set. The
// core should take the interrupt at the next instruction boundary if its own
// IRQ disable flag is clear.
func (ctl *Controller) Pending() bool {
	return ctl.state.IME && ctl.state.IE&ctl.state.IF != 0
}

// Wake returns true if an enabled interrupt is pending, regardless of IME. A
// halted core resumes when this is true.
func (ctl *Controller) Wake() bool {
	return ctl.state.IE&ctl.state.IF != 0
}

// Flags returns the current value of IF.
func (ctl *Controller) Flags() uint32 {
	return ctl.state.IF
}

// Enabled returns the current value of IE.
func (ctl *Controller) Enabled() uint32 {
	return ctl.state.IE
}

// ReadRegister implements the iomap.Handler interface.
func (ctl *Controller) ReadRegister(addr uint32) uint32 {
	switch addr {
	case IME:
		if ctl.state.IME {
			return 1
		}
		return 0
	case IE:
		return ctl.state.IE
	case IF:
		return ctl.state.IF
	}
	return 0
}

// WriteRegister implements the iomap.Handler interface.
func (ctl *Controller) WriteRegister(addr uint32, value uint32, mask uint32) {
	switch addr {
	case IME:
		if mask&0x01 == 0x01 {
			ctl.state.IME = value&0x01 == 0x01
		}
	case IE:
		ctl.state.IE = ((ctl.state.IE &^ mask) | (value & mask)) & ctl.mask
	case IF:
		ctl.state.IF &^= value & mask
	}
}

// Snapshot returns the state of the controller.
func (ctl *Controller) Snapshot() State {
	return ctl.state
}

// Restore the state of the controller.
func (ctl *Controller) Restore(s State) {
	ctl.state = s
}
