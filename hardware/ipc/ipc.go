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

package ipc

import (
	"fmt"

	"github.com/jetsetilly/gopherds/hardware/irq"
	"github.com/jetsetilly/gopherds/hardware/memory"
)

// register addresses.
const (
	IPCSYNC     = 0x04000180
	IPCFIFOCNT  = 0x04000184
	IPCFIFOSEND = 0x04000188
	IPCFIFORECV = 0x04100000
)

// IPCSYNC bits.
const (
	syncOutput    = 0x0f00
	syncSendIRQ   = 0x2000
	syncEnableIRQ = 0x4000
)

// IPCFIFOCNT bits.
const (
	cntSendEmpty       = 0x0001
	cntSendFull        = 0x0002
	cntSendEmptyIRQ    = 0x0004
	cntSendClear       = 0x0008
	cntRecvEmpty       = 0x0100
	cntRecvFull        = 0x0200
	cntRecvNotEmptyIRQ = 0x0400
	cntError           = 0x4000
	cntEnable          = 0x8000

	// bits that are stored as written
	cntWritable = cntSendEmptyIRQ | cntRecvNotEmptyIRQ | cntEnable
)

// Interrupts is the interface to an interrupt controller.
type Interrupts interface {
	Raise(src irq.Source)
}

// State is the serialisable state of the IPC registers. Arrays are indexed by
// core. The FIFO for a core is the one that core sends to.
type State struct {
	Sync    [memory.NumCores]uint16
	Control [memory.NumCores]uint16
	FIFO    [memory.NumCores]FIFO

	// the last word received by each core
	Last [memory.NumCores]uint32
}

// IPC is the inter-processor communication hardware shared by both cores.
type IPC struct {
	state State
	irq   [memory.NumCores]Interrupts
}

// NewIPC is the preferred method of initialisation for the IPC type.
func NewIPC(arm9 Interrupts, arm7 Interrupts) *IPC {
	return &IPC{
		irq: [memory.NumCores]Interrupts{arm9, arm7},
	}
}

func (ipc *IPC) String() string {
	return fmt.Sprintf("ARM9->ARM7: %d words, ARM7->ARM9: %d words",
		ipc.state.FIFO[memory.ARM9].Len, ipc.state.FIFO[memory.ARM7].Len)
}

// Reset the IPC registers.
func (ipc *IPC) Reset() {
	ipc.state = State{}
}

// Port returns the register interface for the core.
func (ipc *IPC) Port(core memory.Core) *Port {
	return &Port{ipc: ipc, core: core, remote: remote(core)}
}

func remote(core memory.Core) memory.Core {
	if core == memory.ARM9 {
		return memory.ARM7
	}
	return memory.ARM9
}

// Snapshot returns the state of the IPC registers.
func (ipc *IPC) Snapshot() State {
	return ipc.state
}

// Restore the state of the IPC registers.
func (ipc *IPC) Restore(s State) {
	ipc.state = s
}

// Port is one core's view of the IPC registers. It implements the
// iomap.Handler and iomap.Peeker interfaces.
type Port struct {
	ipc    *IPC
	core   memory.Core
	remote memory.Core
}

func (p *Port) enabled() bool {
	return p.ipc.state.Control[p.core]&cntEnable == cntEnable
}

func (p *Port) sync() uint32 {
	st := &p.ipc.state
	input := (st.Sync[p.remote] & syncOutput) >> 8
	return uint32(st.Sync[p.core]&(syncOutput|syncEnableIRQ) | input)
}

func (p *Port) control() uint32 {
	st := &p.ipc.state
	send := &st.FIFO[p.core]
	recv := &st.FIFO[p.remote]

	v := st.Control[p.core] & (cntWritable | cntError)
	if send.Empty() {
		v |= cntSendEmpty
	}
	if send.Full() {
		v |= cntSendFull
	}
	if recv.Empty() {
		v |= cntRecvEmpty
	}
	if recv.Full() {
		v |= cntRecvFull
	}
	return uint32(v)
}

// ReadRegister implements the iomap.Handler interface.
func (p *Port) ReadRegister(addr uint32) uint32 {
	switch addr {
	case IPCSYNC:
		return p.sync()
	case IPCFIFOCNT:
		return p.control()
	case IPCFIFORECV:
		return p.receive()
	}
	return 0
}

// PeekRegister implements the iomap.Peeker interface.
func (p *Port) PeekRegister(addr uint32) uint32 {
	if addr == IPCFIFORECV {
		if v, ok := p.ipc.state.FIFO[p.remote].Front(); ok {
			return v
		}
		return p.ipc.state.Last[p.core]
	}
	return p.ReadRegister(addr)
}

func (p *Port) receive() uint32 {
	st := &p.ipc.state
	recv := &st.FIFO[p.remote]

	if !p.enabled() {
		if v, ok := recv.Front(); ok {
			return v
		}
		return st.Last[p.core]
	}

	v, ok := recv.Pop()
	if !ok {
		st.Control[p.core] |= cntError
		return st.Last[p.core]
	}
	st.Last[p.core] = v

	if recv.Empty() && st.Control[p.remote]&cntSendEmptyIRQ == cntSendEmptyIRQ {
		p.ipc.irq[p.remote].Raise(irq.IPCSendEmpty)
	}
	return v
}

func (p *Port) send(v uint32) {
	st := &p.ipc.state
	send := &st.FIFO[p.core]

	if !p.enabled() {
		return
	}

	wasEmpty := send.Empty()
	if !send.Push(v) {
		st.Control[p.core] |= cntError
		return
	}

	if wasEmpty && st.Control[p.remote]&cntRecvNotEmptyIRQ == cntRecvNotEmptyIRQ {
		p.ipc.irq[p.remote].Raise(irq.IPCRecvNotEmpty)
	}
}

// WriteRegister implements the iomap.Handler interface.
func (p *Port) WriteRegister(addr uint32, value uint32, mask uint32) {
	st := &p.ipc.state

	switch addr {
	case IPCSYNC:
		if mask&0xffff == 0 {
			return
		}
		v := uint16(value & mask)
		keep := st.Sync[p.core] &^ uint16(mask)
		st.Sync[p.core] = (keep | v) & (syncOutput | syncEnableIRQ)

		if v&syncSendIRQ == syncSendIRQ && st.Sync[p.remote]&syncEnableIRQ == syncEnableIRQ {
			p.ipc.irq[p.remote].Raise(irq.IPCSync)
		}

	case IPCFIFOCNT:
		if mask&0xffff == 0 {
			return
		}
		v := uint16(value & mask)
		old := st.Control[p.core]
		keep := old &^ uint16(mask)
		st.Control[p.core] = (keep | v) & cntWritable
		st.Control[p.core] |= old & cntError

		// writing one to the error bit acknowledges it
		if v&cntError == cntError {
			st.Control[p.core] &^= cntError
		}

		send := &st.FIFO[p.core]
		if v&cntSendClear == cntSendClear {
			send.Clear()
		}

		// enabling an interrupt whose condition is already true raises it
		if old&cntSendEmptyIRQ == 0 && v&cntSendEmptyIRQ == cntSendEmptyIRQ && send.Empty() {
			p.ipc.irq[p.core].Raise(irq.IPCSendEmpty)
		}
		if old&cntRecvNotEmptyIRQ == 0 && v&cntRecvNotEmptyIRQ == cntRecvNotEmptyIRQ && !st.FIFO[p.remote].Empty() {
			p.ipc.irq[p.core].Raise(irq.IPCRecvNotEmpty)
		}

	case IPCFIFOSEND:
		if mask != 0 {
			p.send(value & mask)
		}
	}
}
