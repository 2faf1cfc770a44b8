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

package dma

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware/clocks"
	"github.com/jetsetilly/gopherds/hardware/irq"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/hardware/timers"
)

// InvalidState is the error pattern for a State that can not be restored.
const InvalidState = "dma: invalid state: %s"

// NumChannels is the number of DMA channels per core.
const NumChannels = 4

// register addresses.
const (
	Base     = 0x040000b0
	FillBase = 0x040000e0

	// size in bytes of each channel's register block: SAD, DAD and CNT
	channelSize = 12
)

// control register bits.
const (
	ctrlDstShift = 21
	ctrlSrcShift = 23
	ctrlRepeat   = 1 << 25
	ctrl32bit    = 1 << 26
	ctrlIRQ      = 1 << 30
	ctrlEnable   = 1 << 31
)

// address control modes.
const (
	addrIncrement = iota
	addrDecrement
	addrFixed
	addrReload
)

// Bus is the interface to the memory map of the core that owns the DMA
// controller. It is satisfied by memory.Map.
type Bus interface {
	Read(addr uint32, width memory.Width, access memory.Access, seq bool) (uint32, int)
	Write(addr uint32, width memory.Width, access memory.Access, seq bool, value uint32) int
}

// Interrupts is the interface to the interrupt controller.
type Interrupts interface {
	Raise(src irq.Source)
}

// Channel is the state of a single DMA channel.
type Channel struct {
	// register values as written
	SAD     uint32
	DAD     uint32
	Control uint32

	// internal addresses and number of units remaining
	Src   uint32
	Dst   uint32
	Count uint32

	// timer the channel is linked to. negative if the channel is not linked
	TimerLink int
}

// Enabled returns true if the channel is armed.
func (ch Channel) Enabled() bool {
	return ch.Control&ctrlEnable == ctrlEnable
}

func (ch Channel) width() memory.Width {
	if ch.Control&ctrl32bit == ctrl32bit {
		return memory.Width32
	}
	return memory.Width16
}

func step(mode uint32, width memory.Width) uint32 {
	switch mode {
	case addrDecrement:
		return -uint32(width)
	case addrFixed:
		return 0
	}
	return uint32(width)
}

// State is the serialisable state of the DMA controller.
type State struct {
	Channels [NumChannels]Channel
	Fill     [NumChannels]uint32
}

// Controller is the DMA controller for a single core.
type Controller struct {
	core  memory.Core
	bus   Bus
	irq   Interrupts
	state State

	// cycle multiplier to convert the cycles reported by the bus into system
	// cycles
	scale int

	// Stall is called with the number of system cycles taken by a transfer.
	// the scheduler charges the cycles to the core that owns the controller
	Stall func(cycles int)
}

// NewController is the preferred method of initialisation for the Controller
// type.
func NewController(core memory.Core, bus Bus, irq Interrupts) *Controller {
	dma := &Controller{
		core: core,
		bus:  bus,
		irq:  irq,
	}
	if core == memory.ARM7 {
		dma.scale = clocks.ARM7Cycle
	} else {
		dma.scale = clocks.ARM9Cycle
	}
	dma.Reset()
	return dma
}

func (dma *Controller) String() string {
	var s strings.Builder
	for i, ch := range dma.state.Channels {
		s.WriteString(fmt.Sprintf("dma%d: ", i))
		if !ch.Enabled() {
			s.WriteString("disabled\n")
			continue
		}
		s.WriteString(fmt.Sprintf("%08x -> %08x (%d x %s) %s\n",
			ch.Src, ch.Dst, ch.Count, ch.width(), dma.trigger(i)))
	}
	return s.String()
}

// Reset all channels.
func (dma *Controller) Reset() {
	dma.state = State{}
	for i := range dma.state.Channels {
		dma.state.Channels[i].TimerLink = -1
	}
}

// Channel returns a copy of the numbered channel.
func (dma *Controller) Channel(n int) Channel {
	return dma.state.Channels[n]
}

// masks for the address and word count registers.
func (dma *Controller) masks(n int) (src uint32, dst uint32, count uint32) {
	if dma.core == memory.ARM9 {
		return 0x0ffffffe, 0x0ffffffe, 0x1fffff
	}
	src, dst, count = 0x0ffffffe, 0x07fffffe, 0x3fff
	if n == 0 {
		src = 0x07fffffe
	}
	if n == 3 {
		dst = 0x0ffffffe
		count = 0xffff
	}
	return src, dst, count
}

// trigger returns the start condition of the numbered channel.
func (dma *Controller) trigger(n int) Trigger {
	ch := dma.state.Channels[n]
	if ch.TimerLink >= 0 {
		return Timer
	}
	if dma.core == memory.ARM9 {
		return arm9Timing[(ch.Control>>27)&0x07]
	}
	return arm7Timing(n, (ch.Control>>28)&0x03)
}

// Trigger all armed channels waiting on the trigger. Channels are serviced in
// priority order, channel zero first.
func (dma *Controller) Trigger(t Trigger) {
	for i := range dma.state.Channels {
		if dma.state.Channels[i].Enabled() && dma.trigger(i) == t {
			dma.transfer(i)
		}
	}
}

// LinkTimer links a channel to a timer. The channel starts on every overflow
// of the timer, regardless of the start timing in its control register.
// A negative timer number removes the link.
func (dma *Controller) LinkTimer(channel int, timer int) {
	dma.state.Channels[channel].TimerLink = max(timer, -1)
}

// TriggerTimer starts any armed channels linked to the timer.
func (dma *Controller) TriggerTimer(timer int) {
	for i := range dma.state.Channels {
		ch := dma.state.Channels[i]
		if ch.Enabled() && ch.TimerLink == timer {
			dma.transfer(i)
		}
	}
}

// load the internal registers from the register values.
func (dma *Controller) arm(n int) {
	ch := &dma.state.Channels[n]
	srcMask, dstMask, countMask := dma.masks(n)
	ch.Src = ch.SAD & srcMask
	ch.Dst = ch.DAD & dstMask
	ch.Count = ch.Control & countMask
	if ch.Count == 0 {
		ch.Count = countMask + 1
	}
	if ch.width() == memory.Width32 {
		ch.Src &^= 0x03
		ch.Dst &^= 0x03
	}
}

// transfer the numbered channel to completion.
func (dma *Controller) transfer(n int) {
	ch := &dma.state.Channels[n]

	width := ch.width()
	dstMode := (ch.Control >> ctrlDstShift) & 0x03
	srcMode := (ch.Control >> ctrlSrcShift) & 0x03
	dstStep := step(dstMode, width)
	srcStep := step(srcMode, width)

	var cycles int
	seq := false
	for ; ch.Count > 0; ch.Count-- {
		v, c := dma.bus.Read(ch.Src, width, memory.DMARead, seq)
		cycles += c
		cycles += dma.bus.Write(ch.Dst, width, memory.DMAWrite, seq, v)
		ch.Src += srcStep
		ch.Dst += dstStep
		seq = true
	}

	if ch.Control&ctrlIRQ == ctrlIRQ {
		dma.irq.Raise(irq.DMA(n))
	}

	if ch.Control&ctrlRepeat == ctrlRepeat && dma.trigger(n) != Immediate {
		_, dstMask, countMask := dma.masks(n)
		ch.Count = ch.Control & countMask
		if ch.Count == 0 {
			ch.Count = countMask + 1
		}
		if dstMode == addrReload {
			ch.Dst = ch.DAD & dstMask
		}
	} else {
		ch.Control &^= ctrlEnable
	}

	if dma.Stall != nil && cycles > 0 {
		dma.Stall(cycles * dma.scale)
	}
}

// ReadRegister implements the iomap.Handler interface.
func (dma *Controller) ReadRegister(addr uint32) uint32 {
	if addr >= FillBase {
		return dma.state.Fill[(addr-FillBase)>>2]
	}
	n := (addr - Base) / channelSize
	ch := dma.state.Channels[n]
	switch (addr - Base) % channelSize {
	case 0:
		return ch.SAD
	case 4:
		return ch.DAD
	}
	return ch.Control
}

// WriteRegister implements the iomap.Handler interface.
func (dma *Controller) WriteRegister(addr uint32, value uint32, mask uint32) {
	if addr >= FillBase {
		f := &dma.state.Fill[(addr-FillBase)>>2]
		*f = (*f &^ mask) | (value & mask)
		return
	}

	n := int((addr - Base) / channelSize)
	ch := &dma.state.Channels[n]
	switch (addr - Base) % channelSize {
	case 0:
		ch.SAD = (ch.SAD &^ mask) | (value & mask)
	case 4:
		ch.DAD = (ch.DAD &^ mask) | (value & mask)
	default:
		wasEnabled := ch.Enabled()
		ch.Control = (ch.Control &^ mask) | (value & mask)
		if !wasEnabled && ch.Enabled() {
			dma.arm(n)
			if dma.trigger(n) == Immediate {
				dma.transfer(n)
			}
		}
	}
}

// Snapshot returns the state of the controller.
func (dma *Controller) Snapshot() State {
	return dma.state
}

// Validate checks that the state can be restored.
func (dma *Controller) Validate(s State) error {
	for i, ch := range s.Channels {
		if ch.TimerLink < -1 || ch.TimerLink >= timers.NumTimers {
			return curated.Errorf(InvalidState, fmt.Sprintf("channel %d linked to timer %d", i, ch.TimerLink))
		}
		if _, _, count := dma.masks(i); ch.Count > count+1 {
			return curated.Errorf(InvalidState, fmt.Sprintf("channel %d count of %d", i, ch.Count))
		}
	}
	return nil
}

// Restore the state of the controller. The state should have been checked
// with Validate().
func (dma *Controller) Restore(s State) {
	dma.state = s
}
