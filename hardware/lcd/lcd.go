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

package lcd

import (
	"fmt"

	"github.com/jetsetilly/gopherds/hardware/clocks"
	"github.com/jetsetilly/gopherds/hardware/dma"
	"github.com/jetsetilly/gopherds/hardware/irq"
	"github.com/jetsetilly/gopherds/hardware/memory"
)

// register addresses. VCOUNT is the high half of the DISPSTAT word.
const (
	DISPSTAT = 0x04000004
	VCOUNT   = 0x04000006
)

// DISPSTAT bits.
const (
	statVBlank     = 0x0001
	statHBlank     = 0x0002
	statVCount     = 0x0004
	statVBlankIRQ  = 0x0008
	statHBlankIRQ  = 0x0010
	statVCountIRQ  = 0x0020
	statVCountHigh = 0x0080
	statWritable   = 0xffb8
)

// Subscriber is implemented by anything that needs to know about the
// progress of the display.
type Subscriber interface {
	OnHBlank(line int)
	OnVBlank(frame int)
}

// Interrupts is the interface to an interrupt controller.
type Interrupts interface {
	Raise(src irq.Source)
}

// DMA is the interface to a DMA controller.
type DMA interface {
	Trigger(t dma.Trigger)
}

// State is the serialisable state of the display timing.
type State struct {
	Line     int
	HBlank   bool
	Frame    int
	DISPSTAT [memory.NumCores]uint16
}

// LCD is the display timing hardware.
type LCD struct {
	state       State
	irq         [memory.NumCores]Interrupts
	dma         [memory.NumCores]DMA
	subscribers []Subscriber
}

// NewLCD is the preferred method of initialisation for the LCD type.
func NewLCD(irq9 Interrupts, irq7 Interrupts, dma9 DMA, dma7 DMA) *LCD {
	return &LCD{
		irq: [memory.NumCores]Interrupts{irq9, irq7},
		dma: [memory.NumCores]DMA{dma9, dma7},
	}
}

func (lcd *LCD) String() string {
	return fmt.Sprintf("frame %d, line %d", lcd.state.Frame, lcd.state.Line)
}

// Reset the display timing to the start of the first line.
func (lcd *LCD) Reset() {
	lcd.state = State{}
}

// AddSubscriber adds to the list of subscribers.
func (lcd *LCD) AddSubscriber(s Subscriber) {
	lcd.subscribers = append(lcd.subscribers, s)
}

// RemoveSubscriber removes the subscriber from the list.
func (lcd *LCD) RemoveSubscriber(s Subscriber) {
	for i := range lcd.subscribers {
		if lcd.subscribers[i] == s {
			lcd.subscribers = append(lcd.subscribers[:i], lcd.subscribers[i+1:]...)
			return
		}
	}
}

// Line returns the current scanline.
func (lcd *LCD) Line() int {
	return lcd.state.Line
}

// Frame returns the number of frames completed.
func (lcd *LCD) Frame() int {
	return lcd.state.Frame
}

// StartHBlank handles the start of horizontal blanking. Returns the number of
// cycles until the start of the next line.
func (lcd *LCD) StartHBlank() int {
	lcd.state.HBlank = true
	line := lcd.state.Line

	for c := range lcd.state.DISPSTAT {
		lcd.state.DISPSTAT[c] |= statHBlank
		if lcd.state.DISPSTAT[c]&statHBlankIRQ == statHBlankIRQ {
			lcd.irq[c].Raise(irq.HBlank)
		}
	}

	// the HBlank DMA timing only exists on the ARM9 and only for visible
	// lines
	if line < clocks.VisibleLines {
		lcd.dma[memory.ARM9].Trigger(dma.HBlank)
	}

	for _, s := range lcd.subscribers {
		s.OnHBlank(line)
	}

	return clocks.ScanlineCycles - clocks.HBlankCycles
}

// StartLine handles the start of the next scanline. Returns the number of
// cycles until the start of horizontal blanking.
func (lcd *LCD) StartLine() int {
	lcd.state.HBlank = false
	lcd.state.Line++
	if lcd.state.Line >= clocks.TotalLines {
		lcd.state.Line = 0
	}
	line := lcd.state.Line

	for c := range lcd.state.DISPSTAT {
		stat := &lcd.state.DISPSTAT[c]
		*stat &^= statHBlank

		switch line {
		case clocks.VisibleLines:
			*stat |= statVBlank
			if *stat&statVBlankIRQ == statVBlankIRQ {
				lcd.irq[c].Raise(irq.VBlank)
			}
		case clocks.TotalLines - 1:
			*stat &^= statVBlank
		}

		setting := int(*stat>>8) | int(*stat&statVCountHigh)<<1
		if line == setting {
			*stat |= statVCount
			if *stat&statVCountIRQ == statVCountIRQ {
				lcd.irq[c].Raise(irq.VCount)
			}
		} else {
			*stat &^= statVCount
		}
	}

	if line >= 2 && line < clocks.VisibleLines+2 {
		lcd.dma[memory.ARM9].Trigger(dma.DisplayStart)
	}

	if line == clocks.VisibleLines {
		lcd.dma[memory.ARM9].Trigger(dma.VBlank)
		lcd.dma[memory.ARM7].Trigger(dma.VBlank)
		for _, s := range lcd.subscribers {
			s.OnVBlank(lcd.state.Frame)
		}
		lcd.state.Frame++
	}

	return clocks.HBlankCycles
}

// Snapshot returns the state of the display timing.
func (lcd *LCD) Snapshot() State {
	return lcd.state
}

// Restore the state of the display timing.
func (lcd *LCD) Restore(s State) {
	lcd.state = s
}

// Port returns the register interface for the core.
func (lcd *LCD) Port(core memory.Core) *Port {
	return &Port{lcd: lcd, core: core}
}

// Port is one core's view of the display timing registers. It implements the
// iomap.Handler interface.
type Port struct {
	lcd  *LCD
	core memory.Core
}

// ReadRegister implements the iomap.Handler interface.
func (p *Port) ReadRegister(addr uint32) uint32 {
	if addr != DISPSTAT {
		return 0
	}
	return uint32(p.lcd.state.DISPSTAT[p.core]) | uint32(p.lcd.state.Line)<<16
}

// WriteRegister implements the iomap.Handler interface. VCOUNT is read only.
func (p *Port) WriteRegister(addr uint32, value uint32, mask uint32) {
	if addr != DISPSTAT || mask&0xffff == 0 {
		return
	}
	stat := &p.lcd.state.DISPSTAT[p.core]
	m := uint16(mask) & statWritable
	*stat = (*stat &^ m) | (uint16(value) & m)
}
