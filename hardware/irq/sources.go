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

import "fmt"

// Source is an interrupt source. The value is the bit number in IE and IF.
type Source uint

// List of interrupt sources.
const (
	VBlank Source = iota
	HBlank
	VCount
	Timer0
	Timer1
	Timer2
	Timer3
	RTC
	DMA0
	DMA1
	DMA2
	DMA3
	Keypad
	GBASlot
	_
	_
	IPCSync
	IPCSendEmpty
	IPCRecvNotEmpty
	SlotTransfer
	SlotIREQ
	GeometryFIFO
	Hinge
	SPI
	WiFi
	NumSources
)

var sourceNames = [...]string{
	"vblank", "hblank", "vcount",
	"timer0", "timer1", "timer2", "timer3",
	"rtc",
	"dma0", "dma1", "dma2", "dma3",
	"keypad", "gba slot", "", "",
	"ipc sync", "ipc send empty", "ipc recv not empty",
	"slot transfer", "slot ireq",
	"geometry fifo", "hinge", "spi", "wifi",
}

func (src Source) String() string {
	if int(src) < len(sourceNames) && sourceNames[src] != "" {
		return sourceNames[src]
	}
	return fmt.Sprintf("irq%d", uint(src))
}

// Timer returns the source for the numbered timer.
func Timer(n int) Source {
	return Timer0 + Source(n)
}

// DMA returns the source for the numbered DMA channel.
func DMA(n int) Source {
	return DMA0 + Source(n)
}
