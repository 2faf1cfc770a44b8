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

package lcd_test

import (
	"testing"

	"github.com/jetsetilly/gopherds/hardware/clocks"
	"github.com/jetsetilly/gopherds/hardware/dma"
	"github.com/jetsetilly/gopherds/hardware/irq"
	"github.com/jetsetilly/gopherds/hardware/lcd"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/test"
)

type raiser struct {
	raised []irq.Source
}

func (r *raiser) Raise(src irq.Source) {
	r.raised = append(r.raised, src)
}

type triggers struct {
	count map[dma.Trigger]int
}

func (tr *triggers) Trigger(t dma.Trigger) {
	tr.count[t]++
}

type subscriber struct {
	hblanks int
	vblanks []int
}

func (s *subscriber) OnHBlank(line int) {
	s.hblanks++
}

func (s *subscriber) OnVBlank(frame int) {
	s.vblanks = append(s.vblanks, frame)
}

// run one whole frame, returning the number of cycles taken.
func frame(l *lcd.LCD) int {
	var cycles int
	for i := 0; i < clocks.TotalLines; i++ {
		cycles += l.StartHBlank()
		cycles += l.StartLine()
	}
	return cycles
}

func TestFrame(t *testing.T) {
	r9 := &raiser{}
	r7 := &raiser{}
	d9 := &triggers{count: make(map[dma.Trigger]int)}
	d7 := &triggers{count: make(map[dma.Trigger]int)}
	l := lcd.NewLCD(r9, r7, d9, d7)
	sub := &subscriber{}
	l.AddSubscriber(sub)

	p9 := l.Port(memory.ARM9)
	p7 := l.Port(memory.ARM7)

	// ARM9 wants VBlank and HBlank interrupts. ARM7 wants a VCount
	// interrupt on line 300, which does not exist
	p9.WriteRegister(lcd.DISPSTAT, 0x0018, 0xffff)
	p7.WriteRegister(lcd.DISPSTAT, 0x2ca0, 0xffff)

	test.ExpectEquality(t, frame(l), clocks.FrameCycles)
	test.ExpectEquality(t, l.Line(), 0)
	test.ExpectEquality(t, l.Frame(), 1)
	test.ExpectEquality(t, sub.hblanks, clocks.TotalLines)
	test.ExpectEquality(t, len(sub.vblanks), 1)
	test.ExpectEquality(t, sub.vblanks[0], 0)

	test.ExpectEquality(t, d9.count[dma.HBlank], clocks.VisibleLines)
	test.ExpectEquality(t, d9.count[dma.VBlank], 1)
	test.ExpectEquality(t, d7.count[dma.VBlank], 1)
	test.ExpectEquality(t, d7.count[dma.HBlank], 0)
	test.ExpectEquality(t, d9.count[dma.DisplayStart], clocks.VisibleLines)

	test.ExpectEquality(t, len(r9.raised), clocks.TotalLines+1)
	test.ExpectEquality(t, len(r7.raised), 0)

	l.RemoveSubscriber(sub)
	frame(l)
	test.ExpectEquality(t, sub.hblanks, clocks.TotalLines)
}

func TestVCount(t *testing.T) {
	r9 := &raiser{}
	r7 := &raiser{}
	d := &triggers{count: make(map[dma.Trigger]int)}
	l := lcd.NewLCD(r9, r7, d, d)
	p7 := l.Port(memory.ARM7)

	// VCount match on line 200
	p7.WriteRegister(lcd.DISPSTAT, 0xc820, 0xffff)
	for l.Line() != 200 {
		l.StartHBlank()
		l.StartLine()
	}

	v := p7.ReadRegister(lcd.DISPSTAT)
	test.ExpectEquality(t, v>>16, uint32(200))
	test.ExpectEquality(t, v&0x07, uint32(0x05))
	test.ExpectEquality(t, len(r7.raised), 1)
	test.ExpectEquality(t, r7.raised[0], irq.VCount)

	l.StartHBlank()
	test.ExpectEquality(t, p7.ReadRegister(lcd.DISPSTAT)&0x02, uint32(0x02))
	l.StartLine()
	test.ExpectEquality(t, p7.ReadRegister(lcd.DISPSTAT)&0x07, uint32(0x01))

	// the status flags cannot be written
	p7.WriteRegister(lcd.DISPSTAT, 0x0000, 0xffff)
	test.ExpectEquality(t, p7.ReadRegister(lcd.DISPSTAT)&0x07, uint32(0x01))
}
