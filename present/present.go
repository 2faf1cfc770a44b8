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

package present

import (
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/gopherds/hardware"
	"github.com/jetsetilly/gopherds/hardware/memory"
)

// Presenter implements the lcd.Subscriber interface.
type Presenter struct {
	ds *hardware.DS

	// only accessed by the emulation goroutine
	back *Frame

	crit struct {
		section sync.Mutex
		front   *Frame
	}

	// a value is sent without blocking every time a new frame is available
	updated chan struct{}

	dropped atomic.Int64
}

// NewPresenter is the preferred method of initialisation for the Presenter
// type. The Presenter is added to the console's LCD as a subscriber.
func NewPresenter(ds *hardware.DS) *Presenter {
	p := &Presenter{
		ds:      ds,
		back:    newFrame(),
		updated: make(chan struct{}, 1),
	}
	ds.LCD.AddSubscriber(p)
	return p
}

// OnHBlank implements the lcd.Subscriber interface.
func (p *Presenter) OnHBlank(_ int) {
}

// OnVBlank implements the lcd.Subscriber interface.
func (p *Presenter) OnVBlank(frame int) {
	p.capture(frame)

	if !p.crit.section.TryLock() {
		p.dropped.Add(1)
		return
	}
	if p.crit.front == nil {
		p.crit.front = newFrame()
	}
	p.crit.front, p.back = p.back, p.crit.front
	p.crit.section.Unlock()

	select {
	case p.updated <- struct{}{}:
	default:
	}
}

func (p *Presenter) capture(frame int) {
	f := p.back
	f.Number = frame

	for i := range f.Registers[EngineA] {
		f.Registers[EngineA][i], _ = p.ds.Peek(memory.ARM9, engineA+uint32(i*4), memory.Width32)
		f.Registers[EngineB][i], _ = p.ds.Peek(memory.ARM9, engineB+uint32(i*4), memory.Width32)
	}

	copy(f.Palette, p.ds.Shared.Palette)
	copy(f.OAM, p.ds.Shared.OAM)
	copy(f.VRAM, p.ds.Shared.VRAM)
}

// Borrow the most recent frame for the duration of the function. The
// emulation can not replace the frame while it is borrowed. Returns false if
// no frame has been produced yet.
func (p *Presenter) Borrow(f func(*Frame)) bool {
	p.crit.section.Lock()
	defer p.crit.section.Unlock()
	if p.crit.front == nil {
		return false
	}
	f(p.crit.front)
	return true
}

// Updated returns a channel that receives a value when a new frame is
// available. Frames may be produced faster than the channel is serviced.
func (p *Presenter) Updated() <-chan struct{} {
	return p.updated
}

// Dropped returns the number of frames that were not presented because the
// front buffer was borrowed.
func (p *Presenter) Dropped() int {
	return int(p.dropped.Load())
}
