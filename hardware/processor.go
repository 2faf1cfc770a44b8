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

package hardware

import (
	"fmt"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware/cpu/arm"
	"github.com/jetsetilly/gopherds/hardware/cpu/arm/architecture"
	"github.com/jetsetilly/gopherds/hardware/dma"
	"github.com/jetsetilly/gopherds/hardware/irq"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/hardware/memory/iomap"
	"github.com/jetsetilly/gopherds/hardware/scheduler"
	"github.com/jetsetilly/gopherds/hardware/timers"
)

// the interrupt sources that exist on each core.
const (
	arm9Sources = 0x003f3fff
	arm7Sources = 0x01df3fff
)

// Processor is the collection of parts that exist once for each core.
type Processor struct {
	ds *DS

	ID     memory.Core
	CPU    *arm.ARM
	Mem    *memory.Map
	IO     *iomap.Table
	IRQ    *irq.Controller
	Timers *timers.Timers
	DMA    *dma.Controller

	// registers of peripherals that are not part of the core
	Latch *iomap.Latch

	// the result of the most recent call to CPU.Step()
	last arm.StepResult

	// the pending TimerOverflow event. zero if there is no event
	timerEvent scheduler.ID

	breakpoints map[uint32]bool
}

func newProcessor(ds *DS, id memory.Core) *Processor {
	p := &Processor{
		ds:          ds,
		ID:          id,
		IO:          iomap.NewTable(id),
		Latch:       &iomap.Latch{},
		breakpoints: make(map[uint32]bool),
	}

	p.Mem = memory.NewMap(id, ds.Shared, p.IO)

	var arch architecture.Architecture
	if id == memory.ARM9 {
		arch = architecture.ARMv5TE
		p.IRQ = irq.NewController(arm9Sources)
	} else {
		arch = architecture.ARMv4T
		p.IRQ = irq.NewController(arm7Sources)
	}

	p.CPU = arm.NewARM(architecture.NewMap(arch), id.String(), p.Mem, p.IRQ)
	p.Mem.Plumb(p.CPU.ExecutingPC)

	p.Timers = timers.NewTimers(p.IRQ)
	p.DMA = dma.NewController(id, p.Mem, p.IRQ)

	p.Timers.OnOverflow = func(n int, count int) {
		for i := 0; i < count; i++ {
			p.DMA.TriggerTimer(n)
		}
	}
	p.DMA.Stall = func(cycles int) {
		p.ds.Sched.Stall(p.ID, cycles)
	}

	return p
}

func (p *Processor) String() string {
	return p.ID.String()
}

// reset the processor. CP15 must have been reset before the ARM9 so that the
// vector base is correct.
func (p *Processor) reset() {
	p.IRQ.Reset()
	p.Timers.Reset()
	p.timerEvent = 0
	p.DMA.Reset()
	p.Latch.Restore(iomap.LatchState{})
	p.Mem.Faults.Clear()
	p.Mem.Reconfigure()
	p.CPU.Reset()
	p.last = arm.StepResult{}
}

// Step implements the scheduler.Core interface.
func (p *Processor) Step() int {
	r := p.CPU.Step()
	p.last = r

	if r.Exception == arm.Undefined && p.ds.Prefs.AbortOnUndefined.Get().(bool) {
		addr, opcode := p.CPU.LastExecuted()
		p.ds.abort = curated.Errorf(UndefinedInstruction, p.ID, opcode, addr)
	}

	if p.ds.OnStep != nil {
		p.ds.OnStep(p.ID, r)
	}

	return r.Cycles
}

// IsHalted implements the scheduler.Core interface.
func (p *Processor) IsHalted() bool {
	return p.CPU.IsHalted()
}

// LastResult returns the result of the most recent instruction.
func (p *Processor) LastResult() arm.StepResult {
	return p.last
}

// timerRegisters wraps the timers so that they are brought up to date before
// every access.
func (p *Processor) timerRegisters() iomap.Handler {
	return iomap.HandlerFuncs{
		Read: func(addr uint32) uint32 {
			p.Timers.CatchUp(p.ds.Sched.Now())
			return p.Timers.ReadRegister(addr)
		},
		Write: func(addr uint32, value uint32, mask uint32) {
			p.Timers.CatchUp(p.ds.Sched.Now())
			p.Timers.WriteRegister(addr, value, mask)
			p.scheduleTimers()
		},
	}
}

// scheduleTimers replaces the pending TimerOverflow event with one at the
// time of the next overflow. The timers must be up to date.
func (p *Processor) scheduleTimers() {
	if p.timerEvent != 0 {
		p.ds.Sched.Cancel(p.timerEvent)
		p.timerEvent = 0
	}
	if at, ok := p.Timers.NextOverflow(); ok {
		p.timerEvent = p.ds.Sched.Schedule(at, scheduler.TimerOverflow, uint64(p.ID))
	}
}

// timerOverflow is the handler for the TimerOverflow event.
func (p *Processor) timerOverflow() {
	p.timerEvent = 0
	p.Timers.CatchUp(p.ds.Sched.Now())
	p.scheduleTimers()
}

// installLatch installs the latch for each of the address ranges. Each range
// is a pair of start and end addresses.
func (p *Processor) installLatch(name string, ranges ...uint32) {
	if len(ranges)%2 != 0 {
		panic(fmt.Sprintf("hardware: %s: uneven latch ranges", name))
	}
	for i := 0; i < len(ranges); i += 2 {
		p.IO.Install(name, ranges[i], ranges[i+1], p.Latch)
	}
}
