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
	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware/clocks"
	"github.com/jetsetilly/gopherds/hardware/cpu/arm"
	"github.com/jetsetilly/gopherds/hardware/cpu/cp15"
	"github.com/jetsetilly/gopherds/hardware/dma"
	"github.com/jetsetilly/gopherds/hardware/dsslot"
	"github.com/jetsetilly/gopherds/hardware/input"
	"github.com/jetsetilly/gopherds/hardware/ipc"
	"github.com/jetsetilly/gopherds/hardware/irq"
	"github.com/jetsetilly/gopherds/hardware/lcd"
	"github.com/jetsetilly/gopherds/hardware/maths"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/hardware/preferences"
	"github.com/jetsetilly/gopherds/hardware/scheduler"
	"github.com/jetsetilly/gopherds/hardware/timers"
	"github.com/jetsetilly/gopherds/prefs"
)

// Error patterns.
const (
	UndefinedInstruction = "hardware: %s: undefined instruction %08x at %08x"
	Breakpoint           = "hardware: %s: breakpoint at %08x"
	BadBIOS              = "hardware: %s BIOS is %d bytes, expected %d"
	NoCartridge          = "hardware: no cartridge inserted"
	BadBinary            = "hardware: %s binary is outside the ROM (%s)"
)

// DS is the root of the emulation.
type DS struct {
	Prefs *preferences.Preferences

	Shared *memory.Shared
	ARM9   *Processor
	ARM7   *Processor
	CP15   *cp15.CP15

	Sched  *scheduler.Scheduler
	LCD    *lcd.LCD
	IPC    *ipc.IPC
	Keypad *input.Keypad
	Maths  *maths.Maths
	Slot   *dsslot.Slot

	// input events from other goroutines are collected at the start of
	// VBlank and applied through the scheduler
	Input *input.Queue

	sys SystemState

	// the BIOS images have been supplied. if they have not then a minimal
	// replacement is used
	bios9 bool
	bios7 bool

	// error raised by a core during the most recent iteration of the
	// scheduler
	abort error

	// OnStep is called after every instruction executed by either core
	OnStep func(core memory.Core, r arm.StepResult)
}

// NewDS is the preferred method of initialisation for the DS type. If prefs
// is nil then a set of preferences that are never saved to disk is created.
func NewDS(p *preferences.Preferences) (*DS, error) {
	if p == nil {
		var err error
		p, err = preferences.NewPreferences("")
		if err != nil {
			return nil, err
		}
	}

	ds := &DS{
		Prefs:  p,
		Shared: memory.NewShared(),
		Input:  input.NewQueue(),
	}

	ds.ARM9 = newProcessor(ds, memory.ARM9)
	ds.ARM7 = newProcessor(ds, memory.ARM7)

	ds.CP15 = cp15.NewCP15(ds.ARM9.CPU, ds.ARM9.Mem)
	ds.ARM9.CPU.SetCoprocessor(ds.CP15)

	ds.Sched = scheduler.NewScheduler(ds.ARM9, ds.ARM7)
	ds.Sched.OnSettle = ds.settle

	ds.LCD = lcd.NewLCD(ds.ARM9.IRQ, ds.ARM7.IRQ, ds.ARM9.DMA, ds.ARM7.DMA)
	ds.LCD.AddSubscriber(&inputCollector{ds: ds})
	ds.IPC = ipc.NewIPC(ds.ARM9.IRQ, ds.ARM7.IRQ)
	ds.Keypad = input.NewKeypad(ds.ARM9.IRQ, ds.ARM7.IRQ)
	ds.Maths = maths.NewMaths(ds.Sched.Now)
	ds.Slot = dsslot.NewSlot(ds.ARM9.IRQ, ds.ARM7.IRQ, ds.ARM9.DMA, ds.ARM7.DMA, ds.slotOwner)
	ds.Slot.Schedule = func(cycles int) {
		ds.Sched.ScheduleIn(cycles, scheduler.SlotWordReady, 0)
	}

	ds.Sched.SetHandler(scheduler.HBlank, func(_ uint64) {
		ds.Sched.ScheduleIn(ds.LCD.StartHBlank(), scheduler.NextLine, 0)
	})
	ds.Sched.SetHandler(scheduler.NextLine, func(_ uint64) {
		ds.Sched.ScheduleIn(ds.LCD.StartLine(), scheduler.HBlank, 0)
	})
	ds.Sched.SetHandler(scheduler.SlotWordReady, func(_ uint64) {
		ds.Slot.WordReady()
	})
	ds.Sched.SetHandler(scheduler.InputChange, func(arg uint64) {
		ds.Keypad.SetHeld(input.Keys(arg))
	})
	ds.Sched.SetHandler(scheduler.TimerOverflow, func(arg uint64) {
		ds.Processor(memory.Core(arg)).timerOverflow()
	})

	ds.install(ds.ARM9)
	ds.install(ds.ARM7)

	ds.setLogFaults(p.LogOpenBus.Get().(bool))
	p.LogOpenBus.SetHookPost(func(v prefs.Value) error {
		ds.setLogFaults(v.(bool))
		return nil
	})

	if err := ds.Reset(); err != nil {
		return nil, err
	}

	return ds, nil
}

func (ds *DS) String() string {
	return ds.LCD.String()
}

func (ds *DS) setLogFaults(log bool) {
	ds.ARM9.Mem.LogFaults = log
	ds.ARM7.Mem.LogFaults = log
}

// install the register handlers for the processor.
func (ds *DS) install(p *Processor) {
	tab := p.IO
	sys := systemRegisters{ds: ds, p: p}

	tab.Install("DISPSTAT", lcd.DISPSTAT, lcd.VCOUNT+1, ds.LCD.Port(p.ID))
	tab.Install("DMA", dma.Base, dma.FillBase-1, p.DMA)
	tab.Install("timers", timers.Base, timers.Base+timers.NumTimers*4-1, p.timerRegisters())
	tab.Install("keypad", input.KEYINPUT, input.EXTKEYIN+1, ds.Keypad.Port(p.ID))
	tab.Install("IPC", ipc.IPCSYNC, ipc.IPCFIFOSEND+3, ds.IPC.Port(p.ID))
	tab.Install("IPC FIFO", ipc.IPCFIFORECV, ipc.IPCFIFORECV+3, ds.IPC.Port(p.ID))
	tab.Install("DS slot", dsslot.AUXSPICNT, dsslot.ROMCMD+7, ds.Slot.Port(p.ID))
	tab.Install("DS slot data", dsslot.ROMDATA, dsslot.ROMDATA+3, ds.Slot.Port(p.ID))
	tab.Install("EXMEMCNT", EXMEMCNT, EXMEMCNT+3, sys)
	tab.Install("IME", irq.IME, irq.IME+3, p.IRQ)
	tab.Install("IE/IF", irq.IE, irq.IF+3, p.IRQ)
	tab.Install("VRAMCNT", VRAMCNT, VRAMCNT+11, sys)
	tab.Install("POSTFLG", POSTFLG, POSTFLG+3, sys)

	if p.ID == memory.ARM9 {
		tab.Install("DMA fill", dma.FillBase, dma.FillBase+dma.NumChannels*4-1, p.DMA)
		tab.Install("maths", maths.Start, maths.End, ds.Maths)
		p.installLatch("video",
			0x04000000, 0x04000003,
			0x04000008, 0x0400006f,
			0x04000304, 0x04000307,
			0x04000320, 0x040006a3,
			0x04001000, 0x0400106f,
		)
	} else {
		p.installLatch("peripherals",
			0x04000138, 0x0400013b,
			0x040001c0, 0x040001c3,
			0x04000304, 0x04000307,
			0x04000400, 0x0400051f,
		)
	}
}

// LoadBIOS copies the BIOS images into memory. A nil image leaves the
// minimal replacement in place for that core. The console should be reset
// afterwards.
func (ds *DS) LoadBIOS(bios9 []byte, bios7 []byte) error {
	if bios9 != nil {
		if len(bios9) != memory.BIOS9Size {
			return curated.Errorf(BadBIOS, memory.ARM9, len(bios9), memory.BIOS9Size)
		}
	}
	if bios7 != nil {
		if len(bios7) != memory.BIOS7Size {
			return curated.Errorf(BadBIOS, memory.ARM7, len(bios7), memory.BIOS7Size)
		}
	}

	if bios9 != nil {
		copy(ds.Shared.BIOS9, bios9)
		ds.bios9 = true
	}
	if bios7 != nil {
		copy(ds.Shared.BIOS7, bios7)
		ds.bios7 = true
	}
	return nil
}

// Insert a cartridge. The data is the complete ROM image. The console
// should be reset afterwards.
func (ds *DS) Insert(data []byte) error {
	var bios7 []byte
	if ds.bios7 {
		bios7 = ds.Shared.BIOS7
	}
	rom, err := dsslot.NewROM(data, bios7)
	if err != nil {
		return err
	}
	ds.Slot.Insert(rom)
	return nil
}

// Reset the console. If the DirectBoot preference is set and a cartridge is
// inserted then the cartridge binaries are loaded and both cores start at
// their entry points.
func (ds *DS) Reset() error {
	ds.abort = nil
	ds.sys = SystemState{}

	ds.Shared.Reset()
	if !ds.bios9 {
		writeStub(ds.Shared.BIOS9, arm9Handler[:])
	}
	if !ds.bios7 {
		writeStub(ds.Shared.BIOS7, arm7Handler[:])
	}

	ds.Sched.Reset()

	// CP15 sets the ARM9 vector base so it must be reset before the ARM9
	ds.CP15.Reset()
	ds.ARM9.reset()
	ds.ARM7.reset()

	ds.LCD.Reset()
	ds.IPC.Reset()
	ds.Keypad.Reset()
	ds.Maths.Reset()
	ds.Slot.Reset()

	ds.Sched.Schedule(clocks.HBlankCycles, scheduler.HBlank, 0)

	if ds.Slot.ROM() == nil {
		return nil
	}

	directBoot := ds.Prefs.DirectBoot.Get().(bool)
	if err := ds.Slot.ROM().Setup(directBoot); err != nil {
		return err
	}
	if directBoot {
		return ds.DirectBoot()
	}
	return nil
}

// settle is called by the scheduler at the end of every iteration.
func (ds *DS) settle(now uint64) {
	for _, p := range [...]*Processor{ds.ARM9, ds.ARM7} {
		p.Timers.CatchUp(now)
		if p.CPU.IsHalted() && p.IRQ.Wake() {
			p.CPU.Wake()
		}
	}
}

// Processor returns the processor for the core.
func (ds *DS) Processor(core memory.Core) *Processor {
	if core == memory.ARM7 {
		return ds.ARM7
	}
	return ds.ARM9
}

// inputCollector applies the events in the input queue at the start of every
// VBlank.
type inputCollector struct {
	ds *DS
}

func (ic *inputCollector) OnHBlank(_ int) {
}

func (ic *inputCollector) OnVBlank(_ int) {
	ks, ok := ic.ds.Input.Drain(ic.ds.Keypad.Held())
	if ok {
		ic.ds.ScheduleInput(ic.ds.Sched.Now()+1, ks)
	}
}

// ScheduleInput changes the keys being held at the time given in system
// cycles.
func (ds *DS) ScheduleInput(at uint64, ks input.Keys) scheduler.ID {
	return ds.Sched.Schedule(at, scheduler.InputChange, uint64(ks))
}
