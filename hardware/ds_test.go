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

package hardware_test

import (
	"context"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware"
	"github.com/jetsetilly/gopherds/hardware/clocks"
	"github.com/jetsetilly/gopherds/hardware/cpu/arm"
	"github.com/jetsetilly/gopherds/hardware/input"
	"github.com/jetsetilly/gopherds/hardware/irq"
	"github.com/jetsetilly/gopherds/hardware/lcd"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/hardware/scheduler"
	"github.com/jetsetilly/gopherds/hardware/timers"
	"github.com/jetsetilly/gopherds/test"
)

const (
	opBranchSelf = 0xeafffffe // B .
	opBranchBack = 0xeafffffd // B .-4
	opUndefined  = 0xe7f000f0
)

const (
	arm9Load = 0x02000000
	arm7Load = 0x02380000
	handler  = 0x02000100
)

// build a homebrew cartridge with a small binary for each core.
func cartridge(arm9 []uint32, arm7 []uint32) []byte {
	data := make([]byte, 0x1000)
	le := binary.LittleEndian

	copy(data, "TESTCART")
	copy(data[0x0c:], "TEST")
	copy(data[0x10:], "01")

	put := func(hdr int, offset uint32, load uint32, code []uint32) {
		le.PutUint32(data[hdr:], offset)
		le.PutUint32(data[hdr+4:], load)
		le.PutUint32(data[hdr+8:], load)
		le.PutUint32(data[hdr+12:], uint32(len(code)*4))
		for i, w := range code {
			le.PutUint32(data[int(offset)+i*4:], w)
		}
	}
	put(0x20, 0x200, arm9Load, arm9)
	put(0x30, 0x400, arm7Load, arm7)

	return data
}

func newDS(t *testing.T) *hardware.DS {
	t.Helper()
	ds, err := hardware.NewDS(nil)
	test.DemandSuccess(t, err)
	return ds
}

func boot(t *testing.T, arm9 []uint32, arm7 []uint32) *hardware.DS {
	t.Helper()
	ds := newDS(t)
	test.DemandSuccess(t, ds.Insert(cartridge(arm9, arm7)))
	test.DemandSuccess(t, ds.Reset())
	return ds
}

func stepN(t *testing.T, ds *hardware.DS, core memory.Core, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, ok := ds.StepCore(core); !ok {
			t.Fatalf("%s is halted", core)
		}
	}
}

func TestReset(t *testing.T) {
	ds := newDS(t)

	r9 := ds.Registers(memory.ARM9)
	test.ExpectEquality(t, r9.R[15], uint32(0xffff0000))
	test.ExpectEquality(t, r9.Mode, arm.ModeSupervisor)
	test.ExpectEquality(t, r9.Thumb, false)

	r7 := ds.Registers(memory.ARM7)
	test.ExpectEquality(t, r7.R[15], uint32(0))
	test.ExpectEquality(t, r7.Mode, arm.ModeSupervisor)

	// the built-in BIOS
	v, ok := ds.Peek(memory.ARM9, 0xffff0018, memory.Width32)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, uint32(0xea000000))
	test.ExpectSuccess(t, strings.Contains(ds.BIOSName(memory.ARM7), "built-in"))

	// the reset vector loops
	stepN(t, ds, memory.ARM9, 3)
	stepN(t, ds, memory.ARM7, 3)
	test.ExpectEquality(t, ds.Registers(memory.ARM9).R[15], uint32(0xffff0000))
	test.ExpectEquality(t, ds.Registers(memory.ARM7).R[15], uint32(0))

	// the first HBlank event is pending
	evs := ds.Sched.Events()
	test.DemandEquality(t, len(evs), 1)
	test.ExpectEquality(t, evs[0].Kind, scheduler.HBlank)
	test.ExpectEquality(t, evs[0].Deadline, uint64(clocks.HBlankCycles))
}

func TestLoadBIOS(t *testing.T) {
	ds := newDS(t)
	err := ds.LoadBIOS(make([]byte, 100), nil)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, hardware.BadBIOS))

	bios7 := make([]byte, memory.BIOS7Size)
	binary.LittleEndian.PutUint32(bios7, 0xe3a00001)
	test.ExpectSuccess(t, ds.LoadBIOS(nil, bios7))
	test.ExpectSuccess(t, ds.Reset())
	test.ExpectSuccess(t, strings.Contains(ds.BIOSName(memory.ARM7), "image"))
	test.ExpectSuccess(t, strings.Contains(ds.BIOSName(memory.ARM9), "built-in"))

	stepN(t, ds, memory.ARM7, 1)
	test.ExpectEquality(t, ds.Registers(memory.ARM7).R[0], uint32(1))
}

func TestDirectBoot(t *testing.T) {
	ds := boot(t,
		[]uint32{0xe3a00005, opBranchSelf}, // MOV R0, #5
		[]uint32{0xe3a01007, opBranchSelf}, // MOV R1, #7
	)

	r9 := ds.Registers(memory.ARM9)
	test.ExpectEquality(t, r9.R[15], uint32(arm9Load))
	test.ExpectEquality(t, r9.R[14], uint32(arm9Load))
	test.ExpectEquality(t, r9.R[13], uint32(0x03002f7c))
	test.ExpectEquality(t, r9.Mode, arm.ModeSystem)

	r7 := ds.Registers(memory.ARM7)
	test.ExpectEquality(t, r7.R[15], uint32(arm7Load))
	test.ExpectEquality(t, r7.R[13], uint32(0x0380ff00))
	test.ExpectEquality(t, r7.Mode, arm.ModeSystem)

	// binaries and header are in main RAM
	v, _ := ds.Peek(memory.ARM7, arm7Load, memory.Width32)
	test.ExpectEquality(t, v, uint32(0xe3a01007))
	v, _ = ds.Peek(memory.ARM9, 0x027ffe0c, memory.Width32)
	test.ExpectEquality(t, v, binary.LittleEndian.Uint32([]byte("TEST")))
	v, _ = ds.Peek(memory.ARM9, 0x027ff800, memory.Width32)
	test.ExpectEquality(t, v, ds.Slot.ROM().ChipID())

	// system registers as left by the BIOS
	test.ExpectEquality(t, ds.Shared.WRAMCNT, uint8(3))
	test.ExpectEquality(t, ds.LiveRead(memory.ARM9, hardware.POSTFLG, memory.Width8), uint32(1))
	test.ExpectEquality(t, ds.LiveRead(memory.ARM7, hardware.POSTFLG, memory.Width8), uint32(1))

	stepN(t, ds, memory.ARM9, 1)
	stepN(t, ds, memory.ARM7, 1)
	test.ExpectEquality(t, ds.Registers(memory.ARM9).R[0], uint32(5))
	test.ExpectEquality(t, ds.Registers(memory.ARM7).R[1], uint32(7))
}

func TestDirectBootWithoutCartridge(t *testing.T) {
	ds := newDS(t)
	test.ExpectSuccess(t, curated.Is(ds.DirectBoot(), hardware.NoCartridge))
}

func TestBadBinary(t *testing.T) {
	data := cartridge([]uint32{opBranchSelf}, []uint32{opBranchSelf})
	binary.LittleEndian.PutUint32(data[0x3c:], 0x10000)

	ds := newDS(t)
	test.DemandSuccess(t, ds.Insert(data))
	err := ds.Reset()
	test.ExpectSuccess(t, curated.Is(err, hardware.BadBinary))
}

// an interrupt on the ARM7 goes through the built-in handler to the address
// stored at the end of ARM7 WRAM.
func TestARM7Interrupt(t *testing.T) {
	ds := newDS(t)

	ds.Poke(memory.ARM7, 0x02000000, memory.Width32, opBranchSelf)
	ds.Poke(memory.ARM7, handler, memory.Width32, opBranchSelf)
	ds.Poke(memory.ARM7, 0x03fffffc, memory.Width32, handler)

	cpu := ds.ARM7.CPU
	cpu.SetCPSR(uint32(arm.ModeIRQ) | 0xc0)
	cpu.SetRegister(13, 0x0380ff00)
	cpu.SetCPSR(uint32(arm.ModeSystem))
	cpu.SetRegister(13, 0x0380fe00)
	cpu.SetPC(0x02000000)

	ds.LiveWrite(memory.ARM7, irq.IE, memory.Width32, 1<<irq.Timer0)
	ds.LiveWrite(memory.ARM7, irq.IME, memory.Width32, 1)
	stepN(t, ds, memory.ARM7, 2)
	test.ExpectEquality(t, ds.Registers(memory.ARM7).R[15], uint32(0x02000000))

	ds.ARM7.IRQ.Raise(irq.Timer0)
	stepN(t, ds, memory.ARM7, 20)

	r := ds.Registers(memory.ARM7)
	test.ExpectEquality(t, r.Mode, arm.ModeIRQ)
	test.ExpectEquality(t, r.R[15], uint32(handler))

	// the handler returns to the BIOS
	test.ExpectEquality(t, r.R[14], uint32(0x30))

	// registers were stacked by the handler
	test.ExpectEquality(t, r.R[13], uint32(0x0380ff00-6*4))
}

// the ARM9 handler finds the user handler at the end of DTCM.
func TestARM9Interrupt(t *testing.T) {
	ds := boot(t, []uint32{opBranchSelf}, []uint32{opBranchSelf})

	ds.Poke(memory.ARM9, handler, memory.Width32, opBranchSelf)
	test.ExpectSuccess(t, ds.Poke(memory.ARM9, 0x027c3ffc, memory.Width32, handler))

	ds.LiveWrite(memory.ARM9, irq.IE, memory.Width32, 1<<irq.IPCSync)
	ds.LiveWrite(memory.ARM9, irq.IME, memory.Width32, 1)
	ds.ARM9.IRQ.Raise(irq.IPCSync)

	stepN(t, ds, memory.ARM9, 20)

	r := ds.Registers(memory.ARM9)
	test.ExpectEquality(t, r.Mode, arm.ModeIRQ)
	test.ExpectEquality(t, r.R[15], uint32(handler))
	test.ExpectEquality(t, r.R[14], uint32(0xffff0000+0x3c))
}

func TestHaltAndWake(t *testing.T) {
	ds := newDS(t)

	ds.LiveWrite(memory.ARM7, lcd.DISPSTAT, memory.Width16, 0x0008)
	ds.LiveWrite(memory.ARM7, irq.IE, memory.Width32, 1<<irq.VBlank)

	ds.LiveWrite(memory.ARM7, hardware.HALTCNT, memory.Width8, 0x80)
	test.DemandSuccess(t, ds.Registers(memory.ARM7).Halted)

	_, ok := ds.StepCore(memory.ARM7)
	test.ExpectFailure(t, ok)

	err := ds.Run(context.Background(), func(scheduler.Actor) bool {
		return ds.ARM7.IsHalted()
	})
	test.ExpectSuccess(t, err)

	vblank := uint64(clocks.VisibleLines * clocks.ScanlineCycles)
	now := ds.Sched.Now()
	test.ExpectSuccess(t, now >= vblank && now < vblank+clocks.ScanlineCycles)
	test.ExpectEquality(t, ds.Sched.Clock(memory.ARM7), now)

	// the ARM9 does not have the VBlank interrupt enabled
	test.ExpectEquality(t, ds.ARM9.IRQ.Wake(), false)
}

// pendingTimerEvents returns the number of TimerOverflow events in the
// scheduler.
func pendingTimerEvents(ds *hardware.DS) int {
	var n int
	for _, ev := range ds.Sched.Events() {
		if ev.Kind == scheduler.TimerOverflow {
			n++
		}
	}
	return n
}

func TestTimerWakesHaltedCore(t *testing.T) {
	ds := newDS(t)
	start := ds.Sched.Now()

	ds.LiveWrite(memory.ARM7, irq.IE, memory.Width32, 1<<irq.Timer0)

	// sixteen increments with a prescaler of one bus cycle
	ds.LiveWrite(memory.ARM7, timers.Base, memory.Width32, 0xfff0|0xc0<<16)
	test.ExpectEquality(t, pendingTimerEvents(ds), 1)

	ds.LiveWrite(memory.ARM7, hardware.HALTCNT, memory.Width8, 0x80)
	ds.ARM9.CPU.Halt()

	err := ds.Run(context.Background(), func(scheduler.Actor) bool {
		return ds.ARM7.IsHalted()
	})
	test.ExpectSuccess(t, err)

	// the core wakes at the overflow and not at the next display event
	overflow := start + 16*clocks.BusCycle
	now := ds.Sched.Now()
	test.ExpectSuccess(t, now >= overflow && now < overflow+4*clocks.BusCycle)
	test.ExpectEquality(t, ds.LiveRead(memory.ARM7, irq.IF, memory.Width32)&(1<<irq.Timer0), uint32(1<<irq.Timer0))

	// the timer reloads and the next overflow is scheduled
	test.ExpectEquality(t, pendingTimerEvents(ds), 1)
}

func TestTimerEventCancelled(t *testing.T) {
	ds := newDS(t)

	ds.LiveWrite(memory.ARM9, timers.Base+4, memory.Width32, 0x8000|0x80<<16)
	test.ExpectEquality(t, pendingTimerEvents(ds), 1)
	first := ds.Sched.Events()

	// writing the reload value of a running timer does not change the time
	// of the next overflow but the event is replaced
	ds.LiveWrite(memory.ARM9, timers.Base+4, memory.Width16, 0x1234)
	test.ExpectEquality(t, pendingTimerEvents(ds), 1)

	// a second running timer shares the event with the first
	ds.LiveWrite(memory.ARM9, timers.Base+8, memory.Width32, 0xff00|0x80<<16)
	test.ExpectEquality(t, pendingTimerEvents(ds), 1)

	// stopping both timers removes the event
	ds.LiveWrite(memory.ARM9, timers.Base+6, memory.Width16, 0)
	test.ExpectEquality(t, pendingTimerEvents(ds), 1)
	ds.LiveWrite(memory.ARM9, timers.Base+10, memory.Width16, 0)
	test.ExpectEquality(t, pendingTimerEvents(ds), 0)
	test.ExpectEquality(t, len(ds.Sched.Events()), len(first)-1)

	// the ARM7 timers are independent of the ARM9 timers
	ds.LiveWrite(memory.ARM7, timers.Base, memory.Width32, 0x80<<16)
	test.ExpectEquality(t, pendingTimerEvents(ds), 1)
}

func TestTimerEventRestored(t *testing.T) {
	ds := newDS(t)
	ds.LiveWrite(memory.ARM7, timers.Base, memory.Width32, 0x80<<16)
	s := ds.Snapshot()

	other := newDS(t)
	test.DemandSuccess(t, other.Restore(s))
	test.ExpectEquality(t, pendingTimerEvents(other), 1)

	// the restored event belongs to the ARM7 and is cancelled when the
	// timer is stopped
	other.LiveWrite(memory.ARM7, timers.Base+2, memory.Width16, 0)
	test.ExpectEquality(t, pendingTimerEvents(other), 0)

	// a state without the event for a running timer is given one
	s.Scheduler.Events = s.Scheduler.Events[:0:0]
	for _, ev := range ds.Sched.Events() {
		if ev.Kind != scheduler.TimerOverflow {
			s.Scheduler.Events = append(s.Scheduler.Events, ev)
		}
	}
	test.DemandSuccess(t, other.Restore(s))
	test.ExpectEquality(t, pendingTimerEvents(other), 1)
}

func TestWRAMCNT(t *testing.T) {
	ds := newDS(t)

	ds.LiveWrite(memory.ARM9, hardware.WRAMCNT, memory.Width8, 0)
	test.ExpectEquality(t, ds.Shared.WRAMCNT, uint8(0))
	test.ExpectEquality(t, ds.LiveRead(memory.ARM7, hardware.WRAMSTAT, memory.Width8), uint32(0))

	ds.Poke(memory.ARM9, 0x03000000, memory.Width32, 0x12345678)
	ds.Poke(memory.ARM7, 0x03800000, memory.Width32, 0x87654321)

	// the ARM7 sees its own WRAM when it has none of the shared WRAM
	v, _ := ds.Peek(memory.ARM7, 0x03000000, memory.Width32)
	test.ExpectEquality(t, v, uint32(0x87654321))

	ds.LiveWrite(memory.ARM9, hardware.WRAMCNT, memory.Width8, 3)
	test.ExpectEquality(t, ds.LiveRead(memory.ARM7, hardware.WRAMSTAT, memory.Width8), uint32(3))

	v, _ = ds.Peek(memory.ARM7, 0x03000000, memory.Width32)
	test.ExpectEquality(t, v, uint32(0x12345678))

	_, ok := ds.Peek(memory.ARM9, 0x03000000, memory.Width32)
	test.ExpectFailure(t, ok)

	// the ARM7 can not change WRAMCNT
	ds.LiveWrite(memory.ARM7, hardware.WRAMCNT, memory.Width8, 0)
	test.ExpectEquality(t, ds.Shared.WRAMCNT, uint8(3))
}

func TestBreakpoint(t *testing.T) {
	ds := boot(t,
		[]uint32{0xe2800001, opBranchBack}, // ADD R0, R0, #1
		[]uint32{opBranchSelf},
	)

	ds.SetBreakpoint(memory.ARM9, arm9Load+4)
	ds.SetBreakpoint(memory.ARM9, arm9Load+0x100)
	test.ExpectEquality(t, len(ds.Breakpoints(memory.ARM9)), 2)
	test.ExpectEquality(t, ds.Breakpoints(memory.ARM9)[0], uint32(arm9Load+4))

	err := ds.Run(context.Background(), nil)
	test.ExpectSuccess(t, curated.Is(err, hardware.Breakpoint))
	test.ExpectEquality(t, ds.Registers(memory.ARM9).R[15], uint32(arm9Load+4))
	test.ExpectEquality(t, ds.Registers(memory.ARM9).R[0], uint32(1))

	// resuming from a breakpoint
	err = ds.Run(context.Background(), nil)
	test.ExpectSuccess(t, curated.Is(err, hardware.Breakpoint))
	test.ExpectEquality(t, ds.Registers(memory.ARM9).R[0], uint32(2))

	test.ExpectSuccess(t, ds.ClearBreakpoint(memory.ARM9, arm9Load+4))
	test.ExpectFailure(t, ds.ClearBreakpoint(memory.ARM9, arm9Load+4))

	test.ExpectSuccess(t, ds.RunForCycles(context.Background(), 1000))
	test.ExpectInequality(t, ds.Registers(memory.ARM9).R[0], uint32(2))
}

func TestAbortOnUndefined(t *testing.T) {
	ds := boot(t, []uint32{opBranchSelf}, []uint32{opUndefined})
	test.DemandSuccess(t, ds.Prefs.AbortOnUndefined.Set(true))

	err := ds.Run(context.Background(), nil)
	test.ExpectSuccess(t, curated.Is(err, hardware.UndefinedInstruction))
	test.ExpectEquality(t, ds.Registers(memory.ARM7).Mode, arm.ModeUndefined)
	test.ExpectEquality(t, ds.Registers(memory.ARM7).R[15], uint32(0x04))
}

func TestCancelledRun(t *testing.T) {
	ds := newDS(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ds.Run(ctx, nil)
	test.ExpectEquality(t, err, context.Canceled)
}

func TestInput(t *testing.T) {
	ds := newDS(t)
	test.DemandSuccess(t, ds.Input.PushEvent(input.Event{Key: input.A, Down: true}))

	// keys are applied at the start of VBlank
	test.ExpectEquality(t, ds.LiveRead(memory.ARM9, input.KEYINPUT, memory.Width16)&0x01, uint32(1))
	test.ExpectSuccess(t, ds.RunForFrameCount(context.Background(), 2))
	test.ExpectSuccess(t, ds.Keypad.Held().Held(input.A))
	test.ExpectEquality(t, ds.LiveRead(memory.ARM9, input.KEYINPUT, memory.Width16)&0x01, uint32(0))
}

func TestFrameCount(t *testing.T) {
	ds := newDS(t)
	test.ExpectSuccess(t, ds.RunForFrameCount(context.Background(), 3))
	test.ExpectEquality(t, ds.LCD.Frame(), 3)
}

func TestSnapshot(t *testing.T) {
	code9 := []uint32{0xe2800001, opBranchBack} // ADD R0, R0, #1
	code7 := []uint32{0xe2811001, opBranchBack} // ADD R1, R1, #1

	ds := boot(t, code9, code7)
	ctx := context.Background()

	test.DemandSuccess(t, ds.RunForCycles(ctx, 100000))
	s := ds.Snapshot()

	test.DemandSuccess(t, ds.RunForCycles(ctx, 50000))
	now := ds.Sched.Now()
	r9 := ds.Registers(memory.ARM9)
	r7 := ds.Registers(memory.ARM7)
	frame := ds.LCD.Frame()

	test.DemandSuccess(t, ds.Restore(s))
	test.ExpectInequality(t, ds.Registers(memory.ARM9), r9)

	test.DemandSuccess(t, ds.RunForCycles(ctx, 50000))
	test.ExpectEquality(t, ds.Sched.Now(), now)
	test.ExpectEquality(t, ds.Registers(memory.ARM9), r9)
	test.ExpectEquality(t, ds.Registers(memory.ARM7), r7)
	test.ExpectEquality(t, ds.LCD.Frame(), frame)

	// a second console running the same cartridge
	other := boot(t, code9, code7)
	test.DemandSuccess(t, other.Run(ctx, func(scheduler.Actor) bool {
		return other.Sched.Now() < now
	}))
	test.ExpectEquality(t, other.Sched.Now(), now)
	test.ExpectEquality(t, other.Registers(memory.ARM9), r9)
	test.ExpectEquality(t, other.Registers(memory.ARM7), r7)
}

func TestInvalidState(t *testing.T) {
	ds := newDS(t)
	test.ExpectFailure(t, ds.Restore(nil))

	s := ds.Snapshot()
	s.Scheduler.Events = append(s.Scheduler.Events, scheduler.Event{Kind: scheduler.NumKinds, Deadline: s.Scheduler.Now + 1})
	err := ds.Restore(s)
	test.ExpectSuccess(t, curated.Is(err, hardware.InvalidState))

	s = ds.Snapshot()
	s.Shared.Buffers[0] = s.Shared.Buffers[0][:10]
	test.ExpectFailure(t, ds.Validate(s))

	// one timer event per core
	s = ds.Snapshot()
	for i := 0; i < 2; i++ {
		s.Scheduler.Events = append(s.Scheduler.Events, scheduler.Event{
			Kind:     scheduler.TimerOverflow,
			Deadline: s.Scheduler.Now + 10,
			Arg:      uint64(memory.ARM7),
		})
	}
	test.ExpectSuccess(t, curated.Is(ds.Validate(s), hardware.InvalidState))
	s.Scheduler.Events = s.Scheduler.Events[:len(s.Scheduler.Events)-1]
	test.ExpectSuccess(t, ds.Validate(s))
}
