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

package arm_test

import (
	"testing"

	"github.com/jetsetilly/gopherds/hardware/cpu/arm"
	"github.com/jetsetilly/gopherds/hardware/cpu/arm/architecture"
	"github.com/jetsetilly/gopherds/hardware/irq"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/hardware/memory/iomap"
	"github.com/jetsetilly/gopherds/test"
)

const origin = 0x02000000

type core struct {
	cpu *arm.ARM
	mem *memory.Map
	irq *irq.Controller
}

func newCore(arch architecture.Architecture) core {
	c := memory.ARM9
	if arch == architecture.ARMv4T {
		c = memory.ARM7
	}

	mem := memory.NewMap(c, memory.NewShared(), iomap.NewTable(c))
	ctl := irq.NewController(0xffffffff)
	cpu := arm.NewARM(architecture.NewMap(arch), c.String(), mem, ctl)
	mem.Plumb(cpu.ExecutingPC)

	// system mode with interrupts enabled
	cpu.SetCPSR(0x1f)

	return core{cpu: cpu, mem: mem, irq: ctl}
}

// load ARM instructions and set the PC to the first instruction.
func (c core) load(addr uint32, opcodes ...uint32) {
	for i, op := range opcodes {
		c.mem.Poke(addr+uint32(i*4), memory.Width32, op)
	}
	c.cpu.SetPC(addr)
}

// load thumb instructions and switch to the thumb instruction set.
func (c core) loadThumb(addr uint32, opcodes ...uint16) {
	for i, op := range opcodes {
		c.mem.Poke(addr+uint32(i*2), memory.Width16, uint32(op))
	}
	c.cpu.SetCPSR(c.cpu.CPSR() | 0x20)
	c.cpu.SetPC(addr)
}

func (c core) step(n int) arm.StepResult {
	var r arm.StepResult
	for i := 0; i < n; i++ {
		r = c.cpu.Step()
	}
	return r
}

func (c core) fetchCost(addr uint32, width memory.Width, seq bool) int {
	return c.mem.Resolve(addr, width, memory.Fetch, seq).Cycles
}

func TestDataProcessing(t *testing.T) {
	c := newCore(architecture.ARMv5TE)
	c.load(origin,
		0xe3a00005, // MOV r0, #5
		0xe2801003, // ADD r1, r0, #3
		0xe2502005, // SUBS r2, r0, #5
		0xe1a03100, // MOV r3, r0, LSL #2
		0xe3e04000, // MVN r4, #0
		0xe0945004, // ADDS r5, r4, r4
	)

	c.step(3)
	test.ExpectEquality(t, c.cpu.Register(0), uint32(5))
	test.ExpectEquality(t, c.cpu.Register(1), uint32(8))
	test.ExpectEquality(t, c.cpu.Register(2), uint32(0))

	// zero and carry set. carry is set because there was no borrow
	test.ExpectEquality(t, c.cpu.CPSR()&0xf0000000, uint32(0x60000000))

	c.step(3)
	test.ExpectEquality(t, c.cpu.Register(3), uint32(20))
	test.ExpectEquality(t, c.cpu.Register(4), uint32(0xffffffff))
	test.ExpectEquality(t, c.cpu.Register(5), uint32(0xfffffffe))

	// negative and carry
	test.ExpectEquality(t, c.cpu.CPSR()&0xf0000000, uint32(0xa0000000))
	test.ExpectEquality(t, c.cpu.PC(), uint32(origin+24))
}

func TestConditionFailed(t *testing.T) {
	c := newCore(architecture.ARMv5TE)
	c.load(origin,
		0xe3b00000, // MOVS r0, #0
		0x13a00001, // MOVNE r0, #1
	)

	c.step(1)
	before := c.cpu.Snapshot()

	r := c.cpu.Step()
	after := c.cpu.Snapshot()

	// only the PC changes and the cost is a single sequential fetch
	test.ExpectEquality(t, r.Cycles, c.fetchCost(origin+4, memory.Width32, true))
	test.ExpectEquality(t, r.Event, arm.NoEvent)
	test.ExpectEquality(t, after.CPSR, before.CPSR)
	test.ExpectEquality(t, after.Registers[0], uint32(0))
	test.ExpectEquality(t, after.Registers[15]-before.Registers[15], uint32(4))
}

func TestBranch(t *testing.T) {
	c := newCore(architecture.ARMv5TE)
	c.load(origin,
		0xeb000002, // BL +16
	)

	r := c.cpu.Step()
	test.ExpectEquality(t, r.Event, arm.Branch)
	test.ExpectEquality(t, c.cpu.PC(), uint32(origin+16))
	test.ExpectEquality(t, c.cpu.Register(14), uint32(origin+4))

	// the first fetch is nonsequential because the PC was set directly. the
	// branch then refills the pipeline at the target
	expected := c.fetchCost(origin, memory.Width32, false) +
		c.fetchCost(origin+16, memory.Width32, false) +
		c.fetchCost(origin+20, memory.Width32, true)
	test.ExpectEquality(t, r.Cycles, expected)
}

func TestInterworking(t *testing.T) {
	c := newCore(architecture.ARMv5TE)
	c.load(origin,
		0xe28f0001, // ADD r0, PC, #1
		0xe12fff10, // BX r0
	)
	c.mem.Poke(origin+8, memory.Width16, 0x212a)  // MOV r1, #42
	c.mem.Poke(origin+10, memory.Width16, 0x4770) // BX LR

	c.step(1)
	test.ExpectEquality(t, c.cpu.Register(0), uint32(origin+9))

	r := c.cpu.Step()
	test.ExpectEquality(t, r.Event, arm.ModeSwitch)
	test.ExpectSuccess(t, c.cpu.Thumb())
	test.ExpectEquality(t, c.cpu.PC(), uint32(origin+8))

	c.step(1)
	test.ExpectEquality(t, c.cpu.Register(1), uint32(42))
	test.ExpectEquality(t, c.cpu.PC(), uint32(origin+10))

	// return to ARM
	c.cpu.SetRegister(14, origin+0x100)
	r = c.cpu.Step()
	test.ExpectEquality(t, r.Event, arm.ModeSwitch)
	test.ExpectFailure(t, c.cpu.Thumb())
	test.ExpectEquality(t, c.cpu.PC(), uint32(origin+0x100))
}

func TestThumbLongBranch(t *testing.T) {
	c := newCore(architecture.ARMv4T)
	c.loadThumb(origin,
		0xf000, // BL (prefix)
		0xf802, // BL +4
	)

	c.step(2)
	test.ExpectEquality(t, c.cpu.PC(), uint32(origin+8))
	test.ExpectEquality(t, c.cpu.Register(14), uint32(origin+4)|1)
	test.ExpectSuccess(t, c.cpu.Thumb())

	// the BLX suffix is undefined on the ARM7
	c.loadThumb(origin, 0xf000, 0xe802)
	r := c.step(2)
	test.ExpectEquality(t, r.Exception, arm.Undefined)
	test.ExpectEquality(t, c.cpu.Mode(), arm.ModeUndefined)

	// and changes instruction set on the ARM9
	c = newCore(architecture.ARMv5TE)
	c.loadThumb(origin, 0xf000, 0xe802)
	r = c.step(2)
	test.ExpectEquality(t, r.Event, arm.ModeSwitch)
	test.ExpectFailure(t, c.cpu.Thumb())
	test.ExpectEquality(t, c.cpu.PC(), uint32(origin+8))
}

func TestSoftwareInterrupt(t *testing.T) {
	c := newCore(architecture.ARMv4T)
	c.mem.Poke(0x08, memory.Width32, 0xe1b0f00e) // MOVS PC, LR
	c.load(origin,
		0xef000000, // SWI 0
	)
	cpsr := c.cpu.CPSR()

	r := c.cpu.Step()
	test.ExpectEquality(t, r.Event, arm.ExceptionEntry)
	test.ExpectEquality(t, r.Exception, arm.SoftwareInterrupt)
	test.ExpectEquality(t, c.cpu.Mode(), arm.ModeSupervisor)
	test.ExpectEquality(t, c.cpu.PC(), uint32(0x08))
	test.ExpectEquality(t, c.cpu.Register(14), uint32(origin+4))
	spsr, ok := c.cpu.SPSR()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, spsr, cpsr)

	// the ARM7 reports cycles in system cycles
	test.ExpectEquality(t, r.Cycles%2, 0)

	r = c.cpu.Step()
	test.ExpectEquality(t, r.Event, arm.ExceptionExit)
	test.ExpectEquality(t, c.cpu.Mode(), arm.ModeSystem)
	test.ExpectEquality(t, c.cpu.PC(), uint32(origin+4))
	test.ExpectEquality(t, c.cpu.CPSR(), cpsr)
}

func TestIRQ(t *testing.T) {
	c := newCore(architecture.ARMv5TE)
	c.load(origin,
		0xe3a00005, // MOV r0, #5
		0xe3a01005, // MOV r1, #5
	)

	c.irq.WriteRegister(irq.IME, 1, 0xffffffff)
	c.irq.Raise(irq.VBlank)

	// not enabled
	r := c.cpu.Step()
	test.ExpectEquality(t, r.Event, arm.NoEvent)
	test.ExpectEquality(t, c.cpu.Register(0), uint32(5))

	c.irq.WriteRegister(irq.IE, 1<<irq.VBlank, 0xffffffff)
	r = c.cpu.Step()
	test.ExpectEquality(t, r.Event, arm.ExceptionEntry)
	test.ExpectEquality(t, r.Exception, arm.IRQ)
	test.ExpectEquality(t, c.cpu.Mode(), arm.ModeIRQ)
	test.ExpectEquality(t, c.cpu.PC(), uint32(0x18))
	test.ExpectEquality(t, c.cpu.Register(14), uint32(origin+8))
	test.ExpectEquality(t, c.cpu.CPSR()&0x80, uint32(0x80))

	// the instruction was not executed
	test.ExpectEquality(t, c.cpu.Register(1), uint32(0))

	// the discarded fetch and the refill of the pipeline at the vector
	expected := c.fetchCost(origin+4, memory.Width32, true) +
		c.fetchCost(0x18, memory.Width32, false) +
		c.fetchCost(0x1c, memory.Width32, true)
	test.ExpectEquality(t, r.Cycles, expected)
}

func TestIRQFromThumb(t *testing.T) {
	c := newCore(architecture.ARMv4T)
	c.loadThumb(origin, 0x2001, 0x2102)

	c.irq.WriteRegister(irq.IME, 1, 0xffffffff)
	c.irq.WriteRegister(irq.IE, 1<<irq.IPCSync, 0xffffffff)

	c.step(1)
	c.irq.Raise(irq.IPCSync)

	r := c.cpu.Step()
	test.ExpectEquality(t, r.Exception, arm.IRQ)
	test.ExpectFailure(t, c.cpu.Thumb())

	// SUBS PC, LR, #4 returns to the next instruction
	test.ExpectEquality(t, c.cpu.Register(14)-4, uint32(origin+2))
	spsr, _ := c.cpu.SPSR()
	test.ExpectEquality(t, spsr&0x20, uint32(0x20))
}

func TestUndefined(t *testing.T) {
	// CLZ is an ARMv5TE instruction
	c := newCore(architecture.ARMv4T)
	c.load(origin, 0xe16f0f11) // CLZ r0, r1
	c.cpu.SetRegister(1, 0x00010000)

	r := c.cpu.Step()
	test.ExpectEquality(t, r.Exception, arm.Undefined)
	test.ExpectEquality(t, c.cpu.PC(), uint32(0x04))
	test.ExpectEquality(t, c.cpu.Register(14), uint32(origin+4))

	c = newCore(architecture.ARMv5TE)
	c.load(origin, 0xe16f0f11)
	c.cpu.SetRegister(1, 0x00010000)
	r = c.cpu.Step()
	test.ExpectEquality(t, r.Exception, arm.NoException)
	test.ExpectEquality(t, c.cpu.Register(0), uint32(15))
}

func TestLoadStore(t *testing.T) {
	for _, arch := range []architecture.Architecture{architecture.ARMv4T, architecture.ARMv5TE} {
		c := newCore(arch)
		c.load(origin,
			0xe5a01004, // STR r1, [r0, #4]!
			0xe4102004, // LDR r2, [r0], #-4
			0xe5903005, // LDR r3, [r0, #5]
			0xe1d040b5, // LDRH r4, [r0, #5]
		)
		c.cpu.SetRegister(0, origin+0x100)
		c.cpu.SetRegister(1, 0x11223344)

		c.step(1)
		test.ExpectEquality(t, c.cpu.Register(0), uint32(origin+0x104), arch)
		v, _ := c.mem.Peek(origin+0x104, memory.Width32)
		test.ExpectEquality(t, v, uint32(0x11223344), arch)

		c.step(1)
		test.ExpectEquality(t, c.cpu.Register(2), uint32(0x11223344), arch)
		test.ExpectEquality(t, c.cpu.Register(0), uint32(origin+0x100), arch)

		// misaligned word loads are rotated on both cores
		c.step(1)
		test.ExpectEquality(t, c.cpu.Register(3), uint32(0x44112233), arch)

		// misaligned halfword loads are only rotated on the ARM7
		c.step(1)
		if arch == architecture.ARMv4T {
			test.ExpectEquality(t, c.cpu.Register(4), uint32(0x44000033), arch)
		} else {
			test.ExpectEquality(t, c.cpu.Register(4), uint32(0x3344), arch)
		}
	}
}

func TestBlockTransfer(t *testing.T) {
	c := newCore(architecture.ARMv5TE)
	c.load(origin,
		0xe92d000f, // STMDB SP!, {r0-r3}
		0xe8bd00f0, // LDMIA SP!, {r4-r7}
	)
	for i := 0; i < 4; i++ {
		c.cpu.SetRegister(i, uint32(i+1)*0x11)
	}
	c.cpu.SetRegister(13, origin+0x1000)

	c.step(1)
	test.ExpectEquality(t, c.cpu.Register(13), uint32(origin+0x1000-16))
	v, _ := c.mem.Peek(origin+0x1000-16, memory.Width32)
	test.ExpectEquality(t, v, uint32(0x11))
	v, _ = c.mem.Peek(origin+0x1000-4, memory.Width32)
	test.ExpectEquality(t, v, uint32(0x44))

	c.step(1)
	test.ExpectEquality(t, c.cpu.Register(13), uint32(origin+0x1000))
	for i := 0; i < 4; i++ {
		test.ExpectEquality(t, c.cpu.Register(i+4), uint32(i+1)*0x11)
	}
}

func TestThumbPushPop(t *testing.T) {
	for _, arch := range []architecture.Architecture{architecture.ARMv4T, architecture.ARMv5TE} {
		c := newCore(arch)
		c.loadThumb(origin,
			0xb501, // PUSH {r0, LR}
			0xbd02, // POP {r1, PC}
		)
		c.cpu.SetRegister(0, 0x1234)
		c.cpu.SetRegister(13, origin+0x1000)
		c.cpu.SetRegister(14, origin+0x200)

		c.step(2)
		test.ExpectEquality(t, c.cpu.Register(1), uint32(0x1234), arch)
		test.ExpectEquality(t, c.cpu.Register(13), uint32(origin+0x1000), arch)
		test.ExpectEquality(t, c.cpu.PC(), uint32(origin+0x200), arch)

		// bit zero of the popped PC is clear. the ARM9 changes to the ARM
		// instruction set but the ARM7 stays in thumb
		test.ExpectEquality(t, c.cpu.Thumb(), arch == architecture.ARMv4T, arch)
	}
}

func TestMultiply(t *testing.T) {
	c := newCore(architecture.ARMv4T)
	c.load(origin,
		0xe0000291, // MUL r0, r1, r2
		0xe0843291, // UMULL r3, r4, r1, r2
	)
	c.cpu.SetRegister(1, 0x10000)
	c.cpu.SetRegister(2, 0x30000)

	c.step(2)
	test.ExpectEquality(t, c.cpu.Register(0), uint32(0))
	test.ExpectEquality(t, c.cpu.Register(3), uint32(0))
	test.ExpectEquality(t, c.cpu.Register(4), uint32(3))
}

func TestSaturatingArithmetic(t *testing.T) {
	c := newCore(architecture.ARMv5TE)
	c.load(origin,
		0xe1020051, // QADD r0, r1, r2
		0xe1630051, // QDSUB r0, r1, r3
	)
	c.cpu.SetRegister(1, 0x7ffffff0)
	c.cpu.SetRegister(2, 0x100)
	c.cpu.SetRegister(3, 0x10)

	c.step(1)
	test.ExpectEquality(t, c.cpu.Register(0), uint32(0x7fffffff))
	test.ExpectEquality(t, c.cpu.CPSR()&0x08000000, uint32(0x08000000))

	c.step(1)
	test.ExpectEquality(t, c.cpu.Register(0), uint32(0x7fffffd0))
}

func TestBanking(t *testing.T) {
	c := newCore(architecture.ARMv5TE)

	c.cpu.SetRegister(13, 0x100)
	c.cpu.SetRegister(8, 0x1)

	c.cpu.SetCPSR(uint32(arm.ModeIRQ))
	test.ExpectEquality(t, c.cpu.Register(13), uint32(0))
	test.ExpectEquality(t, c.cpu.Register(8), uint32(1))
	c.cpu.SetRegister(13, 0x200)

	c.cpu.SetCPSR(uint32(arm.ModeFIQ))
	test.ExpectEquality(t, c.cpu.Register(8), uint32(0))
	c.cpu.SetRegister(8, 0x2)

	c.cpu.SetCPSR(uint32(arm.ModeUser))
	test.ExpectEquality(t, c.cpu.Register(13), uint32(0x100))
	test.ExpectEquality(t, c.cpu.Register(8), uint32(1))

	c.cpu.SetCPSR(uint32(arm.ModeIRQ))
	test.ExpectEquality(t, c.cpu.Register(13), uint32(0x200))
}

func TestHalt(t *testing.T) {
	c := newCore(architecture.ARMv5TE)
	c.load(origin, 0xe3a00005)

	c.cpu.Halt()
	r := c.cpu.Step()
	test.ExpectEquality(t, r.Event, arm.Halted)
	test.ExpectEquality(t, r.Cycles, 0)
	test.ExpectEquality(t, c.cpu.Register(0), uint32(0))

	c.cpu.Wake()
	c.cpu.Step()
	test.ExpectEquality(t, c.cpu.Register(0), uint32(5))
}

func TestDeterminism(t *testing.T) {
	c := newCore(architecture.ARMv4T)
	c.load(origin,
		0xe3a00000, // MOV r0, #0
		0xe2800001, // ADD r0, r0, #1
		0xe350000a, // CMP r0, #10
		0x1afffffc, // BNE -4
		0xeafffffe, // B .
	)

	c.step(5)
	s := c.cpu.Snapshot()

	run := func() ([]int, arm.State) {
		var cycles []int
		for i := 0; i < 30; i++ {
			cycles = append(cycles, c.cpu.Step().Cycles)
		}
		return cycles, c.cpu.Snapshot()
	}

	cyclesA, stateA := run()
	test.ExpectEquality(t, stateA.Registers[0], uint32(10))

	c.cpu.Restore(s)
	cyclesB, stateB := run()

	test.DemandEquality(t, len(cyclesA), len(cyclesB))
	for i := range cyclesA {
		test.ExpectEquality(t, cyclesA[i], cyclesB[i], i)
	}
	test.ExpectEquality(t, stateA, stateB)
}

func TestDisassemble(t *testing.T) {
	e := arm.Disassemble(origin, 0xe2502005, false)
	test.ExpectEquality(t, e.Operator, "SUBS")
	test.ExpectEquality(t, e.Operand, "R2, R0, #0x5")

	e = arm.Disassemble(origin, 0xe92d000f, false)
	test.ExpectEquality(t, e.Operator, "STMDB")
	test.ExpectEquality(t, e.Operand, "SP!, {R0,R1,R2,R3}")

	e = arm.Disassemble(origin, 0x1afffffc, false)
	test.ExpectEquality(t, e.Operator, "BNE")
	test.ExpectEquality(t, e.Operand, "01fffff8")

	e = arm.Disassemble(origin, 0xbd02, true)
	test.ExpectEquality(t, e.Operator, "POP")
	test.ExpectEquality(t, e.Operand, "{R1,PC}")

	e = arm.Disassemble(origin, 0xe1d040b5, false)
	test.ExpectEquality(t, e.Operator, "LDRH")
	test.ExpectEquality(t, e.Operand, "[R0, #5]")
}
