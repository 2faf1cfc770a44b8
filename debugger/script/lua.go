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

package script

import (
	"context"
	"strings"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware"
	"github.com/jetsetilly/gopherds/hardware/memory"
	lua "github.com/yuin/gopher-lua"
)

// LuaError is the pattern of errors returned by the Lua type.
const LuaError = "lua: %v"

// Lua is a Lua interpreter with functions bound to the debug surface of the
// console.
type Lua struct {
	state *lua.LState
	ds    *hardware.DS
	ctx   context.Context

	// runs a command in the debugger. can be nil
	command func(string) error
}

// NewLua is the preferred method of initialisation for the Lua type. The
// context is used to stop long running programs.
func NewLua(ctx context.Context, ds *hardware.DS, command func(string) error) *Lua {
	l := &Lua{
		state:   lua.NewState(),
		ds:      ds,
		ctx:     ctx,
		command: command,
	}
	l.state.SetContext(ctx)

	fns := map[string]lua.LGFunction{
		"peek":       l.peek,
		"poke":       l.poke,
		"reg":        l.reg,
		"setreg":     l.setreg,
		"step":       l.step,
		"breakpoint": l.breakpoint,
		"run":        l.run,
		"frame":      l.frame,
		"cycles":     l.cycles,
		"command":    l.cmd,
	}
	for name, fn := range fns {
		l.state.SetGlobal(name, l.state.NewFunction(fn))
	}

	return l
}

// Close the interpreter. The Lua instance can not be used after this.
func (l *Lua) Close() {
	l.state.Close()
}

// DoFile runs the Lua program in the named file.
func (l *Lua) DoFile(filename string) error {
	if err := l.state.DoFile(filename); err != nil {
		return curated.Errorf(LuaError, err)
	}
	return nil
}

// DoString runs the Lua program in the string.
func (l *Lua) DoString(program string) error {
	if err := l.state.DoString(program); err != nil {
		return curated.Errorf(LuaError, err)
	}
	return nil
}

// Global returns the value of a global variable as a string.
func (l *Lua) Global(name string) string {
	return l.state.GetGlobal(name).String()
}

func (l *Lua) checkCore(L *lua.LState, n int) memory.Core {
	switch strings.ToUpper(L.CheckString(n)) {
	case "ARM9":
		return memory.ARM9
	case "ARM7":
		return memory.ARM7
	}
	L.ArgError(n, "core must be ARM9 or ARM7")
	return 0
}

func (l *Lua) optWidth(L *lua.LState, n int) memory.Width {
	switch L.OptInt(n, 32) {
	case 8:
		return memory.Width8
	case 16:
		return memory.Width16
	case 32:
		return memory.Width32
	}
	L.ArgError(n, "width must be 8, 16 or 32")
	return 0
}

func (l *Lua) checkRegister(L *lua.LState, n int) int {
	r := L.CheckInt(n)
	if r < 0 || r > 15 {
		L.ArgError(n, "register must be between 0 and 15")
	}
	return r
}

func (l *Lua) peek(L *lua.LState) int {
	core := l.checkCore(L, 1)
	addr := uint32(L.CheckInt64(2))
	width := l.optWidth(L, 3)
	v, ok := l.ds.Peek(core, addr, width)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (l *Lua) poke(L *lua.LState) int {
	core := l.checkCore(L, 1)
	addr := uint32(L.CheckInt64(2))
	value := uint32(L.CheckInt64(3))
	width := l.optWidth(L, 4)
	L.Push(lua.LBool(l.ds.Poke(core, addr, width, value)))
	return 1
}

func (l *Lua) reg(L *lua.LState) int {
	core := l.checkCore(L, 1)
	n := l.checkRegister(L, 2)
	L.Push(lua.LNumber(l.ds.Registers(core).R[n]))
	return 1
}

func (l *Lua) setreg(L *lua.LState) int {
	core := l.checkCore(L, 1)
	n := l.checkRegister(L, 2)
	l.ds.SetRegister(core, n, uint32(L.CheckInt64(3)))
	return 0
}

func (l *Lua) step(L *lua.LState) int {
	core := l.checkCore(L, 1)
	if _, ok := l.ds.StepCore(core); !ok {
		L.Push(lua.LNil)
		return 1
	}
	addr, opcode := l.ds.Processor(core).CPU.LastExecuted()
	L.Push(lua.LNumber(addr))
	L.Push(lua.LNumber(opcode))
	return 2
}

func (l *Lua) breakpoint(L *lua.LState) int {
	core := l.checkCore(L, 1)
	l.ds.SetBreakpoint(core, uint32(L.CheckInt64(2)))
	return 0
}

func (l *Lua) run(L *lua.LState) int {
	frames := L.OptInt(1, 1)
	if err := l.ds.RunForFrameCount(l.ctx, frames); err != nil {
		L.Push(lua.LString(err.Error()))
		return 1
	}
	L.Push(lua.LNil)
	return 1
}

func (l *Lua) frame(L *lua.LState) int {
	L.Push(lua.LNumber(l.ds.LCD.Frame()))
	return 1
}

func (l *Lua) cycles(L *lua.LState) int {
	L.Push(lua.LNumber(l.ds.Sched.Now()))
	return 1
}

func (l *Lua) cmd(L *lua.LState) int {
	s := L.CheckString(1)
	if l.command == nil {
		L.Push(lua.LString("no debugger"))
		return 1
	}
	if err := l.command(s); err != nil {
		L.Push(lua.LString(err.Error()))
		return 1
	}
	L.Push(lua.LNil)
	return 1
}
