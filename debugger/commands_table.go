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

package debugger

import (
	"github.com/jetsetilly/gopherds/debugger/terminal/commandline"
)

// List of command keywords.
const (
	cmdHelp    = "HELP"
	cmdQuit    = "QUIT"
	cmdReset   = "RESET"
	cmdCore    = "CORE"
	cmdStep    = "STEP"
	cmdRun     = "RUN"
	cmdFrame   = "FRAME"
	cmdCycles  = "CYCLES"
	cmdRewind  = "REWIND"
	cmdRegs    = "REGS"
	cmdSetReg  = "SETREG"
	cmdPeek    = "PEEK"
	cmdPoke    = "POKE"
	cmdBreak   = "BREAK"
	cmdClear   = "CLEAR"
	cmdBreaks  = "BREAKS"
	cmdDisasm  = "DISASM"
	cmdPress   = "PRESS"
	cmdRelease = "RELEASE"
	cmdFaults  = "FAULTS"
	cmdLog     = "LOG"
	cmdDump    = "DUMP"
	cmdScript  = "SCRIPT"
	cmdScribe  = "SCRIBE"
	cmdLua     = "LUA"
	cmdSave    = "SAVE"
	cmdLoad    = "LOAD"
)

var keyNames = []string{
	"A", "B", "SELECT", "START", "RIGHT", "LEFT", "UP", "DOWN",
	"R", "L", "X", "Y", "DEBUG", "PEN", "HINGE",
}

var commandTable = []commandline.Command{
	{
		Keyword: cmdHelp, Usage: "[command]", MaxArgs: 1,
		Help: "Lists commands or shows the help for a command.",
	},
	{
		Keyword: cmdQuit,
		Help:    "Ends the debugging session.",
	},
	{
		Keyword: cmdReset,
		Help:    "Resets the console. The cartridge is booted directly if the preferences allow.",
	},
	{
		Keyword: cmdCore, Options: []string{"ARM9", "ARM7"}, MaxArgs: 1,
		Help: "Changes the core that commands operate on. Without an argument the focused core is shown.",
	},
	{
		Keyword: cmdStep, Usage: "[count]", MaxArgs: 1,
		Help: "Executes the next instruction of the focused core. The other core and any due events run as normal.",
	},
	{
		Keyword: cmdRun,
		Help:    "Runs the emulation until a breakpoint is reached or CTRL-C is pressed.",
	},
	{
		Keyword: cmdFrame, Usage: "[count]", MaxArgs: 1,
		Help: "Runs the emulation for the number of frames.",
	},
	{
		Keyword: cmdCycles, Usage: "count", MinArgs: 1, MaxArgs: 1,
		Help: "Runs the emulation for the number of system cycles.",
	},
	{
		Keyword: cmdRewind, Usage: "[frame|LAST]", MaxArgs: 1,
		Help: "Returns the console to the start of VBlank in an earlier frame. The history is added to by RUN, FRAME and CYCLES. Without an argument the available frames are shown.",
	},
	{
		Keyword: cmdRegs,
		Help:    "Shows the registers of the focused core. R15 is the address of the next instruction.",
	},
	{
		Keyword: cmdSetReg, Usage: "register value", MinArgs: 2, MaxArgs: 2,
		Help: "Changes a register of the focused core in the current mode.",
	},
	{
		Keyword: cmdPeek, Usage: "address [8|16|32]", MinArgs: 1, MaxArgs: 2,
		Help: "Reads memory as seen by the focused core without side effects. Addresses are hexadecimal.",
	},
	{
		Keyword: cmdPoke, Usage: "address value [8|16|32]", MinArgs: 2, MaxArgs: 3,
		Help: "Writes memory as seen by the focused core. Write permissions are ignored and I/O registers can not be poked.",
	},
	{
		Keyword: cmdBreak, Usage: "address", MinArgs: 1, MaxArgs: 1,
		Help: "Adds a breakpoint for the focused core.",
	},
	{
		Keyword: cmdClear, Usage: "address", MinArgs: 1, MaxArgs: 1,
		Help: "Removes a breakpoint from the focused core.",
	},
	{
		Keyword: cmdBreaks,
		Help:    "Lists the breakpoints of the focused core.",
	},
	{
		Keyword: cmdDisasm, Usage: "[address] [count]", MaxArgs: 2,
		Help: "Disassembles instructions using the current instruction set of the focused core.",
	},
	{
		Keyword: cmdPress, Options: keyNames, MinArgs: 1, MaxArgs: 1,
		Help: "Presses a key. Input changes are applied at the start of the next VBlank.",
	},
	{
		Keyword: cmdRelease, Options: keyNames, MinArgs: 1, MaxArgs: 1,
		Help: "Releases a key. Input changes are applied at the start of the next VBlank.",
	},
	{
		Keyword: cmdFaults, Options: []string{"CLEAR"}, MaxArgs: 1,
		Help: "Lists the memory faults of the focused core.",
	},
	{
		Keyword: cmdLog, Usage: "[count]", MaxArgs: 1,
		Help: "Shows the most recent log entries.",
	},
	{
		Keyword: cmdDump, Usage: "filename", MinArgs: 1, MaxArgs: 1,
		Help: "Writes a graphviz dot file of the state of the focused core.",
	},
	{
		Keyword: cmdScript, Usage: "filename", MinArgs: 1, MaxArgs: 1,
		Help: "Runs the commands in a script file.",
	},
	{
		Keyword: cmdScribe, Usage: "[filename]", MaxArgs: 1,
		Help: "Records commands to a new script file. Without a filename the recording is ended.",
	},
	{
		Keyword: cmdLua, Usage: "filename", MinArgs: 1, MaxArgs: 1,
		Help: "Runs a Lua program. The program can be interrupted with CTRL-C.",
	},
	{
		Keyword: cmdSave, Usage: "filename", MinArgs: 1, MaxArgs: 1,
		Help: "Saves the state of the console.",
	},
	{
		Keyword: cmdLoad, Usage: "filename", MinArgs: 1, MaxArgs: 1,
		Help: "Loads the state of the console. The current state is unchanged if the load fails.",
	},
}
