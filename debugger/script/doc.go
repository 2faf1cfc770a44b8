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

// Package script allows the debugger to record and replay debugging scripts.
// In this package we refer to this as scribing and rescribing.
//
// Scripts can of course be handwritten and be rescribed as though they had
// been scribed by the debugger. Invalid commands are not written to the script
// file by the Scribe type but a handwritten script may contain them. On
// Rescribing, invalid commands will be replayed and the appropriate error
// message printed to the terminal. Comment lines begin with the # symbol.
//
// The Rescribe type satisfies the terminal.Input interface and is used as a
// source for the debugger's input loop.
//
// The Lua type runs Lua programs against the debug surface of the console.
// The following functions are available to a Lua program. The core argument
// is either "ARM9" or "ARM7" and width is one of 8, 16 or 32 (the default):
//
//	peek(core, address [, width])         value or nil if unmapped
//	poke(core, address, value [, width])  true if the poke succeeded
//	reg(core, n)                          value of register n
//	setreg(core, n, value)
//	step(core)                            address and opcode of the executed
//	                                      instruction, or nil if the core is halted
//	breakpoint(core, address)
//	run(frames)                           nil or an error message
//	frame()                               number of the current frame
//	cycles()                              current system cycle
//	command(string)                       runs a debugger command. nil or an
//	                                      error message
package script
