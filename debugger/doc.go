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

// Package debugger implements a command line monitor for the emulated
// console. It works with any implementation of the terminal.Terminal
// interface. The colorterm and plainterm packages provide implementations for
// interactive and non-interactive use.
//
// Commands operate on the focused core, which is ARM9 to begin with and can
// be changed with the CORE command. Execution commands (RUN, FRAME, CYCLES)
// can be interrupted with CTRL-C. Breakpoints stop execution before the
// instruction at the breakpoint address is executed.
//
// Debugger scripts can be recorded with SCRIBE and replayed with SCRIPT. Lua
// programs can be run against the console with the LUA command. See the
// script package for the available functions.
//
// Use HELP for the list of commands.
package debugger
