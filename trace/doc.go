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

// Package trace records the instructions executed by the console and
// compares the execution of the console against a previously recorded trace.
//
// A trace file begins with a header of lines starting with '#'. Each line
// that follows is one instruction:
//
//	<core>, <address>, <opcode>, <cpsr>, <cycles>, <r0 ... r15>
//
// The register values are those after the instruction has executed. Numbers
// are in hexadecimal except for the cycle count.
package trace
