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

// Package modalflag handles command lines that are divided into modes. Each
// mode has its own set of flags. For example:
//
//	gopherds -log TRACE -count 1000 -bios7 arm7.bin game.nds
//
// The first layer of flags belongs to the program. The TRACE argument selects
// the sub-mode and the flags that follow belong to that mode. The first
// sub-mode given to AddSubModes() is the default sub-mode and is selected if
// the next argument is not a recognised mode.
//
// Parse() should be called once per layer of flags. Between calls, NewMode()
// clears the flags and sub-modes for the next layer:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "TRACE")
//	log := md.AddBool("log", false, "echo log to stdout")
//	switch p, err := md.Parse(); p {
//	case modalflag.ParseHelp:
//		return
//	case modalflag.ParseError:
//		return err
//	}
//
//	switch md.Mode() {
//	case "TRACE":
//		md.NewMode()
//		count := md.AddInt("count", 1000, "number of instructions")
//		...
//	}
package modalflag
