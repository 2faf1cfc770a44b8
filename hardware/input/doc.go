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

// Package input implements the keypad registers of both cores.
//
// The state of the buttons is held by the Keypad type, which is shared by
// both cores. Each core sees the keypad through its own Port. The ARM9 sees
// KEYINPUT and its own KEYCNT. The ARM7 additionally sees EXTKEYIN, which
// carries the X and Y buttons, the pen and the hinge.
//
// Changes to the buttons must happen at deterministic points in emulated
// time. Events from other goroutines are pushed onto a queue with
// PushEvent() and drained by the emulation with Drain(), which applies them
// through the scheduler.
package input
