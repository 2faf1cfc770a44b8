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

// Package scheduler advances the two cores and the scheduled events in strict
// order of time. Time is counted in system cycles.
//
// Each iteration of the scheduler has three phases. The select phase chooses
// the actor with the least consumed time: the ARM9, the ARM7 or an event that
// has reached its deadline. Events fire before a core whose time is at or
// beyond the event's deadline. The ARM9 runs before the ARM7 if both have
// consumed the same number of cycles. Halted cores are not selected.
//
// The advance phase runs one unit of work: a single instruction of a core or
// the handler of an event.
//
// The settle phase makes newly scheduled events visible and calls the
// OnSettle() function, which is where the timers are brought up to date and
// where halted cores are woken.
//
// Events can be cancelled by ID before they fire.
package scheduler
