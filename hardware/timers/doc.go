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

// Package timers implements the four 16bit timers of a single core.
//
// Timers are not ticked on every cycle. Instead the timers are brought up to
// date with CatchUp() at every instruction boundary and before every access
// to a timer register. Tick() advances the timers by an arbitrary number of
// system cycles in one go, calculating how many times each timer overflows.
//
// A timer in count-up mode ignores its prescaler and is incremented exactly
// once for every overflow of the timer below it. Overflows are passed up the
// chain in the same call to Tick() so the number of increments is always
// correct, even when the lower timer overflows many times.
package timers
