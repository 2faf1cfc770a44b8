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

// Package rewind keeps a history of console states so that the emulation
// can be returned to an earlier frame.
//
// A snapshot is taken at the start of VBlank every few frames. Returning to a
// frame between snapshots restores the nearest earlier snapshot and runs the
// emulation forward to the requested frame. Because the emulation is
// deterministic the result is the same as the original run.
//
// Snapshots are large (the shared memory of the console is included in every
// one) so the number of entries and the snapshot frequency can be changed
// with the Preferences type.
package rewind
