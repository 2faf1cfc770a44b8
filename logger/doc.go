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

// Package logger is the central log for GopherDS. Entries are made up of a
// tag and a detail. Consecutive entries with the same tag and detail are
// collapsed into a single entry with a repeat count.
//
// Logging requests must be accompanied by a Permission. Emulation code that
// might be running on behalf of the debugger (eg. a single step or a
// breakpoint probe) can refuse permission so that the log isn't flooded with
// duplicate reports.
package logger
