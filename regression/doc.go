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

// Package regression facilitates the regression testing of emulation code.
// By adding test results to a database, the tests can be rerun automatically
// and checked for consistency.
//
// Currently supported regression types are:
//
//	FrameRegression
//	TraceRegression
//
// A FrameRegression runs a cartridge for a number of frames and records a
// digest of the display state (DigestVideo) or of the complete console state
// (DigestState). A TraceRegression records every instruction executed by the
// console to a trace file and compares against it when the test is run. The
// trace file is deleted when the entry is deleted from the database.
//
// Consoles used by regression tests always use the default preferences and
// the minimal BIOS so that results are not affected by the user's
// environment.
package regression
