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

// Package dma implements the four DMA channels of a single core.
//
// A channel is armed by setting the enable bit of its control register. What
// happens next depends on the start timing. Immediate transfers run to
// completion inside the register write, before the next instruction of the
// writing core. Other timings wait for a call to Trigger() from the
// peripheral concerned.
//
// Every unit of a transfer goes through the core's memory map with the
// DMARead and DMAWrite access kinds, so a transfer to or from the I/O region
// has the same effect as a CPU access. The cycles consumed are reported with
// the Stall function.
//
// Channels can also be linked to a timer with LinkTimer(). The DS register
// encoding has no timer start timing so this is only available through the
// package API.
package dma
