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

// Package hardware is the base package for the NDS emulation. It and its
// sub-packages contain everything required for a headless emulation.
//
// The DS type is the root of the emulation and owns both processors, the
// shared memory, the peripherals and the scheduler. From here, the emulation
// can either be run continuously (with a function to check for continuation)
// or it can be stepped one instruction at a time. Stepping a single core with
// StepCore() keeps the other core and the scheduled events in step.
//
// Each processor is represented by the Processor type, which collects the
// parts of the console that exist once per core: the CPU, the memory map, the
// interrupt controller, the timers and the DMA controller.
package hardware
