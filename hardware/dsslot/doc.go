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

// Package dsslot implements the DS cartridge slot and the ROM device in a
// cartridge.
//
// The ROM device responds to eight byte commands. After reset it is in the
// initial stage and commands are sent in the clear. The 0x3C command moves
// the device to the KEY1 stage, in which commands are encrypted with a
// Blowfish variant keyed from the game code and a table in the ARM7 BIOS.
// The 0xA command in the KEY1 stage moves the device to the KEY2 stage, the
// stage in which the game runs.
//
// The Slot type implements the registers through which the cores talk to the
// device. Only one core at a time has access, selected by bit 11 of EXMEMCNT.
// Data words become ready at intervals determined by the transfer clock rate.
// The interval is measured with scheduler events and each ready word triggers
// DS slot DMA in the core with access.
//
// Backup memory on the cartridge is not emulated. The SPI registers are
// stored but transfers return 0xff.
package dsslot
