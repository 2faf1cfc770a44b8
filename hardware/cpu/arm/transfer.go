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

package arm

import (
	"math/bits"

	"github.com/jetsetilly/gopherds/hardware/memory"
)

// blockTransfer implements LDM and STM for both instruction sets. the thumb
// PUSH, POP, LDMIA and STMIA instructions are expressed in terms of the
// equivalent ARM instruction.
//
// registers are always transferred lowest register to lowest address. the
// first access is nonsequential and the remaining accesses are sequential.
func (arm *ARM) blockTransfer(rn uint32, list uint32, pre bool, up bool, psr bool, writeback bool, load bool) {
	base := arm.state.registers[rn]
	size := uint32(bits.OnesCount32(list)) * 4

	// an empty list changes the base by 64 bytes. the ARM7 also transfers the
	// PC
	if list == 0 {
		size = 0x40
		if !arm.mmap.HasV5 {
			list = 1 << rPC
		}
	}

	var addr, final uint32
	if up {
		addr = base
		final = base + size
		if pre {
			addr += 4
		}
	} else {
		final = base - size
		addr = final
		if !pre {
			addr += 4
		}
	}

	hasPC := list&(1<<rPC) == (1 << rPC)

	// with the S bit set, an LDM with the PC in the list is an exception
	// return. otherwise the S bit selects the user mode registers
	restore := psr && load && hasPC
	userBank := psr && !restore

	seq := false

	if load {
		var pc uint32
		for i := uint32(0); i < NumRegisters; i++ {
			if list&(1<<i) == 0 {
				continue
			}
			v := arm.read(addr, memory.Width32, seq)
			seq = true
			addr += 4

			switch {
			case i == rPC:
				pc = v
			case userBank:
				arm.setUserRegister(int(i), v)
			default:
				arm.state.registers[i] = v
			}
		}

		if writeback && !userBank {
			if list&(1<<rn) == 0 {
				arm.writeback(rn, final)
			} else if arm.mmap.HasV5 && !arm.state.status.thumb {
				// the ARM9 writes back a base register that is in the list if
				// it is the only register or not the last register
				if list == 1<<rn || list>>(rn+1) != 0 {
					arm.writeback(rn, final)
				}
			}
		}

		arm.iCycle(1)

		if hasPC {
			if restore {
				arm.returnFromException()
				arm.branch(pc)
			} else {
				arm.loadPC(pc)
			}
		}

		return
	}

	for i := uint32(0); i < NumRegisters; i++ {
		if list&(1<<i) == 0 {
			continue
		}

		var v uint32
		switch {
		case i == rn && writeback && !arm.mmap.STMStoresOldBase && list&((1<<i)-1) != 0:
			// the ARM7 stores the written back value if the base register is
			// not the first register in the list
			v = final
		case i == rPC:
			v = arm.state.registers[rPC] + arm.width()
		case userBank:
			v = arm.userRegister(int(i))
		default:
			v = arm.state.registers[i]
		}

		arm.write(addr, memory.Width32, seq, v)
		seq = true
		addr += 4
	}

	if writeback {
		arm.writeback(rn, final)
	}
}
