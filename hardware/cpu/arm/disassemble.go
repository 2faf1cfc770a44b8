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
	"fmt"
	"math/bits"
	"strings"
)

// DisasmEntry is the disassembly of a single instruction.
type DisasmEntry struct {
	Address  uint32
	Opcode   uint32
	Thumb    bool
	Operator string
	Operand  string
}

func (e DisasmEntry) String() string {
	if e.Thumb {
		return fmt.Sprintf("%08x %04x     %-6s %s", e.Address, e.Opcode, e.Operator, e.Operand)
	}
	return fmt.Sprintf("%08x %08x %-6s %s", e.Address, e.Opcode, e.Operator, e.Operand)
}

// Disassemble an instruction. The address is used to calculate branch
// targets.
func Disassemble(addr uint32, opcode uint32, thumb bool) DisasmEntry {
	e := DisasmEntry{
		Address: addr,
		Opcode:  opcode,
		Thumb:   thumb,
	}
	if thumb {
		e.Operator, e.Operand = disasmThumb(addr, uint16(opcode))
	} else {
		e.Operator, e.Operand = disasmARM(addr, opcode)
	}
	return e
}

var dataProcessingMnemonic = [16]string{
	"AND", "EOR", "SUB", "RSB", "ADD", "ADC", "SBC", "RSC",
	"TST", "TEQ", "CMP", "CMN", "ORR", "MOV", "BIC", "MVN",
}

var shiftMnemonic = [4]string{"LSL", "LSR", "ASR", "ROR"}

func reg(n uint32) string {
	return RegisterName(int(n))
}

// regList formats a register list for the block transfer instructions.
func regList(list uint32) string {
	var s []string
	for i := uint32(0); i < NumRegisters; i++ {
		if list&(1<<i) != 0 {
			s = append(s, reg(i))
		}
	}
	return "{" + strings.Join(s, ",") + "}"
}

// the shifted register operand of data processing and single transfer
// instructions.
func disasmShift(opcode uint32) string {
	rm := reg(opcode & 0x0f)
	typ := (opcode >> 5) & 0x03

	if opcode&0x10 == 0x10 {
		return fmt.Sprintf("%s, %s %s", rm, shiftMnemonic[typ], reg((opcode>>8)&0x0f))
	}

	amount := (opcode >> 7) & 0x1f
	switch {
	case amount == 0 && typ == shiftLSL:
		return rm
	case amount == 0 && typ == shiftROR:
		return rm + ", RRX"
	case amount == 0:
		amount = 32
	}
	return fmt.Sprintf("%s, %s #%d", rm, shiftMnemonic[typ], amount)
}

func disasmARM(addr uint32, opcode uint32) (string, string) {
	cond := conditionMnemonic[opcode>>28]

	if opcode>>28 == 0b1111 {
		switch {
		case opcode&0x0e000000 == 0x0a000000:
			offset := uint32(int32(opcode<<8)>>6) + (opcode>>23)&0x02
			return "BLX", fmt.Sprintf("%08x", addr+8+offset)
		case opcode&0x0d70f000 == 0x0550f000:
			return "PLD", fmt.Sprintf("[%s]", reg((opcode>>16)&0x0f))
		}
		return "UND", ""
	}

	rn := (opcode >> 16) & 0x0f
	rd := (opcode >> 12) & 0x0f
	rs := (opcode >> 8) & 0x0f
	rm := opcode & 0x0f
	hi := (opcode >> 20) & 0xff
	lo := (opcode >> 4) & 0x0f

	switch opcode >> 25 & 0x07 {
	case 0b000, 0b001:
		immediate := opcode&0x02000000 == 0x02000000

		if !immediate && lo == 0b1001 {
			switch {
			case hi&0xfc == 0x00:
				s := ""
				if hi&0x01 == 0x01 {
					s = "S"
				}
				if hi&0x02 == 0x02 {
					return "MLA" + cond + s, fmt.Sprintf("%s, %s, %s, %s", reg(rn), reg(rm), reg(rs), reg(rd))
				}
				return "MUL" + cond + s, fmt.Sprintf("%s, %s, %s", reg(rn), reg(rm), reg(rs))
			case hi&0xf8 == 0x08:
				op := [4]string{"UMULL", "UMLAL", "SMULL", "SMLAL"}[(hi>>1)&0x03]
				return op + cond, fmt.Sprintf("%s, %s, %s, %s", reg(rd), reg(rn), reg(rm), reg(rs))
			case hi&0xfb == 0x10:
				op := "SWP"
				if hi&0x04 == 0x04 {
					op = "SWPB"
				}
				return op + cond, fmt.Sprintf("%s, %s, [%s]", reg(rd), reg(rm), reg(rn))
			}
			return "UND", ""
		}

		if !immediate && lo&0b1001 == 0b1001 {
			op := [4]string{"", "H", "SB", "SH"}[(lo>>1)&0x03]
			if hi&0x01 == 0x01 {
				op = "LDR" + cond + op
			} else if op == "H" {
				op = "STR" + cond + op
			} else if op == "SB" {
				op = "LDR" + cond + "D"
			} else {
				op = "STR" + cond + "D"
			}
			var offset string
			if hi&0x04 == 0x04 {
				offset = fmt.Sprintf("#%d", (opcode>>4)&0xf0|opcode&0x0f)
			} else {
				offset = reg(rm)
			}
			return op, disasmAddress(opcode, rn, offset)
		}

		if !immediate && hi&0xf9 == 0x10 {
			switch lo {
			case 0x0:
				psr := "CPSR"
				if hi&0x04 == 0x04 {
					psr = "SPSR"
				}
				if hi&0x02 == 0x02 {
					return "MSR" + cond, fmt.Sprintf("%s_%s, %s", psr, disasmFields(opcode), reg(rm))
				}
				return "MRS" + cond, fmt.Sprintf("%s, %s", reg(rd), psr)
			case 0x1:
				if hi == 0x12 {
					return "BX" + cond, reg(rm)
				}
				if hi == 0x16 {
					return "CLZ" + cond, fmt.Sprintf("%s, %s", reg(rd), reg(rm))
				}
			case 0x3:
				if hi == 0x12 {
					return "BLX" + cond, reg(rm)
				}
			case 0x5:
				op := [4]string{"QADD", "QSUB", "QDADD", "QDSUB"}[(hi>>1)&0x03]
				return op + cond, fmt.Sprintf("%s, %s, %s", reg(rd), reg(rm), reg(rn))
			case 0x7:
				if hi == 0x12 {
					return "BKPT", fmt.Sprintf("#%d", (opcode>>4)&0xfff0|opcode&0x0f)
				}
			case 0x8, 0xa, 0xc, 0xe:
				xy := [2]string{"B", "T"}[(lo>>1)&0x01] + [2]string{"B", "T"}[(lo>>2)&0x01]
				switch (hi >> 1) & 0x03 {
				case 0b00:
					return "SMLA" + xy + cond, fmt.Sprintf("%s, %s, %s, %s", reg(rn), reg(rm), reg(rs), reg(rd))
				case 0b01:
					y := [2]string{"B", "T"}[(lo>>2)&0x01]
					if lo&0x02 == 0x02 {
						return "SMULW" + y + cond, fmt.Sprintf("%s, %s, %s", reg(rn), reg(rm), reg(rs))
					}
					return "SMLAW" + y + cond, fmt.Sprintf("%s, %s, %s, %s", reg(rn), reg(rm), reg(rs), reg(rd))
				case 0b10:
					return "SMLAL" + xy + cond, fmt.Sprintf("%s, %s, %s, %s", reg(rd), reg(rn), reg(rm), reg(rs))
				case 0b11:
					return "SMUL" + xy + cond, fmt.Sprintf("%s, %s, %s", reg(rn), reg(rm), reg(rs))
				}
			}
			return "UND", ""
		}

		if immediate && hi&0xfb == 0x32 {
			psr := "CPSR"
			if hi&0x04 == 0x04 {
				psr = "SPSR"
			}
			v := bits.RotateLeft32(opcode&0xff, -int((opcode>>7)&0x1e))
			return "MSR" + cond, fmt.Sprintf("%s_%s, #%#x", psr, disasmFields(opcode), v)
		}
		if immediate && hi&0xfb == 0x30 {
			return "UND", ""
		}

		op := (opcode >> 21) & 0x0f
		mnemonic := dataProcessingMnemonic[op] + cond
		if opcode&0x00100000 == 0x00100000 && (op < 0b1000 || op > 0b1011) {
			mnemonic += "S"
		}

		var op2 string
		if immediate {
			op2 = fmt.Sprintf("#%#x", bits.RotateLeft32(opcode&0xff, -int((opcode>>7)&0x1e)))
		} else {
			op2 = disasmShift(opcode)
		}

		switch op {
		case 0b1101, 0b1111:
			return mnemonic, fmt.Sprintf("%s, %s", reg(rd), op2)
		case 0b1000, 0b1001, 0b1010, 0b1011:
			return mnemonic, fmt.Sprintf("%s, %s", reg(rn), op2)
		}
		return mnemonic, fmt.Sprintf("%s, %s, %s", reg(rd), reg(rn), op2)

	case 0b010, 0b011:
		if opcode&0x02000000 == 0x02000000 && lo&0x01 == 0x01 {
			return "UND", ""
		}
		op := "STR"
		if hi&0x01 == 0x01 {
			op = "LDR"
		}
		op += cond
		if hi&0x04 == 0x04 {
			op += "B"
		}
		var offset string
		if opcode&0x02000000 == 0x02000000 {
			offset = disasmShift(opcode)
		} else {
			offset = fmt.Sprintf("#%d", opcode&0xfff)
		}
		return op, disasmAddress(opcode, rn, offset)

	case 0b100:
		op := "STM"
		if hi&0x01 == 0x01 {
			op = "LDM"
		}
		op += cond + [4]string{"DA", "IA", "DB", "IB"}[(hi>>3)&0x03]
		base := reg(rn)
		if hi&0x02 == 0x02 {
			base += "!"
		}
		list := regList(opcode & 0xffff)
		if hi&0x04 == 0x04 {
			list += "^"
		}
		return op, fmt.Sprintf("%s, %s", base, list)

	case 0b101:
		op := "B"
		if opcode&0x01000000 == 0x01000000 {
			op = "BL"
		}
		offset := uint32(int32(opcode<<8) >> 6)
		return op + cond, fmt.Sprintf("%08x", addr+8+offset)

	case 0b111:
		if hi&0x10 == 0x10 {
			return "SWI" + cond, fmt.Sprintf("#%#x", opcode&0x00ffffff)
		}
		if lo&0x01 == 0x01 {
			op := "MCR"
			if hi&0x01 == 0x01 {
				op = "MRC"
			}
			return op + cond, fmt.Sprintf("p%d, %d, %s, c%d, c%d, %d",
				(opcode>>8)&0x0f, (opcode>>21)&0x07, reg(rd), rn, rm, (opcode>>5)&0x07)
		}
	}

	return "UND", ""
}

// the field mask of the MSR instruction.
func disasmFields(opcode uint32) string {
	s := strings.Builder{}
	for i, f := range "cxsf" {
		if opcode&(0x00010000<<i) != 0 {
			s.WriteRune(f)
		}
	}
	return s.String()
}

// the addressing mode of the single and halfword transfer instructions.
func disasmAddress(opcode uint32, rn uint32, offset string) string {
	pre := opcode&0x01000000 == 0x01000000
	up := opcode&0x00800000 == 0x00800000
	writeback := opcode&0x00200000 == 0x00200000

	if !up {
		if strings.HasPrefix(offset, "#") {
			offset = "#-" + offset[1:]
		} else {
			offset = "-" + offset
		}
	}

	if !pre {
		return fmt.Sprintf("[%s], %s", reg(rn), offset)
	}
	if writeback {
		return fmt.Sprintf("[%s, %s]!", reg(rn), offset)
	}
	return fmt.Sprintf("[%s, %s]", reg(rn), offset)
}

func disasmThumb(addr uint32, opcode uint16) (string, string) {
	lo3 := func(shift uint16) string {
		return reg(uint32((opcode >> shift) & 0x07))
	}
	imm8 := uint32(opcode & 0xff)

	switch {
	case opcode&0xf800 == 0xe800:
		return "BLX", fmt.Sprintf("LR+%#x", uint32(opcode&0x07ff)<<1)
	case opcode&0xf800 == 0xf000:
		return "BL", fmt.Sprintf("(prefix %#x)", uint32(int32(uint32(opcode)<<21)>>9))
	case opcode&0xf800 == 0xf800:
		return "BL", fmt.Sprintf("LR+%#x", uint32(opcode&0x07ff)<<1)
	case opcode&0xf000 == 0xe000:
		return "B", fmt.Sprintf("%08x", addr+4+uint32(int32(uint32(opcode)<<21)>>20))
	case opcode&0xff00 == 0xdf00:
		return "SWI", fmt.Sprintf("#%#x", imm8)
	case opcode&0xff00 == 0xde00:
		return "UND", ""
	case opcode&0xf000 == 0xd000:
		offset := uint32(int32(int8(imm8))) << 1
		return "B" + conditionMnemonic[(opcode>>8)&0x0f], fmt.Sprintf("%08x", addr+4+offset)
	case opcode&0xf000 == 0xc000:
		op := "STMIA"
		if opcode&0x0800 == 0x0800 {
			op = "LDMIA"
		}
		return op, fmt.Sprintf("%s!, %s", lo3(8), regList(imm8))
	case opcode&0xff00 == 0xbe00:
		return "BKPT", fmt.Sprintf("#%d", imm8)
	case opcode&0xf600 == 0xb400:
		list := imm8
		if opcode&0x0800 == 0x0800 {
			if opcode&0x0100 == 0x0100 {
				list |= 1 << rPC
			}
			return "POP", regList(list)
		}
		if opcode&0x0100 == 0x0100 {
			list |= 1 << rLR
		}
		return "PUSH", regList(list)
	case opcode&0xff00 == 0xb000:
		if opcode&0x80 == 0x80 {
			return "SUB", fmt.Sprintf("SP, #%d", uint32(opcode&0x7f)<<2)
		}
		return "ADD", fmt.Sprintf("SP, #%d", uint32(opcode&0x7f)<<2)
	case opcode&0xf000 == 0xb000:
		return "UND", ""
	case opcode&0xf000 == 0xa000:
		src := "PC"
		if opcode&0x0800 == 0x0800 {
			src = "SP"
		}
		return "ADD", fmt.Sprintf("%s, %s, #%d", lo3(8), src, imm8<<2)
	case opcode&0xf000 == 0x9000:
		op := "STR"
		if opcode&0x0800 == 0x0800 {
			op = "LDR"
		}
		return op, fmt.Sprintf("%s, [SP, #%d]", lo3(8), imm8<<2)
	case opcode&0xf000 == 0x8000:
		op := "STRH"
		if opcode&0x0800 == 0x0800 {
			op = "LDRH"
		}
		return op, fmt.Sprintf("%s, [%s, #%d]", lo3(0), lo3(3), ((opcode>>6)&0x1f)<<1)
	case opcode&0xe000 == 0x6000:
		op := [4]string{"STR", "LDR", "STRB", "LDRB"}[(opcode>>11)&0x03]
		offset := uint32((opcode >> 6) & 0x1f)
		if opcode&0x1000 == 0 {
			offset <<= 2
		}
		return op, fmt.Sprintf("%s, [%s, #%d]", lo3(0), lo3(3), offset)
	case opcode&0xf200 == 0x5200:
		op := [4]string{"STRH", "LDSB", "LDRH", "LDSH"}[(opcode>>10)&0x03]
		return op, fmt.Sprintf("%s, [%s, %s]", lo3(0), lo3(3), lo3(6))
	case opcode&0xf200 == 0x5000:
		op := [4]string{"STR", "STRB", "LDR", "LDRB"}[(opcode>>10)&0x03]
		return op, fmt.Sprintf("%s, [%s, %s]", lo3(0), lo3(3), lo3(6))
	case opcode&0xf800 == 0x4800:
		return "LDR", fmt.Sprintf("%s, [PC, #%d]", lo3(8), imm8<<2)
	case opcode&0xfc00 == 0x4400:
		rd := uint32(opcode&0x07) | uint32(opcode&0x80)>>4
		rs := uint32(opcode>>3) & 0x0f
		switch (opcode >> 8) & 0x03 {
		case 0b00:
			return "ADD", fmt.Sprintf("%s, %s", reg(rd), reg(rs))
		case 0b01:
			return "CMP", fmt.Sprintf("%s, %s", reg(rd), reg(rs))
		case 0b10:
			return "MOV", fmt.Sprintf("%s, %s", reg(rd), reg(rs))
		}
		if opcode&0x80 == 0x80 {
			return "BLX", reg(rs)
		}
		return "BX", reg(rs)
	case opcode&0xfc00 == 0x4000:
		op := [16]string{
			"AND", "EOR", "LSL", "LSR", "ASR", "ADC", "SBC", "ROR",
			"TST", "NEG", "CMP", "CMN", "ORR", "MUL", "BIC", "MVN",
		}[(opcode>>6)&0x0f]
		return op, fmt.Sprintf("%s, %s", lo3(0), lo3(3))
	case opcode&0xe000 == 0x2000:
		op := [4]string{"MOV", "CMP", "ADD", "SUB"}[(opcode>>11)&0x03]
		return op, fmt.Sprintf("%s, #%d", lo3(8), imm8)
	case opcode&0xf800 == 0x1800:
		op := "ADD"
		if opcode&0x0200 == 0x0200 {
			op = "SUB"
		}
		if opcode&0x0400 == 0x0400 {
			return op, fmt.Sprintf("%s, %s, #%d", lo3(0), lo3(3), (opcode>>6)&0x07)
		}
		return op, fmt.Sprintf("%s, %s, %s", lo3(0), lo3(3), lo3(6))
	}

	op := shiftMnemonic[(opcode>>11)&0x03]
	return op, fmt.Sprintf("%s, %s, #%d", lo3(0), lo3(3), (opcode>>6)&0x1f)
}
