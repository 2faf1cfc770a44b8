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

package dsslot

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/logger"
)

// Stage of the ROM device's command protocol.
type Stage int

// List of valid Stage values.
const (
	StageInitial Stage = iota
	StageKEY1
	StageKEY2
)

func (s Stage) String() string {
	switch s {
	case StageInitial:
		return "initial"
	case StageKEY1:
		return "KEY1"
	case StageKEY2:
		return "KEY2"
	}
	return fmt.Sprintf("stage%d", int(s))
}

// limits on the size of the ROM data.
const (
	minROMSize = 0x1000
	maxROMSize = 0x20000000
)

// the secure area as it appears once decrypted.
const secureAreaPlain = 0xe7ffdeffe7ffdeff

const secureAreaLen = 0x800

// ROM is the ROM device in a DS cartridge.
type ROM struct {
	Header Header

	// the ROM data, padded to a power of two
	data   []byte
	mask   uint32
	chipID uint32

	// key buffer at level 2. nil if no ARM7 BIOS was available
	keyBuf *KeyBuffer

	stage Stage
}

// NewROM creates the ROM device from the cartridge data. The ARM7 BIOS is
// needed for the KEY1 stage and may be nil, in which case the cartridge can
// only be direct booted.
func NewROM(data []byte, bios7 []byte) (*ROM, error) {
	if len(data) < minROMSize || len(data) > maxROMSize {
		return nil, curated.Errorf(InvalidSize, len(data))
	}

	h, err := NewHeader(data)
	if err != nil {
		return nil, err
	}

	size := uint32(1) << bits.Len32(uint32(len(data)-1))
	rom := &ROM{
		Header: h,
		data:   make([]byte, size),
		mask:   size - 1,
	}
	copy(rom.data, data)

	rom.chipID = 0xc2
	switch {
	case size < 0x100000:
	case size < 0x10000000:
		rom.chipID |= size>>20 - 1
	default:
		rom.chipID |= 0x100 - size>>28
	}

	if bios7 != nil {
		rom.keyBuf = NewKeyBuffer(h.GameCode, bios7, 2)
	}

	return rom, nil
}

func (rom *ROM) String() string {
	return fmt.Sprintf("%s (%d bytes, chip ID %08x) %s", rom.Header, len(rom.data), rom.chipID, rom.stage)
}

// ChipID returns the value returned by the chip ID commands.
func (rom *ROM) ChipID() uint32 {
	return rom.chipID
}

// Stage returns the current stage of the command protocol.
func (rom *ROM) Stage() Stage {
	return rom.stage
}

// Data returns the ROM data.
func (rom *ROM) Data() []byte {
	return rom.data
}

// Reset the device to the initial stage.
func (rom *ROM) Reset() {
	rom.stage = StageInitial
}

// SetStage forces the stage of the command protocol. Used when restoring
// state.
func (rom *ROM) SetStage(s Stage) {
	rom.stage = s
}

// secureArea returns the first 2k of the secure area. Returns nil if the
// secure area is outside the ROM.
func (rom *ROM) secureArea() []byte {
	start := uint64(rom.Header.ARM9.ROMOffset)
	if start+secureAreaLen > uint64(len(rom.data)) {
		return nil
	}
	return rom.data[start : start+secureAreaLen]
}

// crypt applies the key buffer to the 64bit block at the offset. Blocks in
// the secure area are stored as two little-endian words.
func crypt(area []byte, offset int, f func([2]uint32) [2]uint32) {
	le := binary.LittleEndian
	r := f([2]uint32{le.Uint32(area[offset:]), le.Uint32(area[offset+4:])})
	le.PutUint32(area[offset:], r[0])
	le.PutUint32(area[offset+4:], r[1])
}

// Setup prepares the secure area for the type of boot. A direct boot skips
// the BIOS so the secure area must be decrypted and the device must be in
// the KEY2 stage. A BIOS boot expects the secure area to be encrypted.
func (rom *ROM) Setup(directBoot bool) error {
	area := rom.secureArea()

	if directBoot {
		rom.stage = StageKEY2
		if rom.Header.Homebrew() || area == nil {
			return nil
		}
		if binary.LittleEndian.Uint64(area) == secureAreaPlain {
			return nil
		}
		if rom.keyBuf == nil {
			return curated.Errorf(NoKeyBuffer)
		}
		crypt(area, 0, rom.keyBuf.Decrypt)
		l3 := rom.keyBuf.Level3(2)
		for i := 0; i < secureAreaLen; i += 8 {
			crypt(area, i, l3.Decrypt)
		}
		logger.Logf(logger.Allow, "dsslot", "decrypted secure area of %s", rom.Header.GameCodeString())
		return nil
	}

	rom.stage = StageInitial
	if area == nil || binary.LittleEndian.Uint64(area) != secureAreaPlain {
		return nil
	}
	if rom.keyBuf == nil {
		return curated.Errorf(NoKeyBuffer)
	}
	copy(area, "encryObj")
	l3 := rom.keyBuf.Level3(2)
	for i := 0; i < secureAreaLen; i += 8 {
		crypt(area, i, l3.Encrypt)
	}
	crypt(area, 0, rom.keyBuf.Encrypt)
	logger.Logf(logger.Allow, "dsslot", "encrypted secure area of %s", rom.Header.GameCodeString())
	return nil
}

// fill the output with copies of the word.
func fillWords(out []byte, v uint32) {
	for i := 0; i+4 <= len(out); i += 4 {
		binary.LittleEndian.PutUint32(out[i:], v)
	}
}

// readRepeat fills the output with repeated copies of the 4k block at the
// address.
func (rom *ROM) readRepeat(addr uint32, out []byte) {
	for i := 0; i < len(out); i += 0x1000 {
		n := min(0x1000, len(out)-i)
		a := addr & rom.mask
		copy(out[i:i+n], rom.data[a:min(uint32(len(rom.data)), a+uint32(n))])
	}
}

// readPage fills the output starting at the address. Reads wrap around to the
// start of the 4k page.
func (rom *ROM) readPage(addr uint32, out []byte) {
	pageStart := addr &^ 0xfff
	pageEnd := pageStart + 0x1000
	for i := 0; i < len(out); {
		n := min(int(pageEnd-addr), len(out)-i)
		copy(out[i:i+n], rom.data[addr:addr+uint32(n)])
		i += n
		addr = pageStart
	}
}

// Command sends a command to the device and fills the output with the
// response. The length of the output is the length requested by the
// transfer.
func (rom *ROM) Command(cmd [8]byte, out []byte) {
	be := binary.BigEndian
	args := be.Uint64(cmd[:]) & 0x00ffffffffffffff

	switch rom.stage {
	case StageInitial:
		switch {
		case cmd[0] == 0x9f && args == 0:
		case cmd[0] == 0x00 && args == 0:
			rom.readRepeat(0, out)
			return
		case cmd[0] == 0x90 && args == 0:
			fillWords(out, rom.chipID)
			return
		case cmd[0] == 0x3c:
			rom.stage = StageKEY1
		default:
			logger.Logf(logger.Allow, "dsslot", "unknown command in initial stage: %016x", be.Uint64(cmd[:]))
		}
		fillWords(out, 0xffffffff)

	case StageKEY1:
		if rom.keyBuf != nil {
			r := rom.keyBuf.Decrypt([2]uint32{be.Uint32(cmd[4:]), be.Uint32(cmd[0:])})
			be.PutUint32(cmd[4:], r[0])
			be.PutUint32(cmd[0:], r[1])
		}

		switch cmd[0] >> 4 {
		case 0x4:
			fillWords(out, 0xffffffff)
			return
		case 0x1:
			fillWords(out, rom.chipID)
			return
		case 0x2:
			rom.readRepeat(0x4000|uint32(cmd[2]&0x30)<<8, out)
			return
		case 0xa:
			rom.stage = StageKEY2
		default:
			logger.Logf(logger.Allow, "dsslot", "unknown command in KEY1 stage: %016x", be.Uint64(cmd[:]))
		}
		fillWords(out, 0)

	case StageKEY2:
		switch {
		case cmd[0] == 0xb7:
			addr := be.Uint32(cmd[1:]) & rom.mask
			if addr < 0x8000 {
				addr = 0x8000 | addr&0x1ff
			}
			rom.readPage(addr&rom.mask, out)
			return
		case cmd[0] == 0xb8 && args == 0:
			fillWords(out, rom.chipID)
			return
		default:
			logger.Logf(logger.Allow, "dsslot", "unknown command in KEY2 stage: %016x", be.Uint64(cmd[:]))
		}
		fillWords(out, 0)
	}
}
