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
	"strings"

	"github.com/jetsetilly/gopherds/curated"
)

// HeaderSize is the number of bytes in the cartridge header.
const HeaderSize = 0x170

// Error patterns.
const (
	HeaderTooShort = "dsslot: header: data too short (%d bytes)"
	InvalidSize    = "dsslot: rom: invalid size (%d bytes)"
	NoKeyBuffer    = "dsslot: rom: secure area is encrypted and there is no ARM7 BIOS to decrypt it"
)

// Binary describes one of the two executables on a cartridge.
type Binary struct {
	ROMOffset uint32
	Entry     uint32
	Load      uint32
	Size      uint32
}

func (b Binary) String() string {
	return fmt.Sprintf("rom %08x -> ram %08x (%d bytes) entry %08x", b.ROMOffset, b.Load, b.Size, b.Entry)
}

// Header is the parsed cartridge header.
type Header struct {
	Title     string
	GameCode  uint32
	MakerCode string
	UnitCode  uint8

	ARM9 Binary
	ARM7 Binary

	IconTitleOffset uint32

	// the header exactly as it appears in the ROM
	Raw [HeaderSize]byte
}

// NewHeader parses the cartridge header from the start of the data.
func NewHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < HeaderSize {
		return h, curated.Errorf(HeaderTooShort, len(data))
	}
	copy(h.Raw[:], data)

	le := binary.LittleEndian
	h.Title = strings.TrimRight(string(data[0x00:0x0c]), "\x00 ")
	h.GameCode = le.Uint32(data[0x0c:])
	h.MakerCode = strings.TrimRight(string(data[0x10:0x12]), "\x00 ")
	h.UnitCode = data[0x12]

	h.ARM9 = Binary{
		ROMOffset: le.Uint32(data[0x20:]),
		Entry:     le.Uint32(data[0x24:]),
		Load:      le.Uint32(data[0x28:]),
		Size:      le.Uint32(data[0x2c:]),
	}
	h.ARM7 = Binary{
		ROMOffset: le.Uint32(data[0x30:]),
		Entry:     le.Uint32(data[0x34:]),
		Load:      le.Uint32(data[0x38:]),
		Size:      le.Uint32(data[0x3c:]),
	}
	h.IconTitleOffset = le.Uint32(data[0x68:])

	return h, nil
}

// GameCodeString returns the game code as four characters.
func (h Header) GameCodeString() string {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], h.GameCode)
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '.'
		}
		return r
	}, string(b[:]))
}

// Homebrew returns true if the secure area is not where a retail cartridge
// would have it.
func (h Header) Homebrew() bool {
	return h.ARM9.ROMOffset < 0x4000 || h.ARM9.ROMOffset >= 0x8000
}

func (h Header) String() string {
	return fmt.Sprintf("%s [%s] maker %s", h.Title, h.GameCodeString(), h.MakerCode)
}
