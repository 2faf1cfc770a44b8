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
	"math/bits"
)

// size of the key buffer in words.
const keyBufferLen = 0x412

// location of the key buffer seed in the ARM7 BIOS.
const keyBufferSeed = 0x30

// KeyBuffer is the state of the KEY1 encryption.
type KeyBuffer struct {
	buf  [keyBufferLen]uint32
	code [3]uint32
}

// NewKeyBuffer creates a key buffer at level 2 for the game code. The buffer
// is seeded from the ARM7 BIOS, which must be long enough to contain the
// seed. Returns nil if the BIOS is too short.
func NewKeyBuffer(gameCode uint32, bios []byte, modulo int) *KeyBuffer {
	if len(bios) < keyBufferSeed+keyBufferLen*4 {
		return nil
	}

	kb := &KeyBuffer{
		code: [3]uint32{gameCode, gameCode >> 1, gameCode << 1},
	}
	for i := range kb.buf {
		kb.buf[i] = binary.LittleEndian.Uint32(bios[keyBufferSeed+i*4:])
	}
	kb.applyKeyCode(modulo)
	kb.applyKeyCode(modulo)
	return kb
}

func (kb *KeyBuffer) round(z uint32) uint32 {
	a := kb.buf[0x12+z>>24]
	b := kb.buf[0x112+(z>>16)&0xff]
	c := kb.buf[0x212+(z>>8)&0xff]
	d := kb.buf[0x312+z&0xff]
	return ((a + b) ^ c) + d
}

// Encrypt 64 bits of data. The first word of the data is the low word.
func (kb *KeyBuffer) Encrypt(v [2]uint32) [2]uint32 {
	y, x := v[0], v[1]
	for i := 0; i < 0x10; i++ {
		z := x ^ kb.buf[i]
		x = kb.round(z) ^ y
		y = z
	}
	return [2]uint32{x ^ kb.buf[0x10], y ^ kb.buf[0x11]}
}

// Decrypt 64 bits of data encrypted with Encrypt().
func (kb *KeyBuffer) Decrypt(v [2]uint32) [2]uint32 {
	y, x := v[0], v[1]
	for i := 0x11; i >= 2; i-- {
		z := x ^ kb.buf[i]
		x = kb.round(z) ^ y
		y = z
	}
	return [2]uint32{x ^ kb.buf[1], y ^ kb.buf[0]}
}

func (kb *KeyBuffer) applyKeyCode(modulo int) {
	s := kb.Encrypt([2]uint32{kb.code[1], kb.code[2]})
	kb.code[1], kb.code[2] = s[0], s[1]
	s = kb.Encrypt([2]uint32{kb.code[0], kb.code[1]})
	kb.code[0], kb.code[1] = s[0], s[1]

	for i := 0; i < 0x12; i++ {
		kb.buf[i] ^= bits.ReverseBytes32(kb.code[i%modulo])
	}

	s = [2]uint32{}
	for i := 0; i < keyBufferLen; i += 2 {
		s = kb.Encrypt(s)
		kb.buf[i] = s[1]
		kb.buf[i+1] = s[0]
	}
}

// Level3 returns a new key buffer at level 3, as used for the secure area.
func (kb *KeyBuffer) Level3(modulo int) *KeyBuffer {
	l3 := *kb
	l3.code[1] <<= 1
	l3.code[2] >>= 1
	l3.applyKeyCode(modulo)
	return &l3
}
