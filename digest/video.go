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

package digest

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"

	"github.com/jetsetilly/gopherds/hardware"
	"github.com/jetsetilly/gopherds/hardware/memory"
)

// the display registers of both 2D engines.
const (
	engineA      = 0x04000000
	engineB      = 0x04001000
	registersLen = 0x70
)

// Video is an implementation of the lcd.Subscriber interface. The digest is
// of the display state (the display registers, palette, OAM and VRAM) at the
// start of every VBlank. Each frame's digest includes the digest of the
// previous frame.
type Video struct {
	ds     *hardware.DS
	digest [sha1.Size]byte
	frames int

	// the previous digest followed by the display state
	data []byte
}

// NewVideo is the preferred method of initialisation for the Video type. The
// Video type is added to the console's LCD as a subscriber.
func NewVideo(ds *hardware.DS) *Video {
	dig := &Video{
		ds:   ds,
		data: make([]byte, sha1.Size+registersLen*2+memory.PaletteSize+memory.OAMSize+memory.VRAMSize),
	}
	ds.LCD.AddSubscriber(dig)
	return dig
}

// Hash implements the digest.Digest interface.
func (dig *Video) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements the digest.Digest interface.
func (dig *Video) ResetDigest() {
	clear(dig.digest[:])
	dig.frames = 0
}

// Frames returns the number of frames included in the digest.
func (dig *Video) Frames() int {
	return dig.frames
}

// OnHBlank implements the lcd.Subscriber interface.
func (dig *Video) OnHBlank(_ int) {
}

// OnVBlank implements the lcd.Subscriber interface.
func (dig *Video) OnVBlank(_ int) {
	n := copy(dig.data, dig.digest[:])

	for _, base := range [...]uint32{engineA, engineB} {
		for i := uint32(0); i < registersLen; i += 4 {
			v, _ := dig.ds.Peek(memory.ARM9, base+i, memory.Width32)
			binary.LittleEndian.PutUint32(dig.data[n:], v)
			n += 4
		}
	}

	n += copy(dig.data[n:], dig.ds.Shared.Palette)
	n += copy(dig.data[n:], dig.ds.Shared.OAM)
	copy(dig.data[n:], dig.ds.Shared.VRAM)

	dig.digest = sha1.Sum(dig.data)
	dig.frames++
}
