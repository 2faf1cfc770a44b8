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
	"image"
	"image/color"

	"github.com/jetsetilly/gopherds/curated"
)

// IconSize is the width and height of the icon in pixels.
const IconSize = 32

// NoIcon is the error pattern returned when the cartridge data does not
// contain an icon.
const NoIcon = "dsslot: icon: icon/title data is outside the ROM (offset %08x)"

// size of the bitmap and palette data.
const (
	iconBitmapLen = 0x200
	iconDataLen   = iconBitmapLen + 0x20
)

// iconColor converts a 15bit colour to 8bit per channel colour.
func iconColor(c uint16) color.RGBA {
	expand := func(v uint16) uint8 {
		v6 := uint8(v&0x1f) << 1
		return v6<<2 | v6>>4
	}
	return color.RGBA{
		R: expand(c),
		G: expand(c >> 5),
		B: expand(c >> 10),
		A: 0xff,
	}
}

// Icon decodes the 32x32 icon from the cartridge data. The icon is made up of
// 4x4 tiles of 8x8 pixels. Each pixel is a 4bit index into a sixteen colour
// palette and colour zero is transparent.
func Icon(data []byte) (*image.RGBA, error) {
	h, err := NewHeader(data)
	if err != nil {
		return nil, err
	}

	offset := uint64(h.IconTitleOffset)
	if offset+0x240 > uint64(len(data)) {
		return nil, curated.Errorf(NoIcon, h.IconTitleOffset)
	}
	icon := data[offset+0x20 : offset+0x20+iconDataLen]

	var palette [16]color.RGBA
	for i := 1; i < len(palette); i++ {
		palette[i] = iconColor(binary.LittleEndian.Uint16(icon[iconBitmapLen+i*2:]))
	}

	img := image.NewRGBA(image.Rect(0, 0, IconSize, IconSize))
	for base := 0; base < iconBitmapLen; base += 4 {
		line := binary.LittleEndian.Uint32(icon[base:])
		tileY := base >> 7
		tileX := base >> 5 & 3
		y := tileY<<3 | base>>2&7
		for x := 0; x < 8; x++ {
			img.SetRGBA(tileX<<3|x, y, palette[line>>(x*4)&0x0f])
		}
	}

	return img, nil
}
