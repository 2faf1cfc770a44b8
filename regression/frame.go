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

package regression

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/jetsetilly/gopherds/database"
	"github.com/jetsetilly/gopherds/digest"
)

const frameEntryID = "frame"

const (
	frameFieldCartridge int = iota
	frameFieldMode
	frameFieldNumFrames
	frameFieldDigest
	frameFieldNotes
	numFrameFields
)

// FrameRegression runs a cartridge for a number of frames and compares a
// digest of the console with the digest recorded when the entry was added.
type FrameRegression struct {
	Cartridge string
	Mode      DigestMode
	NumFrames int
	Notes     string

	digest string
}

// NewFrameRegression is the preferred method of initialisation for the
// FrameRegression type.
func NewFrameRegression(cartridge string, mode DigestMode, numFrames int) (*FrameRegression, error) {
	if numFrames < 1 {
		return nil, fmt.Errorf("number of frames must be positive")
	}
	pth, err := cartridgePath(cartridge)
	if err != nil {
		return nil, err
	}
	return &FrameRegression{
		Cartridge: pth,
		Mode:      mode,
		NumFrames: numFrames,
	}, nil
}

func deserialiseFrameEntry(fields database.SerialisedEntry) (database.Entry, error) {
	if len(fields) != numFrameFields {
		return nil, fmt.Errorf("frame entry: wrong number of fields (%d)", len(fields))
	}

	reg := &FrameRegression{
		Cartridge: fields[frameFieldCartridge],
		digest:    fields[frameFieldDigest],
		Notes:     fields[frameFieldNotes],
	}

	var err error

	reg.Mode, err = ParseDigestMode(fields[frameFieldMode])
	if err != nil {
		return nil, fmt.Errorf("frame entry: %w", err)
	}

	reg.NumFrames, err = strconv.Atoi(fields[frameFieldNumFrames])
	if err != nil {
		return nil, fmt.Errorf("frame entry: invalid number of frames (%s)", fields[frameFieldNumFrames])
	}

	return reg, nil
}

// ID implements the database.Entry interface.
func (reg *FrameRegression) ID() string {
	return frameEntryID
}

// String implements the database.Entry interface.
func (reg *FrameRegression) String() string {
	s := fmt.Sprintf("[%s] %s frames=%d", reg.Mode, filepath.Base(reg.Cartridge), reg.NumFrames)
	if reg.Notes != "" {
		s = fmt.Sprintf("%s [%s]", s, reg.Notes)
	}
	return s
}

// Serialise implements the database.Entry interface.
func (reg *FrameRegression) Serialise() (database.SerialisedEntry, error) {
	return database.SerialisedEntry{
		reg.Cartridge,
		reg.Mode.String(),
		strconv.Itoa(reg.NumFrames),
		reg.digest,
		reg.Notes,
	}, nil
}

// CleanUp implements the database.Entry interface.
func (reg *FrameRegression) CleanUp() error {
	return nil
}

// regress implements the Regressor interface.
func (reg *FrameRegression) regress(ctx context.Context, newRegression bool, output io.Writer, msg string) (bool, string, error) {
	io.WriteString(output, msg)

	ds, err := newConsole(reg.Cartridge)
	if err != nil {
		return false, "", err
	}

	var video *digest.Video
	switch reg.Mode {
	case DigestVideo:
		video = digest.NewVideo(ds)
	case DigestState:
	default:
		return false, "", fmt.Errorf("invalid digest mode (%s)", reg.Mode)
	}

	if err := ds.RunForFrameCount(ctx, reg.NumFrames); err != nil {
		return false, "", err
	}

	var hash string
	if video != nil {
		hash = video.Hash()
	} else {
		hash, err = digest.State(ds)
		if err != nil {
			return false, "", err
		}
	}

	if newRegression {
		reg.digest = hash
		return true, "", nil
	}

	if hash != reg.digest {
		return false, fmt.Sprintf("digest mismatch: expected %s: got %s", reg.digest, hash), nil
	}

	return true, "", nil
}
