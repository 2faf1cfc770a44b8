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

package savestate

import (
	"bufio"
	"encoding/binary"
	"encoding/gob"
	"io"
	"os"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware"
	"github.com/jetsetilly/gopherds/logger"
)

// Error patterns.
const (
	NotSavestate       = "savestate: not a savestate"
	UnsupportedVersion = "savestate: unsupported version (%d)"
	WrongCartridge     = "savestate: created with a different cartridge (%08x)"
	DecodeError        = "savestate: decode: %v"
	EncodeError        = "savestate: encode: %v"
	FileError          = "savestate: %v"
)

// Version of the savestate format written by Export().
const Version = 1

var magic = [8]byte{'G', 'D', 'S', 'S', 'T', 'A', 'T', 'E'}

type header struct {
	Magic    [8]byte
	Version  uint32
	GameCode uint32
}

func gameCode(ds *hardware.DS) uint32 {
	if rom := ds.Slot.ROM(); rom != nil {
		return rom.Header.GameCode
	}
	return 0
}

// Export writes the current state of the console.
func Export(w io.Writer, ds *hardware.DS) error {
	h := header{
		Magic:    magic,
		Version:  Version,
		GameCode: gameCode(ds),
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, h); err != nil {
		return curated.Errorf(EncodeError, err)
	}
	if err := gob.NewEncoder(bw).Encode(ds.Snapshot()); err != nil {
		return curated.Errorf(EncodeError, err)
	}
	if err := bw.Flush(); err != nil {
		return curated.Errorf(EncodeError, err)
	}
	return nil
}

// Decode reads a savestate and checks that it can be applied to the console.
// The console is not changed.
func Decode(r io.Reader, ds *hardware.DS) (*hardware.State, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, curated.Errorf(NotSavestate)
		}
		return nil, curated.Errorf(DecodeError, err)
	}
	if h.Magic != magic {
		return nil, curated.Errorf(NotSavestate)
	}
	if h.Version != Version {
		return nil, curated.Errorf(UnsupportedVersion, h.Version)
	}
	if h.GameCode != gameCode(ds) {
		return nil, curated.Errorf(WrongCartridge, h.GameCode)
	}

	s := &hardware.State{}
	if err := gob.NewDecoder(r).Decode(s); err != nil {
		return nil, curated.Errorf(DecodeError, err)
	}
	if err := ds.Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Import reads a savestate and restores the console to that state. The
// console is unchanged if an error is returned.
func Import(r io.Reader, ds *hardware.DS) error {
	s, err := Decode(r, ds)
	if err != nil {
		return err
	}
	return ds.Restore(s)
}

// Save the state of the console to the named file.
func Save(filename string, ds *hardware.DS) error {
	f, err := os.Create(filename)
	if err != nil {
		return curated.Errorf(FileError, err)
	}

	err = Export(f, ds)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = curated.Errorf(FileError, cerr)
	}
	if err != nil {
		return err
	}

	logger.Logf(logger.Allow, "savestate", "saved %s", filename)
	return nil
}

// Load the state of the console from the named file.
func Load(filename string, ds *hardware.DS) error {
	f, err := os.Open(filename)
	if err != nil {
		return curated.Errorf(FileError, err)
	}
	defer f.Close()

	if err := Import(bufio.NewReader(f), ds); err != nil {
		return err
	}

	logger.Logf(logger.Allow, "savestate", "loaded %s", filename)
	return nil
}
