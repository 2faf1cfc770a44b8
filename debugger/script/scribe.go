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

package script

import (
	"fmt"
	"io"
	"os"

	"github.com/jetsetilly/gopherds/curated"
)

// ScribeError is the pattern of errors returned by the Scribe type.
const ScribeError = "scribe: %v"

// Scribe can be used again after a start/end session.
type Scribe struct {
	file     *os.File
	filename string

	// the depth of script playbacks during the writing of a new script
	playbackDepth int

	inputLine string
}

// IsActive returns true if a script is currently being captured.
func (scr Scribe) IsActive() bool {
	return scr.file != nil
}

// Filename of the script being captured.
func (scr Scribe) Filename() string {
	return scr.filename
}

// StartSession begins a new script. The file must not already exist.
func (scr *Scribe) StartSession(filename string) error {
	if scr.IsActive() {
		return curated.Errorf(ScribeError, "already active")
	}

	if _, err := os.Stat(filename); err == nil {
		return curated.Errorf(ScribeError, fmt.Sprintf("%s already exists", filename))
	}

	var err error
	scr.file, err = os.Create(filename)
	if err != nil {
		return curated.Errorf(ScribeError, err)
	}
	scr.filename = filename

	_, err = io.WriteString(scr.file, fmt.Sprintf("%s gopherds debugger script\n", commentLine))
	if err != nil {
		return curated.Errorf(ScribeError, err)
	}

	return nil
}

// EndSession the current scribe session.
func (scr *Scribe) EndSession() error {
	if !scr.IsActive() {
		return nil
	}

	defer func() {
		scr.file = nil
		scr.filename = ""
		scr.playbackDepth = 0
		scr.inputLine = ""
	}()

	err := scr.Commit()

	if errClose := scr.file.Close(); errClose != nil {
		return curated.Errorf(ScribeError, errClose)
	}

	return err
}

// StartPlayback indicates that a replayed script has begun. Commands from a
// replayed script are not captured.
func (scr *Scribe) StartPlayback() error {
	if !scr.IsActive() {
		return nil
	}
	scr.playbackDepth++
	return scr.Commit()
}

// EndPlayback indicates that a replayed script has finished.
func (scr *Scribe) EndPlayback() {
	if !scr.IsActive() {
		return
	}
	scr.playbackDepth--
}

// Rollback undoes calls to WriteInput() since the last Commit().
func (scr *Scribe) Rollback() {
	scr.inputLine = ""
}

// WriteInput queues the command for writing to the script. It will be
// written on the next call to Commit(), or discarded by Rollback().
func (scr *Scribe) WriteInput(command string) error {
	if !scr.IsActive() || scr.playbackDepth > 0 {
		return nil
	}

	err := scr.Commit()
	if command != "" {
		scr.inputLine = fmt.Sprintf("%s\n", command)
	}
	return err
}

// Commit the most recent call to WriteInput().
func (scr *Scribe) Commit() error {
	if !scr.IsActive() || scr.inputLine == "" {
		return nil
	}

	defer func() {
		scr.inputLine = ""
	}()

	if _, err := io.WriteString(scr.file, scr.inputLine); err != nil {
		return curated.Errorf(ScribeError, err)
	}

	return nil
}
