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

package rewind

import (
	"fmt"

	"github.com/jetsetilly/gopherds/prefs"
)

// Preferences for the rewind system.
type Preferences struct {
	r   *Rewind
	dsk *prefs.Disk

	// the maximum number of entries to store before the earliest entries are
	// forgotten
	MaxEntries prefs.Int

	// how often, in frames, a snapshot is taken
	Freq prefs.Int
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

const (
	maxEntries   = 20
	snapshotFreq = 30
)

// newPreferences is the preferred method of initialisation for the
// Preferences type.
func newPreferences(r *Rewind, path string) (*Preferences, error) {
	p := &Preferences{r: r}
	p.SetDefaults()

	var err error
	p.dsk, err = prefs.NewDisk(path)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("rewind.maxEntries", &p.MaxEntries)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("rewind.snapshotFreq", &p.Freq)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	positive := func(v prefs.Value) error {
		if n, ok := v.(int); ok && n < 1 {
			return fmt.Errorf("rewind: value must be at least one (%d)", n)
		}
		return nil
	}
	p.MaxEntries.SetHookPre(positive)
	p.Freq.SetHookPre(positive)

	p.MaxEntries.SetHookPost(func(_ prefs.Value) error {
		r.allocate()
		return nil
	})

	return p, nil
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	p.MaxEntries.Set(maxEntries)
	p.Freq.Set(snapshotFreq)
}

// Load rewind preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save current rewind preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
