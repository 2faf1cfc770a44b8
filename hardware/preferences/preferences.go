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

// Package preferences holds the user preferences for the emulated hardware.
package preferences

import (
	"github.com/jetsetilly/gopherds/hardware/clocks"
	"github.com/jetsetilly/gopherds/prefs"
)

// Preferences for the emulated hardware.
type Preferences struct {
	dsk *prefs.Disk

	// clock speeds in MHz. these only affect the reported speed of the
	// emulation, the scheduler always counts in system cycles
	ARM9Clock prefs.Float
	ARM7Clock prefs.Float

	// boot directly into the cartridge's ARM9/ARM7 binaries rather than
	// running the BIOS boot sequence
	DirectBoot prefs.Bool

	// log open bus reads and dropped writes to the central logger
	LogOpenBus prefs.Bool

	// stop emulation when an undefined instruction is executed
	AbortOnUndefined prefs.Bool
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. An empty path means the values are never saved.
func NewPreferences(path string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	var err error
	p.dsk, err = prefs.NewDisk(path)
	if err != nil {
		return nil, err
	}

	for k, v := range map[string]prefs.Pref{
		"hardware.arm9.clock":      &p.ARM9Clock,
		"hardware.arm7.clock":      &p.ARM7Clock,
		"hardware.directboot":      &p.DirectBoot,
		"hardware.openbus.log":     &p.LogOpenBus,
		"hardware.undefined.abort": &p.AbortOnUndefined,
	} {
		if err := p.dsk.Add(k, v); err != nil {
			return nil, err
		}
	}

	if err := p.dsk.Load(); err != nil {
		return p, err
	}

	return p, nil
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	p.ARM9Clock.Set(clocks.ARM9)
	p.ARM7Clock.Set(clocks.ARM7)
	p.DirectBoot.Set(true)
	p.LogOpenBus.Set(false)
	p.AbortOnUndefined.Set(false)
}

// Path returns the file the preferences are saved to. Other packages can
// save their own preferences to the same file.
func (p *Preferences) Path() string {
	return p.dsk.Path()
}

// Load preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
