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

package input

import (
	"fmt"
	"strings"
)

// Key is a single button or switch.
type Key int

// List of valid Key values. The first ten keys are in the same order as the
// bits of KEYINPUT.
const (
	A Key = iota
	B
	Select
	Start
	Right
	Left
	Up
	Down
	R
	L
	X
	Y
	Debug
	Pen
	Hinge
	NumKeys
)

var keyNames = [NumKeys]string{
	"A", "B", "Select", "Start", "Right", "Left", "Up", "Down", "R", "L",
	"X", "Y", "Debug", "Pen", "Hinge",
}

func (k Key) String() string {
	if k >= 0 && k < NumKeys {
		return keyNames[k]
	}
	return fmt.Sprintf("key%d", int(k))
}

// ParseKey returns the key with the name. The comparison is case insensitive.
func ParseKey(name string) (Key, error) {
	for k, n := range keyNames {
		if strings.EqualFold(n, name) {
			return Key(k), nil
		}
	}
	return 0, fmt.Errorf("input: unknown key %q", name)
}

// Keys is the set of keys being held down. For the Pen key this means the
// pen is touching the screen and for the Hinge key it means the lid is
// closed.
type Keys uint32

// Set returns the set with the key held down.
func (ks Keys) Set(k Key) Keys {
	return ks | 1<<k
}

// Clear returns the set with the key released.
func (ks Keys) Clear(k Key) Keys {
	return ks &^ (1 << k)
}

// Held returns true if the key is in the set.
func (ks Keys) Held(k Key) bool {
	return ks&(1<<k) != 0
}

func (ks Keys) String() string {
	var s []string
	for k := Key(0); k < NumKeys; k++ {
		if ks.Held(k) {
			s = append(s, k.String())
		}
	}
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, "+")
}

// Event is a change to a single key.
type Event struct {
	Key  Key
	Down bool
}

func (ev Event) String() string {
	if ev.Down {
		return fmt.Sprintf("%s down", ev.Key)
	}
	return fmt.Sprintf("%s up", ev.Key)
}

// Apply the event to the set of keys.
func (ev Event) Apply(ks Keys) Keys {
	if ev.Down {
		return ks.Set(ev.Key)
	}
	return ks.Clear(ev.Key)
}
