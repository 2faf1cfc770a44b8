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

package prefs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jetsetilly/gopherds/curated"
)

// WarningBoilerPlate is written to the head of every preferences file.
const WarningBoilerPlate = "*** do not edit this file by hand ***"

// KeySep separates the key and value in a preferences file.
const KeySep = " :: "

// Sentinal errors.
const (
	DuplicateKey = "prefs: duplicate key (%s)"
	NoSuchKey    = "prefs: no such key (%s)"
	BadFile      = "prefs: bad preferences file (%s)"
	DiskError    = "prefs: %v"
)

// Disk groups preference values so that they can be saved to and loaded from
// a file. Keys are dot separated. By convention the first part of the key is
// the name of the package that owns the value.
type Disk struct {
	path    string
	entries map[string]Pref
}

// NewDisk is the preferred method of initialisation for the Disk type. The
// path can be empty, in which case Load() and Save() do nothing.
func NewDisk(path string) (*Disk, error) {
	return &Disk{
		path:    path,
		entries: make(map[string]Pref),
	}, nil
}

// Path returns the file the values are saved to. Empty if the values are
// never saved.
func (dsk *Disk) Path() string {
	return dsk.path
}

// Add a preference value to the disk instance.
func (dsk *Disk) Add(key string, p Pref) error {
	if _, ok := dsk.entries[key]; ok {
		return curated.Errorf(DuplicateKey, key)
	}
	dsk.entries[key] = p
	return nil
}

// Lookup returns the preference value for the key.
func (dsk *Disk) Lookup(key string) (Pref, error) {
	p, ok := dsk.entries[key]
	if !ok {
		return nil, curated.Errorf(NoSuchKey, key)
	}
	return p, nil
}

// Save the current values to disk. Keys in the file that this instance does
// not know about are preserved.
func (dsk *Disk) Save() error {
	if dsk.path == "" {
		return nil
	}

	kv := make(map[string]string)

	// load existing file so that entries from other Disk instances survive
	if f, err := os.Open(dsk.path); err == nil {
		err = parse(f, func(k, v string) {
			kv[k] = v
		})
		f.Close()
		if err != nil {
			return err
		}
	}

	for k, p := range dsk.entries {
		kv[k] = p.String()
	}

	f, err := os.Create(dsk.path)
	if err != nil {
		return curated.Errorf(DiskError, err)
	}
	defer f.Close()

	if err := write(f, kv); err != nil {
		return curated.Errorf(DiskError, err)
	}

	return nil
}

// Load values from disk. A missing file is not an error. Values given on the
// command line override values from the file.
func (dsk *Disk) Load() error {
	if dsk.path != "" {
		f, err := os.Open(dsk.path)
		if err != nil {
			if !os.IsNotExist(err) {
				return curated.Errorf(DiskError, err)
			}
		} else {
			defer f.Close()
			err = parse(f, func(k, v string) {
				if p, ok := dsk.entries[k]; ok {
					_ = p.Set(v)
				}
			})
			if err != nil {
				return err
			}
		}
	}

	for k, p := range dsk.entries {
		if v, ok := commandLine[k]; ok {
			if err := p.Set(v); err != nil {
				return err
			}
		}
	}

	return nil
}

// Reset all values in the disk instance.
func (dsk *Disk) Reset() error {
	for _, p := range dsk.entries {
		if err := p.Reset(); err != nil {
			return err
		}
	}
	return nil
}

func (dsk *Disk) String() string {
	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var s strings.Builder
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, KeySep, dsk.entries[k]))
	}
	return s.String()
}

func parse(r io.Reader, f func(k, v string)) error {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		return scanner.Err()
	}
	if scanner.Text() != WarningBoilerPlate {
		return curated.Errorf(BadFile, "missing boilerplate")
	}

	for scanner.Scan() {
		l := scanner.Text()
		if strings.TrimSpace(l) == "" {
			continue
		}
		k, v, ok := strings.Cut(l, KeySep)
		if !ok {
			return curated.Errorf(BadFile, l)
		}
		f(strings.TrimSpace(k), strings.TrimSpace(v))
	}

	return scanner.Err()
}

func write(w io.Writer, kv map[string]string) error {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if _, err := fmt.Fprintln(w, WarningBoilerPlate); err != nil {
		return err
	}
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s%s%s\n", k, KeySep, kv[k]); err != nil {
			return err
		}
	}
	return nil
}
