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

package database

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jetsetilly/gopherds/curated"
)

// Error is the error pattern for all errors produced by the database.
const Error = "database: %v"

// Errorf creates a database error.
func Errorf(format string, args ...any) error {
	return curated.Errorf(Error, fmt.Sprintf(format, args...))
}

// Activity is the type of activity intended for the session.
type Activity int

// List of valid Activity values.
const (
	ActivityReading Activity = iota
	ActivityModifying
	ActivityCreating
)

// Session keeps track of a database session.
type Session struct {
	path     string
	activity Activity

	entryTypes map[string]Deserialiser
	entries    map[int]Entry
}

// StartSession reads the database file and deserialises the entries with the
// entry types registered by the init function.
func StartSession(path string, activity Activity, init func(*Session) error) (*Session, error) {
	db := &Session{
		path:       path,
		activity:   activity,
		entryTypes: make(map[string]Deserialiser),
		entries:    make(map[int]Entry),
	}

	if init != nil {
		if err := init(db); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && activity == ActivityCreating {
			return db, nil
		}
		return nil, Errorf("%v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := db.parseEntry(line); err != nil {
			return nil, Errorf("line %d: %v", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, Errorf("%v", err)
	}

	return db, nil
}

func (db *Session) parseEntry(line string) error {
	fields := strings.Split(line, fieldSep)
	if len(fields) < numLeaderFields {
		return fmt.Errorf("too few fields")
	}

	key, err := strconv.Atoi(fields[leaderFieldKey])
	if err != nil {
		return fmt.Errorf("invalid key (%s)", fields[leaderFieldKey])
	}
	if _, ok := db.entries[key]; ok {
		return fmt.Errorf("duplicate key (%d)", key)
	}

	des, ok := db.entryTypes[fields[leaderFieldID]]
	if !ok {
		return fmt.Errorf("unrecognised entry type (%s)", fields[leaderFieldID])
	}

	ent, err := des(fields[numLeaderFields:])
	if err != nil {
		return err
	}
	db.entries[key] = ent

	return nil
}

// EndSession closes the database session. Changes are written to disk if
// commitChanges is true and the session activity allows it.
func (db *Session) EndSession(commitChanges bool) error {
	if !commitChanges || db.activity == ActivityReading {
		return nil
	}

	var b strings.Builder
	for _, key := range db.SortedKeyList() {
		ent := db.entries[key]
		ser, err := ent.Serialise()
		if err != nil {
			return Errorf("%v", err)
		}
		b.WriteString(recordHeader(key, ent.ID()))
		for _, s := range ser {
			if strings.ContainsAny(s, fieldSep+entrySep) {
				return Errorf("invalid field in entry %d (%q)", key, s)
			}
			b.WriteString(fieldSep)
			b.WriteString(s)
		}
		b.WriteString(entrySep)
	}

	if err := os.WriteFile(db.path, []byte(b.String()), 0o644); err != nil {
		return Errorf("%v", err)
	}

	return nil
}
