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

// SerialisedEntry is the fields of an entry as stored in the database file.
type SerialisedEntry []string

// Deserialiser creates an entry from the serialised fields.
type Deserialiser func(fields SerialisedEntry) (Entry, error)

// Entry represents the generic entry in the database.
type Entry interface {
	// ID returns the string that is used to identify the entry type in
	// the database
	ID() string

	// String returns information about the entry in a human readable format.
	// The machine readable representation is returned by Serialise()
	String() string

	// return the Entry data as an instance of SerialisedEntry
	Serialise() (SerialisedEntry, error)

	// a cleanup is performed when the entry is deleted from the database
	CleanUp() error
}

// RegisterEntryType tells the database what entries it may expect in the
// database and what to do when it encounters one.
func (db *Session) RegisterEntryType(id string, des Deserialiser) error {
	if _, ok := db.entryTypes[id]; ok {
		return Errorf("duplicate entry type (%s)", id)
	}
	db.entryTypes[id] = des
	return nil
}
