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

// Package database is a very simple way of storing structured and arbitrary
// entry types. It's as simple as simple can be but is still useful in helping
// to organise what is essentially a flat file.
//
// Use of a database requires starting a "session". We do this with the
// StartSession() function, coupled with an EndSession() once we're done. For
// example (error handling removed for clarity):
//
//	db, _ := database.StartSession(dbPath, database.ActivityCreating, initDBSession)
//	defer db.EndSession(true)
//
// The first argument is the path to the database file on the local disk. The
// second argument is a description of the type of activity that will be
// happening during the session. ActivityCreating will create the database if
// it does not already exist. If the database already exists ActivityCreating
// is treated the same as ActivityModifying. If we don't want to modify the
// database at all, then we can use ActivityReading.
//
// The third argument is the database initialisation function. The
// initialisation function registers the entry types the database might
// contain:
//
//	func initDBSession(db *database.Session) error {
//		return db.RegisterEntryType("foo", deserialiseFoo)
//	}
//
// The deserialise function takes the fields of the entry as its only argument
// and returns a new database.Entry. Entries are deserialised as part of the
// StartSession() function. Any errors created by the deserialiser function
// cause StartSession() to fail.
//
// Fields can not contain commas or newlines.
package database
