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

// Package digest produces cryptographic hashes of the emulated console. The
// hash can then be used to compare the output of subsequent emulation
// executions. If a new hash differs from a previously recorded value then
// something has changed. This is the basis of the regression tests.
package digest

// Digest implementations return a cryptographic hash in response to a Hash()
// request. Generation of the hash is achieved via another interface.
type Digest interface {
	Hash() string
	ResetDigest()
}
