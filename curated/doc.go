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

// Package curated is a helper package for the plain Go error type. Curated
// errors are created with Errorf(), which takes a pattern and placeholder
// values in the same way as fmt.Errorf(). The pattern is remembered and is
// used to identify the error later on:
//
//	const BadVersion = "savestate: unsupported version (%d)"
//
//	err := curated.Errorf(BadVersion, v)
//	if curated.Is(err, BadVersion) {
//		...
//	}
//
// Has() is similar to Is() but searches the entire chain of wrapped errors.
// Errors in the chain can be wrapped with a curated pattern that contains a
// %v verb, or with fmt.Errorf() and the %w verb.
//
// IsAny() answers whether an error was created by Errorf(). Put another way,
// whether it is an expected error rather than an unexpected one.
//
// Error() normalises the message so that adjacent duplicate parts of the chain
// are removed. This means a package can wrap an error with its own prefix
// without worrying whether the error already has that prefix:
//
//	"savestate: savestate: unsupported version (3)"
//
// is reported as
//
//	"savestate: unsupported version (3)"
package curated
