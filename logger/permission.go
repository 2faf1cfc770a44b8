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

package logger

// Permission implementations indicate whether the environment making a log
// request is allowed to create new log entries.
type Permission interface {
	AllowLogging() bool
}

type allow struct{}

func (allow) AllowLogging() bool {
	return true
}

// Allow indicates that the logging request should be allowed.
var Allow Permission = allow{}

type deny struct{}

func (deny) AllowLogging() bool {
	return false
}

// Deny indicates that the logging request should be silently dropped.
var Deny Permission = deny{}
