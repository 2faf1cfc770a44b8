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

package logger_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/gopherds/logger"
	"github.com/jetsetilly/gopherds/test"
)

func TestLogger(t *testing.T) {
	tw := &test.CompareWriter{}
	log := logger.NewLogger(2)

	log.Write(tw)
	test.ExpectSuccess(t, tw.Compare(""))

	log.Log(logger.Allow, "test", "this is a test")
	log.Write(tw)
	test.ExpectSuccess(t, tw.Compare("test: this is a test\n"))

	tw.Clear()
	log.Log(logger.Allow, "test2", errors.New("this is another test"))
	log.Write(tw)
	test.ExpectSuccess(t, tw.Compare("test: this is a test\ntest2: this is another test\n"))

	// asking for too many entries in a Tail() should be okay
	tw.Clear()
	log.Tail(tw, 100)
	test.ExpectSuccess(t, tw.Compare("test: this is a test\ntest2: this is another test\n"))

	tw.Clear()
	log.Tail(tw, 1)
	test.ExpectSuccess(t, tw.Compare("test2: this is another test\n"))

	tw.Clear()
	log.Tail(tw, 0)
	test.ExpectSuccess(t, tw.Compare(""))

	// repeated entries collapse
	tw.Clear()
	log.Logf(logger.Allow, "test2", "this is %s test", "another")
	log.Tail(tw, 1)
	test.ExpectSuccess(t, tw.Compare("test2: this is another test (repeat x2)\n"))

	// oldest entry is dropped when the maximum is exceeded
	tw.Clear()
	log.Log(logger.Allow, "test3", "overflow")
	log.Write(tw)
	test.ExpectSuccess(t, tw.Compare("test2: this is another test (repeat x2)\ntest3: overflow\n"))

	// denied requests are dropped
	log.Clear()
	log.Log(logger.Deny, "test", "denied")
	tw.Clear()
	log.Write(tw)
	test.ExpectSuccess(t, tw.Compare(""))
}

func TestEcho(t *testing.T) {
	tw := &test.CompareWriter{}
	log := logger.NewLogger(10)
	log.SetEcho(tw)
	log.Log(logger.Allow, "ARM9", "undefined instruction")
	test.ExpectSuccess(t, tw.Compare("ARM9: undefined instruction\n"))
	test.ExpectEquality(t, len(log.Copy()), 1)
}
