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

package modalflag_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/gopherds/modalflag"
	"github.com/jetsetilly/gopherds/test"
)

func TestNoModes(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-log", "game.nds"})
	log := md.AddBool("log", false, "log")

	p, err := md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectEquality(t, *log, true)
	test.ExpectEquality(t, md.Mode(), "")
	test.ExpectEquality(t, md.GetArg(0), "game.nds")
}

func TestSubModes(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-log", "trace", "-count", "10", "game.nds"})
	md.AddSubModes("RUN", "TRACE")
	log := md.AddBool("log", false, "log")

	p, err := md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectEquality(t, *log, true)
	test.ExpectEquality(t, md.Mode(), "TRACE")

	md.NewMode()
	count := md.AddInt("count", 0, "count")
	p, err = md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectEquality(t, *count, 10)
	test.ExpectEquality(t, md.GetArg(0), "game.nds")
	test.ExpectEquality(t, md.Path(), "TRACE")
}

func TestDefaultMode(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"game.nds"})
	md.AddSubModes("RUN", "TRACE")

	_, err := md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "RUN")
	test.ExpectEquality(t, md.GetArg(0), "game.nds")
}

func TestHelp(t *testing.T) {
	var w strings.Builder
	md := modalflag.Modes{Output: &w}
	md.NewArgs([]string{"-help"})
	md.AddSubModes("RUN", "TRACE")
	md.AddBool("log", false, "echo log")

	p, err := md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, modalflag.ParseHelp)
	test.ExpectSuccess(t, strings.Contains(w.String(), "available sub-modes: RUN, TRACE"))
	test.ExpectSuccess(t, strings.Contains(w.String(), "echo log"))

	md.NewArgs([]string{"-nosuchflag"})
	md.AddBool("log", false, "echo log")
	p, err = md.Parse()
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, p, modalflag.ParseError)
}
