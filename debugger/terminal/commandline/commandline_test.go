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

package commandline_test

import (
	"testing"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/debugger/terminal/commandline"
	"github.com/jetsetilly/gopherds/test"
)

func testCommands(t *testing.T) *commandline.Commands {
	t.Helper()
	cmds, err := commandline.NewCommands([]commandline.Command{
		{Keyword: "test", MaxArgs: 1, Options: []string{"arg"}},
		{Keyword: "test1", Usage: "[value]", MaxArgs: 1},
		{Keyword: "foo", Options: []string{"bar", "baz"}, MinArgs: 1, MaxArgs: 2, Help: "foo help"},
		{Keyword: "list", MaxArgs: -1},
	})
	test.DemandSuccess(t, err)
	return cmds
}

func TestDefinitions(t *testing.T) {
	_, err := commandline.NewCommands([]commandline.Command{
		{Keyword: "A"}, {Keyword: "a"},
	})
	test.ExpectFailure(t, err)

	_, err = commandline.NewCommands([]commandline.Command{
		{Keyword: ""},
	})
	test.ExpectFailure(t, err)

	_, err = commandline.NewCommands([]commandline.Command{
		{Keyword: "A", MinArgs: 2, MaxArgs: 1},
	})
	test.ExpectFailure(t, err)

	cmds := testCommands(t)
	test.ExpectEquality(t, len(cmds.Keywords()), 4)
	test.ExpectEquality(t, cmds.Keywords()[0], "FOO")
}

func TestValidation(t *testing.T) {
	cmds := testCommands(t)

	test.ExpectSuccess(t, cmds.Validate(""))
	test.ExpectSuccess(t, cmds.Validate("test"))
	test.ExpectSuccess(t, cmds.Validate("TEST arg"))
	test.ExpectFailure(t, cmds.Validate("test wibble"))
	test.ExpectFailure(t, cmds.Validate("test arg arg"))
	test.ExpectSuccess(t, cmds.Validate("test1 anything"))
	test.ExpectFailure(t, cmds.Validate("foo"))
	test.ExpectSuccess(t, cmds.Validate("foo baz 10"))
	test.ExpectSuccess(t, cmds.Validate("list a b c d e f"))

	err := cmds.Validate("wibble")
	test.ExpectEquality(t, curated.Is(err, commandline.UnknownCommand), true)

	toks := commandline.TokeniseInput("  foo   bar $ff ")
	test.ExpectSuccess(t, cmds.ValidateTokens(toks))
	test.ExpectEquality(t, toks.String(), "FOO BAR 0xff")
	kw, ok := toks.Get()
	test.ExpectEquality(t, ok, true)
	test.ExpectEquality(t, kw, "FOO")
	test.ExpectEquality(t, toks.Remaining(), 2)
	toks.Unget()
	test.ExpectEquality(t, toks.Remainder(), "FOO BAR 0xff")
}

func TestHelp(t *testing.T) {
	cmds := testCommands(t)
	test.ExpectEquality(t, cmds.Help("foo"), "FOO (BAR|BAZ)\n\nfoo help")
	test.ExpectEquality(t, cmds.Help("test"), "TEST [ARG]")
	test.ExpectEquality(t, cmds.Help("test1"), "TEST1 [value]")
	test.ExpectEquality(t, cmds.HelpOverview(), "FOO    LIST   TEST   TEST1")
}

func TestTabCompletion(t *testing.T) {
	tc := commandline.NewTabCompletion(testCommands(t))

	completion := tc.Complete("TE")
	test.ExpectEquality(t, completion, "TEST ")

	// next completion option
	completion = tc.Complete(completion)
	test.ExpectEquality(t, completion, "TEST1 ")

	// cycle back to the first completion option
	completion = tc.Complete(completion)
	test.ExpectEquality(t, completion, "TEST ")

	tc.Reset()
	test.ExpectEquality(t, tc.Complete("test a"), "TEST ARG ")

	tc.Reset()
	completion = tc.Complete("foo ba")
	test.ExpectEquality(t, completion, "FOO BAR ")
	completion = tc.Complete(completion)
	test.ExpectEquality(t, completion, "FOO BAZ ")

	// no options for free-form arguments
	tc.Reset()
	test.ExpectEquality(t, tc.Complete("test1 x"), "test1 x")

	// no match leaves input unchanged
	tc.Reset()
	test.ExpectEquality(t, tc.Complete("wib"), "wib")
}
