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

// Package commandline facilitates parsing of command line input. Given a
// table of command definitions, it can be used to tokenise and validate user
// input. It also functions as a tab-completion engine, implementing the
// terminal.TabCompletion interface.
//
// The Commands type is the base product of the package. To create an instance
// of Commands, use NewCommands() with a table of definitions:
//
//	cmds, _ := NewCommands([]Command{
//		{Keyword: "LIST"},
//		{Keyword: "PRINT", Usage: "[%s]", MaxArgs: 1},
//		{Keyword: "SORT", Options: []string{"RISING", "FALLING"}, MinArgs: 1, MaxArgs: 1},
//	})
//
// Once created, the Commands instance can be used to validate input.
//
//	toks := TokeniseInput("list")
//	err := cmds.ValidateTokens(toks)
//
// Validation is case-insensitive. A successful validation normalises the
// command keyword in the token list to upper case. The Get() function can be
// used to retrieve the next token in line.
//
// The TabCompletion type transforms input such that it more closely resembles
// a valid command. The command keyword and, for commands with Options, the
// first argument are completed:
//
//	tbc := NewTabCompletion(cmds)
//	inp := tbc.Complete("LIS")
//
// In this instance the value of inp will be "LIST " (note the trailing space).
// Given a number of options to use for the completion, the first option will
// be returned first followed by the second, third, etc. on subsequent calls to
// Complete(). A tab completion session can be terminated with a call to
// Reset().
package commandline
