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

package commandline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jetsetilly/gopherds/curated"
)

// Error patterns returned by validation.
const (
	UnknownCommand = "%s: unrecognised command"
	BadArguments   = "%s: %s"
)

// Command is the definition of a single command.
type Command struct {
	Keyword string

	// usage string for the arguments. shown by help and on validation
	// failure
	Usage string

	// the permitted values of the first argument. if the list is empty then
	// the argument is free-form
	Options []string

	// number of arguments accepted by the command. a MaxArgs of -1 means
	// there is no upper limit
	MinArgs int
	MaxArgs int

	// help text
	Help string
}

func (c Command) usage() string {
	if c.Usage != "" {
		return fmt.Sprintf("%s %s", c.Keyword, c.Usage)
	}
	if len(c.Options) > 0 {
		opts := strings.Join(c.Options, "|")
		if c.MinArgs == 0 {
			return fmt.Sprintf("%s [%s]", c.Keyword, opts)
		}
		return fmt.Sprintf("%s (%s)", c.Keyword, opts)
	}
	return c.Keyword
}

// Commands is the list of commands accepted by the command line.
type Commands struct {
	index map[string]*Command
	cmds  []*Command
}

// NewCommands creates a Commands instance from a table of definitions.
// Keywords are stored in upper case and must be unique.
func NewCommands(defs []Command) (*Commands, error) {
	cmds := &Commands{
		index: make(map[string]*Command),
	}

	for i := range defs {
		c := defs[i]
		c.Keyword = strings.ToUpper(c.Keyword)
		if c.Keyword == "" {
			return nil, curated.Errorf("commandline: empty keyword in definition %d", i)
		}
		if _, ok := cmds.index[c.Keyword]; ok {
			return nil, curated.Errorf("commandline: %s: already defined", c.Keyword)
		}
		if c.MaxArgs >= 0 && c.MaxArgs < c.MinArgs {
			return nil, curated.Errorf("commandline: %s: bad argument count", c.Keyword)
		}
		for j := range c.Options {
			c.Options[j] = strings.ToUpper(c.Options[j])
		}
		cmds.index[c.Keyword] = &c
		cmds.cmds = append(cmds.cmds, &c)
	}

	sort.Slice(cmds.cmds, func(i, j int) bool {
		return cmds.cmds[i].Keyword < cmds.cmds[j].Keyword
	})

	return cmds, nil
}

// Keywords returns the sorted list of command keywords.
func (cmds Commands) Keywords() []string {
	k := make([]string, len(cmds.cmds))
	for i, c := range cmds.cmds {
		k[i] = c.Keyword
	}
	return k
}

// Validate tokenises the input and checks it against the command definitions.
func (cmds Commands) Validate(input string) error {
	return cmds.ValidateTokens(TokeniseInput(input))
}

// ValidateTokens checks the tokenised input against the command definitions.
// On success the command keyword and any option argument are normalised to
// upper case. The token list is reset before returning.
func (cmds Commands) ValidateTokens(tokens *Tokens) error {
	defer tokens.Reset()

	if len(tokens.tokens) == 0 {
		return nil
	}

	kw := strings.ToUpper(tokens.tokens[0])
	c, ok := cmds.index[kw]
	if !ok {
		return curated.Errorf(UnknownCommand, tokens.tokens[0])
	}
	tokens.tokens[0] = kw

	n := len(tokens.tokens) - 1
	if n < c.MinArgs {
		return curated.Errorf(BadArguments, kw, "too few arguments")
	}
	if c.MaxArgs >= 0 && n > c.MaxArgs {
		return curated.Errorf(BadArguments, kw, "too many arguments")
	}

	if n > 0 && len(c.Options) > 0 {
		arg := strings.ToUpper(tokens.tokens[1])
		found := false
		for _, o := range c.Options {
			if o == arg {
				found = true
				break
			}
		}
		if !found {
			return curated.Errorf(BadArguments, kw, fmt.Sprintf("unrecognised argument (%s)", tokens.tokens[1]))
		}
		tokens.tokens[1] = arg
	}

	return nil
}

// HelpOverview returns a columnised list of all commands.
func (cmds Commands) HelpOverview() string {
	width := 0
	for _, c := range cmds.cmds {
		if len(c.Keyword) > width {
			width = len(c.Keyword)
		}
	}

	const cols = 5
	s := strings.Builder{}
	for i, c := range cmds.cmds {
		s.WriteString(fmt.Sprintf("%-*s", width+2, c.Keyword))
		if i%cols == cols-1 {
			s.WriteString("\n")
		}
	}
	return strings.TrimRight(s.String(), " \n")
}

// Help returns the usage and help text for the keyword.
func (cmds Commands) Help(keyword string) string {
	c, ok := cmds.index[strings.ToUpper(keyword)]
	if !ok {
		return fmt.Sprintf("no help for %s", strings.ToUpper(keyword))
	}

	s := strings.Builder{}
	s.WriteString(c.usage())
	if c.Help != "" {
		s.WriteString("\n\n")
		s.WriteString(c.Help)
	}
	return s.String()
}
