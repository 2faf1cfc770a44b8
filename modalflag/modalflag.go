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

package modalflag

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

const modeSeparator = "/"

// ParseResult is returned from the Parse() function.
type ParseResult int

// List of valid ParseResult values.
const (
	// continue with command line processing
	ParseContinue ParseResult = iota

	// help was requested and has been printed
	ParseHelp

	// an error has occurred and is returned as the second return value
	ParseError
)

// Modes provides an easy way of handling command line arguments. The Output
// field should be specified before calling Parse() or help messages will not
// be seen.
type Modes struct {
	// where to print help messages
	Output io.Writer

	flags *flag.FlagSet

	args    []string
	argsIdx int

	// sub-modes for the next call to Parse(). the first entry is the default
	subModes []string

	// every mode selected by calls to Parse()
	path []string

	additionalHelp string
}

func (md *Modes) String() string {
	return md.Path()
}

// Mode returns the last mode to be selected.
func (md *Modes) Mode() string {
	if len(md.path) == 0 {
		return ""
	}
	return md.path[len(md.path)-1]
}

// Path returns all the modes selected so far.
func (md *Modes) Path() string {
	return strings.Join(md.path, modeSeparator)
}

// NewArgs resets the Modes instance with a new argument list.
func (md *Modes) NewArgs(args []string) {
	md.args = args
	md.argsIdx = 0
	md.path = md.path[:0]
	md.NewMode()
}

// NewMode indicates that further arguments belong to a new mode.
func (md *Modes) NewMode() {
	md.subModes = md.subModes[:0]
	md.additionalHelp = ""
	md.flags = flag.NewFlagSet("", flag.ContinueOnError)
	md.flags.SetOutput(io.Discard)
}

// AdditionalHelp is printed after the list of flags and sub-modes.
func (md *Modes) AdditionalHelp(help string) {
	md.additionalHelp = help
}

// AddSubModes to the list of sub-modes for the next call to Parse(). The
// first sub-mode ever added is the default. Comparisons are case insensitive.
func (md *Modes) AddSubModes(submodes ...string) {
	for _, s := range submodes {
		md.subModes = append(md.subModes, strings.ToUpper(s))
	}
}

// Parse the current layer of arguments.
func (md *Modes) Parse() (ParseResult, error) {
	err := md.flags.Parse(md.args[md.argsIdx:])
	if err != nil {
		if err == flag.ErrHelp {
			md.help()
			return ParseHelp, nil
		}
		return ParseError, err
	}

	// everything up to the first non-flag argument has been consumed
	md.argsIdx = len(md.args) - md.flags.NArg()

	if len(md.subModes) > 0 {
		mode := md.subModes[0]
		arg := strings.ToUpper(md.flags.Arg(0))
		for _, s := range md.subModes {
			if s == arg {
				mode = s
				md.argsIdx++
				break
			}
		}
		md.path = append(md.path, mode)
	}

	return ParseContinue, nil
}

func (md *Modes) help() {
	if md.Output == nil {
		return
	}

	if md.Path() == "" {
		fmt.Fprintln(md.Output, "Usage:")
	} else {
		fmt.Fprintf(md.Output, "Usage for %s mode:\n", md.Path())
	}

	md.flags.SetOutput(md.Output)
	md.flags.PrintDefaults()
	md.flags.SetOutput(io.Discard)

	if len(md.subModes) > 0 {
		fmt.Fprintf(md.Output, "  available sub-modes: %s\n", strings.Join(md.subModes, ", "))
		fmt.Fprintf(md.Output, "    default: %s\n", md.subModes[0])
	}

	if md.additionalHelp != "" {
		fmt.Fprintf(md.Output, "\n%s\n", md.additionalHelp)
	}
}

// RemainingArgs returns the arguments that are not flags or sub-modes.
func (md *Modes) RemainingArgs() []string {
	return md.args[md.argsIdx:]
}

// GetArg returns the numbered argument that isn't a flag or sub-mode.
func (md *Modes) GetArg(i int) string {
	r := md.RemainingArgs()
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// AddBool flag for next call to Parse().
func (md *Modes) AddBool(name string, value bool, usage string) *bool {
	return md.flags.Bool(name, value, usage)
}

// AddInt flag for next call to Parse().
func (md *Modes) AddInt(name string, value int, usage string) *int {
	return md.flags.Int(name, value, usage)
}

// AddUint64 flag for next call to Parse().
func (md *Modes) AddUint64(name string, value uint64, usage string) *uint64 {
	return md.flags.Uint64(name, value, usage)
}

// AddString flag for next call to Parse().
func (md *Modes) AddString(name string, value string, usage string) *string {
	return md.flags.String(name, value, usage)
}
