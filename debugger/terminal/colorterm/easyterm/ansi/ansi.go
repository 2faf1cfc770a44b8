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

// Package ansi defines ANSI control codes for styles and colours.
package ansi

import (
	"fmt"
	"strings"
)

// the numbering of the ANSI colours.
var colors = map[string]int{
	"BLACK":   0,
	"RED":     1,
	"GREEN":   2,
	"YELLOW":  3,
	"BLUE":    4,
	"MAGENTA": 5,
	"CYAN":    6,
	"WHITE":   7,
	"NORMAL":  9,
}

var attributes = map[string]int{
	"BOLD":      1,
	"DIM":       2,
	"ITALIC":    3,
	"UNDERLINE": 4,
	"INVERSE":   7,
	"STRIKE":    9,
}

// ANSI targets.
const (
	targetPen         = 30
	targetPaper       = 40
	targetBrightPen   = 90
	targetBrightPaper = 100
)

// Pens is the table of colours to be used for text.
var Pens = map[string]string{}

// DimPens is the table of pastel colours to be used for text.
var DimPens = map[string]string{}

// PenStyles is the table of styles to be used for text.
var PenStyles = map[string]string{}

// NormalPen is the CSI sequence for regular text.
var NormalPen = "\033[m"

func init() {
	for _, c := range []string{"red", "green", "yellow", "blue", "magenta", "cyan", "white"} {
		Pens[c] = must(ColorBuild(c, "", "", true, false))
		DimPens[c] = must(ColorBuild(c, "", "", false, false))
	}
	for _, a := range []string{"bold", "underline", "italic"} {
		PenStyles[a] = must(ColorBuild("", "", a, false, false))
	}
}

func must(s string, err error) string {
	if err != nil {
		panic(err)
	}
	return s
}

// ColorBuild creates the ANSI sequence to create the pen with the
// foreground and background colour and attribute. Empty strings leave that
// part of the pen unchanged.
func ColorBuild(pen string, paper string, attribute string, brightPen bool, brightPaper bool) (string, error) {
	var codes []string

	if pen != "" {
		c, ok := colors[strings.ToUpper(pen)]
		if !ok {
			return "", fmt.Errorf("ansi: unknown pen (%s)", pen)
		}
		if brightPen {
			c += targetBrightPen
		} else {
			c += targetPen
		}
		codes = append(codes, fmt.Sprint(c))
	}

	if paper != "" {
		c, ok := colors[strings.ToUpper(paper)]
		if !ok {
			return "", fmt.Errorf("ansi: unknown paper (%s)", paper)
		}
		if brightPaper {
			c += targetBrightPaper
		} else {
			c += targetPaper
		}
		codes = append(codes, fmt.Sprint(c))
	}

	if attribute != "" && !strings.EqualFold(attribute, "normal") {
		a, ok := attributes[strings.ToUpper(attribute)]
		if !ok {
			return "", fmt.Errorf("ansi: unknown attribute (%s)", attribute)
		}
		codes = append(codes, fmt.Sprint(a))
	}

	return fmt.Sprintf("\033[%sm", strings.Join(codes, ";")), nil
}

// ClearLine is the CSI sequence to clear the entire current line.
const ClearLine = "\033[2K"

// CursorStore is the CSI sequence to store the current cursor position.
const CursorStore = "\033[s"

// CursorRestore is the CSI sequence to restore the cursor position to a
// previous store.
const CursorRestore = "\033[u"

// CursorForwardOne is the CSI sequence to move the cursor forward one
// character.
const CursorForwardOne = "\033[1C"

// CursorBackwardOne is the CSI sequence to move the cursor backward one
// character.
const CursorBackwardOne = "\033[1D"

// CursorMove is the CSI sequence to move the cursor n characters forward
// (positive numbers) or n characters backwards (negative numbers).
func CursorMove(n int) string {
	if n < 0 {
		return fmt.Sprintf("\033[%dD", -n)
	} else if n > 0 {
		return fmt.Sprintf("\033[%dC", n)
	}
	return ""
}
