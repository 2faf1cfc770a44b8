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

package easyterm

// List of ASCII codes for non-alphanumeric characters.
const (
	KeyInterrupt      = 3  // end-of-text character
	KeyBackspace      = 8  // backspace
	KeyTab            = 9  // horizontal tab
	KeyLineFeed       = 10 // line feed
	KeyCarriageReturn = 13 // carriage return
	KeySuspend        = 26 // substitute character
	KeyEsc            = 27 // escape
	KeyDelete         = 127
)

// List of ASCII codes for characters that can follow KeyEsc.
const (
	EscCursor = '['
)

// List of ASCII codes for characters that can follow EscCursor.
const (
	CursorUp       = 'A'
	CursorDown     = 'B'
	CursorForward  = 'C'
	CursorBackward = 'D'
	CursorEnd      = 'F'
	CursorHome     = 'H'
	CursorDelete   = '3' // followed by '~'
)
