// Copyright © 2018 The ELPS authors

// Package token defines the terminal symbols of the statement language and
// the source locations attached to parsed statements.
package token

import "fmt"

// Type identifies a terminal symbol.  The String form of a Type is the name
// given to the terminal in the grammar.
type Type uint

// Type constants used by the statement parser.
const (
	INVALID Type = iota

	// Atomic expressions & literals
	NAME
	NUMBER
	STRING
	STRING_SQ

	COMMENT

	// Keywords
	DEL
	IN
	NOT_IN

	// Operators
	ASSIGN
	PLUS_ASSIGN
	STAR_ASSIGN
	PLUS
	MINUS
	STAR
	EQ
	NE
	LE
	GE
	LT
	GT

	// Delimiters
	PAREN_L
	PAREN_R
	BRACE_L
	BRACE_R
	COMMA
	COLON
	DOT
	SEMICOLON

	numTokenTypes
)

var typeStrings = [numTokenTypes]string{
	INVALID:     "INVALID",
	NAME:        "NAME",
	NUMBER:      "NUMBER",
	STRING:      "STRING",
	STRING_SQ:   "STRING_SQ",
	COMMENT:     "COMMENT",
	DEL:         "DEL",
	IN:          "IN",
	NOT_IN:      "NOT_IN",
	ASSIGN:      "ASSIGN",
	PLUS_ASSIGN: "PLUS_ASSIGN",
	STAR_ASSIGN: "STAR_ASSIGN",
	PLUS:        "PLUS",
	MINUS:       "MINUS",
	STAR:        "STAR",
	EQ:          "EQ",
	NE:          "NE",
	LE:          "LE",
	GE:          "GE",
	LT:          "LT",
	GT:          "GT",
	PAREN_L:     "PAREN_L",
	PAREN_R:     "PAREN_R",
	BRACE_L:     "BRACE_L",
	BRACE_R:     "BRACE_R",
	COMMA:       "COMMA",
	COLON:       "COLON",
	DOT:         "DOT",
	SEMICOLON:   "SEMICOLON",
}

func (typ Type) String() string {
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// Lookup returns the Type named s, or INVALID.
func Lookup(s string) Type {
	for i, name := range typeStrings {
		if name == s {
			return Type(i)
		}
	}
	return INVALID
}

// Location is a position in a source stream.
type Location struct {
	File string // a name representing the source stream
	Path string // a physical location which may differ from File
	Pos  int
	Line int // line number (starting at 1 when tracked)
	Col  int // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

// LocationError is an error tied to a source location.  Text holds the
// source line containing the location when it is known.
type LocationError struct {
	Err    error
	Source *Location
	Text   string
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

func (err *LocationError) Unwrap() error {
	return err.Err
}
