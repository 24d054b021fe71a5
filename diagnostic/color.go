// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"io"

	"github.com/muesli/termenv"
)

// ColorMode controls when ANSI color codes are used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // detect based on terminal and NO_COLOR
	ColorAlways                  // always use colors
	ColorNever                   // never use colors
)

// ParseColorMode converts "auto", "always" or "never" to a ColorMode.  The
// boolean result is false for any other string.
func ParseColorMode(s string) (ColorMode, bool) {
	switch s {
	case "auto", "":
		return ColorAuto, true
	case "always":
		return ColorAlways, true
	case "never":
		return ColorNever, true
	}
	return ColorAuto, false
}

// palette holds the ANSI escape sequences for diagnostic output.
type palette struct {
	bold     string
	yellow   string
	boldRed  string
	boldBlue string
	boldCyan string
	reset    string
}

func sgr(params string) string {
	return termenv.CSI + params + "m"
}

var ansiPalette = palette{
	bold:     sgr("1"),
	yellow:   sgr("33"),
	boldRed:  sgr("1;31"),
	boldBlue: sgr("1;34"),
	boldCyan: sgr("1;36"),
	reset:    sgr(termenv.ResetSeq),
}

var noPalette = palette{}

// choosePalette selects the color palette for output written to w.  In
// ColorAuto mode colors are used only when w is a terminal and the
// environment does not disable them.
func choosePalette(mode ColorMode, w io.Writer) palette {
	switch mode {
	case ColorAlways:
		return ansiPalette
	case ColorNever:
		return noPalette
	default:
		if termenv.NewOutput(w).EnvColorProfile() == termenv.Ascii {
			return noPalette
		}
		return ansiPalette
	}
}
