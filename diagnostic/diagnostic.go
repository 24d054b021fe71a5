// Copyright © 2024 The ELPS authors

// Package diagnostic renders errors as annotated source snippets for the
// command line tools.  It does not depend on the interpreter, which converts
// its errors to Diagnostic values.
package diagnostic

// Severity ranks a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span marks the part of a source line a diagnostic points at.  Line and
// column numbers start at 1.  An EndCol of zero underlines the token that
// starts at Col.
type Span struct {
	File   string
	Line   int
	Col    int
	EndCol int
	Label  string

	// Source is the text of the line, e.g. a REPL input line.  When set
	// the file is not read.
	Source string
}

// Diagnostic is one rendered message.  Notes are printed after the
// snippet, one "= note:" line each.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string
}

// Error implements the error interface with the message prefixed by the
// severity, e.g. "error: IndexError: list index out of range".
func (d Diagnostic) Error() string {
	return d.Severity.String() + ": " + d.Message
}
