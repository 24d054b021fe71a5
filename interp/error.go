// Copyright © 2024 The ELPS authors

package interp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/plist/diagnostic"
	"github.com/luthersystems/plist/parser"
	"github.com/luthersystems/plist/parser/token"
	"github.com/luthersystems/plist/plist"
)

// Condition names of errors raised by the interpreter itself.  Errors
// raised by list operations use the names of their plist.ErrorKind.
const (
	CondNameError      = "NameError"
	CondAttributeError = "AttributeError"
	CondAssertionError = "AssertionError"
	CondSyntaxError    = "SyntaxError"
	CondError          = "error"
)

// interpError is an error raised by the interpreter with a condition name.
type interpError struct {
	cond string
	msg  string
}

func (e *interpError) Error() string {
	if e.msg == "" {
		return e.cond
	}
	return e.cond + ": " + e.msg
}

func interpErrorf(cond string, format string, v ...interface{}) error {
	return &interpError{cond: cond, msg: fmt.Sprintf(format, v...)}
}

func nameError(name string) error {
	return interpErrorf(CondNameError, "name '%s' is not defined", name)
}

func attributeError(v plist.Value, name string) error {
	return interpErrorf(CondAttributeError, "'%s' object has no attribute '%s'", v.TypeName(), name)
}

// ErrorVal is an error raised while evaluating a statement.  Err is the
// underlying error, Source is the location of the statement and Text holds
// the source line when it is known.
type ErrorVal struct {
	Err    error
	Source *token.Location
	Text   string
}

func (e *ErrorVal) Error() string {
	if e.Source != nil {
		return fmt.Sprintf("%s: %s", e.Source, e.Err)
	}
	return e.Err.Error()
}

func (e *ErrorVal) Unwrap() error {
	return e.Err
}

// Condition returns the error condition name (e.g. "IndexError",
// "NameError").
func (e *ErrorVal) Condition() string {
	return Condition(e.Err)
}

// ErrorMessage returns the underlying message in the error without its
// condition name.
func (e *ErrorVal) ErrorMessage() string {
	var lerr *plist.Error
	if errors.As(e.Err, &lerr) {
		return lerr.Msg
	}
	var cerr *interpError
	if errors.As(e.Err, &cerr) {
		return cerr.msg
	}
	if errors.Is(e.Err, parser.ErrSyntax) {
		return strings.TrimPrefix(e.Err.Error(), parser.ErrSyntax.Error()+": ")
	}
	return e.Err.Error()
}

// WriteTrace writes the error and the offending source line to w.
func (e *ErrorVal) WriteTrace(w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	var n int
	var err error
	wrote := func(_n int, _err error) bool {
		n += _n
		err = _err
		return err == nil
	}
	if !wrote(bw.WriteString(e.Error())) {
		return n, err
	}
	if !wrote(bw.WriteString("\n")) {
		return n, err
	}
	if e.Text != "" && e.Source != nil && e.Source.Col > 0 {
		if !wrote(fmt.Fprintf(bw, "    %s\n", e.Text)) {
			return n, err
		}
		pad := strings.Repeat(" ", e.Source.Col-1)
		if !wrote(fmt.Fprintf(bw, "    %s^\n", pad)) {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Diagnostic converts the error to a diagnostic for display.
func (e *ErrorVal) Diagnostic() diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  e.ErrorMessage(),
	}
	switch cond := e.Condition(); {
	case cond == CondError:
	case d.Message == "":
		d.Message = cond
	default:
		d.Message = cond + ": " + d.Message
	}
	if e.Source != nil {
		span := diagnostic.Span{
			File:   e.Source.File,
			Line:   e.Source.Line,
			Col:    e.Source.Col,
			Source: e.Text,
		}
		if e.Source.Path != "" {
			span.File = e.Source.Path
		}
		d.Spans = append(d.Spans, span)
	}
	return d
}

// Condition returns the condition name of err.
func Condition(err error) string {
	var lerr *plist.Error
	if errors.As(err, &lerr) {
		return lerr.Kind.String()
	}
	var cerr *interpError
	if errors.As(err, &cerr) {
		return cerr.cond
	}
	if errors.Is(err, parser.ErrSyntax) {
		return CondSyntaxError
	}
	return CondError
}

// GoError returns the *ErrorVal wrapped by err, or nil if there is none.
func GoError(err error) *ErrorVal {
	var ev *ErrorVal
	if errors.As(err, &ev) {
		return ev
	}
	return nil
}
