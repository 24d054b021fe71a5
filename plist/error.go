// Copyright © 2024 The ELPS authors

package plist

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the errors raised by list operations.  The kinds
// mirror the exception classes of the host language.
type ErrorKind uint8

// ErrorKind constants.  The zero value is not a valid kind.
const (
	InvalidError ErrorKind = iota
	IndexError
	ValueError
	TypeError
	MemoryError
	RecursionError
)

var errorKindStrings = []string{
	InvalidError:   "InvalidError",
	IndexError:     "IndexError",
	ValueError:     "ValueError",
	TypeError:      "TypeError",
	MemoryError:    "MemoryError",
	RecursionError: "RecursionError",
}

func (k ErrorKind) String() string {
	if int(k) >= len(errorKindStrings) {
		return errorKindStrings[InvalidError]
	}
	return errorKindStrings[k]
}

// Error is the error type returned by every failing list operation.  Msg is
// a human readable message.  TypeName names the type of the offending value
// when one is known.
type Error struct {
	Kind     ErrorKind
	Msg      string
	TypeName string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

// Is reports whether target is an *Error of the same kind with no message,
// allowing errors.Is(err, &Error{Kind: IndexError}) style checks.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Kind == e.Kind
}

// Errorf returns an *Error of the given kind with a formatted message.
func Errorf(kind ErrorKind, format string, v ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, v...)}
}

// typeErrorf returns a TypeError blaming a value of type v.
func typeErrorf(v Value, format string, args ...interface{}) *Error {
	err := Errorf(TypeError, format, args...)
	if v != nil {
		err.TypeName = v.TypeName()
	}
	return err
}

// IsKind returns true if err wraps an *Error with the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// KindOfError returns the kind of the *Error wrapped by err, or
// InvalidError when err is not a list error.
func KindOfError(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return InvalidError
}

var (
	// ErrStoreMismatch is returned by storage writes when the value cannot
	// be represented by the storage kind.  Callers respond by generalizing
	// the storage and retrying the write.
	ErrStoreMismatch = errors.New("plist: value not representable by storage kind")

	// ErrInternal is the panic value (wrapped) used when an internal
	// invariant of the storage engine is violated.
	ErrInternal = errors.New("plist: internal invariant violated")
)

func internalf(format string, v ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInternal}, v...)...)
}

func indexError(msg string) *Error {
	return &Error{Kind: IndexError, Msg: msg}
}

func memoryError() *Error {
	return &Error{Kind: MemoryError}
}
