// Copyright © 2024 The ELPS authors

package interp

import "github.com/luthersystems/plist/parser/token"

// Profiler observes the list operations performed by an environment.
type Profiler interface {
	// IsEnabled returns true if the profiler is collecting data.
	IsEnabled() bool
	// Enable starts collecting data.
	Enable() error
	// SetFile sets the file to output to.  Profilers which do not write
	// files return an error.
	SetFile(filename string) error
	// Complete ends the profiling session and flushes any output.
	Complete() error
	// Start marks the beginning of op and returns a function marking its
	// end.
	Start(op *Op) func()
}

// Op describes one operation dispatched by the interpreter: a builtin
// function, a method call or an operator applied to a value.
type Op struct {
	// Namespace is the type name of the receiver ("list", "tuple") or
	// "builtin" for builtin functions.
	Namespace string
	// Name is the method name.  Operators use their special method names
	// (e.g. "__add__", "__setitem__").
	Name string
	// Source is the location of the statement performing the operation.
	Source *token.Location
}

// Label returns the qualified name of the operation, e.g. "list.append".
func (op *Op) Label() string {
	if op.Namespace == "" {
		return op.Name
	}
	return op.Namespace + "." + op.Name
}
