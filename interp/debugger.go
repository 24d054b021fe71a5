// Copyright © 2024 The ELPS authors

package interp

import (
	"github.com/luthersystems/plist/parser/ast"
	"github.com/luthersystems/plist/plist"
)

// Debugger receives control at statement boundaries.  Hooks are called on
// the goroutine evaluating statements and only while IsEnabled returns
// true.
type Debugger interface {
	IsEnabled() bool
	// OnStmt is called before stmt is evaluated.  Returning true makes
	// the environment call WaitIfPaused before evaluating stmt.
	OnStmt(env *Env, stmt ast.Stmt) bool
	// OnError is called when stmt fails with err.  Returning true makes
	// the environment call WaitIfPaused with err before returning it.
	OnError(env *Env, stmt ast.Stmt, err error) bool
	// WaitIfPaused blocks until the debugger resumes evaluation.
	WaitIfPaused(env *Env, stmt ast.Stmt, err error)
}

// WithDebugger returns a Config that attaches d to the runtime.
func WithDebugger(d Debugger) Config {
	return func(env *Env) error {
		env.Runtime.Debugger = d
		return nil
	}
}

// Truthy reports whether v is true in a condition.
func Truthy(v plist.Value) bool {
	return truthy(v)
}

func (env *Env) debugger() Debugger {
	d := env.Runtime.Debugger
	if d == nil || !d.IsEnabled() {
		return nil
	}
	return d
}
