// Copyright © 2024 The ELPS authors

package interp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/luthersystems/plist/parser/ast"
	"github.com/luthersystems/plist/parser/token"
	"github.com/luthersystems/plist/plist"
)

// Read parses the statements in r using the runtime's Reader.  Syntax
// errors are returned as *ErrorVal.
func (env *Env) Read(name string, r io.Reader) ([]ast.Stmt, error) {
	if env.Runtime.Reader == nil {
		return nil, errors.New("no reader for the environment runtime")
	}
	stmts, err := env.Runtime.Reader.Read(name, r)
	if err != nil {
		var locErr *token.LocationError
		if errors.As(err, &locErr) {
			return stmts, &ErrorVal{Err: locErr.Err, Source: locErr.Source, Text: locErr.Text}
		}
		return stmts, &ErrorVal{Err: err}
	}
	return stmts, nil
}

// Load reads statements from r and evaluates them in order.  The value of
// the last statement is returned.  Evaluation stops at the first error.
func (env *Env) Load(name string, r io.Reader) (plist.Value, error) {
	stmts, err := env.Read(name, r)
	if err != nil {
		return nil, err
	}
	var v plist.Value = plist.None
	for _, stmt := range stmts {
		v, err = env.Eval(stmt)
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}

// LoadString evaluates the statements in source.
func (env *Env) LoadString(name string, source string) (plist.Value, error) {
	return env.Load(name, strings.NewReader(source))
}

// LoadFile evaluates the statements in the file at path.
func (env *Env) LoadFile(path string) (plist.Value, error) {
	f, err := os.Open(path) //#nosec G304
	if err != nil {
		return nil, fmt.Errorf("unable to open source file: %w", err)
	}
	defer f.Close()
	return env.Load(filepath.Base(path), f)
}
