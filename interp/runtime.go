// Copyright © 2024 The ELPS authors

package interp

import (
	"io"
	"os"

	"github.com/luthersystems/plist/parser/ast"
	"github.com/rs/zerolog"
)

// Reader parses statements from a source stream.
type Reader interface {
	Read(name string, r io.Reader) ([]ast.Stmt, error)
}

// DefaultMaxRepeatLength is the largest list a repetition (x * n) may
// produce unless the runtime is configured otherwise.
const DefaultMaxRepeatLength = 1 << 26

// Runtime holds the state shared by an environment and everything it
// evaluates.  It is responsible for writing program output (typically
// os.Stdout), diagnostics (typically os.Stderr) and structured log events.
type Runtime struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   zerolog.Logger
	Profiler Profiler
	Reader   Reader
	Debugger Debugger

	// MaxRepeatLength bounds the length of lists produced by repetition.
	// Zero means the list engine's own limit applies.
	MaxRepeatLength int64
}

// StandardRuntime returns a new Runtime writing to os.Stdout and os.Stderr
// with logging disabled.
func StandardRuntime() *Runtime {
	return &Runtime{
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
		Logger:          zerolog.Nop(),
		MaxRepeatLength: DefaultMaxRepeatLength,
	}
}
