// Copyright © 2024 The ELPS authors

package interp

import (
	"io"

	"github.com/rs/zerolog"
)

// Config is a function that configures an environment or its runtime.
type Config func(env *Env) error

// WithReader returns a Config that makes environments use r to parse source
// streams.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(env *Env) error {
		env.Runtime.Reader = r
		return nil
	}
}

// WithStdout returns a Config that makes environments write program output
// to w instead of the default, os.Stdout.
func WithStdout(w io.Writer) Config {
	return func(env *Env) error {
		env.Runtime.Stdout = w
		return nil
	}
}

// WithStderr returns a Config that makes environments write debugging output
// to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(env *Env) error {
		env.Runtime.Stderr = w
		return nil
	}
}

// WithLogger returns a Config that sends structured log events to logger.
func WithLogger(logger zerolog.Logger) Config {
	return func(env *Env) error {
		env.Runtime.Logger = logger
		return nil
	}
}

// WithProfiler returns a Config that attaches p to the runtime and enables
// it.
func WithProfiler(p Profiler) Config {
	return func(env *Env) error {
		env.Runtime.Profiler = p
		if p.IsEnabled() {
			return nil
		}
		return p.Enable()
	}
}

// WithMaxRepeatLength returns a Config that limits the length of lists
// produced by repetition to n elements.  A repetition exceeding the limit
// fails with a MemoryError.
func WithMaxRepeatLength(n int64) Config {
	return func(env *Env) error {
		env.Runtime.MaxRepeatLength = n
		return nil
	}
}
