// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"

	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/parser"
	"github.com/spf13/viper"
)

// newEnv returns an environment configured from the command line and
// config file.  Program output is written to stdout.
func newEnv(stdout io.Writer, configs ...interp.Config) (*interp.Env, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}
	env := interp.NewEnv(nil)
	all := []interp.Config{
		interp.WithReader(parser.NewReader()),
		interp.WithStdout(stdout),
		interp.WithLogger(logger),
	}
	if n := viper.GetInt64("max-repeat"); n > 0 {
		all = append(all, interp.WithMaxRepeatLength(n))
	}
	all = append(all, configs...)
	if err := interp.InitializeEnv(env, all...); err != nil {
		return nil, err
	}
	return env, nil
}
