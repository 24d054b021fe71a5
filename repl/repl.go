// Copyright © 2024 The ELPS authors

// Package repl implements an interactive read-eval-print loop for the list
// scripting language.
package repl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/luthersystems/plist/diagnostic"
	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/parser"
	"github.com/luthersystems/plist/plist"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

type config struct {
	stdin   io.ReadCloser
	stdout  io.Writer
	stderr  io.WriteCloser
	color   diagnostic.ColorMode
	history string
	width   int
	configs []interp.Config
}

func newConfig(opts ...Option) *config {
	config := &config{history: historyPath()}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Option configures a REPL.
type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStdout overrides the writer used by the print builtin.
func WithStdout(stdout io.Writer) Option {
	return func(c *config) {
		c.stdout = stdout
	}
}

// WithStderr allows overriding the output of the REPL.  Results and
// errors are written to stderr.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithColor sets the color mode used to render errors.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithHistoryFile sets the file holding the line history.  An empty path
// disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.history = path
	}
}

// WithWrapWidth wraps printed values at width columns.  Zero disables
// wrapping.
func WithWrapWidth(width int) Option {
	return func(c *config) {
		c.width = width
	}
}

// WithEnvConfig applies additional configuration to the environment
// created by RunRepl.
func WithEnvConfig(configs ...interp.Config) Option {
	return func(c *config) {
		c.configs = append(c.configs, configs...)
	}
}

// RunRepl runs a repl in a new environment.
func RunRepl(prompt string, opts ...Option) {
	cfg := newConfig(opts...)
	env := interp.NewEnv(nil)
	envOpts := []interp.Config{
		interp.WithReader(parser.NewReader()),
	}
	if cfg.stdout != nil {
		envOpts = append(envOpts, interp.WithStdout(cfg.stdout))
	}
	if cfg.stderr != nil {
		envOpts = append(envOpts, interp.WithStderr(cfg.stderr))
	}
	envOpts = append(envOpts, cfg.configs...)
	err := interp.InitializeEnv(env, envOpts...)
	if err != nil {
		errlnf("Language initialization failure: %v", err)
		os.Exit(1)
	}
	RunEnv(env, prompt, opts...)
}

// RunEnv runs a repl evaluating statements in env.
func RunEnv(env *interp.Env, prompt string, opts ...Option) {
	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		env.Runtime.Stderr = cfg.stderr
	}
	ensureHistoryFilePermissions(cfg.history)

	rlCfg := &readline.Config{
		Stdout:            env.Runtime.Stderr,
		Stderr:            env.Runtime.Stderr,
		Prompt:            prompt,
		HistoryFile:       cfg.history,
		HistorySearchFold: true,
		AutoComplete:      &nameCompleter{env: env},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		panic(err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	r := &diagnostic.Renderer{Color: cfg.color}
	for {
		line, err := rl.ReadSlice()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			break
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		evalLine(env, r, string(line), cfg.width)
	}
}

// evalLine evaluates the statements on line and writes the value of each
// expression statement, other than None, to the runtime's stderr.
func evalLine(env *interp.Env, r *diagnostic.Renderer, line string, width int) {
	w := env.Runtime.Stderr
	stmts, err := env.Read("stdin", strings.NewReader(line))
	if err != nil {
		renderError(w, r, env, err)
		return
	}
	for _, stmt := range stmts {
		v, err := env.Eval(stmt)
		if err != nil {
			renderError(w, r, env, err)
			return
		}
		if v == plist.None {
			continue
		}
		s, err := plist.Repr(v)
		if err != nil {
			renderError(w, r, env, err)
			return
		}
		fmt.Fprintln(w, wrapValue(s, width)) //nolint:errcheck // best-effort REPL output
	}
}

// wrapValue breaks s after element separators where possible and hard
// wraps anything still wider than width.
func wrapValue(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	return wrap.String(wordwrap.String(s, width), width)
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".plist_history")
}

// ensureHistoryFilePermissions creates the history file at path, if
// needed, and restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0600) //#nosec G304
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}

func errlnf(format string, v ...interface{}) {
	if strings.HasSuffix(format, "\n") {
		errf(format, v...)
		return
	}
	errf(format+"\n", v...)
}

func errf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
}
