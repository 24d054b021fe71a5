// Copyright © 2024 The ELPS authors

// Package plisttest runs table driven and script based tests against the
// list interpreter.
package plisttest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/parser"
	"github.com/luthersystems/plist/parser/ast"
	"github.com/luthersystems/plist/plist"
	"github.com/rs/zerolog"
)

// TestSequence is a sequence of statements which are evaluated sequentially
// by an interp.Env.
type TestSequence []struct {
	Expr   string // a single statement
	Result string // the repr of the result or "Condition: message" for an error
	Output string // output written to Runtime.Stdout
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// Result formats the outcome of evaluating a statement the way TestSequence
// expects it.
func Result(v plist.Value, err error) string {
	if err != nil {
		ev := interp.GoError(err)
		if ev == nil {
			return err.Error()
		}
		msg := ev.ErrorMessage()
		if msg == "" {
			return ev.Condition()
		}
		return ev.Condition() + ": " + msg
	}
	s, err := plist.Repr(v)
	if err != nil {
		return Result(nil, &interp.ErrorVal{Err: err})
	}
	return s
}

// RunTestSuite runs each TestSequence in tests on isolated environments.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		var out bytes.Buffer
		env := interp.NewEnv(nil)
		err := interp.InitializeEnv(env,
			interp.WithReader(parser.NewReader()),
			interp.WithStdout(&out),
			interp.WithLogger(zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)),
		)
		if err != nil {
			t.Errorf("test %d %q: %v", i, test.Name, err)
			continue
		}
		for j, expr := range test.TestSequence {
			out.Reset()
			stmts, err := env.Read("test", strings.NewReader(expr.Expr))
			if err != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			if len(stmts) != 1 {
				t.Errorf("test %d %q: expr %d: expected one statement (got %d)", i, test.Name, j, len(stmts))
				continue
			}
			result := Result(env.Eval(stmts[0]))
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: %s: expected result %s (got %s)", i, test.Name, j, expr.Expr, expr.Result, result)
			}
			if out.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: %s: expected output %q (got %q)", i, test.Name, j, expr.Expr, expr.Output, out.String())
			}
		}
	}
}

// Runner runs tests declared in script files.  A script is divided into
// tests by header comments of the form
//
//	# test: name
//
// Statements before the first header are setup evaluated before every
// test.  Each test runs in a new environment and fails at the first
// statement returning an error.  Scripts check their expectations with the
// assert builtin.
type Runner struct {
	// Configs are applied to each new environment after the defaults.
	Configs []interp.Config

	// Teardown runs after each test.  An error returned by the teardown
	// function is reported as a test failure.
	Teardown func(*interp.Env) error
}

var testHeader = regexp.MustCompile(`^\s*#\s*test:\s*(\S.*?)\s*$`)

// ScriptTest is a named test within a script file.
type ScriptTest struct {
	Name  string
	Stmts []ast.Stmt
}

// NewEnv returns an environment for a test writing output to t.Log.
func (r *Runner) NewEnv(t testing.TB) (*interp.Env, *Logger, error) {
	logger := NewLogger(t)
	env := interp.NewEnv(nil)
	configs := append([]interp.Config{
		interp.WithReader(parser.NewReader()),
		interp.WithStdout(logger),
		interp.WithStderr(logger),
	}, r.Configs...)
	err := interp.InitializeEnv(env, configs...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize environment: %w", err)
	}
	return env, logger, nil
}

// LoadTests parses the script in source and returns its setup statements
// and tests.
func (r *Runner) LoadTests(t testing.TB, path string, source []byte) ([]ast.Stmt, []ScriptTest) {
	env, _, err := r.NewEnv(t)
	if err != nil {
		t.Fatal(err.Error())
	}
	stmts, err := env.Read(filepath.Base(path), bytes.NewReader(source))
	if err != nil {
		r.ScriptError(t, err)
		t.FailNow()
	}
	var headers []int
	var names []string
	for i, line := range strings.Split(string(source), "\n") {
		if m := testHeader.FindStringSubmatch(line); m != nil {
			headers = append(headers, i+1)
			names = append(names, m[1])
		}
	}
	var setup []ast.Stmt
	tests := make([]ScriptTest, len(names))
	for i := range names {
		tests[i].Name = names[i]
	}
	for _, stmt := range stmts {
		k := -1
		for k+1 < len(headers) && headers[k+1] < stmt.Loc().Line {
			k++
		}
		if k < 0 {
			setup = append(setup, stmt)
			continue
		}
		tests[k].Stmts = append(tests[k].Stmts, stmt)
	}
	return setup, tests
}

// RunTestFile runs every test in the script at path as a subtest of t.
func (r *Runner) RunTestFile(t *testing.T, path string) {
	source, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		t.Errorf("Unable to read test file: %v", err)
		return
	}
	var setup []ast.Stmt
	var tests []ScriptTest
	ok := t.Run("$load", func(t *testing.T) {
		setup, tests = r.LoadTests(t, path, source)
	})
	if !ok {
		return
	}
	if len(tests) == 0 {
		t.Errorf("no tests declared in %s", path)
		return
	}
	for _, test := range tests {
		test := test
		// Independent tests all run even when one fails.
		t.Run(test.Name, func(t *testing.T) {
			r.runTest(t, setup, test.Stmts)
		})
	}
}

func (r *Runner) runTest(t *testing.T, setup, stmts []ast.Stmt) {
	env, logger, err := r.NewEnv(t)
	if err != nil {
		t.Error(err.Error())
		return
	}
	defer logger.Flush()
	if r.Teardown != nil {
		defer func() {
			if err := r.Teardown(env); err != nil {
				t.Errorf("teardown: %v", err)
			}
		}()
	}
	for _, list := range [][]ast.Stmt{setup, stmts} {
		for _, stmt := range list {
			if _, err := env.Eval(stmt); err != nil {
				r.ScriptError(t, err)
				return
			}
		}
	}
}

// ScriptError reports err as a test failure with its source trace.
func (r *Runner) ScriptError(t testing.TB, err error) {
	ev := interp.GoError(err)
	if ev == nil {
		t.Error(err)
		return
	}
	var buf bytes.Buffer
	_, ioerr := ev.WriteTrace(&buf)
	if ioerr != nil {
		t.Errorf("io error: %v", ioerr)
		t.Error(err)
		return
	}
	t.Error(buf.String())
}

// RunBenchmark runs a standard benchmark that evaluates the statements
// parsed from source in a new environment on each iteration.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	p := parser.NewReader()
	stmts, err := p.Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		env := interp.NewEnv(nil)
		err := interp.InitializeEnv(env,
			interp.WithReader(p),
			interp.WithStdout(io.Discard),
		)
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		for j, stmt := range stmts {
			if _, err := env.Eval(stmt); err != nil {
				b.Fatalf("stmt %d: %v", j, err)
			}
		}
		b.StopTimer()
	}
}
