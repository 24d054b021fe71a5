// Copyright © 2024 The ELPS authors

package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/plist/diagnostic"
	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runReplWithString(t *testing.T, input string) string {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, input)
	}()

	go func() {
		RunRepl("plist> ",
			WithStdin(inR),
			WithStdout(outW),
			WithStderr(outW),
			WithColor(diagnostic.ColorNever),
			WithHistoryFile(""))
		inR.Close()  //nolint:errcheck,gosec // test cleanup
		outW.Close() //nolint:errcheck,gosec // test cleanup
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec // test cleanup

	return output.String()
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".plist_history")

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".plist_history")

	err := os.WriteFile(histFile, []byte("some history"), 0644)
	require.NoError(t, err)

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(histFile)
	require.NoError(t, err)
	assert.Equal(t, "some history", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	ensureHistoryFilePermissions("")
}

func TestRunRepl(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Expression",
			input:    "[1, 2] + [3]\n",
			expected: "[1, 2, 3]\n",
		},
		{
			name:     "Statements",
			input:    "x = [1]; x.append(2.5)\nkind(x)\n",
			expected: "'generic'\n",
		},
		{
			name:     "Print",
			input:    "print([1], 'a')\n",
			expected: "[1] a\n",
		},
		{
			name:     "Error",
			input:    "fnord\n",
			expected: "error: NameError: name 'fnord' is not defined",
		},
		{
			name:     "Syntax error",
			input:    "x = (1\n",
			expected: "error: SyntaxError: unexpected text possibly starting: = (1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := runReplWithString(t, tc.input)
			require.Contains(t, got, tc.expected)
		})
	}
}

func TestRenderError(t *testing.T) {
	env := interp.NewEnv(nil)
	require.NoError(t, interp.InitializeEnv(env, interp.WithReader(parser.NewReader())))
	r := &diagnostic.Renderer{Color: diagnostic.ColorNever}

	_, err := env.LoadString("stdin", "lst = [1]")
	require.NoError(t, err)
	_, err = env.LoadString("stdin", "lst[3]")
	require.Error(t, err)
	var buf bytes.Buffer
	renderError(&buf, r, env, err)
	assert.Equal(t, "error: IndexError: list index out of range\n"+
		"  --> stdin:1:1\n"+
		"   |\n"+
		" 1 |  lst[3]\n"+
		"   |  ^^^\n"+
		"   |\n", buf.String())

	_, err = env.LoadString("stdin", "nope")
	require.Error(t, err)
	buf.Reset()
	renderError(&buf, r, env, err)
	assert.Contains(t, buf.String(), "error: NameError: name 'nope' is not defined\n")
	assert.Contains(t, buf.String(), "   = note: defined names: lst\n")

	_, err = env.LoadString("stdin", "lst.push(1)")
	require.Error(t, err)
	buf.Reset()
	renderError(&buf, r, env, err)
	assert.Contains(t, buf.String(), "error: AttributeError: 'list' object has no attribute 'push'\n")
	assert.Contains(t, buf.String(), "   = note: list methods: append, extend, insert")
}

func TestWrapValue(t *testing.T) {
	assert.Equal(t, "[1, 2, 3]", wrapValue("[1, 2, 3]", 0))
	assert.Equal(t, "[1, 2, 3]", wrapValue("[1, 2, 3]", 9))
	assert.Equal(t, "[1, 2,\n3, 4]", wrapValue("[1, 2, 3, 4]", 7))
	for _, line := range strings.Split(wrapValue("['abcdefghijkl']", 5), "\n") {
		assert.LessOrEqual(t, len(line), 5, line)
	}
}

func TestEvalLineWrapped(t *testing.T) {
	env := interp.NewEnv(nil)
	var out bytes.Buffer
	require.NoError(t, interp.InitializeEnv(env,
		interp.WithReader(parser.NewReader()),
		interp.WithStderr(&out)))
	r := &diagnostic.Renderer{Color: diagnostic.ColorNever}
	evalLine(env, r, "list(range(6))", 10)
	assert.Equal(t, "[0, 1, 2,\n3, 4, 5]\n", out.String())
}
