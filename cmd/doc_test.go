// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"testing"

	"github.com/luthersystems/plist/docs"
	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runDoc(t *testing.T, opts []Option, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := DocCommand(append(opts, WithOutput(&buf))...)
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return buf.String(), err
}

func TestDocCommand_DefaultFlags(t *testing.T) {
	cmd := DocCommand()
	assert.Equal(t, "doc [flags] [QUERY]", cmd.Use)

	for _, name := range []string{"methods", "builtins", "width", "source-file", "guide"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestDocCommand_List(t *testing.T) {
	out, err := runDoc(t, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Methods:\n  append(object)\n")
	assert.Contains(t, out, "Builtins:\n")
	assert.Contains(t, out, "  len(obj)\n")

	out, err = runDoc(t, nil, "-m")
	require.NoError(t, err)
	assert.Contains(t, out, "  pop([index])\n")
	assert.NotContains(t, out, "Builtins:")
}

func TestDocCommand_Query(t *testing.T) {
	out, err := runDoc(t, nil, "pop")
	require.NoError(t, err)
	assert.Contains(t, out, "pop([index])\n\n  Remove and return the item")

	out, err = runDoc(t, nil, "len")
	require.NoError(t, err)
	assert.Equal(t, "len(obj)\n\n  Return the number of items in a container.\n", out)

	_, err = runDoc(t, nil, "nope")
	assert.EqualError(t, err, `no documentation for "nope"`)
}

func TestDocCommand_Guide(t *testing.T) {
	out, err := runDoc(t, nil, "--guide")
	require.NoError(t, err)
	assert.Equal(t, docs.LangGuide, out)
	assert.Contains(t, out, "## Storage kinds")
}

func TestDocCommand_WithEnv(t *testing.T) {
	env := interp.NewEnv(nil)
	require.NoError(t, interp.InitializeEnv(env, interp.WithReader(parser.NewReader())))
	_, err := env.LoadString("test", "xs = [1, 2.5]; n = 3")
	require.NoError(t, err)

	out, err := runDoc(t, []Option{WithEnv(env)}, "xs")
	require.NoError(t, err)
	assert.Contains(t, out, "xs = [1, 2.5]\n  type: list\n  storage: generic, length 2, capacity ")

	out, err = runDoc(t, []Option{WithEnv(env)}, "n")
	require.NoError(t, err)
	assert.Equal(t, "n = 3\n  type: int\n", out)
}
