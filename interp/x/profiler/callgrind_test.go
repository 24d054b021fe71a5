// Copyright © 2024 The ELPS authors

package profiler_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/luthersystems/plist/interp/x/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCallgrind(t *testing.T) {
	out := filepath.Join(t.TempDir(), "callgrind.test_prof")
	p := profiler.NewCallgrindProfiler()
	assert.Error(t, p.Enable(), "no output file")
	require.NoError(t, p.SetFile(out))
	run(t, p)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	prof := string(b)
	assert.Contains(t, prof, "version: 1\n")
	assert.Contains(t, prof, "events: Time_(ns) Memory_(bytes)\n")
	assert.Contains(t, prof, "fl=(1) test.pl\nfn=(2) list.append\n2 ")
	assert.Contains(t, prof, "fn=(5) builtin.len\n5 ")
	assert.Contains(t, prof, "fl=(6) -\nfn=(7) ENTRYPOINT\n")
	assert.Contains(t, prof, "cfn=(2)\ncalls=1 0 0\n")
	assert.Contains(t, prof, "summary ")
}

func TestCallgrindSkip(t *testing.T) {
	out := filepath.Join(t.TempDir(), "callgrind.test_prof")
	p := profiler.NewCallgrindProfiler(profiler.WithNamespaceFilter("builtin"))
	require.NoError(t, p.SetFile(out))
	run(t, p)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	prof := string(b)
	assert.Contains(t, prof, "builtin.len")
	assert.NotContains(t, prof, "list.append")
}
