// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/luthersystems/plist/interp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profiledScript = `x = [1, 2]
x.append(3)
len(x)
`

func TestRunSource(t *testing.T) {
	var out bytes.Buffer
	env, err := newEnv(&out)
	require.NoError(t, err)

	runPrint = true
	defer func() { runPrint = false }()
	err = runSource(env, "test", []byte("x = [1]; x.append(2.5); x\nkind(x); print('hi')"))
	require.NoError(t, err)
	assert.Equal(t, "[1, 2.5]\n'generic'\nhi\n", out.String())

	err = runSource(env, "test", []byte("x[9]"))
	require.Error(t, err)
	assert.Equal(t, "IndexError", interp.Condition(err))
}

func TestNewProfilerErrors(t *testing.T) {
	ctx := context.Background()
	p, err := newProfiler(ctx, "", "")
	assert.NoError(t, err)
	assert.Nil(t, p)

	_, err = newProfiler(ctx, "callgrind", "")
	assert.Error(t, err)
	_, err = newProfiler(ctx, "pprof", "")
	assert.Error(t, err)
	_, err = newProfiler(ctx, "bogus", "")
	assert.EqualError(t, err, `unknown profiler: "bogus"`)
}

func runProfiled(t *testing.T, kind string) string {
	t.Helper()
	out := filepath.Join(t.TempDir(), "profile.out")
	p, err := newProfiler(context.Background(), kind, out)
	require.NoError(t, err)
	env, err := newEnv(&bytes.Buffer{}, interp.WithProfiler(p))
	require.NoError(t, err)
	require.NoError(t, runSource(env, "test.pl", []byte(profiledScript)))
	require.NoError(t, p.Complete())
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	return string(b)
}

func TestProfilers(t *testing.T) {
	out := runProfiled(t, "callgrind")
	assert.Contains(t, out, "fn=(2) list.append\n")
	assert.Contains(t, out, "builtin.len")

	out = runProfiled(t, "otel")
	assert.Contains(t, out, "\tlist.append\t")
	assert.Contains(t, out, "\tbuiltin.len\t")
	assert.Contains(t, out, "\trun\t")
	assert.Contains(t, out, "code.function=append")

	out = runProfiled(t, "opencensus")
	assert.Contains(t, out, "\tlist.append\t")
	assert.Contains(t, out, "\trun\t")

	out = runProfiled(t, "pprof")
	assert.NotEmpty(t, out)
}
