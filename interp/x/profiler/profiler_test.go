// Copyright © 2024 The ELPS authors

package profiler_test

import (
	"testing"

	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/parser"
	"github.com/stretchr/testify/require"
)

const testScript = `x = [1, 2, 3]
x.append(4)
x.append('a')
y = x[1:3] + [5]
len(y)
`

// run evaluates testScript in an environment profiled by p and completes
// the profile.
func run(t *testing.T, p interp.Profiler) {
	t.Helper()
	env := interp.NewEnv(nil)
	err := interp.InitializeEnv(env,
		interp.WithReader(parser.NewReader()),
		interp.WithProfiler(p))
	require.NoError(t, err)
	_, err = env.LoadString("test.pl", testScript)
	require.NoError(t, err)
	require.NoError(t, p.Complete())
}
