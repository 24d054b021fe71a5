// Copyright © 2024 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
		require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o600))
	}
	return dir
}

func TestExpandArgs(t *testing.T) {
	dir := writeTree(t, "a.pl", "notes.txt", "sub/b.pl", "testdata/c.pl")

	files, err := expandArgs([]string{dir + "/..."}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.pl"),
		filepath.Join(dir, "sub", "b.pl"),
		filepath.Join(dir, "testdata", "c.pl"),
	}, files)

	files, err = expandArgs([]string{dir + "/...", "other.pl"}, []string{"testdata"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.pl"),
		filepath.Join(dir, "sub", "b.pl"),
		"other.pl",
	}, files)
}

func TestExpandArgsExcludeGlob(t *testing.T) {
	files, err := expandArgs([]string{"src/main.pl", "src/gen_x.pl", "build/out.pl"}, []string{"gen_*", "build"})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main.pl"}, files)

	_, err = expandArgs([]string{"a.pl"}, []string{"["})
	assert.Error(t, err)
}

func TestExpandArgsMissingDir(t *testing.T) {
	_, err := expandArgs([]string{filepath.Join(t.TempDir(), "nope") + "/..."}, nil)
	assert.Error(t, err)
}
