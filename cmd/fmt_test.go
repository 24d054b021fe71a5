// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/luthersystems/plist/formatter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFmtFileWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.pl")
	require.NoError(t, os.WriteFile(path, []byte("x=[1,2]\n"), 0600))

	fmtWrite = true
	defer func() { fmtWrite = false }()
	changed, err := fmtFile(path, formatter.DefaultConfig())
	require.NoError(t, err)
	assert.True(t, changed)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x = [1, 2]\n", string(b))

	changed, err = fmtFile(path, formatter.DefaultConfig())
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestPrintUnifiedDiff(t *testing.T) {
	var buf bytes.Buffer
	printUnifiedDiff(&buf, "x.pl", []byte("a = 1\nb=2\n"), []byte("a = 1\nb = 2\n"))
	assert.Equal(t, "--- x.pl\n+++ x.pl\n a = 1\n-b=2\n+b = 2\n", buf.String())
}
