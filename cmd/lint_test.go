// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/plist/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runLintMain(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = lintMain(strings.NewReader(stdin), &out, &errOut, args)
	return code, out.String(), errOut.String()
}

func resetLintFlags(t *testing.T) {
	t.Cleanup(func() {
		lintJSON = false
		lintChecks = ""
		lintListAll = false
		lintExcludes = nil
	})
}

func TestLintCommandFlags(t *testing.T) {
	assert.Equal(t, "lint [flags] [files...]", lintCmd.Use)
	for _, name := range []string{"json", "checks", "list", "exclude"} {
		assert.NotNil(t, lintCmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestLintClean(t *testing.T) {
	resetLintFlags(t)
	code, stdout, stderr := runLintMain(t, "x = [1, 2]\nx.append(3)\n")
	assert.Equal(t, 0, code)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
}

func TestLintStdinRendered(t *testing.T) {
	resetLintFlags(t)
	code, _, stderr := runLintMain(t, "x = [1]\nx = x\n")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "warning: self-assignment of x (self-assign)")
	assert.Contains(t, stderr, "--> <stdin>:2:1")
	assert.Contains(t, stderr, "x = x")
	assert.Contains(t, stderr, `to suppress: add "# nolint:self-assign" as a comment on this line`)
}

func TestLintFilesJSON(t *testing.T) {
	resetLintFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "a.pl")
	require.NoError(t, os.WriteFile(path, []byte("y = [1][::0]\n"), 0o600))

	lintJSON = true
	code, stdout, stderr := runLintMain(t, "", path)
	assert.Equal(t, 1, code)
	assert.Empty(t, stderr)

	var diags []lint.Diagnostic
	require.NoError(t, json.Unmarshal([]byte(stdout), &diags))
	require.Len(t, diags, 1)
	assert.Equal(t, "zero-step", diags[0].Analyzer)
	assert.Equal(t, path, diags[0].Pos.File)
	assert.Equal(t, lint.SeverityError, diags[0].Severity)
}

func TestLintChecks(t *testing.T) {
	resetLintFlags(t)
	lintChecks = "zero-step"
	code, _, _ := runLintMain(t, "x = x\n")
	assert.Equal(t, 0, code)

	lintChecks = "zero-step,bogus"
	code, _, stderr := runLintMain(t, "x = 1\n")
	assert.Equal(t, 2, code)
	assert.Equal(t, "plist lint: unknown check: bogus\n", stderr)
}

func TestLintList(t *testing.T) {
	resetLintFlags(t)
	lintListAll = true
	code, stdout, _ := runLintMain(t, "")
	assert.Equal(t, 0, code)
	assert.Equal(t, strings.Join(lint.AnalyzerNames(), "\n")+"\n", stdout)
}

func TestLintBadInput(t *testing.T) {
	resetLintFlags(t)
	code, _, stderr := runLintMain(t, "x = (1\n")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "error: SyntaxError: unexpected text possibly starting: = (1")

	code, _, _ = runLintMain(t, "", filepath.Join(t.TempDir(), "missing.pl"))
	assert.Equal(t, 2, code)
}
