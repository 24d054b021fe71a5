// Copyright © 2024 The ELPS authors

package lint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lintSource runs all default analyzers on the given source and returns diagnostics.
func lintSource(t *testing.T, source string) []Diagnostic {
	t.Helper()
	l := &Linter{Analyzers: DefaultAnalyzers()}
	diags, err := l.LintFile([]byte(source), "test.pl")
	require.NoError(t, err)
	return diags
}

// lintCheck runs a single analyzer on the given source.
func lintCheck(t *testing.T, analyzer *Analyzer, source string) []Diagnostic {
	t.Helper()
	l := &Linter{Analyzers: []*Analyzer{analyzer}}
	diags, err := l.LintFile([]byte(source), "test.pl")
	require.NoError(t, err)
	return diags
}

func assertHasDiag(t *testing.T, diags []Diagnostic, substr string) {
	t.Helper()
	for _, d := range diags {
		if strings.Contains(d.Message, substr) {
			return
		}
	}
	t.Errorf("expected diagnostic containing %q, got: %v", substr, messages(diags))
}

func assertNoDiags(t *testing.T, diags []Diagnostic) {
	t.Helper()
	if len(diags) > 0 {
		t.Errorf("expected no diagnostics, got %d: %v", len(diags), messages(diags))
	}
}

func assertDiagOnLine(t *testing.T, diags []Diagnostic, line int, substr string) {
	t.Helper()
	for _, d := range diags {
		if d.Pos.Line == line && strings.Contains(d.Message, substr) {
			return
		}
	}
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, fmt.Sprintf("line %d: %s", d.Pos.Line, d.Message))
	}
	t.Errorf("expected diagnostic on line %d containing %q, got: %v", line, substr, msgs)
}

func messages(diags []Diagnostic) []string {
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.String())
	}
	return msgs
}

func TestUndefinedName(t *testing.T) {
	diags := lintCheck(t, AnalyzerUndefinedName, "x = [1]\ny = x + z\nx.append(w)")
	require.Len(t, diags, 2)
	assertDiagOnLine(t, diags, 2, "name 'z' is not defined")
	assertDiagOnLine(t, diags, 3, "name 'w' is not defined")
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Equal(t, "undefined-name", diags[0].Analyzer)

	// reported once per statement
	diags = lintCheck(t, AnalyzerUndefinedName, "q + q")
	assert.Len(t, diags, 1)

	// use before definition
	diags = lintCheck(t, AnalyzerUndefinedName, "y = x\nx = 1")
	assertDiagOnLine(t, diags, 1, "name 'x' is not defined")

	// del unbinds
	diags = lintCheck(t, AnalyzerUndefinedName, "x = 1\ndel x\nx")
	assertDiagOnLine(t, diags, 3, "name 'x' is not defined")

	// augmented assignment reads its target
	diags = lintCheck(t, AnalyzerUndefinedName, "n += 1")
	assertHasDiag(t, diags, "name 'n' is not defined")

	assertNoDiags(t, lintCheck(t, AnalyzerUndefinedName, "x = [1]\nx[0] = 2\ndel x[0]\nx += x"))
}

func TestUndefinedNamePredefined(t *testing.T) {
	l := &Linter{Analyzers: []*Analyzer{AnalyzerUndefinedName}, Predefined: []string{"data"}}
	diags, err := l.LintFile([]byte("data.append(1)"), "test.pl")
	require.NoError(t, err)
	assertNoDiags(t, diags)
}

func TestUnknownMethod(t *testing.T) {
	diags := lintCheck(t, AnalyzerUnknownMethod, "x = []\nx.apend(1)\nx.sort()")
	require.Len(t, diags, 2)
	assertDiagOnLine(t, diags, 2, "list has no method 'apend'")
	assert.Equal(t, []string{"did you mean 'append'?"}, diags[0].Notes)
	assertDiagOnLine(t, diags, 3, "list has no method 'sort'")
	assert.Empty(t, diags[1].Notes)

	assertNoDiags(t, lintCheck(t, AnalyzerUnknownMethod, "x = []\nx.append(1)\nx.copy().reverse()"))
}

func TestCallArity(t *testing.T) {
	tests := []struct {
		source string
		msg    string
	}{
		{"len()", "len() takes exactly one argument (0 given)"},
		{"len(1, 2)", "len() takes exactly one argument (2 given)"},
		{"x = []\nx.clear(1)", "clear() takes no arguments (1 given)"},
		{"x = []\nx.insert(1)", "insert expected 2 arguments, got 1"},
		{"range()", "range expected at least 1 argument, got 0"},
		{"range(1, 2, 3, 4)", "range expected at most 3 arguments, got 4"},
		{"sorted([1])", "'sorted' is not a builtin function"},
	}
	for _, test := range tests {
		diags := lintCheck(t, AnalyzerCallArity, test.source)
		if assert.Len(t, diags, 1, test.source) {
			assert.Equal(t, test.msg, diags[0].Message, test.source)
		}
	}

	diags := lintCheck(t, AnalyzerCallArity, "len()")
	require.Len(t, diags, 1)
	assert.Equal(t, []string{"signature: len(obj)"}, diags[0].Notes)

	assertNoDiags(t, lintCheck(t, AnalyzerCallArity, "x = list(range(3))\nx.pop()\nx.pop(0)\nprint()\nprint(1, 2, 3)\nx.index(1, 0, 2)"))
}

func TestZeroStep(t *testing.T) {
	assertHasDiag(t, lintCheck(t, AnalyzerZeroStep, "x = [1]\ny = x[::0]"), "slice step cannot be zero")
	assertHasDiag(t, lintCheck(t, AnalyzerZeroStep, "x = [1]\nx[1:2:False] = []"), "slice step cannot be zero")
	assertNoDiags(t, lintCheck(t, AnalyzerZeroStep, "x = [1]\ny = x[::2]\nz = x[::-1]\nn = 0\nw = x[::n]"))
}

func TestSelfAssign(t *testing.T) {
	diags := lintCheck(t, AnalyzerSelfAssign, "x = [1]\nx = x")
	require.Len(t, diags, 1)
	assert.Equal(t, "self-assignment of x", diags[0].Message)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assertNoDiags(t, lintCheck(t, AnalyzerSelfAssign, "x = [1]\nx += x\ny = x\nx[0] = x"))
}

func TestDiscardedResult(t *testing.T) {
	diags := lintCheck(t, AnalyzerDiscardedResult, "x = [1]\nx.copy()\nlen(x)\nx.append(2)\nprint(x)")
	require.Len(t, diags, 2)
	assertDiagOnLine(t, diags, 2, "result of x.copy() is not used")
	assertDiagOnLine(t, diags, 3, "result of len(x) is not used")
	assert.Equal(t, SeverityInfo, diags[0].Severity)
}

func TestNolint(t *testing.T) {
	source := "y = a  # nolint\nz = b  # nolint:self-assign\nw = c  # nolint:self-assign,undefined-name\ns = 'x  # nolint'; q = d"
	diags := lintSource(t, source)
	require.Len(t, diags, 2)
	assertDiagOnLine(t, diags, 2, "name 'b' is not defined")
	assertDiagOnLine(t, diags, 4, "name 'd' is not defined")
}

func TestLintSorted(t *testing.T) {
	diags := lintSource(t, "x = x\ny = [1][::0]; z.foo()")
	var lines []int
	for _, d := range diags {
		lines = append(lines, d.Pos.Line)
	}
	assert.IsNonDecreasing(t, lines)
	for _, d := range diags {
		assert.Equal(t, "test.pl", d.Pos.File)
	}
}

func TestLintSyntaxError(t *testing.T) {
	l := &Linter{Analyzers: DefaultAnalyzers()}
	_, err := l.LintFile([]byte("x = (1"), "test.pl")
	assert.Error(t, err)
}

func TestAnalyzerError(t *testing.T) {
	failing := &Analyzer{Name: "failing", Run: func(*Pass) error { return fmt.Errorf("boom") }}
	l := &Linter{Analyzers: []*Analyzer{failing}}
	_, err := l.LintFile([]byte("x = 1"), "test.pl")
	assert.EqualError(t, err, "test.pl: analyzer failing: boom")
}

func TestFormatText(t *testing.T) {
	diags := []Diagnostic{{
		Pos:      Position{File: "a.pl", Line: 3, Col: 1},
		Message:  "list has no method 'apend'",
		Analyzer: "unknown-method",
		Notes:    []string{"did you mean 'append'?"},
	}}
	var buf bytes.Buffer
	FormatText(&buf, diags)
	assert.Equal(t, "a.pl:3:1: list has no method 'apend' (unknown-method)\n  = note: did you mean 'append'?\n", buf.String())
}

func TestFormatJSON(t *testing.T) {
	diags := lintCheck(t, AnalyzerSelfAssign, "x = 1\nx = x")
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(&buf, diags))

	var decoded []Diagnostic
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, diags, decoded)
	assert.Contains(t, buf.String(), `"severity": "warning"`)
}

func TestSeverityJSON(t *testing.T) {
	b, err := json.Marshal(Severity(0))
	require.NoError(t, err)
	assert.Equal(t, `"warning"`, string(b))

	var s Severity
	assert.Error(t, json.Unmarshal([]byte(`"fatal"`), &s))
	require.NoError(t, json.Unmarshal([]byte(`"info"`), &s))
	assert.Equal(t, SeverityInfo, s)
}

func TestAnalyzerNames(t *testing.T) {
	assert.Equal(t, []string{
		"call-arity",
		"discarded-result",
		"self-assign",
		"undefined-name",
		"unknown-method",
		"zero-step",
	}, AnalyzerNames())
	doc := AnalyzerDoc()
	assert.Contains(t, doc, "  zero-step\n    Report slices whose step is the literal 0.\n")
}
