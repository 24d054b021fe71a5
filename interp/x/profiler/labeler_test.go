// Copyright © 2024 The ELPS authors

package profiler

import (
	"testing"

	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/parser/token"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected string
	}{
		{"empty", "", ""},
		{"blank", "   ", ""},
		{"normal", " Add-It ", "Add-It"},
		{"punctuation", "user-add!", "user-add!"},
		{"spaces", "Add  It", "Add_It"},
		{"underscores", "Add__It", "Add_It"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual := sanitizeLabel(tc.label)
			assert.Equal(t, tc.expected, actual, "sanitizeLabel(%s)", tc.label)
		})
	}
}

func TestLabels(t *testing.T) {
	op := &interp.Op{
		Namespace: "list",
		Name:      "pop",
		Source:    &token.Location{File: "main.pl", Line: 7, Col: 1},
	}
	p := &profiler{}
	label, name := p.labels(op)
	assert.Equal(t, "list.pop", label)
	assert.Equal(t, "list.pop", name)

	p.applyConfigs(WithSourceLabeler())
	label, name = p.labels(op)
	assert.Equal(t, "list.pop@main.pl:7", label)
	assert.Equal(t, "list.pop", name)

	op.Source = nil
	label, _ = p.labels(op)
	assert.Equal(t, "list.pop", label)

	p.applyConfigs(WithLabelPrefix(""))
	label, _ = p.labels(op)
	assert.Equal(t, "list.pop", label)
}

func TestSkipTrace(t *testing.T) {
	op := &interp.Op{Namespace: "builtin", Name: "len"}
	p := &profiler{}
	assert.True(t, p.skipTrace(op), "disabled")
	assert.NoError(t, p.Enable())
	assert.Error(t, p.Enable())
	assert.False(t, p.skipTrace(op))
	p.applyConfigs(WithNamespaceFilter("list", "tuple"))
	assert.True(t, p.skipTrace(op))
	assert.False(t, p.skipTrace(&interp.Op{Namespace: "tuple", Name: "__add__"}))
}
