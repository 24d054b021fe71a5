// Copyright © 2024 The ELPS authors

package debugger

import (
	"testing"

	"github.com/luthersystems/plist/plist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectLocals(t *testing.T) {
	env := newTestEnv(t, New())
	_, err := env.LoadString("test", "b = 1.5; a = [1, 2]; c = 'x'")
	require.NoError(t, err)

	bindings := InspectLocals(env)
	require.Len(t, bindings, 3)
	assert.Equal(t, "a", bindings[0].Name)
	assert.Equal(t, "b", bindings[1].Name)
	assert.Equal(t, "c", bindings[2].Name)
	assert.Equal(t, plist.Float(1.5), bindings[1].Value)
}

func TestFormatAndType(t *testing.T) {
	ints := plist.NewList(plist.Int(1), plist.Int(2))
	mixed := plist.NewList(plist.Int(1), plist.Str("a"))
	tests := []struct {
		v    plist.Value
		repr string
		typ  string
	}{
		{ints, "[1, 2]", "list[int64]"},
		{mixed, "[1, 'a']", "list[generic]"},
		{plist.NewList(), "[]", "list[empty]"},
		{plist.NewTuple(plist.Float(0.5)), "(0.5,)", "tuple[float64]"},
		{plist.Str("s"), "'s'", "str"},
		{plist.None, "None", "NoneType"},
		{nil, "<nil>", ""},
	}
	for _, test := range tests {
		assert.Equal(t, test.repr, FormatValue(test.v))
		assert.Equal(t, test.typ, TypeString(test.v))
	}
}

func TestChildren(t *testing.T) {
	l := plist.NewList(plist.Int(10), plist.Int(20), plist.Int(30))
	assert.Equal(t, 3, Len(l))
	assert.Equal(t, 0, Len(plist.Int(1)))

	all := Children(l, 0, 0)
	require.Len(t, all, 3)
	assert.Equal(t, Binding{Name: "[2]", Value: plist.Int(30)}, all[2])

	page := Children(l, 1, 1)
	require.Len(t, page, 1)
	assert.Equal(t, Binding{Name: "[1]", Value: plist.Int(20)}, page[0])

	assert.Len(t, Children(l, 2, 10), 1)
	assert.Nil(t, Children(l, 3, 0))
	assert.Nil(t, Children(plist.Str("abc"), 0, 0))
	assert.Len(t, Children(plist.NewTuple(plist.Str("a"), plist.None), -1, 0), 2)
}
