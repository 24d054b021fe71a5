// Copyright © 2024 The ELPS authors

package plist_test

import (
	"testing"

	"github.com/luthersystems/plist/plist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTuple(t *testing.T) {
	tup := plist.NewTuple(plist.Int(1), plist.Int(2), plist.Int(3))
	assert.Equal(t, plist.KindInt, tup.Storage().Kind())
	assert.Equal(t, 3, tup.Len())

	v, err := tup.GetItem(plist.Int(-1))
	require.NoError(t, err)
	assert.Equal(t, plist.Int(3), v)
	v, err = tup.GetItem(plist.Slice{Step: plist.Int(2)})
	require.NoError(t, err)
	assert.Equal(t, "(1, 3)", repr(t, v))
	v, err = tup.GetItem(plist.NewSlice(plist.Int(2), nil))
	require.NoError(t, err)
	assert.Equal(t, "(3,)", repr(t, v))

	_, err = tup.GetItem(plist.Int(3))
	requireKind(t, err, plist.IndexError, "tuple index out of range")
	_, err = tup.GetItem(plist.Float(0))
	requireKind(t, err, plist.TypeError, "tuple indices must be integers or slices, not float")
}

func TestTupleFromValue(t *testing.T) {
	l := ints(1, 2)
	tup, err := plist.TupleFromValue(l)
	require.NoError(t, err)
	require.NoError(t, l.Append(plist.Int(3)))
	assert.Equal(t, "(1, 2)", repr(t, tup))

	same, err := plist.TupleFromValue(tup)
	require.NoError(t, err)
	assert.Same(t, tup, same)

	tup, err = plist.TupleFromValue(plist.Str("ab"))
	require.NoError(t, err)
	assert.Equal(t, "('a', 'b')", repr(t, tup))

	_, err = plist.TupleFromValue(plist.None)
	requireKind(t, err, plist.TypeError, "'NoneType' object is not iterable")
}

func TestTupleElementsOfList(t *testing.T) {
	l := plist.NewList(plist.NewTuple(plist.Int(1)), plist.NewTuple())
	assert.Equal(t, plist.KindTuple, l.Kind())
	assert.Equal(t, 1, l.Storage().TupleItem(0).Len())
	assert.Equal(t, "[(1,), ()]", repr(t, l))
}

func TestTupleOperators(t *testing.T) {
	a := plist.NewTuple(plist.Int(1), plist.Int(2))
	b := plist.NewTuple(plist.Str("x"))

	v, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "(1, 2, 'x')", repr(t, v))
	assert.Equal(t, plist.KindGeneric, v.(*plist.Tuple).Storage().Kind())
	assert.Equal(t, "(1, 2)", repr(t, a))

	_, err = a.Add(ints(1))
	requireKind(t, err, plist.TypeError, `can only concatenate tuple (not "list") to tuple`)

	v, err = a.Mul(plist.Int(2))
	require.NoError(t, err)
	assert.Equal(t, "(1, 2, 1, 2)", repr(t, v))
	v, err = a.Mul(plist.Int(1))
	require.NoError(t, err)
	assert.Same(t, a, v)
	v, err = a.Mul(plist.Str("2"))
	require.NoError(t, err)
	assert.Equal(t, plist.NotImplemented, v)

	ok, err := a.Contains(plist.Int(2))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = a.Contains(plist.Float(2))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = b.Contains(plist.Str("y"))
	require.NoError(t, err)
	assert.False(t, ok)
}
