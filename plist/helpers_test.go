// Copyright © 2024 The ELPS authors

package plist_test

import (
	"math/big"
	"testing"

	"github.com/luthersystems/plist/plist"
	"github.com/stretchr/testify/require"
)

func ints(xs ...int64) *plist.List {
	vals := make([]plist.Value, len(xs))
	for i, x := range xs {
		vals[i] = plist.Int(x)
	}
	return plist.NewList(vals...)
}

func floats(xs ...float64) *plist.List {
	vals := make([]plist.Value, len(xs))
	for i, x := range xs {
		vals[i] = plist.Float(x)
	}
	return plist.NewList(vals...)
}

func repr(t *testing.T, v plist.Value) string {
	t.Helper()
	s, err := plist.Repr(v)
	require.NoError(t, err)
	return s
}

func bigInt(s string) plist.Value {
	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad integer literal " + s)
	}
	return plist.NewInt(x)
}

// index implements the __index__ capability.
type index int64

func (index) TypeName() string { return "index" }

func (x index) Index() (plist.Value, error) { return plist.Int(x), nil }

// countdown is a user iterable producing n-1, ..., 0.
type countdown int

func (countdown) TypeName() string { return "countdown" }

func (c countdown) Iter() plist.Iterator {
	n := int(c)
	return iterFunc(func() (plist.Value, bool, error) {
		if n <= 0 {
			return nil, false, nil
		}
		n--
		return plist.Int(n), true, nil
	})
}

type iterFunc func() (plist.Value, bool, error)

func (fn iterFunc) Next() (plist.Value, bool, error) { return fn() }

// badRepr returns a non-string from its repr.
type badRepr struct{}

func (badRepr) TypeName() string { return "badRepr" }

func (badRepr) Repr() (plist.Value, error) { return plist.Int(1), nil }

func requireKind(t *testing.T, err error, kind plist.ErrorKind, msg string) {
	t.Helper()
	require.Error(t, err)
	var e *plist.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, kind, e.Kind, "error: %v", err)
	if msg != "" {
		require.Equal(t, msg, e.Msg)
	}
}
