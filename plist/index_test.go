// Copyright © 2024 The ELPS authors

package plist_test

import (
	"testing"

	"github.com/luthersystems/plist/plist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeIndex(t *testing.T) {
	tests := []struct {
		name   string
		index  plist.Value
		length int
		mode   plist.IndexMode
		want   int
		err    plist.ErrorKind
	}{
		{"first", plist.Int(0), 3, plist.ModeRead, 0, 0},
		{"negative", plist.Int(-1), 3, plist.ModeRead, 2, 0},
		{"past end", plist.Int(3), 3, plist.ModeRead, 0, plist.IndexError},
		{"before start", plist.Int(-4), 3, plist.ModeAssign, 0, plist.IndexError},
		{"bool", plist.True, 3, plist.ModeRead, 1, 0},
		{"indexer", index(-2), 3, plist.ModeRead, 1, 0},
		{"big", bigInt("100000000000000000000"), 3, plist.ModeRead, 0, plist.IndexError},
		{"insert clamps high", plist.Int(100), 3, plist.ModeInsert, 3, 0},
		{"insert clamps low", plist.Int(-100), 3, plist.ModeInsert, 0, 0},
		{"insert big", bigInt("-100000000000000000000"), 3, plist.ModeInsert, 0, 0},
		{"string", plist.Str("1"), 3, plist.ModeRead, 0, plist.TypeError},
		{"float", plist.Float(1), 3, plist.ModeRead, 0, plist.TypeError},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			i, err := plist.NormalizeIndex(test.index, test.length, test.mode, "list index out of range")
			if test.err != 0 {
				requireKind(t, err, test.err, "")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, i)
		})
	}

	_, err := plist.NormalizeIndex(plist.Str("x"), 1, plist.ModeRead, "")
	requireKind(t, err, plist.TypeError, "list indices must be integers or slices, not str")
	_, err = plist.NormalizeIndex(plist.Int(5), 1, plist.ModeAssign, "list assignment index out of range")
	requireKind(t, err, plist.IndexError, "list assignment index out of range")
}

func TestAsIndex(t *testing.T) {
	i, err := plist.AsIndex(bigInt("100000000000000000000"))
	require.NoError(t, err)
	assert.Equal(t, int64(9223372036854775807), i)
	i, err = plist.AsIndex(index(7))
	require.NoError(t, err)
	assert.Equal(t, int64(7), i)
	_, err = plist.AsIndex(plist.Float(1))
	requireKind(t, err, plist.TypeError, "'float' object cannot be interpreted as an integer")
}

func TestCorrectIndex(t *testing.T) {
	i, err := plist.CorrectIndex(plist.Int(-2), 5)
	require.NoError(t, err)
	assert.Equal(t, 3, i)
	i, err = plist.CorrectIndex(plist.Int(-20), 5)
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	i, err = plist.CorrectIndex(bigInt("100000000000000000000"), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, i)
	_, err = plist.CorrectIndex(plist.Str("a"), 5)
	requireKind(t, err, plist.TypeError, "slice indices must be integers or have an __index__ method")
}

func TestComputeEffectiveSlice(t *testing.T) {
	tests := []struct {
		name string
		desc plist.Slice
		want plist.EffectiveSlice
	}{
		{"full", plist.Slice{}, plist.EffectiveSlice{Start: 0, Stop: 10, Step: 1, Length: 10}},
		{"reversed", plist.Slice{Step: plist.Int(-1)}, plist.EffectiveSlice{Start: 9, Stop: -1, Step: -1, Length: 10}},
		{"none bounds", plist.Slice{Start: plist.None, Stop: plist.None, Step: plist.None}, plist.EffectiveSlice{Start: 0, Stop: 10, Step: 1, Length: 10}},
		{"negative start", plist.Slice{Start: plist.Int(-3)}, plist.EffectiveSlice{Start: 7, Stop: 10, Step: 1, Length: 3}},
		{"stop clamped", plist.Slice{Start: plist.Int(2), Stop: plist.Int(100), Step: plist.Int(3)}, plist.EffectiveSlice{Start: 2, Stop: 10, Step: 3, Length: 3}},
		{"negative step", plist.Slice{Start: plist.Int(8), Stop: plist.Int(1), Step: plist.Int(-3)}, plist.EffectiveSlice{Start: 8, Stop: 1, Step: -3, Length: 3}},
		{"empty", plist.Slice{Start: plist.Int(5), Stop: plist.Int(2)}, plist.EffectiveSlice{Start: 5, Stop: 2, Step: 1, Length: 0}},
		{"big start", plist.Slice{Start: bigInt("100000000000000000000")}, plist.EffectiveSlice{Start: 10, Stop: 10, Step: 1, Length: 0}},
		{"big negative stop", plist.Slice{Stop: bigInt("-100000000000000000000"), Step: plist.Int(-1)}, plist.EffectiveSlice{Start: 9, Stop: -1, Step: -1, Length: 10}},
		{"indexer", plist.Slice{Start: index(1), Stop: index(3)}, plist.EffectiveSlice{Start: 1, Stop: 3, Step: 1, Length: 2}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			eff, err := plist.ComputeEffectiveSlice(test.desc, 10)
			require.NoError(t, err)
			assert.Equal(t, test.want, eff)
		})
	}

	eff, err := plist.ComputeEffectiveSlice(plist.Slice{Step: plist.Int(100)}, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, eff.Start)
	assert.Equal(t, 1, eff.Length)

	eff, err = plist.ComputeEffectiveSlice(plist.Slice{Step: plist.Int(3)}, 0)
	require.NoError(t, err)
	assert.Equal(t, plist.EffectiveSlice{Start: 0, Stop: 0, Step: 2, Length: 0}, eff)
	eff, err = plist.ComputeEffectiveSlice(plist.Slice{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, eff.Step)

	_, err = plist.ComputeEffectiveSlice(plist.Slice{Step: plist.Int(0)}, 10)
	requireKind(t, err, plist.ValueError, "slice step cannot be zero")
	_, err = plist.ComputeEffectiveSlice(plist.Slice{Start: plist.Str("a")}, 10)
	requireKind(t, err, plist.TypeError, "")
}
