// Copyright © 2024 The ELPS authors

package plist

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubWriteSlice(t *testing.T, fn func(*Storage, EffectiveSlice, *Storage) error) {
	t.Helper()
	orig := writeSlice
	writeSlice = fn
	t.Cleanup(func() { writeSlice = orig })
}

func TestSetSliceRetriesGeneric(t *testing.T) {
	var kinds []Kind
	stubWriteSlice(t, func(s *Storage, eff EffectiveSlice, src *Storage) error {
		kinds = append(kinds, s.Kind())
		if len(kinds) == 1 {
			return ErrStoreMismatch
		}
		return setSliceStorage(s, eff, src)
	})
	l := NewList(Int(1), Int(2), Int(3))
	require.NoError(t, l.SetSlice(NewSlice(Int(0), Int(1)), NewList(Int(9))))
	assert.Equal(t, []Kind{KindInt, KindGeneric}, kinds)
	assert.Equal(t, KindGeneric, l.Kind())
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, Int(9), l.Storage().ItemNormalized(0))
}

func TestSetSliceSecondMismatchPanics(t *testing.T) {
	stubWriteSlice(t, func(*Storage, EffectiveSlice, *Storage) error {
		return ErrStoreMismatch
	})
	l := NewList(Int(1), Int(2), Int(3))
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		assert.True(t, errors.Is(err, ErrInternal))
	}()
	_ = l.SetSlice(NewSlice(Int(0), Int(1)), NewList(Int(9)))
}

func TestSetSliceOtherErrorNotRetried(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	stubWriteSlice(t, func(*Storage, EffectiveSlice, *Storage) error {
		calls++
		return boom
	})
	l := NewList(Int(1))
	err := l.SetSlice(Slice{}, NewList(Int(2)))
	assert.Same(t, boom, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, KindInt, l.Kind())
}
