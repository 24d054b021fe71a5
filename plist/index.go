// Copyright © 2024 The ELPS authors

package plist

import "math"

// IndexMode selects how NormalizeIndex treats an index outside the bounds of
// a sequence.
type IndexMode uint8

const (
	// ModeRead rejects indices outside [0, length) with an IndexError.
	ModeRead IndexMode = iota
	// ModeAssign rejects indices outside [0, length) with an IndexError.
	ModeAssign
	// ModeInsert clamps indices into [0, length].
	ModeInsert
)

// Messages reported for out of range indices.
const (
	msgIndexRange  = "list index out of range"
	msgAssignRange = "list assignment index out of range"
	msgPopRange    = "pop index out of range"
)

// EffectiveSlice is a slice descriptor resolved against a sequence length.
// Every selected position Start + k*Step, 0 <= k < Length, is within
// bounds.
type EffectiveSlice struct {
	Start  int
	Stop   int
	Step   int
	Length int
}

// asIndex converts v to a machine integer.  Integers outside the int64 range
// are clamped.  The boolean result is false if v has no integer
// interpretation.
func asIndex(v Value) (int64, bool, error) {
	switch x := v.(type) {
	case Int:
		return int64(x), true, nil
	case Bool:
		if x {
			return 1, true, nil
		}
		return 0, true, nil
	case *BigInt:
		return x.clamp(), true, nil
	case Indexer:
		iv, err := x.Index()
		if err != nil {
			return 0, false, err
		}
		switch iv.(type) {
		case Int, Bool, *BigInt:
			return asIndex(iv)
		}
		return 0, false, typeErrorf(iv, "__index__ returned non-int (type %s)", iv.TypeName())
	}
	return 0, false, nil
}

// AsIndex converts v to a machine integer, clamping big integers into the
// int64 range.  A TypeError is returned if v cannot be interpreted as an
// integer.
func AsIndex(v Value) (int64, error) {
	i, ok, err := asIndex(v)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, typeErrorf(v, "'%s' object cannot be interpreted as an integer", v.TypeName())
	}
	return i, nil
}

// NormalizeIndex converts index to a position in a sequence of the given
// length.  Negative indices count from the end.  In ModeRead and
// ModeAssign an out of range index is an IndexError carrying msg.  In
// ModeInsert the position is clamped into [0, length].
func NormalizeIndex(index Value, length int, mode IndexMode, msg string) (int, error) {
	i, ok, err := asIndex(index)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, typeErrorf(index, "list indices must be integers or slices, not %s", index.TypeName())
	}
	return normalizeInt(i, length, mode, msg)
}

func normalizeInt(i int64, length int, mode IndexMode, msg string) (int, error) {
	n := int64(length)
	if i < 0 {
		i += n
	}
	if mode == ModeInsert {
		if i < 0 {
			return 0, nil
		}
		if i > n {
			return length, nil
		}
		return int(i), nil
	}
	if i < 0 || i >= n {
		return 0, indexError(msg)
	}
	return int(i), nil
}

// CorrectIndex converts a start or end bound of a search (list.index) to a
// position in [0, length].  Negative bounds count from the end.
func CorrectIndex(v Value, length int) (int, error) {
	i, ok, err := asIndex(v)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, typeErrorf(v, "slice indices must be integers or have an __index__ method")
	}
	n, err := normalizeInt(i, length, ModeInsert, "")
	return n, err
}

// sliceBound converts one field of a slice descriptor.  The boolean result
// is false when the bound was omitted.
func sliceBound(v Value) (int64, bool, error) {
	if v == nil || v == None {
		return 0, false, nil
	}
	i, ok, err := asIndex(v)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		return 0, false, typeErrorf(v, "slice indices must be integers or None or have an __index__ method")
	}
	return i, true, nil
}

// ComputeEffectiveSlice resolves desc against a sequence of the given
// length.  Omitted bounds default to the whole sequence in the direction of
// the step.  Bounds outside the sequence are clamped.  A zero step is a
// ValueError.
func ComputeEffectiveSlice(desc Slice, length int) (EffectiveSlice, error) {
	step, ok, err := sliceBound(desc.Step)
	if err != nil {
		return EffectiveSlice{}, err
	}
	if !ok {
		step = 1
	}
	if step == 0 {
		return EffectiveSlice{}, Errorf(ValueError, "slice step cannot be zero")
	}
	if step < -math.MaxInt64 {
		step = -math.MaxInt64
	}
	var start, stop int64
	if step < 0 {
		start, stop = math.MaxInt64, math.MinInt64
	} else {
		start, stop = 0, math.MaxInt64
	}
	if v, ok, err := sliceBound(desc.Start); err != nil {
		return EffectiveSlice{}, err
	} else if ok {
		start = v
	}
	if v, ok, err := sliceBound(desc.Stop); err != nil {
		return EffectiveSlice{}, err
	} else if ok {
		stop = v
	}
	n := int64(length)
	start = adjustBound(start, n, step)
	stop = adjustBound(stop, n, step)
	var count int64
	if step < 0 {
		if stop < start {
			count = (start-stop-1)/(-step) + 1
		}
	} else if start < stop {
		count = (stop-start-1)/step + 1
	}
	// a step longer than the sequence selects at most one element.  The
	// clamped step stays extended: 1 would make the slice contiguous.
	if step > 1 && step > n {
		step = max(n+1, 2)
	} else if step < -n-1 {
		step = -n - 1
	}
	return EffectiveSlice{
		Start:  int(start),
		Stop:   int(stop),
		Step:   int(step),
		Length: int(count),
	}, nil
}

// adjustBound clamps a slice bound into the range allowed for step.
func adjustBound(i, n, step int64) int64 {
	if i < 0 {
		i += n
		if i < 0 {
			if step < 0 {
				return -1
			}
			return 0
		}
		return i
	}
	if i >= n {
		if step < 0 {
			return n - 1
		}
		return n
	}
	return i
}
