// Copyright © 2024 The ELPS authors

package plist

// Tuple is an immutable sequence.  Tuples use the same adaptive storage as
// lists but their storage is never written after construction.
type Tuple struct {
	store *Storage
}

var _ Iterable = (*Tuple)(nil)

// NewTuple returns a tuple holding a copy of values.
func NewTuple(values ...Value) *Tuple {
	return &Tuple{store: StorageOf(values)}
}

// TupleFromValue converts the iterable v to a tuple.  A tuple argument is
// returned unchanged.
func TupleFromValue(v Value) (*Tuple, error) {
	if t, ok := v.(*Tuple); ok {
		return t, nil
	}
	s, err := sequenceStorage(v, "")
	if err != nil {
		return nil, err
	}
	if l, ok := v.(*List); ok && s == l.store {
		s = s.Copy()
	}
	return &Tuple{store: s}, nil
}

func (*Tuple) TypeName() string { return "tuple" }

// Storage returns the storage of t.  The storage must not be modified.
func (t *Tuple) Storage() *Storage {
	return t.store
}

// Len returns the number of elements in t.
func (t *Tuple) Len() int {
	return t.store.length
}

// GetItem returns the element at an integer key or, for a Slice key, a new
// tuple holding the selected elements.
func (t *Tuple) GetItem(key Value) (Value, error) {
	if desc, ok := key.(Slice); ok {
		eff, err := ComputeEffectiveSlice(desc, t.store.length)
		if err != nil {
			return nil, err
		}
		return &Tuple{store: t.store.Slice(eff)}, nil
	}
	x, ok, err := asIndex(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, typeErrorf(key, "tuple indices must be integers or slices, not %s", key.TypeName())
	}
	i, err := normalizeInt(x, t.store.length, ModeRead, "tuple index out of range")
	if err != nil {
		return nil, err
	}
	return t.store.ItemNormalized(i), nil
}

// Iter returns an iterator over t.
func (t *Tuple) Iter() Iterator {
	return NewSequenceIterator(t)
}

// Repr returns the representation of t, e.g. "(1, 2)" or "(1,)".
func (t *Tuple) Repr() (Value, error) {
	s, err := Repr(t)
	if err != nil {
		return nil, err
	}
	return Str(s), nil
}

// Add returns a new tuple holding the elements of t followed by those of
// the tuple other.
func (t *Tuple) Add(other Value) (Value, error) {
	r, ok := other.(*Tuple)
	if !ok {
		return nil, typeErrorf(other, "can only concatenate tuple (not \"%s\") to tuple", other.TypeName())
	}
	s, err := t.store.Concat(r.store)
	if err != nil {
		return nil, err
	}
	return &Tuple{store: s}, nil
}

// Mul returns a new tuple holding n consecutive copies of the elements of
// t.  NotImplemented is returned when n is not an integer.
func (t *Tuple) Mul(n Value) (Value, error) {
	count, ok, err := repeatCount(n)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NotImplemented, nil
	}
	if count == 1 {
		return t, nil
	}
	s, err := t.store.Repeat(count)
	if err != nil {
		return nil, err
	}
	return &Tuple{store: s}, nil
}

// Contains returns true if some element of t equals v.
func (t *Tuple) Contains(v Value) (bool, error) {
	if i, ok := t.store.fastIndex(v, 0, t.store.length); ok {
		return i >= 0, nil
	}
	for i := 0; i < t.store.length; i++ {
		eq, err := Eq(t.store.ItemNormalized(i), v)
		if err != nil || eq {
			return eq, err
		}
	}
	return false, nil
}
