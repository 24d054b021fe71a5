// Copyright © 2024 The ELPS authors

package plist

// sequence is implemented by the values whose storage an iterator walks.
type sequence interface {
	Storage() *Storage
}

// SequenceIterator iterates over a list or tuple.  The iterator rereads the
// storage of its sequence on every step so it observes mutation, including
// generalization.  Once exhausted it stays exhausted.
type SequenceIterator struct {
	seq   sequence
	index int
}

// NewSequenceIterator returns an iterator over the elements of seq.
func NewSequenceIterator(seq interface{ Storage() *Storage }) *SequenceIterator {
	return &SequenceIterator{seq: seq}
}

// Next implements Iterator.
func (it *SequenceIterator) Next() (Value, bool, error) {
	if it.seq == nil {
		return nil, false, nil
	}
	s := it.seq.Storage()
	if it.index >= s.length {
		it.seq = nil
		return nil, false, nil
	}
	v := s.ItemNormalized(it.index)
	it.index++
	return v, true, nil
}

// IntIterator iterates over a list of integers without boxing its elements.
type IntIterator struct {
	list  *List
	index int
}

// NewIntIterator returns an iterator over l, which should have Int64
// storage.
func NewIntIterator(l *List) *IntIterator {
	return &IntIterator{list: l}
}

// NextInt returns the next element.  When the list has been generalized
// since the iterator was created, the elements are read boxed and a
// TypeError is returned for an element that is not an Int.
func (it *IntIterator) NextInt() (int64, bool, error) {
	if it.list == nil {
		return 0, false, nil
	}
	s := it.list.store
	if it.index >= s.length {
		it.list = nil
		return 0, false, nil
	}
	i := it.index
	it.index++
	if s.kind == KindInt {
		return s.ints[i], true, nil
	}
	v := s.ItemNormalized(i)
	x, ok := v.(Int)
	if !ok {
		return 0, false, typeErrorf(v, "expected int element, got %s", v.TypeName())
	}
	return int64(x), true, nil
}

// Next implements Iterator.
func (it *IntIterator) Next() (Value, bool, error) {
	if it.list == nil {
		return nil, false, nil
	}
	s := it.list.store
	if s.kind == KindInt {
		x, ok, err := it.NextInt()
		if !ok || err != nil {
			return nil, ok, err
		}
		return Int(x), true, nil
	}
	if it.index >= s.length {
		it.list = nil
		return nil, false, nil
	}
	v := s.ItemNormalized(it.index)
	it.index++
	return v, true, nil
}

// FloatIterator iterates over a list of floats without boxing its
// elements.
type FloatIterator struct {
	list  *List
	index int
}

// NewFloatIterator returns an iterator over l, which should have Float64
// storage.
func NewFloatIterator(l *List) *FloatIterator {
	return &FloatIterator{list: l}
}

// NextFloat returns the next element.  When the list has been generalized
// since the iterator was created, the elements are read boxed and a
// TypeError is returned for an element that is not a Float.
func (it *FloatIterator) NextFloat() (float64, bool, error) {
	if it.list == nil {
		return 0, false, nil
	}
	s := it.list.store
	if it.index >= s.length {
		it.list = nil
		return 0, false, nil
	}
	i := it.index
	it.index++
	if s.kind == KindFloat {
		return s.floats[i], true, nil
	}
	v := s.ItemNormalized(i)
	x, ok := v.(Float)
	if !ok {
		return 0, false, typeErrorf(v, "expected float element, got %s", v.TypeName())
	}
	return float64(x), true, nil
}

// Next implements Iterator.
func (it *FloatIterator) Next() (Value, bool, error) {
	if it.list == nil {
		return nil, false, nil
	}
	s := it.list.store
	if s.kind == KindFloat {
		x, ok, err := it.NextFloat()
		if !ok || err != nil {
			return nil, ok, err
		}
		return Float(x), true, nil
	}
	if it.index >= s.length {
		it.list = nil
		return nil, false, nil
	}
	v := s.ItemNormalized(it.index)
	it.index++
	return v, true, nil
}

// stringIterator yields the characters of a string.
type stringIterator struct {
	runes []rune
	index int
}

func (it *stringIterator) Next() (Value, bool, error) {
	if it.index >= len(it.runes) {
		return nil, false, nil
	}
	c := it.runes[it.index]
	it.index++
	return Str(string(c)), true, nil
}

// IterOf returns an iterator over v.  The boolean result is false if v is
// not iterable.
func IterOf(v Value) (Iterator, bool) {
	switch x := v.(type) {
	case *List:
		return x.Iter(), true
	case *Tuple:
		return x.Iter(), true
	case Str:
		return &stringIterator{runes: []rune(string(x))}, true
	case Iterable:
		return x.Iter(), true
	}
	return nil, false
}
