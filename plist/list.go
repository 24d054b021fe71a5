// Copyright © 2024 The ELPS authors

package plist

import (
	"errors"
)

// List is a mutable sequence backed by adaptive storage.  A new list uses
// the narrowest storage kind able to hold its elements and is generalized
// the first time an element its storage cannot represent is written.  The
// identity of a List never changes when its storage is generalized.
//
// List is not safe for concurrent mutation.
type List struct {
	store *Storage
}

var _ Iterable = (*List)(nil)

// NewList returns a list holding a copy of values.
func NewList(values ...Value) *List {
	return &List{store: StorageOf(values)}
}

// NewListStorage returns a list that takes ownership of s.
func NewListStorage(s *Storage) *List {
	return &List{store: s}
}

// ListFromString returns a list holding one Str per character of s.
func ListFromString(s string) *List {
	return NewListStorage(stringStorage(s))
}

// ListFromIterator returns a list holding the values produced by it.
func ListFromIterator(it Iterator) (*List, error) {
	s, err := collect(it)
	if err != nil {
		return nil, err
	}
	return NewListStorage(s), nil
}

// ListFromValue converts v to a new list.  Strings produce their
// characters, lists and tuples are copied, and other iterables are
// consumed.  A TypeError is returned if v is not iterable.
func ListFromValue(v Value) (*List, error) {
	s, err := sequenceStorage(v, "")
	if err != nil {
		return nil, err
	}
	if l, ok := v.(*List); ok && s == l.store {
		s = s.Copy()
	} else if t, ok := v.(*Tuple); ok && s == t.store {
		s = s.Copy()
	}
	return NewListStorage(s), nil
}

func (*List) TypeName() string { return "list" }

// Storage returns the current storage of l.  The result is invalidated by
// any mutation of l that generalizes its storage.
func (l *List) Storage() *Storage {
	return l.store
}

// Kind returns the kind of the storage of l.
func (l *List) Kind() Kind {
	return l.store.kind
}

// Len returns the number of elements in l.
func (l *List) Len() int {
	return l.store.length
}

// Bool returns the truth value of l.
func (l *List) Bool() bool {
	return l.store.length != 0
}

// Hash fails.  Lists are mutable and cannot be used as keys.
func (l *List) Hash() (int64, error) {
	return 0, Errorf(TypeError, "unhashable type: 'list'")
}

// Copy returns a shallow copy of l.
func (l *List) Copy() *List {
	return NewListStorage(l.store.Copy())
}

// generalize replaces the storage of l with one that accepts v.
func (l *List) generalize(v Value) {
	l.store = Generalize(l.store, v)
}

// Append adds v to the end of l.
func (l *List) Append(v Value) error {
	err := l.store.AppendItem(v)
	if errors.Is(err, ErrStoreMismatch) {
		l.generalize(v)
		err = l.store.AppendItem(v)
	}
	return err
}

// Extend appends the elements of the iterable v to l.
func (l *List) Extend(v Value) error {
	src, err := sequenceStorage(v, "")
	if err != nil {
		return err
	}
	return l.extendStorage(src)
}

func (l *List) extendStorage(src *Storage) error {
	if src.length == 0 {
		return nil
	}
	if src == l.store {
		src = src.Copy()
	}
	if int64(l.store.length)+int64(src.length) > MaxLength {
		return memoryError()
	}
	l.store = GeneralizeFor(l.store, src)
	if !l.store.acceptsAll(src) {
		l.store = GeneralizeTo(l.store, KindGeneric)
	}
	return l.store.appendStorage(src)
}

// Insert inserts v before the element at index.  Indices outside the list
// are clamped to its ends.
func (l *List) Insert(index Value, v Value) error {
	i, err := AsIndex(index)
	if err != nil {
		return err
	}
	pos, _ := normalizeInt(i, l.store.length, ModeInsert, "")
	err = l.store.InsertItem(pos, v)
	if errors.Is(err, ErrStoreMismatch) {
		l.generalize(v)
		err = l.store.InsertItem(pos, v)
	}
	return err
}

// Remove deletes the first element of l equal to v.
func (l *List) Remove(v Value) error {
	i, err := l.find(v, 0, l.store.length)
	if err != nil {
		return err
	}
	if i < 0 {
		return Errorf(ValueError, "list.remove(x): x not in list")
	}
	l.store.DelItemInBound(i)
	return nil
}

// Pop removes and returns the last element of l.
func (l *List) Pop() (Value, error) {
	return l.PopAt(Int(-1))
}

// PopAt removes and returns the element at index.
func (l *List) PopAt(index Value) (Value, error) {
	i, ok, err := asIndex(index)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, typeErrorf(index, "integer argument expected, got %s", index.TypeName())
	}
	pos, err := normalizeInt(i, l.store.length, ModeRead, msgPopRange)
	if err != nil {
		return nil, err
	}
	v := l.store.ItemNormalized(pos)
	l.store.DelItemInBound(pos)
	return v, nil
}

// Index returns the position of the first element equal to v.  The
// optional bounds restrict the search to l[start:end].
func (l *List) Index(v Value, bounds ...Value) (int, error) {
	n := l.store.length
	start, end := 0, n
	var err error
	if len(bounds) > 2 {
		return 0, Errorf(TypeError, "index expected at most 3 arguments, got %d", len(bounds)+1)
	}
	if len(bounds) > 0 {
		start, err = CorrectIndex(bounds[0], n)
		if err != nil {
			return 0, err
		}
	}
	if len(bounds) > 1 {
		end, err = CorrectIndex(bounds[1], n)
		if err != nil {
			return 0, err
		}
	}
	i, err := l.find(v, start, end)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, Errorf(ValueError, "x not in list")
	}
	return i, nil
}

// find returns the position of the first element of l[from:to] equal to v,
// or -1.  Bounds are rechecked after each comparison because a user
// defined equality may mutate l.
func (l *List) find(v Value, from, to int) (int, error) {
	if i, ok := l.store.fastIndex(v, from, min(to, l.store.length)); ok {
		return i, nil
	}
	for i := from; i < to && i < l.store.length; i++ {
		eq, err := Eq(l.store.ItemNormalized(i), v)
		if err != nil {
			return -1, err
		}
		if eq {
			return i, nil
		}
	}
	return -1, nil
}

// Count returns the number of elements of l equal to v.
func (l *List) Count(v Value) (int, error) {
	if n, ok := l.store.fastCount(v); ok {
		return n, nil
	}
	var n int
	for i := 0; i < l.store.length; i++ {
		eq, err := Eq(l.store.ItemNormalized(i), v)
		if err != nil {
			return 0, err
		}
		if eq {
			n++
		}
	}
	return n, nil
}

// Contains returns true if some element of l equals v.
func (l *List) Contains(v Value) (bool, error) {
	i, err := l.find(v, 0, l.store.length)
	return i >= 0, err
}

// Clear removes every element of l.
func (l *List) Clear() {
	l.store = NewEmptyStorage()
}

// Reverse reverses l in place.
func (l *List) Reverse() {
	l.store.Reverse()
}

// GetItem returns the element at an integer key or, for a Slice key, a new
// list holding the selected elements.
func (l *List) GetItem(key Value) (Value, error) {
	if desc, ok := key.(Slice); ok {
		eff, err := ComputeEffectiveSlice(desc, l.store.length)
		if err != nil {
			return nil, err
		}
		return NewListStorage(l.store.Slice(eff)), nil
	}
	i, err := NormalizeIndex(key, l.store.length, ModeRead, msgIndexRange)
	if err != nil {
		return nil, err
	}
	return l.store.ItemNormalized(i), nil
}

// SetItem replaces the element at an integer key with v.  For a Slice key
// v must be iterable and SetSlice is performed.
func (l *List) SetItem(key Value, v Value) error {
	if desc, ok := key.(Slice); ok {
		return l.SetSlice(desc, v)
	}
	i, err := NormalizeIndex(key, l.store.length, ModeAssign, msgAssignRange)
	if err != nil {
		return err
	}
	err = l.store.SetItemNormalized(i, v)
	if errors.Is(err, ErrStoreMismatch) {
		l.generalize(v)
		err = l.store.SetItemNormalized(i, v)
	}
	return err
}

// DelItem removes the element at an integer key or the elements selected
// by a Slice key.
func (l *List) DelItem(key Value) error {
	if desc, ok := key.(Slice); ok {
		return l.DelSlice(desc)
	}
	i, err := NormalizeIndex(key, l.store.length, ModeAssign, msgAssignRange)
	if err != nil {
		return err
	}
	l.store.DelItemInBound(i)
	return nil
}

// Add returns a new list holding the elements of l followed by the
// elements of the list other.
func (l *List) Add(other Value) (Value, error) {
	r, ok := other.(*List)
	if !ok {
		return nil, typeErrorf(other, "can only concatenate list (not \"%s\") to list", other.TypeName())
	}
	s, err := l.store.Concat(r.store)
	if err != nil {
		return nil, err
	}
	return NewListStorage(s), nil
}

// InPlaceAdd extends l with the elements of the iterable other and returns
// l.
func (l *List) InPlaceAdd(other Value) (Value, error) {
	err := l.Extend(other)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// repeatCount converts the operand of a repetition.  Big integers clamp to
// the int64 range, keeping their sign.  The boolean result is false when n
// is not an integer.
func repeatCount(n Value) (int64, bool, error) {
	return asIndex(n)
}

// Mul returns a new list holding n consecutive copies of the elements of
// l.  NotImplemented is returned when n is not an integer.
func (l *List) Mul(n Value) (Value, error) {
	count, ok, err := repeatCount(n)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NotImplemented, nil
	}
	s, err := l.store.Repeat(count)
	if err != nil {
		return nil, err
	}
	return NewListStorage(s), nil
}

// InPlaceMul replaces the elements of l with n consecutive copies of them
// and returns l.
func (l *List) InPlaceMul(n Value) (Value, error) {
	count, ok, err := repeatCount(n)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, typeErrorf(n, "can't multiply sequence by non-int of type '%s'", n.TypeName())
	}
	if count == 1 {
		return l, nil
	}
	s, err := l.store.Repeat(count)
	if err != nil {
		return nil, err
	}
	l.store = s
	return l, nil
}

// Iter returns an iterator over l.  The iterator observes mutations of l
// made while iterating.
func (l *List) Iter() Iterator {
	switch l.store.kind {
	case KindInt:
		return NewIntIterator(l)
	case KindFloat:
		return NewFloatIterator(l)
	default:
		return NewSequenceIterator(l)
	}
}

// Repr returns the representation of l, e.g. "[1, 2, 3]".
func (l *List) Repr() (Value, error) {
	s, err := Repr(l)
	if err != nil {
		return nil, err
	}
	return Str(s), nil
}

// sequenceStorage returns the storage holding the elements of v.  The
// storage of a list or tuple argument is returned directly and must not be
// modified.  msg replaces the default TypeError message for a value that
// is not iterable.
func sequenceStorage(v Value, msg string) (*Storage, error) {
	switch x := v.(type) {
	case *List:
		return x.store, nil
	case *Tuple:
		return x.store, nil
	case Str:
		return stringStorage(string(x)), nil
	}
	it, ok := IterOf(v)
	if !ok {
		if msg == "" {
			return nil, typeErrorf(v, "'%s' object is not iterable", v.TypeName())
		}
		return nil, typeErrorf(v, msg)
	}
	return collect(it)
}

func stringStorage(s string) *Storage {
	if s == "" {
		return NewEmptyStorage()
	}
	vals := make([]Value, 0, len(s))
	for _, c := range s {
		vals = append(vals, Str(string(c)))
	}
	return NewObjectStorage(KindGeneric, vals)
}

// collect drains it into new storage of the narrowest kind able to hold the
// values produced.
func collect(it Iterator) (*Storage, error) {
	buf := make([]Value, 0, 2)
	for {
		v, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if len(buf) >= MaxLength {
			return nil, memoryError()
		}
		buf = append(buf, v)
	}
	return StorageOf(buf), nil
}
