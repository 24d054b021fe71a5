// Copyright © 2024 The ELPS authors

package plist

import "math"

// MaxLength is the largest number of elements a Storage can hold.  Growth
// beyond MaxLength fails with a MemoryError.
const MaxLength = math.MaxInt32

// Storage is the backing container of a list or tuple.  It is a tagged
// variant: the kind selects which of the typed buffers is live.  Length is
// the number of elements in use and capacity is the size of the live buffer.
//
// Every element of a storage is representable by its kind.  Writes of
// values that are not representable fail with ErrStoreMismatch and leave
// the storage unchanged; it is the caller's job to generalize and retry.
//
// Indices passed to the *Normalized and *InBound methods must already be in
// range.  They are not checked.
type Storage struct {
	kind   Kind
	length int
	ints   []int64
	floats []float64
	objs   []Value
}

// NewEmptyStorage returns storage of kind KindEmpty.
func NewEmptyStorage() *Storage {
	return &Storage{kind: KindEmpty}
}

// NewIntStorage returns Int64 storage holding xs.  The slice is used as the
// backing buffer and is not copied.
func NewIntStorage(xs ...int64) *Storage {
	return &Storage{kind: KindInt, length: len(xs), ints: xs}
}

// NewFloatStorage returns Float64 storage holding xs.  The slice is used as
// the backing buffer and is not copied.
func NewFloatStorage(xs ...float64) *Storage {
	return &Storage{kind: KindFloat, length: len(xs), floats: xs}
}

// NewObjectStorage returns storage of an object kind (KindList, KindTuple or
// KindGeneric) holding vals.  The slice is used as the backing buffer.
// NewObjectStorage panics if kind is not an object kind or if a value is not
// representable by kind.
func NewObjectStorage(kind Kind, vals []Value) *Storage {
	if !kind.isObject() {
		panic(internalf("%s is not an object storage kind", kind))
	}
	s := &Storage{kind: kind, length: len(vals), objs: vals}
	for _, v := range vals {
		if !s.Accepts(v) {
			panic(internalf("%s value in %s storage", v.TypeName(), kind))
		}
	}
	return s
}

// StorageOf returns storage of the narrowest kind able to hold values.  The
// values are copied.
func StorageOf(values []Value) *Storage {
	k := KindEmpty
	for _, v := range values {
		k = Join(k, KindOf(v))
		if k == KindGeneric {
			break
		}
	}
	s := newStorage(k, len(values))
	for i, v := range values {
		s.setRaw(i, v)
	}
	s.length = len(values)
	return s
}

// newStorage returns zero length storage of kind k with the given capacity.
func newStorage(k Kind, capacity int) *Storage {
	s := &Storage{kind: k}
	switch k {
	case KindEmpty:
	case KindInt:
		s.ints = make([]int64, capacity)
	case KindFloat:
		s.floats = make([]float64, capacity)
	default:
		s.objs = make([]Value, capacity)
	}
	return s
}

// Kind returns the kind of s.
func (s *Storage) Kind() Kind {
	return s.kind
}

// Len returns the number of elements in s.
func (s *Storage) Len() int {
	return s.length
}

// Cap returns the number of elements s can hold without reallocating.
func (s *Storage) Cap() int {
	switch s.kind {
	case KindEmpty:
		return 0
	case KindInt:
		return len(s.ints)
	case KindFloat:
		return len(s.floats)
	default:
		return len(s.objs)
	}
}

// Accepts returns true if v is representable by the kind of s.  Empty
// storage accepts nothing.
func (s *Storage) Accepts(v Value) bool {
	switch s.kind {
	case KindGeneric:
		return true
	case KindEmpty:
		return false
	default:
		return KindOf(v) == s.kind
	}
}

// acceptsAll returns true if every element of src is representable by the
// kind of s.
func (s *Storage) acceptsAll(src *Storage) bool {
	if src.length == 0 || Dominates(s.kind, src.kind) {
		return true
	}
	if s.kind == KindEmpty {
		return false
	}
	for i := 0; i < src.length; i++ {
		if !s.Accepts(src.ItemNormalized(i)) {
			return false
		}
	}
	return true
}

// IndicativeValue returns the first element of s, or nil when s is empty.
// The kind of the indicative value is used to generalize a storage that
// receives the elements of s.
func (s *Storage) IndicativeValue() Value {
	if s.length == 0 {
		return nil
	}
	return s.ItemNormalized(0)
}

// ItemNormalized returns the element at i.  The caller guarantees
// 0 <= i < s.Len().
func (s *Storage) ItemNormalized(i int) Value {
	switch s.kind {
	case KindInt:
		return Int(s.ints[i])
	case KindFloat:
		return Float(s.floats[i])
	case KindEmpty:
		panic(internalf("read of index %d from empty storage", i))
	default:
		return s.objs[i]
	}
}

// SetItemNormalized replaces the element at i.  The caller guarantees
// 0 <= i < s.Len().  ErrStoreMismatch is returned if v is not representable
// by s.
func (s *Storage) SetItemNormalized(i int, v Value) error {
	if !s.Accepts(v) {
		return ErrStoreMismatch
	}
	s.setRaw(i, v)
	return nil
}

// setRaw writes v into the live buffer at i, which may be beyond the
// logical length but must be below the capacity.  v must be accepted.
func (s *Storage) setRaw(i int, v Value) {
	switch s.kind {
	case KindInt:
		s.ints[i] = int64(v.(Int))
	case KindFloat:
		s.floats[i] = float64(v.(Float))
	case KindEmpty:
		panic(internalf("write of index %d to empty storage", i))
	default:
		s.objs[i] = v
	}
}

// CopyItem copies the element at buffer position src to buffer position dst.
// Both positions must be below the capacity of s.
func (s *Storage) CopyItem(dst, src int) {
	switch s.kind {
	case KindInt:
		s.ints[dst] = s.ints[src]
	case KindFloat:
		s.floats[dst] = s.floats[src]
	case KindEmpty:
		panic(internalf("copy within empty storage"))
	default:
		s.objs[dst] = s.objs[src]
	}
}

// DelItemInBound removes the element at i, shifting later elements left.
func (s *Storage) DelItemInBound(i int) {
	switch s.kind {
	case KindInt:
		removeAt(s.ints, i, s.length)
	case KindFloat:
		removeAt(s.floats, i, s.length)
	case KindEmpty:
		panic(internalf("delete of index %d from empty storage", i))
	default:
		removeAt(s.objs, i, s.length)
	}
	s.length--
}

// InsertItem inserts v before the element at i, where 0 <= i <= s.Len().
func (s *Storage) InsertItem(i int, v Value) error {
	if !s.Accepts(v) {
		return ErrStoreMismatch
	}
	err := s.EnsureCapacity(s.length + 1)
	if err != nil {
		return err
	}
	switch s.kind {
	case KindInt:
		openAt(s.ints, i, s.length)
	case KindFloat:
		openAt(s.floats, i, s.length)
	default:
		openAt(s.objs, i, s.length)
	}
	s.setRaw(i, v)
	s.length++
	return nil
}

// AppendItem appends v, growing the buffer geometrically.
func (s *Storage) AppendItem(v Value) error {
	if !s.Accepts(v) {
		return ErrStoreMismatch
	}
	err := s.EnsureCapacity(s.length + 1)
	if err != nil {
		return err
	}
	s.setRaw(s.length, v)
	s.length++
	return nil
}

// EnsureCapacity grows the buffer of s so that it can hold at least n
// elements, preserving the elements and their order.  Empty storage has no
// buffer and is left unchanged.  A MemoryError is returned if n exceeds
// MaxLength.
func (s *Storage) EnsureCapacity(n int) error {
	c := s.Cap()
	if n <= c {
		return nil
	}
	if n > MaxLength {
		return memoryError()
	}
	c = growCapacity(c, n)
	switch s.kind {
	case KindEmpty:
	case KindInt:
		s.ints = growBuffer(s.ints, s.length, c)
	case KindFloat:
		s.floats = growBuffer(s.floats, s.length, c)
	default:
		s.objs = growBuffer(s.objs, s.length, c)
	}
	return nil
}

// SetNewLength truncates or extends the logical length of s to n.  Elements
// between the old and new length are those currently in the buffer.
func (s *Storage) SetNewLength(n int) {
	if n > s.Cap() {
		panic(internalf("length %d exceeds capacity %d", n, s.Cap()))
	}
	if s.kind.isObject() {
		for i := n; i < s.length; i++ {
			s.objs[i] = nil
		}
	}
	s.length = n
}

// Copy returns a new storage of the same kind holding the elements of s.
func (s *Storage) Copy() *Storage {
	c := &Storage{kind: s.kind, length: s.length}
	switch s.kind {
	case KindEmpty:
	case KindInt:
		c.ints = cloneBuffer(s.ints, s.length)
	case KindFloat:
		c.floats = cloneBuffer(s.floats, s.length)
	default:
		c.objs = cloneBuffer(s.objs, s.length)
	}
	return c
}

// Reverse reverses the order of the elements of s in place.
func (s *Storage) Reverse() {
	switch s.kind {
	case KindEmpty:
	case KindInt:
		reverseBuffer(s.ints[:s.length])
	case KindFloat:
		reverseBuffer(s.floats[:s.length])
	default:
		reverseBuffer(s.objs[:s.length])
	}
}

// Slice returns new storage holding the elements selected by eff.  The
// result has the kind of s unless it is empty, in which case it has kind
// KindEmpty.
func (s *Storage) Slice(eff EffectiveSlice) *Storage {
	if eff.Length == 0 {
		return NewEmptyStorage()
	}
	out := newStorage(s.kind, eff.Length)
	switch s.kind {
	case KindInt:
		gather(out.ints, s.ints, eff.Start, eff.Step, eff.Length)
	case KindFloat:
		gather(out.floats, s.floats, eff.Start, eff.Step, eff.Length)
	default:
		gather(out.objs, s.objs, eff.Start, eff.Step, eff.Length)
	}
	out.length = eff.Length
	return out
}

// Repeat returns new storage holding n consecutive copies of the elements
// of s.  A MemoryError is returned if the result would exceed MaxLength.
func (s *Storage) Repeat(n int64) (*Storage, error) {
	if n <= 0 || s.length == 0 {
		return NewEmptyStorage(), nil
	}
	if n > MaxLength || int64(s.length) > MaxLength/n {
		return nil, memoryError()
	}
	total := s.length * int(n)
	out := newStorage(s.kind, total)
	switch s.kind {
	case KindInt:
		repeatBuffer(out.ints, s.ints[:s.length])
	case KindFloat:
		repeatBuffer(out.floats, s.floats[:s.length])
	default:
		repeatBuffer(out.objs, s.objs[:s.length])
	}
	out.length = total
	return out, nil
}

// Concat returns new storage holding the elements of s followed by the
// elements of other.  The kind of the result is the join of both kinds.
func (s *Storage) Concat(other *Storage) (*Storage, error) {
	total := int64(s.length) + int64(other.length)
	if total > MaxLength {
		return nil, memoryError()
	}
	out := newStorage(Join(s.kind, other.kind), int(total))
	out.transfer(0, 1, s, false)
	out.transfer(s.length, 1, other, false)
	out.length = int(total)
	return out, nil
}

// appendStorage appends the elements of src to s.  The caller guarantees
// s.acceptsAll(src).
func (s *Storage) appendStorage(src *Storage) error {
	n := src.length
	if n == 0 {
		return nil
	}
	err := s.EnsureCapacity(s.length + n)
	if err != nil {
		return err
	}
	s.transfer(s.length, 1, src, false)
	s.length += n
	return nil
}

// transfer writes every element of src into the buffer of s at positions
// start, start+step, ...  When reversed is true the elements of src are
// written in reverse order.  The caller guarantees that the positions are
// below the capacity of s and that s.acceptsAll(src).
func (s *Storage) transfer(start, step int, src *Storage, reversed bool) {
	n := src.length
	if n == 0 {
		return
	}
	switch {
	case s.kind == KindInt && src.kind == KindInt:
		scatter(s.ints, src.ints, start, step, n, reversed)
	case s.kind == KindFloat && src.kind == KindFloat:
		scatter(s.floats, src.floats, start, step, n, reversed)
	case s.kind.isObject() && src.kind.isObject():
		scatter(s.objs, src.objs, start, step, n, reversed)
	default:
		for i, j := start, 0; j < n; i, j = i+step, j+1 {
			k := j
			if reversed {
				k = n - 1 - j
			}
			s.setRaw(i, src.ItemNormalized(k))
		}
	}
}

// compact removes every element whose position is reported by doomed,
// preserving the order of the remaining elements.
func (s *Storage) compact(doomed func(i int) bool) {
	w := 0
	for r := 0; r < s.length; r++ {
		if doomed(r) {
			continue
		}
		if w != r {
			s.CopyItem(w, r)
		}
		w++
	}
	s.SetNewLength(w)
}

// deleteRange removes the elements in [from, to).
func (s *Storage) deleteRange(from, to int) {
	if from >= to {
		return
	}
	n := to - from
	for i := from; i+n < s.length; i++ {
		s.CopyItem(i, i+n)
	}
	s.SetNewLength(s.length - n)
}

// fastIndex searches s[from:to] for v without boxing when v has the element
// type of s.  The boolean result is false when no fast path applies.
func (s *Storage) fastIndex(v Value, from, to int) (int, bool) {
	switch s.kind {
	case KindInt:
		if x, ok := v.(Int); ok {
			return indexNumber(s.ints, from, to, int64(x)), true
		}
	case KindFloat:
		if x, ok := v.(Float); ok {
			return indexNumber(s.floats, from, to, float64(x)), true
		}
	}
	return -1, false
}

// fastCount counts occurrences of v without boxing when v has the element
// type of s.
func (s *Storage) fastCount(v Value) (int, bool) {
	switch s.kind {
	case KindInt:
		if x, ok := v.(Int); ok {
			return countNumber(s.ints[:s.length], int64(x)), true
		}
	case KindFloat:
		if x, ok := v.(Float); ok {
			return countNumber(s.floats[:s.length], float64(x)), true
		}
	}
	return 0, false
}
