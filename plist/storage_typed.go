// Copyright © 2024 The ELPS authors

package plist

// Typed accessors read and write the unboxed buffers of a storage.  They
// panic when the storage has the wrong kind; callers check Kind first.

func (s *Storage) mustBe(k Kind) {
	if s.kind != k {
		panic(internalf("%s access to %s storage", k, s.kind))
	}
}

// IntItem returns the element at i of Int64 storage.
func (s *Storage) IntItem(i int) int64 {
	s.mustBe(KindInt)
	return s.ints[i]
}

// FloatItem returns the element at i of Float64 storage.
func (s *Storage) FloatItem(i int) float64 {
	s.mustBe(KindFloat)
	return s.floats[i]
}

// ListItem returns the element at i of list storage.
func (s *Storage) ListItem(i int) *List {
	s.mustBe(KindList)
	return s.objs[i].(*List)
}

// TupleItem returns the element at i of tuple storage.
func (s *Storage) TupleItem(i int) *Tuple {
	s.mustBe(KindTuple)
	return s.objs[i].(*Tuple)
}

// SetIntItem replaces the element at i of Int64 storage.
func (s *Storage) SetIntItem(i int, x int64) {
	s.mustBe(KindInt)
	s.ints[i] = x
}

// SetFloatItem replaces the element at i of Float64 storage.
func (s *Storage) SetFloatItem(i int, x float64) {
	s.mustBe(KindFloat)
	s.floats[i] = x
}

// AppendInt appends x to Int64 storage.
func (s *Storage) AppendInt(x int64) error {
	s.mustBe(KindInt)
	err := s.EnsureCapacity(s.length + 1)
	if err != nil {
		return err
	}
	s.ints[s.length] = x
	s.length++
	return nil
}

// AppendFloat appends x to Float64 storage.
func (s *Storage) AppendFloat(x float64) error {
	s.mustBe(KindFloat)
	err := s.EnsureCapacity(s.length + 1)
	if err != nil {
		return err
	}
	s.floats[s.length] = x
	s.length++
	return nil
}

// IntSlice returns the live elements of Int64 storage.  The result aliases
// the storage buffer.
func (s *Storage) IntSlice() []int64 {
	s.mustBe(KindInt)
	return s.ints[:s.length]
}

// FloatSlice returns the live elements of Float64 storage.  The result
// aliases the storage buffer.
func (s *Storage) FloatSlice() []float64 {
	s.mustBe(KindFloat)
	return s.floats[:s.length]
}
