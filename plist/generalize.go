// Copyright © 2024 The ELPS authors

package plist

// Generalize returns storage able to hold every element of s and the value
// v.  When s already accepts v it is returned unchanged.  Otherwise a new
// storage of kind Join(s.Kind(), KindOf(v)) holding the elements of s, in
// order, is returned.  Generalize never fails.
func Generalize(s *Storage, v Value) *Storage {
	if s.Accepts(v) {
		return s
	}
	return GeneralizeTo(s, Join(s.kind, KindOf(v)))
}

// GeneralizeTo returns a copy of s converted to kind k, which must dominate
// the kind of s.  The capacity of s is preserved.  When s already has kind
// k it is returned unchanged.
func GeneralizeTo(s *Storage, k Kind) *Storage {
	if s.kind == k {
		return s
	}
	if !Dominates(k, s.kind) {
		panic(internalf("cannot generalize %s storage to %s", s.kind, k))
	}
	capacity := s.Cap()
	if capacity < s.length {
		capacity = s.length
	}
	out := newStorage(k, capacity)
	for i := 0; i < s.length; i++ {
		out.setRaw(i, s.ItemNormalized(i))
	}
	out.length = s.length
	return out
}

// GeneralizeFor returns storage able to receive the elements of other,
// judged by the indicative value of other.  The indicative value only
// hints at the kind needed; callers must still handle ErrStoreMismatch
// when other holds a mixture of kinds.
func GeneralizeFor(s *Storage, other *Storage) *Storage {
	if Dominates(s.kind, other.kind) {
		return s
	}
	v := other.IndicativeValue()
	if v == nil {
		return s
	}
	return Generalize(s, v)
}
