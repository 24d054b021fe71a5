// Copyright © 2024 The ELPS authors

package plist

// Kind tags the representation backing a Storage.
//
// The kinds form a lattice used when a storage must be generalized to hold a
// new value:
//
//	Empty < {Int, Float, List, Tuple} < Generic
//
// Int and Float are not comparable.  A list of integers that receives a
// float is generalized to Generic.
type Kind uint8

// Kind constants.
const (
	// KindEmpty storage has no elements and no buffer.  New lists start
	// with empty storage.
	KindEmpty Kind = iota
	// KindInt storage holds Int values in an []int64.
	KindInt
	// KindFloat storage holds Float values in a []float64.
	KindFloat
	// KindList storage holds only *List values.
	KindList
	// KindTuple storage holds only *Tuple values.
	KindTuple
	// KindGeneric storage holds any value.
	KindGeneric
	kindMax
)

var kindStrings = []string{
	KindEmpty:   "empty",
	KindInt:     "int64",
	KindFloat:   "float64",
	KindList:    "list",
	KindTuple:   "tuple",
	KindGeneric: "generic",
}

func (k Kind) String() string {
	if k >= kindMax {
		return "invalid"
	}
	return kindStrings[k]
}

// isObject returns true for kinds backed by a []Value buffer.
func (k Kind) isObject() bool {
	return k == KindList || k == KindTuple || k == KindGeneric
}

// KindOf returns the narrowest storage kind able to hold v.
func KindOf(v Value) Kind {
	switch v.(type) {
	case Int:
		return KindInt
	case Float:
		return KindFloat
	case *List:
		return KindList
	case *Tuple:
		return KindTuple
	default:
		return KindGeneric
	}
}

// Join returns the least kind dominating both a and b.
func Join(a, b Kind) Kind {
	switch {
	case a == b:
		return a
	case a == KindEmpty:
		return b
	case b == KindEmpty:
		return a
	default:
		return KindGeneric
	}
}

// Dominates returns true if storage of kind a can hold every value that
// storage of kind b can hold.
func Dominates(a, b Kind) bool {
	return a == b || a == KindGeneric || b == KindEmpty
}
