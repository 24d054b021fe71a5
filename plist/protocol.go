// Copyright © 2024 The ELPS authors

package plist

import (
	"math"
	"math/big"
	"reflect"
	"strings"
)

// CompareOp is a rich comparison operator.
type CompareOp uint8

// CompareOp constants.
const (
	OpLT CompareOp = iota
	OpLE
	OpEQ
	OpNE
	OpGT
	OpGE
)

var compareOpStrings = []string{
	OpLT: "<",
	OpLE: "<=",
	OpEQ: "==",
	OpNE: "!=",
	OpGT: ">",
	OpGE: ">=",
}

func (op CompareOp) String() string {
	if int(op) >= len(compareOpStrings) {
		return "?"
	}
	return compareOpStrings[op]
}

// holds returns true if op is satisfied by a three way comparison result c.
func (op CompareOp) holds(c int) bool {
	switch op {
	case OpLT:
		return c < 0
	case OpLE:
		return c <= 0
	case OpEQ:
		return c == 0
	case OpNE:
		return c != 0
	case OpGT:
		return c > 0
	default:
		return c >= 0
	}
}

// maxCompareDepth bounds the nesting of sequences compared element-wise.
const maxCompareDepth = 1000

// Eq returns true if a and b are equal.  Numbers compare by value across
// Int, Float, Bool and big integers, and NaN is equal to nothing.  Lists
// and tuples compare element-wise.  Values implementing Equaler are asked
// next, and otherwise values are equal only if they are identical.
func Eq(a, b Value) (bool, error) {
	return eq(a, b, 0)
}

func eq(a, b Value, depth int) (bool, error) {
	if c, ok, nan := numericCmp(a, b); ok {
		return !nan && c == 0, nil
	}
	switch x := a.(type) {
	case Str:
		y, ok := b.(Str)
		return ok && x == y, nil
	case NoneType:
		_, ok := b.(NoneType)
		return ok, nil
	case *List:
		if y, ok := b.(*List); ok {
			return compareSequences(x, y, OpEQ, depth)
		}
		return false, nil
	case *Tuple:
		if y, ok := b.(*Tuple); ok {
			return compareSequences(x, y, OpEQ, depth)
		}
		return false, nil
	}
	if e, ok := a.(Equaler); ok {
		return e.Equal(b)
	}
	if e, ok := b.(Equaler); ok {
		return e.Equal(a)
	}
	return identical(a, b), nil
}

// Less returns true if a orders before b.  A TypeError is returned when the
// values have no ordering.
func Less(a, b Value) (bool, error) {
	return compare(a, b, OpLT, 0)
}

// Compare applies op to a and b.
func Compare(a, b Value, op CompareOp) (bool, error) {
	return compare(a, b, op, 0)
}

func compare(a, b Value, op CompareOp, depth int) (bool, error) {
	switch op {
	case OpEQ:
		return eq(a, b, depth)
	case OpNE:
		e, err := eq(a, b, depth)
		return !e, err
	}
	if c, ok, nan := numericCmp(a, b); ok {
		return !nan && op.holds(c), nil
	}
	switch x := a.(type) {
	case Str:
		if y, ok := b.(Str); ok {
			return op.holds(strings.Compare(string(x), string(y))), nil
		}
	case *List:
		if y, ok := b.(*List); ok {
			return compareSequences(x, y, op, depth)
		}
	case *Tuple:
		if y, ok := b.(*Tuple); ok {
			return compareSequences(x, y, op, depth)
		}
	}
	switch op {
	case OpLT:
		if o, ok := a.(Orderer); ok {
			return o.Less(b)
		}
	case OpGT:
		if o, ok := b.(Orderer); ok {
			return o.Less(a)
		}
	case OpLE:
		if o, ok := a.(Orderer); ok {
			lt, err := o.Less(b)
			if err != nil || lt {
				return lt, err
			}
			return eq(a, b, depth)
		}
	case OpGE:
		if o, ok := b.(Orderer); ok {
			lt, err := o.Less(a)
			if err != nil || lt {
				return lt, err
			}
			return eq(a, b, depth)
		}
	}
	return false, Errorf(TypeError, "'%s' not supported between instances of '%s' and '%s'", op, a.TypeName(), b.TypeName())
}

// compareSequences compares two lists or two tuples lexicographically.
// Lengths are reread after every element comparison because a user defined
// comparison may mutate either sequence.
func compareSequences(a, b sequence, op CompareOp, depth int) (bool, error) {
	if a == b && (op == OpEQ || op == OpLE || op == OpGE) {
		return true, nil
	}
	if depth > maxCompareDepth {
		return false, Errorf(RecursionError, "maximum recursion depth exceeded in comparison")
	}
	sa, sb := a.Storage(), b.Storage()
	if (op == OpEQ || op == OpNE) && sa.length != sb.length {
		return op == OpNE, nil
	}
	i := 0
	n := min(sa.length, sb.length)
	switch {
	case sa.kind == KindInt && sb.kind == KindInt:
		i = firstDifference(sa.ints, sb.ints, n)
	case sa.kind == KindFloat && sb.kind == KindFloat:
		i = firstDifference(sa.floats, sb.floats, n)
	}
	for ; i < a.Storage().length && i < b.Storage().length; i++ {
		x, y := a.Storage().ItemNormalized(i), b.Storage().ItemNormalized(i)
		if identical(x, y) {
			continue
		}
		e, err := eq(x, y, depth+1)
		if err != nil {
			return false, err
		}
		if !e {
			break
		}
	}
	la, lb := a.Storage().length, b.Storage().length
	if i >= la || i >= lb {
		return op.holds(la - lb), nil
	}
	switch op {
	case OpEQ:
		return false, nil
	case OpNE:
		return true, nil
	}
	return compare(a.Storage().ItemNormalized(i), b.Storage().ItemNormalized(i), op, depth+1)
}

// identical returns true if a and b are the same value.  Values of
// incomparable dynamic types are never identical, including structs whose
// interface fields hold such values.
func identical(a, b Value) (same bool) {
	if a == nil || b == nil {
		return a == b
	}
	typ := reflect.TypeOf(a)
	if !typ.Comparable() || typ != reflect.TypeOf(b) {
		return false
	}
	if x, ok := a.(Slice); ok {
		y := b.(Slice)
		return identical(x.Start, y.Start) && identical(x.Stop, y.Stop) && identical(x.Step, y.Step)
	}
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// numericCmp compares two numbers.  The first boolean is false if either
// value is not a number.  The second is true when a NaN is involved and
// the values are unordered.
func numericCmp(a, b Value) (int, bool, bool) {
	switch x := a.(type) {
	case Int:
		if y, ok := b.(Int); ok {
			return cmpInt64(int64(x), int64(y)), true, false
		}
	case Float:
		if y, ok := b.(Float); ok {
			if math.IsNaN(float64(x)) || math.IsNaN(float64(y)) {
				return 0, true, true
			}
			return cmpFloat64(float64(x), float64(y)), true, false
		}
	}
	fa, ok, nan := bigNumber(a)
	if !ok {
		return 0, false, false
	}
	fb, ok, nanb := bigNumber(b)
	if !ok {
		return 0, false, false
	}
	if nan || nanb {
		return 0, true, true
	}
	return fa.Cmp(fb), true, false
}

// bigNumber returns the exact value of a number.
func bigNumber(v Value) (*big.Float, bool, bool) {
	switch x := v.(type) {
	case Int:
		return new(big.Float).SetInt64(int64(x)), true, false
	case Bool:
		if x {
			return big.NewFloat(1), true, false
		}
		return big.NewFloat(0), true, false
	case *BigInt:
		return new(big.Float).SetInt(x.x), true, false
	case Float:
		if math.IsNaN(float64(x)) {
			return nil, true, true
		}
		return big.NewFloat(float64(x)), true, false
	}
	return nil, false, false
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
