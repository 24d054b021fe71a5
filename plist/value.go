// Copyright © 2024 The ELPS authors

package plist

import (
	"math"
	"math/big"
)

// Value is a value of the host language that can be stored in a list.
// Values are never nil; the absent value is None.
type Value interface {
	// TypeName returns the name of the value's type as the host language
	// reports it in error messages (e.g. "int", "list").
	TypeName() string
}

// Int is a machine-word integer.  Lists holding only Int values use Int64
// storage.
type Int int64

func (Int) TypeName() string { return "int" }

// Float is a double precision float.  Lists holding only Float values use
// Float64 storage.
type Float float64

func (Float) TypeName() string { return "float" }

// Str is an immutable string.
type Str string

func (Str) TypeName() string { return "str" }

// Bool is a boolean.  Booleans are valid indices (False is 0, True is 1) but
// they are not stored in Int64 storage.
type Bool bool

func (Bool) TypeName() string { return "bool" }

// True and False are the Bool values.
const (
	True  = Bool(true)
	False = Bool(false)
)

// NoneType is the type of None.
type NoneType struct{}

func (NoneType) TypeName() string { return "NoneType" }

// None is the absent value.
var None Value = NoneType{}

type notImplementedType struct{}

func (notImplementedType) TypeName() string { return "NotImplementedType" }

// NotImplemented is returned by binary operations that do not support the
// type of their other operand.  It is a signal for the caller's dispatch
// layer and not an error by itself.
var NotImplemented Value = notImplementedType{}

// BigInt is an integer outside the int64 range.  Use NewInt to construct
// integers of any magnitude.
type BigInt struct {
	x *big.Int
}

func (*BigInt) TypeName() string { return "int" }

// NewInt returns x as an Int when it fits in an int64 and as a *BigInt
// otherwise.  The argument is not retained.
func NewInt(x *big.Int) Value {
	if x.IsInt64() {
		return Int(x.Int64())
	}
	return &BigInt{x: new(big.Int).Set(x)}
}

// Big returns a copy of the value of b.
func (b *BigInt) Big() *big.Int {
	return new(big.Int).Set(b.x)
}

func (b *BigInt) String() string {
	return b.x.String()
}

// clamp returns the int64 nearest to b.
func (b *BigInt) clamp() int64 {
	if b.x.Sign() < 0 {
		return math.MinInt64
	}
	return math.MaxInt64
}

// Slice is a slice descriptor as written by the caller, e.g. L[start:stop:step].
// A nil field (or None) means the bound was omitted.
type Slice struct {
	Start Value
	Stop  Value
	Step  Value
}

func (Slice) TypeName() string { return "slice" }

// NewSlice returns a descriptor for the contiguous slice [start:stop].
func NewSlice(start, stop Value) Slice {
	return Slice{Start: start, Stop: stop}
}

// Iterator is the lazy sequence protocol.  Next returns false when the
// sequence is exhausted.
type Iterator interface {
	Next() (Value, bool, error)
}

// Iterable is implemented by values which can produce an Iterator.
type Iterable interface {
	Value
	Iter() Iterator
}

// Indexer is implemented by values which can be converted to an integer
// index (the __index__ capability).  Index must return an Int, Bool or
// *BigInt.
type Indexer interface {
	Value
	Index() (Value, error)
}

// Equaler is implemented by values with a custom notion of equality.
type Equaler interface {
	Value
	Equal(other Value) (bool, error)
}

// Orderer is implemented by values which define an ordering.
type Orderer interface {
	Value
	Less(other Value) (bool, error)
}

// Reprer is implemented by values with a custom representation.  Repr must
// return a Str; any other value is reported as a TypeError when the
// representation is used.
type Reprer interface {
	Value
	Repr() (Value, error)
}
