// Copyright © 2024 The ELPS authors

package interp

import (
	"fmt"
	"math/big"

	"github.com/luthersystems/plist/plist"
)

// Range is the lazy arithmetic sequence produced by the range builtin.
type Range struct {
	Start int64
	Stop  int64
	Step  int64
}

var (
	_ plist.Iterable = (*Range)(nil)
	_ plist.Reprer   = (*Range)(nil)
)

// NewRange returns the range from start (inclusive) to stop (exclusive).
// Step must not be zero.
func NewRange(start, stop, step int64) (*Range, error) {
	if step == 0 {
		return nil, plist.Errorf(plist.ValueError, "range() arg 3 must not be zero")
	}
	return &Range{Start: start, Stop: stop, Step: step}, nil
}

func (*Range) TypeName() string { return "range" }

// Len returns the number of elements in r.
func (r *Range) Len() uint64 {
	switch {
	case r.Step > 0 && r.Start < r.Stop:
		d := uint64(r.Stop) - uint64(r.Start)
		return (d-1)/uint64(r.Step) + 1
	case r.Step < 0 && r.Start > r.Stop:
		d := uint64(r.Start) - uint64(r.Stop)
		step := uint64(-(r.Step + 1)) + 1
		return (d-1)/step + 1
	default:
		return 0
	}
}

// Iter returns an iterator over the elements of r.
func (r *Range) Iter() plist.Iterator {
	return &rangeIterator{next: r.Start, remaining: r.Len(), step: r.Step}
}

func (r *Range) Repr() (plist.Value, error) {
	if r.Step == 1 {
		return plist.Str(fmt.Sprintf("range(%d, %d)", r.Start, r.Stop)), nil
	}
	return plist.Str(fmt.Sprintf("range(%d, %d, %d)", r.Start, r.Stop, r.Step)), nil
}

type rangeIterator struct {
	next      int64
	remaining uint64
	step      int64
}

func (it *rangeIterator) Next() (plist.Value, bool, error) {
	if it.remaining == 0 {
		return nil, false, nil
	}
	v := it.next
	it.remaining--
	if it.remaining > 0 {
		it.next += it.step
	}
	return plist.Int(v), true, nil
}

// rangeArgs converts the arguments of the range builtin.
func rangeArgs(args []plist.Value) (*Range, error) {
	bounds := make([]int64, len(args))
	for i, arg := range args {
		x, err := plist.AsIndex(arg)
		if err != nil {
			return nil, err
		}
		if b, ok := arg.(*plist.BigInt); ok {
			return nil, plist.Errorf(plist.ValueError, "range() argument %s is out of range", b)
		}
		bounds[i] = x
	}
	switch len(bounds) {
	case 1:
		return NewRange(0, bounds[0], 1)
	case 2:
		return NewRange(bounds[0], bounds[1], 1)
	default:
		return NewRange(bounds[0], bounds[1], bounds[2])
	}
}

// lenValue converts a length to an int value.
func lenValue(n uint64) plist.Value {
	return plist.NewInt(new(big.Int).SetUint64(n))
}
