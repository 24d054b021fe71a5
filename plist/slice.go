// Copyright © 2024 The ELPS authors

package plist

import (
	"errors"

	"github.com/bits-and-blooms/bitset"
)

// SetSlice replaces the elements of l selected by desc with the elements of
// values.  For a contiguous slice (step 1) the list grows or shrinks to fit
// values.  For an extended slice the number of values must equal the
// number of selected positions, otherwise a ValueError is returned and l is
// unchanged.
//
// values may be l itself, in which case the elements are read from a
// snapshot taken before any write.
func (l *List) SetSlice(desc Slice, values Value) error {
	src, err := sequenceStorage(values, "can only assign an iterable")
	if err != nil {
		return err
	}
	eff, err := ComputeEffectiveSlice(desc, l.store.length)
	if err != nil {
		return err
	}
	return l.setSlice(eff, src)
}

func (l *List) setSlice(eff EffectiveSlice, src *Storage) error {
	if src == l.store {
		src = src.Copy()
	}
	if eff.Step != 1 && src.length != eff.Length {
		return Errorf(ValueError, "attempt to assign sequence of size %d to extended slice of size %d", src.length, eff.Length)
	}
	if !Dominates(l.store.kind, src.kind) {
		l.store = GeneralizeFor(l.store, src)
	}
	err := writeSlice(l.store, eff, src)
	if errors.Is(err, ErrStoreMismatch) {
		l.store = GeneralizeTo(l.store, KindGeneric)
		err = writeSlice(l.store, eff, src)
		if errors.Is(err, ErrStoreMismatch) {
			panic(internalf("generic storage rejected slice assignment"))
		}
	}
	return err
}

// writeSlice is the storage write used by slice assignment.  Tests replace
// it to simulate storage that rejects a write after generalization.
var writeSlice = setSliceStorage

// setSliceStorage writes src into the positions of s selected by eff.  The
// caller guarantees that an extended slice selects exactly src.Len()
// positions.  ErrStoreMismatch is returned, before any write, when s cannot
// represent every element of src.
func setSliceStorage(s *Storage, eff EffectiveSlice, src *Storage) error {
	if !s.acceptsAll(src) {
		return ErrStoreMismatch
	}
	length := s.length
	valueLen := src.length
	start, stop, step := eff.Start, eff.Stop, eff.Step
	negativeStep := false
	if step < 0 {
		// Traverse the selected positions in ascending order and write the
		// values back to front.
		step = -step
		stop++
		tmpStart := stop + (start-stop)%step
		stop = start + 1
		start = tmpStart
		negativeStep = true
	}
	if start < 0 {
		start = 0
	} else if start > length {
		start = length
	}
	if stop < start {
		stop = start
	} else if stop > length {
		stop = length
	}

	if step != 1 {
		s.transfer(start, step, src, negativeStep)
		return nil
	}

	delta := valueLen - (stop - start)
	if length+delta == 0 {
		s.SetNewLength(0)
		return nil
	}
	if delta < 0 {
		for index := stop + delta; index < length+delta; index++ {
			s.CopyItem(index, index-delta)
		}
		s.SetNewLength(length + delta)
	} else if delta > 0 {
		err := s.EnsureCapacity(length + delta)
		if err != nil {
			return err
		}
		for index := length - 1; index >= stop; index-- {
			s.CopyItem(index+delta, index)
		}
		s.SetNewLength(length + delta)
	}
	s.transfer(start, 1, src, negativeStep)
	return nil
}

// DelSlice removes the elements of l selected by desc.
func (l *List) DelSlice(desc Slice) error {
	eff, err := ComputeEffectiveSlice(desc, l.store.length)
	if err != nil {
		return err
	}
	l.delSlice(eff)
	return nil
}

func (l *List) delSlice(eff EffectiveSlice) {
	if eff.Length == 0 {
		return
	}
	switch eff.Step {
	case 1:
		l.store.deleteRange(eff.Start, eff.Start+eff.Length)
	case -1:
		l.store.deleteRange(eff.Start-eff.Length+1, eff.Start+1)
	default:
		doomed := bitset.New(uint(l.store.length))
		for i, k := eff.Start, 0; k < eff.Length; i, k = i+eff.Step, k+1 {
			doomed.Set(uint(i))
		}
		l.store.compact(func(i int) bool { return doomed.Test(uint(i)) })
	}
}
