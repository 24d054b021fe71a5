// Copyright © 2024 The ELPS authors

package plist

// RichCompare applies op to l and other.  When other is not a list the
// result is False for OpEQ, True for OpNE and NotImplemented for the
// ordering operators.
func (l *List) RichCompare(op CompareOp, other Value) (Value, error) {
	r, ok := other.(*List)
	if !ok {
		switch op {
		case OpEQ:
			return False, nil
		case OpNE:
			return True, nil
		}
		return NotImplemented, nil
	}
	b, err := compareSequences(l, r, op, 0)
	if err != nil {
		return nil, err
	}
	return Bool(b), nil
}

// Equal returns true if other is a list whose elements equal those of l.
func (l *List) Equal(other Value) (bool, error) {
	v, err := l.RichCompare(OpEQ, other)
	return v == True, err
}

// NotEqual is the negation of Equal.
func (l *List) NotEqual(other Value) (bool, error) {
	v, err := l.RichCompare(OpNE, other)
	return v == True, err
}

func (l *List) Less(other Value) (Value, error) {
	return l.RichCompare(OpLT, other)
}

func (l *List) LessEqual(other Value) (Value, error) {
	return l.RichCompare(OpLE, other)
}

func (l *List) Greater(other Value) (Value, error) {
	return l.RichCompare(OpGT, other)
}

func (l *List) GreaterEqual(other Value) (Value, error) {
	return l.RichCompare(OpGE, other)
}
