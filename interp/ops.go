// Copyright © 2024 The ELPS authors

package interp

import (
	"math/big"
	"strings"

	"github.com/luthersystems/plist/plist"
)

// op returns the descriptor of the operation name applied to recv at the
// statement being evaluated.
func (env *Env) op(recv plist.Value, name string) *Op {
	return &Op{Namespace: recv.TypeName(), Name: name, Source: env.loc}
}

// call runs fn as the operation op on recv.  The operation is traced by the
// runtime profiler and a change in the storage kind of a list receiver is
// logged.
func (env *Env) call(op *Op, recv plist.Value, fn func() (plist.Value, error)) (plist.Value, error) {
	if p := env.Runtime.Profiler; p != nil && p.IsEnabled() {
		defer p.Start(op)()
	}
	l, ok := recv.(*plist.List)
	if !ok {
		return fn()
	}
	before := l.Kind()
	v, err := fn()
	if after := l.Kind(); after != before {
		env.Runtime.Logger.Debug().
			Str("op", op.Label()).
			Stringer("from", before).
			Stringer("to", after).
			Int("len", l.Len()).
			Msg("list storage kind changed")
	}
	return v, err
}

func unsupported(op string, x, y plist.Value) error {
	return plist.Errorf(plist.TypeError, "unsupported operand type(s) for %s: '%s' and '%s'", op, x.TypeName(), y.TypeName())
}

var compareOps = map[string]plist.CompareOp{
	"<":  plist.OpLT,
	"<=": plist.OpLE,
	"==": plist.OpEQ,
	"!=": plist.OpNE,
	">":  plist.OpGT,
	">=": plist.OpGE,
}

var compareMethods = []string{
	plist.OpLT: "__lt__",
	plist.OpLE: "__le__",
	plist.OpEQ: "__eq__",
	plist.OpNE: "__ne__",
	plist.OpGT: "__gt__",
	plist.OpGE: "__ge__",
}

// reflected returns the operator applied when the operands of op are
// swapped.
func reflected(op plist.CompareOp) plist.CompareOp {
	switch op {
	case plist.OpLT:
		return plist.OpGT
	case plist.OpLE:
		return plist.OpGE
	case plist.OpGT:
		return plist.OpLT
	case plist.OpGE:
		return plist.OpLE
	default:
		return op
	}
}

func (env *Env) binary(op string, x, y plist.Value) (plist.Value, error) {
	switch op {
	case "+":
		return env.add(x, y)
	case "*":
		return env.mul(x, y)
	case "-":
		if v, ok := arith(op, x, y); ok {
			return v, nil
		}
		return nil, unsupported(op, x, y)
	case "in":
		b, err := env.contains(y, x)
		return plist.Bool(b), err
	case "not in":
		b, err := env.contains(y, x)
		return plist.Bool(!b), err
	}
	cmp, ok := compareOps[op]
	if !ok {
		return nil, interpErrorf(CondSyntaxError, "unknown operator %s", op)
	}
	return env.compare(cmp, x, y)
}

func (env *Env) compare(op plist.CompareOp, x, y plist.Value) (plist.Value, error) {
	l, lok := x.(*plist.List)
	r, rok := y.(*plist.List)
	if !lok && !rok {
		b, err := plist.Compare(x, y, op)
		if err != nil {
			return nil, err
		}
		return plist.Bool(b), nil
	}
	if lok {
		v, err := env.call(env.op(l, compareMethods[op]), l, func() (plist.Value, error) {
			return l.RichCompare(op, y)
		})
		if err != nil || v != plist.NotImplemented {
			return v, err
		}
	}
	if rok {
		rop := reflected(op)
		v, err := env.call(env.op(r, compareMethods[rop]), r, func() (plist.Value, error) {
			return r.RichCompare(rop, x)
		})
		if err != nil || v != plist.NotImplemented {
			return v, err
		}
	}
	return nil, plist.Errorf(plist.TypeError, "'%s' not supported between instances of '%s' and '%s'", op, x.TypeName(), y.TypeName())
}

func (env *Env) add(x, y plist.Value) (plist.Value, error) {
	switch a := x.(type) {
	case *plist.List:
		return env.call(env.op(a, "__add__"), a, func() (plist.Value, error) {
			return a.Add(y)
		})
	case *plist.Tuple:
		return env.call(env.op(a, "__add__"), a, func() (plist.Value, error) {
			return a.Add(y)
		})
	case plist.Str:
		if b, ok := y.(plist.Str); ok {
			return a + b, nil
		}
		return nil, plist.Errorf(plist.TypeError, "can only concatenate str (not \"%s\") to str", y.TypeName())
	}
	if v, ok := arith("+", x, y); ok {
		return v, nil
	}
	return nil, unsupported("+", x, y)
}

// repeatable is implemented by sequences supporting repetition.
type repeatable interface {
	plist.Value
	Len() int
	Mul(n plist.Value) (plist.Value, error)
}

func (env *Env) mul(x, y plist.Value) (plist.Value, error) {
	if s, ok := x.(plist.Str); ok {
		return env.repeatStr(s, y)
	}
	if s, ok := y.(plist.Str); ok {
		return env.repeatStr(s, x)
	}
	if seq, ok := x.(repeatable); ok {
		return env.repeat(seq, "__mul__", y)
	}
	if seq, ok := y.(repeatable); ok {
		return env.repeat(seq, "__rmul__", x)
	}
	if v, ok := arith("*", x, y); ok {
		return v, nil
	}
	return nil, unsupported("*", x, y)
}

func (env *Env) repeat(seq repeatable, method string, n plist.Value) (plist.Value, error) {
	if err := env.checkRepeat(seq.Len(), n); err != nil {
		return nil, err
	}
	v, err := env.call(env.op(seq, method), seq, func() (plist.Value, error) {
		return seq.Mul(n)
	})
	if err != nil {
		return nil, err
	}
	if v == plist.NotImplemented {
		return nil, plist.Errorf(plist.TypeError, "can't multiply sequence by non-int of type '%s'", n.TypeName())
	}
	return v, nil
}

func (env *Env) repeatStr(s plist.Str, n plist.Value) (plist.Value, error) {
	if _, ok := n.(plist.Float); ok {
		return nil, plist.Errorf(plist.TypeError, "can't multiply sequence by non-int of type '%s'", n.TypeName())
	}
	count, err := plist.AsIndex(n)
	if err != nil {
		return nil, plist.Errorf(plist.TypeError, "can't multiply sequence by non-int of type '%s'", n.TypeName())
	}
	if count <= 0 || s == "" {
		return plist.Str(""), nil
	}
	if err := env.checkRepeat(len(s), plist.Int(count)); err != nil {
		return nil, err
	}
	return plist.Str(strings.Repeat(string(s), int(count))), nil
}

// checkRepeat fails with a MemoryError when repeating a sequence of length
// n times would exceed the runtime limit.  Non-integer counts are left to
// the sequence to reject.
func (env *Env) checkRepeat(length int, n plist.Value) error {
	limit := env.Runtime.MaxRepeatLength
	if limit <= 0 || length == 0 {
		return nil
	}
	count, err := plist.AsIndex(n)
	if err != nil || count <= 0 {
		return nil
	}
	if count > limit/int64(length) {
		return plist.Errorf(plist.MemoryError, "repetition exceeds the limit of %d elements", limit)
	}
	return nil
}

func (env *Env) inPlace(op string, cur, rhs plist.Value) (plist.Value, error) {
	if l, ok := cur.(*plist.List); ok {
		switch op {
		case "+=":
			return env.call(env.op(l, "__iadd__"), l, func() (plist.Value, error) {
				return l.InPlaceAdd(rhs)
			})
		case "*=":
			if err := env.checkRepeat(l.Len(), rhs); err != nil {
				return nil, err
			}
			return env.call(env.op(l, "__imul__"), l, func() (plist.Value, error) {
				return l.InPlaceMul(rhs)
			})
		}
	}
	switch op {
	case "+=":
		return env.add(cur, rhs)
	case "*=":
		return env.mul(cur, rhs)
	default:
		return nil, interpErrorf(CondSyntaxError, "unknown operator %s", op)
	}
}

func (env *Env) contains(container, item plist.Value) (bool, error) {
	switch c := container.(type) {
	case *plist.List:
		v, err := env.call(env.op(c, "__contains__"), c, func() (plist.Value, error) {
			ok, err := c.Contains(item)
			return plist.Bool(ok), err
		})
		return v == plist.True, err
	case *plist.Tuple:
		return c.Contains(item)
	case plist.Str:
		s, ok := item.(plist.Str)
		if !ok {
			return false, plist.Errorf(plist.TypeError, "'in <string>' requires string as left operand, not %s", item.TypeName())
		}
		return strings.Contains(string(c), string(s)), nil
	}
	it, ok := plist.IterOf(container)
	if !ok {
		return false, plist.Errorf(plist.TypeError, "argument of type '%s' is not iterable", container.TypeName())
	}
	for {
		v, ok, err := it.Next()
		if err != nil || !ok {
			return false, err
		}
		eq, err := plist.Eq(v, item)
		if err != nil || eq {
			return eq, err
		}
	}
}

func (env *Env) getItem(x, key plist.Value) (plist.Value, error) {
	switch c := x.(type) {
	case *plist.List:
		return env.call(env.op(c, "__getitem__"), c, func() (plist.Value, error) {
			return c.GetItem(key)
		})
	case *plist.Tuple:
		return env.call(env.op(c, "__getitem__"), c, func() (plist.Value, error) {
			return c.GetItem(key)
		})
	}
	return nil, plist.Errorf(plist.TypeError, "'%s' object is not subscriptable", x.TypeName())
}

func (env *Env) setItem(x, key, v plist.Value) error {
	l, ok := x.(*plist.List)
	if !ok {
		return plist.Errorf(plist.TypeError, "'%s' object does not support item assignment", x.TypeName())
	}
	_, err := env.call(env.op(l, "__setitem__"), l, func() (plist.Value, error) {
		return plist.None, l.SetItem(key, v)
	})
	return err
}

func (env *Env) delItem(x, key plist.Value) error {
	l, ok := x.(*plist.List)
	if !ok {
		return plist.Errorf(plist.TypeError, "'%s' object doesn't support item deletion", x.TypeName())
	}
	_, err := env.call(env.op(l, "__delitem__"), l, func() (plist.Value, error) {
		return plist.None, l.DelItem(key)
	})
	return err
}

// arith applies an arithmetic operator to two numbers.  Integers never
// overflow.  The boolean result is false when either operand is not a
// number.
func arith(op string, x, y plist.Value) (plist.Value, bool) {
	_, xf := x.(plist.Float)
	_, yf := y.(plist.Float)
	if xf || yf {
		a, ok := toFloat(x)
		if !ok {
			return nil, false
		}
		b, ok := toFloat(y)
		if !ok {
			return nil, false
		}
		switch op {
		case "+":
			return plist.Float(a + b), true
		case "-":
			return plist.Float(a - b), true
		case "*":
			return plist.Float(a * b), true
		}
		return nil, false
	}
	a, ok := toBig(x)
	if !ok {
		return nil, false
	}
	b, ok := toBig(y)
	if !ok {
		return nil, false
	}
	switch op {
	case "+":
		a.Add(a, b)
	case "-":
		a.Sub(a, b)
	case "*":
		a.Mul(a, b)
	default:
		return nil, false
	}
	return plist.NewInt(a), true
}

func negate(v plist.Value) (plist.Value, error) {
	if f, ok := v.(plist.Float); ok {
		return -f, nil
	}
	if x, ok := toBig(v); ok {
		return plist.NewInt(x.Neg(x)), nil
	}
	return nil, plist.Errorf(plist.TypeError, "bad operand type for unary -: '%s'", v.TypeName())
}

func toBig(v plist.Value) (*big.Int, bool) {
	switch x := v.(type) {
	case plist.Int:
		return big.NewInt(int64(x)), true
	case plist.Bool:
		if x {
			return big.NewInt(1), true
		}
		return big.NewInt(0), true
	case *plist.BigInt:
		return x.Big(), true
	}
	return nil, false
}

func toFloat(v plist.Value) (float64, bool) {
	if f, ok := v.(plist.Float); ok {
		return float64(f), true
	}
	x, ok := toBig(v)
	if !ok {
		return 0, false
	}
	f, _ := new(big.Float).SetInt(x).Float64()
	return f, true
}

func truthy(v plist.Value) bool {
	switch x := v.(type) {
	case plist.Bool:
		return bool(x)
	case plist.Int:
		return x != 0
	case plist.Float:
		return x != 0
	case plist.Str:
		return x != ""
	case plist.NoneType:
		return false
	case *plist.List:
		return x.Bool()
	case *plist.Tuple:
		return x.Len() > 0
	case *Range:
		return x.Len() > 0
	}
	return true
}
