// Copyright © 2024 The ELPS authors

package interp

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/luthersystems/plist/plist"
)

type builtin struct {
	name    string
	minArgs int
	maxArgs int
	sig     string
	doc     string
	fn      func(env *Env, args []plist.Value) (plist.Value, error)
}

var builtins = []*builtin{
	{"len", 1, 1, "len(obj)", "Return the number of items in a container.", builtinLen},
	{"list", 0, 1, "list([iterable])", "Return a new list holding the items of iterable.  The list uses the narrowest storage kind able to hold them.", builtinList},
	{"tuple", 0, 1, "tuple([iterable])", "Return a new tuple holding the items of iterable.", builtinTuple},
	{"range", 1, 3, "range([start,] stop[, step])", "Return the arithmetic sequence from start (inclusive) to stop (exclusive) by step.", builtinRange},
	{"repr", 1, 1, "repr(obj)", "Return the canonical string representation of obj.", builtinRepr},
	{"str", 0, 1, "str([obj])", "Return the string form of obj.", builtinStr},
	{"bool", 0, 1, "bool([obj])", "Return True when obj is true, False otherwise.", builtinBool},
	{"sum", 1, 2, "sum(iterable[, start])", "Return start (default 0) plus the sum of the items of iterable.", builtinSum},
	{"id", 1, 1, "id(obj)", "Return the identity of a list or tuple.  The identity of a list is unchanged when its storage is generalized.", builtinID},
	{"kind", 1, 1, "kind(seq)", "Return the name of the storage kind backing a list or tuple.", builtinKind},
	{"capacity", 1, 1, "capacity(seq)", "Return the number of elements the storage of a list or tuple can hold before it must grow.", builtinCapacity},
	{"print", 0, -1, "print(*objs)", "Write the string forms of objs separated by spaces to standard output.", builtinPrint},
	{"assert", 1, 2, "assert(cond[, msg])", "Raise AssertionError with msg when cond is false.", builtinAssert},
}

var builtinIndex = make(map[string]*builtin)

func init() {
	for _, b := range builtins {
		builtinIndex[b.name] = b
	}
}

// BuiltinDocs returns the documentation of the builtin functions in table
// order.
func BuiltinDocs() []Doc {
	docs := make([]Doc, 0, len(builtins))
	for _, b := range builtins {
		docs = append(docs, Doc{Name: b.name, Signature: b.sig, Doc: b.doc, MinArgs: b.minArgs, MaxArgs: b.maxArgs})
	}
	return docs
}

// BuiltinNames returns the names of the builtin functions.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for _, b := range builtins {
		names = append(names, b.name)
	}
	return names
}

func (env *Env) callBuiltin(name string, args []plist.Value) (plist.Value, error) {
	b, ok := builtinIndex[name]
	if !ok {
		return nil, nameError(name)
	}
	if err := checkArity(name, b.minArgs, b.maxArgs, len(args)); err != nil {
		return nil, err
	}
	var recv plist.Value = plist.None
	if len(args) > 0 {
		recv = args[0]
	}
	op := &Op{Namespace: "builtin", Name: name, Source: env.loc}
	return env.call(op, recv, func() (plist.Value, error) {
		return b.fn(env, args)
	})
}

func builtinLen(env *Env, args []plist.Value) (plist.Value, error) {
	switch x := args[0].(type) {
	case *plist.List:
		return plist.Int(x.Len()), nil
	case *plist.Tuple:
		return plist.Int(x.Len()), nil
	case plist.Str:
		return plist.Int(utf8.RuneCountInString(string(x))), nil
	case *Range:
		return lenValue(x.Len()), nil
	}
	return nil, plist.Errorf(plist.TypeError, "object of type '%s' has no len()", args[0].TypeName())
}

func builtinList(env *Env, args []plist.Value) (plist.Value, error) {
	if len(args) == 0 {
		return plist.NewList(), nil
	}
	return plist.ListFromValue(args[0])
}

func builtinTuple(env *Env, args []plist.Value) (plist.Value, error) {
	if len(args) == 0 {
		return plist.NewTuple(), nil
	}
	return plist.TupleFromValue(args[0])
}

func builtinRange(env *Env, args []plist.Value) (plist.Value, error) {
	return rangeArgs(args)
}

func builtinRepr(env *Env, args []plist.Value) (plist.Value, error) {
	s, err := plist.Repr(args[0])
	if err != nil {
		return nil, err
	}
	return plist.Str(s), nil
}

func builtinStr(env *Env, args []plist.Value) (plist.Value, error) {
	if len(args) == 0 {
		return plist.Str(""), nil
	}
	s, err := plist.ToStr(args[0])
	if err != nil {
		return nil, err
	}
	return plist.Str(s), nil
}

func builtinBool(env *Env, args []plist.Value) (plist.Value, error) {
	if len(args) == 0 {
		return plist.False, nil
	}
	return plist.Bool(truthy(args[0])), nil
}

func builtinSum(env *Env, args []plist.Value) (plist.Value, error) {
	var acc plist.Value = plist.Int(0)
	if len(args) > 1 {
		acc = args[1]
	}
	if _, ok := acc.(plist.Str); ok {
		return nil, plist.Errorf(plist.TypeError, "sum() can't sum strings [use ''.join(seq) instead]")
	}
	it, ok := plist.IterOf(args[0])
	if !ok {
		return nil, plist.Errorf(plist.TypeError, "'%s' object is not iterable", args[0].TypeName())
	}
	// Integer lists are summed without boxing each element.
	if ints, ok := it.(*plist.IntIterator); ok {
		if _, ok := acc.(plist.Int); ok {
			return sumInts(env, ints, acc)
		}
	}
	for {
		v, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return acc, nil
		}
		acc, err = env.add(acc, v)
		if err != nil {
			return nil, err
		}
	}
}

func sumInts(env *Env, it *plist.IntIterator, acc plist.Value) (plist.Value, error) {
	for {
		x, ok, err := it.NextInt()
		if err != nil {
			return nil, err
		}
		if !ok {
			return acc, nil
		}
		v, _ := arith("+", acc, plist.Int(x))
		acc = v
	}
}

func builtinID(env *Env, args []plist.Value) (plist.Value, error) {
	v := reflect.ValueOf(args[0])
	if v.Kind() != reflect.Ptr {
		return nil, plist.Errorf(plist.TypeError, "id() argument must be a list or tuple, not '%s'", args[0].TypeName())
	}
	return plist.Int(int64(v.Pointer())), nil
}

// storageOf returns the storage of a list or tuple argument.
func storageOf(name string, v plist.Value) (*plist.Storage, error) {
	switch x := v.(type) {
	case *plist.List:
		return x.Storage(), nil
	case *plist.Tuple:
		return x.Storage(), nil
	}
	return nil, plist.Errorf(plist.TypeError, "%s() argument must be a list or tuple, not '%s'", name, v.TypeName())
}

func builtinKind(env *Env, args []plist.Value) (plist.Value, error) {
	s, err := storageOf("kind", args[0])
	if err != nil {
		return nil, err
	}
	return plist.Str(s.Kind().String()), nil
}

func builtinCapacity(env *Env, args []plist.Value) (plist.Value, error) {
	s, err := storageOf("capacity", args[0])
	if err != nil {
		return nil, err
	}
	return plist.Int(s.Cap()), nil
}

func builtinPrint(env *Env, args []plist.Value) (plist.Value, error) {
	strs := make([]string, len(args))
	for i, arg := range args {
		s, err := plist.ToStr(arg)
		if err != nil {
			return nil, err
		}
		strs[i] = s
	}
	_, err := fmt.Fprintln(env.Runtime.Stdout, strings.Join(strs, " "))
	if err != nil {
		return nil, err
	}
	return plist.None, nil
}

func builtinAssert(env *Env, args []plist.Value) (plist.Value, error) {
	if truthy(args[0]) {
		return plist.None, nil
	}
	if len(args) == 1 {
		return nil, &interpError{cond: CondAssertionError}
	}
	msg, err := plist.ToStr(args[1])
	if err != nil {
		return nil, err
	}
	return nil, &interpError{cond: CondAssertionError, msg: msg}
}
