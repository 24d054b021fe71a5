// Copyright © 2024 The ELPS authors

package interp

import (
	"github.com/luthersystems/plist/plist"
)

// Doc documents a builtin function or a list method.
type Doc struct {
	Name      string
	Signature string
	Doc       string

	// MinArgs and MaxArgs bound the number of arguments.  MaxArgs is -1
	// when there is no upper bound.
	MinArgs int
	MaxArgs int
}

type method struct {
	name    string
	minArgs int
	maxArgs int
	sig     string
	doc     string
	fn      func(l *plist.List, args []plist.Value) (plist.Value, error)
}

var listMethods = []*method{
	{
		name: "append", minArgs: 1, maxArgs: 1,
		sig: "append(object)",
		doc: "Append object to the end of the list.",
		fn: func(l *plist.List, args []plist.Value) (plist.Value, error) {
			return plist.None, l.Append(args[0])
		},
	},
	{
		name: "extend", minArgs: 1, maxArgs: 1,
		sig: "extend(iterable)",
		doc: "Extend the list by appending all the elements of iterable.  Extending a list with itself appends a copy of its elements.",
		fn: func(l *plist.List, args []plist.Value) (plist.Value, error) {
			return plist.None, l.Extend(args[0])
		},
	},
	{
		name: "insert", minArgs: 2, maxArgs: 2,
		sig: "insert(index, object)",
		doc: "Insert object before index.  Indices past either end insert at that end.",
		fn: func(l *plist.List, args []plist.Value) (plist.Value, error) {
			return plist.None, l.Insert(args[0], args[1])
		},
	},
	{
		name: "remove", minArgs: 1, maxArgs: 1,
		sig: "remove(value)",
		doc: "Remove the first occurrence of value.  Raises ValueError if the value is not present.",
		fn: func(l *plist.List, args []plist.Value) (plist.Value, error) {
			return plist.None, l.Remove(args[0])
		},
	},
	{
		name: "pop", minArgs: 0, maxArgs: 1,
		sig: "pop([index])",
		doc: "Remove and return the item at index (default last).  Raises IndexError if the list is empty or index is out of range.",
		fn: func(l *plist.List, args []plist.Value) (plist.Value, error) {
			if len(args) == 0 {
				return l.Pop()
			}
			return l.PopAt(args[0])
		},
	},
	{
		name: "index", minArgs: 1, maxArgs: 3,
		sig: "index(value[, start[, stop]])",
		doc: "Return the first index of value within the optional bounds.  Raises ValueError if the value is not present.",
		fn: func(l *plist.List, args []plist.Value) (plist.Value, error) {
			i, err := l.Index(args[0], args[1:]...)
			if err != nil {
				return nil, err
			}
			return plist.Int(i), nil
		},
	},
	{
		name: "count", minArgs: 1, maxArgs: 1,
		sig: "count(value)",
		doc: "Return the number of occurrences of value.",
		fn: func(l *plist.List, args []plist.Value) (plist.Value, error) {
			n, err := l.Count(args[0])
			if err != nil {
				return nil, err
			}
			return plist.Int(n), nil
		},
	},
	{
		name: "clear", minArgs: 0, maxArgs: 0,
		sig: "clear()",
		doc: "Remove all items from the list.  The list returns to empty storage.",
		fn: func(l *plist.List, args []plist.Value) (plist.Value, error) {
			l.Clear()
			return plist.None, nil
		},
	},
	{
		name: "reverse", minArgs: 0, maxArgs: 0,
		sig: "reverse()",
		doc: "Reverse the list in place.",
		fn: func(l *plist.List, args []plist.Value) (plist.Value, error) {
			l.Reverse()
			return plist.None, nil
		},
	},
	{
		name: "copy", minArgs: 0, maxArgs: 0,
		sig: "copy()",
		doc: "Return a shallow copy of the list using the same storage kind.",
		fn: func(l *plist.List, args []plist.Value) (plist.Value, error) {
			return l.Copy(), nil
		},
	},
}

var listMethodIndex = make(map[string]*method)

func init() {
	for _, m := range listMethods {
		listMethodIndex[m.name] = m
	}
}

// MethodDocs returns the documentation of the list methods in table order.
func MethodDocs() []Doc {
	docs := make([]Doc, 0, len(listMethods))
	for _, m := range listMethods {
		docs = append(docs, Doc{Name: m.name, Signature: m.sig, Doc: m.doc, MinArgs: m.minArgs, MaxArgs: m.maxArgs})
	}
	return docs
}

// MethodNames returns the names of the list methods.
func MethodNames() []string {
	names := make([]string, 0, len(listMethods))
	for _, m := range listMethods {
		names = append(names, m.name)
	}
	return names
}

func (env *Env) callMethod(recv plist.Value, name string, args []plist.Value) (plist.Value, error) {
	l, ok := recv.(*plist.List)
	if !ok {
		return nil, attributeError(recv, name)
	}
	m, ok := listMethodIndex[name]
	if !ok {
		return nil, attributeError(recv, name)
	}
	if err := checkArity(name, m.minArgs, m.maxArgs, len(args)); err != nil {
		return nil, err
	}
	return env.call(env.op(l, name), l, func() (plist.Value, error) {
		return m.fn(l, args)
	})
}

// CheckArgs returns the TypeError raised when the function or method
// documented by d is called with n arguments, or nil.
func (d Doc) CheckArgs(n int) error {
	return checkArity(d.Name, d.MinArgs, d.MaxArgs, n)
}

// checkArity returns a TypeError when n arguments do not fit the range
// [min, max].  A negative max means there is no upper bound.
func checkArity(name string, min, max, n int) error {
	switch {
	case min == 0 && max == 0 && n > 0:
		return plist.Errorf(plist.TypeError, "%s() takes no arguments (%d given)", name, n)
	case min == 1 && max == 1 && n != 1:
		return plist.Errorf(plist.TypeError, "%s() takes exactly one argument (%d given)", name, n)
	case min == max && n != min:
		return plist.Errorf(plist.TypeError, "%s expected %d %s, got %d", name, min, plural(min), n)
	case n < min:
		return plist.Errorf(plist.TypeError, "%s expected at least %d %s, got %d", name, min, plural(min), n)
	case max >= 0 && n > max:
		return plist.Errorf(plist.TypeError, "%s expected at most %d %s, got %d", name, max, plural(max), n)
	}
	return nil
}

func plural(n int) string {
	if n == 1 {
		return "argument"
	}
	return "arguments"
}
