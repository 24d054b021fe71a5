// Copyright © 2024 The ELPS authors

package debugger

import (
	"fmt"

	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/plist"
)

// Binding is a named value shown by the debugger.
type Binding struct {
	Name  string
	Value plist.Value
}

// InspectLocals returns the variables bound in env in name order.
func InspectLocals(env *interp.Env) []Binding {
	names := env.Names()
	bindings := make([]Binding, 0, len(names))
	for _, name := range names {
		v, err := env.Get(name)
		if err != nil {
			continue
		}
		bindings = append(bindings, Binding{Name: name, Value: v})
	}
	return bindings
}

// FormatValue returns the repr of v.  Values whose repr fails are shown by
// type name.
func FormatValue(v plist.Value) string {
	if v == nil {
		return "<nil>"
	}
	s, err := plist.Repr(v)
	if err != nil {
		return fmt.Sprintf("<%s>", v.TypeName())
	}
	return s
}

// TypeString returns the type name of v.  Lists and tuples include the
// storage kind backing them.
func TypeString(v plist.Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case *plist.List:
		return fmt.Sprintf("list[%s]", x.Kind())
	case *plist.Tuple:
		return fmt.Sprintf("tuple[%s]", x.Storage().Kind())
	default:
		return v.TypeName()
	}
}

// Len returns the number of children of v.
func Len(v plist.Value) int {
	if s := storage(v); s != nil {
		return s.Len()
	}
	return 0
}

// Children returns up to count elements of v starting at start.  A count
// of zero or less returns every remaining element.
func Children(v plist.Value, start, count int) []Binding {
	s := storage(v)
	if s == nil {
		return nil
	}
	n := s.Len()
	start = max(start, 0)
	if start >= n {
		return nil
	}
	end := n
	if count > 0 {
		end = min(n, start+count)
	}
	bindings := make([]Binding, 0, end-start)
	for i := start; i < end; i++ {
		bindings = append(bindings, Binding{
			Name:  fmt.Sprintf("[%d]", i),
			Value: s.ItemNormalized(i),
		})
	}
	return bindings
}

func storage(v plist.Value) *plist.Storage {
	switch x := v.(type) {
	case *plist.List:
		return x.Storage()
	case *plist.Tuple:
		return x.Storage()
	default:
		return nil
	}
}
