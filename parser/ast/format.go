// Copyright © 2024 The ELPS authors

package ast

import (
	"strings"

	"github.com/luthersystems/plist/plist"
)

// Format returns a canonical rendering of n.  Every unary and binary
// operation is parenthesized so the rendering shows how the statement was
// grouped.
func Format(n Node) string {
	var b strings.Builder
	format(&b, n)
	return b.String()
}

func format(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *ExprStmt:
		format(b, n.X)
	case *AssignStmt:
		format(b, n.Target)
		b.WriteString(" " + n.Op + " ")
		format(b, n.Value)
	case *DelStmt:
		b.WriteString("del ")
		format(b, n.Target)
	case *Name:
		b.WriteString(n.Name)
	case *Lit:
		s, err := plist.Repr(n.Value)
		if err != nil {
			s = "<" + n.Value.TypeName() + ">"
		}
		b.WriteString(s)
	case *ListLit:
		b.WriteString("[")
		formatList(b, n.Elems)
		b.WriteString("]")
	case *TupleLit:
		b.WriteString("(")
		formatList(b, n.Elems)
		if len(n.Elems) == 1 {
			b.WriteString(",")
		}
		b.WriteString(")")
	case *Call:
		b.WriteString(n.Func + "(")
		formatList(b, n.Args)
		b.WriteString(")")
	case *MethodCall:
		format(b, n.Recv)
		b.WriteString("." + n.Method + "(")
		formatList(b, n.Args)
		b.WriteString(")")
	case *Index:
		format(b, n.X)
		b.WriteString("[")
		format(b, n.Key)
		b.WriteString("]")
	case *SliceExpr:
		formatOpt(b, n.Start)
		b.WriteString(":")
		formatOpt(b, n.Stop)
		if n.Step != nil {
			b.WriteString(":")
			format(b, n.Step)
		}
	case *Unary:
		b.WriteString("(" + n.Op)
		format(b, n.X)
		b.WriteString(")")
	case *Binary:
		b.WriteString("(")
		format(b, n.X)
		b.WriteString(" " + n.Op + " ")
		format(b, n.Y)
		b.WriteString(")")
	}
}

func formatOpt(b *strings.Builder, e Expr) {
	if e != nil {
		format(b, e)
	}
}

func formatList(b *strings.Builder, es []Expr) {
	for i, e := range es {
		if i > 0 {
			b.WriteString(", ")
		}
		format(b, e)
	}
}
