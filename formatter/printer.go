// Copyright © 2024 The ELPS authors

package formatter

import (
	"strings"

	"github.com/luthersystems/plist/parser/ast"
	"github.com/luthersystems/plist/plist"
)

// Operator precedence, loosest first.
const (
	precLowest = iota
	precCompare
	precSum
	precProduct
	precUnary
	precPostfix
)

func binaryPrec(op string) int {
	switch op {
	case "+", "-":
		return precSum
	case "*":
		return precProduct
	}
	return precCompare
}

type printer struct {
	b strings.Builder
}

// Stmt returns the canonical form of stmt.
func Stmt(stmt ast.Stmt) string {
	p := &printer{}
	p.stmt(stmt)
	return p.b.String()
}

// Expr returns the canonical form of x.
func Expr(x ast.Expr) string {
	p := &printer{}
	p.expr(x, precLowest)
	return p.b.String()
}

func (p *printer) stmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		p.expr(s.X, precLowest)
	case *ast.AssignStmt:
		p.expr(s.Target, precLowest)
		p.b.WriteString(" " + s.Op + " ")
		p.expr(s.Value, precLowest)
	case *ast.DelStmt:
		p.b.WriteString("del ")
		p.expr(s.Target, precLowest)
	}
}

// expr writes x, parenthesized when it binds more loosely than prec.
func (p *printer) expr(x ast.Expr, prec int) {
	if exprPrec(x) < prec {
		p.b.WriteString("(")
		p.expr(x, precLowest)
		p.b.WriteString(")")
		return
	}
	switch x := x.(type) {
	case *ast.Name:
		p.b.WriteString(x.Name)
	case *ast.Lit:
		p.b.WriteString(litString(x.Value))
	case *ast.ListLit:
		p.b.WriteString("[")
		p.list(x.Elems)
		p.b.WriteString("]")
	case *ast.TupleLit:
		p.b.WriteString("(")
		p.list(x.Elems)
		if len(x.Elems) == 1 {
			p.b.WriteString(",")
		}
		p.b.WriteString(")")
	case *ast.Call:
		p.b.WriteString(x.Func + "(")
		p.list(x.Args)
		p.b.WriteString(")")
	case *ast.MethodCall:
		if isNumber(x.Recv) {
			p.b.WriteString("(")
			p.expr(x.Recv, precLowest)
			p.b.WriteString(")")
		} else {
			p.expr(x.Recv, precPostfix)
		}
		p.b.WriteString("." + x.Method + "(")
		p.list(x.Args)
		p.b.WriteString(")")
	case *ast.Index:
		p.expr(x.X, precPostfix)
		p.b.WriteString("[")
		p.expr(x.Key, precLowest)
		p.b.WriteString("]")
	case *ast.SliceExpr:
		if x.Start != nil {
			p.expr(x.Start, precLowest)
		}
		p.b.WriteString(":")
		if x.Stop != nil {
			p.expr(x.Stop, precLowest)
		}
		if x.Step != nil {
			p.b.WriteString(":")
			p.expr(x.Step, precLowest)
		}
	case *ast.Unary:
		p.b.WriteString(x.Op)
		p.expr(x.X, precUnary)
	case *ast.Binary:
		bp := binaryPrec(x.Op)
		left := bp
		if bp == precCompare {
			// comparisons do not chain
			left = bp + 1
		}
		p.expr(x.X, left)
		p.b.WriteString(" " + x.Op + " ")
		p.expr(x.Y, bp+1)
	}
}

func (p *printer) list(xs []ast.Expr) {
	for i, x := range xs {
		if i > 0 {
			p.b.WriteString(", ")
		}
		p.expr(x, precLowest)
	}
}

func exprPrec(x ast.Expr) int {
	switch x := x.(type) {
	case *ast.Binary:
		return binaryPrec(x.Op)
	case *ast.Unary:
		return precUnary
	case *ast.Lit:
		if s := litString(x.Value); strings.HasPrefix(s, "-") {
			return precUnary
		}
	}
	return precPostfix
}

func isNumber(x ast.Expr) bool {
	lit, ok := x.(*ast.Lit)
	if !ok {
		return false
	}
	switch lit.Value.(type) {
	case plist.Int, plist.Float, *plist.BigInt:
		return true
	}
	return false
}

func litString(v plist.Value) string {
	s, err := plist.Repr(v)
	if err != nil {
		return "<" + v.TypeName() + ">"
	}
	return s
}
