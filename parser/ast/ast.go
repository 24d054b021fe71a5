// Copyright © 2024 The ELPS authors

// Package ast declares the syntax tree of the statement language.
package ast

import (
	"github.com/luthersystems/plist/parser/token"
	"github.com/luthersystems/plist/plist"
)

// Node is implemented by every statement and expression.
type Node interface {
	node()
}

// Expr is an expression node.
type Expr interface {
	Node
	expr()
}

// Stmt is a statement node.  Every statement records the location where it
// starts and the text of the source line holding it.
type Stmt interface {
	Node
	Loc() *token.Location
	Text() string
	SetSource(loc *token.Location, line string)
}

// StmtPos holds the source information shared by all statements.
type StmtPos struct {
	Source *token.Location
	Line   string
}

func (p *StmtPos) Loc() *token.Location { return p.Source }
func (p *StmtPos) Text() string          { return p.Line }

// SetSource records where the statement was read from.
func (p *StmtPos) SetSource(loc *token.Location, line string) {
	p.Source = loc
	p.Line = line
}

type (
	// ExprStmt evaluates X.
	ExprStmt struct {
		StmtPos
		X Expr
	}

	// AssignStmt binds or stores Value into Target.  Op is one of "=",
	// "+=" and "*=".
	AssignStmt struct {
		StmtPos
		Target Expr
		Op     string
		Value  Expr
	}

	// DelStmt deletes a name binding or the subscripted elements of a list.
	DelStmt struct {
		StmtPos
		Target Expr
	}
)

type (
	// Name is a variable reference.
	Name struct {
		Name string
	}

	// Lit is a literal value (number, string, None, True or False).
	Lit struct {
		Value plist.Value
	}

	// ListLit constructs a new list.
	ListLit struct {
		Elems []Expr
	}

	// TupleLit constructs a new tuple.
	TupleLit struct {
		Elems []Expr
	}

	// Call invokes a builtin function.
	Call struct {
		Func string
		Args []Expr
	}

	// MethodCall invokes a method of the value of Recv.
	MethodCall struct {
		Recv   Expr
		Method string
		Args   []Expr
	}

	// Index subscripts X.  Key is a SliceExpr for slice subscripts.
	Index struct {
		X   Expr
		Key Expr
	}

	// SliceExpr is a slice subscript.  Omitted bounds are nil.
	SliceExpr struct {
		Start Expr
		Stop  Expr
		Step  Expr
	}

	// Unary applies a prefix operator.
	Unary struct {
		Op string
		X  Expr
	}

	// Binary applies an infix operator.  Comparison operators, "in" and
	// "not in" are binary operators as well.
	Binary struct {
		Op string
		X  Expr
		Y  Expr
	}
)

func (*ExprStmt) node()   {}
func (*AssignStmt) node() {}
func (*DelStmt) node()    {}
func (*Name) node()       {}
func (*Lit) node()        {}
func (*ListLit) node()    {}
func (*TupleLit) node()   {}
func (*Call) node()       {}
func (*MethodCall) node() {}
func (*Index) node()      {}
func (*SliceExpr) node()  {}
func (*Unary) node()      {}
func (*Binary) node()     {}

func (*Name) expr()       {}
func (*Lit) expr()        {}
func (*ListLit) expr()    {}
func (*TupleLit) expr()   {}
func (*Call) expr()       {}
func (*MethodCall) expr() {}
func (*Index) expr()      {}
func (*SliceExpr) expr()  {}
func (*Unary) expr()      {}
func (*Binary) expr()     {}
