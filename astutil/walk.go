// Copyright © 2024 The ELPS authors

// Package astutil provides shared AST walking utilities for list scripts.
//
// These helpers are used by the lint and lsp packages for traversing parsed
// statements.
package astutil

import "github.com/luthersystems/plist/parser/ast"

// Walk calls fn for every node in the statements, depth-first.  parent is
// nil for the statements themselves.
func Walk(stmts []ast.Stmt, fn func(node ast.Node, parent ast.Node, depth int)) {
	for _, stmt := range stmts {
		walkNode(stmt, nil, 0, fn)
	}
}

func walkNode(node ast.Node, parent ast.Node, depth int, fn func(ast.Node, ast.Node, int)) {
	if node == nil {
		return
	}
	fn(node, parent, depth)
	for _, child := range Children(node) {
		walkNode(child, node, depth+1, fn)
	}
}

// Children returns the direct children of node in source order.  Omitted
// slice bounds are skipped.
func Children(node ast.Node) []ast.Node {
	var out []ast.Node
	add := func(xs ...ast.Expr) {
		for _, x := range xs {
			if x != nil {
				out = append(out, x)
			}
		}
	}
	switch n := node.(type) {
	case *ast.ExprStmt:
		add(n.X)
	case *ast.AssignStmt:
		add(n.Target, n.Value)
	case *ast.DelStmt:
		add(n.Target)
	case *ast.ListLit:
		add(n.Elems...)
	case *ast.TupleLit:
		add(n.Elems...)
	case *ast.Call:
		add(n.Args...)
	case *ast.MethodCall:
		add(n.Recv)
		add(n.Args...)
	case *ast.Index:
		add(n.X, n.Key)
	case *ast.SliceExpr:
		add(n.Start, n.Stop, n.Step)
	case *ast.Unary:
		add(n.X)
	case *ast.Binary:
		add(n.X, n.Y)
	}
	return out
}

// WalkExprs calls fn for every expression in stmt, depth-first.
func WalkExprs(stmt ast.Stmt, fn func(x ast.Expr)) {
	walkNode(stmt, nil, 0, func(node ast.Node, _ ast.Node, _ int) {
		if x, ok := node.(ast.Expr); ok {
			fn(x)
		}
	})
}

// BoundName returns the variable bound by stmt, or "".  Only plain
// assignments (x = ...) bind names; augmented and subscript assignments
// require an existing binding.
func BoundName(stmt ast.Stmt) string {
	s, ok := stmt.(*ast.AssignStmt)
	if !ok || s.Op != "=" {
		return ""
	}
	if name, ok := s.Target.(*ast.Name); ok {
		return name.Name
	}
	return ""
}

// DeletedName returns the variable unbound by stmt (del x), or "".
func DeletedName(stmt ast.Stmt) string {
	s, ok := stmt.(*ast.DelStmt)
	if !ok {
		return ""
	}
	if name, ok := s.Target.(*ast.Name); ok {
		return name.Name
	}
	return ""
}

// References returns the names read by stmt in evaluation order.  The
// target of a plain assignment or a del statement is not a reference.
func References(stmt ast.Stmt) []*ast.Name {
	var root ast.Node = stmt
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		if BoundName(stmt) != "" {
			root = s.Value
		}
	case *ast.DelStmt:
		if DeletedName(stmt) != "" {
			return nil
		}
	}
	var names []*ast.Name
	walkNode(root, nil, 0, func(node ast.Node, _ ast.Node, _ int) {
		if name, ok := node.(*ast.Name); ok {
			names = append(names, name)
		}
	})
	return names
}
