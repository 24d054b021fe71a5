// Copyright © 2024 The ELPS authors

package interp

import (
	"fmt"

	"github.com/luthersystems/plist/parser/ast"
	"github.com/luthersystems/plist/plist"
)

// Eval evaluates stmt.  An expression statement returns the value of its
// expression and other statements return None.  Errors are returned as
// *ErrorVal carrying the location of stmt.
func (env *Env) Eval(stmt ast.Stmt) (plist.Value, error) {
	prev := env.loc
	env.loc = stmt.Loc()
	defer func() { env.loc = prev }()
	if d := env.debugger(); d != nil && d.OnStmt(env, stmt) {
		d.WaitIfPaused(env, stmt, nil)
	}
	v, err := env.evalStmt(stmt)
	if err != nil {
		env.Runtime.Logger.Debug().
			Err(err).
			Stringer("loc", stmt.Loc()).
			Str("condition", Condition(err)).
			Msg("statement failed")
		err = &ErrorVal{Err: err, Source: stmt.Loc(), Text: stmt.Text()}
		if d := env.debugger(); d != nil && d.OnError(env, stmt, err) {
			d.WaitIfPaused(env, stmt, err)
		}
		return nil, err
	}
	return v, nil
}

func (env *Env) evalStmt(stmt ast.Stmt) (plist.Value, error) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		return env.EvalExpr(s.X)
	case *ast.AssignStmt:
		return plist.None, env.assign(s)
	case *ast.DelStmt:
		return plist.None, env.del(s.Target)
	default:
		return nil, fmt.Errorf("unknown statement type %T", stmt)
	}
}

func (env *Env) assign(s *ast.AssignStmt) error {
	switch target := s.Target.(type) {
	case *ast.Name:
		if s.Op == "=" {
			v, err := env.EvalExpr(s.Value)
			if err != nil {
				return err
			}
			env.Set(target.Name, v)
			return nil
		}
		cur, err := env.Get(target.Name)
		if err != nil {
			return err
		}
		rhs, err := env.EvalExpr(s.Value)
		if err != nil {
			return err
		}
		v, err := env.inPlace(s.Op, cur, rhs)
		if err != nil {
			return err
		}
		env.Set(target.Name, v)
		return nil
	case *ast.Index:
		var rhs plist.Value
		if s.Op == "=" {
			// The assigned value is evaluated before the subscript.
			v, err := env.EvalExpr(s.Value)
			if err != nil {
				return err
			}
			rhs = v
		}
		x, err := env.EvalExpr(target.X)
		if err != nil {
			return err
		}
		key, err := env.evalKey(target.Key)
		if err != nil {
			return err
		}
		if s.Op == "=" {
			return env.setItem(x, key, rhs)
		}
		cur, err := env.getItem(x, key)
		if err != nil {
			return err
		}
		rhs, err = env.EvalExpr(s.Value)
		if err != nil {
			return err
		}
		v, err := env.inPlace(s.Op, cur, rhs)
		if err != nil {
			return err
		}
		return env.setItem(x, key, v)
	default:
		return fmt.Errorf("cannot assign to %T", s.Target)
	}
}

func (env *Env) del(target ast.Expr) error {
	switch target := target.(type) {
	case *ast.Name:
		return env.Delete(target.Name)
	case *ast.Index:
		x, err := env.EvalExpr(target.X)
		if err != nil {
			return err
		}
		key, err := env.evalKey(target.Key)
		if err != nil {
			return err
		}
		return env.delItem(x, key)
	default:
		return fmt.Errorf("cannot delete %T", target)
	}
}

// EvalExpr evaluates the expression x.
func (env *Env) EvalExpr(x ast.Expr) (plist.Value, error) {
	switch x := x.(type) {
	case *ast.Lit:
		return x.Value, nil
	case *ast.Name:
		return env.Get(x.Name)
	case *ast.ListLit:
		vals, err := env.evalExprs(x.Elems)
		if err != nil {
			return nil, err
		}
		return plist.NewList(vals...), nil
	case *ast.TupleLit:
		vals, err := env.evalExprs(x.Elems)
		if err != nil {
			return nil, err
		}
		return plist.NewTuple(vals...), nil
	case *ast.Call:
		args, err := env.evalExprs(x.Args)
		if err != nil {
			return nil, err
		}
		return env.callBuiltin(x.Func, args)
	case *ast.MethodCall:
		recv, err := env.EvalExpr(x.Recv)
		if err != nil {
			return nil, err
		}
		args, err := env.evalExprs(x.Args)
		if err != nil {
			return nil, err
		}
		return env.callMethod(recv, x.Method, args)
	case *ast.Index:
		v, err := env.EvalExpr(x.X)
		if err != nil {
			return nil, err
		}
		key, err := env.evalKey(x.Key)
		if err != nil {
			return nil, err
		}
		return env.getItem(v, key)
	case *ast.Unary:
		v, err := env.EvalExpr(x.X)
		if err != nil {
			return nil, err
		}
		return negate(v)
	case *ast.Binary:
		a, err := env.EvalExpr(x.X)
		if err != nil {
			return nil, err
		}
		b, err := env.EvalExpr(x.Y)
		if err != nil {
			return nil, err
		}
		return env.binary(x.Op, a, b)
	case *ast.SliceExpr:
		return nil, interpErrorf(CondSyntaxError, "slice outside of a subscript")
	default:
		return nil, fmt.Errorf("unknown expression type %T", x)
	}
}

func (env *Env) evalExprs(xs []ast.Expr) ([]plist.Value, error) {
	vals := make([]plist.Value, 0, len(xs))
	for _, x := range xs {
		v, err := env.EvalExpr(x)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// evalKey evaluates a subscript.  Slice subscripts produce a plist.Slice
// with nil for each omitted bound.
func (env *Env) evalKey(key ast.Expr) (plist.Value, error) {
	s, ok := key.(*ast.SliceExpr)
	if !ok {
		return env.EvalExpr(key)
	}
	var desc plist.Slice
	for _, part := range []struct {
		x   ast.Expr
		dst *plist.Value
	}{
		{s.Start, &desc.Start},
		{s.Stop, &desc.Stop},
		{s.Step, &desc.Step},
	} {
		if part.x == nil {
			continue
		}
		v, err := env.EvalExpr(part.x)
		if err != nil {
			return nil, err
		}
		*part.dst = v
	}
	return desc, nil
}
