// Copyright © 2024 The ELPS authors

package lint

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/luthersystems/plist/astutil"
	"github.com/luthersystems/plist/formatter"
	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/parser/ast"
	"github.com/luthersystems/plist/plist"
)

// AnalyzerUndefinedName reports variables read before any statement binds
// them.  Statements are considered in file order, so a name bound after
// its first use is reported at the use.
var AnalyzerUndefinedName = &Analyzer{
	Name:     "undefined-name",
	Severity: SeverityError,
	Doc:      "Report variables read before they are bound.\n\nA script runs top to bottom.  Reading a name that no earlier statement assigned raises NameError.  Names deleted with del are unbound again.",
	Run: func(pass *Pass) error {
		bound := make(map[string]bool, len(pass.Predefined))
		for name := range pass.Predefined {
			bound[name] = true
		}
		for _, stmt := range pass.Stmts {
			reported := make(map[string]bool)
			for _, ref := range astutil.References(stmt) {
				if bound[ref.Name] || reported[ref.Name] {
					continue
				}
				reported[ref.Name] = true
				pass.Reportf(stmt.Loc(), "name '%s' is not defined", ref.Name)
			}
			if name := astutil.BoundName(stmt); name != "" {
				bound[name] = true
			}
			if name := astutil.DeletedName(stmt); name != "" {
				delete(bound, name)
			}
		}
		return nil
	},
}

// AnalyzerUnknownMethod reports calls of methods lists do not have.
var AnalyzerUnknownMethod = &Analyzer{
	Name:     "unknown-method",
	Severity: SeverityError,
	Doc:      "Report calls of methods that lists do not define.\n\nCalling any other method raises AttributeError.",
	Run: func(pass *Pass) error {
		for _, stmt := range pass.Stmts {
			astutil.WalkExprs(stmt, func(x ast.Expr) {
				call, ok := x.(*ast.MethodCall)
				if !ok {
					return
				}
				if _, ok := methodDoc(call.Method); ok {
					return
				}
				d := Diagnostic{Message: fmt.Sprintf("list has no method '%s'", call.Method)}
				setPos(&d, stmt)
				if near := similar(call.Method, interp.MethodNames()); near != "" {
					pass.ReportWithNotes(d, "did you mean '"+near+"'?")
					return
				}
				pass.Report(d)
			})
		}
		return nil
	},
}

// AnalyzerCallArity checks the number of arguments passed to builtins and
// list methods, and reports calls of functions that are not builtins.
var AnalyzerCallArity = &Analyzer{
	Name:     "call-arity",
	Severity: SeverityError,
	Doc:      "Check the arguments of builtin and method calls.\n\nA call with too few or too many arguments raises TypeError.  Only builtin functions can be called by name.",
	Run: func(pass *Pass) error {
		for _, stmt := range pass.Stmts {
			astutil.WalkExprs(stmt, func(x ast.Expr) {
				switch call := x.(type) {
				case *ast.Call:
					doc, ok := builtinDoc(call.Func)
					if !ok {
						pass.Reportf(stmt.Loc(), "'%s' is not a builtin function", call.Func)
						return
					}
					reportArgs(pass, stmt, doc, len(call.Args))
				case *ast.MethodCall:
					if doc, ok := methodDoc(call.Method); ok {
						reportArgs(pass, stmt, doc, len(call.Args))
					}
				}
			})
		}
		return nil
	},
}

// AnalyzerZeroStep reports slices with a literal zero step.
var AnalyzerZeroStep = &Analyzer{
	Name:     "zero-step",
	Severity: SeverityError,
	Doc:      "Report slices whose step is the literal 0.\n\nEvaluating such a slice always raises ValueError.",
	Run: func(pass *Pass) error {
		for _, stmt := range pass.Stmts {
			astutil.WalkExprs(stmt, func(x ast.Expr) {
				s, ok := x.(*ast.SliceExpr)
				if !ok || s.Step == nil {
					return
				}
				lit, ok := s.Step.(*ast.Lit)
				if !ok {
					return
				}
				switch v := lit.Value.(type) {
				case plist.Int:
					if v != 0 {
						return
					}
				case plist.Bool:
					if v {
						return
					}
				default:
					return
				}
				pass.Reportf(stmt.Loc(), "slice step cannot be zero")
			})
		}
		return nil
	},
}

// AnalyzerSelfAssign warns about assignments of a variable to itself.
var AnalyzerSelfAssign = &Analyzer{
	Name:     "self-assign",
	Severity: SeverityWarning,
	Doc:      "Warn when a variable is assigned to itself.\n\nThe statement x = x has no effect.  Use x.copy() or x[:] to make a copy of a list.",
	Run: func(pass *Pass) error {
		for _, stmt := range pass.Stmts {
			s, ok := stmt.(*ast.AssignStmt)
			if !ok || s.Op != "=" {
				continue
			}
			target, ok := s.Target.(*ast.Name)
			if !ok {
				continue
			}
			if value, ok := s.Value.(*ast.Name); ok && value.Name == target.Name {
				pass.Reportf(stmt.Loc(), "self-assignment of %s", target.Name)
			}
		}
		return nil
	},
}

// discardable lists the calls without side effects on their arguments.
var discardable = map[string]bool{
	"copy": true, "index": true, "count": true,
	"len": true, "list": true, "tuple": true, "repr": true, "str": true,
	"bool": true, "sum": true, "id": true, "kind": true, "capacity": true,
	"range": true,
}

// AnalyzerDiscardedResult reports expression statements computing a value
// nothing uses.
var AnalyzerDiscardedResult = &Analyzer{
	Name:     "discarded-result",
	Severity: SeverityInfo,
	Doc:      "Report side effect free calls whose result is discarded.\n\nOutside the REPL the value of an expression statement is thrown away, so x.copy() or len(x) on a line of its own does nothing.",
	Run: func(pass *Pass) error {
		for _, stmt := range pass.Stmts {
			s, ok := stmt.(*ast.ExprStmt)
			if !ok {
				continue
			}
			var name string
			switch call := s.X.(type) {
			case *ast.Call:
				name = call.Func
			case *ast.MethodCall:
				name = call.Method
			default:
				continue
			}
			if discardable[name] {
				pass.Reportf(stmt.Loc(), "result of %s is not used", formatter.Expr(s.X))
			}
		}
		return nil
	},
}

func reportArgs(pass *Pass, stmt ast.Stmt, doc interp.Doc, n int) {
	err := doc.CheckArgs(n)
	if err == nil {
		return
	}
	var perr *plist.Error
	if errors.As(err, &perr) {
		pass.ReportWithNotes(posDiag(stmt, perr.Msg), "signature: "+doc.Signature)
		return
	}
	pass.Reportf(stmt.Loc(), "%v", err)
}

func posDiag(stmt ast.Stmt, msg string) Diagnostic {
	d := Diagnostic{Message: msg}
	setPos(&d, stmt)
	return d
}

func setPos(d *Diagnostic, stmt ast.Stmt) {
	if loc := stmt.Loc(); loc != nil {
		d.Pos = Position{File: loc.File, Line: loc.Line, Col: loc.Col}
	}
}

func methodDoc(name string) (interp.Doc, bool) {
	for _, doc := range interp.MethodDocs() {
		if doc.Name == name {
			return doc, true
		}
	}
	return interp.Doc{}, false
}

func builtinDoc(name string) (interp.Doc, bool) {
	for _, doc := range interp.BuiltinDocs() {
		if doc.Name == name {
			return doc, true
		}
	}
	return interp.Doc{}, false
}

// similar returns the candidate closest to name by edit distance, or ""
// when none is within two edits.
func similar(name string, candidates []string) string {
	best, bestDist := "", 3
	for _, c := range candidates {
		if d := editDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// AnalyzerNames returns the names of all default analyzers in sorted order.
func AnalyzerNames() []string {
	analyzers := DefaultAnalyzers()
	names := make([]string, len(analyzers))
	for i, a := range analyzers {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}

// AnalyzerDoc returns a formatted documentation string for all analyzers.
func AnalyzerDoc() string {
	var b strings.Builder
	for _, a := range DefaultAnalyzers() {
		fmt.Fprintf(&b, "  %s\n", a.Name)
		lines := strings.Split(a.Doc, "\n")
		fmt.Fprintf(&b, "    %s\n\n", lines[0])
	}
	return b.String()
}
