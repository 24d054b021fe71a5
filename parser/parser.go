// Copyright © 2024 The ELPS authors

/*
Package parser reads statements of the list scripting language.

Source is line oriented.  Each line holds zero or more statements separated
by ';' and may end with a '#' comment.

	stmt      := 'del' target | target ('=' | '+=' | '*=') expr | expr
	expr      := sum (cmpop sum)?
	sum       := prod (('+' | '-') prod)*
	prod      := unary ('*' unary)*
	unary     := '-' unary | postfix
	postfix   := atom ('[' subscript ']' | '.' NAME '(' args ')')*
	atom      := '(' args ')' | '[' args ']' | NAME '(' args ')'
	           | NUMBER | STRING | NAME
	subscript := expr? ':' expr? (':' expr?)? | expr
	args      := (expr (',' expr)* ','?)?
*/
package parser

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/luthersystems/plist/parser/ast"
	"github.com/luthersystems/plist/parser/token"
	"github.com/luthersystems/plist/plist"
	parsec "github.com/prataprc/goparsec"
)

// ErrSyntax is wrapped by every error reporting malformed source.
var ErrSyntax = errors.New("invalid syntax")

func syntaxErrorf(format string, v ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrSyntax}, v...)...)
}

// Reader reads statements from source streams.
type Reader struct {
	stmt      parsec.Parser
	comment   parsec.Parser
	semicolon parsec.Parser
}

// NewReader returns a new Reader.
func NewReader() *Reader {
	return &Reader{
		stmt:      newGrammar(),
		comment:   parsec.Token(`#.*`, token.COMMENT.String()),
		semicolon: parsec.Atom(";", token.SEMICOLON.String()),
	}
}

// Read parses all statements in r.  Statement locations use name as their
// file.
func (p *Reader) Read(name string, r io.Reader) ([]ast.Stmt, error) {
	return p.ReadLocation(name, name, r)
}

// ReadLocation is like Read but records path as the physical location of
// the stream.
func (p *Reader) ReadLocation(name string, path string, r io.Reader) ([]ast.Stmt, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	offset := 0
	for i, line := range strings.Split(string(b), "\n") {
		src := &token.Location{File: name, Path: path, Pos: offset, Line: i + 1}
		offset += len(line) + 1
		line = strings.TrimSuffix(line, "\r")
		lineStmts, err := p.readLine(src, line)
		stmts = append(stmts, lineStmts...)
		if err != nil {
			return stmts, err
		}
	}
	return stmts, nil
}

// Parse parses the statements in text.
func Parse(name string, text string) ([]ast.Stmt, error) {
	return NewReader().Read(name, strings.NewReader(text))
}

func (p *Reader) readLine(start *token.Location, line string) ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	s := parsec.NewScanner([]byte(line))
	for {
		_, s = s.SkipWS()
		if s.Endof() {
			return stmts, nil
		}
		if n, _ := p.comment(s); n != nil {
			return stmts, nil
		}
		loc := *start
		loc.Pos += s.GetCursor()
		loc.Col = s.GetCursor() + 1
		root, rest := p.stmt(s)
		if root == nil {
			return stmts, &token.LocationError{
				Err:    syntaxErrorf("possibly starting: %s", snippet(s)),
				Source: &loc,
				Text:   line,
			}
		}
		stmt, err := statement(root)
		if err != nil {
			return stmts, &token.LocationError{Err: err, Source: &loc, Text: line}
		}
		stmt.SetSource(&loc, line)

		s = rest
		_, s = s.SkipWS()
		if s.Endof() {
			return append(stmts, stmt), nil
		}
		if n, _ := p.comment(s); n != nil {
			return append(stmts, stmt), nil
		}
		n, rest := p.semicolon(s)
		if n == nil {
			loc := *start
			loc.Pos += s.GetCursor()
			loc.Col = s.GetCursor() + 1
			return stmts, &token.LocationError{
				Err:    syntaxErrorf("unexpected text possibly starting: %s", snippet(s)),
				Source: &loc,
				Text:   line,
			}
		}
		stmts = append(stmts, stmt)
		s = rest
	}
}

// Comment returns the comment ending line, if any, without trailing
// whitespace.  A '#' inside a string literal does not start a comment.
func Comment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0 && c == '\\':
			i++
		case quote != 0 && c == quote:
			quote = 0
		case quote != 0:
		case c == '\'' || c == '"':
			quote = c
		case c == '#':
			return strings.TrimRight(line[i:], " \t")
		}
	}
	return ""
}

func snippet(s parsec.Scanner) string {
	b, _ := s.Match(`.{1,16}`)
	if len(b) > 15 {
		b = append(b[:15:15], []byte("...")...)
	}
	return string(b)
}

func statement(root parsec.ParsecNode) (ast.Stmt, error) {
	nodes, err := flatten([]parsec.ParsecNode{root})
	if err != nil {
		return nil, err
	}
	if len(nodes) != 1 {
		return nil, syntaxErrorf("malformed statement")
	}
	stmt, ok := nodes[0].(ast.Stmt)
	if !ok {
		return nil, syntaxErrorf("malformed statement")
	}
	return stmt, nil
}

func newGrammar() parsec.Parser {
	openP := parsec.Atom("(", token.PAREN_L.String())
	closeP := parsec.Atom(")", token.PAREN_R.String())
	openB := parsec.Atom("[", token.BRACE_L.String())
	closeB := parsec.Atom("]", token.BRACE_R.String())
	comma := parsec.Atom(",", token.COMMA.String())
	colon := parsec.Atom(":", token.COLON.String())
	dot := parsec.Atom(".", token.DOT.String())
	plus := parsec.Atom("+", token.PLUS.String())
	minus := parsec.Atom("-", token.MINUS.String())
	star := parsec.Atom("*", token.STAR.String())
	assign := parsec.Atom("=", token.ASSIGN.String())
	plusAssign := parsec.Atom("+=", token.PLUS_ASSIGN.String())
	starAssign := parsec.Atom("*=", token.STAR_ASSIGN.String())
	del := parsec.Token(`del\b`, token.DEL.String())
	cmpop := parsec.OrdChoice(nil,
		parsec.Atom("==", token.EQ.String()),
		parsec.Atom("!=", token.NE.String()),
		parsec.Atom("<=", token.LE.String()),
		parsec.Atom(">=", token.GE.String()),
		parsec.Atom("<", token.LT.String()),
		parsec.Atom(">", token.GT.String()),
		parsec.Token(`not\s+in\b`, token.NOT_IN.String()),
		parsec.Token(`in\b`, token.IN.String()),
	)
	name := parsec.Token(`[A-Za-z_][A-Za-z0-9_]*`, token.NAME.String())
	number := parsec.Token(`[0-9]+(?:\.[0-9]*)?(?:[eE][+-]?[0-9]+)?`, token.NUMBER.String())
	sqstring := parsec.Token(`'(?:[^'\\]|\\.)*'`, token.STRING_SQ.String())

	var expr parsec.Parser  // forward declaration allows for recursive parsing
	var unary parsec.Parser // also recursive

	seq := parsec.And(astNode(nodeSeq),
		&expr,
		parsec.Kleene(nil, parsec.And(nil, comma, &expr)),
		parsec.Kleene(nil, comma),
	)
	args := parsec.Kleene(astNode(nodeArgs), seq)
	term := parsec.OrdChoice(astNode(nodeTerm),
		number,
		parsec.String(),
		sqstring,
		name, // name comes last because keywords look like names
	)
	atom := parsec.OrdChoice(nil,
		parsec.And(astNode(nodeParen), openP, args, closeP),
		parsec.And(astNode(nodeList), openB, args, closeB),
		parsec.And(astNode(nodeCall), name, openP, args, closeP),
		term,
	)
	optExpr := parsec.Kleene(astNode(nodeOptional), &expr)
	sliceSub := parsec.And(astNode(nodeSlice),
		optExpr,
		colon,
		optExpr,
		parsec.Kleene(astNode(nodeStep), parsec.And(nil, colon, optExpr)),
	)
	trailer := parsec.OrdChoice(nil,
		parsec.And(astNode(nodeSubscript), openB, parsec.OrdChoice(nil, sliceSub, &expr), closeB),
		parsec.And(astNode(nodeMethod), dot, name, openP, args, closeP),
	)
	postfix := parsec.And(astNode(nodePostfix), atom, parsec.Kleene(nil, trailer))
	unary = parsec.OrdChoice(nil,
		parsec.And(astNode(nodeNegate), minus, &unary),
		postfix,
	)
	prod := parsec.And(astNode(nodeBinary),
		&unary,
		parsec.Kleene(nil, parsec.And(nil, star, &unary)),
	)
	sum := parsec.And(astNode(nodeBinary),
		prod,
		parsec.Kleene(nil, parsec.And(nil, parsec.OrdChoice(nil, plus, minus), prod)),
	)
	expr = parsec.And(astNode(nodeCompare),
		sum,
		parsec.Kleene(nil, parsec.And(nil, cmpop, sum)),
	)

	return parsec.OrdChoice(nil,
		parsec.And(astNode(nodeDel), del, postfix),
		parsec.And(astNode(nodeAssign), postfix, parsec.OrdChoice(nil, plusAssign, starAssign), &expr),
		parsec.And(astNode(nodeAssign), postfix, assign, &expr),
		parsec.And(astNode(nodeExprStmt), &expr),
	)
}

type nodeType uint

const (
	nodeInvalid nodeType = iota
	nodeTerm
	nodeSeq
	nodeArgs
	nodeParen
	nodeList
	nodeCall
	nodeOptional
	nodeStep
	nodeSlice
	nodeSubscript
	nodeMethod
	nodePostfix
	nodeNegate
	nodeBinary
	nodeCompare
	nodeDel
	nodeAssign
	nodeExprStmt
)

var nodeTypeStrings = []string{
	nodeInvalid:   "INVALID",
	nodeTerm:      "TERM",
	nodeSeq:       "SEQ",
	nodeArgs:      "ARGS",
	nodeParen:     "PAREN",
	nodeList:      "LIST",
	nodeCall:      "CALL",
	nodeOptional:  "OPTIONAL",
	nodeStep:      "STEP",
	nodeSlice:     "SLICE",
	nodeSubscript: "SUBSCRIPT",
	nodeMethod:    "METHOD",
	nodePostfix:   "POSTFIX",
	nodeNegate:    "NEGATE",
	nodeBinary:    "BINARY",
	nodeCompare:   "COMPARE",
	nodeDel:       "DEL",
	nodeAssign:    "ASSIGN",
	nodeExprStmt:  "EXPRSTMT",
}

func (t nodeType) String() string {
	if int(t) >= len(nodeTypeStrings) {
		return "INVALID"
	}
	return nodeTypeStrings[t]
}

// exprList is a parenthesized or bracketed argument list.
type exprList struct {
	elems    []ast.Expr
	trailing bool
}

// optional is an expression which may be omitted.
type optional struct {
	x ast.Expr
}

// trailer is a subscript (key) or method call applied to a postfix
// expression.
type trailer struct {
	key    ast.Expr
	method string
	args   []ast.Expr
}

func astNode(t nodeType) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		n, err := newAST(t, nodes)
		if err != nil {
			return err
		}
		return n
	}
}

func newAST(t nodeType, nodes []parsec.ParsecNode) (parsec.ParsecNode, error) {
	if t == nodeSeq {
		// The trailing comma count is only visible before flattening.
		return newSeq(nodes)
	}
	nodes, err := flatten(nodes)
	if err != nil {
		return nil, err
	}
	switch t {
	case nodeTerm:
		return newTerm(nodes[0])
	case nodeArgs:
		lists := listsOf(nodes)
		switch len(lists) {
		case 0:
			return &exprList{}, nil
		case 1:
			return lists[0], nil
		default:
			return nil, syntaxErrorf("perhaps you forgot a comma?")
		}
	case nodeParen:
		list := listsOf(nodes)[0]
		if len(list.elems) == 1 && !list.trailing {
			return list.elems[0], nil
		}
		return &ast.TupleLit{Elems: list.elems}, nil
	case nodeList:
		return &ast.ListLit{Elems: listsOf(nodes)[0].elems}, nil
	case nodeCall:
		return &ast.Call{Func: terminalValue(nodes[0]), Args: listsOf(nodes)[0].elems}, nil
	case nodeOptional:
		exprs := exprsOf(nodes)
		switch len(exprs) {
		case 0:
			return &optional{}, nil
		case 1:
			return &optional{x: exprs[0]}, nil
		default:
			return nil, syntaxErrorf("perhaps you forgot a comma?")
		}
	case nodeStep:
		opts := optionalsOf(nodes)
		switch len(opts) {
		case 0:
			return &optional{}, nil
		case 1:
			return opts[0], nil
		default:
			return nil, syntaxErrorf("too many ':' in slice")
		}
	case nodeSlice:
		opts := optionalsOf(nodes)
		if len(opts) != 3 {
			return nil, syntaxErrorf("malformed slice")
		}
		return &ast.SliceExpr{Start: opts[0].x, Stop: opts[1].x, Step: opts[2].x}, nil
	case nodeSubscript:
		return &trailer{key: exprsOf(nodes)[0]}, nil
	case nodeMethod:
		return &trailer{method: terminalValue(nodes[1]), args: listsOf(nodes)[0].elems}, nil
	case nodePostfix:
		x := nodes[0].(ast.Expr)
		for _, n := range nodes[1:] {
			tr, ok := n.(*trailer)
			if !ok {
				continue
			}
			if tr.key != nil {
				x = &ast.Index{X: x, Key: tr.key}
			} else {
				x = &ast.MethodCall{Recv: x, Method: tr.method, Args: tr.args}
			}
		}
		return x, nil
	case nodeNegate:
		return &ast.Unary{Op: "-", X: nodes[1].(ast.Expr)}, nil
	case nodeBinary:
		x := nodes[0].(ast.Expr)
		for i := 1; i+1 < len(nodes); i += 2 {
			x = &ast.Binary{Op: terminalValue(nodes[i]), X: x, Y: nodes[i+1].(ast.Expr)}
		}
		return x, nil
	case nodeCompare:
		switch len(nodes) {
		case 1:
			return nodes[0], nil
		case 3:
			return &ast.Binary{Op: compareOp(nodes[1]), X: nodes[0].(ast.Expr), Y: nodes[2].(ast.Expr)}, nil
		default:
			return nil, syntaxErrorf("chained comparisons are not supported")
		}
	case nodeDel:
		target := nodes[1].(ast.Expr)
		if err := checkTarget("delete", target); err != nil {
			return nil, err
		}
		return &ast.DelStmt{Target: target}, nil
	case nodeAssign:
		target := nodes[0].(ast.Expr)
		op := terminalValue(nodes[1])
		if err := checkTarget("assign to", target); err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Target: target, Op: op, Value: nodes[2].(ast.Expr)}, nil
	case nodeExprStmt:
		return &ast.ExprStmt{X: nodes[0].(ast.Expr)}, nil
	default:
		panic(fmt.Sprintf("unknown nodeType: %s (%d)", t, t))
	}
}

// newSeq builds an exprList from the nodes of a comma separated sequence.
// The nodes are the first expression, the repeated (comma, expression)
// pairs and the trailing commas.
func newSeq(nodes []parsec.ParsecNode) (parsec.ParsecNode, error) {
	if len(nodes) != 3 {
		return nil, syntaxErrorf("malformed sequence")
	}
	trailing, _ := nodes[2].([]parsec.ParsecNode)
	if len(trailing) > 1 {
		return nil, syntaxErrorf("unexpected ','")
	}
	flat, err := flatten(nodes[:2])
	if err != nil {
		return nil, err
	}
	return &exprList{elems: exprsOf(flat), trailing: len(trailing) == 1}, nil
}

func newTerm(node parsec.ParsecNode) (parsec.ParsecNode, error) {
	switch term := node.(type) {
	case string:
		return &ast.Lit{Value: plist.Str(unquoteString(term))}, nil
	case *parsec.Terminal:
		switch token.Lookup(term.GetName()) {
		case token.NUMBER:
			v, err := parseNumber(term.GetValue())
			if err != nil {
				return nil, err
			}
			return &ast.Lit{Value: v}, nil
		case token.STRING_SQ:
			s, err := unquoteSingle(term.GetValue())
			if err != nil {
				return nil, err
			}
			return &ast.Lit{Value: plist.Str(s)}, nil
		case token.NAME:
			switch term.GetValue() {
			case "None":
				return &ast.Lit{Value: plist.None}, nil
			case "True":
				return &ast.Lit{Value: plist.True}, nil
			case "False":
				return &ast.Lit{Value: plist.False}, nil
			}
			return &ast.Name{Name: term.GetValue()}, nil
		}
	}
	return nil, syntaxErrorf("unexpected term %v", node)
}

func parseNumber(text string) (plist.Value, error) {
	if strings.ContainsAny(text, ".eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, syntaxErrorf("bad number: %s", text)
		}
		return plist.Float(f), nil
	}
	x, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil, syntaxErrorf("bad number: %s", text)
	}
	return plist.NewInt(x), nil
}

// The goparsec.String() parser unescapes the source text but wraps the
// result in double quotes again.
func unquoteString(s string) string {
	return s[1 : len(s)-1]
}

func unquoteSingle(s string) (string, error) {
	s = s[1 : len(s)-1]
	var b strings.Builder
	for len(s) > 0 {
		r, _, tail, err := strconv.UnquoteChar(s, '\'')
		if err != nil {
			return "", syntaxErrorf("bad escape in string literal")
		}
		b.WriteRune(r)
		s = tail
	}
	return b.String(), nil
}

func compareOp(node parsec.ParsecNode) string {
	term := node.(*parsec.Terminal)
	if token.Lookup(term.GetName()) == token.NOT_IN {
		return "not in"
	}
	return term.GetValue()
}

func checkTarget(verb string, target ast.Expr) error {
	switch t := target.(type) {
	case *ast.Name, *ast.Index:
		return nil
	case *ast.Lit:
		return syntaxErrorf("cannot %s literal", verb)
	case *ast.Call, *ast.MethodCall:
		return syntaxErrorf("cannot %s function call", verb)
	case *ast.ListLit, *ast.TupleLit:
		return syntaxErrorf("cannot %s %s display", verb, displayName(t))
	default:
		return syntaxErrorf("cannot %s expression", verb)
	}
}

func displayName(x ast.Expr) string {
	if _, ok := x.(*ast.ListLit); ok {
		return "list"
	}
	return "tuple"
}

func terminalValue(node parsec.ParsecNode) string {
	if term, ok := node.(*parsec.Terminal); ok {
		return term.GetValue()
	}
	return ""
}

func exprsOf(nodes []parsec.ParsecNode) []ast.Expr {
	var exprs []ast.Expr
	for _, n := range nodes {
		if x, ok := n.(ast.Expr); ok {
			exprs = append(exprs, x)
		}
	}
	return exprs
}

func listsOf(nodes []parsec.ParsecNode) []*exprList {
	var lists []*exprList
	for _, n := range nodes {
		if list, ok := n.(*exprList); ok {
			lists = append(lists, list)
		}
	}
	return lists
}

func optionalsOf(nodes []parsec.ParsecNode) []*optional {
	var opts []*optional
	for _, n := range nodes {
		if opt, ok := n.(*optional); ok {
			opts = append(opts, opt)
		}
	}
	return opts
}

// flatten removes nesting from a parse tree and returns the first error
// node encountered.
func flatten(lis []parsec.ParsecNode) ([]parsec.ParsecNode, error) {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case error:
			return nil, node
		case []parsec.ParsecNode:
			sub, err := flatten(node)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, sub...)
		default:
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}
