// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/luthersystems/plist/astutil"
	"github.com/luthersystems/plist/parser/ast"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDefinition jumps to the assignment binding the variable
// under the cursor.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	content, stmts, _ := doc.snapshot()
	lines := splitLines(content)
	line := int(params.Position.Line)
	if line >= len(lines) {
		return nil, nil
	}
	tok, ok := tokenAt(lines[line], int(params.Position.Character))
	if !ok || tok.Attr || tok.Call {
		return nil, nil
	}
	def := bindingAt(stmts, tok.Name, line+1)
	if def == nil {
		return nil, nil
	}
	r, ok := bindingRange(lines, def, tok.Name)
	if !ok {
		return nil, nil
	}
	return protocol.Location{URI: params.TextDocument.URI, Range: r}, nil
}

// textDocumentReferences returns every use of the variable under the
// cursor.  Variables are global to a script so every occurrence of the
// name outside method names and builtin calls refers to it.
func (s *Server) textDocumentReferences(_ *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	content, _, _ := doc.snapshot()
	lines := splitLines(content)
	line := int(params.Position.Line)
	if line >= len(lines) {
		return nil, nil
	}
	tok, ok := tokenAt(lines[line], int(params.Position.Character))
	if !ok || tok.Attr || tok.Call {
		return nil, nil
	}

	var locs []protocol.Location
	for i, ln := range lines {
		for _, t := range lineNames(ln) {
			if t.Name != tok.Name || t.Attr || t.Call {
				continue
			}
			if !params.Context.IncludeDeclaration && isBindingToken(ln, t) {
				continue
			}
			locs = append(locs, protocol.Location{URI: params.TextDocument.URI, Range: nameRange(i, t)})
		}
	}
	return locs, nil
}

// bindingAt returns the last statement binding name at or before the
// 1-based line, or the first binding after it when there is none.
func bindingAt(stmts []ast.Stmt, name string, line int) ast.Stmt {
	var before, after ast.Stmt
	for _, stmt := range stmts {
		if astutil.BoundName(stmt) != name || stmt.Loc() == nil {
			continue
		}
		if stmt.Loc().Line <= line {
			before = stmt
		} else if after == nil {
			after = stmt
		}
	}
	if before != nil {
		return before
	}
	return after
}

// bindingRange returns the range of the assignment target of stmt.
func bindingRange(lines []string, stmt ast.Stmt, name string) (protocol.Range, bool) {
	loc := stmt.Loc()
	line := loc.Line - 1
	if line < 0 || line >= len(lines) {
		return protocol.Range{}, false
	}
	for _, t := range lineNames(lines[line]) {
		if t.Name == name && t.Col >= loc.Col-1 {
			return nameRange(line, t), true
		}
	}
	return protocol.Range{}, false
}

// isBindingToken reports whether t is the target of a plain assignment.
func isBindingToken(line string, t nameToken) bool {
	i := t.Col + len(t.Name)
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if i >= len(line) || line[i] != '=' {
		return false
	}
	return i+1 >= len(line) || line[i+1] != '='
}
