// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/luthersystems/plist/astutil"
	"github.com/luthersystems/plist/formatter"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDocumentSymbol lists the variables bound by a script at
// their first assignment.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	content, stmts, _ := doc.snapshot()
	lines := splitLines(content)

	seen := make(map[string]bool)
	symbols := []protocol.DocumentSymbol{}
	for _, stmt := range stmts {
		name := astutil.BoundName(stmt)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		sel, ok := bindingRange(lines, stmt, name)
		if !ok {
			continue
		}
		detail := formatter.Stmt(stmt)
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           name,
			Detail:         &detail,
			Kind:           protocol.SymbolKindVariable,
			Range:          lineRange(lines, int(sel.Start.Line), int(sel.Start.Character)),
			SelectionRange: sel,
		})
	}
	return symbols, nil
}
