// Copyright © 2024 The ELPS authors

package lsp

import (
	"sort"
	"strings"

	"github.com/luthersystems/plist/astutil"
	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/parser/ast"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCompletion completes list methods after a '.', and
// variables, builtins and keywords elsewhere.  Candidates are filtered by
// the partial name before the cursor.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
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
	prefix, attr := wordBefore(lines[line], int(params.Position.Character))

	if attr {
		return docItems(interp.MethodDocs(), protocol.CompletionItemKindMethod, prefix), nil
	}

	var items []protocol.CompletionItem
	for _, name := range s.variableNames(stmts) {
		if strings.HasPrefix(name, prefix) {
			kind := protocol.CompletionItemKindVariable
			items = append(items, protocol.CompletionItem{Label: name, Kind: &kind})
		}
	}
	items = append(items, docItems(interp.BuiltinDocs(), protocol.CompletionItemKindFunction, prefix)...)
	for _, k := range keywords {
		if strings.HasPrefix(k, prefix) {
			kind := protocol.CompletionItemKindKeyword
			items = append(items, protocol.CompletionItem{Label: k, Kind: &kind})
		}
	}
	return items, nil
}

// variableNames returns the sorted names bound by stmts or the injected
// environment.
func (s *Server) variableNames(stmts []ast.Stmt) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, stmt := range stmts {
		add(astutil.BoundName(stmt))
	}
	if s.env != nil {
		for _, name := range s.env.Names() {
			add(name)
		}
	}
	sort.Strings(names)
	return names
}

func docItems(docs []interp.Doc, kind protocol.CompletionItemKind, prefix string) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	for _, d := range docs {
		if !strings.HasPrefix(d.Name, prefix) {
			continue
		}
		k := kind
		detail := d.Signature
		items = append(items, protocol.CompletionItem{
			Label:  d.Name,
			Kind:   &k,
			Detail: &detail,
			Documentation: &protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: d.Doc,
			},
		})
	}
	return items
}
