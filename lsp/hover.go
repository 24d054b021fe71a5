// Copyright © 2024 The ELPS authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/luthersystems/plist/formatter"
	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/parser/ast"
	"github.com/luthersystems/plist/plist"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
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
	if !ok {
		return nil, nil
	}

	var text string
	switch {
	case tok.Attr:
		if d, ok := findDoc(interp.MethodDocs(), tok.Name); ok {
			text = docMarkdown("method", d)
		}
	case tok.Call:
		if d, ok := findDoc(interp.BuiltinDocs(), tok.Name); ok {
			text = docMarkdown("builtin", d)
		}
	default:
		text = s.variableMarkdown(tok.Name, stmts, line+1)
	}
	if text == "" {
		return nil, nil
	}
	r := nameRange(line, tok)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: text,
		},
		Range: &r,
	}, nil
}

func findDoc(docs []interp.Doc, name string) (interp.Doc, bool) {
	for _, d := range docs {
		if d.Name == name {
			return d, true
		}
	}
	return interp.Doc{}, false
}

// docMarkdown builds hover text for a method or builtin.
func docMarkdown(kind string, d interp.Doc) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** `%s`", kind, d.Name)
	fmt.Fprintf(&sb, "\n\n```python\n%s\n```", d.Signature)
	if d.Doc != "" {
		fmt.Fprintf(&sb, "\n\n%s", d.Doc)
	}
	return sb.String()
}

// variableMarkdown builds hover text for a variable from the binding in
// effect at the 1-based line and the injected environment.
func (s *Server) variableMarkdown(name string, stmts []ast.Stmt, line int) string {
	def := bindingAt(stmts, name, line)
	var v plist.Value
	if s.env != nil {
		v, _ = s.env.Get(name)
	}
	if def == nil && v == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**variable** `%s`", name)
	if def != nil {
		fmt.Fprintf(&sb, "\n\n```python\n%s\n```", formatter.Stmt(def))
	}
	if v != nil {
		if repr, err := plist.Repr(v); err == nil {
			fmt.Fprintf(&sb, "\n\nvalue: `%s`", repr)
		}
		if st := storageOf(v); st != nil {
			fmt.Fprintf(&sb, "\n\nstorage: %s, length %d, capacity %d", st.Kind(), st.Len(), st.Cap())
		}
	}
	if def != nil && def.Loc() != nil {
		fmt.Fprintf(&sb, "\n\n*Defined in %s:%d*", def.Loc().File, def.Loc().Line)
	}
	return sb.String()
}

func storageOf(v plist.Value) *plist.Storage {
	switch v := v.(type) {
	case *plist.List:
		return v.Storage()
	case *plist.Tuple:
		return v.Storage()
	}
	return nil
}
