// Copyright © 2024 The ELPS authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/luthersystems/plist/parser"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCodeAction returns quick fixes for lint diagnostics in the
// requested range.  Every lint finding can be suppressed with a nolint
// comment.
func (s *Server) textDocumentCodeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	if len(params.Context.Only) > 0 && !slicesContains(params.Context.Only, protocol.CodeActionKindQuickFix) {
		return nil, nil
	}
	content, _, _ := doc.snapshot()

	var actions []protocol.CodeAction
	for _, diag := range params.Context.Diagnostics {
		if diag.Source == nil || *diag.Source != sourceLint || diag.Code == nil {
			continue
		}
		analyzer := fmt.Sprintf("%v", diag.Code.Value)
		if analyzer == "" {
			continue
		}
		actions = append(actions, suppressLintAction(params.TextDocument.URI, diag, analyzer, content))
	}
	if len(actions) == 0 {
		return nil, nil
	}
	return actions, nil
}

// suppressLintAction adds analyzer to the nolint comment of the
// diagnostic's line, creating the comment when the line has none.
func suppressLintAction(uri string, diag protocol.Diagnostic, analyzer, content string) protocol.CodeAction {
	line := int(diag.Range.Start.Line)
	lines := splitLines(content)
	text := ""
	if line >= 0 && line < len(lines) {
		text = lines[line]
	}

	var edit protocol.TextEdit
	comment := parser.Comment(text)
	start := strings.LastIndex(text, comment)
	switch names, ok := strings.CutPrefix(comment, "# nolint:"); {
	case comment == "":
		pos := protocol.Position{Line: diag.Range.Start.Line, Character: safeUint(len(strings.TrimRight(text, " \t")))}
		edit = protocol.TextEdit{Range: protocol.Range{Start: pos, End: pos}, NewText: "  # nolint:" + analyzer}
	case ok && names != "":
		// Extend the analyzer list of an existing directive.
		at := start + len("# nolint:") + len(strings.Fields(names)[0])
		pos := protocol.Position{Line: diag.Range.Start.Line, Character: safeUint(at)}
		edit = protocol.TextEdit{Range: protocol.Range{Start: pos, End: pos}, NewText: "," + analyzer}
	default:
		// Prefix an ordinary comment with the directive.
		pos := protocol.Position{Line: diag.Range.Start.Line, Character: safeUint(start)}
		edit = protocol.TextEdit{Range: protocol.Range{Start: pos, End: pos}, NewText: "# nolint:" + analyzer + " "}
	}

	kind := protocol.CodeActionKindQuickFix
	return protocol.CodeAction{
		Title:       "Suppress with # nolint:" + analyzer,
		Kind:        &kind,
		Diagnostics: []protocol.Diagnostic{diag},
		Edit: &protocol.WorkspaceEdit{
			Changes: map[string][]protocol.TextEdit{
				uri: {edit},
			},
		},
	}
}

func slicesContains(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}
