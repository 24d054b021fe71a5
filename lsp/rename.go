// Copyright © 2024 The ELPS authors

package lsp

import (
	"fmt"

	"github.com/luthersystems/plist/interp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentPrepareRename returns the range of the variable under the
// cursor, or nil when the cursor is not on a variable.
func (s *Server) textDocumentPrepareRename(_ *glsp.Context, params *protocol.PrepareRenameParams) (any, error) {
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
	return &protocol.RangeWithPlaceholder{
		Range:       nameRange(line, tok),
		Placeholder: tok.Name,
	}, nil
}

// textDocumentRename renames every occurrence of the variable under the
// cursor.
func (s *Server) textDocumentRename(_ *glsp.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	if !validName(params.NewName) {
		return nil, fmt.Errorf("invalid variable name: %q", params.NewName)
	}
	if _, ok := findDoc(interp.BuiltinDocs(), params.NewName); ok {
		return nil, fmt.Errorf("cannot rename to builtin %q", params.NewName)
	}
	refs, err := s.textDocumentReferences(nil, &protocol.ReferenceParams{
		TextDocumentPositionParams: params.TextDocumentPositionParams,
		Context:                    protocol.ReferenceContext{IncludeDeclaration: true},
	})
	if err != nil || len(refs) == 0 {
		return nil, err
	}
	edits := make([]protocol.TextEdit, 0, len(refs))
	for _, ref := range refs {
		edits = append(edits, protocol.TextEdit{Range: ref.Range, NewText: params.NewName})
	}
	return &protocol.WorkspaceEdit{
		Changes: map[string][]protocol.TextEdit{
			params.TextDocument.URI: edits,
		},
	}, nil
}

func validName(name string) bool {
	if name == "" || !isNameStart(name[0]) || isKeyword(name) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isNameByte(name[i]) {
			return false
		}
	}
	return true
}
