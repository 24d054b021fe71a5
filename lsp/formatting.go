// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/luthersystems/plist/formatter"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentFormatting formats the document and returns a single
// whole-document text edit, or nil if no changes are needed.
func (s *Server) textDocumentFormatting(_ *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	content, _, _ := doc.snapshot()
	if content == "" {
		return nil, nil
	}

	formatted, err := formatter.FormatFile([]byte(content), uriToPath(params.TextDocument.URI), formatter.DefaultConfig())
	if err != nil {
		// Incomplete code is reported by diagnostics, not as a request error.
		return nil, nil
	}
	if string(formatted) == content {
		return nil, nil
	}

	lines := countLines(content)
	return []protocol.TextEdit{
		{
			Range: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 0},
				End:   protocol.Position{Line: safeUint(lines + 1), Character: 0},
			},
			NewText: string(formatted),
		},
	}, nil
}

// countLines returns the number of newlines in s.
func countLines(s string) int {
	n := 0
	for _, c := range s {
		if c == '\n' {
			n++
		}
	}
	return n
}
