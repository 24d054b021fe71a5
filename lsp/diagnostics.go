// Copyright © 2024 The ELPS authors

package lsp

import (
	"errors"
	"strings"
	"time"

	"github.com/luthersystems/plist/lint"
	"github.com/luthersystems/plist/parser"
	"github.com/luthersystems/plist/parser/token"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const debounceDelay = 300 * time.Millisecond

const (
	sourceSyntax = "plist"
	sourceLint   = "plist-lint"
)

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.analyzeAndPublish(doc)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}

	doc := s.docs.Change(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		content,
	)

	s.mu.Lock()
	if t, ok := s.pending[doc.URI]; ok {
		t.Stop()
	}
	s.pending[doc.URI] = time.AfterFunc(debounceDelay, func() {
		defer func() { _ = recover() }() // don't crash the server on analysis panic
		if d := s.docs.Get(doc.URI); d != nil {
			s.analyzeAndPublish(d)
		}
	})
	s.mu.Unlock()
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	s.cancelDebounce(params.TextDocument.URI)
	if doc := s.docs.Get(params.TextDocument.URI); doc != nil {
		s.analyzeAndPublish(doc)
	}
	return nil
}

func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.cancelDebounce(params.TextDocument.URI)

	// Clear diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})

	s.docs.Close(params.TextDocument.URI)
	return nil
}

func (s *Server) cancelDebounce(uri string) {
	s.mu.Lock()
	if t, ok := s.pending[uri]; ok {
		t.Stop()
		delete(s.pending, uri)
	}
	s.mu.Unlock()
}

// analyzeAndPublish lints a document and publishes its syntax and lint
// diagnostics to the client.
func (s *Server) analyzeAndPublish(doc *Document) {
	content, stmts, parseErr := doc.snapshot()
	uri := doc.URI
	lines := splitLines(content)

	diags := []protocol.Diagnostic{}
	if parseErr != nil {
		diags = append(diags, protocol.Diagnostic{
			Range:    parseErrorRange(parseErr, lines),
			Severity: severity(protocol.DiagnosticSeverityError),
			Source:   strPtr(sourceSyntax),
			Message:  parseErrorMessage(parseErr),
		})
	}

	lintDiags, err := s.linter.LintStmts(stmts, []byte(content), uriToPath(uri))
	if err != nil {
		s.log.Debug().Err(err).Str("uri", uri).Msg("lsp: lint failed")
	}
	for _, d := range lintDiags {
		diags = append(diags, convertLintDiagnostic(d, lines))
	}

	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

// convertLintDiagnostic converts a lint.Diagnostic to an LSP Diagnostic
// covering the rest of the statement's line.
func convertLintDiagnostic(d lint.Diagnostic, lines []string) protocol.Diagnostic {
	sev := mapLintSeverity(d.Severity)
	msg := d.Message
	for _, n := range d.Notes {
		msg += "\n" + n
	}
	return protocol.Diagnostic{
		Range:    lineRange(lines, d.Pos.Line-1, max(d.Pos.Col-1, 0)),
		Severity: &sev,
		Source:   strPtr(sourceLint),
		Code:     &protocol.IntegerOrString{Value: d.Analyzer},
		Message:  msg,
	}
}

func mapLintSeverity(sev lint.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case lint.SeverityError:
		return protocol.DiagnosticSeverityError
	case lint.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case lint.SeverityInfo:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityWarning
	}
}

func severity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

// parseErrorRange extracts the source position of a syntax error.
func parseErrorRange(err error, lines []string) protocol.Range {
	var locErr *token.LocationError
	if errors.As(err, &locErr) && locErr.Source != nil && locErr.Source.Line > 0 {
		pos := toLSPPosition(locErr.Source)
		return lineRange(lines, int(pos.Line), int(pos.Character))
	}
	return protocol.Range{}
}

// parseErrorMessage returns the message of a syntax error without its
// location prefix.
func parseErrorMessage(err error) string {
	var locErr *token.LocationError
	if errors.As(err, &locErr) {
		err = locErr.Err
	}
	msg := strings.TrimPrefix(err.Error(), parser.ErrSyntax.Error()+": ")
	return "SyntaxError: " + msg
}
