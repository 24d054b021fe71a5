// Copyright © 2024 The ELPS authors

package lsp

import (
	"testing"
	"time"

	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const testURI = "file:///test.pl"

// testServer creates a server with an environment binding data = [1, 2.5].
func testServer(t *testing.T) *Server {
	t.Helper()
	env := interp.NewEnv(nil)
	require.NoError(t, interp.InitializeEnv(env, interp.WithReader(parser.NewReader())))
	_, err := env.LoadString("setup", "data = [1, 2.5]")
	require.NoError(t, err)
	return New(WithEnv(env))
}

func openDoc(s *Server, content string) *Document {
	return s.docs.Open(testURI, 1, content)
}

func mockContext() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {},
	}
}

// capturingContext returns a context that captures published diagnostics.
func capturingContext() (*glsp.Context, *[]*protocol.PublishDiagnosticsParams) {
	var captured []*protocol.PublishDiagnosticsParams
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				captured = append(captured, params.(*protocol.PublishDiagnosticsParams))
			}
		},
	}
	return ctx, &captured
}

func position(line, col int) protocol.TextDocumentPositionParams {
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Position:     protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)},
	}
}

func completionLabels(t *testing.T, result any) []string {
	t.Helper()
	items, ok := result.([]protocol.CompletionItem)
	require.True(t, ok, "completion result should be []CompletionItem, got %T", result)
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	return labels
}

func hoverText(t *testing.T, h *protocol.Hover) string {
	t.Helper()
	require.NotNil(t, h)
	mc, ok := h.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	return mc.Value
}

func TestLineNames(t *testing.T) {
	toks := lineNames(`xs = len(ys) + xs.count('a # b') # zs`)
	assert.Equal(t, []nameToken{
		{Name: "xs", Col: 0},
		{Name: "len", Col: 5, Call: true},
		{Name: "ys", Col: 9},
		{Name: "xs", Col: 15},
		{Name: "count", Col: 18, Attr: true},
	}, toks)

	assert.Equal(t, []nameToken{{Name: "x", Col: 0}, {Name: "y", Col: 12}}, lineNames("x = 1.5e+3; y = True"))
	assert.Empty(t, lineNames("not None in del"))
	assert.Empty(t, lineNames(`"it\"s x"`))
}

func TestCodeEnd(t *testing.T) {
	assert.Equal(t, 5, codeEnd("x = 1  # c"))
	assert.Equal(t, 7, codeEnd("x = '#'"))
	assert.Equal(t, 0, codeEnd("# only"))
}

func TestTokenAt(t *testing.T) {
	tok, ok := tokenAt("xs.append(1)", 1)
	require.True(t, ok)
	assert.Equal(t, "xs", tok.Name)

	tok, ok = tokenAt("xs.append(1)", 9)
	require.True(t, ok)
	assert.Equal(t, "append", tok.Name)
	assert.True(t, tok.Attr)

	_, ok = tokenAt("xs = [1]", 6)
	assert.False(t, ok)
}

func TestWordBefore(t *testing.T) {
	w, attr := wordBefore("xs.ap", 5)
	assert.Equal(t, "ap", w)
	assert.True(t, attr)

	w, attr = wordBefore("y = le", 6)
	assert.Equal(t, "le", w)
	assert.False(t, attr)

	w, attr = wordBefore("xs.", 99)
	assert.Equal(t, "", w)
	assert.True(t, attr)
}

func TestURIConversion(t *testing.T) {
	assert.Equal(t, "/a/b.pl", uriToPath("file:///a/b.pl"))
	assert.Equal(t, "b.pl", uriToPath("b.pl"))
	assert.Equal(t, "file:///a/b.pl", pathToURI("/a/b.pl"))
	assert.Equal(t, "b.pl", pathToURI("b.pl"))
}

func TestDocumentStore(t *testing.T) {
	store := NewDocumentStore()
	doc := store.Open(testURI, 1, "x = [1]\ny = x")
	assert.Len(t, doc.stmts, 2)
	assert.NoError(t, doc.parseErr)
	assert.Same(t, doc, store.Get(testURI))

	doc = store.Change(testURI, 2, "x = [1]; y = ]")
	assert.Equal(t, int32(2), doc.Version)
	assert.Len(t, doc.stmts, 1)
	assert.Error(t, doc.parseErr)

	store.Close(testURI)
	assert.Nil(t, store.Get(testURI))
}

func TestDiagnosticsOnOpen(t *testing.T) {
	s := testServer(t)
	ctx, captured := capturingContext()
	err := s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, Version: 1, Text: "data.append(3)\nx = [1]\nx.apend(2)  # typo\n"},
	})
	require.NoError(t, err)
	require.Len(t, *captured, 1)
	pub := (*captured)[0]
	assert.Equal(t, testURI, pub.URI)
	require.Len(t, pub.Diagnostics, 1)

	d := pub.Diagnostics[0]
	assert.Equal(t, sourceLint, *d.Source)
	assert.Equal(t, "unknown-method", d.Code.Value)
	assert.Equal(t, "list has no method 'apend'\ndid you mean 'append'?", d.Message)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 2, Character: 0},
		End:   protocol.Position{Line: 2, Character: 10},
	}, d.Range)
}

func TestDiagnosticsParseError(t *testing.T) {
	s := testServer(t)
	ctx, captured := capturingContext()
	err := s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, Version: 1, Text: "y = q\nx = (1"},
	})
	require.NoError(t, err)
	require.Len(t, *captured, 1)
	diags := (*captured)[0].Diagnostics
	require.Len(t, diags, 2)

	assert.Equal(t, sourceSyntax, *diags[0].Source)
	assert.Equal(t, "SyntaxError: unexpected text possibly starting: = (1", diags[0].Message)
	assert.Equal(t, protocol.UInteger(1), diags[0].Range.Start.Line)

	// statements before the error are still linted
	assert.Equal(t, "name 'q' is not defined", diags[1].Message)
}

func TestDiagnosticsOnClose(t *testing.T) {
	s := testServer(t)
	ctx, captured := capturingContext()
	require.NoError(t, s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, Version: 1, Text: "x = x"},
	}))
	require.NoError(t, s.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}))
	require.Len(t, *captured, 2)
	assert.Empty(t, (*captured)[1].Diagnostics)
	assert.Nil(t, s.docs.Get(testURI))
}

func TestDiagnosticsOnSave(t *testing.T) {
	s := testServer(t)
	ctx, captured := capturingContext()
	require.NoError(t, s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "x = len()"}},
	}))
	require.NoError(t, s.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}))
	require.Len(t, *captured, 1)
	require.Len(t, (*captured)[0].Diagnostics, 1)
	assert.Equal(t, "call-arity", (*captured)[0].Diagnostics[0].Code.Value)
}

func TestHover(t *testing.T) {
	s := testServer(t)
	openDoc(s, "xs = [1, 2]\nxs.append(len(xs))\ndata")

	h, err := s.textDocumentHover(mockContext(), &protocol.HoverParams{TextDocumentPositionParams: position(1, 4)})
	require.NoError(t, err)
	text := hoverText(t, h)
	assert.Contains(t, text, "**method** `append`")
	assert.Contains(t, text, "append(object)")
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 1, Character: 3},
		End:   protocol.Position{Line: 1, Character: 9},
	}, *h.Range)

	h, err = s.textDocumentHover(mockContext(), &protocol.HoverParams{TextDocumentPositionParams: position(1, 11)})
	require.NoError(t, err)
	assert.Contains(t, hoverText(t, h), "**builtin** `len`")

	h, err = s.textDocumentHover(mockContext(), &protocol.HoverParams{TextDocumentPositionParams: position(1, 0)})
	require.NoError(t, err)
	text = hoverText(t, h)
	assert.Contains(t, text, "**variable** `xs`")
	assert.Contains(t, text, "xs = [1, 2]")
	assert.Contains(t, text, "*Defined in /test.pl:1*")

	h, err = s.textDocumentHover(mockContext(), &protocol.HoverParams{TextDocumentPositionParams: position(2, 1)})
	require.NoError(t, err)
	text = hoverText(t, h)
	assert.Contains(t, text, "value: `[1, 2.5]`")
	assert.Contains(t, text, "storage: generic, length 2")
}

func TestHoverNothing(t *testing.T) {
	s := testServer(t)
	openDoc(s, "xs = [1]  # comment\nunknown")

	h, err := s.textDocumentHover(mockContext(), &protocol.HoverParams{TextDocumentPositionParams: position(0, 12)})
	require.NoError(t, err)
	assert.Nil(t, h)

	h, err = s.textDocumentHover(mockContext(), &protocol.HoverParams{TextDocumentPositionParams: position(1, 2)})
	require.NoError(t, err)
	assert.Nil(t, h)

	h, err = s.textDocumentHover(mockContext(), &protocol.HoverParams{TextDocumentPositionParams: position(9, 0)})
	require.NoError(t, err)
	assert.Nil(t, h)
}

func TestDefinition(t *testing.T) {
	s := testServer(t)
	openDoc(s, "a = 1; xs = [1]\nxs.append(2)\nxs = []\nxs")

	result, err := s.textDocumentDefinition(mockContext(), &protocol.DefinitionParams{TextDocumentPositionParams: position(1, 0)})
	require.NoError(t, err)
	loc, ok := result.(protocol.Location)
	require.True(t, ok)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 7},
		End:   protocol.Position{Line: 0, Character: 9},
	}, loc.Range)

	result, err = s.textDocumentDefinition(mockContext(), &protocol.DefinitionParams{TextDocumentPositionParams: position(3, 0)})
	require.NoError(t, err)
	assert.Equal(t, protocol.UInteger(2), result.(protocol.Location).Range.Start.Line)

	result, err = s.textDocumentDefinition(mockContext(), &protocol.DefinitionParams{TextDocumentPositionParams: position(1, 4)})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestReferences(t *testing.T) {
	s := testServer(t)
	openDoc(s, "xs = [1]\nxs.append(xs)  # xs\nys = 'xs' + xs[0:1]")

	params := &protocol.ReferenceParams{
		TextDocumentPositionParams: position(0, 0),
		Context:                    protocol.ReferenceContext{IncludeDeclaration: true},
	}
	locs, err := s.textDocumentReferences(mockContext(), params)
	require.NoError(t, err)
	assert.Len(t, locs, 4)

	params.Context.IncludeDeclaration = false
	locs, err = s.textDocumentReferences(mockContext(), params)
	require.NoError(t, err)
	assert.Len(t, locs, 3)
	for _, loc := range locs {
		assert.NotEqual(t, protocol.UInteger(0), loc.Range.Start.Line)
	}
}

func TestDocumentSymbols(t *testing.T) {
	s := testServer(t)
	openDoc(s, "xs = [1]\nys = xs * 2\nxs = []\nxs[0] = 1")

	result, err := s.textDocumentDocumentSymbol(mockContext(), &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	symbols, ok := result.([]protocol.DocumentSymbol)
	require.True(t, ok)
	require.Len(t, symbols, 2)
	assert.Equal(t, "xs", symbols[0].Name)
	assert.Equal(t, "xs = [1]", *symbols[0].Detail)
	assert.Equal(t, protocol.SymbolKindVariable, symbols[0].Kind)
	assert.Equal(t, "ys", symbols[1].Name)
	assert.Equal(t, protocol.UInteger(1), symbols[1].SelectionRange.Start.Line)
}

func TestCompletion(t *testing.T) {
	s := testServer(t)
	openDoc(s, "xs = [1]\nxs.c\nl\nd")

	result, err := s.textDocumentCompletion(mockContext(), &protocol.CompletionParams{TextDocumentPositionParams: position(1, 4)})
	require.NoError(t, err)
	assert.Equal(t, []string{"count", "clear", "copy"}, completionLabels(t, result))
	items := result.([]protocol.CompletionItem)
	assert.Equal(t, "count(value)", *items[0].Detail)
	assert.Equal(t, protocol.CompletionItemKindMethod, *items[0].Kind)

	result, err = s.textDocumentCompletion(mockContext(), &protocol.CompletionParams{TextDocumentPositionParams: position(2, 1)})
	require.NoError(t, err)
	assert.Equal(t, []string{"len", "list"}, completionLabels(t, result))

	result, err = s.textDocumentCompletion(mockContext(), &protocol.CompletionParams{TextDocumentPositionParams: position(3, 1)})
	require.NoError(t, err)
	assert.Equal(t, []string{"data", "del"}, completionLabels(t, result))
}

func TestEnclosingCall(t *testing.T) {
	tests := []struct {
		line   string
		col    int
		name   string
		method bool
		arg    int
	}{
		{"len(", 4, "len", false, 0},
		{"x.insert(0, ", 12, "insert", true, 1},
		{"range(1, len(x), ", 17, "range", false, 2},
		{"range(1, len(x", 14, "len", false, 0},
		{"f = [1, (2, ", 12, "", false, 0},
		{"print('a,b', ", 13, "print", false, 1},
		{"x = 1", 5, "", false, 0},
	}
	for _, test := range tests {
		name, method, arg := enclosingCall(test.line, test.col)
		assert.Equal(t, test.name, name, test.line)
		assert.Equal(t, test.method, method, test.line)
		assert.Equal(t, test.arg, arg, test.line)
	}
}

func TestSignatureHelp(t *testing.T) {
	s := testServer(t)
	openDoc(s, "xs = [1]\nxs.index(1, 0\nfoo(1")

	help, err := s.textDocumentSignatureHelp(mockContext(), &protocol.SignatureHelpParams{TextDocumentPositionParams: position(1, 13)})
	require.NoError(t, err)
	require.NotNil(t, help)
	require.Len(t, help.Signatures, 1)
	sig := help.Signatures[0]
	assert.Equal(t, "index(value[, start[, stop]])", sig.Label)
	require.Len(t, sig.Parameters, 3)
	assert.Equal(t, []protocol.UInteger{14, 19}, sig.Parameters[1].Label)
	assert.Equal(t, uint32(1), *help.ActiveParameter)

	help, err = s.textDocumentSignatureHelp(mockContext(), &protocol.SignatureHelpParams{TextDocumentPositionParams: position(2, 5)})
	require.NoError(t, err)
	assert.Nil(t, help)
}

func TestRename(t *testing.T) {
	s := testServer(t)
	openDoc(s, "xs = [1]\nxs.append(xs)\nys = 'xs'")

	edit, err := s.textDocumentRename(mockContext(), &protocol.RenameParams{
		TextDocumentPositionParams: position(1, 11),
		NewName:                    "items",
	})
	require.NoError(t, err)
	require.NotNil(t, edit)
	edits := edit.Changes[testURI]
	require.Len(t, edits, 3)
	for _, e := range edits {
		assert.Equal(t, "items", e.NewText)
	}

	_, err = s.textDocumentRename(mockContext(), &protocol.RenameParams{
		TextDocumentPositionParams: position(0, 0),
		NewName:                    "2bad",
	})
	assert.Error(t, err)

	_, err = s.textDocumentRename(mockContext(), &protocol.RenameParams{
		TextDocumentPositionParams: position(0, 0),
		NewName:                    "len",
	})
	assert.Error(t, err)
}

func TestPrepareRename(t *testing.T) {
	s := testServer(t)
	openDoc(s, "xs = [1]\nxs.append(len(xs))")

	result, err := s.textDocumentPrepareRename(mockContext(), &protocol.PrepareRenameParams{TextDocumentPositionParams: position(1, 0)})
	require.NoError(t, err)
	rp, ok := result.(*protocol.RangeWithPlaceholder)
	require.True(t, ok)
	assert.Equal(t, "xs", rp.Placeholder)

	for _, col := range []int{4, 11} {
		result, err = s.textDocumentPrepareRename(mockContext(), &protocol.PrepareRenameParams{TextDocumentPositionParams: position(1, col)})
		require.NoError(t, err)
		assert.Nil(t, result, "col %d", col)
	}
}

func TestFormatting(t *testing.T) {
	s := testServer(t)
	openDoc(s, "x=[1,2]\n\n\ny = x+x")

	edits, err := s.textDocumentFormatting(mockContext(), &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, "x = [1, 2]\n\ny = x + x\n", edits[0].NewText)

	openDoc(s, "x = 1\n")
	edits, err = s.textDocumentFormatting(mockContext(), &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	assert.Nil(t, edits)

	openDoc(s, "x = (1")
	edits, err = s.textDocumentFormatting(mockContext(), &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	assert.Nil(t, edits)
}

func TestCodeActions(t *testing.T) {
	s := testServer(t)
	openDoc(s, "x = x\ny = y  # note\nz = z  # nolint:zero-step")

	diag := func(line int) protocol.Diagnostic {
		return protocol.Diagnostic{
			Range:  protocol.Range{Start: protocol.Position{Line: protocol.UInteger(line)}},
			Source: strPtr(sourceLint),
			Code:   &protocol.IntegerOrString{Value: "self-assign"},
		}
	}
	result, err := s.textDocumentCodeAction(mockContext(), &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Context: protocol.CodeActionContext{
			Diagnostics: []protocol.Diagnostic{diag(0), diag(1), diag(2)},
		},
	})
	require.NoError(t, err)
	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok)
	require.Len(t, actions, 3)
	assert.Equal(t, "Suppress with # nolint:self-assign", actions[0].Title)

	edit := func(i int) protocol.TextEdit {
		return actions[i].Edit.Changes[testURI][0]
	}
	assert.Equal(t, "  # nolint:self-assign", edit(0).NewText)
	assert.Equal(t, protocol.UInteger(5), edit(0).Range.Start.Character)
	assert.Equal(t, "# nolint:self-assign ", edit(1).NewText)
	assert.Equal(t, protocol.UInteger(7), edit(1).Range.Start.Character)
	assert.Equal(t, ",self-assign", edit(2).NewText)
	assert.Equal(t, protocol.UInteger(25), edit(2).Range.Start.Character)

	result, err = s.textDocumentCodeAction(mockContext(), &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Context: protocol.CodeActionContext{
			Diagnostics: []protocol.Diagnostic{diag(0)},
			Only:        []protocol.CodeActionKind{protocol.CodeActionKindRefactor},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestUnknownDocument(t *testing.T) {
	s := testServer(t)
	h, err := s.textDocumentHover(mockContext(), &protocol.HoverParams{TextDocumentPositionParams: position(0, 0)})
	require.NoError(t, err)
	assert.Nil(t, h)
	edits, err := s.textDocumentFormatting(mockContext(), &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	assert.Nil(t, edits)
}

func TestExitHandler(t *testing.T) {
	s := testServer(t)
	exitCode := -1
	s.exitFn = func(code int) { exitCode = code }
	require.NoError(t, s.exit(mockContext()))
	assert.Equal(t, 1, exitCode)

	require.NoError(t, s.onShutdown(mockContext()))
	require.NoError(t, s.exit(mockContext()))
	assert.Equal(t, 0, exitCode)
}

func TestInitializeLifecycle(t *testing.T) {
	s := testServer(t)
	result, err := s.initialize(mockContext(), &protocol.InitializeParams{})
	require.NoError(t, err)
	initResult, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	require.NotNil(t, initResult.ServerInfo)
	assert.Equal(t, serverName, initResult.ServerInfo.Name)
	assert.Equal(t, serverVersion, *initResult.ServerInfo.Version)
	caps := initResult.Capabilities
	assert.NotNil(t, caps.CompletionProvider)
	assert.NotNil(t, caps.SignatureHelpProvider)
	assert.NotNil(t, caps.HoverProvider)

	// A pending diagnostics run is cancelled by shutdown.
	ctx, captured := capturingContext()
	require.NoError(t, s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, Version: 1, Text: "x = 1"},
	}))
	opened := len(*captured)
	require.NoError(t, s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "y"}},
	}))
	require.NoError(t, s.onShutdown(mockContext()))
	time.Sleep(2 * debounceDelay)
	assert.Len(t, *captured, opened)
}
