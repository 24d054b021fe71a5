// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"

	"github.com/luthersystems/plist/interp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentSignatureHelp finds the innermost call enclosing the cursor
// and returns the signature of the builtin or method it calls.
func (s *Server) textDocumentSignatureHelp(_ *glsp.Context, params *protocol.SignatureHelpParams) (*protocol.SignatureHelp, error) {
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

	name, method, argIdx := enclosingCall(lines[line], int(params.Position.Character))
	if name == "" {
		return nil, nil
	}
	docs := interp.BuiltinDocs()
	if method {
		docs = interp.MethodDocs()
	}
	d, ok := findDoc(docs, name)
	if !ok {
		return nil, nil
	}
	return buildSignatureHelp(d, argIdx), nil
}

// enclosingCall scans line up to the 0-based column col and returns the
// name of the innermost unclosed call, whether it is a method call, and the
// 0-based index of the argument under the cursor.
func enclosingCall(line string, col int) (name string, method bool, argIdx int) {
	if col > len(line) {
		col = len(line)
	}
	type frame struct {
		open   int
		commas int
	}
	var stack []frame
	for i := 0; i < col; {
		switch line[i] {
		case '#':
			i = col
			continue
		case '\'', '"':
			i = skipString(line, i)
			continue
		case '(', '[':
			stack = append(stack, frame{open: i})
		case ')', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case ',':
			if len(stack) > 0 {
				stack[len(stack)-1].commas++
			}
		}
		i++
	}
	for j := len(stack) - 1; j >= 0; j-- {
		f := stack[j]
		if line[f.open] != '(' {
			continue
		}
		end := f.open
		for end > 0 && (line[end-1] == ' ' || line[end-1] == '\t') {
			end--
		}
		start := end
		for start > 0 && isNameByte(line[start-1]) {
			start--
		}
		if start == end || !isNameStart(line[start]) {
			// A parenthesized expression or tuple; keep looking outward.
			continue
		}
		return line[start:end], prevNonSpace(line, start) == '.', f.commas
	}
	return "", false, 0
}

// buildSignatureHelp constructs an LSP SignatureHelp for d.  Parameters are
// the names in the signature, labeled by their offsets.
func buildSignatureHelp(d interp.Doc, activeParam int) *protocol.SignatureHelp {
	label := d.Signature
	var params []protocol.ParameterInformation
	if open := strings.IndexByte(label, '('); open >= 0 {
		for _, p := range signatureParams(label, open+1) {
			params = append(params, protocol.ParameterInformation{
				Label: []protocol.UInteger{safeUint(p[0]), safeUint(p[1])},
			})
		}
	}

	ap := activeParam
	if len(params) > 0 && ap > len(params)-1 {
		ap = len(params) - 1
	}
	if ap < 0 {
		ap = 0
	}
	active := uint32(ap) // #nosec G115 -- clamped to [0, len(params)-1]

	sigInfo := protocol.SignatureInformation{
		Label:      label,
		Parameters: params,
	}
	if d.Doc != "" {
		sigInfo.Documentation = protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: d.Doc,
		}
	}
	return &protocol.SignatureHelp{
		Signatures:      []protocol.SignatureInformation{sigInfo},
		ActiveSignature: uintPtr(0),
		ActiveParameter: &active,
	}
}

// signatureParams returns the [start, end) offsets of the parameter names
// in label at or after from.
func signatureParams(label string, from int) [][2]int {
	var out [][2]int
	for i := from; i < len(label); {
		if !isNameStart(label[i]) {
			i++
			continue
		}
		start := i
		for i < len(label) && isNameByte(label[i]) {
			i++
		}
		out = append(out, [2]int{start, i})
	}
	return out
}

func uintPtr(v uint32) *uint32 {
	return &v
}
