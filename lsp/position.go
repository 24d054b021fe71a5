// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"

	"github.com/luthersystems/plist/parser/token"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// toLSPPosition converts a 1-based source location to a 0-based LSP
// position.
func toLSPPosition(loc *token.Location) protocol.Position {
	line := loc.Line
	col := loc.Col
	if line > 0 {
		line--
	}
	if col > 0 {
		col--
	}
	return protocol.Position{
		Line:      safeUint(line),
		Character: safeUint(col),
	}
}

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// lineRange returns the range from the 0-based column col to the end of
// the code on line, excluding any trailing comment.
func lineRange(lines []string, line, col int) protocol.Range {
	end := col
	if line >= 0 && line < len(lines) {
		end = max(codeEnd(lines[line]), col)
	}
	return protocol.Range{
		Start: protocol.Position{Line: safeUint(line), Character: safeUint(col)},
		End:   protocol.Position{Line: safeUint(line), Character: safeUint(end)},
	}
}

// nameRange returns the range of the name token tok on the 0-based line.
func nameRange(line int, tok nameToken) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: safeUint(line), Character: safeUint(tok.Col)},
		End:   protocol.Position{Line: safeUint(line), Character: safeUint(tok.Col + len(tok.Name))},
	}
}

// splitLines splits document content into lines without terminators.
func splitLines(content string) []string {
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}

// nameToken is a name appearing in the code of a line.
type nameToken struct {
	Name string
	Col  int  // 0-based byte offset
	Attr bool // follows '.', i.e. a method name
	Call bool // followed by '(' and not an attribute, i.e. a builtin call
}

// lineNames returns the name tokens of line in order.  Names inside string
// literals and comments, keywords and number literals are skipped.
func lineNames(line string) []nameToken {
	var toks []nameToken
	for i := 0; i < len(line); {
		c := line[i]
		switch {
		case c == '#':
			return toks
		case c == '\'' || c == '"':
			i = skipString(line, i)
		case isDigit(c):
			for i < len(line) && (isNameByte(line[i]) || line[i] == '.' ||
				((line[i] == '+' || line[i] == '-') && (line[i-1] == 'e' || line[i-1] == 'E'))) {
				i++
			}
		case isNameStart(c):
			start := i
			for i < len(line) && isNameByte(line[i]) {
				i++
			}
			name := line[start:i]
			if isKeyword(name) {
				continue
			}
			tok := nameToken{Name: name, Col: start}
			tok.Attr = prevNonSpace(line, start) == '.'
			tok.Call = !tok.Attr && nextNonSpace(line, i) == '('
			toks = append(toks, tok)
		default:
			i++
		}
	}
	return toks
}

// codeEnd returns the length of line without its comment and trailing
// space.
func codeEnd(line string) int {
	end := len(line)
	for i := 0; i < len(line); {
		c := line[i]
		if c == '#' {
			end = i
			break
		}
		if c == '\'' || c == '"' {
			i = skipString(line, i)
			continue
		}
		i++
	}
	return len(strings.TrimRight(line[:end], " \t"))
}

// skipString returns the offset just past the string literal starting at
// line[i].  An unterminated literal runs to the end of the line.
func skipString(line string, i int) int {
	quote := line[i]
	i++
	for i < len(line) {
		switch line[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return i + 1
		}
		i++
	}
	return len(line)
}

func prevNonSpace(line string, i int) byte {
	for i--; i >= 0; i-- {
		if line[i] != ' ' && line[i] != '\t' {
			return line[i]
		}
	}
	return 0
}

func nextNonSpace(line string, i int) byte {
	for ; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return line[i]
		}
	}
	return 0
}

// tokenAt returns the name token on line covering the 0-based column col.
// A cursor just past the end of a name selects it.
func tokenAt(line string, col int) (nameToken, bool) {
	for _, tok := range lineNames(line) {
		if col >= tok.Col && col <= tok.Col+len(tok.Name) {
			return tok, true
		}
	}
	return nameToken{}, false
}

// wordBefore returns the partial name ending at the 0-based column col and
// reports whether it follows a '.'.
func wordBefore(line string, col int) (string, bool) {
	if col > len(line) {
		col = len(line)
	}
	start := col
	for start > 0 && isNameByte(line[start-1]) {
		start--
	}
	return line[start:col], start > 0 && line[start-1] == '.'
}

var keywords = []string{"None", "True", "False", "del", "in", "not"}

func isKeyword(name string) bool {
	for _, k := range keywords {
		if name == k {
			return true
		}
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameByte(c byte) bool {
	return isNameStart(c) || isDigit(c)
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}

// pathToURI converts a filesystem path to a file:// URI.
func pathToURI(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}
