// Copyright © 2024 The ELPS authors

// Package formatter normalizes the layout of list scripts.  Statements are
// printed with canonical spacing and the minimal parentheses needed to
// preserve their meaning.  Comments and the line structure of the source
// are kept.
package formatter

import (
	"bytes"
	"strings"

	"github.com/luthersystems/plist/parser"
	"github.com/luthersystems/plist/parser/ast"
)

// Config controls formatting.
type Config struct {
	MaxBlankLines  int // max consecutive blank lines (default: 1)
	CommentSpacing int // spaces before a trailing comment (default: 2)
}

// DefaultConfig returns the default formatting configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxBlankLines:  1,
		CommentSpacing: 2,
	}
}

// Format formats list script source.  If cfg is nil, DefaultConfig() is
// used.
func Format(source []byte, cfg *Config) ([]byte, error) {
	return FormatFile(source, "<stdin>", cfg)
}

// FormatFile formats list script source, using filename for error
// messages.
func FormatFile(source []byte, filename string, cfg *Config) ([]byte, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	stmts, err := parser.NewReader().Read(filename, bytes.NewReader(source))
	if err != nil {
		return nil, err
	}
	byLine := make(map[int][]ast.Stmt)
	for _, stmt := range stmts {
		line := stmt.Loc().Line
		byLine[line] = append(byLine[line], stmt)
	}

	var buf bytes.Buffer
	blanks := 0
	for i, line := range strings.Split(string(source), "\n") {
		line = strings.TrimSuffix(line, "\r")
		var out string
		if lineStmts := byLine[i+1]; len(lineStmts) > 0 {
			parts := make([]string, len(lineStmts))
			for j, stmt := range lineStmts {
				parts[j] = Stmt(stmt)
			}
			out = strings.Join(parts, "; ")
			if c := parser.Comment(line); c != "" {
				out += strings.Repeat(" ", cfg.CommentSpacing) + c
			}
		} else {
			out = strings.TrimSpace(line)
		}
		if out == "" {
			blanks++
			continue
		}
		if buf.Len() > 0 {
			for j := 0; j < blanks && j < cfg.MaxBlankLines; j++ {
				buf.WriteByte('\n')
			}
		}
		blanks = 0
		buf.WriteString(out)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
