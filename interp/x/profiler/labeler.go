// Copyright © 2024 The ELPS authors

package profiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/luthersystems/plist/interp"
)

// OpLabeler provides an alternative name for an operation in the trace.
type OpLabeler func(op *interp.Op) string

// WithOpLabeler sets the labeler for tracing spans.
func WithOpLabeler(opLabeler OpLabeler) Option {
	return func(p *profiler) {
		p.opLabeler = opLabeler
	}
}

// WithSourceLabeler labels spans with the qualified operation name followed
// by the file and line of the statement performing it, e.g.
// "list.append@main.pl:3".
func WithSourceLabeler() Option {
	return WithOpLabeler(sourceLabeler)
}

// WithLabelPrefix labels spans with the qualified operation name preceded by
// prefix.  Whitespace in prefix is replaced by underscores.
func WithLabelPrefix(prefix string) Option {
	prefix = sanitizeLabel(prefix)
	return WithOpLabeler(func(op *interp.Op) string {
		if prefix == "" {
			return ""
		}
		return prefix + ":" + op.Label()
	})
}

var (
	sanitizeRegExp   = regexp.MustCompile(`[\s_]+`)
	validLabelRegExp = regexp.MustCompile(`[[:graph:]]*`)
)

func sanitizeLabel(userLabel string) string {
	userLabel = strings.TrimSpace(userLabel)
	if userLabel == "" {
		return ""
	}
	userLabel = sanitizeRegExp.ReplaceAllString(userLabel, "_")
	return validLabelRegExp.FindString(userLabel)
}

func sourceLabeler(op *interp.Op) string {
	if op.Source == nil {
		return ""
	}
	return fmt.Sprintf("%s@%s:%d", op.Label(), op.Source.File, op.Source.Line)
}
