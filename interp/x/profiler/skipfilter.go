// Copyright © 2024 The ELPS authors

package profiler

import (
	"regexp"

	"github.com/luthersystems/plist/interp"
	"golang.org/x/exp/slices"
)

// SkipFilter returns true for operations which should not be traced.
type SkipFilter func(op *interp.Op) bool

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithNamespaceFilter restricts tracing to operations in the given
// namespaces, e.g. "list" or "builtin".
func WithNamespaceFilter(namespaces ...string) Option {
	return WithSkipFilter(func(op *interp.Op) bool {
		return !slices.Contains(namespaces, op.Namespace)
	})
}

// WithLabelFilter restricts tracing to operations whose qualified name
// (e.g. "list.append") matches pattern.
func WithLabelFilter(pattern *regexp.Regexp) Option {
	return WithSkipFilter(func(op *interp.Op) bool {
		return !pattern.MatchString(op.Label())
	})
}
