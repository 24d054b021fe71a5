// Copyright © 2024 The ELPS authors

// Package profiler provides interp.Profiler implementations which trace the
// list operations dispatched by an interpreter environment.
package profiler

import (
	"errors"

	"github.com/luthersystems/plist/interp"
)

// profiler is a minimal interp.Profiler
type profiler struct {
	enabled    bool
	skipFilter SkipFilter
	opLabeler  OpLabeler
}

var _ interp.Profiler = &profiler{}

// Option configures a profiler.
type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

func (p *profiler) Enable() error {
	if p.enabled {
		return errors.New("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) SetFile(filename string) error {
	return errors.New("no need to set a file for this profiler type")
}

func (p *profiler) Complete() error {
	p.enabled = false
	return nil
}

func (p *profiler) Start(op *interp.Op) func() {
	return func() {}
}

// labels returns the display label and the qualified name of op.  The
// display label is the qualified name unless an OpLabeler provides one.
func (p *profiler) labels(op *interp.Op) (string, string) {
	name := op.Label()
	label := name
	if p.opLabeler != nil {
		label = p.opLabeler(op)
	}
	if label == "" {
		label = name
	}
	return label, name
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(op *interp.Op) bool {
	return !p.enabled || op == nil || p.skipFilter != nil && p.skipFilter(op)
}

// opSource returns the file and line of the statement performing op.
func opSource(op *interp.Op) (string, int) {
	if op.Source == nil {
		return "no-source", 0
	}
	return op.Source.File, op.Source.Line
}
