// Copyright © 2024 The ELPS authors

package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/luthersystems/plist/interp"
)

// pprofAnnotator labels the current goroutine with the operation being
// performed so that pprof samples can be attributed to list operations.
// It does not start pprof itself.
type pprofAnnotator struct {
	profiler
	currentContext context.Context
}

var _ interp.Profiler = &pprofAnnotator{}

// NewPprofAnnotator returns a profiler applying pprof labels derived from
// parentContext.  A nil parentContext is replaced by context.Background().
func NewPprofAnnotator(parentContext context.Context, opts ...Option) *pprofAnnotator {
	p := &pprofAnnotator{
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	if p.currentContext == nil {
		p.currentContext = context.Background()
	}
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	pprof.SetGoroutineLabels(context.Background())
	return p.profiler.Complete()
}

// Labels returns the labels currently applied by the annotator.
func (p *pprofAnnotator) Labels() map[string]string {
	labels := make(map[string]string)
	if p.currentContext == nil {
		return labels
	}
	pprof.ForLabels(p.currentContext, func(key, value string) bool {
		labels[key] = value
		return true
	})
	return labels
}

func (p *pprofAnnotator) Start(op *interp.Op) func() {
	if p.skipTrace(op) {
		return func() {}
	}
	oldContext := p.currentContext
	label, _ := p.labels(op)
	p.currentContext = pprof.WithLabels(p.currentContext, pprof.Labels("operation", label))
	pprof.SetGoroutineLabels(p.currentContext)
	return func() {
		p.currentContext = oldContext
		pprof.SetGoroutineLabels(p.currentContext)
	}
}
