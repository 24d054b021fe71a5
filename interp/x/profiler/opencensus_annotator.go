// Copyright © 2024 The ELPS authors

package profiler

import (
	"context"
	"errors"

	"github.com/luthersystems/plist/interp"
	"go.opencensus.io/trace"
)

var _ interp.Profiler = &ocAnnotator{}

type ocAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    *trace.Span
	contexts       []context.Context
}

// NewOpenCensusAnnotator returns a profiler which records an opencensus span
// for each traced operation as a child of the span in parentContext.
func NewOpenCensusAnnotator(parentContext context.Context, opts ...Option) *ocAnnotator {
	p := &ocAnnotator{
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

// EnableWithContext enables the profiler, attaching spans to ctx.
func (p *ocAnnotator) EnableWithContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("a context is required")
	}
	p.currentContext = ctx
	return p.profiler.Enable()
}

func (p *ocAnnotator) Enable() error {
	if p.currentContext == nil {
		return errors.New("spans can only be appended to a context linked to opencensus")
	}
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
		p.currentSpan = nil
	}
	return p.profiler.Complete()
}

func (p *ocAnnotator) Start(op *interp.Op) func() {
	if p.skipTrace(op) {
		return func() {}
	}
	label, _ := p.labels(op)
	p.contexts = append(p.contexts, p.currentContext)
	p.currentContext, p.currentSpan = trace.StartSpan(p.currentContext, label)
	return func() {
		p.end(op)
	}
}

func (p *ocAnnotator) end(op *interp.Op) {
	file, line := opSource(op)
	p.currentSpan.Annotate([]trace.Attribute{
		trace.StringAttribute("file", file),
		trace.Int64Attribute("line", int64(line)),
	}, "source")
	p.currentSpan.End()
	n := len(p.contexts) - 1
	p.currentContext = p.contexts[n]
	p.contexts = p.contexts[:n]
	p.currentSpan = trace.FromContext(p.currentContext)
}
