// Copyright © 2024 The ELPS authors

package profiler

import (
	"context"
	"errors"

	"github.com/luthersystems/plist/interp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// ContextOpenTelemetryTracerKey looks up a parent tracer name from a context
// key.
const ContextOpenTelemetryTracerKey = "otelParentTracer"

// DefaultTracerName is the tracer used when the parent context does not
// name one.
const DefaultTracerName = "plist"

var _ interp.Profiler = &otelAnnotator{}

type otelAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    trace.Span
}

// NewOpenTelemetryAnnotator returns a profiler which records a span for each
// traced operation as a child of the span in parentContext.
func NewOpenTelemetryAnnotator(parentContext context.Context, opts ...Option) *otelAnnotator {
	p := &otelAnnotator{
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *otelAnnotator) Enable() error {
	if p.currentContext == nil {
		return errors.New("spans can only be appended to a context linked to opentelemetry")
	}
	return p.profiler.Enable()
}

func (p *otelAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return p.profiler.Complete()
}

func contextTracer(ctx context.Context) trace.Tracer {
	tracerName, ok := ctx.Value(ContextOpenTelemetryTracerKey).(string)
	if !ok {
		tracerName = DefaultTracerName
	}
	return otel.GetTracerProvider().Tracer(tracerName)
}

func (p *otelAnnotator) Start(op *interp.Op) func() {
	if p.skipTrace(op) {
		return func() {}
	}
	oldContext := p.currentContext
	label, _ := p.labels(op)
	var span trace.Span
	p.currentContext, span = contextTracer(p.currentContext).Start(p.currentContext, label)
	p.currentSpan = span
	span.SetAttributes(codeAttributes(op)...)
	return func() {
		span.End()
		p.currentContext = oldContext
		p.currentSpan = nil
	}
}

func codeAttributes(op *interp.Op) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		semconv.CodeNamespace(op.Namespace),
		semconv.CodeFunction(op.Name),
	}
	if loc := op.Source; loc != nil {
		file := loc.File
		if loc.Path != "" {
			file = loc.Path
		}
		attrs = append(attrs,
			semconv.CodeColumn(loc.Col),
			semconv.CodeFilepath(file),
			semconv.CodeLineNumber(loc.Line),
		)
	}
	return attrs
}
