// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strings"
	"sync"

	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/interp/x/profiler"
	octrace "go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/exp/slices"
)

// cliProfiler runs finish after the wrapped profiler completes.
type cliProfiler struct {
	interp.Profiler
	finish func() error
}

func (p *cliProfiler) Complete() error {
	err := p.Profiler.Complete()
	if ferr := p.finish(); err == nil {
		err = ferr
	}
	return err
}

// newProfiler returns the profiler selected by kind writing to the file at
// out.  A nil profiler is returned when kind is empty.
func newProfiler(ctx context.Context, kind string, out string) (interp.Profiler, error) {
	switch kind {
	case "":
		return nil, nil
	case "callgrind":
		if out == "" {
			return nil, errors.New("the callgrind profiler requires --profile-out")
		}
		p := profiler.NewCallgrindProfiler()
		if err := p.SetFile(out); err != nil {
			return nil, err
		}
		return p, nil
	case "pprof":
		if out == "" {
			return nil, errors.New("the pprof profiler requires --profile-out")
		}
		f, err := os.Create(out) //#nosec G304
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, err
		}
		return &cliProfiler{
			Profiler: profiler.NewPprofAnnotator(ctx),
			finish: func() error {
				pprof.StopCPUProfile()
				return f.Close()
			},
		}, nil
	case "otel":
		w, err := profileOutput(out)
		if err != nil {
			return nil, err
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(&otelSpanWriter{w: w}))
		otel.SetTracerProvider(tp)
		ctx, root := tp.Tracer(profiler.DefaultTracerName).Start(ctx, "run")
		return &cliProfiler{
			Profiler: profiler.NewOpenTelemetryAnnotator(ctx),
			finish: func() error {
				root.End()
				return tp.Shutdown(context.Background())
			},
		}, nil
	case "opencensus":
		w, err := profileOutput(out)
		if err != nil {
			return nil, err
		}
		exporter := &ocSpanWriter{w: w}
		octrace.RegisterExporter(exporter)
		ctx, root := octrace.StartSpan(ctx, "run", octrace.WithSampler(octrace.AlwaysSample()))
		return &cliProfiler{
			Profiler: profiler.NewOpenCensusAnnotator(ctx),
			finish: func() error {
				root.End()
				octrace.UnregisterExporter(exporter)
				return w.Close()
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown profiler: %q", kind)
}

// profileOutput opens the file receiving spans, or stderr when no file is
// named.
func profileOutput(out string) (io.WriteCloser, error) {
	if out == "" {
		return nopCloser{os.Stderr}, nil
	}
	return os.Create(out) //#nosec G304
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// otelSpanWriter is a span exporter writing one line per span.
type otelSpanWriter struct {
	mu sync.Mutex
	w  io.WriteCloser
}

func (e *otelSpanWriter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range spans {
		_, err := fmt.Fprintf(e.w, "%s\t%s\t%s\t%s\n",
			s.SpanContext().SpanID(), s.Name(), s.EndTime().Sub(s.StartTime()), formatAttributes(s.Attributes()))
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *otelSpanWriter) Shutdown(ctx context.Context) error {
	return e.w.Close()
}

func formatAttributes(attrs []attribute.KeyValue) string {
	fields := make([]string, 0, len(attrs))
	for _, kv := range attrs {
		fields = append(fields, string(kv.Key)+"="+kv.Value.Emit())
	}
	return strings.Join(fields, " ")
}

// ocSpanWriter is an opencensus exporter writing one line per span.
type ocSpanWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (e *ocSpanWriter) ExportSpan(sd *octrace.SpanData) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var notes []string
	for _, a := range sd.Annotations {
		for k, v := range a.Attributes {
			notes = append(notes, fmt.Sprintf("%s=%v", k, v))
		}
	}
	slices.Sort(notes)
	_, _ = fmt.Fprintf(e.w, "%s\t%s\t%s\t%s\n",
		sd.SpanID, sd.Name, sd.EndTime.Sub(sd.StartTime), strings.Join(notes, " "))
}
