// Copyright © 2024 The ELPS authors

package profiler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/luthersystems/plist/interp"
)

// errWriter wraps an io.Writer and captures the first write error,
// short-circuiting subsequent writes after a failure.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

// callgrindProfiler writes a profile in the callgrind format which can be
// opened in KCacheGrind or QCacheGrind.  Each traced operation is a
// function and the statements of a script are attributed to an entry point.
type callgrindProfiler struct {
	profiler
	sync.Mutex
	writer     io.WriteCloser
	writeErr   error
	startTime  time.Time
	refs       map[string]int
	refCounter int
	current    *callRef
}

var _ interp.Profiler = &callgrindProfiler{}

// NewCallgrindProfiler returns a profiler producing callgrind output.  The
// output file must be set with SetFile before the profiler is enabled.
func NewCallgrindProfiler(opts ...Option) *callgrindProfiler {
	p := new(callgrindProfiler)
	p.applyConfigs(opts...)
	return p
}

// callRef is an operation in progress or a completed callee.
type callRef struct {
	start       time.Time
	prev        *callRef
	name        string
	children    []*callRef
	duration    time.Duration
	startMemory uint64
	file        string
	line        int
}

func (p *callgrindProfiler) Enable() error {
	p.Lock()
	if p.enabled {
		p.Unlock()
		return errors.New("profiler already enabled")
	}
	if p.writer == nil {
		p.Unlock()
		return errors.New("no output set in profiler")
	}
	w := &errWriter{w: p.writer}
	w.printf("version: 1\ncreator: plist (Go %s)\n", runtime.Version())
	w.print("cmd: Eval\npart: 1\npositions: line\n\n")
	w.print("events: Time_(ns) Memory_(bytes)\n\n")
	if w.err != nil {
		p.Unlock()
		return w.err
	}
	p.startTime = time.Now()
	p.refs = make(map[string]int)
	p.refCounter = 0
	p.current = nil
	p.push("ENTRYPOINT", "-", 0)
	p.Unlock()
	return p.profiler.Enable()
}

func (p *callgrindProfiler) SetFile(filename string) error {
	p.Lock()
	defer p.Unlock()
	if p.enabled {
		return errors.New("profiler already enabled")
	}
	f, err := os.Create(filename) //#nosec G304
	if err != nil {
		return err
	}
	p.writer = f
	return nil
}

func (p *callgrindProfiler) Complete() error {
	p.Lock()
	defer p.Unlock()
	if !p.enabled {
		return errors.New("profiler not enabled")
	}
	p.enabled = false
	ref := p.pop()
	if p.writeErr != nil {
		_ = p.writer.Close()
		return p.writeErr
	}
	ref.duration = time.Since(ref.start)
	w := &errWriter{w: p.writer}
	w.printf("fl=%s\n", p.getRef(ref.file))
	w.printf("fn=%s\n", p.getRef(ref.name))
	w.printf("%d %d %d\n", 0, ref.duration, 0)
	p.writeCalls(w, ref, 0)
	w.print("\n")
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	w.printf("summary %d %d\n\n", time.Since(p.startTime).Nanoseconds(), ms.TotalAlloc)
	if w.err != nil {
		_ = p.writer.Close()
		return w.err
	}
	return p.writer.Close()
}

func (p *callgrindProfiler) getRef(name string) string {
	if ref, ok := p.refs[name]; ok {
		return fmt.Sprintf("(%d)", ref)
	}
	p.refCounter++
	p.refs[name] = p.refCounter
	return fmt.Sprintf("(%d) %s", p.refCounter, name)
}

func (p *callgrindProfiler) Start(op *interp.Op) func() {
	if p.skipTrace(op) {
		return func() {}
	}
	label, _ := p.labels(op)
	file, line := opSource(op)
	p.Lock()
	p.push(label, file, line)
	p.Unlock()
	return p.end
}

// push records entry into an operation.  The caller holds the lock.
func (p *callgrindProfiler) push(name, file string, line int) {
	ref := &callRef{
		name: name,
		file: file,
		line: line,
		prev: p.current,
	}
	if p.current != nil {
		p.current.children = append(p.current.children, ref)
	}
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	ref.startMemory = ms.TotalAlloc
	ref.start = time.Now()
	p.current = ref
}

// pop returns the innermost operation in progress.  The caller holds the
// lock.
func (p *callgrindProfiler) pop() *callRef {
	ref := p.current
	if ref == nil {
		panic("callgrind profiler: unbalanced operation end")
	}
	p.current = ref.prev
	return ref
}

func (p *callgrindProfiler) end() {
	p.Lock()
	defer p.Unlock()
	if !p.enabled {
		return
	}
	ref := p.pop()
	if p.writeErr != nil {
		return
	}
	ref.duration = time.Since(ref.start)
	if ref.duration == 0 {
		ref.duration = 1
	}
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	memory := ms.TotalAlloc - ref.startMemory
	w := &errWriter{w: p.writer}
	w.printf("fl=%s\n", p.getRef(ref.file))
	w.printf("fn=%s\n", p.getRef(ref.name))
	w.printf("%d %d %d\n", ref.line, ref.duration, memory)
	p.writeCalls(w, ref, memory)
	w.print("\n")
	p.writeErr = w.err
}

func (p *callgrindProfiler) writeCalls(w *errWriter, ref *callRef, memory uint64) {
	for _, entry := range ref.children {
		w.printf("cfl=%s\n", p.getRef(entry.file))
		w.printf("cfn=%s\n", p.getRef(entry.name))
		w.print("calls=1 0 0\n")
		w.printf("%d %d %d\n", entry.line, entry.duration, memory)
	}
}
