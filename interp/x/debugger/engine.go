// Copyright © 2024 The ELPS authors

// Package debugger implements a statement level debugger for interpreter
// environments.  It manages breakpoints, stepping, variable inspection and
// evaluation in a paused environment without depending on a wire protocol.
//
// The goroutine evaluating statements calls the interp.Debugger hooks and
// blocks in WaitIfPaused while execution is paused.  A consumer such as the
// DAP server resumes it from another goroutine with Resume or Step.
package debugger

import (
	"errors"
	"sync"

	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/parser/ast"
	"github.com/luthersystems/plist/plist"
	"github.com/rs/zerolog"
)

// EventType identifies the kind of debug event.
type EventType int

const (
	// EventStopped indicates execution has paused.
	EventStopped EventType = iota
	// EventContinued indicates execution has resumed.
	EventContinued
	// EventExited indicates the program has finished.
	EventExited
)

// StopReason describes why execution paused.
type StopReason string

// Stop reasons reported with EventStopped.
const (
	StopBreakpoint StopReason = "breakpoint"
	StopStep       StopReason = "step"
	StopException  StopReason = "exception"
	StopEntry      StopReason = "entry"
	StopPause      StopReason = "pause"
)

// Event is sent to the event callback when the debugger state changes.
type Event struct {
	Type     EventType
	Reason   StopReason
	ExitCode int // set for EventExited
	Env      *interp.Env
	Stmt     ast.Stmt
	Err      error       // set for exception stops
	BP       *Breakpoint // set for breakpoint stops
}

// EventCallback is called when the debugger state changes.  It runs on the
// evaluating goroutine and must not block.
type EventCallback func(Event)

type action int

const (
	actionContinue action = iota
	actionStep
)

// ErrNotPaused is returned by operations requiring a paused environment.
var ErrNotPaused = errors.New("not paused")

// Engine implements interp.Debugger.
type Engine struct {
	breakpoints *BreakpointStore
	logger      zerolog.Logger
	pauseCh     chan action

	mu               sync.Mutex
	onEvent          EventCallback
	enabled          bool
	stopOnEntry      bool
	stoppedOnEntry   bool
	pauseRequested   bool
	stepping         bool
	evaluating       bool   // set while conditions and debug evaluations run
	lastContinuedKey string // suppresses a breakpoint re-hit on the line resumed from
	pausedEnv        *interp.Env
	pausedStmt       ast.Stmt
	pausedErr        error

	readyCh   chan struct{}
	readyOnce sync.Once
}

var _ interp.Debugger = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithEventCallback sets the function called on state changes.
func WithEventCallback(cb EventCallback) Option {
	return func(e *Engine) {
		e.onEvent = cb
	}
}

// WithStopOnEntry makes the debugger pause before the first statement.
func WithStopOnEntry(stop bool) Option {
	return func(e *Engine) {
		e.stopOnEntry = stop
	}
}

// WithLogger sends engine log events to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New returns a disabled engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		breakpoints: NewBreakpointStore(),
		logger:      zerolog.Nop(),
		pauseCh:     make(chan action, 1),
		readyCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Breakpoints returns the engine's breakpoint store.
func (e *Engine) Breakpoints() *BreakpointStore {
	return e.breakpoints
}

// Logger returns the engine's logger.
func (e *Engine) Logger() zerolog.Logger {
	return e.logger
}

// SetEventCallback sets or replaces the event callback.
func (e *Engine) SetEventCallback(cb EventCallback) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onEvent = cb
}

// Enable activates the debugger hooks.
func (e *Engine) Enable() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = true
}

// Disable deactivates the debugger hooks without detaching the engine.
func (e *Engine) Disable() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = false
}

// IsEnabled implements interp.Debugger.
func (e *Engine) IsEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// IsPaused returns true while the evaluating goroutine is blocked in
// WaitIfPaused.
func (e *Engine) IsPaused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pausedEnv != nil
}

// PausedState returns the environment and statement where execution is
// paused along with the error for exception stops.  The environment is nil
// when execution is not paused.
func (e *Engine) PausedState() (*interp.Env, ast.Stmt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pausedEnv, e.pausedStmt, e.pausedErr
}

// SignalReady closes ReadyCh.  It is safe to call more than once.
func (e *Engine) SignalReady() {
	e.readyOnce.Do(func() {
		close(e.readyCh)
	})
}

// ReadyCh returns a channel closed once the client has finished its
// configuration.  Embedders wait on it before evaluating.
func (e *Engine) ReadyCh() <-chan struct{} {
	return e.readyCh
}

// OnStmt implements interp.Debugger.
func (e *Engine) OnStmt(env *interp.Env, stmt ast.Stmt) bool {
	key := locationKey(stmt.Loc())
	e.mu.Lock()
	if e.evaluating {
		e.mu.Unlock()
		return false
	}
	if e.lastContinuedKey != "" && key != e.lastContinuedKey {
		e.lastContinuedKey = ""
	}
	if e.stopOnEntry {
		e.stopOnEntry = false
		e.stoppedOnEntry = true
		e.mu.Unlock()
		return true
	}
	if e.pauseRequested || e.stepping {
		e.mu.Unlock()
		return true
	}
	e.mu.Unlock()

	bp := e.breakpoints.Match(stmt.Loc())
	if bp == nil {
		return false
	}
	e.mu.Lock()
	if e.lastContinuedKey == bp.key() {
		e.mu.Unlock()
		return false
	}
	e.mu.Unlock()
	if bp.Condition == "" {
		return true
	}
	e.setEvaluating(true)
	defer e.setEvaluating(false)
	return EvalCondition(env, bp.Condition)
}

// OnError implements interp.Debugger.
func (e *Engine) OnError(env *interp.Env, stmt ast.Stmt, err error) bool {
	e.mu.Lock()
	evaluating := e.evaluating
	e.mu.Unlock()
	if evaluating {
		return false
	}
	return e.breakpoints.ExceptionBreak() == ExceptionBreakAll
}

// WaitIfPaused implements interp.Debugger.  It reports the stop and blocks
// until Resume or Step is called.
func (e *Engine) WaitIfPaused(env *interp.Env, stmt ast.Stmt, err error) {
	bp := e.breakpoints.Match(stmt.Loc())
	e.mu.Lock()
	if !e.enabled {
		e.mu.Unlock()
		return
	}
	reason := StopStep
	switch {
	case err != nil:
		reason = StopException
		bp = nil
	case e.stoppedOnEntry:
		reason = StopEntry
		bp = nil
	case e.pauseRequested:
		reason = StopPause
		bp = nil
	case bp != nil:
		reason = StopBreakpoint
	}
	e.stoppedOnEntry = false
	e.pauseRequested = false
	e.stepping = false
	e.pausedEnv = env
	e.pausedStmt = stmt
	e.pausedErr = err
	cb := e.onEvent
	e.mu.Unlock()

	e.logger.Debug().
		Stringer("loc", stmt.Loc()).
		Str("reason", string(reason)).
		Msg("debugger stopped")
	if cb != nil {
		cb(Event{Type: EventStopped, Reason: reason, Env: env, Stmt: stmt, Err: err, BP: bp})
	}

	act := <-e.pauseCh

	e.mu.Lock()
	e.pausedEnv = nil
	e.pausedStmt = nil
	e.pausedErr = nil
	switch act {
	case actionStep:
		e.stepping = true
	default:
		e.lastContinuedKey = locationKey(stmt.Loc())
	}
	cb = e.onEvent
	e.mu.Unlock()
	if cb != nil {
		cb(Event{Type: EventContinued})
	}
}

// Resume continues a paused execution.  It does nothing when execution is
// not paused.
func (e *Engine) Resume() {
	e.send(actionContinue)
}

// Step continues a paused execution up to the next statement.  It does
// nothing when execution is not paused.
func (e *Engine) Step() {
	e.send(actionStep)
}

func (e *Engine) send(act action) {
	if !e.IsPaused() {
		return
	}
	select {
	case e.pauseCh <- act:
	default:
	}
}

// RequestPause pauses execution before the next statement.
func (e *Engine) RequestPause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pauseRequested = true
}

// Disconnect disables the engine and resumes execution if paused.
func (e *Engine) Disconnect() {
	e.mu.Lock()
	e.enabled = false
	e.stepping = false
	e.pauseRequested = false
	e.mu.Unlock()
	e.SignalReady()
	e.Resume()
}

// NotifyExit sends an EventExited event.  It is called on the evaluating
// goroutine once evaluation completes.
func (e *Engine) NotifyExit(exitCode int) {
	e.mu.Lock()
	cb := e.onEvent
	e.mu.Unlock()
	e.logger.Debug().Int("code", exitCode).Msg("debugger exited")
	if cb != nil {
		cb(Event{Type: EventExited, ExitCode: exitCode})
	}
}

// Evaluate evaluates source in the paused environment.  Hooks are
// suppressed while it runs so breakpoints inside source do not pause.
func (e *Engine) Evaluate(source string) (plist.Value, error) {
	env, _, _ := e.PausedState()
	if env == nil {
		return nil, ErrNotPaused
	}
	e.setEvaluating(true)
	defer e.setEvaluating(false)
	return env.LoadString("debug-eval", source)
}

func (e *Engine) setEvaluating(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.evaluating = v
}
