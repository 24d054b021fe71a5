// Copyright © 2024 The ELPS authors

package debugger

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/parser/token"
	"golang.org/x/exp/slices"
)

// Breakpoint is a source line where evaluation pauses.
type Breakpoint struct {
	ID        int
	File      string
	Line      int
	Condition string // optional expression evaluated in the paused env
	Enabled   bool
}

func (bp *Breakpoint) key() string {
	return breakpointKey(bp.File, bp.Line)
}

// Files are keyed by base name because environments name their source
// streams that way.
func breakpointKey(file string, line int) string {
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

func locationKey(loc *token.Location) string {
	if loc == nil {
		return ""
	}
	return breakpointKey(loc.File, loc.Line)
}

// ExceptionBreakMode controls when the debugger pauses on failed
// statements.
type ExceptionBreakMode int

const (
	// ExceptionBreakNever disables exception breakpoints.
	ExceptionBreakNever ExceptionBreakMode = iota
	// ExceptionBreakAll pauses on every failed statement.
	ExceptionBreakAll
)

// BreakpointStore indexes breakpoints by file and line.  It is safe for
// concurrent use.
type BreakpointStore struct {
	mu             sync.RWMutex
	byKey          map[string]*Breakpoint
	nextID         int
	exceptionBreak ExceptionBreakMode
}

// NewBreakpointStore returns an empty breakpoint store.
func NewBreakpointStore() *BreakpointStore {
	return &BreakpointStore{byKey: make(map[string]*Breakpoint)}
}

// SetForFile replaces every breakpoint in file.  Conditions are matched to
// lines by position and may be shorter than lines.
func (s *BreakpointStore) SetForFile(file string, lines []int, conditions []string) []*Breakpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	base := filepath.Base(file)
	for key, bp := range s.byKey {
		if filepath.Base(bp.File) == base {
			delete(s.byKey, key)
		}
	}
	result := make([]*Breakpoint, len(lines))
	for i, line := range lines {
		s.nextID++
		bp := &Breakpoint{
			ID:      s.nextID,
			File:    file,
			Line:    line,
			Enabled: true,
		}
		if i < len(conditions) {
			bp.Condition = conditions[i]
		}
		s.byKey[bp.key()] = bp
		result[i] = bp
	}
	return result
}

// Match returns the enabled breakpoint at loc, or nil.
func (s *BreakpointStore) Match(loc *token.Location) *Breakpoint {
	if loc == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	bp, ok := s.byKey[locationKey(loc)]
	if !ok || !bp.Enabled {
		return nil
	}
	return bp
}

// All returns the breakpoints in the store ordered by ID.
func (s *BreakpointStore) All() []*Breakpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*Breakpoint, 0, len(s.byKey))
	for _, bp := range s.byKey {
		result = append(result, bp)
	}
	slices.SortFunc(result, func(a, b *Breakpoint) int { return a.ID - b.ID })
	return result
}

// SetExceptionBreak sets the exception breakpoint mode.
func (s *BreakpointStore) SetExceptionBreak(mode ExceptionBreakMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exceptionBreak = mode
}

// ExceptionBreak returns the exception breakpoint mode.
func (s *BreakpointStore) ExceptionBreak() ExceptionBreakMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exceptionBreak
}

// EvalCondition evaluates condition in env.  An empty condition is
// satisfied.  A condition which fails to parse or evaluate is not.
func EvalCondition(env *interp.Env, condition string) bool {
	if condition == "" {
		return true
	}
	v, err := env.LoadString("breakpoint-condition", condition)
	if err != nil {
		return false
	}
	return interp.Truthy(v)
}
