// Copyright © 2024 The ELPS authors

package dapserver

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/go-dap"
	"github.com/luthersystems/plist/interp/x/debugger"
	"github.com/luthersystems/plist/plist"
)

// localsRef is the variables reference of the paused environment.
// Container references are allocated above it and reset on every stop.
const localsRef = 1

type handler struct {
	server *Server
	engine *debugger.Engine

	mu      sync.Mutex
	nextRef int
	refs    map[int]plist.Value
}

func newHandler(s *Server, e *debugger.Engine) *handler {
	h := &handler{server: s, engine: e}
	h.resetRefs()
	e.SetEventCallback(h.onEngineEvent)
	return h
}

func (h *handler) detach() {
	h.engine.SetEventCallback(nil)
	h.engine.Disconnect()
}

func (h *handler) send(msg dap.Message) {
	if err := h.server.send(msg); err != nil {
		h.server.log.Error().Err(err).Msg("dap send failed")
	}
}

func (h *handler) handle(msg dap.Message) {
	switch req := msg.(type) {
	case *dap.InitializeRequest:
		h.onInitialize(req)
	case *dap.LaunchRequest:
		h.send(&dap.LaunchResponse{Response: h.newResponse(req.Seq, req.Command)})
	case *dap.AttachRequest:
		h.send(&dap.AttachResponse{Response: h.newResponse(req.Seq, req.Command)})
	case *dap.SetBreakpointsRequest:
		h.onSetBreakpoints(req)
	case *dap.SetExceptionBreakpointsRequest:
		h.onSetExceptionBreakpoints(req)
	case *dap.ConfigurationDoneRequest:
		h.send(&dap.ConfigurationDoneResponse{Response: h.newResponse(req.Seq, req.Command)})
		h.engine.SignalReady()
	case *dap.ThreadsRequest:
		resp := &dap.ThreadsResponse{Response: h.newResponse(req.Seq, req.Command)}
		resp.Body.Threads = []dap.Thread{{Id: threadID, Name: "main"}}
		h.send(resp)
	case *dap.StackTraceRequest:
		h.onStackTrace(req)
	case *dap.ScopesRequest:
		resp := &dap.ScopesResponse{Response: h.newResponse(req.Seq, req.Command)}
		resp.Body.Scopes = []dap.Scope{{Name: "Locals", VariablesReference: localsRef}}
		h.send(resp)
	case *dap.VariablesRequest:
		h.onVariables(req)
	case *dap.ContinueRequest:
		resp := &dap.ContinueResponse{Response: h.newResponse(req.Seq, req.Command)}
		resp.Body.AllThreadsContinued = true
		h.send(resp)
		h.engine.Resume()
	case *dap.NextRequest:
		h.send(&dap.NextResponse{Response: h.newResponse(req.Seq, req.Command)})
		h.engine.Step()
	case *dap.StepInRequest:
		h.send(&dap.StepInResponse{Response: h.newResponse(req.Seq, req.Command)})
		h.engine.Step()
	case *dap.StepOutRequest:
		// Statements have no frames to step out of.
		h.send(&dap.StepOutResponse{Response: h.newResponse(req.Seq, req.Command)})
		h.engine.Resume()
	case *dap.PauseRequest:
		h.send(&dap.PauseResponse{Response: h.newResponse(req.Seq, req.Command)})
		h.engine.RequestPause()
	case *dap.EvaluateRequest:
		h.onEvaluate(req)
	case *dap.DisconnectRequest:
		h.send(&dap.DisconnectResponse{Response: h.newResponse(req.Seq, req.Command)})
		h.detach()
		h.send(&dap.TerminatedEvent{Event: h.newEvent("terminated")})
		h.server.close()
	case dap.RequestMessage:
		r := req.GetRequest()
		resp := &dap.ErrorResponse{Response: h.newResponse(r.Seq, r.Command)}
		resp.Success = false
		resp.Message = "unsupported request"
		h.send(resp)
	default:
		h.server.log.Debug().Type("type", msg).Msg("dap message ignored")
	}
}

func (h *handler) onInitialize(req *dap.InitializeRequest) {
	resp := &dap.InitializeResponse{Response: h.newResponse(req.Seq, req.Command)}
	resp.Body = dap.Capabilities{
		SupportsConfigurationDoneRequest: true,
		SupportsConditionalBreakpoints:   true,
		SupportsEvaluateForHovers:        true,
		ExceptionBreakpointFilters: []dap.ExceptionBreakpointsFilter{
			{Filter: "all", Label: "All Errors"},
		},
	}
	h.send(resp)
	h.send(&dap.InitializedEvent{Event: h.newEvent("initialized")})
}

func (h *handler) onSetBreakpoints(req *dap.SetBreakpointsRequest) {
	src := req.Arguments.Source
	file := src.Path
	if file == "" {
		file = src.Name
	}
	lines := make([]int, len(req.Arguments.Breakpoints))
	conditions := make([]string, len(req.Arguments.Breakpoints))
	for i, bp := range req.Arguments.Breakpoints {
		lines[i] = bp.Line
		conditions[i] = bp.Condition
	}
	bps := h.engine.Breakpoints().SetForFile(file, lines, conditions)

	resp := &dap.SetBreakpointsResponse{Response: h.newResponse(req.Seq, req.Command)}
	resp.Body.Breakpoints = make([]dap.Breakpoint, len(bps))
	for i, bp := range bps {
		resp.Body.Breakpoints[i] = dap.Breakpoint{
			Id:       bp.ID,
			Verified: true,
			Line:     bp.Line,
			Source:   &dap.Source{Name: filepath.Base(bp.File), Path: src.Path},
		}
	}
	h.send(resp)
}

func (h *handler) onSetExceptionBreakpoints(req *dap.SetExceptionBreakpointsRequest) {
	mode := debugger.ExceptionBreakNever
	for _, filter := range req.Arguments.Filters {
		if filter == "all" {
			mode = debugger.ExceptionBreakAll
		}
	}
	h.engine.Breakpoints().SetExceptionBreak(mode)
	h.send(&dap.SetExceptionBreakpointsResponse{Response: h.newResponse(req.Seq, req.Command)})
}

func (h *handler) onStackTrace(req *dap.StackTraceRequest) {
	resp := &dap.StackTraceResponse{Response: h.newResponse(req.Seq, req.Command)}
	env, stmt, _ := h.engine.PausedState()
	if env == nil || req.Arguments.StartFrame > 0 {
		h.send(resp)
		return
	}
	frame := dap.StackFrame{Id: 1, Name: strings.TrimSpace(stmt.Text())}
	if loc := stmt.Loc(); loc != nil {
		frame.Line = loc.Line
		frame.Column = max(loc.Col, 1)
		frame.Source = &dap.Source{Name: loc.File, Path: h.sourcePath(loc.Path)}
	}
	resp.Body.StackFrames = []dap.StackFrame{frame}
	resp.Body.TotalFrames = 1
	h.send(resp)
}

func (h *handler) sourcePath(path string) string {
	if h.server.sourceRoot == "" || path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(h.server.sourceRoot, path)
}

func (h *handler) onVariables(req *dap.VariablesRequest) {
	resp := &dap.VariablesResponse{Response: h.newResponse(req.Seq, req.Command)}
	var bindings []debugger.Binding
	ref := req.Arguments.VariablesReference
	if ref == localsRef {
		if env, _, _ := h.engine.PausedState(); env != nil {
			bindings = debugger.InspectLocals(env)
		}
	} else if v := h.lookupRef(ref); v != nil {
		bindings = debugger.Children(v, req.Arguments.Start, req.Arguments.Count)
	}
	resp.Body.Variables = make([]dap.Variable, len(bindings))
	for i, b := range bindings {
		resp.Body.Variables[i] = h.variable(b)
	}
	h.send(resp)
}

func (h *handler) variable(b debugger.Binding) dap.Variable {
	v := dap.Variable{
		Name:  b.Name,
		Value: debugger.FormatValue(b.Value),
		Type:  debugger.TypeString(b.Value),
	}
	if n := debugger.Len(b.Value); n > 0 {
		v.VariablesReference = h.allocRef(b.Value)
		v.IndexedVariables = n
	}
	return v
}

func (h *handler) onEvaluate(req *dap.EvaluateRequest) {
	resp := &dap.EvaluateResponse{Response: h.newResponse(req.Seq, req.Command)}
	v, err := h.engine.Evaluate(req.Arguments.Expression)
	if err != nil {
		resp.Success = false
		resp.Message = err.Error()
		h.send(resp)
		return
	}
	variable := h.variable(debugger.Binding{Value: v})
	resp.Body.Result = variable.Value
	resp.Body.Type = variable.Type
	resp.Body.VariablesReference = variable.VariablesReference
	resp.Body.IndexedVariables = variable.IndexedVariables
	h.send(resp)
}

func (h *handler) onEngineEvent(evt debugger.Event) {
	switch evt.Type {
	case debugger.EventStopped:
		h.resetRefs()
		stopped := &dap.StoppedEvent{Event: h.newEvent("stopped")}
		stopped.Body.Reason = string(evt.Reason)
		stopped.Body.ThreadId = threadID
		stopped.Body.AllThreadsStopped = true
		if evt.BP != nil {
			stopped.Body.HitBreakpointIds = []int{evt.BP.ID}
		}
		if evt.Err != nil {
			stopped.Body.Text = evt.Err.Error()
		}
		h.send(stopped)
	case debugger.EventExited:
		exited := &dap.ExitedEvent{Event: h.newEvent("exited")}
		exited.Body.ExitCode = evt.ExitCode
		h.send(exited)
		h.send(&dap.TerminatedEvent{Event: h.newEvent("terminated")})
	}
}

func (h *handler) resetRefs() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.refs = make(map[int]plist.Value)
	h.nextRef = localsRef
}

func (h *handler) allocRef(v plist.Value) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextRef++
	h.refs[h.nextRef] = v
	return h.nextRef
}

func (h *handler) lookupRef(ref int) plist.Value {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.refs[ref]
}

func (h *handler) newResponse(reqSeq int, command string) dap.Response {
	return dap.Response{
		ProtocolMessage: dap.ProtocolMessage{Seq: h.server.nextSeq(), Type: "response"},
		RequestSeq:      reqSeq,
		Success:         true,
		Command:         command,
	}
}

func (h *handler) newEvent(event string) dap.Event {
	return dap.Event{
		ProtocolMessage: dap.ProtocolMessage{Seq: h.server.nextSeq(), Type: "event"},
		Event:           event,
	}
}
