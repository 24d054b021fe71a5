// Copyright © 2024 The ELPS authors

// Package lsp implements a Language Server Protocol server for list
// scripts.  It provides diagnostics, hover, go-to-definition, references,
// completion, signature help, document symbols, rename, formatting and
// quick fixes.
package lsp

import (
	"os"
	"sync"
	"time"

	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/lint"
	"github.com/rs/zerolog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"
)

const (
	serverName    = "plist-lsp"
	serverVersion = "0.1.0"
)

// Server is the list script language server.  Variables bound in the
// setup environment count as defined in every document.
type Server struct {
	handler protocol.Handler
	docs    *DocumentStore
	linter  *lint.Linter
	env     *interp.Env
	log     zerolog.Logger

	mu       sync.Mutex
	pending  map[string]*time.Timer // debounced diagnostics by URI
	notify   glsp.NotifyFunc
	shutdown bool

	exitFn func(int)
}

// Option configures the LSP server.
type Option func(*Server)

// WithEnv sets the setup environment used for lint checks, completion and
// hover.
func WithEnv(env *interp.Env) Option {
	return func(s *Server) { s.env = env }
}

// WithLogger sets the logger used for server events.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// New returns a language server.
func New(opts ...Option) *Server {
	s := &Server{
		docs:    NewDocumentStore(),
		pending: make(map[string]*time.Timer),
		exitFn:  os.Exit,
		log:     zerolog.Nop(),
		linter:  &lint.Linter{Analyzers: lint.DefaultAnalyzers()},
	}
	for _, o := range opts {
		o(s)
	}
	if s.env != nil {
		s.linter.Predefined = s.env.Names()
	}
	s.handler = protocol.Handler{
		Initialize:                 s.initialize,
		Shutdown:                   s.onShutdown,
		Exit:                       s.exit,
		TextDocumentDidOpen:        s.textDocumentDidOpen,
		TextDocumentDidChange:      s.textDocumentDidChange,
		TextDocumentDidSave:        s.textDocumentDidSave,
		TextDocumentDidClose:       s.textDocumentDidClose,
		TextDocumentHover:          s.textDocumentHover,
		TextDocumentDefinition:     s.textDocumentDefinition,
		TextDocumentCompletion:     s.textDocumentCompletion,
		TextDocumentReferences:     s.textDocumentReferences,
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
		TextDocumentRename:         s.textDocumentRename,
		TextDocumentPrepareRename:  s.textDocumentPrepareRename,
		TextDocumentFormatting:     s.textDocumentFormatting,
		TextDocumentSignatureHelp:  s.textDocumentSignatureHelp,
		TextDocumentCodeAction:     s.textDocumentCodeAction,
	}
	return s
}

// Serve runs the server on stdio when addr is empty and on a TCP listener
// at addr otherwise.
func (s *Server) Serve(addr string) error {
	srv := glspserver.NewServer(&s.handler, serverName, false)
	if addr == "" {
		s.log.Info().Msg("lsp: serving stdio")
		return srv.RunStdio()
	}
	s.log.Info().Str("addr", addr).Msg("lsp: serving tcp")
	return srv.RunTCP(addr)
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.captureNotify(ctx)
	if params.ClientInfo != nil {
		s.log.Info().Str("client", params.ClientInfo.Name).Msg("lsp: initialize")
	}

	caps := s.handler.CreateServerCapabilities()
	full := protocol.TextDocumentSyncKindFull
	caps.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &full,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}
	caps.CompletionProvider = &protocol.CompletionOptions{TriggerCharacters: []string{"."}}
	caps.RenameProvider = &protocol.RenameOptions{PrepareProvider: boolPtr(true)}
	caps.SignatureHelpProvider = &protocol.SignatureHelpOptions{
		TriggerCharacters:   []string{"(", ","},
		RetriggerCharacters: []string{")"},
	}
	version := serverVersion
	return protocol.InitializeResult{
		Capabilities: caps,
		ServerInfo:   &protocol.InitializeResultServerInfo{Name: serverName, Version: &version},
	}, nil
}

// onShutdown cancels pending diagnostics.
func (s *Server) onShutdown(_ *glsp.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.pending {
		t.Stop()
	}
	s.pending = make(map[string]*time.Timer)
	s.shutdown = true
	return nil
}

// exit terminates the process, with status 1 unless shutdown came first.
func (s *Server) exit(_ *glsp.Context) error {
	s.mu.Lock()
	code := 1
	if s.shutdown {
		code = 0
	}
	s.mu.Unlock()
	s.exitFn(code)
	return nil
}

func (s *Server) captureNotify(ctx *glsp.Context) {
	s.mu.Lock()
	s.notify = ctx.Notify
	s.mu.Unlock()
}

func (s *Server) sendNotification(method string, params any) {
	s.mu.Lock()
	fn := s.notify
	s.mu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}
