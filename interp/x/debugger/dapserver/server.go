// Copyright © 2024 The ELPS authors

// Package dapserver serves a debugger.Engine over the Debug Adapter
// Protocol.  A server talks to a single client, either over a network
// connection or over stdin and stdout when an editor launches the adapter
// as a child process.
package dapserver

import (
	"bufio"
	"errors"
	"io"
	"net"
	"sync"

	"github.com/google/go-dap"
	"github.com/luthersystems/plist/interp/x/debugger"
	"github.com/rs/zerolog"
)

// threadID is the only thread reported to clients.
const threadID = 1

// Server is a DAP server wrapping a debugger Engine.
type Server struct {
	engine     *debugger.Engine
	log        zerolog.Logger
	sourceRoot string

	mu     sync.Mutex
	seq    int
	writer io.Writer

	done chan struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sends server log events to log.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithSourceRoot resolves the file names of reported stack frames against
// dir so clients can open them.
func WithSourceRoot(dir string) Option {
	return func(s *Server) {
		s.sourceRoot = dir
	}
}

// New returns a server for engine.
func New(engine *debugger.Engine, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		log:    engine.Logger(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ServeConn serves conn until the client disconnects or closes it.
func (s *Server) ServeConn(conn io.ReadWriteCloser) error {
	defer conn.Close() //nolint:errcheck // best-effort cleanup
	return s.serve(conn, conn)
}

// ServeListener accepts a single connection from ln and serves it.
func (s *Server) ServeListener(ln net.Listener) error {
	conn, err := ln.Accept()
	if err != nil {
		return err
	}
	return s.ServeConn(conn)
}

// ServeStdio serves the client on r and w, typically os.Stdin and
// os.Stdout.
func (s *Server) ServeStdio(r io.Reader, w io.Writer) error {
	return s.serve(r, w)
}

func (s *Server) serve(r io.Reader, w io.Writer) error {
	s.mu.Lock()
	s.writer = w
	s.mu.Unlock()
	reader := bufio.NewReader(r)
	h := newHandler(s, s.engine)
	defer h.detach()
	for {
		select {
		case <-s.done:
			return nil
		default:
		}
		msg, err := dap.ReadProtocolMessage(reader)
		if err != nil {
			select {
			case <-s.done:
				return nil
			default:
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		h.handle(msg)
	}
}

func (s *Server) send(msg dap.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dap.WriteProtocolMessage(s.writer, msg)
}

func (s *Server) nextSeq() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

func (s *Server) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}
