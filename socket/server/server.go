/*
 * MIT License
 *
 * Copyright (c) 2024 kvsock contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package server implements the listening-endpoint side of the protocol: it
// accepts connections, admits or rejects them against a client-count
// ceiling, and runs one goroutine per admitted connection reading lines
// into that connection's ring buffer and feeding them to the command
// parser. This replaces the original single poll()-loop dispatcher with
// Go's native concurrency primitives — a goroutine per connection plus
// SetReadDeadline for the idle-timeout tick poll() used a 1ms wait for —
// since a blocking-read-per-goroutine model is the idiomatic Go analogue of
// "one thread services one ready descriptor" and needs no readiness
// multiplexer of its own.
package server

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/eddyem/kvsock/errkind"
	"github.com/eddyem/kvsock/logger"
	"github.com/eddyem/kvsock/ringbuffer"
	"github.com/eddyem/kvsock/socket"
	"github.com/eddyem/kvsock/socket/config"
	"github.com/eddyem/kvsock/socket/handler"
	"github.com/eddyem/kvsock/socket/httpmode"
)

// Server listens on one endpoint and dispatches every accepted connection
// against a shared command table.
type Server struct {
	cfg   config.Config
	table *handler.Table
	// update, if set, is run against each accepted net.Conn before it is
	// wrapped, for callers that need to tweak socket options per connection.
	update func(net.Conn)

	mu       sync.Mutex
	clients  map[*client]struct{}
	listener net.Listener

	running atomic.Bool
	done    chan struct{}
}

type client struct {
	conn *socket.Conn
	rb   *ringbuffer.Buffer
	mode httpmode.Mode
	line int
	// HTTP-mode bookkeeping
	contentLength int
	blankLineSeen bool
	staging       *httpmode.Staging
}

// New validates cfg and constructs a Server bound to table. It does not
// open the listening socket; call Listen for that.
func New(update func(net.Conn), table *handler.Table, cfg config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Server{
		cfg:     cfg,
		table:   table,
		update:  update,
		clients: make(map[*client]struct{}),
		done:    closedChan(),
	}, nil
}

// setReuseAddr sets SO_REUSEADDR on the listener's raw fd before bind,
// mirroring the setsockopt call in the original's sl_sock_open so a
// restarted server can rebind a TCP port still in TIME_WAIT. It is a no-op
// for unix domain sockets, which have no such option.
func setReuseAddr(network, address string, c syscall.RawConn) error {
	if network != "tcp" && network != "tcp4" && network != "tcp6" {
		return nil
	}
	var sockErr error
	if err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	}); err != nil {
		return err
	}
	return sockErr
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// IsRunning reports whether the listener is currently accepting.
func (s *Server) IsRunning() bool { return s.running.Load() }

// IsGone reports the negation of IsRunning, matching the teacher library's
// paired accessor convention.
func (s *Server) IsGone() bool { return !s.running.Load() }

// OpenConnections returns the number of currently admitted clients.
func (s *Server) OpenConnections() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.clients))
}

// Done returns a channel closed once Listen has returned.
func (s *Server) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Addr returns the listener's bound address, or nil before Listen has
// opened it. Useful for logging the resolved address of a ":0" ephemeral
// port.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Listen opens the listening socket and runs the accept loop until ctx is
// canceled or Shutdown is called. It blocks for the lifetime of the
// listener; callers typically run it in its own goroutine.
func (s *Server) Listen(ctx context.Context) error {
	lc := net.ListenConfig{Control: setReuseAddr}
	ln, err := lc.Listen(ctx, s.cfg.Addr.Network, s.cfg.Addr.String())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = ln
	s.done = make(chan struct{})
	s.mu.Unlock()
	s.running.Store(true)

	defer func() {
		s.running.Store(false)
		s.mu.Lock()
		close(s.done)
		s.mu.Unlock()
	}()

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if filtered := socket.ErrorFilter(err); filtered != nil {
				s.logErr("accept failed: %v", errkind.Wrap(errkind.Listener, filtered))
				return filtered
			}
			return nil
		}
		if s.update != nil {
			s.update(conn)
		}
		s.handleAccept(conn)
	}
}

// Shutdown stops accepting new connections, closes every admitted client's
// connection, and waits for those client goroutines to notice the close and
// exit.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln != nil {
		_ = ln.Close()
	}
	select {
	case <-s.Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	for c := range s.clients {
		_ = c.conn.Close()
	}
	s.mu.Unlock()

	for s.OpenConnections() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
	return nil
}

func (s *Server) handleAccept(conn net.Conn) {
	s.mu.Lock()
	full := len(s.clients) >= s.cfg.MaxClients
	s.mu.Unlock()

	if full {
		go s.rejectTooManyClients(conn)
		return
	}

	c := &client{
		conn:    socket.NewConn(conn),
		rb:      ringbuffer.New(s.cfg.BufferSize),
		staging: httpmode.NewStaging(s.cfg.BufferSize),
	}

	if s.cfg.OnNewConnection != nil && !s.cfg.OnNewConnection(c.conn) {
		_ = conn.Close()
		return
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go s.serveClient(c)
}

// rejectTooManyClients implements the default admission-control behaviour:
// a short message, a half-close, then a bounded drain before the fd closes.
func (s *Server) rejectTooManyClients(conn net.Conn) {
	_, _ = conn.Write([]byte("FAIL\n"))
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.CloseWrite()
	} else if uc, ok := conn.(*net.UnixConn); ok {
		_ = uc.CloseWrite()
	}
	_ = conn.SetReadDeadline(time.Now().Add(s.cfg.DrainTimeout.Time()))
	buf := make([]byte, 512)
	for {
		if _, err := conn.Read(buf); err != nil {
			break
		}
	}
	_ = conn.Close()
}

// logErr emits a formatted Err-level record if a logger is configured;
// a nil Log makes every call here a no-op.
func (s *Server) logErr(format string, args ...interface{}) {
	if s.cfg.Log != nil {
		s.cfg.Log.Error(format, logger.Fields{"component": "socket/server"}, args...)
	}
}

// logWarn is logErr's Warn-level counterpart, used for recoverable
// per-client conditions (spec.md §7: "transient client I/O" logs at Warn).
func (s *Server) logWarn(format string, args ...interface{}) {
	if s.cfg.Log != nil {
		s.cfg.Log.Warning(format, logger.Fields{"component": "socket/server"}, args...)
	}
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	if s.cfg.OnDisconnect != nil {
		s.cfg.OnDisconnect(c.conn)
	}
}

// SendAll writes p to every currently connected client, each under that
// client's own send mutex; it does not promise atomicity across clients.
func (s *Server) SendAll(p []byte) {
	s.mu.Lock()
	targets := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		targets = append(targets, c)
	}
	s.mu.Unlock()

	for _, c := range targets {
		_, _ = c.conn.Write(p)
	}
}
