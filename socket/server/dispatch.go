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

package server

import (
	"net"
	"strings"
	"time"

	"github.com/eddyem/kvsock/errkind"
	"github.com/eddyem/kvsock/ringbuffer"
	"github.com/eddyem/kvsock/socket/handler"
	"github.com/eddyem/kvsock/socket/httpmode"
)

// serveClient is the per-connection goroutine: fill the ring buffer, drain
// and dispatch every complete line, repeat until the peer disconnects or a
// protocol violation forces a close.
func (s *Server) serveClient(c *client) {
	defer s.finishClient(c)

	scratch := make([]byte, s.cfg.BufferSize)
	line := make([]byte, s.cfg.BufferSize)

	for {
		ok, idle := s.fillBuffer(c, scratch)
		if !ok {
			return
		}
		if idle {
			continue
		}
		done, ok := s.drainLines(c, line)
		if !ok || done {
			return
		}
	}
}

// fillBuffer reads one round of bytes off the connection into the client's
// ring buffer. ok is false if the connection must be torn down; idle is
// true when the read timed out with nothing to parse yet (the idle-timeout
// tick, standing in for poll()'s periodic wakeup).
func (s *Server) fillBuffer(c *client, scratch []byte) (ok bool, idle bool) {
	free := c.rb.FreeSize()
	if free == 0 {
		if _, found := c.rb.HasByte('\n'); !found {
			s.logWarn("disconnecting %s: %v", c.conn.RemoteHost(),
				errkind.Wrap(errkind.Overflow, ringbuffer.ErrTruncated))
			return false, false
		}
		return true, false
	}

	_ = c.conn.Raw().SetReadDeadline(time.Now().Add(s.cfg.ConIdleTimeout.Time()))

	n := free
	if n > len(scratch) {
		n = len(scratch)
	}
	rn, err := c.conn.Raw().Read(scratch[:n])
	if err != nil {
		if ne, isNetErr := err.(net.Error); isNetErr && ne.Timeout() {
			if !s.IsRunning() {
				return false, false
			}
			return true, true
		}
		return false, false
	}
	if rn <= 0 {
		return false, false
	}
	if wn := c.rb.Write(scratch[:rn]); wn < rn {
		return false, false
	}
	return true, false
}

// drainLines dispatches every complete line currently buffered. It returns
// ok=false on a fatal per-client error (caller disconnects; finishClient
// still sends a non-Raw connection its synthesised response), and done=true once a non-Raw connection has nothing left to
// read and its one-shot request has already been answered: GET already
// emitted its response on its request line, PUT/PATCH/DELETE have no body
// phase, and a POST with its declared body not yet fully buffered has
// nothing more to do but wait and is the only non-Raw case that loops.
func (s *Server) drainLines(c *client, dst []byte) (done bool, ok bool) {
	for {
		before := c.rb.DataLen()
		n, err := c.rb.ReadLine(dst)
		if err == ringbuffer.ErrTruncated {
			s.logWarn("disconnecting %s: %v", c.conn.RemoteHost(),
				errkind.Wrap(errkind.Overflow, err))
			return false, false
		}
		if n == 0 && c.rb.DataLen() < before {
			// A bare "\n" line was consumed; ReadLine reports it as 0 too.
			if c.line > 0 {
				s.dispatchLine(c, "")
			}
			continue
		}
		if n == 0 {
			if !c.mode.IsHTTP() {
				return false, true
			}
			if c.mode == httpmode.Post {
				if !c.blankLineSeen {
					return false, true // still receiving header lines
				}
				if c.rb.DataLen() < c.contentLength {
					return false, true // body not fully buffered yet
				}
				s.handlePostBody(c)
				return true, true
			}
			// Get already dispatched on its request line; Put/Patch/Delete
			// have no body phase in this protocol.
			return true, true
		}
		raw := string(dst[:n])
		raw = strings.TrimSuffix(raw, "\r")
		s.dispatchLine(c, raw)
	}
}

// dispatchLine handles one framed line according to the connection's
// current protocol mode, advancing the mode on the very first line.
func (s *Server) dispatchLine(c *client, raw string) {
	if c.line == 0 {
		c.mode = httpmode.Sniff(raw)
		c.line++
		switch c.mode {
		case httpmode.Get:
			if query, ok := httpmode.ExtractGETQuery(raw); ok {
				s.runBody(c, query)
			}
			return
		case httpmode.Raw:
			s.runLine(c, raw)
		default:
			// PUT/POST/PATCH/DELETE: headers follow.
		}
		return
	}
	c.line++

	if c.mode != httpmode.Raw {
		if raw == "" {
			c.blankLineSeen = true
			return
		}
		if n, found := httpmode.HeaderContentLength(raw); found {
			c.contentLength = n
		}
		return
	}

	s.runLine(c, raw)
}

// runLine feeds one raw-protocol command line to the dispatcher and sends
// its canonical reply, if any.
func (s *Server) runLine(c *client, raw string) {
	res := handler.Dispatch(c.conn, s.table, raw)
	if res != handler.Silence {
		_, _ = c.conn.Write([]byte(res.Text()))
	}
}

// runBody feeds a decoded GET query or POST body through the &-segment
// splitter, skipping the favicon probe; every segment is dispatched, so a
// malformed one gets the parser's error reply staged like any other.
// Handler replies are staged rather than written to the wire immediately:
// HTTP-mode connections get a single synthesised response on disconnect.
func (s *Server) runBody(c *client, body string) {
	if httpmode.IsFavicon(body) {
		return
	}
	ctx := stagingContext{c: c}
	for _, seg := range httpmode.Segments(body) {
		decoded := httpmode.DecodeSegment(seg)
		res := handler.Dispatch(ctx, s.table, decoded)
		if res != handler.Silence {
			_, _ = c.staging.Write([]byte(res.Text()))
		}
	}
}

// stagingContext is the Context a handler sees while running against a
// non-Raw (one-shot HTTP) connection: reads and connection-state queries
// still reach the real socket, but Write lands in the client's staging
// buffer instead of the wire, so a handler that writes directly (the help
// key, the typed getters) can't put bytes on the wire ahead of the
// synthesised response spec.md §4.5 requires.
type stagingContext struct {
	c *client
}

func (ctx stagingContext) Read(p []byte) (int, error)  { return ctx.c.conn.Read(p) }
func (ctx stagingContext) Write(p []byte) (int, error) { return ctx.c.staging.Write(p) }
func (ctx stagingContext) Close() error                { return ctx.c.conn.Close() }
func (ctx stagingContext) IsConnected() bool           { return ctx.c.conn.IsConnected() }
func (ctx stagingContext) RemoteHost() string          { return ctx.c.conn.RemoteHost() }
func (ctx stagingContext) LocalHost() string           { return ctx.c.conn.LocalHost() }

// handlePostBody drains exactly contentLength bytes of buffered POST body
// and runs them through the same body parser as a GET query.
func (s *Server) handlePostBody(c *client) {
	body := make([]byte, c.contentLength)
	c.rb.Read(body)
	s.runBody(c, string(body))
}

// finishClient synthesises and flushes the HTTP envelope for a non-Raw
// connection (if any), then tears the connection down.
func (s *Server) finishClient(c *client) {
	c.conn.SendMutex().Lock()
	c.conn.MarkDisconnected()
	if c.mode != httpmode.Raw {
		resp := httpmode.BuildResponse(c.staging.Bytes())
		_, _ = c.conn.Raw().Write(resp)
	}
	c.conn.SendMutex().Unlock()

	_ = c.conn.Close()
	c.rb.Delete()
	s.removeClient(c)
}
