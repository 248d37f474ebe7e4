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

// Package socket defines the connection-facing surface shared by the raw
// line-protocol dispatcher and the one-shot HTTP mode: the Context a handler
// reads/writes through, the ConnState lifecycle markers with their display
// names, and ErrorFilter, which tells an expected shutdown-time error apart from a
// real one.
package socket

import (
	"strings"
)

// DefaultBufferSize is the default size of both a client's ring buffer and
// the non-Raw staging buffer used to accumulate an HTTP response body.
const DefaultBufferSize = 32 * 1024

// EOL is the line terminator the wire protocol is framed on.
const EOL = byte('\n')

// Context is what a registered handler or a built-in typed accessor sees of
// the connection it is running against. It never exposes the ring buffer or
// the dispatcher directly, only the narrow read/write/state surface a
// handler needs.
type Context interface {
	// Read behaves like io.Reader against the underlying connection itself,
	// not the ring buffer the dispatcher fills.
	Read(p []byte) (int, error)
	// Write sends p to the peer, under the connection's send lock.
	Write(p []byte) (int, error)
	// Close disconnects the underlying connection.
	Close() error
	// IsConnected reports whether the connection is still live.
	IsConnected() bool
	// RemoteHost returns the peer address, or "" for a UNIX socket peer
	// that carries no meaningful address.
	RemoteHost() string
	// LocalHost returns this endpoint's bound address.
	LocalHost() string
}

// HandlerFunc is a callback that runs against one connection's Context.
// socket/server and socket/handler do not take one: the server runs the
// handler.Table it was built with, whose entries are handler.Func values.
type HandlerFunc func(Context)

// ConnState marks a point in a connection's lifecycle; String gives its
// display name. socket/server and socket/client do not record these values.
type ConnState uint8

const (
	ConnectionDial ConnState = iota
	ConnectionNew
	ConnectionRead
	ConnectionHandler
	ConnectionWrite
	ConnectionCloseRead
	ConnectionCloseWrite
	ConnectionClose
)

var connStateNames = [...]string{
	ConnectionDial:       "Dial Connection",
	ConnectionNew:        "New Connection",
	ConnectionRead:       "Read Incoming Stream",
	ConnectionHandler:    "Run HandlerFunc",
	ConnectionWrite:      "Write Outgoing Steam",
	ConnectionCloseRead:  "Close Incoming Stream",
	ConnectionCloseWrite: "Close Outgoing Stream",
	ConnectionClose:      "Close Connection",
}

// String implements fmt.Stringer.
func (c ConnState) String() string {
	if int(c) < len(connStateNames) {
		return connStateNames[c]
	}
	return "Unknown Connection State"
}

// ErrorFilter returns nil for errors that are an expected side effect of
// closing a connection (so disconnect/shutdown paths don't log noise), and
// returns err unchanged otherwise.
func ErrorFilter(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "use of closed network connection") {
		return nil
	}
	return err
}
