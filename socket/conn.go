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

package socket

import (
	"net"
	"sync"
	"sync/atomic"
)

// Conn is the shared net.Conn-backed Context implementation used by both
// socket/server and socket/client. It owns the one send mutex spec.md's
// concurrency model requires ("All state-changing operations on a client
// are serialised by that client's send mutex").
type Conn struct {
	nc        net.Conn
	connected atomic.Bool
	sendMu    sync.Mutex
}

// NewConn wraps an already-connected net.Conn.
func NewConn(nc net.Conn) *Conn {
	c := &Conn{nc: nc}
	c.connected.Store(true)
	return c
}

// Raw returns the underlying net.Conn, for callers (socket/server's read
// phase) that need to call SetReadDeadline or similar directly.
func (c *Conn) Raw() net.Conn { return c.nc }

// Read implements Context. It is not used by the command dispatcher (which
// reads through the ring buffer instead) but is kept so Conn satisfies
// Context for handlers that want direct connection access, matching the
// teacher library's Context.Read contract.
func (c *Conn) Read(p []byte) (int, error) {
	return c.nc.Read(p)
}

// Write sends p under the send mutex, guaranteeing each caller's bytes are
// not interleaved with another caller's to the same connection.
func (c *Conn) Write(p []byte) (int, error) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.connected.Load() {
		return 0, net.ErrClosed
	}
	n, err := c.nc.Write(p)
	if err != nil {
		c.connected.Store(false)
	}
	return n, err
}

// Close marks the connection dead and closes the underlying fd.
func (c *Conn) Close() error {
	c.connected.Store(false)
	return c.nc.Close()
}

// IsConnected reports the last-known liveness of the connection.
func (c *Conn) IsConnected() bool { return c.connected.Load() }

// RemoteHost returns the peer address string.
func (c *Conn) RemoteHost() string {
	if a := c.nc.RemoteAddr(); a != nil {
		return a.String()
	}
	return ""
}

// LocalHost returns the local bound address string.
func (c *Conn) LocalHost() string {
	if a := c.nc.LocalAddr(); a != nil {
		return a.String()
	}
	return ""
}

// MarkDisconnected flags the connection dead without touching the fd; used
// by the dispatcher once it has already decided to tear the connection down
// via its own close sequence (so the send lock ordering in §4.3's Disconnect
// step stays under the dispatcher's control).
func (c *Conn) MarkDisconnected() { c.connected.Store(false) }

// SendMutex exposes the send lock so the dispatcher's Disconnect step (which
// must "acquire the client's send mutex" per spec.md §4.3) can take it
// explicitly around the HTTP-envelope flush that happens outside of Write.
func (c *Conn) SendMutex() *sync.Mutex { return &c.sendMu }
