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

// Package config holds the per-endpoint settings socket/server and
// socket/client are constructed from.
package config

import (
	"github.com/eddyem/kvsock/duration"
	"github.com/eddyem/kvsock/logger"
	"github.com/eddyem/kvsock/socket"
	"github.com/eddyem/kvsock/socket/address"
)

// DefaultMaxClients is used when a Config leaves MaxClients at zero.
const DefaultMaxClients = 32

// DefaultConIdleTimeout is used when a Config leaves ConIdleTimeout at zero.
const DefaultConIdleTimeout = duration.Duration(30_000_000_000) // 30s, in duration's underlying ns unit

// DefaultDrainTimeout is how long a rejected connection is kept half-open
// to drain before the listener closes it outright.
const DefaultDrainTimeout = duration.Duration(11_000_000_000) // 11s

// Config is the Go analogue of one SocketEndpoint: an address to listen on
// or dial, the client-table ceiling, the per-connection buffer size, and the
// idle-read timeout that replaces the original poll()-based 1ms tick.
type Config struct {
	Addr address.Address

	// MaxClients caps concurrently connected clients; zero means
	// DefaultMaxClients.
	MaxClients int

	// BufferSize sizes each client's ring buffer; zero means
	// socket.DefaultBufferSize.
	BufferSize int

	// ConIdleTimeout bounds how long a read may block with no data before
	// the dispatcher re-checks for shutdown; zero means
	// DefaultConIdleTimeout.
	ConIdleTimeout duration.Duration

	// DrainTimeout bounds how long a connection rejected for being over
	// MaxClients is kept open to let its "too many clients" message flush
	// before the listener force-closes it; zero means DefaultDrainTimeout.
	DrainTimeout duration.Duration

	// OnNewConnection, when set, is consulted after a connection is
	// accepted and before it is admitted to the client table; returning
	// false closes the connection at once, without the "too many clients"
	// reply or drain.
	OnNewConnection func(socket.Context) bool

	// OnDisconnect, when set, is called once a client's connection has
	// been fully torn down.
	OnDisconnect func(socket.Context)

	// Log, when set, receives Warn/Err records for transient client
	// failures and fatal listener failures per spec.md §7. A nil Log
	// means the dispatcher runs silently.
	Log *logger.Logger
}

// Validate fills in defaults and checks the address was actually set.
func (c *Config) Validate() error {
	if c.Addr.Network == "" {
		return socket.ErrInvalidAddress
	}
	if c.MaxClients <= 0 {
		c.MaxClients = DefaultMaxClients
	}
	if c.BufferSize <= 0 {
		c.BufferSize = socket.DefaultBufferSize
	}
	if c.ConIdleTimeout <= 0 {
		c.ConIdleTimeout = DefaultConIdleTimeout
	}
	if c.DrainTimeout <= 0 {
		c.DrainTimeout = DefaultDrainTimeout
	}
	return nil
}
