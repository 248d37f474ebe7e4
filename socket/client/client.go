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

// Package client implements the dialing side of §4.2: connect to a server
// endpoint, run a background reader goroutine that fills a ring buffer with
// back-pressure, and expose SendBin/SendStr/SendByte under the connection's
// send mutex.
package client

import (
	"errors"
	"net"
	"time"

	"github.com/eddyem/kvsock/errkind"
	"github.com/eddyem/kvsock/logger"
	"github.com/eddyem/kvsock/ringbuffer"
	"github.com/eddyem/kvsock/socket"
	"github.com/eddyem/kvsock/socket/address"
)

// Client is one dialed connection plus its receive-side ring buffer.
type Client struct {
	conn *socket.Conn
	rb   *ringbuffer.Buffer
	log  *logger.Logger
	done chan struct{}
}

// Dial opens addr and starts the background reader. bufSize is clamped to
// ringbuffer.MinCapacity; log may be nil.
func Dial(addr address.Address, bufSize int, log *logger.Logger) (*Client, error) {
	nc, err := net.Dial(addr.Network, addr.String())
	if err != nil {
		return nil, errkind.Wrap(errkind.Transient, err)
	}

	c := &Client{
		conn: socket.NewConn(nc),
		rb:   ringbuffer.New(bufSize),
		log:  log,
		done: make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// readLoop is clientrbthread's Go analogue: block on Read (no busy-poll
// needed, since Go's net.Conn.Read already blocks until data or an error),
// and push whatever arrives into the ring buffer, retrying a short write
// until the full read is absorbed (the "back-pressure" contract) or the
// connection dies.
func (c *Client) readLoop() {
	defer close(c.done)
	buf := make([]byte, 512)
	for {
		n, err := c.conn.Raw().Read(buf)
		if err != nil || n < 1 {
			c.conn.MarkDisconnected()
			if c.log != nil && err != nil && !errors.Is(err, net.ErrClosed) {
				c.log.Warning("server disconnected", logger.Fields{"remote": c.conn.RemoteHost()},
					errkind.Wrap(errkind.Transient, err))
			}
			return
		}
		got := 0
		for got < n {
			w := c.rb.Write(buf[got:n])
			if w == 0 {
				// Buffer is momentarily full; give the consumer a chance to
				// drain it rather than spinning, mirroring the original's
				// usleep(1000) retry.
				time.Sleep(time.Millisecond)
				continue
			}
			got += w
		}
	}
}

// Read drains up to len(p) bytes of whatever the background reader has
// buffered so far.
func (c *Client) Read(p []byte) (int, error) {
	n := c.rb.Read(p)
	if n == 0 && !c.conn.IsConnected() {
		return 0, net.ErrClosed
	}
	return n, nil
}

// SendBin writes p to the connection under the send mutex.
func (c *Client) SendBin(p []byte) (int, error) { return c.conn.Write(p) }

// SendStr writes s to the connection under the send mutex.
func (c *Client) SendStr(s string) (int, error) { return c.conn.Write([]byte(s)) }

// SendByte writes a single byte to the connection under the send mutex.
func (c *Client) SendByte(b byte) error {
	_, err := c.conn.Write([]byte{b})
	return err
}

// IsConnected reports the connection's last-known liveness.
func (c *Client) IsConnected() bool { return c.conn.IsConnected() }

// Close tears the connection down and waits for the reader goroutine to
// notice.
func (c *Client) Close() error {
	err := c.conn.Close()
	<-c.done
	c.rb.Delete()
	return err
}
