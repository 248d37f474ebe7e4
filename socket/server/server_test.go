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

package server_test

import (
	"bufio"
	"context"
	"io"
	"net"
	"syscall"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eddyem/kvsock/socket/address"
	"github.com/eddyem/kvsock/socket/config"
	"github.com/eddyem/kvsock/socket/handler"
	"github.com/eddyem/kvsock/socket/server"
	"github.com/eddyem/kvsock/socket/typed"
)

// buildCountTable registers a single "count" int slot, enough to exercise
// both the raw and HTTP dispatch paths.
func buildCountTable() *handler.Table {
	t := &handler.Table{}
	t.Add("count", "integer counter", typed.NewIntSlot(0).Handler())
	return t
}

// startServer builds and runs a Server against an ephemeral loopback port,
// returning it once the listener is actually bound.
func startServer(cfg config.Config) (*server.Server, context.CancelFunc) {
	cfg.Addr = address.Address{Kind: address.InetLocalOnly, Network: "tcp", Port: 0}
	if cfg.MaxClients == 0 {
		cfg.MaxClients = 8
	}

	srv, err := server.New(nil, buildCountTable(), cfg)
	Expect(err).ToNot(HaveOccurred())

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = srv.Listen(ctx) }()

	Eventually(srv.Addr).ShouldNot(BeNil())
	return srv, cancel
}

var _ = Describe("Server", func() {
	It("runs the raw line protocol round trip", func() {
		srv, cancel := startServer(config.Config{})
		defer cancel()

		conn, err := net.Dial("tcp", srv.Addr().String())
		Expect(err).ToNot(HaveOccurred())
		defer conn.Close()

		r := bufio.NewReader(conn)

		_, err = conn.Write([]byte("count=5\n"))
		Expect(err).ToNot(HaveOccurred())
		line, err := r.ReadString('\n')
		Expect(err).ToNot(HaveOccurred())
		Expect(line).To(Equal("OK\n"))

		_, err = conn.Write([]byte("count\n"))
		Expect(err).ToNot(HaveOccurred())
		line, err = r.ReadString('\n')
		Expect(err).ToNot(HaveOccurred())
		Expect(line).To(Equal("count=5\n"))
	})

	It("rejects connections past MaxClients", func() {
		srv, cancel := startServer(config.Config{MaxClients: 1})
		defer cancel()

		held, err := net.Dial("tcp", srv.Addr().String())
		Expect(err).ToNot(HaveOccurred())
		defer held.Close()

		Eventually(srv.OpenConnections).Should(BeEquivalentTo(1))

		rejected, err := net.Dial("tcp", srv.Addr().String())
		Expect(err).ToNot(HaveOccurred())
		defer rejected.Close()

		r := bufio.NewReader(rejected)
		line, err := r.ReadString('\n')
		Expect(err).ToNot(HaveOccurred())
		Expect(line).To(Equal("FAIL\n"))
	})

	It("disconnects a client whose line exceeds the buffer with no newline", func() {
		srv, cancel := startServer(config.Config{BufferSize: 256})
		defer cancel()

		conn, err := net.Dial("tcp", srv.Addr().String())
		Expect(err).ToNot(HaveOccurred())
		defer conn.Close()

		overlong := make([]byte, 400)
		for i := range overlong {
			overlong[i] = 'x'
		}
		_, err = conn.Write(overlong)
		Expect(err).ToNot(HaveOccurred())

		// The server closes with the rest of the line still unread in its
		// socket, so the kernel answers with a reset rather than a FIN.
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		buf := make([]byte, 16)
		_, err = conn.Read(buf)
		Expect(err).To(HaveOccurred())
		Expect(err).To(MatchError(syscall.ECONNRESET))
	})

	It("synthesises one HTTP response for a GET request", func() {
		srv, cancel := startServer(config.Config{})
		defer cancel()

		conn, err := net.Dial("tcp", srv.Addr().String())
		Expect(err).ToNot(HaveOccurred())
		defer conn.Close()

		_, err = conn.Write([]byte("GET /count=5 HTTP/1.1\r\n\r\n"))
		Expect(err).ToNot(HaveOccurred())

		// The server closes the connection on its own once the one-shot
		// request is answered; a real HTTP client never half-closes first.
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		body, err := io.ReadAll(conn)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(body)).To(ContainSubstring("HTTP/2.0 200 OK"))
		Expect(string(body)).To(ContainSubstring("Content-Length: 3"))
		Expect(string(body)).To(HaveSuffix("OK\n"))
	})

	It("broadcasts to every connected client via SendAll", func() {
		srv, cancel := startServer(config.Config{})
		defer cancel()

		a, err := net.Dial("tcp", srv.Addr().String())
		Expect(err).ToNot(HaveOccurred())
		defer a.Close()
		b, err := net.Dial("tcp", srv.Addr().String())
		Expect(err).ToNot(HaveOccurred())
		defer b.Close()

		Eventually(srv.OpenConnections).Should(BeEquivalentTo(2))

		srv.SendAll([]byte("ping\n"))

		for _, c := range []net.Conn{a, b} {
			_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
			r := bufio.NewReader(c)
			line, err := r.ReadString('\n')
			Expect(err).ToNot(HaveOccurred())
			Expect(line).To(Equal("ping\n"))
		}
	})
})
