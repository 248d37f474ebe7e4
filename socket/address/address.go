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

// Package address parses the listen/dial address strings kvsockd accepts on
// its --node flag (UNIX form when --unixsock is set, INET form otherwise)
// into a resolved Kind plus the network/address pair net.Listen and
// net.Dial both want.
package address

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eddyem/kvsock/socket"
)

// Kind classifies how an address string was parsed.
type Kind uint8

const (
	// UnixPath is a filesystem or abstract UNIX domain socket path.
	UnixPath Kind = iota
	// InetLocalOnly is a bare ":port" or "port" form, bound to loopback only.
	InetLocalOnly
	// InetAny is a "host:port" form, bound to the named host/interface.
	InetAny
)

func (k Kind) String() string {
	switch k {
	case UnixPath:
		return "unix"
	case InetLocalOnly:
		return "inet-local"
	case InetAny:
		return "inet"
	default:
		return "unknown"
	}
}

// Address is a fully parsed endpoint address.
type Address struct {
	Kind Kind
	// Network is the value to pass as net.Listen/net.Dial's network
	// argument: "unix" or "tcp".
	Network string
	// Host is empty for UnixPath and InetLocalOnly, and the resolved host
	// or interface name for InetAny.
	Host string
	// Port is the numeric TCP port; zero for UnixPath.
	Port int
	// Path is the filesystem or abstract socket path for UnixPath; the
	// leading NUL of an abstract path is represented literally in this
	// field (Go strings may contain \x00).
	Path string
}

// String renders the net.Listen/net.Dial address argument.
func (a Address) String() string {
	switch a.Kind {
	case UnixPath:
		return a.Path
	case InetLocalOnly:
		return fmt.Sprintf("127.0.0.1:%d", a.Port)
	default:
		return fmt.Sprintf("%s:%d", a.Host, a.Port)
	}
}

// ParseUnix builds a UnixPath Address from a filesystem or abstract-socket
// path, applying the same leading-NUL conversion as the original
// convunsname: a path starting with a literal NUL byte, or with the
// two-character escape "\0", addresses the abstract namespace instead of
// the filesystem.
func ParseUnix(path string) (Address, error) {
	if path == "" {
		return Address{}, socket.ErrInvalidAddress
	}
	converted := path
	switch {
	case path[0] == 0:
		converted = path
	case strings.HasPrefix(path, `\0`):
		converted = "\x00" + path[2:]
	}
	return Address{Kind: UnixPath, Network: "unix", Path: converted}, nil
}

// ParseInet parses the "[host]:port" / ":port" / "port" grammar kvsockd's
// --node flag accepts when --unixsock is not set.
//
//   - "port"      -> InetLocalOnly, bound to 127.0.0.1
//   - ":port"     -> InetLocalOnly, bound to 127.0.0.1
//   - "host:port" -> InetAny, bound to host
func ParseInet(s string) (Address, error) {
	if s == "" {
		return Address{}, socket.ErrInvalidAddress
	}
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		port, err := parsePort(s)
		if err != nil {
			return Address{}, err
		}
		return Address{Kind: InetLocalOnly, Network: "tcp", Port: port}, nil
	}
	host, portStr := s[:idx], s[idx+1:]
	port, err := parsePort(portStr)
	if err != nil {
		return Address{}, err
	}
	if host == "" {
		return Address{Kind: InetLocalOnly, Network: "tcp", Port: port}, nil
	}
	return Address{Kind: InetAny, Network: "tcp", Host: host, Port: port}, nil
}

func parsePort(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 65535 {
		return 0, fmt.Errorf("%w: bad port %q", socket.ErrInvalidAddress, s)
	}
	return n, nil
}
