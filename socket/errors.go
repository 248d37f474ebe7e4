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

import "errors"

var (
	// ErrInvalidAddress is returned by socket/address parsing and by
	// Config.Validate when the configured endpoint address does not match
	// any of the UNIX/INET forms the server understands.
	ErrInvalidAddress = errors.New("socket: invalid listen address")

	// ErrClosed names a connection that has already gone away. Conn and
	// socket/client report that case with net.ErrClosed, not this value.
	ErrClosed = errors.New("socket: connection closed")

	// ErrTooManyClients names an endpoint already at MaxClients. The
	// server's default rejection writes "FAIL\n" to the peer and does not
	// return or pass on this value.
	ErrTooManyClients = errors.New("socket: too many clients")
)
