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

package httpmode

import "fmt"

// MinStagingSize is the smallest staging buffer BuildResponse's caller may
// use to accumulate handler replies before the connection closes.
const MinStagingSize = 8 * 1024

// Staging accumulates handler reply bytes for a non-Raw connection. Writes
// past capacity are silently truncated, matching the original's "staging
// overflow silently truncates" behaviour, rather than growing unbounded or
// erroring a connection that is about to close anyway.
type Staging struct {
	buf []byte
	cap int
}

// NewStaging allocates a Staging buffer of at least MinStagingSize bytes.
func NewStaging(capacity int) *Staging {
	if capacity < MinStagingSize {
		capacity = MinStagingSize
	}
	return &Staging{cap: capacity}
}

// Write appends p, truncating silently once cap is reached.
func (s *Staging) Write(p []byte) (int, error) {
	room := s.cap - len(s.buf)
	if room <= 0 {
		return len(p), nil
	}
	if len(p) > room {
		p = p[:room]
	}
	s.buf = append(s.buf, p...)
	return len(p), nil
}

// Bytes returns the accumulated, possibly truncated, reply body.
func (s *Staging) Bytes() []byte { return s.buf }

// BuildResponse wraps body in the fixed HTTP/2.0-labelled envelope the
// server emits once on disconnect for every non-Raw connection.
func BuildResponse(body []byte) []byte {
	head := fmt.Sprintf(
		"HTTP/2.0 200 OK\r\n"+
			"Access-Control-Allow-Origin: *\r\n"+
			"Access-Control-Allow-Methods: GET, POST\r\n"+
			"Access-Control-Allow-Credentials: true\r\n"+
			"Content-type: text/plain\r\n"+
			"Content-Length: %d\r\n"+
			"\r\n", len(body))
	out := make([]byte, 0, len(head)+len(body))
	out = append(out, head...)
	out = append(out, body...)
	return out
}
