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

// Package httpmode implements the one-shot HTTP/1.x overlay that shares a
// listening port with the raw line protocol: sniffing an HTTP method verb
// on a connection's first line, accumulating headers to a blank line or a
// GET query in the request target, and synthesising the HTTP/2.0-labelled
// response the original protocol never frames at the binary level.
package httpmode

import "strings"

// Mode is the wire protocol a connection has been sniffed into.
type Mode uint8

const (
	Raw Mode = iota
	Get
	Put
	Post
	Patch
	Delete
)

func (m Mode) String() string {
	switch m {
	case Get:
		return "GET"
	case Put:
		return "PUT"
	case Post:
		return "POST"
	case Patch:
		return "PATCH"
	case Delete:
		return "DELETE"
	default:
		return "Raw"
	}
}

// IsHTTP reports whether m is any mode other than Raw.
func (m Mode) IsHTTP() bool { return m != Raw }

var verbs = map[string]Mode{
	"GET":    Get,
	"PUT":    Put,
	"POST":   Post,
	"PATCH":  Patch,
	"DELETE": Delete,
}

// Sniff examines the first line of a new connection and returns the Mode it
// implies, or Raw if no recognised verb is present. line must not include
// the trailing newline.
func Sniff(line string) Mode {
	idx := strings.IndexByte(line, ' ')
	if idx < 0 {
		return Raw
	}
	if m, ok := verbs[line[:idx]]; ok {
		return m
	}
	return Raw
}
