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

// Package errkind classifies the failure taxonomy the core distinguishes:
// which errors are local to one client and which are fatal to the server or
// the process.
package errkind

import (
	"errors"
	"fmt"
)

// Kind is a coarse failure category, not a specific error identity.
type Kind uint8

const (
	// Transient is a client I/O error recovered by disconnecting that
	// client; the server keeps running.
	Transient Kind = iota
	// Overflow is a ring-buffer capacity violation (an overlong line).
	Overflow
	// Parse is a command-grammar failure; the connection survives and the
	// caller replies BadKey/BadVal.
	Parse
	// OOM is an allocation failure; fatal to the process.
	OOM
	// Listener is an accept-loop failure; fatal to the server goroutine,
	// the rest of the process survives.
	Listener
	// Config is malformed CLI or config-file input; fatal before the core
	// starts.
	Config
)

func (k Kind) String() string {
	switch k {
	case Transient:
		return "transient"
	case Overflow:
		return "overflow"
	case Parse:
		return "parse"
	case OOM:
		return "oom"
	case Listener:
		return "listener"
	case Config:
		return "config"
	default:
		return "unknown"
	}
}

// Fatal reports whether errors of this Kind should terminate the process
// (OOM), just the listener goroutine (Listener), or startup before the core
// runs (Config), rather than one client.
func (k Kind) Fatal() bool {
	return k == OOM || k == Listener || k == Config
}

// kindError pairs a Kind with its causal error, supporting errors.Is/As
// through Unwrap.
type kindError struct {
	kind  Kind
	cause error
}

func (e *kindError) Error() string {
	if e.cause == nil {
		return e.kind.String()
	}
	return fmt.Sprintf("%s: %s", e.kind, e.cause)
}

func (e *kindError) Unwrap() error { return e.cause }

// Wrap annotates cause with kind. Wrap(k, nil) returns nil, so callers can
// write `return errkind.Wrap(errkind.Transient, err)` unconditionally.
func Wrap(kind Kind, cause error) error {
	if cause == nil {
		return nil
	}
	return &kindError{kind: kind, cause: cause}
}

// Is reports whether err (or anything it wraps) was classified as kind.
func Is(err error, kind Kind) bool {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind == kind
	}
	return false
}

// KindOf returns the Kind err was wrapped with, and false if err was never
// wrapped by this package.
func KindOf(err error) (Kind, bool) {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind, true
	}
	return 0, false
}
