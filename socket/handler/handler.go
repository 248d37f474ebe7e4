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

// Package handler implements the key/value command grammar: splitting a
// line into key and value tokens, matching it against a registered handler
// table (exact, then indexed, then default), and mapping handler results to
// their canonical reply text.
package handler

import (
	"fmt"

	"github.com/eddyem/kvsock/socket"
)

// Result is a handler's outcome, mapped to a canonical wire reply.
type Result uint8

const (
	OK Result = iota
	Fail
	BadKey
	BadVal
	Silence
)

// Text renders r as the bytes written to the wire; Silence renders as "".
func (r Result) Text() string {
	switch r {
	case OK:
		return "OK\n"
	case Fail:
		return "FAIL\n"
	case BadKey:
		return "BADKEY\n"
	case BadVal:
		return "BADVAL\n"
	default:
		return ""
	}
}

func (r Result) String() string {
	switch r {
	case OK:
		return "OK"
	case Fail:
		return "FAIL"
	case BadKey:
		return "BadKey"
	case BadVal:
		return "BadVal"
	default:
		return "Silence"
	}
}

// Func is invoked once a line has been matched to an Item. value is nil
// when the line carried no "=value" part.
type Func func(ctx socket.Context, item *Item, value *string) Result

// Indexed marks an Item as accepting the key[n]/key(n)/key{n}/keyN forms.
// Index is overwritten with the parsed suffix immediately before Handler
// runs; concurrent matches against the same Item race on it exactly as the
// single shared C global did, so a handler that cares must copy Index out
// before yielding.
type Indexed struct {
	Index int
}

// Item is one registered key: its handler, its help text, and whether it
// accepts an indexed suffix.
type Item struct {
	Key     string
	Help    string
	Handler Func
	Indexed *Indexed
}

// Table is an ordered list of registered Items plus an optional default
// handler invoked when no entry matches.
type Table struct {
	Items   []*Item
	Default Func
}

// Add registers a plain, non-indexed key.
func (t *Table) Add(key, help string, fn Func) *Item {
	it := &Item{Key: key, Help: help, Handler: fn}
	t.Items = append(t.Items, it)
	return it
}

// AddIndexed registers a key that also accepts key[n]/key(n)/key{n}/keyN.
func (t *Table) AddIndexed(key, help string, fn Func) *Item {
	it := &Item{Key: key, Help: help, Handler: fn, Indexed: &Indexed{}}
	t.Items = append(t.Items, it)
	return it
}

// lookupExact returns the Item whose Key matches key exactly.
func (t *Table) lookupExact(key string) *Item {
	for _, it := range t.Items {
		if it.Key == key {
			return it
		}
	}
	return nil
}

// lookupIndexed returns the indexed-capable Item whose Key matches prefix.
func (t *Table) lookupIndexed(prefix string) *Item {
	for _, it := range t.Items {
		if it.Indexed != nil && it.Key == prefix {
			return it
		}
	}
	return nil
}

// Help renders every Item's "key: help" pair, one per line, preceded by the
// "Help:" banner and followed by a blank line, matching the wire format the
// raw-protocol "help" key streams.
func (t *Table) Help() string {
	s := "\nHelp:\n"
	for _, it := range t.Items {
		s += fmt.Sprintf("%s: %s\n", it.Key, it.Help)
	}
	s += "\n"
	return s
}
