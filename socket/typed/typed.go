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

// Package typed provides the built-in int64/double/string variable handlers:
// a bare read (no '=value') reports the current value, and an assignment
// parses, validates, and stores it along with the wall-clock time of the
// write.
package typed

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/eddyem/kvsock/socket"
	"github.com/eddyem/kvsock/socket/handler"
)

const maxStringLen = 127

// IntSlot backs an int64 variable exposed through its Handler method.
type IntSlot struct {
	mu        sync.RWMutex
	val       int64
	timestamp float64
}

// NewIntSlot constructs a slot holding the given initial value.
func NewIntSlot(initial int64) *IntSlot {
	return &IntSlot{val: initial, timestamp: nowUnix()}
}

// Get returns the current value and the time of its last update.
func (s *IntSlot) Get() (int64, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.val, s.timestamp
}

// Set stores v and stamps the current time.
func (s *IntSlot) Set(v int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.val = v
	s.timestamp = nowUnix()
}

// Handler returns the command-table Func reading/writing this slot.
func (s *IntSlot) Handler() handler.Func {
	return func(ctx socket.Context, item *handler.Item, value *string) handler.Result {
		if value == nil {
			v, _ := s.Get()
			_, _ = ctx.Write([]byte(fmt.Sprintf("%s=%d\n", item.Key, v)))
			return handler.Silence
		}
		v, err := strconv.ParseInt(*value, 10, 64)
		if err != nil {
			return handler.BadVal
		}
		s.Set(v)
		return handler.OK
	}
}

// DoubleSlot backs a float64 variable exposed through its Handler method.
type DoubleSlot struct {
	mu        sync.RWMutex
	val       float64
	timestamp float64
}

// NewDoubleSlot constructs a slot holding the given initial value.
func NewDoubleSlot(initial float64) *DoubleSlot {
	return &DoubleSlot{val: initial, timestamp: nowUnix()}
}

// Get returns the current value and the time of its last update.
func (s *DoubleSlot) Get() (float64, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.val, s.timestamp
}

// Set stores v and stamps the current time.
func (s *DoubleSlot) Set(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.val = v
	s.timestamp = nowUnix()
}

// Handler returns the command-table Func reading/writing this slot.
func (s *DoubleSlot) Handler() handler.Func {
	return func(ctx socket.Context, item *handler.Item, value *string) handler.Result {
		if value == nil {
			v, _ := s.Get()
			_, _ = ctx.Write([]byte(fmt.Sprintf("%s=%g\n", item.Key, v)))
			return handler.Silence
		}
		v, err := strconv.ParseFloat(*value, 64)
		if err != nil {
			return handler.BadVal
		}
		s.Set(v)
		return handler.OK
	}
}

// StringSlot backs a short string variable exposed through its Handler method.
type StringSlot struct {
	mu        sync.RWMutex
	val       string
	timestamp float64
}

// NewStringSlot constructs a slot holding the given initial value.
func NewStringSlot(initial string) *StringSlot {
	return &StringSlot{val: initial, timestamp: nowUnix()}
}

// Get returns the current value and the time of its last update.
func (s *StringSlot) Get() (string, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.val, s.timestamp
}

// Set stores v and stamps the current time, if v fits within maxStringLen.
func (s *StringSlot) Set(v string) bool {
	if len(v) > maxStringLen {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.val = v
	s.timestamp = nowUnix()
	return true
}

// Handler returns the command-table Func reading/writing this slot.
func (s *StringSlot) Handler() handler.Func {
	return func(ctx socket.Context, item *handler.Item, value *string) handler.Result {
		if value == nil {
			v, _ := s.Get()
			_, _ = ctx.Write([]byte(item.Key + "=" + v + "\n"))
			return handler.Silence
		}
		if !s.Set(*value) {
			return handler.BadVal
		}
		return handler.OK
	}
}

func nowUnix() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}
