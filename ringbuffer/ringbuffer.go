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

// Package ringbuffer implements a fixed-capacity, mutex-guarded circular byte
// FIFO used as the per-connection line-reassembly buffer for the socket
// package. One slot is always reserved so a full buffer can be told apart
// from an empty one without a separate flag.
package ringbuffer

import (
	"errors"
	"sync"
)

// MinCapacity is the smallest capacity New will honor; smaller requests are
// clamped up to it.
const MinCapacity = 256

// ErrTruncated is returned by ReadTo/ReadLine when the delimited segment
// would not fit in the caller-supplied buffer.
var ErrTruncated = errors.New("ringbuffer: line exceeds destination buffer")

// Buffer is a circular byte queue of fixed capacity. The zero value is not
// usable; construct one with New. All methods are safe for concurrent use.
type Buffer struct {
	mu   sync.Mutex
	data []byte
	head int
	tail int
}

// New allocates a Buffer able to hold capacity-1 bytes (one slot is reserved
// to disambiguate full from empty). capacity is clamped up to MinCapacity.
func New(capacity int) *Buffer {
	if capacity < MinCapacity {
		capacity = MinCapacity
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Delete clears b's storage. It exists to mirror the teacher library's
// explicit lifecycle calls; in Go the backing array is reclaimed by the
// garbage collector once the Buffer is no longer reachable, so Delete only
// needs to reset state for any caller still holding the pointer.
func (b *Buffer) Delete() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = nil
	b.head, b.tail = 0, 0
}

func (b *Buffer) dataLen() int {
	if b.tail >= b.head {
		return b.tail - b.head
	}
	return len(b.data) - b.head + b.tail
}

// DataLen returns the number of bytes currently queued.
func (b *Buffer) DataLen() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dataLen()
}

// FreeSize returns how many more bytes can be accepted before the buffer is
// full (capacity - 1 - DataLen, since one slot is always reserved).
func (b *Buffer) FreeSize() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data) - 1 - b.dataLen()
}

// Cap returns the externally usable capacity (allocated size minus the one
// reserved slot).
func (b *Buffer) Cap() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data) - 1
}

func incr(length int, what int, n int) int {
	what += n
	if what >= length {
		what -= length
	}
	return what
}

// hasByte returns the absolute index of the first occurrence of c scanning
// from head toward tail (wrapping once), or -1 if c is not present. Caller
// must hold mu.
func (b *Buffer) hasByte(c byte) int {
	if b.head == b.tail {
		return -1
	}
	start := b.head
	if b.head > b.tail {
		for i := b.head; i < len(b.data); i++ {
			if b.data[i] == c {
				return i
			}
		}
		start = 0
	}
	for i := start; i < b.tail; i++ {
		if b.data[i] == c {
			return i
		}
	}
	return -1
}

// HasByte reports the index into the backing storage of the first
// occurrence of c in FIFO order. found is false both when the buffer holds
// no data and when c is not present; the two cases are not distinguished.
func (b *Buffer) HasByte(c byte) (pos int, found bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.hasByte(c)
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// read copies up to len(dst) bytes starting at head and advances head.
// Caller must hold mu.
func (b *Buffer) read(dst []byte) int {
	l := b.dataLen()
	if l == 0 {
		return 0
	}
	if l > len(dst) {
		l = len(dst)
	}
	first := len(b.data) - b.head
	if first > l {
		first = l
	}
	copy(dst, b.data[b.head:b.head+first])
	if first < l {
		copy(dst[first:], b.data[:l-first])
	}
	b.head = incr(len(b.data), b.head, l)
	return l
}

// Read copies up to min(DataLen, len(dst)) bytes into dst and removes them
// from the buffer, returning the number of bytes copied.
func (b *Buffer) Read(dst []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.read(dst)
}

// ReadTo copies the segment up to and including the first occurrence of
// delim into dst. If that segment is longer than len(dst) it returns
// ErrTruncated and leaves the buffer unchanged. If delim is not present it
// returns (0, nil).
func (b *Buffer) ReadTo(delim byte, dst []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := b.hasByte(delim)
	if idx < 0 {
		return 0, nil
	}
	partLen := idx + 1 - b.head
	if idx < b.head {
		partLen += len(b.data)
	}
	if partLen > len(dst) {
		return 0, ErrTruncated
	}
	return b.read(dst[:partLen]), nil
}

// ReadLine behaves like ReadTo with delim '\n', except the trailing newline
// in the returned bytes is replaced with a 0 byte and the returned count
// excludes it. dst must have room for the terminator. Returns (0, nil) when
// no complete line is buffered yet, and also for an empty line, which is
// consumed; ErrTruncated when the line (including its newline) would not fit
// in dst.
func (b *Buffer) ReadLine(dst []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := b.hasByte('\n')
	if idx < 0 {
		return 0, nil
	}
	partLen := idx + 1 - b.head
	if idx < b.head {
		partLen += len(b.data)
	}
	if partLen > len(dst) {
		return 0, ErrTruncated
	}
	n := b.read(dst[:partLen])
	dst[n-1] = 0
	return n - 1, nil
}

// PutByte appends a single byte, failing if the buffer is full.
func (b *Buffer) PutByte(c byte) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dataLen() == len(b.data)-1 {
		return false
	}
	b.data[b.tail] = c
	b.tail = incr(len(b.data), b.tail, 1)
	return true
}

// Write appends up to FreeSize bytes of src and returns the number written;
// a short write means the buffer could not hold all of src.
func (b *Buffer) Write(src []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	room := len(b.data) - 1 - b.dataLen()
	n := len(src)
	if n > room {
		n = room
	}
	if n == 0 {
		return 0
	}
	first := len(b.data) - b.tail
	if first > n {
		first = n
	}
	copy(b.data[b.tail:b.tail+first], src[:first])
	if first < n {
		copy(b.data, src[first:n])
	}
	b.tail = incr(len(b.data), b.tail, n)
	return n
}

// WriteStr writes all of s, appending a trailing '\n' if s doesn't already
// end in one. If there isn't enough free space for the full string plus
// that newline, WriteStr writes nothing and returns 0 — partial writes are
// forbidden here so a downstream ReadLine never sees a torn line.
func (b *Buffer) WriteStr(s string) int {
	need := []byte(s)
	if len(need) == 0 || need[len(need)-1] != '\n' {
		need = append(need, '\n')
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	room := len(b.data) - 1 - b.dataLen()
	if len(need) > room {
		return 0
	}
	first := len(b.data) - b.tail
	if first > len(need) {
		first = len(need)
	}
	copy(b.data[b.tail:b.tail+first], need[:first])
	if first < len(need) {
		copy(b.data, need[first:])
	}
	b.tail = incr(len(b.data), b.tail, len(need))
	return len(need)
}

// Clear resets the buffer to empty without touching its backing storage.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head, b.tail = 0, 0
}
