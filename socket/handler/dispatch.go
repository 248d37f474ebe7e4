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

package handler

import (
	"math"
	"strconv"

	"github.com/eddyem/kvsock/socket"
)

const helpKey = "help"

// Dispatch runs the full command grammar against one line: parse, then
// match exact, then indexed, then the table's default handler.
func Dispatch(ctx socket.Context, t *Table, line string) Result {
	key, value, n := ParseLine(line)
	if n == 0 {
		return Silence
	}

	if key == helpKey {
		_, _ = ctx.Write([]byte(t.Help()))
		return Silence
	}

	var valuePtr *string
	if n == 2 {
		valuePtr = &value
	}

	if it := t.lookupExact(key); it != nil {
		return it.Handler(ctx, it, valuePtr)
	}

	if it, idx, ok := matchIndexed(t, key); ok {
		it.Indexed.Index = idx
		return it.Handler(ctx, it, valuePtr)
	}

	if t.Default != nil {
		return t.Default(ctx, nil, valuePtr)
	}
	return BadKey
}

// matchIndexed peels an integer suffix off key in the preferred order
// key(n), key[n], key{n}, keyN and finds a registered indexed Item whose
// Key equals the stripped prefix.
func matchIndexed(t *Table, key string) (*Item, int, bool) {
	for _, pair := range []struct{ open, close byte }{{'(', ')'}, {'[', ']'}, {'{', '}'}} {
		if prefix, idx, ok := peelBracketed(key, pair.open, pair.close); ok {
			if it := t.lookupIndexed(prefix); it != nil {
				return it, idx, true
			}
		}
	}
	if prefix, idx, ok := peelBareSuffix(key); ok {
		if it := t.lookupIndexed(prefix); it != nil {
			return it, idx, true
		}
	}
	return nil, 0, false
}

func peelBracketed(key string, open, close byte) (prefix string, idx int, ok bool) {
	if len(key) < 3 || key[len(key)-1] != close {
		return "", 0, false
	}
	o := -1
	for i := len(key) - 2; i >= 0; i-- {
		if key[i] == open {
			o = i
			break
		}
		if key[i] < '0' || key[i] > '9' {
			return "", 0, false
		}
	}
	if o < 0 || o == 0 {
		return "", 0, false
	}
	digits := key[o+1 : len(key)-1]
	n, err := parseNonNegInt(digits)
	if err != nil {
		return "", 0, false
	}
	return key[:o], n, true
}

func peelBareSuffix(key string) (prefix string, idx int, ok bool) {
	i := len(key)
	for i > 0 && key[i-1] >= '0' && key[i-1] <= '9' {
		i--
	}
	if i == len(key) || i == 0 {
		return "", 0, false
	}
	n, err := parseNonNegInt(key[i:])
	if err != nil {
		return "", 0, false
	}
	return key[:i], n, true
}

func parseNonNegInt(s string) (int, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 || n > math.MaxInt32 {
		return 0, strconv.ErrRange
	}
	return int(n), nil
}
