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

import "strings"

// MaxKeyLen and MaxValLen bound the key/value tokens ParseLine produces,
// matching the original SL_KEY_LEN/SL_VAL_LEN truncation lengths.
const (
	MaxKeyLen = 31
	MaxValLen = 127
)

const commentChar = '#'

// ParseLine splits one command line into a key and an optional value.
//
// It returns n = 0 for an empty or comment-only line (key/value are both
// empty), n = 1 for a key with no value, and n = 2 for a key and value.
func ParseLine(line string) (key, value string, n int) {
	s := trimLeadingSpace(line)
	if s == "" || s[0] == commentChar {
		return "", "", 0
	}

	eq := strings.IndexByte(s, '=')
	if cmnt := strings.IndexByte(s, commentChar); cmnt >= 0 && eq >= 0 && cmnt < eq {
		eq = -1
	}
	if eq == 0 {
		return "", "", 0
	}

	var keyPart string
	if eq < 0 {
		keyPart = s
	} else {
		keyPart = s[:eq]
		value, n = parseValue(s[eq+1:])
	}

	key = firstWord(keyPart)
	if len(key) > MaxKeyLen {
		key = key[:MaxKeyLen]
	}
	if idx := strings.IndexByte(key, commentChar); idx >= 0 {
		key = key[:idx]
	}

	if n == 0 {
		if key == "" {
			return "", "", 0
		}
		return key, "", 1
	}
	return key, value, 2
}

// parseValue trims, truncates, strips a trailing inline comment, and
// removes outermost quote pairs from the raw value substring after "=".
func parseValue(raw string) (value string, n int) {
	v := trimSpace(raw)
	if v == "" {
		return "", 0
	}
	if len(v) > MaxValLen {
		v = v[:MaxValLen]
	}
	if idx := strings.IndexByte(v, commentChar); idx >= 0 {
		v = trimTrailingSpace(v[:idx])
	}
	if v == "" {
		return "", 0
	}
	return removeQuotes(v), 2
}

// removeQuotes strips matching outermost ' or " pairs, as many as nest.
func removeQuotes(s string) string {
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first != last || (first != '\'' && first != '"') {
			break
		}
		s = s[1 : len(s)-1]
	}
	return s
}

func firstWord(s string) string {
	s = trimLeadingSpace(s)
	if idx := strings.IndexAny(s, " \t\r\n"); idx >= 0 {
		return s[:idx]
	}
	return s
}

func trimLeadingSpace(s string) string {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return s[i:]
}

func trimTrailingSpace(s string) string {
	i := len(s)
	for i > 0 && isSpace(s[i-1]) {
		i--
	}
	return s[:i]
}

func trimSpace(s string) string {
	return trimTrailingSpace(trimLeadingSpace(s))
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
