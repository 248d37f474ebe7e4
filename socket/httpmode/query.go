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

import "strings"

// favicon is skipped entirely by the body parser (browsers probe it
// unprompted and it carries no useful key/value pairs).
const favicon = "favicon.ico"

// ExtractGETQuery pulls the raw query out of a GET request line. It finds
// the first '/' then scans forward to the literal token " HTTP", returning
// everything in between (the leading '/' is not included). ok is false if
// either anchor is missing.
//
// This deliberately does not parse the request line as a general HTTP URI:
// a request target containing a literal "HTTP" substring before the real
// version token will be truncated early, matching the original parser's
// behaviour rather than a conformant HTTP implementation.
func ExtractGETQuery(line string) (query string, ok bool) {
	slash := strings.IndexByte(line, '/')
	if slash < 0 {
		return "", false
	}
	rest := line[slash+1:]
	httpIdx := strings.Index(rest, " HTTP")
	if httpIdx < 0 {
		return "", false
	}
	return rest[:httpIdx], true
}

// HeaderContentLength scans one header line for "Content-Length: <n>",
// returning the parsed value and true on a match.
func HeaderContentLength(line string) (n int, ok bool) {
	const prefix = "Content-Length:"
	if !strings.HasPrefix(line, prefix) {
		return 0, false
	}
	v := strings.TrimSpace(line[len(prefix):])
	val := 0
	if v == "" {
		return 0, false
	}
	for _, c := range v {
		if c < '0' || c > '9' {
			return 0, false
		}
		val = val*10 + int(c-'0')
	}
	return val, true
}

// Segments splits a decoded query/body string on '&' into its raw
// (not-yet-URL-decoded) key=value segments.
func Segments(body string) []string {
	if body == "" {
		return nil
	}
	return strings.Split(body, "&")
}

// DecodeSegment URL-decodes one '&'-delimited segment in place: '+' becomes
// a space, "%HH" with two hex digits becomes the decoded byte, and any
// malformed escape (a '%' not followed by two hex digits) is left
// untouched rather than rejected.
func DecodeSegment(seg string) string {
	if strings.IndexByte(seg, '%') < 0 && strings.IndexByte(seg, '+') < 0 {
		return seg
	}
	var b strings.Builder
	b.Grow(len(seg))
	for i := 0; i < len(seg); i++ {
		switch seg[i] {
		case '+':
			b.WriteByte(' ')
		case '%':
			if i+2 < len(seg) && isHex(seg[i+1]) && isHex(seg[i+2]) {
				b.WriteByte(hexVal(seg[i+1])<<4 | hexVal(seg[i+2]))
				i += 2
			} else {
				b.WriteByte('%')
			}
		default:
			b.WriteByte(seg[i])
		}
	}
	return b.String()
}

// IsFavicon reports whether a decoded segment (or request path) is the
// favicon probe browsers send unprompted.
func IsFavicon(s string) bool {
	return strings.Contains(s, favicon)
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
