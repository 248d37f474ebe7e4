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

package httpmode_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eddyem/kvsock/socket/httpmode"
)

var _ = Describe("Sniff", func() {
	It("recognises GET", func() {
		Expect(httpmode.Sniff("GET /count=1 HTTP/1.1")).To(Equal(httpmode.Get))
	})

	It("recognises POST", func() {
		Expect(httpmode.Sniff("POST / HTTP/1.1")).To(Equal(httpmode.Post))
	})

	It("falls back to Raw for an ordinary command line", func() {
		Expect(httpmode.Sniff("count=1")).To(Equal(httpmode.Raw))
	})

	It("falls back to Raw when there is no space at all", func() {
		Expect(httpmode.Sniff("GET")).To(Equal(httpmode.Raw))
	})
})

var _ = Describe("ExtractGETQuery", func() {
	It("extracts the segment between the first '/' and ' HTTP'", func() {
		q, ok := httpmode.ExtractGETQuery("GET /count=1&name=x HTTP/1.1")
		Expect(ok).To(BeTrue())
		Expect(q).To(Equal("count=1&name=x"))
	})

	It("truncates at a literal 'HTTP' token appearing inside the target", func() {
		q, ok := httpmode.ExtractGETQuery("GET /name=say HTTP loudly HTTP/1.1")
		Expect(ok).To(BeTrue())
		Expect(q).To(Equal("name=say"))
	})

	It("fails when no ' HTTP' token follows the first '/'", func() {
		_, ok := httpmode.ExtractGETQuery("GET HTTP/1.1")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("HeaderContentLength", func() {
	It("parses a Content-Length header", func() {
		n, ok := httpmode.HeaderContentLength("Content-Length: 17")
		Expect(ok).To(BeTrue())
		Expect(n).To(Equal(17))
	})

	It("ignores an unrelated header", func() {
		_, ok := httpmode.HeaderContentLength("Host: example.com")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("DecodeSegment", func() {
	It("decodes '+' as a space", func() {
		Expect(httpmode.DecodeSegment("hello+world")).To(Equal("hello world"))
	})

	It("decodes a valid %HH escape", func() {
		Expect(httpmode.DecodeSegment("100%25done")).To(Equal("100%done"))
	})

	It("passes a malformed escape through untouched", func() {
		Expect(httpmode.DecodeSegment("50%off")).To(Equal("50%off"))
	})

	It("passes a truncated escape at end of string through untouched", func() {
		Expect(httpmode.DecodeSegment("abc%2")).To(Equal("abc%2"))
	})
})

var _ = Describe("Segments", func() {
	It("splits on '&'", func() {
		Expect(httpmode.Segments("a=1&b=2")).To(Equal([]string{"a=1", "b=2"}))
	})

	It("returns nil for an empty body", func() {
		Expect(httpmode.Segments("")).To(BeNil())
	})
})

var _ = Describe("Staging", func() {
	It("accumulates writes up to capacity", func() {
		s := httpmode.NewStaging(16)
		n, err := s.Write([]byte("hello"))
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(5))
		Expect(string(s.Bytes())).To(Equal("hello"))
	})

	It("silently truncates once full rather than growing or erroring", func() {
		s := httpmode.NewStaging(httpmode.MinStagingSize)
		huge := strings.Repeat("x", httpmode.MinStagingSize+100)
		_, err := s.Write([]byte(huge))
		Expect(err).ToNot(HaveOccurred())
		Expect(len(s.Bytes())).To(Equal(httpmode.MinStagingSize))
	})

	It("clamps a too-small requested capacity up to MinStagingSize", func() {
		s := httpmode.NewStaging(10)
		_, _ = s.Write([]byte(strings.Repeat("y", httpmode.MinStagingSize+1)))
		Expect(len(s.Bytes())).To(Equal(httpmode.MinStagingSize))
	})
})

var _ = Describe("BuildResponse", func() {
	It("wraps the body in the fixed HTTP/2.0 envelope", func() {
		out := string(httpmode.BuildResponse([]byte("OK\n")))
		Expect(out).To(HavePrefix("HTTP/2.0 200 OK\r\n"))
		Expect(out).To(ContainSubstring("Content-Length: 3\r\n"))
		Expect(out).To(HaveSuffix("OK\n"))
	})
})
