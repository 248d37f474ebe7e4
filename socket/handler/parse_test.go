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

package handler_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eddyem/kvsock/socket/handler"
)

var _ = Describe("ParseLine", func() {
	It("returns n=0 for an empty line", func() {
		_, _, n := handler.ParseLine("")
		Expect(n).To(Equal(0))
	})

	It("returns n=0 for a comment-only line", func() {
		_, _, n := handler.ParseLine("   # nothing here")
		Expect(n).To(Equal(0))
	})

	It("returns n=1 for a bare key", func() {
		key, value, n := handler.ParseLine("help")
		Expect(n).To(Equal(1))
		Expect(key).To(Equal("help"))
		Expect(value).To(Equal(""))
	})

	It("returns n=2 for key=value", func() {
		key, value, n := handler.ParseLine("count=42")
		Expect(n).To(Equal(2))
		Expect(key).To(Equal("count"))
		Expect(value).To(Equal("42"))
	})

	It("trims whitespace around key and value", func() {
		key, value, n := handler.ParseLine("  count  =  42  ")
		Expect(n).To(Equal(2))
		Expect(key).To(Equal("count"))
		Expect(value).To(Equal("42"))
	})

	It("strips a trailing inline comment from the value", func() {
		_, value, _ := handler.ParseLine("count=42 # the answer")
		Expect(value).To(Equal("42"))
	})

	It("strips one layer of matching quotes from the value", func() {
		_, value, _ := handler.ParseLine(`name="hello world"`)
		Expect(value).To(Equal("hello world"))
	})

	It("strips nested matching quote pairs", func() {
		_, value, _ := handler.ParseLine(`name='"hello"'`)
		Expect(value).To(Equal("hello"))
	})

	It("keeps only the first word of the key", func() {
		key, _, n := handler.ParseLine("foo bar=1")
		Expect(n).To(Equal(2))
		Expect(key).To(Equal("foo"))
	})

	It("treats '=' with nothing useful after it as key-only", func() {
		key, _, n := handler.ParseLine("count=   ")
		Expect(n).To(Equal(1))
		Expect(key).To(Equal("count"))
	})

	It("treats a comment before '=' as not an assignment", func() {
		key, _, n := handler.ParseLine("count # =7")
		Expect(n).To(Equal(1))
		Expect(key).To(Equal("count"))
	})

	It("is idempotent: reparsing the canonical form yields the same result", func() {
		key1, value1, n1 := handler.ParseLine(`  name = "hello world" # trailer`)
		canon := key1 + "=" + value1
		key2, value2, n2 := handler.ParseLine(canon)
		Expect(n1).To(Equal(n2))
		Expect(key1).To(Equal(key2))
		Expect(value1).To(Equal(value2))
	})
})
