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

package typed_test

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eddyem/kvsock/socket/handler"
	"github.com/eddyem/kvsock/socket/typed"
)

type fakeCtx struct{ written []byte }

func (f *fakeCtx) Read(p []byte) (int, error)  { return 0, errors.New("not implemented") }
func (f *fakeCtx) Write(p []byte) (int, error) { f.written = append(f.written, p...); return len(p), nil }
func (f *fakeCtx) Close() error                { return nil }
func (f *fakeCtx) IsConnected() bool           { return true }
func (f *fakeCtx) RemoteHost() string          { return "test" }
func (f *fakeCtx) LocalHost() string           { return "test" }

var _ = Describe("IntSlot", func() {
	It("reports the current value on a bare read", func() {
		slot := typed.NewIntSlot(7)
		item := &handler.Item{Key: "count", Handler: slot.Handler()}
		ctx := &fakeCtx{}
		Expect(item.Handler(ctx, item, nil)).To(Equal(handler.Silence))
		Expect(string(ctx.written)).To(Equal("count=7\n"))
	})

	It("accepts a valid integer assignment", func() {
		slot := typed.NewIntSlot(0)
		item := &handler.Item{Key: "count", Handler: slot.Handler()}
		v := "42"
		Expect(item.Handler(&fakeCtx{}, item, &v)).To(Equal(handler.OK))
		got, _ := slot.Get()
		Expect(got).To(Equal(int64(42)))
	})

	It("rejects a non-integer assignment", func() {
		slot := typed.NewIntSlot(0)
		item := &handler.Item{Key: "count", Handler: slot.Handler()}
		v := "not-a-number"
		Expect(item.Handler(&fakeCtx{}, item, &v)).To(Equal(handler.BadVal))
	})
})

var _ = Describe("DoubleSlot", func() {
	It("reports the current value on a bare read", func() {
		slot := typed.NewDoubleSlot(36.6)
		item := &handler.Item{Key: "temp", Handler: slot.Handler()}
		ctx := &fakeCtx{}
		Expect(item.Handler(ctx, item, nil)).To(Equal(handler.Silence))
		Expect(string(ctx.written)).To(Equal("temp=36.6\n"))
	})

	It("accepts a valid float assignment", func() {
		slot := typed.NewDoubleSlot(0)
		item := &handler.Item{Key: "temp", Handler: slot.Handler()}
		v := "36.6"
		Expect(item.Handler(&fakeCtx{}, item, &v)).To(Equal(handler.OK))
		got, _ := slot.Get()
		Expect(got).To(Equal(36.6))
	})

	It("rejects a malformed float", func() {
		slot := typed.NewDoubleSlot(0)
		item := &handler.Item{Key: "temp", Handler: slot.Handler()}
		v := "abc"
		Expect(item.Handler(&fakeCtx{}, item, &v)).To(Equal(handler.BadVal))
	})
})

var _ = Describe("StringSlot", func() {
	It("reports the current value on a bare read", func() {
		slot := typed.NewStringSlot("hello")
		item := &handler.Item{Key: "label", Handler: slot.Handler()}
		ctx := &fakeCtx{}
		Expect(item.Handler(ctx, item, nil)).To(Equal(handler.Silence))
		Expect(string(ctx.written)).To(Equal("label=hello\n"))
	})

	It("accepts a short string assignment", func() {
		slot := typed.NewStringSlot("")
		item := &handler.Item{Key: "label", Handler: slot.Handler()}
		v := "hello"
		Expect(item.Handler(&fakeCtx{}, item, &v)).To(Equal(handler.OK))
		got, _ := slot.Get()
		Expect(got).To(Equal("hello"))
	})

	It("rejects a value longer than 127 bytes", func() {
		slot := typed.NewStringSlot("")
		item := &handler.Item{Key: "label", Handler: slot.Handler()}
		v := strings.Repeat("x", 128)
		Expect(item.Handler(&fakeCtx{}, item, &v)).To(Equal(handler.BadVal))
	})
})
