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
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eddyem/kvsock/socket"
	"github.com/eddyem/kvsock/socket/handler"
)

// fakeCtx is a minimal socket.Context test double that records writes.
type fakeCtx struct {
	written []byte
}

func (f *fakeCtx) Read(p []byte) (int, error)  { return 0, errors.New("not implemented") }
func (f *fakeCtx) Write(p []byte) (int, error) { f.written = append(f.written, p...); return len(p), nil }
func (f *fakeCtx) Close() error                { return nil }
func (f *fakeCtx) IsConnected() bool           { return true }
func (f *fakeCtx) RemoteHost() string          { return "test" }
func (f *fakeCtx) LocalHost() string           { return "test" }

var _ = Describe("Dispatch", func() {
	var tbl *handler.Table

	BeforeEach(func() {
		tbl = &handler.Table{}
		tbl.Add("ping", "respond pong", func(_ socket.Context, _ *handler.Item, _ *string) handler.Result {
			return handler.OK
		})
	})

	It("returns Silence for an empty line", func() {
		ctx := &fakeCtx{}
		Expect(handler.Dispatch(ctx, tbl, "")).To(Equal(handler.Silence))
	})

	It("streams help text and returns Silence for the help key", func() {
		ctx := &fakeCtx{}
		Expect(handler.Dispatch(ctx, tbl, "help")).To(Equal(handler.Silence))
		Expect(string(ctx.written)).To(ContainSubstring("ping: respond pong"))
	})

	It("dispatches an exact key match", func() {
		ctx := &fakeCtx{}
		Expect(handler.Dispatch(ctx, tbl, "ping")).To(Equal(handler.OK))
	})

	It("returns BadKey when nothing matches and there is no default", func() {
		ctx := &fakeCtx{}
		Expect(handler.Dispatch(ctx, tbl, "nosuch")).To(Equal(handler.BadKey))
	})

	It("falls back to the default handler when installed", func() {
		tbl.Default = func(_ socket.Context, _ *handler.Item, _ *string) handler.Result {
			return handler.Fail
		}
		ctx := &fakeCtx{}
		Expect(handler.Dispatch(ctx, tbl, "nosuch")).To(Equal(handler.Fail))
	})

	Context("indexed keys", func() {
		var gotIdx int

		BeforeEach(func() {
			tbl.AddIndexed("chan", "per-channel value", func(_ socket.Context, item *handler.Item, _ *string) handler.Result {
				gotIdx = item.Indexed.Index
				return handler.OK
			})
		})

		It("matches the key(n) form", func() {
			ctx := &fakeCtx{}
			Expect(handler.Dispatch(ctx, tbl, "chan(3)")).To(Equal(handler.OK))
			Expect(gotIdx).To(Equal(3))
		})

		It("matches the key[n] form", func() {
			ctx := &fakeCtx{}
			Expect(handler.Dispatch(ctx, tbl, "chan[7]")).To(Equal(handler.OK))
			Expect(gotIdx).To(Equal(7))
		})

		It("matches the key{n} form", func() {
			ctx := &fakeCtx{}
			Expect(handler.Dispatch(ctx, tbl, "chan{2}")).To(Equal(handler.OK))
			Expect(gotIdx).To(Equal(2))
		})

		It("matches the bare keyN form", func() {
			ctx := &fakeCtx{}
			Expect(handler.Dispatch(ctx, tbl, "chan9")).To(Equal(handler.OK))
			Expect(gotIdx).To(Equal(9))
		})

		It("does not match when the bracketed digits are absent", func() {
			ctx := &fakeCtx{}
			Expect(handler.Dispatch(ctx, tbl, "chan()")).To(Equal(handler.BadKey))
		})
	})
})
