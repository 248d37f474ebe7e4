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

package cfgload_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eddyem/kvsock/cfgload"
)

var _ = Describe("Load", func() {
	It("parses a YAML config file into File", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "kvsockd.yaml")
		Expect(os.WriteFile(path, []byte("node: \":7777\"\nmaxclients: 64\nverbose: true\n"), 0o644)).To(Succeed())

		f, n, err := cfgload.Load(path, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(f.Node).To(Equal(":7777"))
		Expect(f.MaxClients).To(Equal(64))
		Expect(f.Verbose).To(BeTrue())
		Expect(n).To(Equal(3))
	})

	It("fails for a missing file", func() {
		_, _, err := cfgload.Load("/nonexistent/kvsockd.yaml", nil)
		Expect(err).To(HaveOccurred())
	})
})
