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

package config_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eddyem/kvsock/duration"
	"github.com/eddyem/kvsock/socket"
	"github.com/eddyem/kvsock/socket/address"
	"github.com/eddyem/kvsock/socket/config"
)

var _ = Describe("Config.Validate", func() {
	It("fails with ErrInvalidAddress when the address is unset", func() {
		cfg := config.Config{}
		Expect(cfg.Validate()).To(MatchError(socket.ErrInvalidAddress))
	})

	It("fills in defaults for an otherwise-empty config", func() {
		cfg := config.Config{Addr: address.Address{Network: "tcp", Port: 7777}}
		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.MaxClients).To(Equal(config.DefaultMaxClients))
		Expect(cfg.BufferSize).To(Equal(socket.DefaultBufferSize))
		Expect(cfg.ConIdleTimeout).To(Equal(config.DefaultConIdleTimeout))
		Expect(cfg.DrainTimeout).To(Equal(config.DefaultDrainTimeout))
	})

	It("keeps an explicitly set idle timeout", func() {
		cfg := config.Config{
			Addr:           address.Address{Network: "tcp", Port: 7777},
			ConIdleTimeout: duration.Seconds(5),
		}
		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.ConIdleTimeout).To(Equal(duration.Seconds(5)))
	})
})
