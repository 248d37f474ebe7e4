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

// Package cfgload reads the optional config file spec.md's Config loader
// collaborator names: a viper-bound file resolved against the same flag
// names cmd/kvsockd registers with cobra, "equivalent to a second ParseArgs
// call" (spec.md §6).
package cfgload

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eddyem/kvsock/errkind"
)

// File describes the subset of kvsockd's flags a config file may set.
// Fields left at their zero value were not present in the file.
type File struct {
	Node       string `mapstructure:"node"`
	Server     bool   `mapstructure:"server"`
	UnixSock   bool   `mapstructure:"unixsock"`
	MaxClients int    `mapstructure:"maxclients"`
	Verbose    bool   `mapstructure:"verbose"`
	LogFile    string `mapstructure:"logfile"`
}

// Load reads path (YAML, TOML, or JSON, sniffed by viper from its extension)
// and binds it against flags, so a flag explicitly set on the command line
// always wins over the file. It returns the number of keys the file
// actually set, mirroring the original ParseArgs return-count contract.
func Load(path string, flags *pflag.FlagSet) (File, int, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return File{}, 0, errkind.Wrap(errkind.Config, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return File{}, 0, errkind.Wrap(errkind.Config, err)
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return File{}, 0, errkind.Wrap(errkind.Config, err)
	}

	n := 0
	for _, k := range v.AllKeys() {
		if v.InConfig(k) {
			n++
		}
	}
	return f, n, nil
}
