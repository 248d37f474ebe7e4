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

// Package duration wraps time.Duration with a days-aware string form and
// YAML (de)serialization, for configuration fields like a connection's idle
// timeout that read more naturally as "30s" or "1d" than as a raw integer.
package duration

import (
	"fmt"
	"strings"
	"time"
)

type Duration time.Duration

// Parse parses a duration string. It accepts everything time.ParseDuration
// does, plus a leading day count ("1d2h3m4s"); surrounding quotes are
// stripped first so values copied straight out of a config file parse
// cleanly.
func Parse(s string) (Duration, error) {
	s = strings.Trim(s, `"'`)

	days, rest := int64(0), s
	if idx := strings.IndexByte(s, 'd'); idx >= 0 {
		if n, err := parseLeadingInt(s[:idx]); err == nil {
			days = n
			rest = s[idx+1:]
		}
	}

	var sub time.Duration
	if rest != "" {
		d, err := time.ParseDuration(rest)
		if err != nil {
			return 0, err
		}
		sub = d
	}

	return Duration(time.Duration(days)*24*time.Hour + sub), nil
}

func parseLeadingInt(s string) (int64, error) {
	var n int64
	if s == "" {
		return 0, fmt.Errorf("duration: invalid day count %q", s)
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("duration: invalid day count %q", s)
		}
		n = n*10 + int64(c-'0')
	}
	return n, nil
}

// Seconds returns a Duration of i seconds.
func Seconds(i int64) Duration { return Duration(time.Duration(i) * time.Second) }

// Minutes returns a Duration of i minutes.
func Minutes(i int64) Duration { return Duration(time.Duration(i) * time.Minute) }

// Days returns a Duration of i days.
func Days(i int64) Duration { return Duration(time.Duration(i) * 24 * time.Hour) }

// FromTime converts a time.Duration to a Duration unchanged.
func FromTime(d time.Duration) Duration { return Duration(d) }

// Time returns the time.Duration this Duration wraps.
func (d Duration) Time() time.Duration { return time.Duration(d) }

// Days returns the whole number of 24h days in d.
func (d Duration) Days() int64 {
	return int64(d.Time() / (24 * time.Hour))
}

// String renders d as a whole-day count "Nd" followed by time.Duration's own
// form of the remainder (e.g. "1d30m0s"), omitting the day component when
// zero and the remainder when it is exactly zero.
func (d Duration) String() string {
	n := d.Days()
	rest := d.Time() - time.Duration(n)*24*time.Hour

	if n == 0 {
		return rest.String()
	}
	if rest == 0 {
		return fmt.Sprintf("%dd", n)
	}
	return fmt.Sprintf("%dd%s", n, rest.String())
}
