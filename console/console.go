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

// Package console implements the "no-echo console helpers" spec.md names
// only at the interface: a line prompt echoed to the terminal, and a
// password-style prompt that is not.
package console

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Prompt is the color used for a visible prompt's label.
var Prompt = color.New(color.FgCyan, color.Bold)

// PromptString prints label (if non-empty) and reads one line from stdin,
// echoed normally.
func PromptString(label string) (string, error) {
	if label != "" {
		_, _ = Prompt.Printf("%s: ", label)
	}
	scn := bufio.NewScanner(os.Stdin)
	if !scn.Scan() {
		return "", scn.Err()
	}
	return scn.Text(), nil
}

// PromptInt reads a line and parses it as a base-10 int64.
func PromptInt(label string) (int64, error) {
	s, err := PromptString(label)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(s, 10, 64)
}

// PromptSecret prints label and reads one line from the controlling
// terminal without echoing keystrokes, for entering a shared secret before
// dialing an admin command into the server.
func PromptSecret(label string) (string, error) {
	if label != "" {
		_, _ = Prompt.Printf("%s: ", label)
	}
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
