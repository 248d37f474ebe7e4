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

// Package logger is a structured leveled logger: a logrus engine underneath,
// a colorable stdout hook, and an optional file hook, matching spec.md §6's
// Logger collaborator ("CreateLog(path, level, prefix_flag)" /
// "PutLog(with_timestamp, log, level, fmt, ...)") without the teacher
// library's gorm/gin/syslog/jwalterweatherman integrations this core has no
// use for.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
)

// Logger is safe for concurrent use; every field access goes through mu so a
// client goroutine's Warn and the main goroutine's SetLevel never race.
type Logger struct {
	mu     sync.RWMutex
	log    *logrus.Logger
	fields Fields
	file   *os.File
}

// New builds a Logger at lvl writing color-capable text to stdout. If
// logfile is non-empty, records are additionally appended to that path
// (created with 0644 if missing), matching the Logger collaborator's
// "advisory file-range locking around each write" contract via the file's
// own append-mode atomicity rather than an explicit flock, since Go's
// stdlib has no portable flock primitive and a single-process logger needs
// none.
func New(lvl Level, logfile string) (*Logger, error) {
	l := logrus.New()
	l.SetLevel(lvl.logrus())
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetOutput(colorable.NewColorableStdout())

	lg := &Logger{log: l}

	if logfile != "" {
		f, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		lg.file = f
		l.AddHook(&fileHook{level: lvl.logrus(), out: f})
	}

	return lg, nil
}

// Close releases the file handle backing the file hook, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// SetLevel changes the minimum level the logger's hooks act on.
func (l *Logger) SetLevel(lvl Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.log.SetLevel(lvl.logrus())
}

// GetLevel returns the logger's current minimum level.
func (l *Logger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	switch l.log.GetLevel() {
	case logrus.DebugLevel:
		return DebugLevel
	case logrus.InfoLevel:
		return InfoLevel
	case logrus.WarnLevel:
		return WarnLevel
	case logrus.ErrorLevel:
		return ErrLevel
	default:
		return NilLevel
	}
}

// SetFields replaces the logger's standing fields, merged into every record
// emitted afterward.
func (l *Logger) SetFields(f Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fields = f
}

// GetFields returns the logger's current standing fields.
func (l *Logger) GetFields() Fields {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.fields
}

func (l *Logger) entry(extra Fields) *logrus.Entry {
	l.mu.RLock()
	fields := l.fields.merge(extra)
	e := l.log
	l.mu.RUnlock()
	lf := make(logrus.Fields, len(fields))
	for k, v := range fields {
		lf[k] = v
	}
	return e.WithFields(lf)
}

func (l *Logger) Debug(msg string, fields Fields, args ...interface{}) {
	l.entry(fields).Debugf(msg, args...)
}

func (l *Logger) Info(msg string, fields Fields, args ...interface{}) {
	l.entry(fields).Infof(msg, args...)
}

func (l *Logger) Warning(msg string, fields Fields, args ...interface{}) {
	l.entry(fields).Warnf(msg, args...)
}

func (l *Logger) Error(msg string, fields Fields, args ...interface{}) {
	l.entry(fields).Errorf(msg, args...)
}

// Write implements io.Writer so a Logger can back a standard *log.Logger
// (e.g. for third-party code expecting one). Each write is logged at the
// logger's current minimum level (GetLevel).
func (l *Logger) Write(p []byte) (int, error) {
	l.entry(nil).Log(l.GetLevel().logrus(), string(p))
	return len(p), nil
}

var _ io.Writer = (*Logger)(nil)
