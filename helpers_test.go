// helpers_test.go: Shared fixtures for params tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// logRecorder is a slog.Handler keeping the messages it receives.
type logRecorder struct {
	mu       sync.Mutex
	messages []string
	levels   []slog.Level
}

func (r *logRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *logRecorder) Handle(_ context.Context, rec slog.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, rec.Message)
	r.levels = append(r.levels, rec.Level)
	return nil
}

func (r *logRecorder) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *logRecorder) WithGroup(string) slog.Handler      { return r }

// contains reports whether any recorded message contains substr.
func (r *logRecorder) contains(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

// count returns the number of records logged at level.
func (r *logRecorder) count(level slog.Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, l := range r.levels {
		if l == level {
			n++
		}
	}
	return n
}

func (r *logRecorder) all() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.messages, "\n")
}

// recordLogs routes library diagnostics to a recorder for the duration of t.
func recordLogs(t *testing.T) *logRecorder {
	t.Helper()
	rec := &logRecorder{}
	SetLogger(slog.New(rec))
	t.Cleanup(func() { SetLogger(nil) })
	return rec
}

// withApplicationName sets the application name for the duration of t.
func withApplicationName(t *testing.T, name string) {
	t.Helper()
	prev := ApplicationName()
	SetApplicationName(name)
	t.Cleanup(func() { SetApplicationName(prev) })
}
