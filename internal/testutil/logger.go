// Package testutil provides shared helpers for tests: a logger bound to the
// test and small parsers for Server-Sent Event bodies.
package testutil

import (
	"log/slog"
	"testing"
)

// NewTestLogger returns a debug-level logger that writes through t.Log, so
// output only shows for failing tests or with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(logWriter{t: t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type logWriter struct {
	t testing.TB
}

func (w logWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
