// Package testt (for "test tools") provides a couple of useful
// helpers for common test patterns, as an optional companion to the
// assert/check packages.
package testt

import (
	"context"
	"testing"
	"time"
)

// Context creates a context and attaches its cancellation to the test
// cleanup, which runs after the test function's defers.
func Context(t testing.TB) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

// ContextWithTimeout creates a context with the specified timeout and
// attaches its cancellation to the test cleanup.
func ContextWithTimeout(t testing.TB, dur time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), dur)
	t.Cleanup(cancel)
	return ctx
}

// Log calls t.Log with the given arguments only if the test has
// failed.
func Log(t testing.TB, args ...any) {
	t.Helper()
	if t.Failed() {
		t.Log(args...)
	}
}

// Logf calls t.Logf with the given arguments only if the test has
// failed.
func Logf(t testing.TB, format string, args ...any) {
	t.Helper()
	if t.Failed() {
		t.Logf(format, args...)
	}
}
