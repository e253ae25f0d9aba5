// Package erc provides a simple error aggregation tool for collecting
// errors from streams and worker code. Collectors are safe for use
// from multiple goroutines and compatible with go's native error
// wrapping.
package erc

import (
	"sync"

	"github.com/rivulet/rivulet/ers"
)

// Collector accumulates errors, typically during the lifetime of a
// stream or a drain operation, and resolves them into a single error
// value.
type Collector struct {
	mu    sync.Mutex
	stack ers.Stack
}

// Push adds an error to the collector. Nil errors are dropped, and
// aggregate errors are flattened.
func (ec *Collector) Push(err error) {
	if err == nil {
		return
	}

	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.stack.Push(err)
}

// Resolve returns the collected errors as a single error value, or
// nil if none were collected.
func (ec *Collector) Resolve() error {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	switch errs := ec.stack.Errors(); len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return ers.Join(errs...)
	}
}

// Ok returns true when no errors have been collected.
func (ec *Collector) Ok() bool {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.stack.Ok()
}

// Len reports the number of errors collected so far.
func (ec *Collector) Len() int {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.stack.Len()
}

// Join aggregates errors; a re-export of ers.Join for call sites that
// already import erc.
func Join(errs ...error) error { return ers.Join(errs...) }

// ParsePanic converts a recovered panic value to an error; a
// re-export of ers.ParsePanic.
func ParsePanic(r any) error { return ers.ParsePanic(r) }

// Recover converts an in-flight panic into an error on the
// collector. Run in a defer statement.
func Recover(ec *Collector) { ec.Push(ers.ParsePanic(recover())) }
