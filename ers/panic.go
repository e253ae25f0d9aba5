package ers

import "fmt"

// ParsePanic converts the value recovered from a panic into an error
// that wraps ErrRecoveredPanic. When the input is nil (no panic,)
// ParsePanic returns nil.
func ParsePanic(r any) error {
	switch val := r.(type) {
	case nil:
		return nil
	case error:
		return Join(val, ErrRecoveredPanic)
	case string:
		return Join(New(val), ErrRecoveredPanic)
	default:
		return fmt.Errorf("[%T]: %v: %w", val, val, ErrRecoveredPanic)
	}
}

// WithRecover runs the provided function, converting any panic it
// raises into an error.
func WithRecover(op func() error) (err error) {
	defer func() { err = Join(err, ParsePanic(recover())) }()
	return op()
}
