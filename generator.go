package rivulet

import (
	"context"
	"io"

	"github.com/rivulet/rivulet/ers"
)

// Generator is the production primitive behind every stream: a
// function called once per item that returns the next value or an
// error. io.EOF signals orderly exhaustion and ErrStreamContinue
// skips the current item.
type Generator[T any] func(context.Context) (T, error)

// MakeGenerator constructs a generator from a function that does not
// take a context.
func MakeGenerator[T any](fn func() (T, error)) Generator[T] {
	return func(context.Context) (T, error) { return fn() }
}

// NewGenerator returns the argument as a Generator, as a convenience
// to avoid a cast when building function objects inline.
func NewGenerator[T any](fn func(ctx context.Context) (T, error)) Generator[T] { return fn }

// StaticGenerator returns a generator that always produces the
// provided value and error.
func StaticGenerator[T any](val T, err error) Generator[T] {
	return func(context.Context) (T, error) { return val, err }
}

// ValueGenerator returns a generator that always produces the
// provided value and a nil error.
func ValueGenerator[T any](val T) Generator[T] { return StaticGenerator(val, nil) }

// CheckedGenerator wraps a function that uses its second ("ok")
// value to indicate that no more values will be produced. The
// resulting generator returns io.EOF, or the context's error if the
// context has expired, once the function reports false.
func CheckedGenerator[T any](op func() (T, bool)) Generator[T] {
	return func(ctx context.Context) (zero T, _ error) {
		out, ok := op()
		if !ok {
			if err := ctx.Err(); err != nil {
				return zero, err
			}
			return zero, io.EOF
		}
		return out, nil
	}
}

// Stream wraps the generator in a stream.
func (gen Generator[T]) Stream() *Stream[T] { return MakeStream(gen) }

// WithRecover returns a generator that converts panics raised by the
// wrapped generator into errors.
func (gen Generator[T]) WithRecover() Generator[T] {
	return func(ctx context.Context) (out T, err error) {
		defer func() { err = ers.Join(err, ers.ParsePanic(recover())) }()
		return gen(ctx)
	}
}

// Filter returns a generator that produces only the values for which
// the check function returns true.
func (gen Generator[T]) Filter(check func(T) bool) Generator[T] {
	return func(ctx context.Context) (zero T, _ error) {
		out, err := gen(ctx)
		if err != nil {
			return zero, err
		}
		if !check(out) {
			return zero, ErrStreamContinue
		}
		return out, nil
	}
}

// Future is a deferred single value: a function awaited exactly once
// that produces the value or the failure of an asynchronous
// operation.
type Future[T any] func(context.Context) (T, error)

// Resolved returns a future that yields the provided value.
func Resolved[T any](val T) Future[T] {
	return func(context.Context) (T, error) { return val, nil }
}

// Rejected returns a future that fails with the provided error.
func Rejected[T any](err error) Future[T] {
	return func(context.Context) (zero T, _ error) { return zero, err }
}

// Stream wraps the future in a stream that awaits it on the first
// pull, yields its value as the only item, and then reports
// io.EOF. If the future fails the first pull fails with its error
// and no item is produced.
func (f Future[T]) Stream() *Stream[T] { return FutureStream(f) }

// FutureStream adapts a deferred single value into a one-item
// stream.
func FutureStream[T any](f Future[T]) *Stream[T] {
	resolved := false
	return MakeStream(func(ctx context.Context) (zero T, _ error) {
		if resolved {
			return zero, io.EOF
		}
		resolved = true
		return f(ctx)
	})
}
