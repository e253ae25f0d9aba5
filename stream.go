// Package rivulet bridges heterogeneous asynchronous producers into a
// single pull-based sequence abstraction, and provides the tools to
// compose transformations over it and export the result back out as a
// push-based or byte-oriented consumer.
//
// Slices, native go iterators, channels, deferred single values,
// push-based observables, and byte-oriented sources all normalize
// into the Stream type, which yields one item per request until the
// source is exhausted or fails. Scheduling is deliberately deferred
// to the caller and to the wrapped source: a stream does nothing
// until it is pulled.
package rivulet

import (
	"context"
	"errors"
	"io"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/rivulet/rivulet/erc"
	"github.com/rivulet/rivulet/ers"
)

// ErrStreamContinue instructs a stream to skip the current item and
// produce the next one. Generator functions and transforms return it
// to elide values without terminating iteration.
const ErrStreamContinue ers.Error = ers.ErrCurrentOpSkip

// Stream provides a pull-based, context-respecting sequence of
// values. Streams are constructed by the normalization constructors
// (Normalize, Of, SliceStream, and friends,) produced by operators
// wrapping other streams, or built directly from a Generator.
//
// The canonical interaction is the Read method, which advances the
// stream and returns the next value: io.EOF indicates that the
// stream is exhausted, while any other error is a failure propagated
// from the underlying source or a transform. Once a stream has
// reported io.EOF or failed, every subsequent Read reports io.EOF:
// terminal states are sticky.
//
// Next and Value provide a loop-oriented alternative to Read. The
// Next/Value pair is not safe for concurrent use; callers must
// serialize pulls on a single stream instance.
//
// Close releases any resources held by the stream's source (streams
// over byte sources and observables hold subscriptions or reader
// locks,) and returns errors collected during iteration. Close is
// safe to call more than once.
type Stream[T any] struct {
	operation Generator[T]
	value     T

	erc    erc.Collector
	closer struct {
		state atomic.Bool
		once  sync.Once
		hooks []func(*Stream[T])
	}
}

// MakeStream constructs a stream that calls the generator function
// once for every item until it returns an error. io.EOF ends the
// stream cleanly; all other errors are propagated to the caller of
// Read and collected for Close.
func MakeStream[T any](gen Generator[T]) *Stream[T] { return &Stream[T]{operation: gen} }

// Of wraps a fixed, finite list of values into a stream that yields
// them in argument order and then reports io.EOF. Of() with no
// arguments produces a stream that is exhausted immediately.
func Of[T any](vals ...T) *Stream[T] { return SliceStream(vals) }

// SliceStream provides stream access to the elements of a slice.
func SliceStream[T any](in []T) *Stream[T] {
	s := in
	idx := &atomic.Int64{}
	idx.Store(-1)

	return MakeStream(func(context.Context) (out T, _ error) {
		next := idx.Add(1)
		if int(next) >= len(s) {
			return out, io.EOF
		}
		return s[next], nil
	})
}

// SeqStream wraps a native go iterator as a stream. The iterator's
// stop function runs when the stream closes.
func SeqStream[T any](it iter.Seq[T]) *Stream[T] {
	next, stop := iter.Pull(it)
	return CheckedGenerator(next).Stream().WithHook(func(*Stream[T]) { stop() })
}

// ChannelStream exposes a receive channel as a stream. The stream
// ends when the channel closes, and respects context cancellation
// while waiting for a value.
func ChannelStream[T any](ch <-chan T) *Stream[T] {
	return MakeStream(func(ctx context.Context) (zero T, _ error) {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case val, ok := <-ch:
			if !ok {
				return zero, io.EOF
			}
			return val, nil
		}
	})
}

// WithHook registers a hook that runs exactly once during the
// stream's Close, in registration order. Hooks are where adapters
// wire resource release.
func (st *Stream[T]) WithHook(hook func(*Stream[T])) *Stream[T] {
	st.closer.hooks = append(st.closer.hooks, hook)
	return st
}

func (st *Stream[T]) doClose() {
	st.closer.once.Do(func() {
		st.closer.state.Store(true)
		for _, hook := range st.closer.hooks {
			if hook != nil {
				hook(st)
			}
		}
	})
}

// Close terminates the stream and returns any errors collected
// during iteration. Close is safe to call more than once; hooks run
// only on the first call, while errors resolve every time.
func (st *Stream[T]) Close() error { st.doClose(); return st.erc.Resolve() }

// AddError attaches an error to the stream, to be reported by
// Close. Adapters and operators use it to surface failures from
// wrapped resources.
func (st *Stream[T]) AddError(err error) { st.erc.Push(err) }

// ErrorHandler exposes AddError as a function value.
func (st *Stream[T]) ErrorHandler() func(error) { return st.erc.Push }

// Value returns the item at the current position in the stream, as
// advanced by Next.
func (st *Stream[T]) Value() T { return st.value }

// Next advances the stream and caches the current value for access
// with Value. It returns false when the stream is exhausted, has
// failed, or the context has expired.
func (st *Stream[T]) Next(ctx context.Context) bool {
	if val, err := st.Read(ctx); err == nil {
		st.value = val
		return true
	}
	return false
}

func (st *Stream[T]) readErrorHandler(err error) error {
	if err != nil {
		return erc.Join(err, st.Close())
	}
	return nil
}

// Read advances the stream and returns the next value. It returns
// io.EOF when the stream is exhausted, the context's error if it has
// expired, or the failure produced by the underlying source or
// transform. All errors returned by Read are terminal: the stream is
// closed before the error is returned, and later calls report
// io.EOF.
func (st *Stream[T]) Read(ctx context.Context) (out T, err error) {
	defer func() { err = st.readErrorHandler(err) }()

	if err = ctx.Err(); err != nil {
		return out, err
	} else if st.closer.state.Load() || st.operation == nil {
		return out, io.EOF
	}

	for {
		out, err = st.operation(ctx)
		switch {
		case err == nil:
			return out, nil
		case errors.Is(err, ErrStreamContinue):
			continue
		case ers.IsTerminating(err):
			return out, io.EOF
		case ers.IsExpiredContext(err):
			return out, err
		default:
			st.AddError(err)
			return out, err
		}
	}
}

// ReadAll consumes the stream, passing every item to the handler
// function, and returns when the stream is exhausted (nil,) fails,
// or the context expires. Panics in the handler are converted to
// errors. The stream is closed before ReadAll returns.
func (st *Stream[T]) ReadAll(ctx context.Context, fn func(T)) (err error) {
	defer func() { err = erc.Join(err, erc.ParsePanic(recover()), st.Close()) }()

	for {
		item, err := st.Read(ctx)
		switch {
		case err == nil:
			fn(item)
		case ers.IsTerminating(err):
			return nil
		default:
			return err
		}
	}
}

// Slice collects the remaining items in the stream into a slice.
func (st *Stream[T]) Slice(ctx context.Context) (out []T, err error) {
	err = st.ReadAll(ctx, func(in T) { out = append(out, in) })
	return out, err
}

// Seq exposes the stream as a native go iterator. Iteration stops at
// the first error; use Close to observe failures.
func (st *Stream[T]) Seq(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		defer st.doClose()
		for {
			item, err := st.Read(ctx)
			if err != nil || !yield(item) {
				return
			}
		}
	}
}
