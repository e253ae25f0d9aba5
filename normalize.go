package rivulet

import (
	"context"
	"fmt"
	"io"
	"iter"
	"reflect"
	"sync/atomic"

	"github.com/rivulet/rivulet/ers"
)

// ErrInputUnsupported is returned by New when the input value matches
// none of the recognized source shapes.
const ErrInputUnsupported ers.Error = "unsupported input type"

// sourceKind tags the closed set of source variants recognized at the
// normalization boundary. Classification happens exactly once, in
// classify; downstream code switches on the tag and never re-inspects
// the input's shape.
type sourceKind int8

const (
	kindOpaque sourceKind = iota
	kindStream
	kindGenerator
	kindText
	kindSyncIterable
	kindAsyncIterable
	kindDeferred
	kindPushSource
	kindArrayLike
)

type source struct {
	kind   sourceKind
	stream *Stream[any]
	gen    Generator[any]
	seq    iter.Seq[any]
	ch     <-chan any
	future Future[any]
	obs    Observable[any]
	coll   reflect.Value
	value  any
}

// classify inspects an arbitrary input value and produces the
// matching source variant. The order of the cases is load bearing:
// text is recognized before the reflective array-like check so that
// strings normalize as single whole values rather than byte
// collections, and explicit iterable shapes win over array-likes.
func classify(in any) source {
	switch val := in.(type) {
	case *Stream[any]:
		return source{kind: kindStream, stream: val}
	case string:
		return source{kind: kindText, value: in}
	case iter.Seq[any]:
		return source{kind: kindSyncIterable, seq: val}
	case func(func(any) bool):
		return source{kind: kindSyncIterable, seq: val}
	case iter.Seq2[int, any]:
		return source{kind: kindSyncIterable, seq: seqValues(val)}
	case func(func(int, any) bool):
		return source{kind: kindSyncIterable, seq: seqValues(val)}
	case <-chan any:
		return source{kind: kindAsyncIterable, ch: val}
	case chan any:
		return source{kind: kindAsyncIterable, ch: val}
	case Generator[any]:
		return source{kind: kindGenerator, gen: val}
	case Future[any]:
		return source{kind: kindDeferred, future: val}
	case func(context.Context) (any, error):
		return source{kind: kindDeferred, future: val}
	case Observable[any]:
		return source{kind: kindPushSource, obs: val}
	}

	if rv := reflect.ValueOf(in); rv.IsValid() {
		switch rv.Kind() { //nolint:exhaustive
		case reflect.Slice, reflect.Array:
			return source{kind: kindArrayLike, coll: rv}
		}
	}

	return source{kind: kindOpaque, value: in}
}

// seqValues flattens an indexed iterator to its value side. The int
// side is positional: withIndex re-derives it when a transform asks
// for it.
func seqValues(seq iter.Seq2[int, any]) iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, val := range seq {
			if !yield(val) {
				return
			}
		}
	}
}

// Normalize wraps an arbitrary value in the stream adapter matching
// its shape. Streams pass through unchanged; strings and values of
// unrecognized shape become single-element streams; go iterators,
// channels, generators, futures, observables, and (reflectively)
// slices and arrays are traversed element-wise. Normalize never fails for a
// well-formed value: the fallback is always the single-element
// stream.
func Normalize(in any) *Stream[any] { return classify(in).normalize(nil) }

// NormalizeWith is Normalize with a per-item transform applied with
// the item's 0-based position. The transform may block; its failures
// terminate the stream. A nil transform is the identity. Values that
// are already streams pass through unchanged, without the transform.
func NormalizeWith(in any, tr IndexedTransform[any, any]) *Stream[any] {
	return classify(in).normalize(tr)
}

// New is the strict counterpart of Normalize: it refuses, with
// ErrInputUnsupported, inputs that are not already streams and do
// not have a traversable shape (iterable, channel, future,
// observable, or array-like). In particular the single-value
// fallback of Normalize, including for strings, is an error here.
func New(in any) (*Stream[any], error) {
	src := classify(in)
	switch src.kind {
	case kindText, kindOpaque:
		return nil, fmt.Errorf("%w: %T", ErrInputUnsupported, in)
	default:
		return src.normalize(nil), nil
	}
}

// IndexedTransform converts values during normalization, receiving
// each item with its 0-based position in the sequence. Transforms
// are invoked serially, in source order: the transform for item n+1
// does not begin until item n's transform has resolved.
type IndexedTransform[T any, O any] func(context.Context, T, int) (O, error)

func (s source) normalize(tr IndexedTransform[any, any]) *Stream[any] {
	if s.kind == kindStream {
		return s.stream
	}

	gen, hook := s.generator()
	st := withIndex(gen, tr).Stream()
	if hook != nil {
		st.WithHook(hook)
	}
	return st
}

// generator builds the pull operation for a classified source, and
// optionally a close hook for variants that hold resources.
func (s source) generator() (Generator[any], func(*Stream[any])) {
	switch s.kind {
	case kindGenerator:
		return s.gen, nil
	case kindSyncIterable:
		next, stop := iter.Pull(s.seq)
		return CheckedGenerator(next), func(*Stream[any]) { stop() }
	case kindAsyncIterable:
		ch := s.ch
		return func(ctx context.Context) (any, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case val, ok := <-ch:
				if !ok {
					return nil, io.EOF
				}
				return val, nil
			}
		}, nil
	case kindDeferred:
		future := s.future
		resolved := false
		return func(ctx context.Context) (any, error) {
			if resolved {
				return nil, io.EOF
			}
			resolved = true
			return future(ctx)
		}, nil
	case kindPushSource:
		gen, unsub := observableGenerator(s.obs)
		return gen, func(*Stream[any]) { unsub() }
	case kindArrayLike:
		coll := s.coll
		length := coll.Len()
		idx := &atomic.Int64{}
		idx.Store(-1)
		return func(context.Context) (any, error) {
			next := idx.Add(1)
			if int(next) >= length {
				return nil, io.EOF
			}
			return coll.Index(int(next)).Interface(), nil
		}, nil
	default:
		// text and opaque values are single-element sequences
		val := s.value
		done := false
		return func(context.Context) (any, error) {
			if done {
				return nil, io.EOF
			}
			done = true
			return val, nil
		}, nil
	}
}

// withIndex applies an indexed transform over a generator's output,
// counting produced items from zero. A nil transform is the
// identity.
func withIndex[T any](gen Generator[T], tr IndexedTransform[T, T]) Generator[T] {
	if tr == nil {
		return gen
	}

	idx := &atomic.Int64{}
	idx.Store(-1)
	return func(ctx context.Context) (zero T, _ error) {
		val, err := gen(ctx)
		if err != nil {
			return zero, err
		}
		return tr(ctx, val, int(idx.Add(1)))
	}
}
