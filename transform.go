package rivulet

import (
	"context"
	"errors"
	"io"
)

// Transform is a function type that converts values of type T into
// values of type O while a stream is being pulled. Transforms run
// serially in source order and may block; returning
// ErrStreamContinue elides the current value.
type Transform[T any, O any] func(context.Context, T) (O, error)

// Converter builds a Transform from a function that does not take a
// context or return an error.
func Converter[T any, O any](op func(T) O) Transform[T, O] {
	return func(_ context.Context, in T) (O, error) { return op(in), nil }
}

// ConverterErr builds a Transform from an analogous function that
// does not take a context.
func ConverterErr[T any, O any](op func(T) (O, error)) Transform[T, O] {
	return func(_ context.Context, in T) (O, error) { return op(in) }
}

// ConverterOk builds a Transform from a function with a check value:
// items for which the function reports false are skipped.
func ConverterOk[T any, O any](op func(T) (O, bool)) Transform[T, O] {
	return func(_ context.Context, in T) (out O, _ error) {
		out, ok := op(in)
		if !ok {
			return out, ErrStreamContinue
		}
		return out, nil
	}
}

// Stream applies the transform to every item of the input stream,
// lazily, producing a new stream. Closing the output stream closes
// the input, and errors collected by the input surface through the
// output's Close.
func (tr Transform[T, O]) Stream(src *Stream[T]) *Stream[O] {
	return MakeStream(func(ctx context.Context) (zero O, _ error) {
		for {
			item, err := src.Read(ctx)
			if err != nil {
				return zero, err
			}

			out, err := tr(ctx, item)
			switch {
			case err == nil:
				return out, nil
			case errors.Is(err, ErrStreamContinue):
				continue
			default:
				return zero, err
			}
		}
	}).WithHook(func(st *Stream[O]) { st.AddError(src.Close()) })
}

// Convert produces a stream of a different type by passing every
// item of the input through the conversion function.
func Convert[T any, O any](src *Stream[T], op func(T) O) *Stream[O] {
	return Converter(op).Stream(src)
}

// Transform processes the stream through a same-type transform. Use
// Convert or Transform.Stream to change the element type.
func (st *Stream[T]) Transform(tr Transform[T, T]) *Stream[T] { return tr.Stream(st) }

// Operator is a composable stage: a function from one stream to
// another of the same type, applied by Pipe.
type Operator[T any] func(*Stream[T]) *Stream[T]

// Tap passes every item to the side-effect function as it flows
// through, unmodified. The function sees items in source order.
func Tap[T any](fn func(T)) Operator[T] {
	return func(src *Stream[T]) *Stream[T] {
		return Converter(func(in T) T { fn(in); return in }).Stream(src)
	}
}

// Filter propagates only the items for which the check function
// returns true.
func Filter[T any](check func(T) bool) Operator[T] {
	return func(src *Stream[T]) *Stream[T] { return src.Filter(check) }
}

// Take ends the stream after n items have been produced, without
// pulling the source further.
func Take[T any](n int) Operator[T] {
	return func(src *Stream[T]) *Stream[T] {
		seen := 0
		return MakeStream(func(ctx context.Context) (zero T, _ error) {
			if seen >= n {
				return zero, io.EOF
			}

			item, err := src.Read(ctx)
			if err != nil {
				return zero, err
			}
			seen++
			return item, nil
		}).WithHook(func(out *Stream[T]) { out.AddError(src.Close()) })
	}
}

// Drop skips the first n items of the stream.
func Drop[T any](n int) Operator[T] {
	return func(src *Stream[T]) *Stream[T] {
		seen := 0
		return src.Filter(func(T) bool { seen++; return seen > n })
	}
}

// Filter passes through only the items for which the check function
// returns true. Closing the output closes the input stream.
func (st *Stream[T]) Filter(check func(T) bool) *Stream[T] {
	return NewGenerator(st.Read).Filter(check).Stream().
		WithHook(func(out *Stream[T]) { out.AddError(st.Close()) })
}
