package rivulet

import (
	"context"
	"io"

	"github.com/rivulet/rivulet/erc"
	"github.com/rivulet/rivulet/ers"
)

// Sink is a terminal destination for a stream: it accepts written
// items and an explicit end signal. The "end" behavior of a pipe
// controls whether End runs after the source drains.
type Sink[T any] interface {
	Write(ctx context.Context, item T) error
	End() error
}

// Pipe applies the operators to the stream from left to right, each
// consuming the previous result. An empty operator list is the
// identity.
func Pipe[T any](src *Stream[T], ops ...Operator[T]) *Stream[T] {
	for _, op := range ops {
		src = op(src)
	}
	return src
}

// PipeTo applies the operators to the stream and drains the result
// into the sink, signalling End once the source is exhausted. The
// source stream is closed on every exit path. PipeTo returns the
// first error from the drain, the sink, or the stream's close.
func PipeTo[T any](ctx context.Context, src *Stream[T], dst Sink[T], ops ...Operator[T]) error {
	return drain(ctx, Pipe(src, ops...), dst, true)
}

// PipeInto is PipeTo without the end signal: the sink remains open
// after the source drains, for callers that continue writing to it.
func PipeInto[T any](ctx context.Context, src *Stream[T], dst Sink[T], ops ...Operator[T]) error {
	return drain(ctx, Pipe(src, ops...), dst, false)
}

func drain[T any](ctx context.Context, src *Stream[T], dst Sink[T], end bool) (err error) {
	defer func() { err = erc.Join(err, src.Close()) }()

	for {
		item, rerr := src.Read(ctx)
		switch {
		case rerr == nil:
		case ers.IsTerminating(rerr):
			if end {
				return dst.End()
			}
			return nil
		default:
			return rerr
		}

		if werr := dst.Write(ctx, item); werr != nil {
			return werr
		}
	}
}

// WriterSink adapts an io.Writer into a byte-chunk sink. End closes
// the writer when it implements io.Closer and is otherwise a noop.
func WriterSink(w io.Writer) Sink[[]byte] { return writerSink{w} }

type writerSink struct{ w io.Writer }

func (s writerSink) Write(ctx context.Context, chunk []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.w.Write(chunk)
	return err
}

func (s writerSink) End() error {
	if closer, ok := s.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// ChannelSink adapts a send channel into a sink. End closes the
// channel.
func ChannelSink[T any](ch chan T) Sink[T] { return channelSink[T]{ch} }

type channelSink[T any] struct{ ch chan T }

func (s channelSink[T]) Write(ctx context.Context, item T) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case s.ch <- item:
		return nil
	}
}

func (s channelSink[T]) End() error { close(s.ch); return nil }
