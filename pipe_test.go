package rivulet

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rivulet/rivulet/assert"
	"github.com/rivulet/rivulet/assert/check"
	"github.com/rivulet/rivulet/testt"
)

// recordSink captures written items and the end signal for
// inspection.
type recordSink[T any] struct {
	items  []T
	ended  int
	refuse error
}

func (s *recordSink[T]) Write(_ context.Context, item T) error {
	if s.refuse != nil {
		return s.refuse
	}
	s.items = append(s.items, item)
	return nil
}

func (s *recordSink[T]) End() error { s.ended++; return nil }

func TestPipe(t *testing.T) {
	t.Run("EmptyIsIdentity", func(t *testing.T) {
		st := Of(1, 2, 3)
		assert.True(t, Pipe(st) == st)
	})
	t.Run("AppliesLeftToRight", func(t *testing.T) {
		ctx := testt.Context(t)
		out, err := Pipe(Of(1, 2, 3, 4),
			Filter[int](func(in int) bool { return in > 1 }),
			Take[int](2),
		).Slice(ctx)
		assert.NotError(t, err)
		assert.EqualItems(t, out, []int{2, 3})
	})
}

func TestPipeTo(t *testing.T) {
	t.Run("TransformThenExport", func(t *testing.T) {
		ctx := testt.Context(t)
		sink := &recordSink[int]{}

		err := PipeTo(ctx, Of(1, 2, 3), sink, Tap(func(int) {}),
			func(st *Stream[int]) *Stream[int] { return Convert(st, func(in int) int { return in * 2 }) })
		assert.NotError(t, err)
		assert.EqualItems(t, sink.items, []int{2, 4, 6})
		assert.Equal(t, sink.ended, 1)
	})
	t.Run("EndFlagFalseLeavesSinkOpen", func(t *testing.T) {
		ctx := testt.Context(t)
		sink := &recordSink[int]{}

		assert.NotError(t, PipeInto(ctx, Of(1, 2, 3), sink))
		assert.EqualItems(t, sink.items, []int{1, 2, 3})
		assert.Equal(t, sink.ended, 0)
	})
	t.Run("SourceFailureSkipsEnd", func(t *testing.T) {
		ctx := testt.Context(t)
		expected := errors.New("upstream broke")
		sink := &recordSink[int]{}

		err := PipeTo(ctx, MakeStream(StaticGenerator(0, expected)), sink)
		assert.ErrorIs(t, err, expected)
		assert.Equal(t, sink.ended, 0)
		assert.Equal(t, len(sink.items), 0)
	})
	t.Run("SinkFailurePropagates", func(t *testing.T) {
		ctx := testt.Context(t)
		expected := errors.New("sink full")
		sink := &recordSink[int]{refuse: expected}

		err := PipeTo(ctx, Of(1, 2), sink)
		assert.ErrorIs(t, err, expected)
		assert.Equal(t, sink.ended, 0)
	})
	t.Run("SourceClosedOnExit", func(t *testing.T) {
		ctx := testt.Context(t)
		closed := 0
		st := Of(1).WithHook(func(*Stream[int]) { closed++ })

		assert.NotError(t, PipeTo(ctx, st, &recordSink[int]{}))
		assert.Equal(t, closed, 1)
	})
}

func TestSinks(t *testing.T) {
	t.Run("WriterSink", func(t *testing.T) {
		ctx := testt.Context(t)
		buf := &bytes.Buffer{}

		err := PipeTo(ctx, Of([]byte("hello "), []byte("world")), WriterSink(buf))
		assert.NotError(t, err)
		assert.Equal(t, buf.String(), "hello world")
	})
	t.Run("WriterSinkEndCloses", func(t *testing.T) {
		ctx := testt.Context(t)
		wc := &closeCounter{}

		assert.NotError(t, PipeTo(ctx, Of([]byte("x")), WriterSink(wc)))
		assert.Equal(t, wc.closed, 1)

		wc.closed = 0
		assert.NotError(t, PipeInto(ctx, Of([]byte("x")), WriterSink(wc)))
		assert.Equal(t, wc.closed, 0)
	})
	t.Run("ChannelSink", func(t *testing.T) {
		ctx := testt.Context(t)
		ch := make(chan int, 4)

		assert.NotError(t, PipeTo(ctx, Of(7, 8, 9), ChannelSink(ch)))

		var out []int
		for val := range ch {
			out = append(out, val)
		}
		assert.EqualItems(t, out, []int{7, 8, 9})
	})
}

type closeCounter struct {
	bytes.Buffer
	closed int
}

func (c *closeCounter) Close() error { c.closed++; return nil }

func TestRoundTrip(t *testing.T) {
	// normalize, transform, export: the whole chain end to end
	ctx := testt.Context(t)
	sink := &recordSink[any]{}

	st := NormalizeWith([]int{1, 2, 3},
		func(_ context.Context, in any, _ int) (any, error) { return in.(int) * 2, nil })

	assert.NotError(t, PipeTo(ctx, st, sink))
	assert.Equal(t, len(sink.items), 3)
	check.Equal(t, sink.items[0].(int), 2)
	check.Equal(t, sink.items[1].(int), 4)
	check.Equal(t, sink.items[2].(int), 6)
	check.Equal(t, sink.ended, 1)
}
