package rivulet

import (
	"context"
	"io"

	"github.com/rivulet/rivulet/ers"
)

// Reader exports a stream of byte chunks as an io.ReadCloser,
// carrying leftover chunk bytes across short reads. Close closes the
// stream; a failure from the stream surfaces as the read error once
// buffered bytes drain.
func Reader(st *Stream[[]byte]) io.ReadCloser { return &streamReader{st: st} }

type streamReader struct {
	st   *Stream[[]byte]
	rest []byte
	err  error
}

func (r *streamReader) Read(p []byte) (int, error) {
	for len(r.rest) == 0 {
		if r.err != nil {
			return 0, r.err
		}

		chunk, err := r.st.Read(context.Background())
		switch {
		case err == nil:
			r.rest = chunk
		case ers.IsTerminating(err):
			r.err = io.EOF
		default:
			r.err = err
		}
	}

	n := copy(p, r.rest)
	r.rest = r.rest[n:]
	return n, nil
}

func (r *streamReader) Close() error { return r.st.Close() }

// Channel exports a stream as a receive channel, driven by a
// background goroutine. The channel closes when the stream is
// exhausted, fails, or the context expires; the stream is closed in
// all cases. Failures are observable through the stream's Close.
func Channel[T any](ctx context.Context, st *Stream[T]) <-chan T {
	out := make(chan T)

	go func() {
		defer close(out)
		defer st.doClose()

		for {
			item, err := st.Read(ctx)
			if err != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case out <- item:
			}
		}
	}()

	return out
}
