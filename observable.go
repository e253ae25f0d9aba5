package rivulet

import (
	"context"
	"io"
	"sync"

	"github.com/rivulet/rivulet/ers"
)

// Observer is the listener registered with an Observable: a
// next/error/complete protocol. Any of the callbacks may be nil.
type Observer[T any] struct {
	Next     func(T)
	Error    func(error)
	Complete func()
}

// Subscription represents an active registration with an
// observable. Unsubscribe must be safe to call more than once.
type Subscription interface {
	Unsubscribe()
}

// Observable is a push-based producer that delivers items to a
// registered observer on its own schedule.
type Observable[T any] interface {
	Subscribe(Observer[T]) Subscription
}

// ObservableStream bridges a push-based observable into a pull-based
// stream. The subscription is established immediately; pushed items
// are buffered in an unbounded internal queue until the consumer
// pulls them. An error push fails the next pull, and completion maps
// to io.EOF. The adapter unsubscribes exactly once: when the stream
// closes (including early termination by the consumer,) or when the
// observable completes or fails.
func ObservableStream[T any](obs Observable[T]) *Stream[T] {
	gen, unsub := observableGenerator(obs)
	return gen.Stream().WithHook(func(*Stream[T]) { unsub() })
}

func observableGenerator[T any](obs Observable[T]) (Generator[T], func()) {
	q := &pushQueue[T]{wake: make(chan struct{}, 1)}
	sub := obs.Subscribe(Observer[T]{
		Next:     q.push,
		Error:    q.fail,
		Complete: q.complete,
	})

	once := &sync.Once{}
	unsub := func() { once.Do(sub.Unsubscribe) }
	return func(ctx context.Context) (T, error) {
		out, err := q.pop(ctx)
		if err != nil && !ers.IsExpiredContext(err) {
			unsub()
		}
		return out, err
	}, unsub
}

// pushQueue buffers items delivered by a push-based producer for a
// single pulling consumer. The wake channel carries at most one
// pending signal; the consumer re-checks the queue under the lock
// after every wakeup, so coalesced signals do not lose items.
type pushQueue[T any] struct {
	mu    sync.Mutex
	items []T
	err   error
	done  bool
	wake  chan struct{}
}

func (q *pushQueue[T]) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *pushQueue[T]) push(item T) {
	q.mu.Lock()
	if !q.done && q.err == nil {
		q.items = append(q.items, item)
	}
	q.mu.Unlock()
	q.signal()
}

func (q *pushQueue[T]) fail(err error) {
	q.mu.Lock()
	if q.err == nil && !q.done {
		q.err = err
	}
	q.mu.Unlock()
	q.signal()
}

func (q *pushQueue[T]) complete() {
	q.mu.Lock()
	q.done = true
	q.mu.Unlock()
	q.signal()
}

// pop returns the next buffered item, blocking until one arrives or
// the producer terminates. Buffered items drain before a terminal
// state is reported.
func (q *pushQueue[T]) pop(ctx context.Context) (zero T, _ error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			item := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return item, nil
		}

		switch {
		case q.err != nil:
			err := q.err
			q.mu.Unlock()
			return zero, err
		case q.done:
			q.mu.Unlock()
			return zero, io.EOF
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-q.wake:
		}
	}
}

// ToObservable exports a stream as a push-based observable. Each
// subscription drains the stream in its own goroutine, delivering
// every item to Next in source order, then Complete on exhaustion or
// Error on failure. Unsubscribing stops the drain and closes the
// stream.
//
// The stream itself supports only one pass, so a second subscription
// observes whatever the first left unconsumed.
func ToObservable[T any](st *Stream[T]) Observable[T] { return streamObservable[T]{st} }

type streamObservable[T any] struct{ st *Stream[T] }

func (o streamObservable[T]) Subscribe(ob Observer[T]) Subscription {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		defer cancel()
		for {
			item, err := o.st.Read(ctx)
			switch {
			case err == nil:
				if ob.Next != nil {
					ob.Next(item)
				}
				continue
			case ers.IsTerminating(err):
				if ob.Complete != nil {
					ob.Complete()
				}
			case ers.IsExpiredContext(err):
				// unsubscribed mid-drain; nothing to deliver
			default:
				if ob.Error != nil {
					ob.Error(err)
				}
			}
			return
		}
	}()

	once := &sync.Once{}
	return subscription{stop: func() {
		once.Do(func() {
			cancel()
			_ = o.st.Close()
		})
	}}
}

type subscription struct{ stop func() }

func (s subscription) Unsubscribe() { s.stop() }
