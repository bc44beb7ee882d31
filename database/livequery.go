package database

import (
	"context"
	"sync"
)

// LiveQuery re-runs a fetch every time its collection changes and delivers
// the full result set. A consumer that falls behind only ever sees the most
// recent set. The owner must call Close when done.
type LiveQuery[T any] struct {
	updates chan []T
	cancel  context.CancelFunc
	done    chan struct{}

	mu  sync.Mutex
	err error
}

// NewLiveQuery subscribes to c before the first fetch, so no change between
// the initial fetch and the subscription is lost.
func NewLiveQuery[T any](ctx context.Context, feed *ChangeFeed, c Collection, fetch func(context.Context) ([]T, error)) *LiveQuery[T] {
	ctx, cancel := context.WithCancel(ctx)
	changes, stop := feed.Watch(c)

	q := &LiveQuery[T]{
		updates: make(chan []T, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go q.run(ctx, changes, stop, fetch)
	return q
}

func (q *LiveQuery[T]) run(ctx context.Context, changes <-chan struct{}, stop func(), fetch func(context.Context) ([]T, error)) {
	defer close(q.done)
	defer close(q.updates)
	defer stop()

	for {
		set, err := fetch(ctx)
		if err != nil {
			if ctx.Err() == nil {
				q.mu.Lock()
				q.err = err
				q.mu.Unlock()
			}
			return
		}

		// drop an undelivered set in favour of the newer one
		select {
		case <-q.updates:
		default:
		}
		select {
		case q.updates <- set:
		case <-ctx.Done():
			return
		}

		select {
		case <-changes:
		case <-ctx.Done():
			return
		}
	}
}

// Updates is closed when the query stops, either through Close, context
// cancellation, or a failed fetch (see Err).
func (q *LiveQuery[T]) Updates() <-chan []T {
	return q.updates
}

// Err returns the fetch error that stopped the query, if any.
func (q *LiveQuery[T]) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}

// Close stops the query and waits for it to unregister. It is idempotent.
func (q *LiveQuery[T]) Close() {
	q.cancel()
	<-q.done
}
