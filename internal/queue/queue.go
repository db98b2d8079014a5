// Package queue provides an unbounded, closable FIFO safe for any number of
// concurrent producers and consumers.
//
// Consumers call Receive, which blocks until an item is available, the queue
// is closed and drained, or the context ends. Producers never add items after
// Close, so once Receive reports closed-and-empty that state is final: a
// consumer can never mistake a transient empty queue for the end of work.
package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Enqueue after Close.
var ErrClosed = errors.New("queue closed")

// Queue is an unbounded FIFO. The zero value is not usable; call New.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	head   int
	closed bool

	// ready holds at most one pending wake-up for a blocked consumer.
	ready chan struct{}

	// done is closed by Close and wakes every blocked consumer.
	done chan struct{}
}

// New returns an empty, open queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Enqueue appends item. It never blocks.
func (q *Queue[T]) Enqueue(item T) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.items = append(q.items, item)
	q.mu.Unlock()

	q.signal()
	return nil
}

// Close marks the queue closed. Items already queued remain receivable.
// Close is idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}

// Receive removes and returns the oldest item. ok is false once the queue is
// closed and empty. err is the context's error if ctx ends first.
func (q *Queue[T]) Receive(ctx context.Context) (item T, ok bool, err error) {
	for {
		q.mu.Lock()
		if n := len(q.items) - q.head; n > 0 {
			item = q.items[q.head]
			var zero T
			q.items[q.head] = zero
			q.head++
			if q.head == len(q.items) {
				q.items = q.items[:0]
				q.head = 0
			}
			more := n > 1
			q.mu.Unlock()

			// Pass the wake-up on so a sibling consumer picks up the rest.
			if more {
				q.signal()
			}
			return item, true, nil
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return item, false, nil
		}

		select {
		case <-ctx.Done():
			return item, false, ctx.Err()
		case <-q.ready:
		case <-q.done:
		}
	}
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *Queue[T]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
