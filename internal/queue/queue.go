package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/edwingeng/deque"
)

// ErrClosed is returned by Push after the queue was sealed or closed.
var ErrClosed = errors.New("queue is closed")

// Queue is an unbounded FIFO queue with many producers and a single consumer.
//
// Producers never block. The consumer blocks in Pop until an item is available,
// the queue is sealed and drained, or the queue is closed.
type Queue[T any] struct {
	mu sync.Mutex
	// Items waiting to be consumed; deque is not thread-safe so it's protected by mu
	items deque.Deque
	// Signals the consumer that the state changed; buffered with capacity 1
	notify chan struct{}
	// Sealed is set when no more items will be pushed, but the ones in the queue must still be delivered
	sealed bool
	// Closed is set when the consumer is gone
	closed bool
}

// New returns a new, empty Queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{
		items:  deque.NewDeque(),
		notify: make(chan struct{}, 1),
	}
}

// Push appends an item at the back of the queue.
// It returns ErrClosed if the queue was sealed or closed.
func (q *Queue[T]) Push(item T) error {
	q.mu.Lock()
	if q.closed || q.sealed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.items.PushBack(item)
	q.mu.Unlock()

	q.signal()
	return nil
}

// Pop removes the item at the front of the queue, blocking until one is available.
// It returns false once the queue is sealed and empty, when the queue is closed, or when ctx is canceled.
func (q *Queue[T]) Pop(ctx context.Context) (T, bool) {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			var zero T
			return zero, false
		}
		if !q.items.Empty() {
			// Comma-ok so that nil interface values don't panic
			item, _ := q.items.PopFront().(T)
			q.mu.Unlock()
			return item, true
		}
		if q.sealed {
			q.mu.Unlock()
			var zero T
			return zero, false
		}
		q.mu.Unlock()

		select {
		case <-q.notify:
			// State changed, try again
		case <-ctx.Done():
			var zero T
			return zero, false
		}
	}
}

// Seal indicates that no more items will be pushed: Push fails from now on.
// Items already in the queue are still returned by Pop.
func (q *Queue[T]) Seal() {
	q.mu.Lock()
	q.sealed = true
	q.mu.Unlock()

	q.signal()
}

// Close stops the queue: Push fails from now on and Pop returns false.
// It returns the items that were still in the queue, in FIFO order.
func (q *Queue[T]) Close() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true

	var remaining []T
	for !q.items.Empty() {
		item, _ := q.items.PopFront().(T)
		remaining = append(remaining, item)
	}

	// Wake up a consumer that may be waiting
	select {
	case q.notify <- struct{}{}:
	default:
	}

	return remaining
}

// IsClosed returns true if the queue has been closed.
func (q *Queue[T]) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.closed
}

// Len returns the number of items waiting in the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.items.Len()
}

func (q *Queue[T]) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
		// A notification is already pending
	}
}
