package actor

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/italypaleale/actorgen/internal/queue"
)

type mailbox[M any] struct {
	queue *queue.Queue[M]
	// Number of open senders; the queue is sealed when it drops to zero
	senders atomic.Int64
	// Invoked on messages that are discarded or fully processed, to release their reply slots
	release func(M)
}

// NewMailbox creates an unbounded mailbox, returning its sending and receiving endpoints.
//
// The Sender may be cloned and used concurrently by any number of goroutines.
// The Receiver must be used by a single goroutine only.
// release, if not nil, is invoked for every message that leaves the mailbox, either after it was handled or because it was discarded; generated code uses it to release reply slots that were never answered.
func NewMailbox[M any](release func(M)) (*Sender[M], *Receiver[M]) {
	mb := &mailbox[M]{
		queue:   queue.New[M](),
		release: release,
	}
	mb.senders.Store(1)

	return &Sender[M]{mb: mb}, &Receiver[M]{mb: mb}
}

func (mb *mailbox[M]) releaseMsg(msg M) {
	if mb.release != nil {
		mb.release(msg)
	}
}

// Sender is the sending endpoint of a mailbox.
type Sender[M any] struct {
	mb     *mailbox[M]
	closed atomic.Bool
}

// Send enqueues a message without blocking.
// It returns ErrSendFailed if the receiving side is gone or if this sender was closed.
func (s *Sender[M]) Send(msg M) error {
	if s.closed.Load() {
		return ErrSendFailed
	}

	err := s.mb.queue.Push(msg)
	if errors.Is(err, queue.ErrClosed) {
		return ErrSendFailed
	} else if err != nil {
		return err
	}
	return nil
}

// Clone returns a new sender for the same mailbox.
// Each clone must be closed independently.
// Cloning a closed sender returns a closed sender.
func (s *Sender[M]) Clone() *Sender[M] {
	clone := &Sender[M]{mb: s.mb}
	if s.closed.Load() {
		clone.closed.Store(true)
		return clone
	}

	for {
		n := s.mb.senders.Load()
		// Once the count reaches zero the mailbox is sealed for good
		if n <= 0 {
			clone.closed.Store(true)
			return clone
		}
		if s.mb.senders.CompareAndSwap(n, n+1) {
			return clone
		}
	}
}

// Close drops this sender.
// When the last sender of a mailbox is closed, the receiver gets the messages still queued and then stops.
// Calling Close more than once is a no-op.
func (s *Sender[M]) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	if s.mb.senders.Add(-1) == 0 {
		s.mb.queue.Seal()
	}
}

// Receiver is the receiving endpoint of a mailbox.
type Receiver[M any] struct {
	mb *mailbox[M]
}

// Recv returns the next message, blocking while the mailbox is empty.
// It returns false when all senders were closed and the mailbox is drained, when the receiver was closed, or when ctx is done.
func (r *Receiver[M]) Recv(ctx context.Context) (M, bool) {
	return r.mb.queue.Pop(ctx)
}

// Release releases a message that was fully handled, closing its reply slot if nobody answered.
func (r *Receiver[M]) Release(msg M) {
	r.mb.releaseMsg(msg)
}

// Close closes the receiving side: further sends fail with ErrSendFailed and all messages still in the mailbox are released.
func (r *Receiver[M]) Close() {
	for _, msg := range r.mb.queue.Close() {
		r.mb.releaseMsg(msg)
	}
}

// Len returns the number of messages waiting in the mailbox.
func (r *Receiver[M]) Len() int {
	return r.mb.queue.Len()
}
