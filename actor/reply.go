package actor

import (
	"context"
	"fmt"
	"sync/atomic"
)

const (
	replyOpen int32 = iota
	replySent
	replyReleased
)

// Reply is a single-use slot that carries exactly one value of type T from an actor back to the caller.
//
// A nil *Reply is the "absent" slot: messages sent without waiting for a reply carry a nil slot.
// All methods are safe to call on a nil *Reply.
type Reply[T any] struct {
	ch       chan T
	released chan struct{}
	state    atomic.Int32
}

// NewReply returns a new, open reply slot.
func NewReply[T any]() *Reply[T] {
	return &Reply[T]{
		// Buffered so Send never blocks, even if the caller stopped waiting
		ch:       make(chan T, 1),
		released: make(chan struct{}),
	}
}

// Send delivers the reply.
// It can succeed at most once: it returns ErrReplyUsed if a value was already sent or the slot was released, and ErrNoReplySlot on a nil slot.
func (r *Reply[T]) Send(v T) error {
	if r == nil {
		return ErrNoReplySlot
	}
	if !r.state.CompareAndSwap(replyOpen, replySent) {
		return ErrReplyUsed
	}

	r.ch <- v
	return nil
}

// Close releases the slot without sending a value.
// A caller waiting on the slot receives ErrMailboxClosed.
// Closing a slot that was already used is a no-op.
func (r *Reply[T]) Close() {
	if r == nil {
		return
	}
	if r.state.CompareAndSwap(replyOpen, replyReleased) {
		close(r.released)
	}
}

// Wait blocks until the reply is sent, the slot is released, or ctx is done.
// If ctx ends first, the returned error wraps both ErrTimeout and the context's error; the slot is abandoned and a later Send still succeeds.
func (r *Reply[T]) Wait(ctx context.Context) (T, error) {
	var zero T
	if r == nil {
		return zero, ErrNoReplySlot
	}

	select {
	case v := <-r.ch:
		return v, nil
	case <-r.released:
		return zero, ErrMailboxClosed
	case <-ctx.Done():
		return zero, fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
	}
}

// Done returns true if a value was sent or the slot was released.
func (r *Reply[T]) Done() bool {
	if r == nil {
		return false
	}
	return r.state.Load() != replyOpen
}
