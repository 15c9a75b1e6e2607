package actor

import (
	"context"
)

// Call sends msg through the sender and waits for the value delivered on reply.
// The reply slot must already be installed in msg.
//
// It returns ErrSendFailed if the message can't be enqueued, ErrMailboxClosed if the slot is released without an answer, and ErrTimeout if ctx ends first.
func Call[M any, R any](ctx context.Context, sender *Sender[M], msg M, reply *Reply[R]) (R, error) {
	err := sender.Send(msg)
	if err != nil {
		var zero R
		return zero, err
	}

	return reply.Wait(ctx)
}
