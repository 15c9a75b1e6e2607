package actor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMessageType is returned by generated accessors when the message is not of the variant they handle.
	// Nothing is sent to the mailbox in that case.
	ErrInvalidMessageType = errors.New("invalid message type")
	// ErrSendFailed is returned when the actor's mailbox cannot accept messages anymore.
	ErrSendFailed = errors.New("send failed: mailbox is gone")
	// ErrMailboxClosed is returned when the reply slot was released without a reply, e.g. because the worker stopped.
	ErrMailboxClosed = errors.New("mailbox closed before a reply was sent")
	// ErrTimeout is returned when the caller's context ends before the reply arrives.
	ErrTimeout = errors.New("timed out waiting for reply")
	// ErrNoReplySlot is returned by Reply.Send when the message carries no reply slot (e.g. it was sent fire-and-forget).
	ErrNoReplySlot = errors.New("message has no reply slot")
	// ErrReplyUsed is returned by Reply.Send when the slot was already used or released.
	ErrReplyUsed = errors.New("reply slot already used")
)

// InvalidMessageType returns an error wrapping ErrInvalidMessageType, describing the expected and actual message types.
func InvalidMessageType(want string, got any) error {
	return fmt.Errorf("%w: expected %s, got %T", ErrInvalidMessageType, want, got)
}
