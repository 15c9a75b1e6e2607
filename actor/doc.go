// Package actor contains the runtime used by code generated with actorgen.
//
// Each generated actor owns one worker that is the only consumer of an unbounded
// mailbox. Handles hold the sending side of the mailbox: they can be cloned and used
// concurrently, sends never block, and messages from a single producer are delivered
// in the order they were sent.
//
// Requests that expect an answer carry a *Reply[T] slot. The worker answers with
// Send, at most once. Slots that are still open when the handler returns are
// released, and the caller receives ErrMailboxClosed. A handler that wants to answer
// later takes ownership of the slot by clearing the field:
//
//	case *Get:
//		reply := m.Resp
//		m.Resp = nil
//		go func() { _ = reply.Send(fetchRemote(m.Key)) }()
//
// This only works for variants whose marker method has a pointer receiver: with value
// variants the handler gets a copy, and the slot is released when it returns.
//
// Workers can report to Prometheus by passing the same Metrics to every actor with
// WithMetrics.
//
// The worker stops when every handle has been closed and the mailbox is drained, or
// when the context passed to the constructor is canceled; in the latter case, the
// messages still queued are released.
package actor
