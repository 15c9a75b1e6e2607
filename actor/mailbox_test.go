package actor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMsg struct {
	n    int
	resp *Reply[int]
}

func releaseTestMsg(msg *testMsg) {
	msg.resp.Close()
}

func TestMailbox(t *testing.T) {
	t.Run("send and receive", func(t *testing.T) {
		s, r := NewMailbox[*testMsg](releaseTestMsg)

		require.NoError(t, s.Send(&testMsg{n: 1}))
		require.NoError(t, s.Send(&testMsg{n: 2}))
		assert.Equal(t, 2, r.Len())

		msg, ok := r.Recv(t.Context())
		require.True(t, ok)
		assert.Equal(t, 1, msg.n)
		msg, ok = r.Recv(t.Context())
		require.True(t, ok)
		assert.Equal(t, 2, msg.n)
	})

	t.Run("last sender closed stops the receiver after draining", func(t *testing.T) {
		s, r := NewMailbox[*testMsg](releaseTestMsg)
		clone := s.Clone()

		require.NoError(t, s.Send(&testMsg{n: 1}))
		s.Close()

		// One sender is still open
		require.NoError(t, clone.Send(&testMsg{n: 2}))
		clone.Close()

		for _, want := range []int{1, 2} {
			msg, ok := r.Recv(t.Context())
			require.True(t, ok)
			assert.Equal(t, want, msg.n)
		}

		_, ok := r.Recv(t.Context())
		assert.False(t, ok)
	})

	t.Run("closed sender fails", func(t *testing.T) {
		s, _ := NewMailbox[*testMsg](releaseTestMsg)
		s.Close()
		s.Close()

		err := s.Send(&testMsg{})
		require.ErrorIs(t, err, ErrSendFailed)
	})

	t.Run("clone of a closed sender is closed", func(t *testing.T) {
		s, r := NewMailbox[*testMsg](releaseTestMsg)
		s.Close()

		stale := s.Clone()
		err := stale.Send(&testMsg{n: 42})
		require.ErrorIs(t, err, ErrSendFailed)
		stale.Close()

		_, ok := r.Recv(t.Context())
		assert.False(t, ok)
	})

	t.Run("clone after the mailbox was sealed is closed", func(t *testing.T) {
		s, r := NewMailbox[*testMsg](releaseTestMsg)
		open := s.Clone()
		s.Close()

		// Cloning a closed sender while another one is still open
		stale := s.Clone()
		require.ErrorIs(t, stale.Send(&testMsg{}), ErrSendFailed)

		clone := open.Clone()
		open.Close()
		require.NoError(t, clone.Send(&testMsg{n: 1}))
		clone.Close()

		// The mailbox is sealed: no sender can be created anymore
		require.ErrorIs(t, open.Clone().Send(&testMsg{}), ErrSendFailed)

		msg, ok := r.Recv(t.Context())
		require.True(t, ok)
		assert.Equal(t, 1, msg.n)
		_, ok = r.Recv(t.Context())
		assert.False(t, ok)
	})

	t.Run("closed receiver releases queued messages", func(t *testing.T) {
		s, r := NewMailbox[*testMsg](releaseTestMsg)

		msg := &testMsg{resp: NewReply[int]()}
		require.NoError(t, s.Send(msg))

		r.Close()

		_, err := msg.resp.Wait(t.Context())
		require.ErrorIs(t, err, ErrMailboxClosed)

		err = s.Send(&testMsg{})
		require.ErrorIs(t, err, ErrSendFailed)
	})

	t.Run("release closes unanswered reply", func(t *testing.T) {
		_, r := NewMailbox[*testMsg](releaseTestMsg)

		answered := &testMsg{resp: NewReply[int]()}
		require.NoError(t, answered.resp.Send(3))
		r.Release(answered)
		v, err := answered.resp.Wait(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 3, v)

		unanswered := &testMsg{resp: NewReply[int]()}
		r.Release(unanswered)
		_, err = unanswered.resp.Wait(t.Context())
		require.ErrorIs(t, err, ErrMailboxClosed)
	})

	t.Run("nil release function", func(t *testing.T) {
		s, r := NewMailbox[int](nil)
		require.NoError(t, s.Send(1))

		r.Release(1)
		r.Close()
	})

	t.Run("recv honors the context", func(t *testing.T) {
		_, r := NewMailbox[int](nil)
		ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
		defer cancel()

		_, ok := r.Recv(ctx)
		assert.False(t, ok)
	})
}

func TestCall(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		s, r := NewMailbox[*testMsg](releaseTestMsg)

		go func() {
			msg, ok := r.Recv(t.Context())
			if !ok {
				return
			}
			_ = msg.resp.Send(msg.n * 2)
			r.Release(msg)
		}()

		msg := &testMsg{n: 21, resp: NewReply[int]()}
		v, err := Call(t.Context(), s, msg, msg.resp)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("send failed", func(t *testing.T) {
		s, r := NewMailbox[*testMsg](releaseTestMsg)
		r.Close()

		msg := &testMsg{resp: NewReply[int]()}
		_, err := Call(t.Context(), s, msg, msg.resp)
		require.ErrorIs(t, err, ErrSendFailed)
	})

	t.Run("released without reply", func(t *testing.T) {
		s, r := NewMailbox[*testMsg](releaseTestMsg)

		go func() {
			msg, ok := r.Recv(t.Context())
			if ok {
				r.Release(msg)
			}
		}()

		msg := &testMsg{resp: NewReply[int]()}
		_, err := Call(t.Context(), s, msg, msg.resp)
		require.ErrorIs(t, err, ErrMailboxClosed)
	})

	t.Run("timeout", func(t *testing.T) {
		s, _ := NewMailbox[*testMsg](releaseTestMsg)
		ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
		defer cancel()

		msg := &testMsg{resp: NewReply[int]()}
		_, err := Call(ctx, s, msg, msg.resp)
		require.ErrorIs(t, err, ErrTimeout)
	})
}

func TestInvalidMessageType(t *testing.T) {
	err := InvalidMessageType("*actor.testMsg", 12)
	require.ErrorIs(t, err, ErrInvalidMessageType)
	assert.Contains(t, err.Error(), "expected *actor.testMsg, got int")
}
