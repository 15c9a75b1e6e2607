package actor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReply(t *testing.T) {
	t.Run("send then wait", func(t *testing.T) {
		r := NewReply[int]()
		assert.False(t, r.Done())

		require.NoError(t, r.Send(42))
		assert.True(t, r.Done())

		v, err := r.Wait(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("wait blocks until send", func(t *testing.T) {
		r := NewReply[string]()

		go func() {
			time.Sleep(20 * time.Millisecond)
			_ = r.Send("done")
		}()

		v, err := r.Wait(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "done", v)
	})

	t.Run("second send fails", func(t *testing.T) {
		r := NewReply[int]()

		require.NoError(t, r.Send(1))
		err := r.Send(2)
		require.ErrorIs(t, err, ErrReplyUsed)

		v, err := r.Wait(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 1, v)
	})

	t.Run("close without sending", func(t *testing.T) {
		r := NewReply[int]()
		r.Close()
		assert.True(t, r.Done())

		_, err := r.Wait(t.Context())
		require.ErrorIs(t, err, ErrMailboxClosed)

		err = r.Send(1)
		require.ErrorIs(t, err, ErrReplyUsed)

		// Closing twice is a no-op
		r.Close()
	})

	t.Run("close after send keeps the value", func(t *testing.T) {
		r := NewReply[int]()
		require.NoError(t, r.Send(7))
		r.Close()

		v, err := r.Wait(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	})

	t.Run("context ends before reply", func(t *testing.T) {
		r := NewReply[int]()
		ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
		defer cancel()

		_, err := r.Wait(ctx)
		require.ErrorIs(t, err, ErrTimeout)
		require.ErrorIs(t, err, context.DeadlineExceeded)

		// The abandoned slot can still be answered
		require.NoError(t, r.Send(1))
	})

	t.Run("nil slot", func(t *testing.T) {
		var r *Reply[int]

		require.ErrorIs(t, r.Send(1), ErrNoReplySlot)
		_, err := r.Wait(t.Context())
		require.ErrorIs(t, err, ErrNoReplySlot)
		assert.False(t, r.Done())
		r.Close()
	})

	t.Run("concurrent send and close", func(t *testing.T) {
		for range 100 {
			r := NewReply[int]()

			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				_ = r.Send(1)
			}()
			go func() {
				defer wg.Done()
				r.Close()
			}()
			wg.Wait()

			// Exactly one of the two won
			v, err := r.Wait(t.Context())
			if err != nil {
				require.ErrorIs(t, err, ErrMailboxClosed)
			} else {
				assert.Equal(t, 1, v)
			}
		}
	})
}
