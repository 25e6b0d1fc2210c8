package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatkit "github.com/Timestep-AI/timestep-ai-sub001"
)

func progressEvent(text string) chatkit.ThreadStreamEvent {
	return chatkit.NewProgressUpdateEvent(text)
}

func TestEventQueueFIFO(t *testing.T) {
	q := NewEventQueue()
	q.Put(progressEvent("one"))
	q.Put(progressEvent("two"))
	q.Put(progressEvent("three"))

	for _, want := range []string{"one", "two", "three"} {
		ev, ok := q.TryGet()
		require.True(t, ok)
		assert.Equal(t, want, ev.(chatkit.ProgressUpdateEvent).Text)
	}

	_, ok := q.TryGet()
	assert.False(t, ok)
}

func TestEventQueueGet(t *testing.T) {
	t.Run("blocks until put from another goroutine", func(t *testing.T) {
		q := NewEventQueue()
		go func() {
			time.Sleep(10 * time.Millisecond)
			q.Put(progressEvent("late"))
		}()

		ev, ok, err := q.Get(context.Background())
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "late", ev.(chatkit.ProgressUpdateEvent).Text)
	})

	t.Run("close wakes a blocked get", func(t *testing.T) {
		q := NewEventQueue()
		go func() {
			time.Sleep(10 * time.Millisecond)
			q.Close()
		}()

		_, ok, err := q.Get(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("context cancellation unblocks", func(t *testing.T) {
		q := NewEventQueue()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, _, err := q.Get(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("queued events survive close", func(t *testing.T) {
		q := NewEventQueue()
		q.Put(progressEvent("before"))
		q.Close()

		ev, ok, err := q.Get(context.Background())
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "before", ev.(chatkit.ProgressUpdateEvent).Text)

		_, ok, err = q.Get(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestEventQueueClose(t *testing.T) {
	q := NewEventQueue()
	q.Close()
	assert.True(t, q.Closed())

	t.Run("put after close is dropped", func(t *testing.T) {
		q.Put(progressEvent("dropped"))
		_, ok := q.TryGet()
		assert.False(t, ok)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		q.Close()
		assert.True(t, q.Closed())
	})
}

func TestEventQueueReady(t *testing.T) {
	q := NewEventQueue()

	select {
	case <-q.Ready():
		t.Fatal("empty open queue must not be ready")
	default:
	}

	q.Put(progressEvent("x"))
	select {
	case <-q.Ready():
	default:
		t.Fatal("queue with a pending event must be ready")
	}

	// Draining the last event re-arms the wait.
	_, ok := q.TryGet()
	require.True(t, ok)
	select {
	case <-q.Ready():
		t.Fatal("drained queue must not be ready")
	default:
	}

	q.Close()
	select {
	case <-q.Ready():
	default:
		t.Fatal("closed queue must be ready")
	}
}
