package server

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatkit "github.com/Timestep-AI/timestep-ai-sub001"
)

func collectMerged(t *testing.T, out <-chan Emission) []Emission {
	t.Helper()
	var got []Emission
	for {
		select {
		case em, ok := <-out:
			if !ok {
				return got
			}
			got = append(got, em)
		case <-time.After(2 * time.Second):
			t.Fatal("merged stream did not terminate")
		}
	}
}

func progressTexts(ems []Emission) []string {
	var texts []string
	for _, em := range ems {
		if ev, ok := em.Event.(chatkit.ProgressUpdateEvent); ok {
			texts = append(texts, ev.Text)
		}
	}
	return texts
}

func TestMergeStreamsPrimaryOnly(t *testing.T) {
	primary := make(chan Emission, 2)
	primary <- Emission{Event: progressEvent("a1")}
	primary <- Emission{Event: progressEvent("a2")}
	close(primary)

	out := mergeStreams(context.Background(), primary, NewEventQueue())
	got := collectMerged(t, out)

	assert.Equal(t, []string{"a1", "a2"}, progressTexts(got))
}

func TestMergeStreamsInterleavesSideChannel(t *testing.T) {
	primary := make(chan Emission)
	queue := NewEventQueue()

	go func() {
		primary <- Emission{Event: progressEvent("a1")}
		queue.Put(progressEvent("b1"))
		// give the merge loop a chance to observe b1 before a2
		time.Sleep(20 * time.Millisecond)
		primary <- Emission{Event: progressEvent("a2")}
		close(primary)
	}()

	got := collectMerged(t, mergeStreams(context.Background(), primary, queue))
	texts := progressTexts(got)

	require.Len(t, texts, 3)
	assert.Equal(t, "a1", texts[0])
	// per-source order holds regardless of interleaving
	assert.Less(t, indexOf(texts, "a1"), indexOf(texts, "a2"))
	assert.Contains(t, texts, "b1")
}

func TestMergeStreamsDrainsQueueAfterPrimaryEnds(t *testing.T) {
	primary := make(chan Emission, 1)
	queue := NewEventQueue()

	primary <- Emission{Event: progressEvent("a1")}
	close(primary)
	queue.Put(progressEvent("b1"))
	queue.Put(progressEvent("b2"))

	got := collectMerged(t, mergeStreams(context.Background(), primary, queue))
	texts := progressTexts(got)

	assert.Equal(t, "a1", texts[0])
	assert.Less(t, indexOf(texts, "b1"), indexOf(texts, "b2"))
	assert.Len(t, texts, 3)
	assert.True(t, queue.Closed())
}

func TestMergeStreamsErrorIsTerminal(t *testing.T) {
	primary := make(chan Emission, 3)
	boom := errors.New("provider exploded")
	primary <- Emission{Event: progressEvent("a1")}
	primary <- Emission{Err: boom}
	primary <- Emission{Event: progressEvent("never")}
	close(primary)

	got := collectMerged(t, mergeStreams(context.Background(), primary, NewEventQueue()))

	require.Len(t, got, 2)
	assert.Equal(t, "a1", got[0].Event.(chatkit.ProgressUpdateEvent).Text)
	assert.ErrorIs(t, got[1].Err, boom)
}

func TestMergeStreamsContextCancel(t *testing.T) {
	primary := make(chan Emission) // never closed, never emits
	ctx, cancel := context.WithCancel(context.Background())
	out := mergeStreams(ctx, primary, NewEventQueue())

	cancel()
	got := collectMerged(t, out)

	assert.Empty(t, got, "cancellation must close the stream without emissions")
}

func TestMergeStreamsReleasedWhenConsumerStops(t *testing.T) {
	before := runtime.NumGoroutine()

	for i := 0; i < 10; i++ {
		primary := make(chan Emission, 5)
		for j := 0; j < 5; j++ {
			primary <- Emission{Event: progressEvent("a")}
		}
		close(primary)

		ctx, cancel := context.WithCancel(context.Background())
		out := mergeStreams(ctx, primary, NewEventQueue())

		// take one emission, then walk away mid-stream
		select {
		case <-out:
		case <-time.After(2 * time.Second):
			t.Fatal("no first emission")
		}
		cancel()
	}

	// every merge goroutine must give up its pending send and exit
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDrainQueue(t *testing.T) {
	queue := NewEventQueue()
	queue.Put(progressEvent("x"))
	queue.Put(progressEvent("y"))

	drainQueue(queue)

	assert.True(t, queue.Closed())
	_, ok := queue.TryGet()
	assert.False(t, ok)
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
