package server

import (
	"context"

	chatkit "github.com/Timestep-AI/timestep-ai-sub001"
)

// Emission is one entry of a responder's primary stream: an event or a
// terminal error. A responder sends events and closes its channel when
// finished; a mid-stream failure is sent as a final Emission with Err set.
type Emission struct {
	Event chatkit.ThreadStreamEvent
	Err   error
}

// mergeStreams interleaves the primary generation stream with the
// side-channel queue into one sequence. Per-source order is preserved;
// between sources, whichever event is ready first is emitted first. When the
// primary stream ends the queue is closed and its remaining events are
// drained without blocking, so the merged channel always terminates once the
// responder returns. Cancelling ctx closes the merged channel without
// further emissions, even when the consumer has already stopped receiving.
func mergeStreams(ctx context.Context, primary <-chan Emission, queue *EventQueue) <-chan Emission {
	out := make(chan Emission)

	go func() {
		defer close(out)

		forward := func(em Emission) bool {
			select {
			case out <- em:
				return true
			case <-ctx.Done():
				return false
			}
		}

		sideOpen := true
		for primary != nil {
			var ready <-chan struct{}
			if sideOpen {
				ready = queue.Ready()
			}
			select {
			case <-ctx.Done():
				return
			case em, ok := <-primary:
				if !ok {
					primary = nil
					continue
				}
				if !forward(em) || em.Err != nil {
					return
				}
			case <-ready:
				ev, ok := queue.TryGet()
				if !ok {
					if queue.Closed() {
						sideOpen = false
					}
					continue
				}
				if !forward(Emission{Event: ev}) {
					return
				}
			}
		}

		queue.Close()
		for {
			ev, ok := queue.TryGet()
			if !ok {
				return
			}
			if !forward(Emission{Event: ev}) {
				return
			}
		}
	}()

	return out
}

// drainQueue discards everything currently in the queue. Used during error
// unwinding; never blocks.
func drainQueue(queue *EventQueue) {
	queue.Close()
	for {
		if _, ok := queue.TryGet(); !ok {
			return
		}
	}
}
