package server

import (
	"context"
	"sync"

	chatkit "github.com/Timestep-AI/timestep-ai-sub001"
)

// EventQueue is the side channel collaborator code uses to emit extra UI
// events while the primary generation stream is still producing. Puts can
// come from a different goroutine than the consumer. FIFO per producer.
type EventQueue struct {
	mu     sync.Mutex
	items  []chatkit.ThreadStreamEvent
	ready  chan struct{}
	armed  bool // ready has been closed
	closed bool
}

// NewEventQueue creates an empty open queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{ready: make(chan struct{})}
}

// Put enqueues an event. Puts after Close are dropped.
func (q *EventQueue) Put(ev chatkit.ThreadStreamEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, ev)
	q.arm()
}

// TryGet pops the next event without blocking. The second return is false
// when the queue is currently empty.
func (q *EventQueue) TryGet() (chatkit.ThreadStreamEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	ev := q.items[0]
	q.items = q.items[1:]
	if len(q.items) == 0 && !q.closed {
		q.disarm()
	}
	return ev, true
}

// Get blocks until an event is available, the queue is closed, or ctx is
// done. After Close it keeps returning queued events until the queue is
// empty, then reports closed via the second return.
func (q *EventQueue) Get(ctx context.Context) (chatkit.ThreadStreamEvent, bool, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			ev := q.items[0]
			q.items = q.items[1:]
			if len(q.items) == 0 && !q.closed {
				q.disarm()
			}
			q.mu.Unlock()
			return ev, true, nil
		}
		if q.closed {
			q.mu.Unlock()
			return nil, false, nil
		}
		wait := q.ready
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-wait:
		}
	}
}

// Ready returns a channel that is closed while the queue has pending events
// or has been closed. The merge loop selects on it against the primary
// stream.
func (q *EventQueue) Ready() <-chan struct{} {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ready
}

// Closed reports whether Close has been called.
func (q *EventQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close marks the end of side-channel production. Pending events remain
// retrievable.
func (q *EventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.arm()
}

// arm closes ready so waiters wake. Callers hold q.mu.
func (q *EventQueue) arm() {
	if !q.armed {
		q.armed = true
		close(q.ready)
	}
}

// disarm replaces ready with a fresh open channel. Callers hold q.mu.
func (q *EventQueue) disarm() {
	q.ready = make(chan struct{})
	q.armed = false
}
