package engine

import (
	"context"
	"time"

	"github.com/Timestep-AI/timestep-ai-sub001/internal/retry"
)

// Retrying wraps a Streamer and retries attempts that fail before producing
// any output. Once a delta has been forwarded the stream is committed and
// errors pass through unchanged.
type Retrying struct {
	inner Streamer
	cfg   retry.Config
}

// WithRetry wraps a streamer with the default retry policy.
func WithRetry(inner Streamer) *Retrying {
	return &Retrying{inner: inner, cfg: retry.DefaultConfig()}
}

// StreamChat retries transient failures of stream establishment.
func (r *Retrying) StreamChat(ctx context.Context, messages []Message) (<-chan StreamEvent, error) {
	out := make(chan StreamEvent)

	go func() {
		defer close(out)

		var lastErr error
		for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
			in, err := r.inner.StreamChat(ctx, messages)
			if err == nil {
				err = r.relay(ctx, in, out)
				if err == nil {
					return
				}
			}

			lastErr = err
			if !retry.IsTransient(err) {
				break
			}

			if attempt < r.cfg.MaxAttempts-1 {
				select {
				case <-ctx.Done():
					out <- StreamEvent{Err: ctx.Err()}
					return
				case <-time.After(r.cfg.Delay(attempt)):
				}
			}
		}

		out <- StreamEvent{Err: lastErr}
	}()

	return out, nil
}

// relay forwards events until the stream ends. An error before the first
// delta returns it for retry; an error after output is forwarded terminally
// and reported as nil so the attempt is not repeated.
func (r *Retrying) relay(ctx context.Context, in <-chan StreamEvent, out chan<- StreamEvent) error {
	started := false
	for ev := range in {
		if ev.Err != nil {
			if !started {
				return ev.Err
			}
			out <- ev
			return nil
		}

		started = true
		select {
		case out <- ev:
		case <-ctx.Done():
			return nil
		}

		if ev.Done {
			return nil
		}
	}
	return nil
}

var _ Streamer = (*Retrying)(nil)
