package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatkit "github.com/Timestep-AI/timestep-ai-sub001"
)

// statusError mimics the SDK error shape carrying an HTTP status.
type statusError struct {
	code int
}

func (e *statusError) Error() string   { return fmt.Sprintf("http %d", e.code) }
func (e *statusError) StatusCode() int { return e.code }

// timeoutError mimics a net.Error timeout.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o deadline reached" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func fastConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), fastConfig(), func() (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransient(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), fastConfig(), func() (int, error) {
		calls++
		if calls < 3 {
			return 0, chatkit.NewStreamError(chatkit.ErrCodeRateLimited, "slow down")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	permanent := chatkit.NewStreamError(chatkit.ErrCodeInvalidRequest, "bad input")
	calls := 0
	_, err := Do(context.Background(), fastConfig(), func() (int, error) {
		calls++
		return 0, permanent
	})
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	transient := &statusError{code: 503}
	calls := 0
	_, err := Do(context.Background(), fastConfig(), func() (int, error) {
		calls++
		return 0, transient
	})
	assert.ErrorIs(t, err, transient)
	assert.Equal(t, 3, calls)
}

func TestDoDisabledSingleAttempt(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Disabled(), func() (int, error) {
		calls++
		return 0, &statusError{code: 500}
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoContextCancelDuringBackoff(t *testing.T) {
	cfg := Config{
		MaxAttempts:  3,
		InitialDelay: time.Minute,
		MaxDelay:     time.Minute,
		Multiplier:   1.0,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	calls := 0
	_, err := Do(ctx, cfg, func() (int, error) {
		calls++
		return 0, &statusError{code: 429}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited stream error", chatkit.NewStreamError(chatkit.ErrCodeRateLimited, ""), true},
		{"internal stream error", chatkit.NewStreamError(chatkit.ErrCodeInternal, ""), true},
		{"invalid request stream error", chatkit.NewStreamError(chatkit.ErrCodeInvalidRequest, ""), false},
		{"not found stream error", chatkit.NewStreamError(chatkit.ErrCodeNotFound, ""), false},
		{"wrapped stream error", fmt.Errorf("provider: %w", chatkit.NewStreamError(chatkit.ErrCodeRateLimited, "")), true},
		{"status 429", &statusError{code: 429}, true},
		{"status 500", &statusError{code: 500}, true},
		{"status 503", &statusError{code: 503}, true},
		{"status 400", &statusError{code: 400}, false},
		{"status 404", &statusError{code: 404}, false},
		{"net timeout", timeoutError{}, true},
		{"url error wrapping timeout", &url.Error{Op: "Post", URL: "https://api.example.com", Err: timeoutError{}}, true},
		{"dns temporary", &net.DNSError{Err: "lookup failed", IsTemporary: true}, true},
		{"dns permanent", &net.DNSError{Err: "no such host", IsNotFound: true}, false},
		{"connection reset message", errors.New("read tcp: connection reset by peer"), true},
		{"plain error", errors.New("invalid api key"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestConfigDelay(t *testing.T) {
	cfg := Config{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
	}

	assert.Equal(t, 100*time.Millisecond, cfg.Delay(0))
	assert.Equal(t, 200*time.Millisecond, cfg.Delay(1))
	assert.Equal(t, 400*time.Millisecond, cfg.Delay(2))
	// capped at MaxDelay
	assert.Equal(t, time.Second, cfg.Delay(10))
	// negative attempt clamps to the initial delay
	assert.Equal(t, 100*time.Millisecond, cfg.Delay(-1))
}

func TestConfigDelayJitter(t *testing.T) {
	cfg := Config{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}

	for i := 0; i < 50; i++ {
		d := cfg.Delay(0)
		assert.GreaterOrEqual(t, d, 90*time.Millisecond)
		assert.LessOrEqual(t, d, 110*time.Millisecond)
	}
}
