package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(p Provider) (*RetryProvider, *[]time.Duration) {
	r := WithRetry(p, RetryConfig{
		MaxAttempts: 3,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  2,
	})
	var waits []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return r, &waits
}

func TestRetry(t *testing.T) {
	down := &ErrProviderUnavailable{Err: errors.New("down")}
	invalid := &ErrInvalidResponse{Err: errors.New("bad")}
	ok := Reply(map[string]string{"ok": "yes"})

	tests := []struct {
		name      string
		script    []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt succeeds", []MockResponse{ok}, false, 1},
		{"transient then success", []MockResponse{{Err: down}, ok}, false, 2},
		{"all attempts fail", []MockResponse{{Err: down}, {Err: down}, {Err: down}, ok}, true, 3},
		{"invalid retried once", []MockResponse{{Err: invalid}, ok}, false, 2},
		{"invalid twice gives up", []MockResponse{{Err: invalid}, {Err: invalid}, ok}, true, 2},
		{"max tokens not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, ok}, true, 1},
		{"rate limit retried", []MockResponse{{Err: &ErrRateLimit{Err: errors.New("429")}}, ok}, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.script...)
			r, _ := fastRetry(mock)

			resp, err := r.Generate(context.Background(), Request{})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.JSONEq(t, `{"ok":"yes"}`, string(resp.Content))
			}
			assert.Equal(t, tt.wantCalls, mock.Calls())
		})
	}
}

func TestRetryBackoffGrowsWithJitter(t *testing.T) {
	down := MockResponse{Err: &ErrProviderUnavailable{}}
	r, waits := fastRetry(NewMockProvider(down, down, down))

	_, err := r.Generate(context.Background(), Request{})
	require.Error(t, err)
	require.Len(t, *waits, 2)
	assert.InDelta(t, 100*time.Millisecond, (*waits)[0], float64(20*time.Millisecond))
	assert.InDelta(t, 200*time.Millisecond, (*waits)[1], float64(40*time.Millisecond))
}

func TestRetryHonorsRetryAfter(t *testing.T) {
	r, waits := fastRetry(NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 3 * time.Second}},
		Reply(map[string]int{"n": 1}),
	))

	_, err := r.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{3 * time.Second}, *waits)
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{}}, Reply(1))
	r, _ := fastRetry(mock)

	_, err := r.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.Calls())
}
