package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/satprep/internal/store"
)

type recordingEvents struct {
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingEvents) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuditRecordsSuccess(t *testing.T) {
	events := &recordingEvents{}
	mock := NewMockProvider(MockResponse{Content: []byte(`{"translation":"x"}`), Usage: Usage{InputTokens: 7, OutputTokens: 3}})
	p := WithAudit(mock, ProviderMock, events, quietLogger())

	ctx := WithPurpose(context.Background(), PurposeTranslate)
	_, err := p.Generate(ctx, Request{Messages: UserPrompt("x")})
	require.NoError(t, err)

	require.Len(t, events.events, 1)
	ev := events.events[0]
	assert.Equal(t, "mock", ev.Provider)
	assert.Equal(t, "translate", ev.Purpose)
	assert.True(t, ev.Success)
	assert.Equal(t, 7, ev.InputTokens)
	assert.Equal(t, 3, ev.OutputTokens)
}

func TestAuditRecordsFailureAndSurvivesStoreError(t *testing.T) {
	events := &recordingEvents{err: errors.New("db locked")}
	boom := &ErrProviderUnavailable{Err: errors.New("boom")}
	p := WithAudit(NewMockProvider(MockResponse{Err: boom}), ProviderMock, events, quietLogger())

	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, boom)

	require.Len(t, events.events, 1)
	assert.False(t, events.events[0].Success)
	assert.Contains(t, events.events[0].ErrorMessage, "boom")
	assert.Equal(t, "unknown", events.events[0].Purpose)
}

func TestPrice(t *testing.T) {
	p, ok := PriceOf("gpt-4o-mini")
	require.True(t, ok)
	assert.InDelta(t, 0.75, p.Cost(Usage{InputTokens: 1_000_000, OutputTokens: 1_000_000}), 1e-9)

	_, ok = PriceOf("no-such-model")
	assert.False(t, ok)
}
