package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/satprep/internal/store"
)

// AuditProvider appends an LLMRequestEvent for every call and logs it.
type AuditProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
	logger   *slog.Logger
	now      func() time.Time
}

// WithAudit wraps p. providerName is recorded with each event; events may be
// nil to log only.
func WithAudit(p Provider, providerName string, events store.EventRepo, logger *slog.Logger) *AuditProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditProvider{inner: p, provider: providerName, events: events, logger: logger, now: time.Now}
}

func (a *AuditProvider) ModelID() string { return a.inner.ModelID() }

func (a *AuditProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := a.now()
	resp, err := a.inner.Generate(ctx, req)
	latency := a.now().Sub(start)

	ev := store.LLMRequestEventData{
		Provider:  a.provider,
		Model:     a.inner.ModelID(),
		Purpose:   string(PurposeFrom(ctx)),
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
	}
	attrs := []any{
		"provider", ev.Provider,
		"purpose", ev.Purpose,
		"latency", latency,
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		attrs = append(attrs, "tokens", resp.Usage.Total())
		if price, ok := PriceOf(resp.Model); ok {
			attrs = append(attrs, "cost_usd", price.Cost(resp.Usage))
		}
	}
	attrs = append(attrs, "model", ev.Model)

	if err != nil {
		ev.ErrorMessage = err.Error()
		a.logger.Warn("model request failed", append(attrs, "err", err)...)
	} else {
		a.logger.Debug("model request", attrs...)
	}

	if a.events != nil {
		// The audit row must not fail the caller's request.
		if aerr := a.events.AppendLLMRequest(context.WithoutCancel(ctx), ev); aerr != nil {
			a.logger.Warn("append model request event", "err", aerr)
		}
	}
	return resp, err
}
