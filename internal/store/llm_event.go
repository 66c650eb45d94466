package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/abhisek/satprep/ent"
)

type eventRepo struct {
	client *ent.Client
	seq    *eventSequence
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.next(ctx)
	if err != nil {
		return err
	}

	_, err = r.client.LLMRequestEvent.Create().
		SetSequence(seqNum).
		SetProvider(data.Provider).
		SetModel(data.Model).
		SetPurpose(data.Purpose).
		SetInputTokens(data.InputTokens).
		SetOutputTokens(data.OutputTokens).
		SetLatencyMs(data.LatencyMs).
		SetSuccess(data.Success).
		SetErrorMessage(data.ErrorMessage).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// LLMUsage aggregates the LLM audit trail by purpose and model, ordered by
// purpose then model.
func (s *Store) LLMUsage(ctx context.Context) ([]LLMUsage, error) {
	rows, err := s.client.LLMRequestEvent.Query().All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query LLM request events: %w", err)
	}

	type key struct{ purpose, model string }
	byKey := make(map[key]*LLMUsage)
	latency := make(map[key]int64)
	for _, r := range rows {
		k := key{r.Purpose, r.Model}
		u := byKey[k]
		if u == nil {
			u = &LLMUsage{Purpose: r.Purpose, Model: r.Model}
			byKey[k] = u
		}
		u.Calls++
		if !r.Success {
			u.Failures++
		}
		u.InputTokens += r.InputTokens
		u.OutputTokens += r.OutputTokens
		latency[k] += r.LatencyMs
	}

	out := make([]LLMUsage, 0, len(byKey))
	for k, u := range byKey {
		u.AvgLatencyMs = latency[k] / int64(u.Calls)
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Purpose == out[j].Purpose {
			return out[i].Model < out[j].Model
		}
		return out[i].Purpose < out[j].Purpose
	})
	return out, nil
}
