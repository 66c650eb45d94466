package engine

import (
	"context"
	"fmt"

	"github.com/abhisek/satprep/internal/catalog"
)

// EnsureCatalog inserts questions when the catalog is empty and returns how
// many were inserted. A non-empty catalog is left alone.
func (e *Engine) EnsureCatalog(ctx context.Context, questions []catalog.Question) (int, error) {
	n, err := e.repos.Questions.CountQuestions(ctx)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	return e.LoadCatalog(ctx, questions)
}

// LoadCatalog inserts every question and returns the count inserted.
func (e *Engine) LoadCatalog(ctx context.Context, questions []catalog.Question) (int, error) {
	for i := range questions {
		if _, err := e.repos.Questions.InsertQuestion(ctx, &questions[i]); err != nil {
			return i, fmt.Errorf("load question %d: %w", i+1, err)
		}
	}
	e.logger.Info("catalog loaded", "questions", len(questions))
	return len(questions), nil
}

// AddQuestion stores one question, typically a generated one, and returns
// its ID.
func (e *Engine) AddQuestion(ctx context.Context, q *catalog.Question) (int, error) {
	id, err := e.repos.Questions.InsertQuestion(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("add question: %w", err)
	}
	q.ID = id
	return id, nil
}

// RecentPrompts returns English prompts of the section, newest last, for
// use as a do-not-repeat list when generating.
func (e *Engine) RecentPrompts(ctx context.Context, section catalog.Section, limit int) ([]string, error) {
	qs, err := e.repos.Questions.QueryQuestions(ctx, section, catalog.DifficultyAny)
	if err != nil {
		return nil, fmt.Errorf("recent prompts: %w", err)
	}
	if limit > 0 && len(qs) > limit {
		qs = qs[len(qs)-limit:]
	}
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Prompt.Get(catalog.LangEnglish)
	}
	return out, nil
}
