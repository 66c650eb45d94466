package store

import (
	"context"
	"fmt"

	"github.com/abhisek/satprep/ent"
	"github.com/abhisek/satprep/ent/question"
	"github.com/abhisek/satprep/internal/catalog"
)

type questionRepo struct {
	client *ent.Client
}

func (r *questionRepo) InsertQuestion(ctx context.Context, q *catalog.Question) (int, error) {
	if !q.Section.Valid() {
		return 0, fmt.Errorf("insert question: invalid section %q", q.Section)
	}
	if !q.Difficulty.Valid() {
		return 0, fmt.Errorf("insert question: invalid difficulty %d", q.Difficulty)
	}
	origin := q.Origin
	if origin == "" {
		origin = catalog.OriginCatalog
	}

	builder := r.client.Question.Create().
		SetSection(string(q.Section)).
		SetDifficulty(int(q.Difficulty)).
		SetPrompt(fromText(q.Prompt)).
		SetChoices(fromOptions(q.Options)).
		SetAnswer(q.Answer).
		SetOrigin(string(origin))
	if len(q.Passage) > 0 {
		builder = builder.SetPassage(fromText(q.Passage))
	}
	if len(q.Explanation) > 0 {
		builder = builder.SetExplanation(fromText(q.Explanation))
	}

	saved, err := builder.Save(ctx)
	if err != nil {
		return 0, fmt.Errorf("save question: %w", err)
	}
	return saved.ID, nil
}

func (r *questionRepo) GetQuestion(ctx context.Context, id int) (*catalog.Question, error) {
	row, err := r.client.Question.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get question %d: %w", id, err)
	}
	q := toQuestion(row)
	return &q, nil
}

func (r *questionRepo) QueryQuestions(ctx context.Context, section catalog.Section, difficulty catalog.Difficulty) ([]catalog.Question, error) {
	query := r.client.Question.Query().
		Where(question.Section(string(section)))
	if difficulty != catalog.DifficultyAny {
		query = query.Where(question.Difficulty(int(difficulty)))
	}

	rows, err := query.Order(ent.Asc(question.FieldID)).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}

	out := make([]catalog.Question, len(rows))
	for i, row := range rows {
		out[i] = toQuestion(row)
	}
	return out, nil
}

func (r *questionRepo) CountQuestions(ctx context.Context) (int, error) {
	n, err := r.client.Question.Query().Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func toQuestion(row *ent.Question) catalog.Question {
	return catalog.Question{
		ID:          row.ID,
		Section:     catalog.Section(row.Section),
		Difficulty:  catalog.Difficulty(row.Difficulty),
		Prompt:      toText(row.Prompt),
		Passage:     toText(row.Passage),
		Options:     toOptions(row.Choices),
		Answer:      row.Answer,
		Explanation: toText(row.Explanation),
		Origin:      catalog.Origin(row.Origin),
	}
}

func toText(m map[string]string) catalog.Text {
	if len(m) == 0 {
		return nil
	}
	t := make(catalog.Text, len(m))
	for k, v := range m {
		t[catalog.Lang(k)] = v
	}
	return t
}

func fromText(t catalog.Text) map[string]string {
	m := make(map[string]string, len(t))
	for k, v := range t {
		m[string(k)] = v
	}
	return m
}

func toOptions(m map[string][]string) map[catalog.Lang][]string {
	out := make(map[catalog.Lang][]string, len(m))
	for k, v := range m {
		out[catalog.Lang(k)] = v
	}
	return out
}

func fromOptions(m map[catalog.Lang][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}
