// Package questiongen asks a language model for new SAT practice questions
// and checks them before they reach the catalog.
package questiongen

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/llm"
)

// Input describes the question wanted.
type Input struct {
	Section    catalog.Section
	Difficulty catalog.Difficulty

	// Topic optionally narrows the subject, e.g. "linear equations".
	Topic string

	// Avoid lists prompts the model must not repeat.
	Avoid []string
}

// Config tunes generation.
type Config struct {
	// Validators run in order; the first failure rejects the question.
	Validators []Validator

	MaxTokens   int
	Temperature float64

	// MaxAvoid caps how many prompts from Input.Avoid are sent.
	MaxAvoid int
}

// DefaultConfig returns the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			StructuralValidator{},
			ChoicesValidator{},
			DifficultyValidator{},
		},
		MaxTokens:   1000,
		Temperature: 0.7,
		MaxAvoid:    10,
	}
}

// Generator produces English-only questions with origin "generated". The
// caller adds translations and persists them.
type Generator struct {
	provider llm.Provider
	config   Config
}

// New returns a Generator using provider.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, config: cfg}
}

// generated mirrors questionSchema.
type generated struct {
	Question    string   `json:"question"`
	Passage     string   `json:"passage"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Difficulty  int      `json:"difficulty"`
}

// Generate requests one question. Schema failures surface as
// *llm.ErrInvalidResponse, validator failures as *ValidationError.
func (g *Generator) Generate(ctx context.Context, in Input) (*catalog.Question, error) {
	if !in.Section.Valid() {
		return nil, fmt.Errorf("generate question: unknown section %q", in.Section)
	}
	if in.Difficulty == catalog.DifficultyAny {
		in.Difficulty = catalog.DifficultyMedium
	}

	resp, err := g.provider.Generate(llm.WithPurpose(ctx, llm.PurposeQuestionGen), llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserPrompt(userPrompt(in, g.config.MaxAvoid)),
		Schema:      questionSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate %s question: %w", in.Section, err)
	}

	var out generated
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}

	q := &catalog.Question{
		Section:    in.Section,
		Difficulty: catalog.Difficulty(out.Difficulty),
		Prompt:     catalog.Text{catalog.LangEnglish: strings.TrimSpace(out.Question)},
		Options:    map[catalog.Lang][]string{catalog.LangEnglish: trimAll(out.Options)},
		Answer:     strings.TrimSpace(out.Answer),
		Origin:     catalog.OriginGenerated,
	}
	if p := strings.TrimSpace(out.Passage); p != "" {
		q.Passage = catalog.Text{catalog.LangEnglish: p}
	}
	if e := strings.TrimSpace(out.Explanation); e != "" {
		q.Explanation = catalog.Text{catalog.LangEnglish: e}
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(q, in); verr != nil {
			return nil, verr
		}
	}
	return q, nil
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
