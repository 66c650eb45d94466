// Package translate moves practice content between English and Arabic
// through a language model.
package translate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/llm"
)

var textSchema = &llm.Schema{
	Name:        "translation",
	Description: "Translation of a piece of text",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"translation": map[string]any{"type": "string"},
		},
		"required":             []any{"translation"},
		"additionalProperties": false,
	},
}

var questionSchema = &llm.Schema{
	Name:        "arabic-question",
	Description: "Arabic translation of an SAT question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question":    map[string]any{"type": "string"},
			"passage":     map[string]any{"type": "string"},
			"options":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"explanation": map[string]any{"type": "string"},
		},
		"required":             []any{"question", "passage", "options", "explanation"},
		"additionalProperties": false,
	},
}

const (
	system     = "You translate educational content for Omani secondary-school students into Modern Standard Arabic. Keep meaning, numbers and difficulty unchanged. Keep mathematical notation as is."
	textSystem = "You translate educational content for Omani secondary-school students between Arabic and English. Detect the source language yourself. Keep meaning and numbers unchanged. Keep mathematical notation as is."
)

type cacheKey struct {
	text string
	to   catalog.Lang
}

// Service translates text and questions. Text translations are cached per
// Service for its lifetime, keyed by text and target language.
type Service struct {
	provider llm.Provider

	mu    sync.Mutex
	cache map[cacheKey]string
}

// New returns a Service backed by provider.
func New(provider llm.Provider) *Service {
	return &Service{provider: provider, cache: make(map[cacheKey]string)}
}

// Text translates text into the target language. The source language is
// detected by the model. Blank input is returned unchanged.
func (s *Service) Text(ctx context.Context, text string, to catalog.Lang) (string, error) {
	if !to.Valid() {
		return "", fmt.Errorf("translate text: unknown target language %q", to)
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text, nil
	}
	key := cacheKey{text: trimmed, to: to}

	s.mu.Lock()
	cached, ok := s.cache[key]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, llm.PurposeTranslate), llm.Request{
		System:      textSystem,
		Messages:    llm.UserPrompt(fmt.Sprintf("Translate into %s:\n\n%s", to.Name(), trimmed)),
		Schema:      textSchema,
		MaxTokens:   1000,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("translate text: %w", err)
	}

	var out struct {
		Translation string `json:"translation"`
	}
	if err := resp.Decode(&out); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.cache[key] = out.Translation
	s.mu.Unlock()
	return out.Translation, nil
}

// Question fills in the Arabic prompt, passage, options and explanation of
// q in place. The option count must survive translation.
func (s *Service) Question(ctx context.Context, q *catalog.Question) error {
	en := q.OptionsIn(catalog.LangEnglish)

	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", q.Prompt.Get(catalog.LangEnglish))
	fmt.Fprintf(&b, "Passage: %s\n", q.Passage.Get(catalog.LangEnglish))
	b.WriteString("Options:\n")
	for i, o := range en {
		fmt.Fprintf(&b, "%d. %s\n", i+1, o)
	}
	fmt.Fprintf(&b, "Explanation: %s", q.Explanation.Get(catalog.LangEnglish))

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, llm.PurposeTranslate), llm.Request{
		System:      system + " Return the options in the same order.",
		Messages:    llm.UserPrompt(b.String()),
		Schema:      questionSchema,
		MaxTokens:   2000,
		Temperature: 0.3,
	})
	if err != nil {
		return fmt.Errorf("translate question: %w", err)
	}

	var out struct {
		Question    string   `json:"question"`
		Passage     string   `json:"passage"`
		Options     []string `json:"options"`
		Explanation string   `json:"explanation"`
	}
	if err := resp.Decode(&out); err != nil {
		return err
	}
	if len(out.Options) != len(en) {
		return fmt.Errorf("translate question: got %d options, want %d", len(out.Options), len(en))
	}

	setText(&q.Prompt, out.Question)
	setText(&q.Passage, out.Passage)
	setText(&q.Explanation, out.Explanation)
	if q.Options == nil {
		q.Options = make(map[catalog.Lang][]string)
	}
	q.Options[catalog.LangArabic] = out.Options
	return nil
}

func setText(t *catalog.Text, ar string) {
	ar = strings.TrimSpace(ar)
	if ar == "" {
		return
	}
	if *t == nil {
		*t = catalog.Text{}
	}
	(*t)[catalog.LangArabic] = ar
}
