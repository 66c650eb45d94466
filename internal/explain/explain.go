// Package explain asks a language model for short SAT-oriented explanations
// of a concept.
package explain

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/llm"
)

// MaxConceptLen bounds the concept text sent to the model.
const MaxConceptLen = 200

var explanationSchema = &llm.Schema{
	Name:        "concept-explanation",
	Description: "Explanation of an SAT concept for a high-school student",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"definition": map[string]any{"type": "string"},
			"importance": map[string]any{"type": "string"},
			"example":    map[string]any{"type": "string"},
			"tips": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []any{"definition", "importance", "example", "tips"},
		"additionalProperties": false,
	},
}

const system = "You are a patient SAT tutor for Omani secondary-school students. Explain concepts in simple terms, with one worked example and practical test-taking tips."

// Explanation is the structured answer of the model.
type Explanation struct {
	Concept    string   `json:"-"`
	Definition string   `json:"definition"`
	Importance string   `json:"importance"`
	Example    string   `json:"example"`
	Tips       []string `json:"tips"`
}

// Service explains concepts through a provider.
type Service struct {
	provider llm.Provider
}

// New returns a Service backed by provider.
func New(provider llm.Provider) *Service {
	return &Service{provider: provider}
}

// Concept explains concept in lang. Blank concepts are rejected before any
// request is made.
func (s *Service) Concept(ctx context.Context, concept string, lang catalog.Lang) (*Explanation, error) {
	concept = strings.Join(strings.Fields(concept), " ")
	if concept == "" {
		return nil, fmt.Errorf("explain: empty concept")
	}
	if len(concept) > MaxConceptLen {
		return nil, fmt.Errorf("explain: concept longer than %d bytes", MaxConceptLen)
	}
	if !lang.Valid() {
		lang = catalog.LangEnglish
	}

	prompt := fmt.Sprintf("Explain the concept of %q in simple terms for a high school student preparing for the SAT. Answer in %s.", concept, lang.Name())
	resp, err := s.provider.Generate(llm.WithPurpose(ctx, llm.PurposeExplain), llm.Request{
		System:      system,
		Messages:    llm.UserPrompt(prompt),
		Schema:      explanationSchema,
		MaxTokens:   1200,
		Temperature: 0.5,
	})
	if err != nil {
		return nil, fmt.Errorf("explain %q: %w", concept, err)
	}

	var out Explanation
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Definition) == "" {
		return nil, fmt.Errorf("explain %q: empty definition", concept)
	}
	out.Concept = concept
	return &out, nil
}
