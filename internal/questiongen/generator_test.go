package questiongen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/llm"
)

func validOutput() map[string]any {
	return map[string]any{
		"question":    "A taxi in Muscat charges 2 rials plus 0.5 rials per km. What does a 10 km ride cost?",
		"passage":     "",
		"options":     []string{"5 rials", "7 rials", "10 rials", "12 rials"},
		"answer":      "7 rials",
		"explanation": "2 + 0.5 x 10 = 7 rials.",
		"difficulty":  2,
	}
}

func TestGenerate(t *testing.T) {
	mock := llm.NewMockProvider(llm.Reply(validOutput()))
	g := New(mock, DefaultConfig())

	q, err := g.Generate(context.Background(), Input{
		Section:    catalog.SectionMath,
		Difficulty: catalog.DifficultyMedium,
		Topic:      "linear functions",
		Avoid:      []string{"What is 2 + 2?"},
	})
	require.NoError(t, err)
	assert.Equal(t, catalog.SectionMath, q.Section)
	assert.Equal(t, catalog.DifficultyMedium, q.Difficulty)
	assert.Equal(t, catalog.OriginGenerated, q.Origin)
	assert.Equal(t, 1, q.CorrectIndex())
	assert.Empty(t, q.Passage)

	require.Equal(t, 1, mock.Calls())
	req := mock.Requests()[0]
	assert.Equal(t, "sat-question", req.Schema.Name)
	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, "Topic: linear functions")
	assert.Contains(t, prompt, "1. What is 2 + 2?")
	assert.Contains(t, prompt, "Difficulty: medium (2)")
}

func TestGenerateRejections(t *testing.T) {
	tests := []struct {
		name      string
		section   catalog.Section
		mutate    func(m map[string]any)
		validator string
	}{
		{"answer not an option", catalog.SectionMath, func(m map[string]any) { m["answer"] = "8 rials" }, "choices"},
		{"duplicate options", catalog.SectionMath, func(m map[string]any) {
			m["options"] = []string{"a", "A", "b", "c"}
			m["answer"] = "b"
		}, "choices"},
		{"difficulty drift", catalog.SectionMath, func(m map[string]any) { m["difficulty"] = 3 }, "difficulty"},
		{"reading without passage", catalog.SectionReading, func(m map[string]any) {}, "structural"},
		{"blank prompt", catalog.SectionMath, func(m map[string]any) { m["question"] = "   " }, "structural"},
		{"long explanation", catalog.SectionMath, func(m map[string]any) {
			m["explanation"] = strings.Repeat("x", maxExplanationRunes+1)
		}, "structural"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := validOutput()
			tt.mutate(out)
			g := New(llm.NewMockProvider(llm.Reply(out)), DefaultConfig())

			_, err := g.Generate(context.Background(), Input{Section: tt.section, Difficulty: catalog.DifficultyMedium})
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.validator, verr.Validator)
			assert.True(t, verr.Retryable)
		})
	}
}

func TestGenerateSchemaViolation(t *testing.T) {
	out := validOutput()
	out["options"] = []string{"only", "three", "options"}
	g := New(llm.NewMockProvider(llm.Reply(out)), DefaultConfig())

	_, err := g.Generate(context.Background(), Input{Section: catalog.SectionMath, Difficulty: catalog.DifficultyMedium})
	var inv *llm.ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}

func TestGenerateProviderError(t *testing.T) {
	boom := errors.New("offline")
	g := New(llm.NewMockProvider(llm.MockResponse{Err: boom}), DefaultConfig())

	_, err := g.Generate(context.Background(), Input{Section: catalog.SectionWriting})
	assert.ErrorIs(t, err, boom)
}

func TestGenerateUnknownSection(t *testing.T) {
	mock := llm.NewMockProvider()
	g := New(mock, DefaultConfig())

	_, err := g.Generate(context.Background(), Input{Section: "science"})
	assert.Error(t, err)
	assert.Zero(t, mock.Calls())
}

func TestUserPromptCapsAvoidList(t *testing.T) {
	avoid := []string{"q1", "q2", "q3", "q4"}
	p := userPrompt(Input{Section: catalog.SectionWriting, Difficulty: catalog.DifficultyHard, Avoid: avoid}, 2)
	assert.NotContains(t, p, "q2")
	assert.Contains(t, p, "1. q3")
	assert.Contains(t, p, "2. q4")

	p = userPrompt(Input{Section: catalog.SectionWriting, Difficulty: catalog.DifficultyHard}, 2)
	assert.Contains(t, p, "Avoid:\nNone")
}
