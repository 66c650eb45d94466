package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestToGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt":     map[string]any{"type": "string", "description": "question text"},
			"difficulty": map[string]any{"type": "integer"},
			"options":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"section":    map[string]any{"type": "string", "enum": []any{"math", "reading"}},
		},
		"required": []string{"prompt", "options"},
	}

	s := toGeminiSchema(def)
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.ElementsMatch(t, []string{"prompt", "options"}, s.Required)
	require.Contains(t, s.Properties, "options")
	assert.Equal(t, genai.TypeArray, s.Properties["options"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["options"].Items.Type)
	assert.Equal(t, genai.TypeInteger, s.Properties["difficulty"].Type)
	assert.Equal(t, "question text", s.Properties["prompt"].Description)
	assert.Equal(t, []string{"math", "reading"}, s.Properties["section"].Enum)
}

func TestNewGeminiProvider(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), Credentials{})
	assert.Error(t, err)

	p, err := NewGeminiProvider(context.Background(), Credentials{APIKey: "k", Model: "gemini-pro"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", p.ModelID())
}
