package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

var translationTestSchema = &Schema{
	Name: "test-translation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"translation": map[string]any{"type": "string"},
		},
		"required":             []string{"translation"},
		"additionalProperties": false,
	},
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		raw     string
		wantErr bool
	}{
		{"nil schema accepts text", nil, "plain text", false},
		{"valid", translationTestSchema, `{"translation":"x"}`, false},
		{"missing required", translationTestSchema, `{}`, true},
		{"wrong type", translationTestSchema, `{"translation":3}`, true},
		{"extra property", translationTestSchema, `{"translation":"x","note":"y"}`, true},
		{"not json", translationTestSchema, `translation: x`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(tt.schema, json.RawMessage(tt.raw))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var inv *ErrInvalidResponse
			assert.ErrorAs(t, err, &inv)
		})
	}
}

func TestCompileSchemaIsCached(t *testing.T) {
	a, err := compileSchema(translationTestSchema)
	assert.NoError(t, err)
	b, err := compileSchema(translationTestSchema)
	assert.NoError(t, err)
	assert.Same(t, a, b)
}
