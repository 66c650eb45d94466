package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedChat struct {
	Model          string            `json:"model"`
	Messages       []json.RawMessage `json:"messages"`
	ResponseFormat *struct {
		Type       string `json:"type"`
		JSONSchema struct {
			Name string `json:"name"`
		} `json:"json_schema"`
	} `json:"response_format"`
}

func chatServer(t *testing.T, status int, body map[string]any, got *capturedChat) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			json.NewDecoder(r.Body).Decode(got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/v1"
}

func chatCompletion(model, content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   model,
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 30, "completion_tokens": 12, "total_tokens": 42},
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var got capturedChat
	url := chatServer(t, http.StatusOK, chatCompletion("gpt-4o-mini", `{"translation":"سلام"}`, "stop"), &got)

	p, err := NewOpenAIProvider(Credentials{APIKey: "k", Model: "gpt-mini", BaseURL: url})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), Request{
		System:    "Translate.",
		Messages:  UserPrompt("peace"),
		Schema:    translationTestSchema,
		MaxTokens: 64,
	})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
	assert.Equal(t, 30, resp.Usage.InputTokens)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Len(t, got.Messages, 2, "system prompt plus user turn")
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_schema", got.ResponseFormat.Type)
	assert.Equal(t, translationTestSchema.Name, got.ResponseFormat.JSONSchema.Name)
}

func TestOpenAIRejectsSchemaViolation(t *testing.T) {
	url := chatServer(t, http.StatusOK, chatCompletion("gpt-4o-mini", `{"text":"no"}`, "stop"), nil)
	p, err := NewOpenAIProvider(Credentials{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), Request{Messages: UserPrompt("x"), Schema: translationTestSchema})
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}

func TestOpenAIRateLimit(t *testing.T) {
	url := chatServer(t, http.StatusTooManyRequests, map[string]any{
		"error": map[string]any{"message": "slow down", "type": "requests", "code": "rate_limit_exceeded"},
	}, nil)
	p, err := NewOpenAIProvider(Credentials{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), Request{Messages: UserPrompt("x")})
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)
}

func TestOpenRouterProvider(t *testing.T) {
	var got capturedChat
	url := chatServer(t, http.StatusOK, chatCompletion("openai/gpt-4o-mini", `{"translation":"نعم"}`, "stop"), &got)

	p, err := NewOpenRouterProvider(Credentials{APIKey: "sk-or", Model: "openai/gpt-4o-mini", BaseURL: url})
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o-mini", p.ModelID(), "vendor-prefixed IDs pass through")

	_, err = p.Generate(context.Background(), Request{Messages: UserPrompt("yes"), Schema: translationTestSchema})
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o-mini", got.Model)

	_, err = NewOpenRouterProvider(Credentials{Model: "x"})
	assert.Error(t, err)
}
