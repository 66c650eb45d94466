package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anthropicServer(t *testing.T, status int, body map[string]any) Credentials {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return Credentials{APIKey: "test-key", Model: "claude-haiku", BaseURL: srv.URL}
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-haiku-4-5-20251001",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 42, "output_tokens": 17},
	}
}

func TestAnthropicGenerate(t *testing.T) {
	creds := anthropicServer(t, http.StatusOK, anthropicMessage(`{"translation":"مرحبا"}`, "end_turn"))
	p, err := NewAnthropicProvider(creds, option.WithMaxRetries(0))
	require.NoError(t, err)
	assert.Equal(t, "claude-haiku-4-5-20251001", p.ModelID())

	resp, err := p.Generate(context.Background(), Request{
		System:    "Translate to Arabic.",
		Messages:  UserPrompt("hello"),
		Schema:    translationTestSchema,
		MaxTokens: 128,
	})
	require.NoError(t, err)
	assert.Equal(t, StopEnd, resp.StopReason)
	assert.Equal(t, 59, resp.Usage.Total())

	var out struct {
		Translation string `json:"translation"`
	}
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, "مرحبا", out.Translation)
}

func TestAnthropicErrors(t *testing.T) {
	apiError := func(kind string) map[string]any {
		return map[string]any{"type": "error", "error": map[string]any{"type": kind, "message": "nope"}}
	}

	t.Run("rate limit", func(t *testing.T) {
		p, err := NewAnthropicProvider(anthropicServer(t, http.StatusTooManyRequests, apiError("rate_limit_error")), option.WithMaxRetries(0))
		require.NoError(t, err)
		_, err = p.Generate(context.Background(), Request{Messages: UserPrompt("x"), MaxTokens: 10})
		var rl *ErrRateLimit
		assert.ErrorAs(t, err, &rl)
	})

	t.Run("server error", func(t *testing.T) {
		p, err := NewAnthropicProvider(anthropicServer(t, http.StatusInternalServerError, apiError("api_error")), option.WithMaxRetries(0))
		require.NoError(t, err)
		_, err = p.Generate(context.Background(), Request{Messages: UserPrompt("x"), MaxTokens: 10})
		var unavail *ErrProviderUnavailable
		assert.ErrorAs(t, err, &unavail)
	})

	t.Run("truncated structured output", func(t *testing.T) {
		creds := anthropicServer(t, http.StatusOK, anthropicMessage(`{"transl`, "max_tokens"))
		p, err := NewAnthropicProvider(creds, option.WithMaxRetries(0))
		require.NoError(t, err)
		_, err = p.Generate(context.Background(), Request{Messages: UserPrompt("x"), Schema: translationTestSchema, MaxTokens: 4})
		var mt *ErrMaxTokensExceeded
		assert.ErrorAs(t, err, &mt)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := NewAnthropicProvider(Credentials{})
		assert.Error(t, err)
	})
}

func TestAlias(t *testing.T) {
	assert.Equal(t, "claude-sonnet-4-5-20250929", alias("claude-sonnet", anthropicAliases))
	assert.Equal(t, "claude-opus-4-1", alias("claude-opus-4-1", anthropicAliases))
	assert.Equal(t, "gpt-4o-mini", alias("gpt-mini", openaiAliases))
	assert.Equal(t, "gemini-2.5-flash", alias("gemini-flash", geminiAliases))
}
