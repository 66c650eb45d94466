package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name         string
		env          map[string]string
		wantProvider string
		check        func(t *testing.T, c Config)
	}{
		{
			name:         "no keys keeps default",
			env:          nil,
			wantProvider: ProviderAnthropic,
		},
		{
			name:         "vendor key discovered",
			env:          map[string]string{"OPENAI_API_KEY": "sk"},
			wantProvider: ProviderOpenAI,
			check: func(t *testing.T, c Config) {
				assert.Equal(t, "sk", c.OpenAI.APIKey)
			},
		},
		{
			name:         "gemini wins discovery",
			env:          map[string]string{"OPENAI_API_KEY": "sk", "GEMINI_API_KEY": "g"},
			wantProvider: ProviderGemini,
		},
		{
			name:         "default provider with key is kept",
			env:          map[string]string{"SATPREP_ANTHROPIC_API_KEY": "a", "GEMINI_API_KEY": "g"},
			wantProvider: ProviderAnthropic,
		},
		{
			name: "explicit provider and model",
			env: map[string]string{
				"SATPREP_LLM_PROVIDER":       "openrouter",
				"SATPREP_OPENROUTER_API_KEY": "or",
				"SATPREP_OPENROUTER_MODEL":   "openai/gpt-4o-mini",
			},
			wantProvider: ProviderOpenRouter,
			check: func(t *testing.T, c Config) {
				assert.Equal(t, "openai/gpt-4o-mini", c.OpenRouter.Model)
				assert.Equal(t, defaultOpenRouterBaseURL, c.OpenRouter.BaseURL)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ApplyEnv(DefaultConfig(), envMap(tt.env))
			assert.Equal(t, tt.wantProvider, cfg.Provider)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SATPREP_ANTHROPIC_API_KEY")

	cfg.Anthropic.APIKey = "k"
	assert.NoError(t, cfg.Validate())

	cfg.Provider = "palm"
	assert.Error(t, cfg.Validate())

	cfg.Provider = ProviderMock
	assert.NoError(t, cfg.Validate())
}

func TestNewMockProviderStack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err := New(context.Background(), cfg, nil, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())
}
