package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in configuration.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// Credentials identifies one provider account.
type Credentials struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Config selects and configures the model provider.
type Config struct {
	Provider string

	Anthropic  Credentials
	OpenAI     Credentials
	Gemini     Credentials
	OpenRouter Credentials

	Retry RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// RetryConfig controls backoff between attempts.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig uses Anthropic with small, cheap models everywhere.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  Credentials{Model: "claude-haiku"},
		OpenAI:     Credentials{Model: "gpt-4o-mini"},
		Gemini:     Credentials{Model: "gemini-flash"},
		OpenRouter: Credentials{Model: "google/gemini-2.0-flash-001", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 45 * time.Second,
	}
}

// Credentials returns a pointer to the block for the named provider.
func (c *Config) Credentials(provider string) *Credentials {
	switch provider {
	case ProviderAnthropic:
		return &c.Anthropic
	case ProviderOpenAI:
		return &c.OpenAI
	case ProviderGemini:
		return &c.Gemini
	case ProviderOpenRouter:
		return &c.OpenRouter
	}
	return nil
}

// envNames maps each provider to its SATPREP_ variable prefix and the
// vendor's conventional key variable.
var envNames = []struct {
	provider string
	prefix   string
	vendor   string
}{
	{ProviderGemini, "SATPREP_GEMINI", "GEMINI_API_KEY"},
	{ProviderOpenAI, "SATPREP_OPENAI", "OPENAI_API_KEY"},
	{ProviderAnthropic, "SATPREP_ANTHROPIC", "ANTHROPIC_API_KEY"},
	{ProviderOpenRouter, "SATPREP_OPENROUTER", "OPENROUTER_API_KEY"},
}

// ApplyEnv overlays SATPREP_* variables onto cfg. When no provider is named
// explicitly, the first provider with a key in the environment (either the
// SATPREP_ or the vendor variable, Gemini first) is selected.
func ApplyEnv(cfg Config, getenv func(string) string) Config {
	if getenv == nil {
		getenv = os.Getenv
	}

	discovered := ""
	for _, e := range envNames {
		creds := cfg.Credentials(e.provider)
		key := getenv(e.prefix + "_API_KEY")
		if key == "" {
			key = getenv(e.vendor)
		}
		if key != "" {
			creds.APIKey = key
			if discovered == "" {
				discovered = e.provider
			}
		}
		if m := getenv(e.prefix + "_MODEL"); m != "" {
			creds.Model = m
		}
		if u := getenv(e.prefix + "_BASE_URL"); u != "" {
			creds.BaseURL = u
		}
	}

	if p := getenv("SATPREP_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	} else if discovered != "" && cfg.Credentials(cfg.Provider) != nil && cfg.Credentials(cfg.Provider).APIKey == "" {
		cfg.Provider = discovered
	}
	return cfg
}

// Validate reports a missing key for the selected provider.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	creds := (&c).Credentials(c.Provider)
	if creds == nil {
		return fmt.Errorf("unknown model provider %q", c.Provider)
	}
	if creds.APIKey == "" {
		for _, e := range envNames {
			if e.provider == c.Provider {
				return fmt.Errorf("%s_API_KEY (or %s) is required for the %s provider", e.prefix, e.vendor, c.Provider)
			}
		}
	}
	return nil
}
