package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider names.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig
	Breaker    BreakerConfig
	RateLimit  RateLimitConfig

	// Timeout bounds a single Generate call including retries. Zero
	// disables it.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-sonnet"
	BaseURL string // Optional.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.5-flash"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// BreakerConfig configures the circuit breaker in front of the provider.
type BreakerConfig struct {
	Enabled bool

	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32

	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration

	// HalfOpenRequests is how many probes are let through while half-open.
	HalfOpenRequests uint32
}

// RateLimitConfig throttles outgoing requests. A zero rate disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderAnthropic,
		Anthropic: AnthropicConfig{
			Model: "claude-sonnet",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.5-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Breaker: BreakerConfig{
			Enabled:             true,
			ConsecutiveFailures: 5,
			OpenTimeout:         30 * time.Second,
			HalfOpenRequests:    1,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             3,
		},
		Timeout: 90 * time.Second,
	}
}

// ConfigFromEnv builds a Config from QUESTMAP_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	setString(&cfg.Provider, "QUESTMAP_LLM_PROVIDER")

	setString(&cfg.Anthropic.APIKey, "QUESTMAP_ANTHROPIC_API_KEY")
	setString(&cfg.Anthropic.Model, "QUESTMAP_ANTHROPIC_MODEL")
	setString(&cfg.Anthropic.BaseURL, "QUESTMAP_ANTHROPIC_BASE_URL")

	setString(&cfg.OpenAI.APIKey, "QUESTMAP_OPENAI_API_KEY")
	setString(&cfg.OpenAI.Model, "QUESTMAP_OPENAI_MODEL")
	setString(&cfg.OpenAI.BaseURL, "QUESTMAP_OPENAI_BASE_URL")

	setString(&cfg.Gemini.APIKey, "QUESTMAP_GEMINI_API_KEY")
	setString(&cfg.Gemini.Model, "QUESTMAP_GEMINI_MODEL")

	setString(&cfg.OpenRouter.APIKey, "QUESTMAP_OPENROUTER_API_KEY")
	setString(&cfg.OpenRouter.Model, "QUESTMAP_OPENROUTER_MODEL")
	setString(&cfg.OpenRouter.BaseURL, "QUESTMAP_OPENROUTER_BASE_URL")

	if d, err := time.ParseDuration(os.Getenv("QUESTMAP_LLM_TIMEOUT")); err == nil {
		cfg.Timeout = d
	}
	if v, err := strconv.ParseFloat(os.Getenv("QUESTMAP_LLM_RPS"), 64); err == nil && v >= 0 {
		cfg.RateLimit.RequestsPerSecond = v
	}
	if v, err := strconv.ParseBool(os.Getenv("QUESTMAP_LLM_BREAKER")); err == nil {
		cfg.Breaker.Enabled = v
	}

	return cfg
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// DiscoverConfig probes the vendors' standard API key env vars in priority
// order (Gemini, OpenAI, Anthropic, OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("QUESTMAP_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("QUESTMAP_OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("QUESTMAP_GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("QUESTMAP_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	return nil
}
