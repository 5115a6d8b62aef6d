package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/questmap/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped as
//
//	caller → timeout → breaker → retry → rate limit → logging → base
//
// eventRepo and log may be nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *zap.Logger) (Provider, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return wrap(base, cfg, eventRepo, log), nil
}

func wrap(base Provider, cfg Config, eventRepo store.EventRepo, log *zap.Logger) Provider {
	p := WithLogging(base, cfg.Provider, eventRepo, log)
	p = WithRateLimit(p, cfg.RateLimit)
	p = WithRetry(p, cfg.Retry)
	if cfg.Breaker.Enabled {
		p = WithBreaker(p, cfg.Breaker, log)
	}
	if cfg.Timeout > 0 {
		p = WithTimeout(p, cfg.Timeout)
	}
	return p
}

// ErrNotConfigured is returned by NewProviderFromEnv when no API key is
// available for any provider.
var ErrNotConfigured = errors.New("no LLM provider configured")

// NewProviderFromEnv builds a provider from QUESTMAP_* variables, falling
// back to the vendors' own API key variables.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo, log *zap.Logger) (Provider, error) {
	cfg := ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		discovered, ok := DiscoverConfig()
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
		}
		discovered.Timeout = cfg.Timeout
		discovered.RateLimit = cfg.RateLimit
		discovered.Breaker = cfg.Breaker
		cfg = discovered
	}
	return NewProvider(ctx, cfg, eventRepo, log)
}

// timeoutProvider bounds every call with a deadline.
type timeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps a Provider so each Generate call gets at most d.
func WithTimeout(p Provider, d time.Duration) Provider {
	return &timeoutProvider{inner: p, timeout: d}
}

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *timeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
