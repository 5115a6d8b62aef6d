package llm

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerProvider stops calling a provider that keeps failing and fails
// fast with ErrCircuitOpen until the open timeout elapses.
type BreakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker
}

// WithBreaker wraps a Provider with a circuit breaker. Only rate limits
// and outages count against it. A rejected request (4xx) or an invalid
// answer does not.
func WithBreaker(p Provider, cfg BreakerConfig, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}

	settings := gobreaker.Settings{
		Name:        "llm-" + p.ModelID(),
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !isTransient(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &BreakerProvider{inner: p, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *BreakerProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Generate(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrCircuitOpen
	}
	if err != nil {
		return nil, err
	}
	return out.(*Response), nil
}

func (b *BreakerProvider) ModelID() string {
	return b.inner.ModelID()
}

// State reports the breaker state, for diagnostics.
func (b *BreakerProvider) State() string {
	return b.cb.State().String()
}
