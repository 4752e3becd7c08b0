package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimited enforces a minimum interval between successive calls to
// the wrapped client, to stay under provider rate limits.
type RateLimited struct {
	inner   Client
	limiter *rate.Limiter
}

// NewRateLimited wraps a client with a minimum-interval limiter. A zero
// or negative interval disables limiting.
func NewRateLimited(inner Client, minInterval time.Duration) *RateLimited {
	if minInterval <= 0 {
		return &RateLimited{inner: inner, limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &RateLimited{inner: inner, limiter: rate.NewLimiter(rate.Every(minInterval), 1)}
}

// Generate waits for the limiter, then delegates to the wrapped client.
func (r *RateLimited) Generate(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.inner.Generate(ctx, prompt)
}
