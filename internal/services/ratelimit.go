package services

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedGenerator throttles calls to an inner [Generator] with a token bucket.
//
// One instance is shared by every step and every concurrent pipeline run.
type RateLimitedGenerator struct {
	inner   Generator
	limiter *rate.Limiter
}

// NewRateLimitedGenerator wraps inner with a limit of rps requests per second.
// A non-positive rps disables throttling.
func NewRateLimitedGenerator(inner Generator, rps float64) *RateLimitedGenerator {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &RateLimitedGenerator{inner: inner, limiter: rate.NewLimiter(limit, 1)}
}

// Generate waits for a token, then delegates.
func (g *RateLimitedGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", &GenerationCallError{Step: req.Step, Err: err}
	}
	return g.inner.Generate(ctx, req)
}
