package transport

import (
	"context"

	"golang.org/x/time/rate"
)

// tokenBucketLimiter wraps rate.Limiter to implement RateLimiter.
type tokenBucketLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a token-bucket rate limiter allowing rps
// requests per second with the given burst size.
func NewRateLimiter(rps float64, burst int) RateLimiter {
	return &tokenBucketLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until a request is allowed under the rate limit.
func (l *tokenBucketLimiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
