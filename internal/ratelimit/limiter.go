package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

const (
	UpstreamOracle = "oracle"
	UpstreamTravel = "travel"
)

// Limiter holds one token bucket per upstream service.
type Limiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults RateLimitConfig
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 5,
		BurstSize:         10,
	}
}

func NewLimiter(config RateLimitConfig) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: config,
	}
}

func NewLimiterWithDefaults() *Limiter {
	return NewLimiter(DefaultConfig())
}

func (l *Limiter) Get(upstream string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[upstream]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists = l.limiters[upstream]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(l.defaults.RequestsPerSecond), l.defaults.BurstSize)
	l.limiters[upstream] = limiter
	return limiter
}

// SetLimit overrides the bucket for one upstream. A non-positive rps
// disables limiting for it.
func (l *Limiter) SetLimit(upstream string, rps float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rps <= 0 {
		l.limiters[upstream] = rate.NewLimiter(rate.Inf, 0)
		return
	}
	if burst <= 0 {
		burst = 1
	}
	l.limiters[upstream] = rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until upstream may be called or ctx is done. A nil Limiter
// never blocks. A wait that cannot finish before the ctx deadline fails
// immediately with an error wrapping context.DeadlineExceeded.
func (l *Limiter) Wait(ctx context.Context, upstream string) error {
	if l == nil {
		return nil
	}
	err := l.Get(upstream).Wait(ctx)
	if err == nil {
		return nil
	}
	if _, ok := ctx.Deadline(); ok && ctx.Err() == nil {
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return err
}
