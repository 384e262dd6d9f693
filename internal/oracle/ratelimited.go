package oracle

import (
	"context"

	"github.com/dharmasatrya/jetset/internal/ratelimit"
)

// RateLimited waits on the shared oracle bucket before every call.
type RateLimited struct {
	next    Oracle
	limiter *ratelimit.Limiter
}

func NewRateLimited(next Oracle, limiter *ratelimit.Limiter) *RateLimited {
	return &RateLimited{next: next, limiter: limiter}
}

func (r *RateLimited) Name() string {
	return r.next.Name()
}

func (r *RateLimited) Invoke(ctx context.Context, system, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx, ratelimit.UpstreamOracle); err != nil {
		return "", &Error{Oracle: r.next.Name(), Detail: "rate limit wait", Err: err}
	}
	return r.next.Invoke(ctx, system, prompt)
}
