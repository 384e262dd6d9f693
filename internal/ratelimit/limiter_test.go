package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_GetReturnsSameBucket(t *testing.T) {
	l := NewLimiterWithDefaults()

	a := l.Get(UpstreamOracle)
	b := l.Get(UpstreamOracle)
	c := l.Get(UpstreamTravel)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestLimiter_SetLimitOverrides(t *testing.T) {
	l := NewLimiterWithDefaults()
	l.SetLimit(UpstreamTravel, 2, 4)

	lim := l.Get(UpstreamTravel)
	assert.Equal(t, 4, lim.Burst())
	assert.InDelta(t, 2.0, float64(lim.Limit()), 0.0001)
}

func TestLimiter_WaitRespectsDeadline(t *testing.T) {
	l := NewLimiter(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})

	require.NoError(t, l.Wait(context.Background(), UpstreamOracle))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.Wait(ctx, UpstreamOracle)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NoError(t, ctx.Err(), "wait should fail before the deadline passes")
}

func TestLimiter_WaitCancelled(t *testing.T) {
	l := NewLimiter(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})
	require.NoError(t, l.Wait(context.Background(), UpstreamTravel))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := l.Wait(ctx, UpstreamTravel)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
}

func TestLimiter_DisabledAndNil(t *testing.T) {
	l := NewLimiterWithDefaults()
	l.SetLimit(UpstreamOracle, 0, 0)

	for i := 0; i < 100; i++ {
		require.NoError(t, l.Wait(context.Background(), UpstreamOracle))
	}

	var nilLimiter *Limiter
	assert.NoError(t, nilLimiter.Wait(context.Background(), UpstreamTravel))
}
