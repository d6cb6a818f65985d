package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles watch-mode re-lints with a token bucket.
type Limiter struct {
	bucket *rate.Limiter
}

// NewLimiter allows perSecond re-lints with bursts of burst. A non-positive
// rate disables throttling.
func NewLimiter(perSecond float64, burst int) *Limiter {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &Limiter{bucket: rate.NewLimiter(limit, max(burst, 1))}
}

func (l *Limiter) Allow() bool {
	return l.bucket.Allow()
}

// Acquire takes one token, blocking until it is available. It reports
// whether the caller had to wait.
func (l *Limiter) Acquire(ctx context.Context) (throttled bool, err error) {
	r := l.bucket.Reserve()
	if !r.OK() {
		return false, context.DeadlineExceeded
	}
	delay := r.Delay()
	if delay == 0 {
		return false, nil
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
		return true, nil
	case <-ctx.Done():
		r.Cancel()
		return true, ctx.Err()
	}
}
