package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// SourceLimiter applies a token-bucket limit per fare source. Together with
// the scheduler's fixed pool size it is the only knob on external
// rate-limit pressure.
type SourceLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults Config
}

type Config struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 10,
		BurstSize:         20,
	}
}

func NewSourceLimiter(cfg Config) *SourceLimiter {
	return &SourceLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: cfg,
	}
}

func (l *SourceLimiter) limiter(source string) *rate.Limiter {
	l.mu.RLock()
	lim, ok := l.limiters[source]
	l.mu.RUnlock()
	if ok {
		return lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok = l.limiters[source]; ok {
		return lim
	}
	lim = rate.NewLimiter(rate.Limit(l.defaults.RequestsPerSecond), l.defaults.BurstSize)
	l.limiters[source] = lim
	return lim
}

// SetSourceLimit overrides the default bucket for one source.
func (l *SourceLimiter) SetSourceLimit(source string, rps float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiters[source] = rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until the source's bucket permits a call or ctx is done.
func (l *SourceLimiter) Wait(ctx context.Context, source string) error {
	return l.limiter(source).Wait(ctx)
}
