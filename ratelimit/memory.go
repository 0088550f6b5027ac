package ratelimit

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter is the single process fallback used when no redis address
// is configured.
type MemoryLimiter struct {
	c       *gocache.Cache
	max     int64
	window  time.Duration
	nowTime func() time.Time
	mu      sync.Mutex
}

type MemoryOption func(*MemoryLimiter)

func WithNowTime(now func() time.Time) MemoryOption {
	return func(l *MemoryLimiter) {
		l.nowTime = now
	}
}

func NewMemoryLimiter(max int, window time.Duration, options ...MemoryOption) *MemoryLimiter {
	l := &MemoryLimiter{
		c:       gocache.New(window, window),
		max:     int64(max),
		window:  window,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.nowTime()
	k, start := windowKey("", key, now, l.window)

	l.mu.Lock()
	hits, err := l.c.IncrementInt64(k, 1)
	if err != nil {
		hits = 1
		l.c.Set(k, hits, l.window)
	}
	l.mu.Unlock()

	return result(hits, l.max, start.Add(l.window).Sub(now)), nil
}
