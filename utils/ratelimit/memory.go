package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is the single-process counterpart of RedisLimiter, used when
// the BFF runs without Redis.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*window
	now     func() time.Time
}

type window struct {
	start time.Time
	count int
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{buckets: make(map[string]*window), now: time.Now}
}

func (l *MemoryLimiter) current(key string, rule Rule) *window {
	now := l.now()
	w, ok := l.buckets[key]
	if !ok || now.Sub(w.start) >= rule.Window {
		w = &window{start: now}
		l.buckets[key] = w
	}
	return w
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, rule Rule) (bool, error) {
	if rule.Limit <= 0 || rule.Window <= 0 {
		return true, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	w := l.current(key, rule)
	w.count++
	return w.count <= rule.Limit, nil
}

func (l *MemoryLimiter) Reset(_ context.Context, key string, _ Rule) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
	return nil
}

func (l *MemoryLimiter) Remaining(_ context.Context, key string, rule Rule) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return max(rule.Limit-l.current(key, rule).count, 0), nil
}
