package service

import (
	"context"
	"strings"
	"sync"
	"time"
)

// RateDecision es el resultado de consultar el limiter para una clave.
type RateDecision struct {
	Allowed   bool
	Remaining int
	// RetryAfter is only set on a denial: time until the window frees a slot.
	RetryAfter time.Duration
}

// RateLimiter limita la frecuencia de generacion de reportes por clave.
type RateLimiter interface {
	Allow(ctx context.Context, key string) RateDecision
}

func normalizeRateKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

type memoryRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
	now    func() time.Time
}

// NewMemoryRateLimiter crea un rate limiter en memoria con ventana deslizante.
func NewMemoryRateLimiter(window time.Duration, max int) RateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &memoryRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *memoryRateLimiter) Allow(_ context.Context, key string) RateDecision {
	key = normalizeRateKey(key)
	if key == "" {
		return RateDecision{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	entries := l.hits[key]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[key] = kept
		return RateDecision{RetryAfter: kept[0].Add(l.window).Sub(now)}
	}
	l.hits[key] = append(kept, now)
	return RateDecision{Allowed: true, Remaining: l.max - len(kept) - 1}
}
