// Package ratelimit limits requests and websocket moves per key.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Decision is the answer for one request. RetryAfter is set when the request is refused.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds for the Retry-After header; 0 means omit.
func (d Decision) RetryAfterSeconds() int {
	if d.Allowed || d.RetryAfter <= 0 {
		return 0
	}
	sec := int(d.RetryAfter / time.Second)
	if d.RetryAfter%time.Second != 0 {
		sec++
	}
	return sec
}

// Limiter decides whether a request from key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) Decision
}

// Noop allows everything.
type Noop struct{}

func (Noop) Allow(context.Context, string) Decision { return Decision{Allowed: true} }

// InMemory is a sliding-window limiter for a single instance.
type InMemory struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewInMemory allows limit requests per key in any window.
func NewInMemory(limit int, window time.Duration) *InMemory {
	return &InMemory{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (l *InMemory) Allow(_ context.Context, key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	recent := l.prune(key, now)
	if len(recent) >= l.limit {
		return Decision{RetryAfter: recent[0].Add(l.window).Sub(now)}
	}
	l.hits[key] = append(recent, now)
	return Decision{Allowed: true, Remaining: l.limit - len(recent) - 1}
}

// prune drops hits older than the window and forgets idle keys.
func (l *InMemory) prune(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	kept := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(l.hits, key)
		return nil
	}
	l.hits[key] = kept
	return kept
}
