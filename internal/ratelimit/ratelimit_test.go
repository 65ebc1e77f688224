package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestNoop_AlwaysAllows(t *testing.T) {
	var lim Noop
	for i := 0; i < 100; i++ {
		if d := lim.Allow(context.Background(), "any"); !d.Allowed || d.RetryAfterSeconds() != 0 {
			t.Errorf("Noop.Allow: got %+v", d)
		}
	}
}

func TestInMemory_AllowsWithinLimit(t *testing.T) {
	lim := NewInMemory(3, time.Minute)
	for i := 0; i < 3; i++ {
		d := lim.Allow(context.Background(), "client1")
		if !d.Allowed {
			t.Errorf("request %d: expected allowed", i+1)
		}
		if d.Remaining != 2-i {
			t.Errorf("request %d: remaining %d", i+1, d.Remaining)
		}
	}
}

func TestInMemory_RejectsOverLimit(t *testing.T) {
	lim := NewInMemory(2, time.Minute)
	ctx := context.Background()
	lim.Allow(ctx, "client1")
	lim.Allow(ctx, "client1")
	d := lim.Allow(ctx, "client1")
	if d.Allowed {
		t.Error("expected refusal after limit exceeded")
	}
	if d.RetryAfterSeconds() <= 0 {
		t.Errorf("expected positive Retry-After, got %d", d.RetryAfterSeconds())
	}
}

func TestInMemory_DifferentKeysIndependent(t *testing.T) {
	lim := NewInMemory(1, time.Minute)
	ctx := context.Background()
	lim.Allow(ctx, "a")
	if d := lim.Allow(ctx, "b"); !d.Allowed {
		t.Error("different key should be allowed")
	}
	if d := lim.Allow(ctx, "a"); d.Allowed {
		t.Error("same key over limit should be refused")
	}
}

func TestInMemory_WindowSlides(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lim := NewInMemory(1, time.Minute)
	lim.now = func() time.Time { return now }
	ctx := context.Background()
	lim.Allow(ctx, "a")
	now = now.Add(30 * time.Second)
	if d := lim.Allow(ctx, "a"); d.Allowed || d.RetryAfterSeconds() != 30 {
		t.Errorf("inside window: %+v", d)
	}
	now = now.Add(31 * time.Second)
	if d := lim.Allow(ctx, "a"); !d.Allowed {
		t.Errorf("after window: %+v", d)
	}
}

func TestDecision_RetryAfterSecondsRoundsUp(t *testing.T) {
	d := Decision{RetryAfter: 1500 * time.Millisecond}
	if got := d.RetryAfterSeconds(); got != 2 {
		t.Errorf("got %d want 2", got)
	}
}
