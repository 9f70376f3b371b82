package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, maxFailures int64, window time.Duration) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginLimiter(client, maxFailures, window), mr
}

func TestLoginLimiter_BlocksAfterThreshold(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allowed(ctx, "a@x.com")
		if err != nil || !allowed {
			t.Fatalf("attempt %d should be allowed: allowed=%v err=%v", i, allowed, err)
		}
		if err := limiter.RecordFailure(ctx, "a@x.com"); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}

	allowed, err := limiter.Allowed(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("allowed check: %v", err)
	}
	if allowed {
		t.Fatalf("fourth attempt must be blocked")
	}

	// Other accounts are unaffected.
	allowed, _ = limiter.Allowed(ctx, "b@x.com")
	if !allowed {
		t.Fatalf("unrelated account must not be throttled")
	}
}

func TestLoginLimiter_ResetClearsCounter(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	_ = limiter.RecordFailure(ctx, "a@x.com")
	if allowed, _ := limiter.Allowed(ctx, "a@x.com"); allowed {
		t.Fatalf("should be blocked after threshold")
	}

	if err := limiter.Reset(ctx, "a@x.com"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if allowed, _ := limiter.Allowed(ctx, "a@x.com"); !allowed {
		t.Fatalf("reset must clear the block")
	}
}

func TestLoginLimiter_WindowExpires(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	_ = limiter.RecordFailure(ctx, "a@x.com")
	if allowed, _ := limiter.Allowed(ctx, "a@x.com"); allowed {
		t.Fatalf("should be blocked within the window")
	}

	mr.FastForward(2 * time.Minute)

	if allowed, _ := limiter.Allowed(ctx, "a@x.com"); !allowed {
		t.Fatalf("block must lapse with the window")
	}
}
