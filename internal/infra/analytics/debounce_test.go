// File: internal/infra/analytics/debounce_test.go
package analytics

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	red "adobe-subscription-store/internal/infra/redis"
)

type memCache struct {
	mu     sync.Mutex
	counts map[string]int64
	ttls   map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{counts: make(map[string]int64), ttls: make(map[string]time.Duration)}
}

func (c *memCache) Ping(ctx context.Context) error { return nil }

func (c *memCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (c *memCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.counts[key]; ok {
		return strconv.FormatInt(n, 10), nil
	}
	return "", red.Nil
}

func (c *memCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[key]++
	return c.counts[key], nil
}

func (c *memCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttls[key], nil
}

func (c *memCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttls[key] = expiration
	return nil
}

func (c *memCache) Del(ctx context.Context, keys ...string) error { return nil }
func (c *memCache) Close() error                                  { return nil }

var _ red.RedisClient = (*memCache)(nil)

func todayKey(page string) string {
	return fmt.Sprintf("pv:%s:%s", time.Now().Format("2006-01-02"), page)
}

func TestTrackDebouncesRepeatHits(t *testing.T) {
	cache := newMemCache()
	logger := zerolog.Nop()
	tr := NewTracker(cache, time.Minute, &logger)
	ctx := context.Background()

	tr.Track(ctx, "home", "visitor-1")
	tr.Track(ctx, "home", "visitor-1") // reload inside the window
	tr.Track(ctx, "home", "visitor-2")
	tr.Track(ctx, "pricing", "visitor-1") // different page is a fresh hit

	if got := cache.counts[todayKey("home")]; got != 2 {
		t.Errorf("home views = %d, want 2", got)
	}
	if got := cache.counts[todayKey("pricing")]; got != 1 {
		t.Errorf("pricing views = %d, want 1", got)
	}
}

func TestTrackIgnoresEmptyPage(t *testing.T) {
	cache := newMemCache()
	logger := zerolog.Nop()
	tr := NewTracker(cache, time.Minute, &logger)

	tr.Track(context.Background(), "", "visitor-1")
	if len(cache.counts) != 0 {
		t.Errorf("counters = %v, want none", cache.counts)
	}
}

func TestTrackSetsRetention(t *testing.T) {
	cache := newMemCache()
	logger := zerolog.Nop()
	tr := NewTracker(cache, time.Minute, &logger)

	tr.Track(context.Background(), "home", "visitor-1")
	if ttl := cache.ttls[todayKey("home")]; ttl != retention {
		t.Errorf("ttl = %s, want %s", ttl, retention)
	}
}

func TestCount(t *testing.T) {
	cache := newMemCache()
	logger := zerolog.Nop()
	tr := NewTracker(cache, time.Minute, &logger)
	ctx := context.Background()

	tr.Track(ctx, "home", "a")
	tr.Track(ctx, "home", "b")

	n, err := tr.Count(ctx, time.Now(), "home")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}

	// A day with no traffic reads as zero, not as a cache miss error.
	n, err = tr.Count(ctx, time.Now().AddDate(0, 0, -1), "home")
	if err != nil {
		t.Fatalf("Count (empty day): %v", err)
	}
	if n != 0 {
		t.Errorf("empty day count = %d, want 0", n)
	}
}

func TestAdmitExpiresWindow(t *testing.T) {
	cache := newMemCache()
	logger := zerolog.Nop()
	tr := NewTracker(cache, 10*time.Millisecond, &logger)

	now := time.Now()
	if !tr.admit("home|v", now) {
		t.Fatal("first hit must be admitted")
	}
	if tr.admit("home|v", now.Add(5*time.Millisecond)) {
		t.Error("hit inside the window must be dropped")
	}
	if !tr.admit("home|v", now.Add(15*time.Millisecond)) {
		t.Error("hit after the window must be admitted")
	}
}
