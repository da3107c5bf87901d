package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type stubClient struct {
	mu      sync.Mutex
	counts  map[string]int64
	ttls    map[string]time.Duration
	incrErr error
}

func newStubClient() *stubClient {
	return &stubClient{counts: make(map[string]int64), ttls: make(map[string]time.Duration)}
}

func (s *stubClient) Ping(ctx context.Context) error { return nil }
func (s *stubClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}
func (s *stubClient) Get(ctx context.Context, key string) (string, error) { return "", Nil }

func (s *stubClient) Incr(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.incrErr != nil {
		return 0, s.incrErr
	}
	s.counts[key]++
	return s.counts[key], nil
}

func (s *stubClient) TTL(ctx context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ttls[key], nil
}

func (s *stubClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ttls[key] = expiration
	return nil
}

func (s *stubClient) Del(ctx context.Context, keys ...string) error { return nil }
func (s *stubClient) Close() error                                  { return nil }

var _ RedisClient = (*stubClient)(nil)

func TestRateLimiterFixedWindow(t *testing.T) {
	client := newStubClient()
	rl := NewRateLimiter(client)
	ctx := context.Background()
	key := ClientKey("order", "203.0.113.7")

	for i := 0; i < 3; i++ {
		allowed, _, err := rl.Allow(ctx, key, 3, time.Minute)
		if err != nil {
			t.Fatalf("Allow %d: %v", i+1, err)
		}
		if !allowed {
			t.Fatalf("request %d denied inside the limit", i+1)
		}
	}

	allowed, retryAfter, err := rl.Allow(ctx, key, 3, time.Minute)
	if err != nil {
		t.Fatalf("Allow over limit: %v", err)
	}
	if allowed {
		t.Fatal("request over the limit was allowed")
	}
	if retryAfter != time.Minute {
		t.Errorf("retryAfter = %s, want the window TTL", retryAfter)
	}

	// The window TTL is only set on the first hit.
	if client.ttls[key] != time.Minute {
		t.Errorf("ttl = %s, want 1m", client.ttls[key])
	}
}

func TestRateLimiterSeparateKeys(t *testing.T) {
	client := newStubClient()
	rl := NewRateLimiter(client)
	ctx := context.Background()

	if allowed, _, _ := rl.Allow(ctx, ClientKey("order", "a"), 1, time.Minute); !allowed {
		t.Fatal("first client denied")
	}
	if allowed, _, _ := rl.Allow(ctx, ClientKey("order", "a"), 1, time.Minute); allowed {
		t.Fatal("first client not limited")
	}
	if allowed, _, _ := rl.Allow(ctx, ClientKey("order", "b"), 1, time.Minute); !allowed {
		t.Fatal("second client was limited by the first client's counter")
	}
}

func TestRateLimiterSurfacesRedisErrors(t *testing.T) {
	client := newStubClient()
	client.incrErr = errors.New("connection refused")
	rl := NewRateLimiter(client)

	// Callers fail open on error; Allow only reports it.
	if _, _, err := rl.Allow(context.Background(), "k", 1, time.Minute); err == nil {
		t.Fatal("expected error when redis is down")
	}
}
