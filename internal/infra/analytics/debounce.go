// File: internal/infra/analytics/debounce.go
package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	red "adobe-subscription-store/internal/infra/redis"
)

const retention = 90 * 24 * time.Hour

// Tracker counts pixel hits into daily Redis counters. Repeat hits from the
// same visitor on the same page inside the debounce window are dropped, so a
// reload storm counts once.
type Tracker struct {
	cache  red.RedisClient
	window time.Duration
	log    *zerolog.Logger

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewTracker(cache red.RedisClient, window time.Duration, logger *zerolog.Logger) *Tracker {
	if window <= 0 {
		window = 30 * time.Second
	}
	return &Tracker{cache: cache, window: window, log: logger, seen: make(map[string]time.Time)}
}

func (t *Tracker) Track(ctx context.Context, page, visitor string) {
	if page == "" {
		return
	}
	if !t.admit(page+"|"+visitor, time.Now()) {
		return
	}
	key := fmt.Sprintf("pv:%s:%s", time.Now().Format("2006-01-02"), page)
	if _, err := t.cache.Incr(ctx, key); err != nil {
		t.log.Warn().Err(err).Str("page", page).Msg("page view counter increment failed")
		return
	}
	_ = t.cache.Expire(ctx, key, retention)
}

// Count returns the recorded views for a page on a given day.
func (t *Tracker) Count(ctx context.Context, day time.Time, page string) (int64, error) {
	val, err := t.cache.Get(ctx, fmt.Sprintf("pv:%s:%s", day.Format("2006-01-02"), page))
	if err != nil {
		if err == red.Nil {
			return 0, nil
		}
		return 0, err
	}
	var n int64
	_, err = fmt.Sscan(val, &n)
	return n, err
}

// admit reports whether the hit is outside the debounce window, and prunes
// stale entries opportunistically so the map stays bounded without a
// background goroutine.
func (t *Tracker) admit(key string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if last, ok := t.seen[key]; ok && now.Sub(last) < t.window {
		return false
	}
	if len(t.seen) > 4096 {
		for k, at := range t.seen {
			if now.Sub(at) >= t.window {
				delete(t.seen, k)
			}
		}
	}
	t.seen[key] = now
	return true
}
