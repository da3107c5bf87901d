package redis

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter is a fixed-window counter keyed per client. Allow reports the
// retry-after so handlers can set the Retry-After header on 429 responses.
type RateLimiter struct {
	client RedisClient
}

func NewRateLimiter(client RedisClient) *RateLimiter {
	return &RateLimiter{client: client}
}

func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, retryAfter time.Duration, err error) {
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, 0, err
	}

	if count == 1 {
		if err := r.client.Expire(ctx, key, window); err != nil {
			return false, 0, err
		}
	}

	if count > int64(limit) {
		retryAfter, err := r.client.TTL(ctx, key)
		if err != nil || retryAfter < 0 {
			retryAfter = window
		}
		return false, retryAfter, nil
	}

	return true, 0, nil
}

func ClientKey(scope, ip string) string {
	return fmt.Sprintf("rate_limit:%s:%s", scope, ip)
}
