package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
)

type RateLimiter struct {
	client *Client
}

func NewRateLimiter(client *Client) *RateLimiter {
	return &RateLimiter{client: client}
}

func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		err = r.client.Expire(ctx, key, window)
		if err != nil {
			return false, err
		}
	}

	if count > int64(limit) {
		return false, nil
	}

	return true, nil
}

// PerUserLimiter binds a fixed limit/window to the generic limiter, in the
// shape the registration use case expects.
type PerUserLimiter struct {
	rl     *RateLimiter
	limit  int
	window time.Duration
}

func NewPerUserLimiter(rl *RateLimiter, limit int, window time.Duration) *PerUserLimiter {
	return &PerUserLimiter{rl: rl, limit: limit, window: window}
}

func (p *PerUserLimiter) Allow(ctx context.Context, key model.UserKey) (bool, error) {
	return p.rl.Allow(ctx, fmt.Sprintf("rate_limit:%s", key), p.limit, p.window)
}
