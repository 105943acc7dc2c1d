package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RateLimitRepo struct {
	client redis.Cmdable
	prefix string
}

func NewRateLimitRepository(client redis.Cmdable) *RateLimitRepo {
	return &RateLimitRepo{
		client: client,
		prefix: "rate_limit:",
	}
}

// Hit increments the counter of key; the first hit of a window starts its
// expiry.
func (r *RateLimitRepo) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	const op = "repository.ratelimit_repository.Hit"

	fullKey := r.prefix + key

	count, err := r.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if count == 1 {
		if err := r.client.Expire(ctx, fullKey, window).Err(); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	return count, nil
}
