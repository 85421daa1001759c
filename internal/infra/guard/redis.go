package guard

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisGuard shares debounce state across processes via SET NX with expiry.
type RedisGuard struct {
	rdb *redis.Client
}

func NewRedisGuard(rdb *redis.Client) *RedisGuard {
	return &RedisGuard{rdb: rdb}
}

func (g *RedisGuard) Reserve(ctx context.Context, key string, ttl time.Duration) bool {
	ok, err := g.rdb.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		// Degrade to allow: the guard trades strictness for availability.
		slog.WarnContext(ctx, "debounce guard unavailable, allowing",
			slog.String("error", err.Error()),
			slog.String("key", key),
		)
		return true
	}
	return ok
}
