package guard

import (
	"context"
	"log/slog"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcachedGuard shares debounce state via memcache Add, which stores only
// when the key is absent.
type MemcachedGuard struct {
	mc *memcache.Client
}

func NewMemcachedGuard(mc *memcache.Client) *MemcachedGuard {
	return &MemcachedGuard{mc: mc}
}

func (g *MemcachedGuard) Reserve(ctx context.Context, key string, ttl time.Duration) bool {
	expiration := int32(ttl / time.Second)
	if expiration < 1 {
		expiration = 1
	}
	err := g.mc.Add(&memcache.Item{
		Key:        key,
		Value:      []byte{1},
		Expiration: expiration,
	})
	if err == nil {
		return true
	}
	if err == memcache.ErrNotStored {
		return false
	}
	slog.WarnContext(ctx, "debounce guard unavailable, allowing",
		slog.String("error", err.Error()),
		slog.String("key", key),
	)
	return true
}
