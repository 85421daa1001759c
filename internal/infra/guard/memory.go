// Package guard provides debounce guard backends. A guard reservation is a
// best-effort, short-TTL claim on a key; it is never authoritative and every
// backend degrades to allowing the request when its storage fails.
package guard

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryGuard is an in-process guard backed by an expiring keyed cache.
// Suitable for single-process deployments and tests.
type MemoryGuard struct {
	cache *gocache.Cache
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{
		cache: gocache.New(time.Minute, 5*time.Minute),
	}
}

func (g *MemoryGuard) Reserve(_ context.Context, key string, ttl time.Duration) bool {
	// Add fails when the key is already present and unexpired.
	return g.cache.Add(key, struct{}{}, ttl) == nil
}
