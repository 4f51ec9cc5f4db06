package storage

import (
	"context"
	"sync"
)

// Ensure MemoryCache implements DedupCache
var _ DedupCache = (*MemoryCache)(nil)

// MemoryCache is the process-lifetime idempotency set. It loses all history
// on restart, so production configs either warm it from RecordStore.Query or
// use the Redis cache instead.
type MemoryCache struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		seen: make(map[string]struct{}),
	}
}

func (c *MemoryCache) Seen(_ context.Context, id string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.seen[id]
	return ok, nil
}

func (c *MemoryCache) Add(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen[id] = struct{}{}
	return nil
}

// Warm preloads IDs fetched from the external store at startup.
func (c *MemoryCache) Warm(ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		c.seen[id] = struct{}{}
	}
}

func (c *MemoryCache) Close() error {
	return nil
}
