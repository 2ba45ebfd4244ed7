package predictcache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/neo-hazard/internal/domain/prediction"
)

type entry struct {
	result    prediction.Result
	expiresAt time.Time
}

// MemoryCache keeps predictions in process memory for dev and single-instance deployments.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryCache constructs an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get implements prediction.Cache.
func (c *MemoryCache) Get(_ context.Context, key string) (prediction.Result, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return prediction.Result{}, false, nil
	}
	if !e.expiresAt.IsZero() && e.expiresAt.Before(c.now()) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return prediction.Result{}, false, nil
	}
	return e.result, true, nil
}

// Set stores the result; a non-positive ttl never expires.
func (c *MemoryCache) Set(_ context.Context, key string, result prediction.Result, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.entries[key] = entry{result: result, expiresAt: exp}
	return nil
}

var _ prediction.Cache = (*MemoryCache)(nil)
