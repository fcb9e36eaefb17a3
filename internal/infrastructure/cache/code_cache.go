package cache

import (
	"context"
	"sync"
	"time"

	"nutri-auth/internal/domain"
)

// cacheEntry holds one resolved reference id.
type cacheEntry struct {
	id        int64
	expiresAt time.Time
}

// CodeCache is a thread-safe TTL cache of resolved reference-table codes.
// The reference tables change rarely, so repeated registrations should not
// re-query them.
type CodeCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
}

// NewCodeCache creates a code cache with the specified TTL.
func NewCodeCache(ttl time.Duration) *CodeCache {
	c := &CodeCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
	}
	go c.cleanupLoop()
	return c
}

// Get retrieves a cached id for a table/code pair.
func (c *CodeCache) Get(table, code string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[table+":"+code]
	if !found || time.Now().After(entry.expiresAt) {
		return 0, false
	}
	return entry.id, true
}

// Set stores a resolved id for a table/code pair.
func (c *CodeCache) Set(table, code string, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[table+":"+code] = &cacheEntry{
		id:        id,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// cleanup removes expired entries.
func (c *CodeCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// cleanupLoop runs periodic cleanup of expired entries.
func (c *CodeCache) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

// CachedResolver fronts a ReferenceResolver with a CodeCache. Failed lookups
// are never cached.
type CachedResolver struct {
	next  domain.ReferenceResolver
	cache *CodeCache
}

// NewCachedResolver wraps next with the given cache.
func NewCachedResolver(next domain.ReferenceResolver, cache *CodeCache) *CachedResolver {
	return &CachedResolver{next: next, cache: cache}
}

// ResolveCode implements domain.ReferenceResolver.
func (r *CachedResolver) ResolveCode(ctx context.Context, table, idColumn, code string) (int64, error) {
	if id, found := r.cache.Get(table, code); found {
		return id, nil
	}

	id, err := r.next.ResolveCode(ctx, table, idColumn, code)
	if err != nil {
		return 0, err
	}
	r.cache.Set(table, code, id)
	return id, nil
}
