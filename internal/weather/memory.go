package weather

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	payload  string
	storedAt time.Time
}

// MemoryCache is an in-process TTL cache. Expiry is checked at read time
// only; stale entries are evicted lazily on the next lookup.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	hits    int64
	misses  int64
	now     func() time.Time
}

// NewMemoryCache creates an empty cache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached payload for city while its TTL holds.
func (c *MemoryCache) Get(_ context.Context, city string) (string, bool, error) {
	key := cacheKey(city)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if ok {
		if c.now().Sub(entry.storedAt) < c.ttl {
			c.hits++
			return entry.payload, true, nil
		}
		delete(c.entries, key)
	}

	c.misses++
	return "", false, nil
}

// Set stores a payload for city, replacing any previous entry.
func (c *MemoryCache) Set(_ context.Context, city, payload string) error {
	key := cacheKey(city)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{payload: payload, storedAt: c.now()}
	return nil
}

// Stats returns hit/miss counters and the current entry count.
func (c *MemoryCache) Stats(_ context.Context) (Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:           c.hits,
		Misses:         c.misses,
		Size:           int64(len(c.entries)),
		HitRatePercent: hitRate(c.hits, c.misses),
	}, nil
}
