package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxEntries bounds the in-memory cache when no size is given.
const DefaultMaxEntries = 4096

// MemoryCache is an in-memory cache backed by a bounded LRU.
// Expiry is checked lazily on Get; LRU eviction caps memory use.
type MemoryCache struct {
	entries *lru.Cache[string, memoryEntry]
	policy  Policy
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache with the given policy
// and the default entry bound.
func NewMemoryCache(policy Policy) *MemoryCache {
	return NewMemoryCacheSize(policy, DefaultMaxEntries)
}

// NewMemoryCacheSize creates a new in-memory cache holding at most
// maxEntries values. Non-positive sizes fall back to DefaultMaxEntries.
func NewMemoryCacheSize(policy Policy, maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	entries, _ := lru.New[string, memoryEntry](maxEntries) // size > 0, cannot fail
	return &MemoryCache{
		entries: entries,
		policy:  policy,
	}
}

// Get retrieves a value from the cache. Returns (nil, false) on miss or expiry.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}

	// Check expiry
	if time.Now().After(entry.expiresAt) {
		// Expired - clean up lazily
		c.entries.Remove(key)
		return nil, false
	}

	return entry.value, true
}

// Set stores a value with the given TTL. TTL=0 means immediate expiry (no caching).
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	// TTL=0 means don't cache
	if ttl <= 0 {
		return nil
	}

	c.entries.Add(key, memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	})

	return nil
}

// Delete removes a value from the cache. Idempotent - no error on miss.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.entries.Remove(key)
	return nil
}

// Len reports the number of entries currently held, including expired
// entries not yet evicted.
func (c *MemoryCache) Len() int {
	return c.entries.Len()
}

// Ensure MemoryCache implements Cache
var _ Cache = (*MemoryCache)(nil)
