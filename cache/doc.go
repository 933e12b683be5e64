// Package cache provides deterministic caching for outbound lookups.
//
// It provides a Cache interface with a bounded LRU memory implementation,
// SHA-256-based key derivation, and TTL policies that keep mutating
// operations out of the cache.
package cache
