package cache

import (
	"context"
	"strings"
)

// LookupFunc is the function signature for an outbound lookup.
type LookupFunc func(ctx context.Context, callID string, input any) ([]byte, error)

// SkipRule determines whether to skip caching for a given call.
// Returns true if caching should be skipped.
type SkipRule func(callID string) bool

// MutatingOperations are operation names that change remote state and must
// never be served from cache.
var MutatingOperations = []string{"place_order", "cancel_order", "sync_batch", "adjust", "replenish", "reserve"}

// DefaultSkipRule skips caching for mutating operations.
// Matching is case-insensitive on the operation segment of the call ID.
func DefaultSkipRule(callID string) bool {
	op := callID
	if i := strings.LastIndex(callID, "."); i >= 0 {
		op = callID[i+1:]
	}
	op = strings.ToLower(op)
	for _, mutating := range MutatingOperations {
		if op == mutating {
			return true
		}
	}
	return false
}

// CacheMiddleware wraps outbound lookups with caching.
type CacheMiddleware struct {
	cache    Cache
	keyer    Keyer
	policy   Policy
	skipRule SkipRule
}

// NewCacheMiddleware creates a new cache middleware.
// If skipRule is nil, DefaultSkipRule is used.
func NewCacheMiddleware(cache Cache, keyer Keyer, policy Policy, skipRule SkipRule) *CacheMiddleware {
	if skipRule == nil {
		skipRule = DefaultSkipRule
	}
	return &CacheMiddleware{
		cache:    cache,
		keyer:    keyer,
		policy:   policy,
		skipRule: skipRule,
	}
}

// Execute runs the lookup with caching.
// On cache hit, returns cached result without calling lookup.
// On cache miss, calls lookup and caches the result.
// Errors are NOT cached.
func (m *CacheMiddleware) Execute(
	ctx context.Context,
	callID string,
	input any,
	lookup LookupFunc,
) ([]byte, error) {
	// Check if caching should be skipped
	if !m.policy.AllowMutations && m.skipRule(callID) {
		// Skip caching - execute directly
		return lookup(ctx, callID, input)
	}

	// Check if caching is enabled by policy
	if !m.policy.ShouldCache() {
		return lookup(ctx, callID, input)
	}

	// Generate cache key
	key, err := m.keyer.Key(callID, input)
	if err != nil {
		// Key generation failed - execute without caching
		return lookup(ctx, callID, input)
	}

	// Check cache
	if cached, ok := m.cache.Get(ctx, key); ok {
		return cached, nil
	}

	// Cache miss - execute
	result, err := lookup(ctx, callID, input)
	if err != nil {
		// Don't cache errors
		return result, err
	}

	// Cache the result
	ttl := m.policy.EffectiveTTL(0)
	if ttl > 0 {
		_ = m.cache.Set(ctx, key, result, ttl)
	}

	return result, nil
}
