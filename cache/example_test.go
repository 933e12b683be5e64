package cache_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/restocklabs/stockops/cache"
)

func ExampleNewMemoryCache() {
	policy := cache.DefaultPolicy()
	c := cache.NewMemoryCache(policy)

	ctx := context.Background()

	// Store a value
	_ = c.Set(ctx, "my-key", []byte("hello"), 5*time.Minute)

	// Retrieve the value
	value, ok := c.Get(ctx, "my-key")
	if ok {
		fmt.Println("Value:", string(value))
	}
	// Output:
	// Value: hello
}

func ExampleMemoryCache_Get() {
	policy := cache.DefaultPolicy()
	c := cache.NewMemoryCache(policy)
	ctx := context.Background()

	// Miss - key doesn't exist
	_, ok := c.Get(ctx, "missing")
	fmt.Println("Missing key found:", ok)

	// Set and get
	_ = c.Set(ctx, "exists", []byte("data"), time.Hour)
	value, ok := c.Get(ctx, "exists")
	fmt.Println("Existing key found:", ok)
	fmt.Println("Value:", string(value))
	// Output:
	// Missing key found: false
	// Existing key found: true
	// Value: data
}

func ExampleMemoryCache_Set() {
	policy := cache.DefaultPolicy()
	c := cache.NewMemoryCache(policy)
	ctx := context.Background()

	// Normal set with TTL
	err := c.Set(ctx, "key1", []byte("value1"), 5*time.Minute)
	fmt.Println("Set error:", err)

	// Set with zero TTL is a no-op (no caching)
	err = c.Set(ctx, "key2", []byte("value2"), 0)
	fmt.Println("Zero TTL error:", err)

	// Verify zero TTL didn't cache
	_, ok := c.Get(ctx, "key2")
	fmt.Println("Zero TTL key cached:", ok)
	// Output:
	// Set error: <nil>
	// Zero TTL error: <nil>
	// Zero TTL key cached: false
}

func ExampleMemoryCache_Delete() {
	policy := cache.DefaultPolicy()
	c := cache.NewMemoryCache(policy)
	ctx := context.Background()

	// Set a value
	_ = c.Set(ctx, "to-delete", []byte("temporary"), time.Hour)

	// Verify it exists
	_, ok := c.Get(ctx, "to-delete")
	fmt.Println("Before delete:", ok)

	// Delete it
	err := c.Delete(ctx, "to-delete")
	fmt.Println("Delete error:", err)

	// Verify it's gone
	_, ok = c.Get(ctx, "to-delete")
	fmt.Println("After delete:", ok)

	// Delete is idempotent - no error on missing key
	err = c.Delete(ctx, "never-existed")
	fmt.Println("Delete missing:", err)
	// Output:
	// Before delete: true
	// Delete error: <nil>
	// After delete: false
	// Delete missing: <nil>
}

func ExampleNewDefaultKeyer() {
	keyer := cache.NewDefaultKeyer()

	// Simple input
	key1, _ := keyer.Key("supplier.check_availability", map[string]any{"sku": "WIDGET-9"})
	fmt.Println("Key format:", key1[:14]) // "cache:supplier..."

	// Deterministic - same input produces same key
	key2, _ := keyer.Key("supplier.check_availability", map[string]any{"sku": "WIDGET-9"})
	fmt.Println("Keys match:", key1 == key2)

	// Different input produces different key
	key3, _ := keyer.Key("supplier.check_availability", map[string]any{"sku": "GADGET-3"})
	fmt.Println("Different input, different key:", key1 != key3)
	// Output:
	// Key format: cache:supplier
	// Keys match: true
	// Different input, different key: true
}

func ExampleDefaultKeyer_Key_mapOrdering() {
	keyer := cache.NewDefaultKeyer()

	// Map ordering doesn't affect key - keys are sorted internally
	input1 := map[string]any{"b": 2, "a": 1, "c": 3}
	input2 := map[string]any{"c": 3, "a": 1, "b": 2}

	key1, _ := keyer.Key("supplier.order_status", input1)
	key2, _ := keyer.Key("supplier.order_status", input2)

	fmt.Println("Same map, different order, same key:", key1 == key2)
	// Output:
	// Same map, different order, same key: true
}

func ExampleDefaultPolicy() {
	policy := cache.DefaultPolicy()

	fmt.Println("Default TTL:", policy.DefaultTTL)
	fmt.Println("Max TTL:", policy.MaxTTL)
	fmt.Println("Allow mutations:", policy.AllowMutations)
	fmt.Println("Should cache:", policy.ShouldCache())
	// Output:
	// Default TTL: 5m0s
	// Max TTL: 1h0m0s
	// Allow mutations: false
	// Should cache: true
}

func ExampleNoCachePolicy() {
	policy := cache.NoCachePolicy()

	fmt.Println("Should cache:", policy.ShouldCache())
	// Output:
	// Should cache: false
}

func ExamplePolicy_EffectiveTTL() {
	policy := cache.Policy{
		DefaultTTL: 5 * time.Minute,
		MaxTTL:     1 * time.Hour,
	}

	// No override - uses default
	fmt.Println("No override:", policy.EffectiveTTL(0))

	// Reasonable override - uses as-is
	fmt.Println("10min override:", policy.EffectiveTTL(10*time.Minute))

	// Excessive override - clamped to max
	fmt.Println("2hr override (clamped):", policy.EffectiveTTL(2*time.Hour))
	// Output:
	// No override: 5m0s
	// 10min override: 10m0s
	// 2hr override (clamped): 1h0m0s
}

func ExampleNewCacheMiddleware() {
	policy := cache.DefaultPolicy()
	memCache := cache.NewMemoryCache(policy)
	keyer := cache.NewDefaultKeyer()

	mw := cache.NewCacheMiddleware(memCache, keyer, policy, nil)

	ctx := context.Background()
	lookupCalls := 0

	lookup := func(ctx context.Context, callID string, input any) ([]byte, error) {
		lookupCalls++
		return []byte("result"), nil
	}

	// First call - cache miss
	result1, _ := mw.Execute(ctx, "supplier.order_status", "input", lookup)
	fmt.Println("Call 1 result:", string(result1))
	fmt.Println("Lookup calls after 1:", lookupCalls)

	// Second call - cache hit
	result2, _ := mw.Execute(ctx, "supplier.order_status", "input", lookup)
	fmt.Println("Call 2 result:", string(result2))
	fmt.Println("Lookup calls after 2:", lookupCalls) // Still 1 - cached!
	// Output:
	// Call 1 result: result
	// Lookup calls after 1: 1
	// Call 2 result: result
	// Lookup calls after 2: 1
}

func ExampleCacheMiddleware_Execute_mutatingOperations() {
	policy := cache.DefaultPolicy() // AllowMutations: false
	memCache := cache.NewMemoryCache(policy)
	keyer := cache.NewDefaultKeyer()
	mw := cache.NewCacheMiddleware(memCache, keyer, policy, nil)

	ctx := context.Background()
	lookupCalls := 0

	lookup := func(ctx context.Context, callID string, input any) ([]byte, error) {
		lookupCalls++
		return []byte("executed"), nil
	}

	// Order placement mutates supplier state - not cached
	_, _ = mw.Execute(ctx, "supplier.place_order", nil, lookup)
	_, _ = mw.Execute(ctx, "supplier.place_order", nil, lookup)
	fmt.Println("Order placement lookup calls:", lookupCalls) // Called twice

	// Reset
	lookupCalls = 0

	// Status lookups are read-only - cached
	_, _ = mw.Execute(ctx, "supplier.order_status", nil, lookup)
	_, _ = mw.Execute(ctx, "supplier.order_status", nil, lookup)
	fmt.Println("Status lookup calls:", lookupCalls) // Called once
	// Output:
	// Order placement lookup calls: 2
	// Status lookup calls: 1
}

func ExampleDefaultSkipRule() {
	// Mutating operations
	fmt.Println("place_order:", cache.DefaultSkipRule("supplier.place_order"))
	fmt.Println("adjust:", cache.DefaultSkipRule("inventory.adjust"))
	fmt.Println("RESERVE (case-insensitive):", cache.DefaultSkipRule("warehouse.RESERVE"))

	// Read-only operations
	fmt.Println("check_availability:", cache.DefaultSkipRule("supplier.check_availability"))
	fmt.Println("order_status:", cache.DefaultSkipRule("supplier.order_status"))
	// Output:
	// place_order: true
	// adjust: true
	// RESERVE (case-insensitive): true
	// check_availability: false
	// order_status: false
}

func ExampleValidateKey() {
	// Valid keys
	fmt.Println("normal key:", cache.ValidateKey("my-key") == nil)
	fmt.Println("with colons:", cache.ValidateKey("cache:call:hash") == nil)

	// Invalid keys
	fmt.Println("empty:", errors.Is(cache.ValidateKey(""), cache.ErrInvalidKey))
	fmt.Println("whitespace:", errors.Is(cache.ValidateKey("   "), cache.ErrInvalidKey))
	fmt.Println("with newline:", errors.Is(cache.ValidateKey("key\nvalue"), cache.ErrInvalidKey))

	// Too long
	longKey := make([]byte, 600)
	for i := range longKey {
		longKey[i] = 'x'
	}
	fmt.Println("too long:", errors.Is(cache.ValidateKey(string(longKey)), cache.ErrKeyTooLong))
	// Output:
	// normal key: true
	// with colons: true
	// empty: true
	// whitespace: true
	// with newline: true
	// too long: true
}
