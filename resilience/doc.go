// Package resilience provides resilience patterns for calls to unreliable
// dependencies.
//
// The package implements the patterns the supplier-integration and
// inventory services use to survive transient failure: each can be used on
// its own or composed into a pipeline around a single call.
//
// # Patterns
//
//   - Retry: re-runs failed operations with configurable backoff
//     (exponential, linear, constant), bounded jitter, and non-retryable
//     short-circuits.
//
//   - Circuit Breaker: stops calling a failing dependency after a failure
//     threshold, then probes recovery with a single half-open trial.
//
//   - Fallback: tries a primary operation and an ordered list of
//     alternatives until one produces an acceptable result, optionally
//     finishing with a configured default value.
//
//   - Rate Limiter: bounds the rate of operations sent downstream.
//
//   - Bulkhead: bounds concurrent operations to prevent resource
//     exhaustion.
//
//   - Timeout: bounds each operation's execution time.
//
// # Usage
//
// Each pattern can be used independently or composed together:
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    Name:         "supplier",
//	    MaxFailures:  5,
//	    ResetTimeout: time.Minute,
//	})
//
//	retry := resilience.NewRetry(resilience.RetryConfig{
//	    MaxAttempts:  3,
//	    InitialDelay: 100 * time.Millisecond,
//	    MaxDelay:     5 * time.Second,
//	    Multiplier:   2.0,
//	})
//
//	executor := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(cb),
//	    resilience.WithRetry(retry),
//	    resilience.WithTimeout(5*time.Second),
//	)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return callSupplier(ctx)
//	})
//
// Typed results flow through the generic helpers:
//
//	outcome := resilience.Run(ctx, retry, fetchPrice)
//	if outcome.Success {
//	    use(outcome.Result)
//	}
//
//	fb := resilience.NewFallback(resilience.FallbackConfig[Availability]{
//	    Default: &Availability{InStock: false, LeadTimeDays: 7},
//	})
//	out, _ := fb.Execute(ctx, primaryLookup, cachedLookup)
package resilience
