package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker fast-fails a call.
	// Callers should treat it as "dependency degraded" rather than as a
	// transport error.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrResultRejected is recorded when a fallback validator rejects an
	// otherwise successful result.
	ErrResultRejected = errors.New("resilience: result rejected by validator")

	// ErrRateLimitExceeded is returned when the rate limit is exceeded.
	ErrRateLimitExceeded = errors.New("resilience: rate limit exceeded")

	// ErrBulkheadFull is returned when the bulkhead is at capacity.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")

	// ErrTimeout is returned when an operation times out.
	ErrTimeout = errors.New("resilience: operation timed out")

	// ErrPanicked is recorded as the failure outcome when a guarded
	// operation panics. The panic itself still propagates to the caller.
	ErrPanicked = errors.New("resilience: operation panicked")
)

// IsCircuitOpen reports whether err comes from a breaker fast-fail,
// including wrapped errors.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, ErrCircuitOpen)
}
