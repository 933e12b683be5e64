package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// BackoffStrategy defines how delays increase between retries.
type BackoffStrategy int

const (
	// BackoffExponential multiplies the delay by Multiplier each attempt.
	BackoffExponential BackoffStrategy = iota
	// BackoffLinear increases delay linearly.
	BackoffLinear
	// BackoffConstant uses the same delay for all retries.
	BackoffConstant
)

// RetryConfig configures the retry behavior. A config is immutable once
// handed to NewRetry; the same Retry may be shared across calls and
// goroutines.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	// Default: 3
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	// Default: 100ms
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries. With jitter enabled the
	// randomized delay never exceeds this cap.
	// Default: 30s
	MaxDelay time.Duration

	// Multiplier is the backoff multiplier for exponential backoff.
	// Default: 2.0
	Multiplier float64

	// Strategy is the backoff strategy.
	// Default: BackoffExponential
	Strategy BackoffStrategy

	// Jitter randomizes each delay within [delay/2, delay] to avoid
	// synchronized retry storms across callers.
	Jitter bool

	// NonRetryable lists predicates for errors that must never be retried.
	// An error matching any predicate stops the loop immediately and
	// propagates as-is.
	NonRetryable []func(err error) bool

	// RetryIf determines if an error should trigger a retry, consulted
	// after NonRetryable.
	// Default: all non-nil errors trigger retry.
	RetryIf func(err error) bool

	// OnRetry is called before each retry delay with the attempt that just
	// failed (1-indexed), its error, and the delay about to be waited.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry implements retry with backoff. It holds no per-call state.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a new retry handler.
func NewRetry(config RetryConfig) *Retry {
	// Apply defaults
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 100 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.RetryIf == nil {
		config.RetryIf = func(err error) bool { return err != nil }
	}

	return &Retry{config: config}
}

// Execute runs the operation with retry logic. Attempts are 1-indexed and
// strictly sequential. The error from the final attempt propagates
// unchanged; nothing is synthesized on exhaustion. Cancelling ctx aborts a
// pending backoff wait as well as the loop itself.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		err := op(ctx)

		if err == nil {
			return nil
		}

		lastErr = err

		// Non-retryable errors short-circuit before any delay.
		if r.nonRetryable(err) || !r.config.RetryIf(err) {
			return err
		}

		// Don't retry if this was the last attempt
		if attempt >= r.config.MaxAttempts {
			break
		}

		delay := r.calculateDelay(attempt)

		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		// Wait for delay or context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			// Continue to next attempt
		}
	}

	return lastErr
}

func (r *Retry) nonRetryable(err error) bool {
	for _, match := range r.config.NonRetryable {
		if match(err) {
			return true
		}
	}
	return false
}

// calculateDelay returns the delay to wait after the given failed attempt
// (1-indexed): min(InitialDelay * Multiplier^(attempt-1), MaxDelay) for the
// exponential strategy, optionally jittered within the capped bound.
func (r *Retry) calculateDelay(attempt int) time.Duration {
	var delay time.Duration

	switch r.config.Strategy {
	case BackoffConstant:
		delay = r.config.InitialDelay

	case BackoffLinear:
		delay = r.config.InitialDelay * time.Duration(attempt)

	case BackoffExponential:
		multiplier := math.Pow(r.config.Multiplier, float64(attempt-1))
		// Clamp in float space: at high attempt numbers the product
		// overflows int64 and would convert to a negative duration.
		if scaled := float64(r.config.InitialDelay) * multiplier; scaled >= float64(r.config.MaxDelay) {
			delay = r.config.MaxDelay
		} else {
			delay = time.Duration(scaled)
		}
	}

	// Cap at max delay
	if delay > r.config.MaxDelay {
		delay = r.config.MaxDelay
	}

	// Equal jitter keeps the cap a hard upper bound: result stays within
	// [delay/2, delay] and is never negative.
	if r.config.Jitter && delay > 0 {
		half := delay / 2
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay = half + time.Duration(rand.Int64N(int64(delay-half)+1))
	}

	return delay
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}

// Outcome reports how a retried operation resolved. Created fresh per
// invocation of Run.
type Outcome[T any] struct {
	// Success is true when some attempt returned without error.
	Success bool

	// Result holds the successful value; the zero value otherwise.
	Result T

	// Err is the error from the final attempt, nil on success.
	Err error

	// Attempts is the number of times the operation was invoked.
	Attempts int
}

// Run executes op through r and reports the typed outcome, including how
// many attempts were consumed. A cancelled backoff wait counts the attempts
// already made and surfaces the context error.
func Run[T any](ctx context.Context, r *Retry, op func(context.Context) (T, error)) Outcome[T] {
	var out Outcome[T]

	err := r.Execute(ctx, func(ctx context.Context) error {
		out.Attempts++
		result, err := op(ctx)
		if err != nil {
			return err
		}
		out.Result = result
		return nil
	})

	out.Success = err == nil
	out.Err = err
	return out
}
