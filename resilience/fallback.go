package resilience

import (
	"context"
	"fmt"
	"time"
)

// PrimaryIndex is the FallbackIndex reported when the primary operation
// produced the result.
const PrimaryIndex = -1

// FallbackConfig configures a fallback chain.
type FallbackConfig[T any] struct {
	// Retry, when set, runs every candidate through this retry policy;
	// otherwise each candidate is called exactly once.
	Retry *Retry

	// Validate, when set, rejects successful results that are unusable.
	// A rejected candidate is recorded as ErrResultRejected and the chain
	// moves on.
	Validate func(result T) bool

	// Default, when set, absorbs total failure: the chain reports success
	// with this value and UsedDefault=true instead of an error. This is a
	// deliberate degradation path; the last error stays visible on the
	// outcome for logging.
	Default *T

	// SuppressErrors reports exhaustion through the outcome instead of the
	// error return.
	// Default: false (the last recorded error is returned).
	SuppressErrors bool

	// OnFallback is called before each fallback candidate runs, with its
	// 0-based index and the error that caused the switch.
	OnFallback func(index int, cause error)
}

// Fallback tries a primary operation and an ordered list of alternatives
// until one produces an acceptable result. Candidates run strictly
// sequentially; nothing races downstream.
type Fallback[T any] struct {
	config FallbackConfig[T]
}

// NewFallback creates a fallback chain executor.
func NewFallback[T any](config FallbackConfig[T]) *Fallback[T] {
	return &Fallback[T]{config: config}
}

// FallbackOutcome reports how a fallback chain resolved. Elapsed spans from
// entry to return on every path.
type FallbackOutcome[T any] struct {
	// Success is true when a candidate produced an accepted result or the
	// configured default was applied.
	Success bool

	// Result holds the accepted value, or the default when UsedDefault.
	Result T

	// FallbackIndex is the 0-based index of the fallback that produced the
	// result, or PrimaryIndex when the primary did (or no candidate did).
	FallbackIndex int

	// UsedDefault is true when every candidate failed and the configured
	// default value was returned instead.
	UsedDefault bool

	// Err is the last recorded candidate error. It remains set alongside
	// UsedDefault so absorbed failures stay diagnosable.
	Err error

	// Elapsed is the total wall time of the chain run.
	Elapsed time.Duration
}

// Execute tries primary, then each fallback in order, until one succeeds
// and validates. On exhaustion the configured default absorbs the failure
// if present; otherwise the last candidate error propagates unchanged (no
// synthesized error). Cancelling ctx stops the chain before the next
// candidate.
func (f *Fallback[T]) Execute(ctx context.Context, primary func(context.Context) (T, error), fallbacks ...func(context.Context) (T, error)) (FallbackOutcome[T], error) {
	start := time.Now()
	out := FallbackOutcome[T]{FallbackIndex: PrimaryIndex}

	candidates := make([]func(context.Context) (T, error), 0, len(fallbacks)+1)
	candidates = append(candidates, primary)
	candidates = append(candidates, fallbacks...)

	var lastErr error
	for i, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			break
		}

		if i > 0 && f.config.OnFallback != nil {
			f.config.OnFallback(i-1, lastErr)
		}

		result, err := f.run(ctx, candidate)
		if err != nil {
			lastErr = err
			continue
		}
		if f.config.Validate != nil && !f.config.Validate(result) {
			lastErr = fmt.Errorf("%w (candidate %d)", ErrResultRejected, i)
			continue
		}

		out.Success = true
		out.Result = result
		out.FallbackIndex = i - 1
		out.Elapsed = time.Since(start)
		return out, nil
	}

	out.Err = lastErr
	out.Elapsed = time.Since(start)

	if f.config.Default != nil {
		out.Success = true
		out.Result = *f.config.Default
		out.UsedDefault = true
		return out, nil
	}

	if f.config.SuppressErrors {
		return out, nil
	}
	return out, lastErr
}

func (f *Fallback[T]) run(ctx context.Context, candidate func(context.Context) (T, error)) (T, error) {
	if f.config.Retry == nil {
		return candidate(ctx)
	}

	var result T
	err := f.config.Retry.Execute(ctx, func(ctx context.Context) error {
		r, err := candidate(ctx)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	return result, err
}

// Chain binds a primary function and parallel fallbacks taking the same
// argument into one callable with the fallback behavior baked in.
func Chain[A, T any](f *Fallback[T], primary func(context.Context, A) (T, error), fallbacks ...func(context.Context, A) (T, error)) func(context.Context, A) (FallbackOutcome[T], error) {
	return func(ctx context.Context, arg A) (FallbackOutcome[T], error) {
		wrapped := make([]func(context.Context) (T, error), len(fallbacks))
		for i, fb := range fallbacks {
			wrapped[i] = func(ctx context.Context) (T, error) {
				return fb(ctx, arg)
			}
		}
		return f.Execute(ctx, func(ctx context.Context) (T, error) {
			return primary(ctx, arg)
		}, wrapped...)
	}
}
