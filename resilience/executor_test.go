package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExecutor_NoPatternsPassesThrough(t *testing.T) {
	e := NewExecutor()

	calls := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestExecutor_RetryWrapsOperation(t *testing.T) {
	e := NewExecutor(WithRetry(NewRetry(RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
	})))

	attempts := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("supplier flaking")
		}
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestExecutor_BreakerOutsideRetry(t *testing.T) {
	// An exhausted retry cycle must count as ONE breaker failure, and an
	// open breaker must fast-fail before any retry attempt is spent.
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:  2,
		ResetTimeout: time.Minute,
	})
	e := NewExecutor(
		WithCircuitBreaker(cb),
		WithRetry(NewRetry(RetryConfig{
			MaxAttempts:  3,
			InitialDelay: time.Millisecond,
		})),
	)

	attempts := 0
	failing := func(ctx context.Context) error {
		attempts++
		return errors.New("supplier down")
	}

	_ = e.Execute(context.Background(), failing)
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3 (full retry cycle)", attempts)
	}
	if cb.Metrics().Failures != 1 {
		t.Errorf("breaker failures = %d, want 1 per exhausted cycle", cb.Metrics().Failures)
	}

	_ = e.Execute(context.Background(), failing)
	if cb.State() != StateOpen {
		t.Fatalf("State = %v, want open after two exhausted cycles", cb.State())
	}

	err := e.Execute(context.Background(), failing)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Execute() error = %v, want ErrCircuitOpen", err)
	}
	if attempts != 6 {
		t.Errorf("attempts = %d, want 6 (open breaker spends no retries)", attempts)
	}
}

func TestExecutor_TimeoutInnermost(t *testing.T) {
	// Each retry attempt gets its own deadline; two timing-out attempts
	// must produce two ErrTimeout failures, not one overall deadline.
	e := NewExecutor(
		WithRetry(NewRetry(RetryConfig{
			MaxAttempts:  2,
			InitialDelay: time.Millisecond,
		})),
		WithTimeout(20*time.Millisecond),
	)

	attempts := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})

	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Execute() error = %v, want ErrTimeout", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2 (per-attempt deadline)", attempts)
	}
}

func TestExecutor_RateLimiterOutermost(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 5})
	e := NewExecutor(
		WithRateLimiter(NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 1})),
		WithCircuitBreaker(cb),
	)

	ctx := context.Background()
	if err := e.Execute(ctx, func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}

	calls := 0
	err := e.Execute(ctx, func(ctx context.Context) error {
		calls++
		return nil
	})

	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Errorf("Execute() error = %v, want ErrRateLimitExceeded", err)
	}
	if calls != 0 {
		t.Errorf("calls = %d, a shed request must not reach the operation", calls)
	}
	// A shed request never reaches the breaker either.
	if cb.Metrics().Failures != 0 {
		t.Errorf("breaker failures = %d, want 0", cb.Metrics().Failures)
	}
}

func TestExecutor_BulkheadShedsOverflow(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1})
	e := NewExecutor(WithBulkhead(b))

	hold := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = e.Execute(context.Background(), func(ctx context.Context) error {
			close(started)
			<-hold
			return nil
		})
	}()

	<-started
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})
	close(hold)

	if !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("Execute() error = %v, want ErrBulkheadFull", err)
	}
}

func TestExecutor_FullStack(t *testing.T) {
	e := NewExecutor(
		WithRateLimiter(NewRateLimiter(RateLimiterConfig{Rate: 1000, Burst: 100})),
		WithBulkhead(NewBulkhead(BulkheadConfig{MaxConcurrent: 4})),
		WithCircuitBreaker(NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 5})),
		WithRetry(NewRetry(RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond})),
		WithTimeout(time.Second),
	)

	attempts := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestExecutor_WithTimeoutConfig(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: 10 * time.Millisecond})
	e := NewExecutor(WithTimeoutConfig(to))

	err := e.Execute(context.Background(), func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})

	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Execute() error = %v, want ErrTimeout", err)
	}
}
