package health

import (
	"context"
	"fmt"

	"github.com/restocklabs/stockops/resilience"
)

// BreakerChecker reports the state of a circuit breaker as a health status.
// An open breaker on a supplier or warehouse endpoint maps to unhealthy, so
// readiness probes fail while the endpoint is being shed.
type BreakerChecker struct {
	name    string
	breaker *resilience.CircuitBreaker
}

// NewBreakerChecker creates a checker that observes the given breaker.
func NewBreakerChecker(name string, breaker *resilience.CircuitBreaker) *BreakerChecker {
	return &BreakerChecker{name: name, breaker: breaker}
}

// Name returns the name of this checker.
func (b *BreakerChecker) Name() string {
	return b.name
}

// Check maps the breaker state to a health result: closed is healthy,
// half-open is degraded (recovery in progress), open is unhealthy.
func (b *BreakerChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	if b.breaker == nil {
		return Unhealthy("no circuit breaker configured", ErrCheckFailed)
	}

	m := b.breaker.Metrics()

	details := map[string]any{
		"state":     m.State.String(),
		"failures":  m.Failures,
		"successes": m.Successes,
	}
	if !m.OpenedAt.IsZero() {
		details["opened_at"] = m.OpenedAt
	}
	if !m.LastFailure.IsZero() {
		details["last_failure"] = m.LastFailure
	}

	switch m.State {
	case resilience.StateOpen:
		return Unhealthy(
			fmt.Sprintf("circuit open after %d failures", m.Failures),
			ErrCheckFailed,
		).WithDetails(details)
	case resilience.StateHalfOpen:
		return Degraded("circuit half-open, probing recovery").WithDetails(details)
	default:
		return Healthy("circuit closed").WithDetails(details)
	}
}
