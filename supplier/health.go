package supplier

import (
	"context"
	"time"

	"github.com/restocklabs/stockops/health"
	"github.com/restocklabs/stockops/resilience"
)

// HealthChecker reports supplier reachability for the health aggregator.
//
// An open circuit reports degraded rather than unhealthy: availability
// checks still answer from cache or the default while the breaker cools
// down, so the service keeps working in reduced form.
type HealthChecker struct {
	name   string
	client *Client
}

// NewHealthChecker creates a health checker for the supplier client.
func NewHealthChecker(client *Client) *HealthChecker {
	return &HealthChecker{name: "supplier", client: client}
}

// Name returns the checker name.
func (h *HealthChecker) Name() string {
	return h.name
}

// Check pings the supplier and inspects the circuit state.
func (h *HealthChecker) Check(ctx context.Context) health.Result {
	if h.client == nil {
		return health.Unhealthy("supplier client not configured", health.ErrCheckFailed)
	}

	if breaker := h.client.Breaker(); breaker != nil {
		m := breaker.Metrics()
		if m.State == resilience.StateOpen {
			return health.Degraded("supplier circuit open, serving cached and default answers").
				WithDetails(map[string]any{
					"state":    m.State.String(),
					"failures": m.Failures,
				})
		}
	}

	start := time.Now()
	if err := h.client.Ping(ctx); err != nil {
		return health.Unhealthy("supplier ping failed", err).
			WithDuration(time.Since(start))
	}
	return health.Healthy("supplier reachable").
		WithDuration(time.Since(start))
}

var _ health.Checker = (*HealthChecker)(nil)
