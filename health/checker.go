package health

import (
	"context"
	"time"
)

// Status is the health of one dependency. Values are ordered by severity;
// aggregation keeps the worst one.
type Status int

const (
	// StatusHealthy means the dependency is fully serving.
	StatusHealthy Status = iota
	// StatusDegraded means the dependency answers in reduced form, for
	// example from cache while a circuit breaker cools down.
	StatusDegraded
	// StatusUnhealthy means the dependency is not serving.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single health check.
type Result struct {
	// Status is the health status.
	Status Status

	// Message says what the check observed, in operator terms.
	Message string

	// Details carries check-specific metadata (breaker counters, latency,
	// cache sizes).
	Details map[string]any

	// Duration is how long the check took.
	Duration time.Duration

	// CheckedAt is when the check ran.
	CheckedAt time.Time

	// Err is the failure behind an unhealthy result, nil otherwise.
	Err error
}

// Healthy creates a healthy result.
func Healthy(message string) Result {
	return Result{
		Status:    StatusHealthy,
		Message:   message,
		CheckedAt: time.Now(),
	}
}

// Degraded creates a degraded result.
func Degraded(message string) Result {
	return Result{
		Status:    StatusDegraded,
		Message:   message,
		CheckedAt: time.Now(),
	}
}

// Unhealthy creates an unhealthy result carrying the causing error.
func Unhealthy(message string, err error) Result {
	return Result{
		Status:    StatusUnhealthy,
		Message:   message,
		Err:       err,
		CheckedAt: time.Now(),
	}
}

// WithDetails returns a copy of the result with details attached.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// WithDuration returns a copy of the result with the duration set.
func (r Result) WithDuration(d time.Duration) Result {
	r.Duration = d
	return r
}

// Checker reports the health of one dependency.
type Checker interface {
	// Name identifies the check in reports and probe responses.
	Name() string

	// Check runs the health check. Implementations should honor ctx;
	// the aggregator abandons checks that outlive its timeout.
	Check(ctx context.Context) Result
}

// NewCheck adapts a function into a named Checker.
func NewCheck(name string, fn func(context.Context) Result) Checker {
	return &check{name: name, fn: fn}
}

type check struct {
	name string
	fn   func(context.Context) Result
}

func (c *check) Name() string { return c.name }

func (c *check) Check(ctx context.Context) Result { return c.fn(ctx) }
