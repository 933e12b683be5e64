package health

import (
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// AggregatorConfig bounds a combined health check run.
type AggregatorConfig struct {
	// Timeout bounds one CheckAll run; checks still running when it
	// expires report unhealthy with ErrCheckTimeout.
	// Default: 10 seconds.
	Timeout time.Duration

	// MaxConcurrent caps how many checks run at once.
	// Default: 4.
	MaxConcurrent int
}

// Aggregator runs a set of health checks and combines them into one
// report. Checks keep their registration order in Names; registering a
// checker with an already-registered name replaces it.
type Aggregator struct {
	config AggregatorConfig

	mu     sync.RWMutex
	checks []Checker
}

// NewAggregator creates an aggregator with no checks registered.
func NewAggregator(config AggregatorConfig) *Aggregator {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 4
	}
	return &Aggregator{config: config}
}

// Register adds checkers to the aggregator, keyed by their Name.
func (a *Aggregator) Register(checks ...Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, c := range checks {
		idx := slices.IndexFunc(a.checks, func(existing Checker) bool {
			return existing.Name() == c.Name()
		})
		if idx >= 0 {
			a.checks[idx] = c
			continue
		}
		a.checks = append(a.checks, c)
	}
}

// Names returns the registered check names in registration order.
func (a *Aggregator) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, len(a.checks))
	for i, c := range a.checks {
		names[i] = c.Name()
	}
	return names
}

// Check runs the single named check. Returns ErrUnknownCheck when no
// checker with that name is registered.
func (a *Aggregator) Check(ctx context.Context, name string) (Result, error) {
	a.mu.RLock()
	idx := slices.IndexFunc(a.checks, func(c Checker) bool { return c.Name() == name })
	var checker Checker
	if idx >= 0 {
		checker = a.checks[idx]
	}
	a.mu.RUnlock()

	if checker == nil {
		return Result{}, ErrUnknownCheck
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()
	return a.run(ctx, checker), nil
}

// Report is the combined outcome of one CheckAll run. Status is the worst
// status across all checks; an empty aggregator reports healthy.
type Report struct {
	Status Status
	Checks map[string]Result
}

// CheckAll runs every registered check, at most MaxConcurrent at a time,
// and combines the results.
func (a *Aggregator) CheckAll(ctx context.Context) Report {
	a.mu.RLock()
	checks := slices.Clone(a.checks)
	a.mu.RUnlock()

	report := Report{Status: StatusHealthy, Checks: make(map[string]Result, len(checks))}
	if len(checks) == 0 {
		return report
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	results := make([]Result, len(checks))
	var g errgroup.Group
	g.SetLimit(a.config.MaxConcurrent)
	for i, c := range checks {
		g.Go(func() error {
			results[i] = a.run(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	for i, c := range checks {
		report.Checks[c.Name()] = results[i]
		if results[i].Status > report.Status {
			report.Status = results[i].Status
		}
	}
	return report
}

// run executes one check under a watchdog: a checker that ignores ctx and
// blocks past the deadline is abandoned and reported as timed out.
func (a *Aggregator) run(ctx context.Context, c Checker) Result {
	start := time.Now()
	done := make(chan Result, 1)

	go func() {
		done <- c.Check(ctx)
	}()

	select {
	case result := <-done:
		result.Duration = time.Since(start)
		if result.CheckedAt.IsZero() {
			result.CheckedAt = start
		}
		return result
	case <-ctx.Done():
		return Result{
			Status:    StatusUnhealthy,
			Message:   "check timed out",
			Err:       ErrCheckTimeout,
			Duration:  time.Since(start),
			CheckedAt: start,
		}
	}
}
