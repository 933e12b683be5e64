package resilience

import (
	"context"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the circuit is operating normally.
	StateClosed State = iota
	// StateOpen means the circuit is blocking all requests.
	StateOpen
	// StateHalfOpen means the circuit is testing if the service recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// Name identifies the breaker in logs, hooks, and metrics.
	Name string

	// MaxFailures is the number of failures before opening the circuit.
	// Default: 5
	MaxFailures int

	// ResetTimeout is how long an open circuit waits before permitting a
	// half-open trial.
	// Default: 30 seconds
	ResetTimeout time.Duration

	// HalfOpenMaxRequests is the max in-flight trials in half-open state.
	// Default: 1
	HalfOpenMaxRequests int

	// OnStateChange is called when the circuit state changes. It runs with
	// the breaker's lock held and must not call back into the breaker.
	OnStateChange func(from, to State)

	// IsFailure determines if an error counts toward MaxFailures. Whether
	// client errors (for HTTP callers, 4xx) should trip the breaker is a
	// product decision; supply a predicate to exclude them.
	// Default: all non-nil errors are failures.
	IsFailure func(err error) bool

	// Clock overrides the time source.
	// Default: the system clock.
	Clock Clock
}

// CircuitBreaker implements the circuit breaker pattern. All state lives
// behind one mutex; Execute is the only mutator entry point.
type CircuitBreaker struct {
	config CircuitBreakerConfig
	clock  Clock

	mu            sync.Mutex
	state         State
	failures      int
	successes     int
	openedAt      time.Time
	lastFailure   time.Time
	halfOpenCount int
}

// NewCircuitBreaker creates a new circuit breaker in the closed state.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Apply defaults
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}
	if config.HalfOpenMaxRequests <= 0 {
		config.HalfOpenMaxRequests = 1
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}
	clock := config.Clock
	if clock == nil {
		clock = systemClock{}
	}

	return &CircuitBreaker{
		config: config,
		clock:  clock,
		state:  StateClosed,
	}
}

// Execute runs the operation through the circuit breaker. While open and
// inside the reset timeout it returns ErrCircuitOpen without invoking op;
// otherwise op's error is returned unchanged.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}

	// Settle in a defer so a panicking op still releases its half-open
	// admission slot instead of wedging the breaker.
	var err error
	done := false
	defer func() {
		if !done {
			err = ErrPanicked
		}
		cb.afterRequest(err)
	}()

	err = op(ctx)
	done = true
	return err
}

// Name returns the configured breaker name.
func (cb *CircuitBreaker) Name() string {
	return cb.config.Name
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}

// IsOpen reports whether calls would currently fast-fail.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.State() == StateOpen
}

// Reset forces the breaker to closed with zero failures and no open
// timestamp, for manual intervention and tests.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	oldState := cb.state
	cb.state = StateClosed
	cb.failures = 0
	cb.successes = 0
	cb.halfOpenCount = 0
	cb.openedAt = time.Time{}

	if oldState != StateClosed && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(oldState, StateClosed)
	}
}

// beforeRequest admits or rejects a call. Half-open admission happens under
// the mutex, so at most HalfOpenMaxRequests trials are ever outstanding:
// concurrent callers cannot both claim the trial slot.
func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state := cb.currentStateLocked()

	switch state {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.halfOpenCount >= cb.config.HalfOpenMaxRequests {
			return ErrCircuitOpen
		}
		cb.halfOpenCount++
	}

	return nil
}

func (cb *CircuitBreaker) afterRequest(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	isFailure := cb.config.IsFailure(err)
	oldState := cb.state

	switch cb.state {
	case StateClosed:
		if isFailure {
			cb.failures++
			cb.lastFailure = cb.clock.Now()
			if cb.failures >= cb.config.MaxFailures {
				cb.setStateLocked(StateOpen)
			}
		} else {
			// Success resets the failure count.
			cb.failures = 0
		}

	case StateHalfOpen:
		if isFailure {
			// Trial failed: back to open with a fresh cooldown window.
			cb.lastFailure = cb.clock.Now()
			cb.setStateLocked(StateOpen)
		} else {
			cb.successes++
			cb.setStateLocked(StateClosed)
			cb.failures = 0
			cb.successes = 0
		}
	}

	if oldState != cb.state && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(oldState, cb.state)
	}
}

// currentStateLocked performs the lazy open -> half-open transition once the
// reset timeout has elapsed. Callers must hold cb.mu.
func (cb *CircuitBreaker) currentStateLocked() State {
	if cb.state == StateOpen && cb.clock.Now().Sub(cb.openedAt) >= cb.config.ResetTimeout {
		cb.state = StateHalfOpen
		cb.halfOpenCount = 0
		if cb.config.OnStateChange != nil {
			cb.config.OnStateChange(StateOpen, StateHalfOpen)
		}
	}
	return cb.state
}

// setStateLocked transitions state and keeps the openedAt invariant: set
// exactly on entering open, cleared exactly on entering closed.
func (cb *CircuitBreaker) setStateLocked(state State) {
	cb.state = state
	switch state {
	case StateOpen:
		cb.openedAt = cb.clock.Now()
	case StateClosed:
		cb.openedAt = time.Time{}
	case StateHalfOpen:
		cb.halfOpenCount = 0
	}
}

// Metrics returns current circuit breaker metrics.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerMetrics{
		Name:        cb.config.Name,
		State:       cb.currentStateLocked(),
		Failures:    cb.failures,
		Successes:   cb.successes,
		OpenedAt:    cb.openedAt,
		LastFailure: cb.lastFailure,
	}
}

// CircuitBreakerMetrics contains circuit breaker statistics. OpenedAt is
// set when the circuit opens and cleared when it closes; while half-open it
// still reports the time of the last open.
type CircuitBreakerMetrics struct {
	Name        string
	State       State
	Failures    int
	Successes   int
	OpenedAt    time.Time
	LastFailure time.Time
}
