package resilience

import "time"

// Clock supplies the current time. The circuit breaker reads time through
// a Clock so tests can drive reset timeouts without sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
