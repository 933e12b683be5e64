package health

import "errors"

var (
	// ErrCheckFailed marks an unhealthy result with no more specific cause.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout marks a check abandoned at the aggregator's timeout.
	ErrCheckTimeout = errors.New("health: check timed out")

	// ErrUnknownCheck is returned when a named check is not registered.
	ErrUnknownCheck = errors.New("health: unknown check")
)
