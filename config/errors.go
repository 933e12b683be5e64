package config

import "errors"

// ErrMissingDSN is returned when a database-backed component is requested
// without STOCKOPS_DB_DSN set.
var ErrMissingDSN = errors.New("config: database dsn is required")
