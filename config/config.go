package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the full environment surface of a stockops deployment. The
// environment is read here and nowhere else; every other package accepts
// fully-formed configuration structs built from this one.
type Config struct {
	ServiceName string `env:"STOCKOPS_SERVICE_NAME, default=stockops"`
	Version     string `env:"STOCKOPS_VERSION"`

	Supplier SupplierConfig `env:", prefix=STOCKOPS_SUPPLIER_"`
	Database DatabaseConfig `env:", prefix=STOCKOPS_DB_"`
	Cache    CacheConfig    `env:", prefix=STOCKOPS_CACHE_"`
	Observe  ObserveConfig  `env:", prefix=STOCKOPS_OBSERVE_"`
}

// SupplierConfig covers the supplier endpoint and the resilience posture
// of the client that talks to it.
type SupplierConfig struct {
	BaseURL          string        `env:"BASE_URL, required"`
	FallbackBaseURLs []string      `env:"FALLBACK_BASE_URLS"`
	APIKey           string        `env:"API_KEY"`
	Timeout          time.Duration `env:"TIMEOUT, default=10s"`

	RetryMaxAttempts  int           `env:"RETRY_MAX_ATTEMPTS, default=3"`
	RetryInitialDelay time.Duration `env:"RETRY_INITIAL_DELAY, default=100ms"`
	RetryMaxDelay     time.Duration `env:"RETRY_MAX_DELAY, default=5s"`
	RetryMultiplier   float64       `env:"RETRY_MULTIPLIER, default=2.0"`
	RetryJitter       bool          `env:"RETRY_JITTER, default=true"`

	BreakerMaxFailures  int           `env:"BREAKER_MAX_FAILURES, default=5"`
	BreakerResetTimeout time.Duration `env:"BREAKER_RESET_TIMEOUT, default=30s"`

	// RateLimit is outbound requests per second; zero disables limiting.
	RateLimit float64 `env:"RATE_LIMIT"`
	RateBurst int     `env:"RATE_BURST, default=1"`

	FreshFor            time.Duration `env:"AVAILABILITY_FRESH_FOR, default=30s"`
	LastKnownFor        time.Duration `env:"AVAILABILITY_LAST_KNOWN_FOR, default=15m"`
	DefaultLeadTimeDays int           `env:"DEFAULT_LEAD_TIME_DAYS, default=7"`
}

// DatabaseConfig locates the inventory database.
type DatabaseConfig struct {
	DSN string `env:"DSN"`
}

// CacheConfig sizes the in-memory availability cache.
type CacheConfig struct {
	MaxEntries int           `env:"MAX_ENTRIES, default=4096"`
	DefaultTTL time.Duration `env:"DEFAULT_TTL, default=30s"`
	MaxTTL     time.Duration `env:"MAX_TTL, default=15m"`
}

// ObserveConfig selects telemetry exporters and the log level.
type ObserveConfig struct {
	TracingEnabled   bool    `env:"TRACING_ENABLED, default=false"`
	TracingExporter  string  `env:"TRACING_EXPORTER, default=stdout"`
	TracingSamplePct float64 `env:"TRACING_SAMPLE_PCT, default=1.0"`

	MetricsEnabled  bool   `env:"METRICS_ENABLED, default=false"`
	MetricsExporter string `env:"METRICS_EXPORTER, default=prometheus"`

	LoggingEnabled bool   `env:"LOGGING_ENABLED, default=true"`
	LogLevel       string `env:"LOG_LEVEL, default=info"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from the given lookuper instead of the
// process environment. Tests use this with envconfig.MapLookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	})
	if err != nil {
		return nil, fmt.Errorf("config: process environment: %w", err)
	}
	return &cfg, nil
}
