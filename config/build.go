package config

import (
	"net/http"

	"github.com/restocklabs/stockops/cache"
	"github.com/restocklabs/stockops/health"
	"github.com/restocklabs/stockops/httpclient"
	"github.com/restocklabs/stockops/inventory"
	"github.com/restocklabs/stockops/observe"
	"github.com/restocklabs/stockops/resilience"
	"github.com/restocklabs/stockops/supplier"
)

// HTTPClient builds the transport configuration for the supplier endpoint.
func (c *Config) HTTPClient() httpclient.Config {
	cfg := httpclient.Config{
		BaseURL:          c.Supplier.BaseURL,
		FallbackBaseURLs: c.Supplier.FallbackBaseURLs,
		Timeout:          c.Supplier.Timeout,
		Component:        "supplier",
		Retry: resilience.RetryConfig{
			MaxAttempts:  c.Supplier.RetryMaxAttempts,
			InitialDelay: c.Supplier.RetryInitialDelay,
			MaxDelay:     c.Supplier.RetryMaxDelay,
			Multiplier:   c.Supplier.RetryMultiplier,
			Jitter:       c.Supplier.RetryJitter,
		},
		Breaker: resilience.CircuitBreakerConfig{
			Name:         "supplier",
			MaxFailures:  c.Supplier.BreakerMaxFailures,
			ResetTimeout: c.Supplier.BreakerResetTimeout,
		},
	}
	if c.Supplier.APIKey != "" {
		cfg.Headers = http.Header{"X-Api-Key": []string{c.Supplier.APIKey}}
	}
	if c.Supplier.RateLimit > 0 {
		cfg.RateLimit = &resilience.RateLimiterConfig{
			Rate:  c.Supplier.RateLimit,
			Burst: c.Supplier.RateBurst,
		}
	}
	return cfg
}

// SupplierClient builds the supplier client configuration around the given
// cache store.
func (c *Config) SupplierClient(store cache.Cache) supplier.Config {
	return supplier.Config{
		Cache:               store,
		FreshFor:            c.Supplier.FreshFor,
		LastKnownFor:        c.Supplier.LastKnownFor,
		DefaultLeadTimeDays: c.Supplier.DefaultLeadTimeDays,
	}
}

// MemoryCache builds the in-memory availability cache.
func (c *Config) MemoryCache() *cache.MemoryCache {
	policy := cache.Policy{
		DefaultTTL: c.Cache.DefaultTTL,
		MaxTTL:     c.Cache.MaxTTL,
	}
	return cache.NewMemoryCacheSize(policy, c.Cache.MaxEntries)
}

// Observability builds the telemetry configuration.
func (c *Config) Observability() observe.Config {
	return observe.Config{
		ServiceName: c.ServiceName,
		Version:     c.Version,
		Tracing: observe.TracingConfig{
			Enabled:   c.Observe.TracingEnabled,
			Exporter:  c.Observe.TracingExporter,
			SamplePct: c.Observe.TracingSamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.Observe.MetricsEnabled,
			Exporter: c.Observe.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: c.Observe.LoggingEnabled,
			Level:   c.Observe.LogLevel,
		},
	}
}

// Health assembles the deployment's readiness surface: supplier
// reachability (degraded while the supplier breaker cools down) and the
// breaker guarding batch sync. Pass nil for collaborators a deployment
// does not run.
func (c *Config) Health(client *supplier.Client, adjustments *inventory.AdjustmentService) *health.Aggregator {
	agg := health.NewAggregator(health.AggregatorConfig{})
	if client != nil {
		agg.Register(supplier.NewHealthChecker(client))
	}
	if adjustments != nil {
		agg.Register(health.NewBreakerChecker("batch-sync", adjustments.BatchBreaker()))
	}
	return agg
}

// HealthHandler mounts the probe endpoints for the aggregator on a fresh
// mux: /healthz, /readyz, /health, /health/{check}.
func (c *Config) HealthHandler(agg *health.Aggregator) *http.ServeMux {
	mux := http.NewServeMux()
	health.NewHandler(agg).Routes(mux)
	return mux
}

// UnitOfWork opens the Postgres-backed inventory unit of work.
func (c *Config) UnitOfWork() (*inventory.SQLUnitOfWork, error) {
	if c.Database.DSN == "" {
		return nil, ErrMissingDSN
	}
	return inventory.OpenPostgres(c.Database.DSN)
}
