// Package health reports the health of the dependencies an inventory
// deployment leans on: the supplier endpoint, the warehouse database, and
// the circuit breakers guarding them.
//
// A Checker reports one dependency as Healthy, Degraded, or Unhealthy.
// Degraded means the service still answers, in reduced form — typically
// from cache while a breaker cools down — and readiness probes treat it
// as ready.
//
// An Aggregator runs registered checks concurrently under a shared
// timeout and keeps the worst status:
//
//	agg := health.NewAggregator(health.AggregatorConfig{})
//	agg.Register(
//	    supplier.NewHealthChecker(client),
//	    health.NewBreakerChecker("batch-sync", svc.BatchBreaker()),
//	    health.NewCheck("warehouse-db", pingDB),
//	)
//
// Handler exposes the report over HTTP in the usual probe shapes:
//
//	mux := http.NewServeMux()
//	health.NewHandler(agg).Routes(mux)
//	// GET /healthz  liveness, always 200 while serving
//	// GET /readyz   503 only when some check is unhealthy
//	// GET /health   detailed JSON report
package health
