// Package httpclient provides an HTTP client with the resilience pipeline
// built in: retry with backoff, a circuit breaker, and failover across
// fallback base URLs.
//
// The client is the transport layer for supplier and warehouse API
// consumers. Callers describe a request relative to a base URL; the client
// decides which endpoint serves it and how many attempts that takes.
//
// # Execution model
//
// Each request runs through a fixed pipeline: rate limiter (optional),
// circuit breaker, then retry. The breaker is the outer layer, so a
// dependency that keeps failing is shed before any retry work is spent on
// it. With fallback base URLs configured, every base URL is a fallback
// candidate that runs the full retry policy before the next one is tried;
// the breaker counts a failure only when the whole chain is exhausted.
//
// # Status classification
//
// Responses with status >= 400 surface as *StatusError. 4xx statuses are
// not retried, except 408 and 429; 5xx statuses and transport errors are.
// The breaker's failure predicate is configured separately and counts every
// error by default.
//
// # Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL:          "https://api.supplier.example",
//	    FallbackBaseURLs: []string{"https://backup.supplier.example"},
//	    Timeout:          5 * time.Second,
//	    Retry: resilience.RetryConfig{
//	        MaxAttempts:  3,
//	        InitialDelay: 100 * time.Millisecond,
//	        Jitter:       true,
//	    },
//	    Breaker: resilience.CircuitBreakerConfig{
//	        MaxFailures:  5,
//	        ResetTimeout: 30 * time.Second,
//	    },
//	})
//
//	resp, err := client.Get(ctx, "/v1/availability/WIDGET-9")
//	if err != nil {
//	    // resilience.IsCircuitOpen(err), httpclient.IsStatus(err, 404), ...
//	}
//
//	var availability Availability
//	if err := resp.JSON(&availability); err != nil { ... }
//
// Responses carry the base URL that served them and the fallback index, so
// callers can observe failover without parsing logs.
package httpclient
