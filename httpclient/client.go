package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/restocklabs/stockops/observe"
	"github.com/restocklabs/stockops/resilience"
)

const (
	// DefaultTimeout bounds each individual HTTP attempt.
	DefaultTimeout = 10 * time.Second

	// RequestIDHeader carries the per-request correlation ID. The same ID
	// is sent on every retry and fallback attempt of one logical request.
	RequestIDHeader = "X-Request-ID"

	defaultUserAgent = "stockops-httpclient"
	defaultComponent = "http"
)

// Config configures the resilient HTTP client.
type Config struct {
	// BaseURL is the primary endpoint, e.g. "https://api.supplier.example".
	BaseURL string

	// FallbackBaseURLs are alternate endpoints tried in order after the
	// primary fails. The full retry policy runs against each base URL
	// before the client moves on to the next.
	FallbackBaseURLs []string

	// Timeout bounds each individual HTTP attempt.
	// Default: 10 seconds.
	Timeout time.Duration

	// Headers are sent on every request. Per-request headers win on
	// conflict.
	Headers http.Header

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Component names this client in spans and logs.
	// Default: "http".
	Component string

	// Retry configures per-base-URL retry. The status classification is
	// applied on top: 4xx responses never retry, except 408 and 429.
	Retry resilience.RetryConfig

	// Breaker configures the client's circuit breaker. The client owns one
	// breaker and applies it around every base-URL candidate: each
	// exhausted retry run counts as one breaker failure, and once open the
	// breaker fast-fails remaining candidates mid-chain.
	Breaker resilience.CircuitBreakerConfig

	// RateLimit, when set, bounds outbound request rate.
	RateLimit *resilience.RateLimiterConfig

	// Transport overrides the HTTP transport.
	Transport http.RoundTripper

	// Middleware, when set, instruments each request with a span, metrics,
	// and a structured log entry.
	Middleware *observe.Middleware

	// Logger receives failover and breaker state-change logs.
	// Default: a noop logger.
	Logger observe.Logger
}

// Client is an HTTP client with retry, circuit breaking, and base-URL
// failover built in. All methods are safe for concurrent use.
type Client struct {
	config     Config
	httpClient *http.Client
	retry      *resilience.Retry
	breaker    *resilience.CircuitBreaker
	limiter    *resilience.RateLimiter
	logger     observe.Logger
}

// New creates a client from the config. Every client owns its circuit
// breaker; two clients never share breaker state.
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if err := validateBaseURL(config.BaseURL); err != nil {
		return nil, err
	}
	for _, alt := range config.FallbackBaseURLs {
		if err := validateBaseURL(alt); err != nil {
			return nil, err
		}
	}

	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Component == "" {
		config.Component = defaultComponent
	}

	logger := config.Logger
	if logger == nil {
		logger = observe.NewNoopLogger()
	}

	// Status classification joins any caller-supplied predicates; the
	// stored config keeps the caller's list so Clone does not stack copies.
	retryCfg := config.Retry
	retryCfg.NonRetryable = append(
		append([]func(error) bool{}, retryCfg.NonRetryable...),
		NonRetryableStatus,
	)

	breakerCfg := config.Breaker
	if breakerCfg.Name == "" {
		breakerCfg.Name = config.Component
	}
	if breakerCfg.OnStateChange == nil && config.Logger != nil {
		name := breakerCfg.Name
		breakerCfg.OnStateChange = func(from, to resilience.State) {
			logger.Warn(context.Background(), "circuit state changed",
				observe.Field{Key: "breaker", Value: name},
				observe.Field{Key: "from", Value: from.String()},
				observe.Field{Key: "to", Value: to.String()},
			)
		}
	}

	client := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: config.Transport,
		},
		retry:   resilience.NewRetry(retryCfg),
		breaker: resilience.NewCircuitBreaker(breakerCfg),
		logger:  logger,
	}
	if config.RateLimit != nil {
		client.limiter = resilience.NewRateLimiter(*config.RateLimit)
	}

	return client, nil
}

// Get issues a GET request for path.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path})
}

// Post issues a POST request with the given body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put issues a PUT request with the given body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch issues a PATCH request with the given body.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete issues a DELETE request for path.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path})
}

// Do executes a normalized request through the resilience pipeline: rate
// limiter, then base-URL failover where every candidate runs the full retry
// policy under the client's circuit breaker (breaker outer, retry inner).
// A breaker fast-fail surfaces as resilience.ErrCircuitOpen; a response
// with status >= 400 surfaces as *StatusError.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	requestID := req.Headers.Get(RequestIDHeader)
	if requestID == "" {
		requestID = c.config.Headers.Get(RequestIDHeader)
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}

	var resp *Response
	pipeline := func(ctx context.Context) error {
		r, err := c.execute(ctx, req, body, contentType, requestID)
		if err != nil {
			return err
		}
		resp = r
		return nil
	}
	if c.limiter != nil {
		guarded := pipeline
		pipeline = func(ctx context.Context) error {
			return c.limiter.Execute(ctx, guarded)
		}
	}

	if c.config.Middleware != nil {
		meta := observe.CallMeta{
			Component: c.config.Component,
			Operation: strings.ToLower(req.Method),
			Target:    c.config.BaseURL,
		}
		err = c.config.Middleware.Wrap(func(ctx context.Context, _ observe.CallMeta) error {
			return pipeline(ctx)
		})(ctx, meta)
	} else {
		err = pipeline(ctx)
	}

	if err != nil {
		return nil, err
	}
	return resp, nil
}

// execute runs one request against the configured base URLs. Without
// fallbacks this is one guarded run against the primary; with fallbacks
// each base URL becomes a chain candidate, each guarded independently so an
// exhausted candidate counts as a breaker failure and an open breaker
// fast-fails the rest of the chain.
func (c *Client) execute(ctx context.Context, req Request, body []byte, contentType, requestID string) (*Response, error) {
	if len(c.config.FallbackBaseURLs) == 0 {
		resp, err := c.guarded(ctx, c.config.BaseURL, req, body, contentType, requestID)
		if err != nil {
			return nil, err
		}
		resp.FallbackIndex = resilience.PrimaryIndex
		return resp, nil
	}

	chain := resilience.NewFallback[*Response](resilience.FallbackConfig[*Response]{
		OnFallback: func(index int, cause error) {
			c.logger.Warn(ctx, "failing over to fallback base URL",
				observe.Field{Key: "fallback_index", Value: index},
				observe.Field{Key: "base_url", Value: c.config.FallbackBaseURLs[index]},
				observe.Field{Key: "cause", Value: cause.Error()},
			)
		},
	})

	candidates := make([]func(context.Context) (*Response, error), 0, len(c.config.FallbackBaseURLs))
	for _, alt := range c.config.FallbackBaseURLs {
		candidates = append(candidates, func(ctx context.Context) (*Response, error) {
			return c.guarded(ctx, alt, req, body, contentType, requestID)
		})
	}

	out, err := chain.Execute(ctx, func(ctx context.Context) (*Response, error) {
		return c.guarded(ctx, c.config.BaseURL, req, body, contentType, requestID)
	}, candidates...)
	if err != nil {
		return nil, err
	}

	out.Result.FallbackIndex = out.FallbackIndex
	return out.Result, nil
}

// guarded runs the full retry policy against one base URL under the
// client's circuit breaker. Breaker is the outer layer: once open it
// rejects the candidate before any attempt is made.
func (c *Client) guarded(ctx context.Context, baseURL string, req Request, body []byte, contentType, requestID string) (*Response, error) {
	var resp *Response
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.retry.Execute(ctx, func(ctx context.Context) error {
			r, err := c.attempt(ctx, baseURL, req, body, contentType, requestID)
			if err != nil {
				return err
			}
			resp = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// attempt performs a single HTTP round trip against one base URL.
func (c *Client) attempt(ctx context.Context, baseURL string, req Request, body []byte, contentType, requestID string) (*Response, error) {
	target, err := buildURL(baseURL, req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, bodyReader(body))
	if err != nil {
		return nil, fmt.Errorf("httpclient: build request: %w", err)
	}

	for key, values := range c.config.Headers {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	for key, values := range req.Headers {
		httpReq.Header.Del(key)
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if httpReq.Header.Get("User-Agent") == "" {
		ua := c.config.UserAgent
		if ua == "" {
			ua = defaultUserAgent
		}
		httpReq.Header.Set("User-Agent", ua)
	}
	httpReq.Header.Set(RequestIDHeader, requestID)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s %s: %w", req.Method, target, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read response body: %w", err)
	}

	if httpResp.StatusCode >= 400 {
		return nil, &StatusError{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			Body:       data,
		}
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
		BaseURL:    baseURL,
	}, nil
}

// Breaker exposes the client's circuit breaker for inspection and reset.
func (c *Client) Breaker() *resilience.CircuitBreaker {
	return c.breaker
}

// Config returns the client configuration.
func (c *Client) Config() Config {
	return c.config
}

// Clone returns a new client with the non-zero fields of override merged
// over the current configuration. The clone owns a fresh circuit breaker;
// breaker state never carries across clients.
func (c *Client) Clone(override Config) (*Client, error) {
	merged := c.config
	if override.BaseURL != "" {
		merged.BaseURL = override.BaseURL
	}
	if override.FallbackBaseURLs != nil {
		merged.FallbackBaseURLs = override.FallbackBaseURLs
	}
	if override.Timeout > 0 {
		merged.Timeout = override.Timeout
	}
	if override.Headers != nil {
		merged.Headers = override.Headers
	}
	if override.UserAgent != "" {
		merged.UserAgent = override.UserAgent
	}
	if override.Component != "" {
		merged.Component = override.Component
	}
	if retryConfigured(override.Retry) {
		merged.Retry = override.Retry
	}
	if breakerConfigured(override.Breaker) {
		merged.Breaker = override.Breaker
	}
	if override.RateLimit != nil {
		merged.RateLimit = override.RateLimit
	}
	if override.Transport != nil {
		merged.Transport = override.Transport
	}
	if override.Middleware != nil {
		merged.Middleware = override.Middleware
	}
	if override.Logger != nil {
		merged.Logger = override.Logger
	}

	return New(merged)
}

// retryConfigured reports whether any retry knob was set. A Jitter-only
// override is indistinguishable from the zero value and needs at least one
// other field set.
func retryConfigured(rc resilience.RetryConfig) bool {
	return rc.MaxAttempts != 0 || rc.InitialDelay != 0 || rc.MaxDelay != 0 ||
		rc.Multiplier != 0 || rc.Strategy != resilience.BackoffExponential ||
		rc.NonRetryable != nil || rc.RetryIf != nil || rc.OnRetry != nil
}

func breakerConfigured(bc resilience.CircuitBreakerConfig) bool {
	return bc.Name != "" || bc.MaxFailures != 0 || bc.ResetTimeout != 0 ||
		bc.HalfOpenMaxRequests != 0 || bc.OnStateChange != nil ||
		bc.IsFailure != nil || bc.Clock != nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidBaseURL, raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, raw)
	}
	return nil
}

func buildURL(base, path string, query url.Values) (string, error) {
	target, err := url.JoinPath(base, path)
	if err != nil {
		return "", fmt.Errorf("httpclient: join %q and %q: %w", base, path, err)
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target, nil
}
