package supplier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/restocklabs/stockops/cache"
	"github.com/restocklabs/stockops/httpclient"
	"github.com/restocklabs/stockops/observe"
	"github.com/restocklabs/stockops/resilience"
)

const (
	// DefaultFreshFor is how long a cached availability answer is served
	// without consulting the supplier.
	DefaultFreshFor = 30 * time.Second

	// DefaultLastKnownFor is how long a stale availability value stays
	// eligible as a degraded fallback.
	DefaultLastKnownFor = 15 * time.Minute

	// DefaultLeadTimeDays is the estimated lead time reported when neither
	// a live nor a cached answer exists.
	DefaultLeadTimeDays = 7
)

// Config holds the supplier client's tuning knobs. The zero value is usable:
// caching is off and defaults fill the rest.
type Config struct {
	// Cache, when set, enables read-through caching of availability lookups
	// and retention of last-known values for degraded answers.
	Cache cache.Cache

	// FreshFor bounds how long a cached availability answer is served
	// without consulting the supplier. Default: DefaultFreshFor.
	FreshFor time.Duration

	// LastKnownFor bounds how long a stale value remains eligible as a
	// fallback candidate. Default: DefaultLastKnownFor.
	LastKnownFor time.Duration

	// DefaultLeadTimeDays is reported on the default (fully degraded)
	// availability answer. Default: DefaultLeadTimeDays.
	DefaultLeadTimeDays int

	// Logger receives degradation warnings. Defaults to a no-op logger.
	Logger observe.Logger

	// Middleware, when set, instruments each supplier operation with a
	// span, metrics, and a structured log line.
	Middleware *observe.Middleware
}

// Client is a typed consumer of the supplier partner API. All transport
// concerns (retry, failover, circuit breaking) live in the underlying
// httpclient.Client; this layer adds the domain operations, availability
// deduplication, and the safe-degradation path.
type Client struct {
	http        *httpclient.Client
	config      Config
	logger      observe.Logger
	group       singleflight.Group
	readthrough *cache.CacheMiddleware
}

// NewClient creates a supplier client over the given HTTP client.
func NewClient(httpClient *httpclient.Client, config Config) (*Client, error) {
	if httpClient == nil {
		return nil, ErrMissingClient
	}
	if config.FreshFor <= 0 {
		config.FreshFor = DefaultFreshFor
	}
	if config.LastKnownFor <= 0 {
		config.LastKnownFor = DefaultLastKnownFor
	}
	if config.DefaultLeadTimeDays <= 0 {
		config.DefaultLeadTimeDays = DefaultLeadTimeDays
	}

	logger := config.Logger
	if logger == nil {
		logger = observe.NewNoopLogger()
	}

	c := &Client{
		http:   httpClient,
		config: config,
		logger: logger,
	}
	if config.Cache != nil {
		c.readthrough = cache.NewCacheMiddleware(config.Cache, cache.NewDefaultKeyer(), cache.Policy{
			DefaultTTL: config.FreshFor,
			MaxTTL:     config.LastKnownFor,
		}, nil)
	}
	return c, nil
}

// availabilityQuery is the cache-key input for an availability lookup.
type availabilityQuery struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// CheckAvailability asks the supplier whether a SKU is in stock.
//
// The answer always arrives: when the supplier cannot be reached the client
// falls back to the last known value for the SKU, and failing that serves a
// default "not available, estimated lead time N days" answer. The Source
// field tells the caller which of the three it got. Concurrent checks for
// the same SKU and quantity are collapsed into a single upstream call.
func (c *Client) CheckAvailability(ctx context.Context, sku string, quantity int) (*Availability, error) {
	if sku == "" {
		return nil, ErrMissingSKU
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("availability:%s:%d", sku, quantity)
	v, err, _ := c.group.Do(key, func() (any, error) {
		return c.checkAvailability(ctx, sku, quantity)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Availability), nil
}

func (c *Client) checkAvailability(ctx context.Context, sku string, quantity int) (*Availability, error) {
	def := Availability{
		SKU:          sku,
		InStock:      false,
		LeadTimeDays: c.config.DefaultLeadTimeDays,
		CheckedAt:    time.Now(),
		Source:       SourceDefault,
	}

	fb := resilience.NewFallback[Availability](resilience.FallbackConfig[Availability]{
		Default: &def,
		OnFallback: func(_ int, cause error) {
			c.logger.Warn(ctx, "availability degraded to last-known value",
				observe.Field{Key: "sku", Value: sku},
				observe.Field{Key: "cause", Value: cause.Error()},
			)
		},
	})

	out, err := fb.Execute(ctx,
		func(ctx context.Context) (Availability, error) {
			return c.fetchAvailability(ctx, sku, quantity)
		},
		func(ctx context.Context) (Availability, error) {
			return c.lastKnownAvailability(ctx, sku)
		},
	)
	if err != nil {
		return nil, err
	}
	if out.UsedDefault {
		c.logger.Warn(ctx, "availability unobtainable, serving default answer",
			observe.Field{Key: "sku", Value: sku},
			observe.Field{Key: "lead_time_days", Value: c.config.DefaultLeadTimeDays},
			observe.Field{Key: "cause", Value: out.Err.Error()},
		)
	}

	av := out.Result
	return &av, nil
}

// fetchAvailability goes through the read-through cache when one is
// configured, so repeated checks within FreshFor cost nothing upstream.
func (c *Client) fetchAvailability(ctx context.Context, sku string, quantity int) (Availability, error) {
	if c.readthrough == nil {
		return c.fetchAvailabilityLive(ctx, sku, quantity)
	}

	input := availabilityQuery{SKU: sku, Quantity: quantity}
	raw, err := c.readthrough.Execute(ctx, "supplier.check_availability", input,
		func(ctx context.Context, _ string, _ any) ([]byte, error) {
			av, err := c.fetchAvailabilityLive(ctx, sku, quantity)
			if err != nil {
				return nil, err
			}
			return json.Marshal(av)
		})
	if err != nil {
		return Availability{}, err
	}

	var av Availability
	if err := json.Unmarshal(raw, &av); err != nil {
		return Availability{}, fmt.Errorf("supplier: decode cached availability: %w", err)
	}
	return av, nil
}

// fetchAvailabilityLive consults the supplier and stores the answer as the
// SKU's last-known value.
func (c *Client) fetchAvailabilityLive(ctx context.Context, sku string, quantity int) (Availability, error) {
	var av Availability
	err := c.instrument(ctx, "check_availability", func(ctx context.Context) error {
		resp, err := c.http.Do(ctx, httpclient.Request{
			Method: http.MethodGet,
			Path:   "/v1/availability/" + url.PathEscape(sku),
			Query:  url.Values{"quantity": []string{strconv.Itoa(quantity)}},
		})
		if err != nil {
			return err
		}
		return resp.JSON(&av)
	})
	if err != nil {
		return Availability{}, err
	}

	if av.SKU == "" {
		av.SKU = sku
	}
	av.CheckedAt = time.Now()
	av.Source = SourceLive
	c.storeLastKnown(ctx, av)
	return av, nil
}

// lastKnownAvailability serves the stored value for a SKU, relabelled as
// cache-sourced. The stored CheckedAt survives, so callers can see how
// stale the answer is.
func (c *Client) lastKnownAvailability(ctx context.Context, sku string) (Availability, error) {
	if c.config.Cache == nil {
		return Availability{}, ErrNoCachedAvailability
	}
	data, ok := c.config.Cache.Get(ctx, lastKnownKey(sku))
	if !ok {
		return Availability{}, fmt.Errorf("%w: %s", ErrNoCachedAvailability, sku)
	}
	var av Availability
	if err := json.Unmarshal(data, &av); err != nil {
		return Availability{}, fmt.Errorf("supplier: decode last-known availability: %w", err)
	}
	av.Source = SourceCache
	return av, nil
}

func (c *Client) storeLastKnown(ctx context.Context, av Availability) {
	if c.config.Cache == nil {
		return
	}
	data, err := json.Marshal(av)
	if err != nil {
		return
	}
	if err := c.config.Cache.Set(ctx, lastKnownKey(av.SKU), data, c.config.LastKnownFor); err != nil {
		c.logger.Debug(ctx, "failed to store last-known availability",
			observe.Field{Key: "sku", Value: av.SKU},
			observe.Field{Key: "error", Value: err.Error()},
		)
	}
}

func lastKnownKey(sku string) string {
	return "supplier:last-known:" + sku
}

// PlaceOrder submits a purchase order. No degradation here: an order either
// reaches the supplier or the caller gets the transport error.
func (c *Client) PlaceOrder(ctx context.Context, order Order) (*OrderConfirmation, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}

	var conf OrderConfirmation
	err := c.instrument(ctx, "place_order", func(ctx context.Context) error {
		resp, err := c.http.Post(ctx, "/v1/orders", order)
		if err != nil {
			return err
		}
		return resp.JSON(&conf)
	})
	if err != nil {
		return nil, err
	}
	return &conf, nil
}

// OrderStatus fetches the current state of a placed order. A supplier 404
// maps to ErrOrderNotFound.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (*OrderStatus, error) {
	if orderID == "" {
		return nil, ErrMissingOrderID
	}

	var status OrderStatus
	err := c.instrument(ctx, "order_status", func(ctx context.Context) error {
		resp, err := c.http.Get(ctx, "/v1/orders/"+url.PathEscape(orderID))
		if err != nil {
			if httpclient.IsStatus(err, http.StatusNotFound) {
				return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
			}
			return err
		}
		return resp.JSON(&status)
	})
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// SyncBatch pushes a batch of stock-level corrections to the supplier.
func (c *Client) SyncBatch(ctx context.Context, updates []BatchUpdate) (*BatchResult, error) {
	if len(updates) == 0 {
		return &BatchResult{}, nil
	}

	payload := struct {
		Updates []BatchUpdate `json:"updates"`
	}{Updates: updates}

	var result BatchResult
	err := c.instrument(ctx, "sync_batch", func(ctx context.Context) error {
		resp, err := c.http.Post(ctx, "/v1/stock/sync", payload)
		if err != nil {
			return err
		}
		return resp.JSON(&result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping checks supplier reachability. It rides the same breaker as real
// traffic, so a ping during an open circuit fails fast.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.http.Get(ctx, "/v1/ping")
	return err
}

// Breaker exposes the underlying HTTP client's circuit breaker.
func (c *Client) Breaker() *resilience.CircuitBreaker {
	return c.http.Breaker()
}

func (c *Client) instrument(ctx context.Context, operation string, fn func(context.Context) error) error {
	if c.config.Middleware == nil {
		return fn(ctx)
	}
	call := observe.CallMeta{
		Component: "supplier",
		Operation: operation,
		Target:    c.http.Config().BaseURL,
	}
	wrapped := c.config.Middleware.Wrap(func(ctx context.Context, _ observe.CallMeta) error {
		return fn(ctx)
	})
	return wrapped(ctx, call)
}
