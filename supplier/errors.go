package supplier

import "errors"

var (
	// ErrMissingClient is returned when NewClient is called without an HTTP client.
	ErrMissingClient = errors.New("supplier: http client is required")

	// ErrMissingSKU is returned when an operation is called with an empty SKU.
	ErrMissingSKU = errors.New("supplier: sku is required")

	// ErrInvalidQuantity is returned when a quantity is zero or negative.
	ErrInvalidQuantity = errors.New("supplier: quantity must be positive")

	// ErrMissingOrderID is returned when an order lookup is missing its ID.
	ErrMissingOrderID = errors.New("supplier: order id is required")

	// ErrOrderNotFound is returned when the supplier does not know the order.
	ErrOrderNotFound = errors.New("supplier: order not found")

	// ErrNoCachedAvailability is returned by the last-known fallback when no
	// cached value exists for the SKU.
	ErrNoCachedAvailability = errors.New("supplier: no cached availability")
)
