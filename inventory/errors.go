package inventory

import "errors"

var (
	// ErrMissingUnitOfWork is returned when the service is built without a
	// unit of work.
	ErrMissingUnitOfWork = errors.New("inventory: unit of work is required")

	// ErrMissingSupplier is returned when the service is built without a
	// supplier client.
	ErrMissingSupplier = errors.New("inventory: supplier client is required")

	// ErrMissingSKU is returned when an operation is called with an empty SKU.
	ErrMissingSKU = errors.New("inventory: sku is required")

	// ErrInvalidQuantity is returned when a quantity is zero or negative.
	ErrInvalidQuantity = errors.New("inventory: quantity must be positive")

	// ErrZeroDelta is returned for adjustments that would change nothing.
	ErrZeroDelta = errors.New("inventory: adjustment delta must be non-zero")

	// ErrNoAdjustments is returned when Apply is called with an empty batch.
	ErrNoAdjustments = errors.New("inventory: adjustment batch is empty")

	// ErrInsufficientStock is returned when an adjustment would drive a
	// SKU's on-hand quantity below zero.
	ErrInsufficientStock = errors.New("inventory: insufficient stock")

	// ErrOrderNotSettled is returned when order polling exhausts its
	// attempts before the order reaches a terminal state.
	ErrOrderNotSettled = errors.New("inventory: order not settled")
)

// IsInsufficientStock reports whether err is a stock-underflow rejection,
// including wrapped errors.
func IsInsufficientStock(err error) bool {
	return errors.Is(err, ErrInsufficientStock)
}
