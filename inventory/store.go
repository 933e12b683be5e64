package inventory

import "context"

// StockStore is the narrow contract the adjustment service needs from the
// inventory schema. Implementations are only ever handed out inside a
// transaction; see UnitOfWork.
type StockStore interface {
	// AdjustQuantity changes a SKU's on-hand quantity by delta. An
	// adjustment that would drive the quantity below zero fails with
	// ErrInsufficientStock and must leave the row untouched.
	AdjustQuantity(ctx context.Context, sku string, delta int) error

	// RecordMovement appends an audit row for a stock change.
	RecordMovement(ctx context.Context, m Movement) error
}

// UnitOfWork runs stock mutations transactionally.
type UnitOfWork interface {
	// WithinTx runs fn against a transactional store. Every write fn makes
	// commits together, or none do: an error or panic from fn rolls the
	// whole transaction back.
	WithinTx(ctx context.Context, fn func(ctx context.Context, store StockStore) error) error
}
