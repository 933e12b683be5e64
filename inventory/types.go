package inventory

import "time"

// Adjustment is one requested change to a SKU's on-hand quantity.
// Positive deltas receive stock, negative deltas remove it.
type Adjustment struct {
	SKU    string
	Delta  int
	Reason string
}

// Validate checks that the adjustment is well-formed.
func (a Adjustment) Validate() error {
	if a.SKU == "" {
		return ErrMissingSKU
	}
	if a.Delta == 0 {
		return ErrZeroDelta
	}
	return nil
}

// MovementType classifies a stock movement.
type MovementType string

const (
	// MovementAdjustment is a direct on-hand change: sales, returns,
	// damage, cycle counts.
	MovementAdjustment MovementType = "adjustment"

	// MovementOnOrder records stock ordered from the supplier but not yet
	// received.
	MovementOnOrder MovementType = "on-order"
)

// Movement is one audit row in the stock movement ledger.
type Movement struct {
	SKU        string
	Delta      int
	Type       MovementType
	Reason     string
	Reference  string // order ID for on-order movements
	OccurredAt time.Time
}

// ReplenishResult reports how a replenishment request resolved. Exactly one
// of the two shapes applies: the order was placed (Ordered true, OrderID
// set), or the supplier could not commit stock and the caller should plan
// for PlannedDelayDays before retrying.
type ReplenishResult struct {
	SKU      string
	Quantity int

	Ordered bool
	OrderID string

	// PlannedDelayDays is the supplier's estimated lead time when no order
	// could be placed. It is a planning signal, not an error: supplier
	// unavailability is an expected operating condition.
	PlannedDelayDays int
}
