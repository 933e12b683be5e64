package supplier

import "time"

// AvailabilitySource identifies where an availability answer came from.
type AvailabilitySource string

const (
	// SourceLive means the supplier answered directly.
	SourceLive AvailabilitySource = "live"
	// SourceCache means the answer is a stored last-known value.
	SourceCache AvailabilitySource = "cache"
	// SourceDefault means no answer was obtainable and the configured
	// default was served instead.
	SourceDefault AvailabilitySource = "default"
)

// Availability is the supplier's answer to a stock inquiry.
//
// Quantity is the number of units the supplier reports on hand, not the
// quantity that was asked about. CheckedAt records when the supplier was
// actually consulted, so values served from cache keep their original
// timestamp.
type Availability struct {
	SKU          string             `json:"sku"`
	InStock      bool               `json:"in_stock"`
	Quantity     int                `json:"quantity"`
	LeadTimeDays int                `json:"lead_time_days"`
	CheckedAt    time.Time          `json:"checked_at"`
	Source       AvailabilitySource `json:"source"`
}

// Order is a purchase order submitted to the supplier.
type Order struct {
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	Warehouse string `json:"warehouse,omitempty"`
}

// Validate checks that the order is well-formed.
func (o Order) Validate() error {
	if o.SKU == "" {
		return ErrMissingSKU
	}
	if o.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// OrderState is the lifecycle state of a supplier order.
type OrderState string

const (
	OrderPending   OrderState = "pending"
	OrderConfirmed OrderState = "confirmed"
	OrderShipped   OrderState = "shipped"
	OrderDelivered OrderState = "delivered"
	OrderCancelled OrderState = "cancelled"
	OrderRejected  OrderState = "rejected"
)

// Terminal reports whether the state is final: delivered, cancelled, or
// rejected orders will never change state again.
func (s OrderState) Terminal() bool {
	switch s {
	case OrderDelivered, OrderCancelled, OrderRejected:
		return true
	default:
		return false
	}
}

// OrderConfirmation is the supplier's acknowledgement of a placed order.
type OrderConfirmation struct {
	OrderID          string     `json:"order_id"`
	SKU              string     `json:"sku"`
	Quantity         int        `json:"quantity"`
	State            OrderState `json:"state"`
	ExpectedDelivery time.Time  `json:"expected_delivery,omitempty"`
}

// OrderStatus is the current state of a previously placed order.
type OrderStatus struct {
	OrderID   string     `json:"order_id"`
	State     OrderState `json:"state"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BatchUpdate is one stock-level correction in a batch sync.
type BatchUpdate struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// BatchResult reports how the supplier processed a batch sync.
type BatchResult struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}
