package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/restocklabs/stockops/observe"
	"github.com/restocklabs/stockops/resilience"
	"github.com/restocklabs/stockops/supplier"
)

const (
	// DefaultPollAttempts bounds order-status polling in AwaitOrder.
	DefaultPollAttempts = 10

	// DefaultPollDelay is the initial wait between order-status polls.
	DefaultPollDelay = 500 * time.Millisecond

	// DefaultPollMaxDelay caps the wait between order-status polls.
	DefaultPollMaxDelay = 10 * time.Second
)

// SupplierClient is what the adjustment service needs from the supplier
// integration. *supplier.Client satisfies it.
type SupplierClient interface {
	CheckAvailability(ctx context.Context, sku string, quantity int) (*supplier.Availability, error)
	PlaceOrder(ctx context.Context, order supplier.Order) (*supplier.OrderConfirmation, error)
	OrderStatus(ctx context.Context, orderID string) (*supplier.OrderStatus, error)
	SyncBatch(ctx context.Context, updates []supplier.BatchUpdate) (*supplier.BatchResult, error)
}

// ServiceConfig holds the adjustment service's tuning knobs.
type ServiceConfig struct {
	// BatchBreaker guards the supplier's batch-sync endpoint with a
	// breaker of its own, so a misbehaving batch endpoint cannot shed
	// interactive availability and order traffic (and vice versa).
	BatchBreaker resilience.CircuitBreakerConfig

	// Poll controls order-status polling in AwaitOrder. Defaults to
	// DefaultPollAttempts attempts backing off from DefaultPollDelay.
	Poll resilience.RetryConfig

	// Logger receives replenishment decisions. Defaults to a no-op logger.
	Logger observe.Logger
}

// AdjustmentService applies stock changes transactionally and drives
// replenishment against the supplier.
type AdjustmentService struct {
	uow      UnitOfWork
	supplier SupplierClient
	breaker  *resilience.CircuitBreaker
	poll     *resilience.Retry
	logger   observe.Logger
}

// NewAdjustmentService creates the service over a unit of work and a
// supplier client.
func NewAdjustmentService(uow UnitOfWork, supplierClient SupplierClient, config ServiceConfig) (*AdjustmentService, error) {
	if uow == nil {
		return nil, ErrMissingUnitOfWork
	}
	if supplierClient == nil {
		return nil, ErrMissingSupplier
	}

	breakerCfg := config.BatchBreaker
	if breakerCfg.Name == "" {
		breakerCfg.Name = "inventory-batch"
	}

	pollCfg := config.Poll
	if pollCfg.MaxAttempts <= 0 {
		pollCfg.MaxAttempts = DefaultPollAttempts
	}
	if pollCfg.InitialDelay <= 0 {
		pollCfg.InitialDelay = DefaultPollDelay
	}
	if pollCfg.MaxDelay <= 0 {
		pollCfg.MaxDelay = DefaultPollMaxDelay
	}
	// A missing order will not appear by polling harder.
	pollCfg.NonRetryable = append(
		append([]func(error) bool{}, pollCfg.NonRetryable...),
		func(err error) bool {
			return errors.Is(err, supplier.ErrOrderNotFound) || errors.Is(err, supplier.ErrMissingOrderID)
		},
	)

	logger := config.Logger
	if logger == nil {
		logger = observe.NewNoopLogger()
	}

	return &AdjustmentService{
		uow:      uow,
		supplier: supplierClient,
		breaker:  resilience.NewCircuitBreaker(breakerCfg),
		poll:     resilience.NewRetry(pollCfg),
		logger:   logger,
	}, nil
}

// Apply commits a batch of stock adjustments atomically: either every
// adjustment lands with its movement row, or none do.
func (s *AdjustmentService) Apply(ctx context.Context, adjustments []Adjustment) error {
	if len(adjustments) == 0 {
		return ErrNoAdjustments
	}
	for _, adj := range adjustments {
		if err := adj.Validate(); err != nil {
			return fmt.Errorf("%w (sku %q)", err, adj.SKU)
		}
	}

	now := time.Now().UTC()
	return s.uow.WithinTx(ctx, func(ctx context.Context, store StockStore) error {
		for _, adj := range adjustments {
			if err := store.AdjustQuantity(ctx, adj.SKU, adj.Delta); err != nil {
				return err
			}
			movement := Movement{
				SKU:        adj.SKU,
				Delta:      adj.Delta,
				Type:       MovementAdjustment,
				Reason:     adj.Reason,
				OccurredAt: now,
			}
			if err := store.RecordMovement(ctx, movement); err != nil {
				return err
			}
		}
		return nil
	})
}

// Replenish orders quantity units of a SKU from the supplier.
//
// When the supplier confirms availability the order is placed and an
// on-order movement is recorded transactionally. When it cannot confirm
// (genuinely out of stock, or unreachable and answering through the
// degraded path) no order is placed and the result carries the estimated
// lead time as a planned delay. Transport failures during availability
// checks never surface here; a failed order placement does.
func (s *AdjustmentService) Replenish(ctx context.Context, sku string, quantity int) (*ReplenishResult, error) {
	if sku == "" {
		return nil, ErrMissingSKU
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	av, err := s.supplier.CheckAvailability(ctx, sku, quantity)
	if err != nil {
		return nil, err
	}

	if !av.InStock {
		s.logger.Warn(ctx, "replenishment deferred, supplier cannot commit stock",
			observe.Field{Key: "sku", Value: sku},
			observe.Field{Key: "quantity", Value: quantity},
			observe.Field{Key: "availability_source", Value: string(av.Source)},
			observe.Field{Key: "planned_delay_days", Value: av.LeadTimeDays},
		)
		return &ReplenishResult{
			SKU:              sku,
			Quantity:         quantity,
			PlannedDelayDays: av.LeadTimeDays,
		}, nil
	}

	conf, err := s.supplier.PlaceOrder(ctx, supplier.Order{SKU: sku, Quantity: quantity})
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, store StockStore) error {
		return store.RecordMovement(ctx, Movement{
			SKU:        sku,
			Delta:      quantity,
			Type:       MovementOnOrder,
			Reason:     "replenishment",
			Reference:  conf.OrderID,
			OccurredAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "replenishment order placed",
		observe.Field{Key: "sku", Value: sku},
		observe.Field{Key: "quantity", Value: quantity},
		observe.Field{Key: "order_id", Value: conf.OrderID},
	)
	return &ReplenishResult{
		SKU:      sku,
		Quantity: quantity,
		Ordered:  true,
		OrderID:  conf.OrderID,
	}, nil
}

// SyncBatch pushes stock-level corrections to the supplier's batch endpoint
// through the service-owned breaker. Batch sync is background work; when
// its breaker is open callers get ErrCircuitOpen immediately and should
// reschedule.
func (s *AdjustmentService) SyncBatch(ctx context.Context, updates []supplier.BatchUpdate) (*supplier.BatchResult, error) {
	var result *supplier.BatchResult
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		r, err := s.supplier.SyncBatch(ctx, updates)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AwaitOrder polls the supplier until the order reaches a terminal state.
// Exhausting the poll budget returns ErrOrderNotSettled with the last
// observed state in the message.
func (s *AdjustmentService) AwaitOrder(ctx context.Context, orderID string) (*supplier.OrderStatus, error) {
	var status *supplier.OrderStatus
	err := s.poll.Execute(ctx, func(ctx context.Context) error {
		st, err := s.supplier.OrderStatus(ctx, orderID)
		if err != nil {
			return err
		}
		if !st.State.Terminal() {
			return fmt.Errorf("%w: %s is %s", ErrOrderNotSettled, orderID, st.State)
		}
		status = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// BatchBreaker exposes the breaker guarding batch sync, for health checks.
func (s *AdjustmentService) BatchBreaker() *resilience.CircuitBreaker {
	return s.breaker
}
