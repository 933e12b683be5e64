// Package inventory applies stock changes transactionally and drives
// replenishment against the supplier.
//
// The package owns two concerns:
//
//   - The unit-of-work contract. Stock mutations go through WithinTx, which
//     hands the callback a StockStore scoped to one transaction: every
//     adjustment and movement row commits together or not at all, and an
//     adjustment that would drive on-hand stock negative is rejected with
//     ErrInsufficientStock. SQLUnitOfWork is the Postgres implementation.
//
//   - The adjustment service. Apply commits adjustment batches atomically.
//     Replenish asks the supplier for stock and either places an order
//     (recording an on-order movement) or reports a planned delay when the
//     supplier cannot commit stock, including when the availability answer
//     came through the degraded cache/default path. SyncBatch pushes corrections
//     to the supplier's batch endpoint behind a breaker owned by this
//     service, so batch failures never shed interactive traffic. AwaitOrder
//     polls order status until a terminal state.
package inventory
