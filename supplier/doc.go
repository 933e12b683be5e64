// Package supplier is the typed client for the supplier partner API:
// availability checks, order placement, order-status polling, and batch
// stock synchronization.
//
// Transport resilience (retry, base-URL failover, circuit breaking) lives
// in the underlying httpclient.Client. This package adds what the domain
// needs on top:
//
//   - Availability checks never fail. When the supplier is unreachable the
//     client serves the last known value for the SKU, and when none exists
//     it serves a default "not available, estimated lead time N days"
//     answer. Availability.Source says which of the three the caller got,
//     and every degradation is logged.
//   - Concurrent availability checks for the same SKU and quantity collapse
//     into one upstream request.
//   - With a cache configured, repeat checks within the freshness window
//     are answered locally.
//
// Orders are different: placing an order must either reach the supplier or
// fail loudly, so PlaceOrder and SyncBatch propagate transport errors
// unchanged.
//
// # Usage
//
//	hc, err := httpclient.New(httpclient.Config{
//		BaseURL:          "https://api.supplier.example",
//		FallbackBaseURLs: []string{"https://standby.supplier.example"},
//	})
//	if err != nil {
//		return err
//	}
//	client, err := supplier.NewClient(hc, supplier.Config{
//		Cache: cache.NewMemoryCache(cache.DefaultPolicy()),
//	})
//	if err != nil {
//		return err
//	}
//
//	av, err := client.CheckAvailability(ctx, "SKU-1042", 25)
//	if err != nil {
//		return err
//	}
//	if av.Source != supplier.SourceLive {
//		// degraded answer, stock decision is best-effort
//	}
package supplier
