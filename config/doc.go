// Package config is the composition root's view of the environment.
//
// Environment variables are read here and nowhere else. Load parses the
// STOCKOPS_* variables into a Config, and the builder methods turn that
// into the fully-formed configuration structs the other packages accept:
// HTTPClient for the transport, SupplierClient for the supplier
// integration, MemoryCache for availability caching, Observability for
// telemetry, and UnitOfWork for the inventory database.
//
//	cfg, err := config.Load(ctx)
//	if err != nil {
//		return err
//	}
//	hc, err := httpclient.New(cfg.HTTPClient())
//	if err != nil {
//		return err
//	}
//	store := cfg.MemoryCache()
//	sup, err := supplier.NewClient(hc, cfg.SupplierClient(store))
package config
