// Package observe provides observability primitives for outbound calls.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. Consumers wire the observer into httpclient/supplier
// or service middleware.
package observe
