package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// CallMeta contains metadata about an outbound call for telemetry purposes.
type CallMeta struct {
	ID        string // Fully qualified call ID (component.operation or just operation)
	Component string // Client subsystem issuing the call, e.g. "supplier" (may be empty)
	Operation string // Logical operation name, e.g. "check_availability" (required)
	Target    string // Remote target, typically a base URL or host (optional)
}

// SpanName returns the deterministic span name for this call.
// Format: outbound.<component>.<operation> or outbound.<operation>
func (m CallMeta) SpanName() string {
	if m.Component != "" {
		return "outbound." + m.Component + "." + m.Operation
	}
	return "outbound." + m.Operation
}

// CallID returns the fully qualified call identifier.
// If ID field is set, returns it. Otherwise constructs from component and operation.
func (m CallMeta) CallID() string {
	if m.ID != "" {
		return m.ID
	}
	if m.Component != "" {
		return m.Component + "." + m.Operation
	}
	return m.Operation
}

// Validate checks that the metadata is usable for telemetry.
func (m CallMeta) Validate() error {
	if m.Operation == "" {
		return ErrMissingOperation
	}
	return nil
}

// Tracer wraps OpenTelemetry tracing with call-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan must honor cancellation/deadlines and return ctx.Err() when canceled.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for an outbound call.
	StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with call metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span) {
	spanName := meta.SpanName()

	// Build attributes
	attrs := []attribute.KeyValue{
		attribute.String("call.id", meta.CallID()),
		attribute.String("call.operation", meta.Operation),
		attribute.Bool("call.error", false), // Will be updated in EndSpan if error
	}

	// Add component if present
	if meta.Component != "" {
		attrs = append(attrs, attribute.String("call.component", meta.Component))
	}

	// Add target if present
	if meta.Target != "" {
		attrs = append(attrs, attribute.String("call.target", meta.Target))
	}

	ctx, span := t.tracer.Start(ctx, spanName,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)

	return ctx, span
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("call.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
