package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the checkpoint bus tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("ckpbus")

// StartOpSpan starts a span for one bus operation against an instant.
// Pass an empty instant for operations that do not target one.
func StartOpSpan(ctx context.Context, op, instant string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("bus.op", op),
	}
	if instant != "" {
		attrs = append(attrs, attribute.String("bus.instant", instant))
	}
	return tracer.Start(ctx, "ckpbus."+op,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
