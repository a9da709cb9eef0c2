package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names. Node spans are SpanNode followed by the node name.
const (
	SpanRun  = "chatgraph.run"
	SpanNode = "chatgraph.node."
)

// SpanManager opens and closes the spans of a walk: one run span with a
// child per executed node.
type SpanManager interface {
	StartRunSpan(ctx context.Context, graphName, runID string) (context.Context, trace.Span)
	StartNodeSpan(ctx context.Context, nodeID string) (context.Context, trace.Span)
	// EndSpanWithError sets the span status from err and ends it.
	EndSpanWithError(span trace.Span, err error)
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

type otelSpanManager struct {
	tracer trace.Tracer
}

// NewSpanManager traces through the global tracer provider as resolved at
// call time.
func NewSpanManager() SpanManager {
	return otelSpanManager{tracer: otel.Tracer(MeterName)}
}

func (m otelSpanManager) StartRunSpan(ctx context.Context, graphName, runID string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, SpanRun, trace.WithAttributes(
		attribute.String("graph.name", graphName),
		attribute.String("run.id", runID),
	))
}

func (m otelSpanManager) StartNodeSpan(ctx context.Context, nodeID string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, SpanNode+nodeID, trace.WithAttributes(attribute.String("node.id", nodeID)))
}

func (otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	defer span.End()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

func (otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// AddSpanEvent adds an event to the recording span in ctx, if any.
// Nodes use it to mark model attempts without holding a SpanManager.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}
