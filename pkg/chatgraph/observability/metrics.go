package observability

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	cgerrors "github.com/randalmurphal/chatgraph/pkg/chatgraph/errors"
)

// MeterName is the instrumentation scope of every chatgraph instrument.
const MeterName = "chatgraph"

// MetricsRecorder receives the measurements of a walk.
// NewMetricsRecorder reports to OpenTelemetry; NoopMetrics drops everything.
type MetricsRecorder interface {
	// RecordNodeExecution counts one node execution. A non-nil err is also
	// counted under its error category.
	RecordNodeExecution(ctx context.Context, nodeID string, duration time.Duration, err error)

	// RecordGraphRun counts one finished walk.
	RecordGraphRun(ctx context.Context, success bool, duration time.Duration)

	// RecordChatAttempt counts one model call made by a chat node.
	// outcome is "valid", "invalid" or "failed".
	RecordChatAttempt(ctx context.Context, nodeID, outcome string, duration time.Duration)
}

// otelMetrics pairs a counter and a millisecond histogram per measured thing.
type otelMetrics struct {
	nodeExecutions metric.Int64Counter
	nodeErrors     metric.Int64Counter
	nodeLatency    metric.Float64Histogram

	graphRuns    metric.Int64Counter
	graphLatency metric.Float64Histogram

	chatAttempts   metric.Int64Counter
	attemptLatency metric.Float64Histogram
}

var (
	sharedMetrics     *otelMetrics
	sharedMetricsErr  error
	sharedMetricsOnce sync.Once
)

// newOtelMetrics creates the instruments on the global meter provider.
// Every creation error is reported, joined.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter(MeterName)
	var errs []error

	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		errs = append(errs, err)
		return c
	}
	millis := func(name, desc string) metric.Float64Histogram {
		h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("ms"))
		errs = append(errs, err)
		return h
	}

	m := &otelMetrics{
		nodeExecutions: counter("chatgraph.node.executions", "Node executions"),
		nodeErrors:     counter("chatgraph.node.errors", "Node executions that returned an error"),
		nodeLatency:    millis("chatgraph.node.latency_ms", "Node execution time"),
		graphRuns:      counter("chatgraph.graph.runs", "Finished graph walks"),
		graphLatency:   millis("chatgraph.graph.latency_ms", "Graph walk time"),
		chatAttempts:   counter("chatgraph.chat.attempts", "Model calls made by chat nodes"),
		attemptLatency: millis("chatgraph.chat.attempt_latency_ms", "Model call time"),
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// NewMetricsRecorder returns the process-wide OpenTelemetry recorder.
//
// Instruments are created once, on the meter provider installed when this
// is first called; set the provider with otel.SetMeterProvider before any
// walk runs with metrics enabled. If the instruments cannot be created a
// warning is logged and NoopMetrics is returned.
func NewMetricsRecorder() MetricsRecorder {
	sharedMetricsOnce.Do(func() {
		sharedMetrics, sharedMetricsErr = newOtelMetrics()
	})
	if sharedMetricsErr != nil {
		slog.Warn("metrics unavailable, recording nothing", slog.String("error", sharedMetricsErr.Error()))
		return NoopMetrics{}
	}
	return sharedMetrics
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func (m *otelMetrics) RecordNodeExecution(ctx context.Context, nodeID string, duration time.Duration, err error) {
	node := attribute.String("node_id", nodeID)
	m.nodeExecutions.Add(ctx, 1, metric.WithAttributes(node))
	m.nodeLatency.Record(ctx, millis(duration), metric.WithAttributes(node))
	if err != nil {
		m.nodeErrors.Add(ctx, 1, metric.WithAttributes(node,
			attribute.String("category", cgerrors.Categorize(err).String())))
	}
}

func (m *otelMetrics) RecordGraphRun(ctx context.Context, success bool, duration time.Duration) {
	opt := metric.WithAttributes(attribute.Bool("success", success))
	m.graphRuns.Add(ctx, 1, opt)
	m.graphLatency.Record(ctx, millis(duration), opt)
}

func (m *otelMetrics) RecordChatAttempt(ctx context.Context, nodeID, outcome string, duration time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("node_id", nodeID),
		attribute.String("outcome", outcome),
	)
	m.chatAttempts.Add(ctx, 1, opt)
	m.attemptLatency.Record(ctx, millis(duration), opt)
}
