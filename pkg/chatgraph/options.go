package chatgraph

import (
	"log/slog"

	"github.com/randalmurphal/chatgraph/pkg/chatgraph/observability"
)

// runConfig holds configuration for graph execution.
type runConfig struct {
	runID          string
	logger         *slog.Logger
	metricsEnabled bool
	tracingEnabled bool

	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// RunOption configures execution behavior.
type RunOption func(*runConfig)

// WithRunID overrides the run identifier from the Context for this walk.
func WithRunID(id string) RunOption {
	return func(c *runConfig) {
		c.runID = id
	}
}

// WithObservabilityLogger sets the logger used for run and node lifecycle
// records. Defaults to the Context's logger.
func WithObservabilityLogger(logger *slog.Logger) RunOption {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics for the walk.
// Metrics go to the global meter provider.
func WithMetrics(enabled bool) RunOption {
	return func(c *runConfig) {
		c.metricsEnabled = enabled
	}
}

// WithTracing enables OpenTelemetry spans for the walk and each node.
// Spans go to the global tracer provider.
func WithTracing(enabled bool) RunOption {
	return func(c *runConfig) {
		c.tracingEnabled = enabled
	}
}

// newRunConfig applies opts over the defaults derived from ctx.
func newRunConfig(ctx Context, opts []RunOption) runConfig {
	cfg := runConfig{
		runID:  ctx.RunID(),
		logger: ctx.Logger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.metricsEnabled {
		cfg.metrics = observability.NewMetricsRecorder()
	} else {
		cfg.metrics = observability.NoopMetrics{}
	}
	if cfg.tracingEnabled {
		cfg.spans = observability.NewSpanManager()
	} else {
		cfg.spans = observability.NoopSpanManager{}
	}
	return cfg
}
