package chatgraph

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/randalmurphal/chatgraph/pkg/chatgraph/observability"
)

// Context is what a node receives: a context.Context for cancellation and
// deadlines, plus the identity of the walk and where to report.
//
// During a walk each node gets its own Context whose logger is already
// tagged with run_id and node_id.
type Context interface {
	context.Context

	// Logger is never nil.
	Logger() *slog.Logger
	RunID() string
	// NodeID is empty outside a walk.
	NodeID() string
	// Metrics is never nil; it is a no-op unless the walk enables metrics.
	Metrics() observability.MetricsRecorder
}

type executionContext struct {
	context.Context
	logger  *slog.Logger
	runID   string
	nodeID  string
	metrics observability.MetricsRecorder
}

func (c *executionContext) Logger() *slog.Logger                  { return c.logger }
func (c *executionContext) RunID() string                         { return c.runID }
func (c *executionContext) NodeID() string                        { return c.nodeID }
func (c *executionContext) Metrics() observability.MetricsRecorder { return c.metrics }

// ContextOption configures NewContext.
type ContextOption func(*executionContext)

// WithLogger sets the base logger. nil keeps slog.Default().
func WithLogger(logger *slog.Logger) ContextOption {
	return func(c *executionContext) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithContextRunID fixes the run ID instead of generating a UUID.
func WithContextRunID(id string) ContextOption {
	return func(c *executionContext) { c.runID = id }
}

// NewContext wraps ctx for use with CompiledGraph.Run.
//
//	ctx := chatgraph.NewContext(context.Background(),
//	    chatgraph.WithLogger(logger),
//	    chatgraph.WithContextRunID("run-123"))
func NewContext(ctx context.Context, opts ...ContextOption) Context {
	ec := &executionContext{
		Context: ctx,
		logger:  slog.Default(),
		runID:   uuid.NewString(),
		metrics: observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(ec)
	}
	return ec
}

// nodeContext derives the Context one node runs with. parent carries
// cancellation and the active span; base supplies the logger.
func nodeContext(parent context.Context, base Context, runID, nodeID string, metrics observability.MetricsRecorder) *executionContext {
	return &executionContext{
		Context: parent,
		logger:  observability.EnrichLogger(base.Logger(), runID, nodeID),
		runID:   runID,
		nodeID:  nodeID,
		metrics: metrics,
	}
}
