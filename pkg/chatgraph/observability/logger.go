// Package observability holds the slog records, OpenTelemetry instruments
// and spans emitted while a chat graph walks.
//
// Logging always happens through the logger carried by the run; metrics and
// spans are opt-in and fall back to NoopMetrics and NoopSpanManager.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Attribute keys shared by every record.
const (
	AttrRunID    = "run_id"
	AttrNodeID   = "node_id"
	AttrError    = "error"
	AttrDuration = "duration_ms"
)

// EnrichLogger returns logger tagged with the run and node. A nil logger
// stays nil.
func EnrichLogger(logger *slog.Logger, runID, nodeID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String(AttrRunID, runID), slog.String(AttrNodeID, nodeID))
}

// emit writes one record if logger is non-nil.
func emit(logger *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	logger.LogAttrs(context.Background(), level, msg, attrs...)
}

func LogRunStart(logger *slog.Logger, runID string, stateKeys []string) {
	emit(logger, slog.LevelInfo, "graph run starting",
		slog.String(AttrRunID, runID),
		slog.Any("state_keys", stateKeys))
}

func LogRunComplete(logger *slog.Logger, runID string, durationMs float64, nodeCount int) {
	emit(logger, slog.LevelInfo, "graph run completed",
		slog.String(AttrRunID, runID),
		slog.Float64(AttrDuration, durationMs),
		slog.Int("nodes_executed", nodeCount))
}

// LogRunError records a failed walk. lastNode is the node that failed, or
// empty when the failure happened outside a node.
func LogRunError(logger *slog.Logger, runID string, err error, durationMs float64, lastNode string) {
	emit(logger, slog.LevelError, "graph run failed",
		slog.String(AttrRunID, runID),
		slog.String(AttrError, err.Error()),
		slog.Float64(AttrDuration, durationMs),
		slog.String("last_node", lastNode))
}

func LogRunStopped(logger *slog.Logger, runID, nodeID string) {
	emit(logger, slog.LevelInfo, "graph run stopped by condition",
		slog.String(AttrRunID, runID),
		slog.String(AttrNodeID, nodeID))
}

func LogNodeStart(logger *slog.Logger, nodeID string) {
	emit(logger, slog.LevelInfo, "executing node", slog.String(AttrNodeID, nodeID))
}

// LogNodeComplete logs at debug level; the run records carry the totals.
func LogNodeComplete(logger *slog.Logger, nodeID string, durationMs float64) {
	emit(logger, slog.LevelDebug, "node completed",
		slog.String(AttrNodeID, nodeID),
		slog.Float64(AttrDuration, durationMs))
}

func LogNodeError(logger *slog.Logger, nodeID string, err error) {
	emit(logger, slog.LevelError, "node failed",
		slog.String(AttrNodeID, nodeID),
		slog.String(AttrError, err.Error()))
}

// LogAttempt records one model call of a chat node. Attempts with an error
// (failed calls and rejected answers) are warnings.
func LogAttempt(logger *slog.Logger, attempt int, outcome string, elapsed time.Duration, err error) {
	attrs := []slog.Attr{
		slog.Int("attempt", attempt),
		slog.String("outcome", outcome),
		slog.Float64("elapsed_s", elapsed.Seconds()),
	}
	if err == nil {
		emit(logger, slog.LevelInfo, "model attempt succeeded", attrs...)
		return
	}
	emit(logger, slog.LevelWarn, "model attempt failed", append(attrs, slog.String(AttrError, err.Error()))...)
}

// TimedOperation starts a stopwatch; calling the result returns the elapsed
// milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start)) / float64(time.Millisecond)
	}
}
