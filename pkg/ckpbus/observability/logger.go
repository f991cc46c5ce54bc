// Package observability provides structured logging, metrics, and tracing
// for the checkpoint bus.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds bus context to a logger.
// Returns a new logger with dir and role fields.
func EnrichLogger(logger *slog.Logger, dir, role string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("dir", dir),
		slog.String("role", role),
	)
}

// LogBootstrap logs a destructive bus reset.
func LogBootstrap(logger *slog.Logger) {
	if logger == nil {
		return
	}
	logger.Info("checkpoint bus bootstrapped")
}

// LogInstantTransition logs a marker write for an instant lifecycle change.
func LogInstantTransition(logger *slog.Logger, op, instant string) {
	if logger == nil {
		return
	}
	logger.Info("instant transition",
		slog.String("op", op),
		slog.String("instant", instant),
	)
}

// LogDuplicateMarker logs a benign already-exists result from a marker write.
func LogDuplicateMarker(logger *slog.Logger, instant, state string) {
	if logger == nil {
		return
	}
	logger.Debug("marker already present",
		slog.String("instant", instant),
		slog.String("state", state),
	)
}

// LogScan logs a completed directory scan.
func LogScan(logger *slog.Logger, messageCount int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("checkpoint scan completed",
		slog.Int("messages", messageCount),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogStrayEntry logs an undecodable entry skipped during a scan.
func LogStrayEntry(logger *slog.Logger, name string) {
	if logger == nil {
		return
	}
	logger.Debug("skipping stray entry",
		slog.String("name", name),
	)
}

// LogCleanup logs successful retention cleanup of an instant's markers.
func LogCleanup(logger *slog.Logger, instant string) {
	if logger == nil {
		return
	}
	logger.Debug("retention cleanup completed",
		slog.String("instant", instant),
	)
}

// LogCleanupError logs a retention delete failure (non-fatal; retried on the
// next cleanup cycle).
func LogCleanupError(logger *slog.Logger, instant, name string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("retention cleanup failed",
		slog.String("instant", instant),
		slog.String("marker", name),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
