package observability

import (
	"context"
	"time"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordAppend does nothing.
func (NoopMetrics) RecordAppend(_ context.Context, _ string, _ error) {}

// RecordScan does nothing.
func (NoopMetrics) RecordScan(_ context.Context, _ time.Duration, _ int, _ error) {}

// RecordCleanup does nothing.
func (NoopMetrics) RecordCleanup(_ context.Context, _ bool) {}
