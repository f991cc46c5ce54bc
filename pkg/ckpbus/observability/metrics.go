package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records checkpoint bus metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordAppend records a marker write with its target state and error status.
	RecordAppend(ctx context.Context, state string, err error)

	// RecordScan records a directory scan with its duration and resolved
	// message count.
	RecordScan(ctx context.Context, duration time.Duration, messages int, err error)

	// RecordCleanup records a retention cleanup attempt.
	RecordCleanup(ctx context.Context, success bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	appends         metric.Int64Counter
	appendErrors    metric.Int64Counter
	scans           metric.Int64Counter
	scanLatency     metric.Float64Histogram
	scanMessages    metric.Int64Histogram
	cleanupFailures metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("ckpbus")

	appends, err := meter.Int64Counter("ckpbus.appends",
		metric.WithDescription("Number of marker writes"),
	)
	if err != nil {
		return nil, err
	}

	appendErrors, err := meter.Int64Counter("ckpbus.append.errors",
		metric.WithDescription("Number of failed marker writes"),
	)
	if err != nil {
		return nil, err
	}

	scans, err := meter.Int64Counter("ckpbus.scans",
		metric.WithDescription("Number of directory scans"),
	)
	if err != nil {
		return nil, err
	}

	scanLatency, err := meter.Float64Histogram("ckpbus.scan.latency_ms",
		metric.WithDescription("Directory scan latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	scanMessages, err := meter.Int64Histogram("ckpbus.scan.messages",
		metric.WithDescription("Resolved messages per scan"),
	)
	if err != nil {
		return nil, err
	}

	cleanupFailures, err := meter.Int64Counter("ckpbus.cleanup.failures",
		metric.WithDescription("Number of retention cleanup attempts that will be retried"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		appends:         appends,
		appendErrors:    appendErrors,
		scans:           scans,
		scanLatency:     scanLatency,
		scanMessages:    scanMessages,
		cleanupFailures: cleanupFailures,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordAppend records a marker write.
func (m *otelMetrics) RecordAppend(ctx context.Context, state string, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("state", state),
	}

	m.appends.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		m.appendErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordScan records a directory scan.
func (m *otelMetrics) RecordScan(ctx context.Context, duration time.Duration, messages int, err error) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", err == nil),
	}
	m.scans.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.scanLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err == nil {
		m.scanMessages.Record(ctx, int64(messages))
	}
}

// RecordCleanup records a retention cleanup attempt.
func (m *otelMetrics) RecordCleanup(ctx context.Context, success bool) {
	if !success {
		m.cleanupFailures.Add(ctx, 1)
	}
}
