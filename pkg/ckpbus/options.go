package ckpbus

import (
	"log/slog"

	"github.com/randalmurphal/ckpbus/pkg/ckpbus/observability"
)

// Option configures a Bus.
type Option func(*Bus)

// WithRetention sets how many started instants keep their markers before
// retention cleanup removes the oldest. Default: DefaultRetention.
//
// One retained instant is enough for correctness; values above one exist for
// debugging. Non-positive values are ignored.
func WithRetention(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.retain = n
		}
	}
}

// WithLogger sets the structured logger for bus operations.
// Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		b.logger = logger
	}
}

// WithMetrics sets the metrics recorder for bus operations.
// Default: observability.NoopMetrics.
//
// Example:
//
//	bus := ckpbus.New(store, ckpbus.WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(recorder observability.MetricsRecorder) Option {
	return func(b *Bus) {
		if recorder != nil {
			b.metrics = recorder
		}
	}
}
