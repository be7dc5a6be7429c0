// Package observability provides logging, metrics, and tracing for
// singleton holders.
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

// LogConstructed logs a successful construction.
// instanceID is omitted when empty.
func LogConstructed(logger *slog.Logger, holder string, attempt int64, instanceID string, duration time.Duration) {
	if logger == nil {
		return
	}
	attrs := []any{
		slog.String("holder", holder),
		slog.Int64("attempt", attempt),
		slog.Float64("duration_ms", float64(duration.Microseconds())/1000),
	}
	if instanceID != "" {
		attrs = append(attrs, slog.String("instance_id", instanceID))
	}
	logger.Info("singleton constructed", attrs...)
}

// LogConstructionFailed logs a failed construction attempt.
func LogConstructionFailed(logger *slog.Logger, holder string, attempt int64, err error, duration time.Duration) {
	if logger == nil {
		return
	}
	logger.Error("singleton construction failed",
		slog.String("holder", holder),
		slog.Int64("attempt", attempt),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", float64(duration.Microseconds())/1000),
	)
}

// LogLostRace logs a caller that reached the lock after another caller had
// already published the instance.
func LogLostRace(logger *slog.Logger, holder string) {
	if logger == nil {
		return
	}
	logger.Debug("singleton already constructed after lock",
		slog.String("holder", holder),
	)
}

// LogDuplicateConstruction logs an unsynchronized holder constructing again.
func LogDuplicateConstruction(logger *slog.Logger, holder string, constructions int64) {
	if logger == nil {
		return
	}
	logger.Warn("singleton constructed more than once",
		slog.String("holder", holder),
		slog.Int64("constructions", constructions),
	)
}
