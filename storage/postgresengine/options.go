package postgresengine

import "github.com/kitaplik/circulation-ledger-go/storage"

// Option defines a functional option for configuring a storage engine.
type Option func(*engine) error

// WithTableName overrides the default table name of the engine.
func WithTableName(tableName string) Option {
	return func(e *engine) error {
		if tableName == "" {
			return storage.ErrEmptyTableName
		}

		e.tableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the engine.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: row counts, durations (production-safe)
// Warn level: non-critical issues like cleanup failures
// Error level: critical failures that cause operation failures.
func WithLogger(logger storage.Logger) Option {
	return func(e *engine) error {
		e.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the engine. The collector
// will receive operation durations, row counts and error counters.
func WithMetrics(collector storage.MetricsCollector) Option {
	return func(e *engine) error {
		e.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the engine. The collector
// will receive a span per store operation with outcome status.
func WithTracing(collector storage.TracingCollector) Option {
	return func(e *engine) error {
		e.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the engine, enabling
// automatic trace/span correlation when tracing is configured as well.
func WithContextualLogger(logger storage.ContextualLogger) Option {
	return func(e *engine) error {
		e.contextualLogger = logger
		return nil
	}
}
