package config

import (
	"go.opentelemetry.io/otel"

	"github.com/kitaplik/circulation-ledger-go/storage"
	"github.com/kitaplik/circulation-ledger-go/storage/oteladapters"
	"github.com/kitaplik/circulation-ledger-go/storage/postgresengine"
)

const instrumentationName = "circulation-ledger"

// ObservabilityCollectors bundles the storage observability collaborators
// built from the global OpenTelemetry providers. The caller is expected to
// have configured the global TracerProvider, MeterProvider and
// LoggerProvider (usually via the OTel SDK) before calling.
type ObservabilityCollectors struct {
	Logger  storage.ContextualLogger
	Metrics storage.MetricsCollector
	Tracing storage.TracingCollector
}

// NewObservabilityCollectors wires the OTel adapters against the global
// providers under one instrumentation name.
func NewObservabilityCollectors() ObservabilityCollectors {
	return ObservabilityCollectors{
		Logger:  oteladapters.NewSlogBridgeLogger(instrumentationName),
		Metrics: oteladapters.NewMetricsCollector(otel.Meter(instrumentationName)),
		Tracing: oteladapters.NewTracingCollector(otel.Tracer(instrumentationName)),
	}
}

// EngineOptions converts the collectors into storage engine options, ready
// to pass to the postgresengine factory functions.
func (c ObservabilityCollectors) EngineOptions() []postgresengine.Option {
	return []postgresengine.Option{
		postgresengine.WithContextualLogger(c.Logger),
		postgresengine.WithMetrics(c.Metrics),
		postgresengine.WithTracing(c.Tracing),
	}
}
