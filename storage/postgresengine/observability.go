package postgresengine

import (
	"context"
	"math"
	"time"
)

const (
	metricOperationDuration = "circulation_store_operation_duration_seconds"
	metricOperationErrors   = "circulation_store_operation_errors_total"

	labelOperation = "operation"
	labelTable     = "table"

	spanStatusSuccess = "success"
	spanStatusError   = "error"

	logAttrError      = "error"
	logAttrQuery      = "query"
	logAttrDurationMS = "duration_ms"
	logAttrRows       = "rows"
	logAttrOperation  = "operation"

	logMsgSQLExecuted = "executed sql for: "
	logMsgOperation   = "store operation: "
)

// logDebug/logInfo/logWarn/logError prefer the contextual logger when it
// is configured and fall back to the plain logger; both are optional.

func (e engine) logDebug(ctx context.Context, msg string, args ...any) {
	if e.contextualLogger != nil {
		e.contextualLogger.DebugContext(ctx, msg, args...)
		return
	}

	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

func (e engine) logInfo(ctx context.Context, msg string, args ...any) {
	if e.contextualLogger != nil {
		e.contextualLogger.InfoContext(ctx, msg, args...)
		return
	}

	if e.logger != nil {
		e.logger.Info(msg, args...)
	}
}

func (e engine) logWarn(ctx context.Context, msg string, args ...any) {
	if e.contextualLogger != nil {
		e.contextualLogger.WarnContext(ctx, msg, args...)
		return
	}

	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}

func (e engine) logError(ctx context.Context, msg string, args ...any) {
	if e.contextualLogger != nil {
		e.contextualLogger.ErrorContext(ctx, msg, args...)
		return
	}

	if e.logger != nil {
		e.logger.Error(msg, args...)
	}
}

// logQueryWithDuration logs SQL with execution time at debug level.
func (e engine) logQueryWithDuration(ctx context.Context, action, sqlQuery string, duration time.Duration) {
	e.logDebug(ctx, logMsgSQLExecuted+action, logAttrDurationMS, durationToMilliseconds(duration), logAttrQuery, sqlQuery)
}

// startSpan opens a tracing span for a store operation and returns a
// finish function taking the outcome status. A no-op when tracing is not
// configured.
func (e engine) startSpan(ctx context.Context, operation string) (context.Context, func(status string)) {
	if e.tracingCollector == nil {
		return ctx, func(string) {}
	}

	spanCtx, span := e.tracingCollector.StartSpan(ctx, operation, map[string]string{
		labelTable: e.tableName,
	})

	return spanCtx, func(status string) {
		e.tracingCollector.FinishSpan(span, status, nil)
	}
}

// recordOperation records the duration histogram for a completed operation.
func (e engine) recordOperation(ctx context.Context, operation string, duration time.Duration) {
	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{labelOperation: operation, labelTable: e.tableName}

	if contextual, ok := e.metricsCollector.(interface {
		RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string)
	}); ok {
		contextual.RecordDurationContext(ctx, metricOperationDuration, duration, labels)
		return
	}

	e.metricsCollector.RecordDuration(metricOperationDuration, duration, labels)
}

// recordError increments the error counter for a failed operation.
func (e engine) recordError(ctx context.Context, operation string) {
	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{labelOperation: operation, labelTable: e.tableName}

	if contextual, ok := e.metricsCollector.(interface {
		IncrementCounterContext(ctx context.Context, metric string, labels map[string]string)
	}); ok {
		contextual.IncrementCounterContext(ctx, metricOperationErrors, labels)
		return
	}

	e.metricsCollector.IncrementCounter(metricOperationErrors, labels)
}

// durationToMilliseconds converts a duration to float64 milliseconds with 3 decimal places.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
