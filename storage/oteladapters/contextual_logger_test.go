package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/log/noop"

	"github.com/kitaplik/circulation-ledger-go/storage/oteladapters"
)

func Test_NewSlogBridgeLogger_Construction(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("circulation-test")

	assert.NotNil(t, logger)
}

func Test_SlogBridgeLogger_AllLevelsReachTheHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)
	ctx := context.Background()

	logger.DebugContext(ctx, "debug message", "level", "debug")
	logger.InfoContext(ctx, "info message", "level", "info")
	logger.WarnContext(ctx, "warn message", "level", "warn")
	logger.ErrorContext(ctx, "error message", "level", "error")

	output := buf.String()

	assert.Contains(t, output, "debug message")
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func Test_SlogBridgeLogger_AttributesPassThrough(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)

	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)

	logger.InfoContext(context.Background(), "book registered",
		"book_id", "b-1",
		"total_quantity", 3,
	)

	output := buf.String()

	assert.Contains(t, output, "book registered")
	assert.Contains(t, output, `"book_id":"b-1"`)
	assert.Contains(t, output, `"total_quantity":3`)
}

func Test_OTelLogger_AllLevelsDoNotPanic(t *testing.T) {
	otelLogger := noop.NewLoggerProvider().Logger("circulation-test")
	logger := oteladapters.NewOTelLogger(otelLogger)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		logger.DebugContext(ctx, "debug message", "key", "value")
		logger.InfoContext(ctx, "info message", "key", "value")
		logger.WarnContext(ctx, "warn message", "key", "value")
		logger.ErrorContext(ctx, "error message", "key", "value")
	})
}

func Test_OTelLogger_ToleratesIrregularArgs(t *testing.T) {
	otelLogger := noop.NewLoggerProvider().Logger("circulation-test")
	logger := oteladapters.NewOTelLogger(otelLogger)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		logger.InfoContext(ctx, "message", "key1", "value1", "dangling")
		logger.InfoContext(ctx, "message", 42, "not-a-string-key")
		logger.InfoContext(ctx, "message")
	})
}
