package logger

import (
	"context"
	"log/slog"
	"os"
)

type ContextKey string

const (
	// Publish-run context keys, propagated so every log line of a run
	// can be correlated.
	RunIDKey   ContextKey = "publisher.run.id"
	TriggerKey ContextKey = "publisher.run.trigger"
)

// ContextLogger provides context-aware logging for publish runs
type ContextLogger struct {
	logger      *slog.Logger
	serviceName string
}

// NewContextLogger creates a new context-aware logger
func NewContextLogger(serviceName string) *ContextLogger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	}
	handler := slog.NewJSONHandler(os.Stdout, opts)

	return &ContextLogger{
		logger:      slog.New(handler),
		serviceName: serviceName,
	}
}

// NewContextLoggerFrom wraps an already configured logger, so the
// run-scoped fields land on whatever handler the caller set up.
func NewContextLoggerFrom(base *slog.Logger, serviceName string) *ContextLogger {
	return &ContextLogger{
		logger:      base,
		serviceName: serviceName,
	}
}

// WithContext returns a logger with run identifiers extracted from the
// context and added as fields
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := cl.logger.With("service", cl.serviceName)

	var fields []any

	if runID := ctx.Value(RunIDKey); runID != nil {
		fields = append(fields, string(RunIDKey), runID)
	}
	if trigger := ctx.Value(TriggerKey); trigger != nil {
		fields = append(fields, string(TriggerKey), trigger)
	}

	if len(fields) > 0 {
		logger = logger.With(fields...)
	}

	return logger
}

// WithRunID adds the publish run ID to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// WithTrigger records what started the run (schedule or manual)
func WithTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, TriggerKey, trigger)
}
