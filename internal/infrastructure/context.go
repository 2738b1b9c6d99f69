package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey string

const runIDContextKey contextKey = "run_id"

// NewRunID creates a unique identifier for one pipeline run.
func NewRunID() string {
	return uuid.New().String()
}

// WithRunID stores a run identifier in the context.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDContextKey, id)
}

// RunID retrieves the run identifier, or "" when the context carries none.
func RunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDContextKey).(string); ok {
		return id
	}
	return ""
}

// EnsureRunID returns the context unchanged when it already carries a run
// identifier, otherwise attaches a fresh one.
func EnsureRunID(ctx context.Context) context.Context {
	if RunID(ctx) == "" {
		return WithRunID(ctx, NewRunID())
	}
	return ctx
}

// LoggerWithContext returns the global logger annotated with the context's
// run identifier.
func LoggerWithContext(ctx context.Context) *slog.Logger {
	logger := GetLogger()
	if id := RunID(ctx); id != "" {
		logger = logger.With("run_id", id)
	}
	return logger
}

// WithComponent creates a logger with a component field.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}
