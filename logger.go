package vecsim

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with vecsim-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithIndex tags records with the index instance and backend.
func (l *Logger) WithIndex(id string, backend string) *Logger {
	return &Logger{
		Logger: l.Logger.With("index_id", id, "backend", backend),
	}
}

// LogLoad logs a load operation.
func (l *Logger) LogLoad(ctx context.Context, count, total int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"count", count,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "load completed",
			"count", count,
			"total", total,
			"duration", duration,
		)
	}
}

// LogQuery logs a query operation.
func (l *Logger) LogQuery(ctx context.Context, n, resultsFound int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"n", n,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"n", n,
			"results", resultsFound,
			"duration", duration,
		)
	}
}

// LogFallback logs the substitution of an unknown selector.
func (l *Logger) LogFallback(ctx context.Context, selector, fallback string) {
	l.WarnContext(ctx, "unknown backend, falling back",
		"selector", selector,
		"fallback", fallback,
	)
}
