package veccoll

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with veccoll-specific context.
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
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithCollection adds a collection field to the logger.
func (l *Logger) WithCollection(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("collection", name),
	}
}

// LogCreateCollection logs a collection creation.
func (l *Logger) LogCreateCollection(ctx context.Context, name string, dimension int, metric string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "create collection failed",
			"collection", name,
			"dimension", dimension,
			"metric", metric,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "collection created",
			"collection", name,
			"dimension", dimension,
			"metric", metric,
		)
	}
}

// LogDeleteCollection logs a collection deletion. existed is false when the
// name was not bound, which is a successful no-op.
func (l *Logger) LogDeleteCollection(ctx context.Context, name string, existed bool) {
	if existed {
		l.InfoContext(ctx, "collection deleted",
			"collection", name,
		)
	} else {
		l.DebugContext(ctx, "delete of unknown collection ignored",
			"collection", name,
		)
	}
}

// LogUpsert logs an upsert batch. added and replaced count distinct IDs,
// so duplicates within the batch are counted once.
// Use on a logger scoped with WithCollection.
func (l *Logger) LogUpsert(ctx context.Context, count, added, replaced int, err error) {
	if err != nil {
		l.WarnContext(ctx, "upsert rejected",
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "upsert completed",
			"count", count,
			"added", added,
			"replaced", replaced,
		)
	}
}

// LogSearch logs a search operation.
// Use on a logger scoped with WithCollection.
func (l *Logger) LogSearch(ctx context.Context, limit, resultsFound int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"limit", limit,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"limit", limit,
			"results", resultsFound,
		)
	}
}
