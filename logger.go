package idfkit

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with idfkit-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithType adds a record type field to the logger.
func (l *Logger) WithType(typeName string) *Logger {
	return &Logger{
		Logger: l.Logger.With("type", typeName),
	}
}

// WithField adds a field identifier to the logger.
func (l *Logger) WithField(identifier string) *Logger {
	return &Logger{
		Logger: l.Logger.With("field", identifier),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogQuery logs a query operation.
func (l *Logger) LogQuery(ctx context.Context, typeName string, method string, matched int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"type", typeName,
			"method", method,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"type", typeName,
			"method", method,
			"matched", matched,
		)
	}
}

// LogGetField logs a field read operation.
func (l *Logger) LogGetField(ctx context.Context, identifier string, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "get field failed",
			"field", identifier,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "get field completed",
			"field", identifier,
			"count", count,
		)
	}
}

// LogSetField logs a field write operation.
func (l *Logger) LogSetField(ctx context.Context, identifier string, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "set field failed",
			"field", identifier,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "set field completed",
			"field", identifier,
			"count", count,
		)
	}
}

// LogCreate logs an object creation.
func (l *Logger) LogCreate(ctx context.Context, typeName string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "create failed",
			"type", typeName,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "create completed",
			"type", typeName,
		)
	}
}

// LogDelete logs an object deletion.
func (l *Logger) LogDelete(ctx context.Context, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "delete completed",
			"count", count,
		)
	}
}

// LogSnapshot logs a snapshot operation.
func (l *Logger) LogSnapshot(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"name", name,
		)
	}
}

// LogLoad logs a snapshot restore operation.
func (l *Logger) LogLoad(ctx context.Context, name string, records int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot load failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot loaded",
			"name", name,
			"records", records,
		)
	}
}
