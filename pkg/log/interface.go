// Package log provides the structured logging interface used by nlplearn.
//
// The Logger interface is slog-shaped: a message followed by alternating
// key/value pairs. The default implementation is backed by zerolog and emits
// one JSON object per line. Attribute keys for training runs live in
// attributes.go so that every package names the same facts the same way.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("trainer").With(
//	    log.AlgorithmKey, "L2SVM",
//	)
//	logger.Info("training started",
//	    log.LabelsKey, 12,
//	    log.FeaturesKey, 40213,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
type Logger interface {
	// Debug logs a debug-level message with optional key/value fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional key/value fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional key/value fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. If the first field is an error it is
	// attached together with its stack trace.
	//
	//	logger.Error("label worker failed", err, log.LabelKey, 3)
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	// Use it to skip building expensive fields, e.g. per-epoch weight norms.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates loggers. The package-level functions GetLogger and
// GetLoggerWithName use the default zerolog provider; tests can swap in a
// TestLoggerProvider via SetProvider.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for all loggers created by this provider.
	SetLevel(level Level)
}
