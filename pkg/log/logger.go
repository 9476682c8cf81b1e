package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	nlerrors "github.com/YuminosukeSato/nlplearn/pkg/errors"
)

var (
	providerMu sync.RWMutex
	provider   LoggerProvider = newZerologProvider(os.Stderr, LevelInfo)
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	// 警告は構造化ログとして出力する
	nlerrors.SetZerologWarnFunc(func(w error) {
		GetLoggerWithName("warnings").Warn(w.Error(), ErrorKey, w)
	})
}

// SetupLogger configures the default provider for command-line use. The
// field names follow the Cloud Logging convention ("severity", "message").
func SetupLogger(loglevel string) error {
	return SetupLoggerTo(os.Stdout, loglevel)
}

// SetupLoggerTo is SetupLogger writing to w. Command-line tools that print
// results on stdout log to stderr with it.
func SetupLoggerTo(w io.Writer, loglevel string) error {
	level, err := ToLogLevel(loglevel)
	if err != nil {
		return err
	}
	zerolog.LevelFieldName = "severity"
	zerolog.MessageFieldName = "message"
	SetProvider(newZerologProvider(w, level))
	return nil
}

// ToLogLevel parses "debug", "info", "warn" or "error".
func ToLogLevel(level string) (Level, error) {
	switch level {
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, nlerrors.NewValidationError("log_level", "must be one of debug, info, warn, error", level)
	}
}

// SetProvider replaces the provider used by GetLogger and GetLoggerWithName.
func SetProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	provider = p
}

// ReplaceProvider installs p and returns a function restoring the previous
// provider.
//
//	defer log.ReplaceProvider(tp)()
func ReplaceProvider(p LoggerProvider) (restore func()) {
	providerMu.Lock()
	prev := provider
	provider = p
	providerMu.Unlock()
	return func() { SetProvider(prev) }
}

// SetOutput redirects the default logger, e.g. to a zerolog.ConsoleWriter.
func SetOutput(w io.Writer) {
	providerMu.RLock()
	level := LevelInfo
	if zp, ok := provider.(*zerologProvider); ok {
		level = zp.level
	}
	providerMu.RUnlock()
	SetProvider(newZerologProvider(w, level))
}

// SetLevel sets the minimum level of the current provider.
func SetLevel(level Level) {
	providerMu.RLock()
	defer providerMu.RUnlock()
	provider.SetLevel(level)
}

// GetLogger returns the default logger.
func GetLogger() Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return provider.GetLogger()
}

// GetLoggerWithName returns a logger tagged with ComponentKey=name.
func GetLoggerWithName(name string) Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return provider.GetLoggerWithName(name)
}

// zerologProvider creates zerolog-backed loggers writing JSON lines to w.
type zerologProvider struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
	base  zerolog.Logger
}

func newZerologProvider(w io.Writer, level Level) *zerologProvider {
	p := &zerologProvider{w: w, level: level}
	p.base = zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return p
}

func (p *zerologProvider) GetLogger() Logger {
	p.mu.Lock()
	defer p.mu.Unlock()
	return &zerologLogger{zl: p.base}
}

func (p *zerologProvider) GetLoggerWithName(name string) Logger {
	p.mu.Lock()
	defer p.mu.Unlock()
	return &zerologLogger{zl: p.base.With().Str(ComponentKey, name).Logger()}
}

func (p *zerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	p.base = p.base.Level(toZerologLevel(level))
}

// zerologLogger adapts zerolog.Logger to the Logger interface.
type zerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger wraps an existing zerolog.Logger.
func NewZerologLogger(zl zerolog.Logger) Logger {
	return &zerologLogger{zl: zl}
}

func (l *zerologLogger) Debug(msg string, fields ...any) { emit(l.zl.Debug(), msg, fields) }
func (l *zerologLogger) Info(msg string, fields ...any)  { emit(l.zl.Info(), msg, fields) }
func (l *zerologLogger) Warn(msg string, fields ...any)  { emit(l.zl.Warn(), msg, fields) }
func (l *zerologLogger) Error(msg string, fields ...any) { emit(l.zl.Error(), msg, fields) }

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		if err, ok := fields[i+1].(error); ok {
			ctx = ctx.Str(key, err.Error())
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{zl: ctx.Logger()}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	zl := toZerologLevel(level)
	return zl >= l.zl.GetLevel() && zl >= zerolog.GlobalLevel()
}

// emit writes fields onto e. A leading error (odd field count) is treated
// as the record's error.
func emit(e *zerolog.Event, msg string, fields []any) {
	if e == nil {
		return
	}
	if len(fields)%2 == 1 {
		if err, ok := fields[0].(error); ok {
			e = errorEvent(e, err)
			fields = fields[1:]
		}
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		switch v := fields[i+1].(type) {
		case error:
			if key == ErrorKey {
				e = errorEvent(e, v)
			} else {
				e = e.AnErr(key, v)
			}
		case time.Duration:
			e = e.Dur(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	e.Msg(msg)
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
