// Testing utilities for structured logging.
//
// TestLogger writes through the same zerolog path as the default logger but
// into an in-memory buffer, so tests can assert on the exact JSON records a
// training run produced. The buffer is safe for concurrent writers since
// one-vs-all workers log from several goroutines.

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Buffer is a mutex-guarded bytes.Buffer.
type Buffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

// Write implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String returns everything written so far.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Reset discards the buffered records.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.b.Reset()
}

// TestLogger is a Logger that captures records in memory.
type TestLogger struct {
	Logger
	buffer *Buffer
	level  Level
}

// NewTestLogger creates a TestLogger with the given minimum level.
//
//	logger, buf := log.NewTestLogger(log.LevelDebug)
//	logger.Info("epoch finished", log.EpochKey, 3)
//	_ = buf.String()
func NewTestLogger(level Level) (*TestLogger, *Buffer) {
	buffer := &Buffer{}
	zl := zerolog.New(buffer).Level(toZerologLevel(level))
	return &TestLogger{
		Logger: &zerologLogger{zl: zl},
		buffer: buffer,
		level:  level,
	}, buffer
}

// With returns a TestLogger sharing the same buffer.
func (t *TestLogger) With(fields ...any) Logger {
	return &TestLogger{
		Logger: t.Logger.With(fields...),
		buffer: t.buffer,
		level:  t.level,
	}
}

// Enabled implements Logger.Enabled.
func (t *TestLogger) Enabled(_ context.Context, level Level) bool {
	return t.level <= level
}

// GetBuffer returns the internal buffer.
func (t *TestLogger) GetBuffer() *Buffer {
	return t.buffer
}

// GetLogEntries parses the captured output into one map per record.
func (t *TestLogger) GetLogEntries() ([]map[string]interface{}, error) {
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(t.buffer.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ContainsMessage reports whether any record contains message.
func (t *TestLogger) ContainsMessage(message string) bool {
	return strings.Contains(t.buffer.String(), message)
}

// ContainsField reports whether any record has key set to value. Numbers
// decode as float64.
func (t *TestLogger) ContainsField(key string, value interface{}) bool {
	entries, err := t.GetLogEntries()
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if v, ok := entry[key]; ok && v == value {
			return true
		}
	}
	return false
}

// CountMessages returns how many records contain message.
func (t *TestLogger) CountMessages(message string) int {
	n := 0
	for _, line := range strings.Split(t.buffer.String(), "\n") {
		if strings.Contains(line, message) {
			n++
		}
	}
	return n
}

// Clear discards all captured records.
func (t *TestLogger) Clear() {
	t.buffer.Reset()
}

// TestLoggerProvider implements LoggerProvider on top of a TestLogger.
type TestLoggerProvider struct {
	logger *TestLogger
}

// NewTestLoggerProvider creates a provider whose loggers share one buffer.
func NewTestLoggerProvider(level Level) (*TestLoggerProvider, *TestLogger) {
	logger, _ := NewTestLogger(level)
	return &TestLoggerProvider{logger: logger}, logger
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *TestLoggerProvider) GetLogger() Logger {
	return p.logger
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *TestLoggerProvider) GetLoggerWithName(name string) Logger {
	return p.logger.With(ComponentKey, name)
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *TestLoggerProvider) SetLevel(level Level) {
	p.logger.level = level
	if zl, ok := p.logger.Logger.(*zerologLogger); ok {
		zl.zl = zl.zl.Level(toZerologLevel(level))
	}
}
