package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that appends to a file
func NewFileLogger(path string, level log.Level) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(f, level), cleanup, nil
}

// NewMultiLogger creates a logger that writes to multiple outputs
func NewMultiLogger(level log.Level, writers ...io.Writer) *Logger {
	return NewWithLevel(io.MultiWriter(writers...), level)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// ParseLevel converts a config level name, defaulting to info.
func ParseLevel(name string) log.Level {
	if name == "" {
		return log.InfoLevel
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// With returns a child logger carrying the given key/value pairs
func (l *Logger) With(keyvals ...interface{}) *Logger {
	return &Logger{Logger: l.Logger.With(keyvals...)}
}

// DocumentParsed logs a successful parse
func (l *Logger) DocumentParsed(path string, size int64, blocks int, duration time.Duration) {
	l.Debug("document parsed",
		"file", path,
		"size", humanize.Bytes(uint64(size)),
		"blocks", blocks,
		"duration", duration.Round(time.Microsecond))
}

// ParseFailed logs a document that could not be parsed
func (l *Logger) ParseFailed(path string, err error) {
	l.Error("parse failed",
		"file", path,
		"error", err)
}

// FileSkipped logs when a file is skipped
func (l *Logger) FileSkipped(path, reason string) {
	l.Debug("file skipped",
		"file", path,
		"reason", reason)
}

// CheckStarted logs the start of a batch check
func (l *Logger) CheckStarted(root string, files int) {
	l.Info("check started",
		"root", root,
		"files", files)
}

// CheckCompleted logs the completion of a batch check
func (l *Logger) CheckCompleted(parsed, failures, skipped int, duration time.Duration) {
	l.Info("check completed",
		"files_parsed", parsed,
		"failures", failures,
		"skipped", skipped,
		"duration", duration.Round(time.Millisecond))
}

// StateError logs a state-related error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(path string, workers int) {
	l.Debug("config loaded",
		"path", path,
		"workers", workers)
}

// ConfigWritten logs a config file being written
func (l *Logger) ConfigWritten(path string) {
	l.Info("config written",
		"path", path)
}
