// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits of the optional log file.
const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
)

// messager describes an error that can report its own message without the chain.
type messager interface {
	Message() string
}

// metadataer describes an error carrying structured metadata.
type metadataer interface {
	Metadata() map[string]any
}

// Logger implements ports.Logger using log/slog.
//
// Records go to the console, pretty or JSON, and optionally to a rotating
// JSON log file.
type Logger struct {
	mu       sync.RWMutex
	console  *slog.Logger
	file     *slog.Logger
	jsonMode bool
	output   io.Writer
	rotator  *lumberjack.Logger
}

// New creates a new Logger writing pretty output to stderr.
func New() ports.Logger {
	l := &Logger{output: os.Stderr}
	l.rebuild()
	return l
}

// NewFromSettings creates a Logger configured by settings.
func NewFromSettings(settings *domain.Settings) (*Logger, error) {
	l := &Logger{output: os.Stderr, jsonMode: settings.LogJSON}
	l.rebuild()
	if settings.LogFile != "" {
		if err := l.SetFile(settings.LogFile); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// rebuild recreates the slog loggers. The caller must hold mu or own l exclusively.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if l.jsonMode {
		l.console = slog.New(slog.NewJSONHandler(l.output, opts))
	} else {
		l.console = slog.New(NewPrettyHandler(l.output, opts))
	}
	l.file = nil
	if l.rotator != nil {
		l.file = slog.New(slog.NewJSONHandler(l.rotator, opts))
	}
}

// SetOutput updates the console destination. If w is nil, os.Stderr is used.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches the console between JSON and pretty logging.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.rebuild()
}

// SetFile adds a rotating JSON log file at path. An empty path removes it.
func (l *Logger) SetFile(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.rotator != nil {
		_ = l.rotator.Close()
		l.rotator = nil
	}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create log directory"), "path", path)
		}
		l.rotator = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
			Compress:   true,
			LocalTime:  true,
		}
	}
	l.rebuild()
	return nil
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.rotator == nil {
		return nil
	}
	err := l.rotator.Close()
	l.rotator = nil
	l.rebuild()
	return err
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.console.Info(msg)
	if l.file != nil {
		l.file.Info(msg)
	}
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.console.Warn(msg)
	if l.file != nil {
		l.file.Warn(msg)
	}
}

// Error logs an error with its cause chain.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.file != nil {
		l.file.Error("operation failed", "error", err)
	}
	if l.jsonMode {
		l.console.Error("operation failed", "error", err)
		return
	}
	l.console.Error(formatError(err))
}

// formatError renders err hierarchically: the outer message first, then every
// cause below a "Caused by:" header, then the collected metadata.
func formatError(err error) string {
	var messages []string
	meta := map[string]any{}

	for current := err; current != nil; {
		if m, ok := current.(metadataer); ok {
			for k, v := range m.Metadata() {
				if _, seen := meta[k]; !seen {
					meta[k] = v
				}
			}
		}
		if joined, ok := current.(interface{ Unwrap() []error }); ok {
			errs := joined.Unwrap()
			if len(errs) == 0 {
				break
			}
			for _, e := range errs[:len(errs)-1] {
				messages = append(messages, e.Error())
			}
			current = errs[len(errs)-1]
			continue
		}
		m, ok := current.(messager)
		if !ok {
			messages = append(messages, current.Error())
			break
		}
		if msg := m.Message(); msg != "" {
			messages = append(messages, msg)
		}
		current = errors.Unwrap(current)
	}

	var lines []string
	for i, msg := range messages {
		parts := strings.Split(msg, "\n")
		if i == 0 {
			lines = append(lines, "Error: "+parts[0])
			for _, part := range parts[1:] {
				lines = append(lines, "       "+part)
			}
			continue
		}
		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+parts[0])
		for _, part := range parts[1:] {
			lines = append(lines, "      "+part)
		}
	}

	if len(meta) > 0 {
		keys := make([]string, 0, len(meta))
		for k := range meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		lines = append(lines, "", "  Context:")
		for _, k := range keys {
			lines = append(lines, "    "+k+": "+formatValue(meta[k]))
		}
	}

	return strings.Join(lines, "\n")
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	default:
		return slog.AnyValue(v).String()
	}
}
