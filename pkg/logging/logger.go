// Package logging provides structured logging for patchwise components.
//
// Built on the standard library slog package. Default output goes to stderr
// so review results on stdout stay clean; an optional log file captures the
// full debug stream, including every LSP frame sent and received.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

type Config struct {
	// Level is the minimum level written to stderr. The log file, when
	// enabled, always records debug.
	Level slog.Level

	// LogDir enables file logging when non-empty. The directory is created
	// if missing.
	LogDir string

	// Service names the log file: <service>.log
	Service string
}

type Logger struct {
	*slog.Logger
	file *os.File
}

// New creates a logger from config. Close must be called when file logging
// is enabled.
func New(config Config) (*Logger, error) {
	stderrHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.Level})

	if config.LogDir == "" {
		return &Logger{Logger: slog.New(stderrHandler)}, nil
	}

	if err := os.MkdirAll(config.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	service := config.Service
	if service == "" {
		service = "patchwise"
	}
	path := filepath.Join(config.LogDir, service+".log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(&multiHandler{handlers: []slog.Handler{stderrHandler, fileHandler}})

	return &Logger{Logger: logger, file: file}, nil
}

// Default returns a stderr-only logger at info level.
func Default() *Logger {
	logger, _ := New(Config{Level: slog.LevelInfo})
	return logger
}

func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Writer returns an io.Writer for raw text that should land in the log file,
// or io.Discard when file logging is disabled. Used for subprocess stderr.
func (l *Logger) Writer() io.Writer {
	if l.file == nil {
		return io.Discard
	}
	return l.file
}
