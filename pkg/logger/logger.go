package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

// Supported output formats
const (
	FormatAuto   = "auto"
	FormatText   = "text"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

var (
	// Default logger instance
	logger *log.Logger

	// Initialize logger once
	initLoggerOnce sync.Once
)

// InitLogger initializes the default logger
func InitLogger() {
	initLoggerOnce.Do(func() {
		logger = log.New(os.Stderr)
		logger.SetLevel(log.InfoLevel)
	})
}

// ensureInitialized ensures the logger is initialized before use
func ensureInitialized() {
	InitLogger()
}

// Configure applies a level name and an output format to the default logger.
// The auto format picks text on a terminal and logfmt everywhere else.
func Configure(level, format string) error {
	ensureInitialized()

	if level != "" {
		lvl, err := log.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		logger.SetLevel(lvl)
	}

	switch strings.ToLower(format) {
	case "", FormatAuto:
		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			logger.SetFormatter(log.TextFormatter)
		} else {
			logger.SetFormatter(log.LogfmtFormatter)
		}
	case FormatText:
		logger.SetFormatter(log.TextFormatter)
	case FormatJSON:
		logger.SetFormatter(log.JSONFormatter)
	case FormatLogfmt:
		logger.SetFormatter(log.LogfmtFormatter)
	default:
		return fmt.Errorf("unsupported log format %q", format)
	}
	return nil
}

// SetLevel sets the logging level
func SetLevel(level log.Level) {
	ensureInitialized()
	logger.SetLevel(level)
}

// SetDebug enables debug logging
func SetDebug(debug bool) {
	ensureInitialized()
	if debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
}

// SetOutput redirects log output
func SetOutput(w io.Writer) {
	ensureInitialized()
	logger.SetOutput(w)
}

// Info logs an info message
func Info(msg string, keyvals ...any) {
	ensureInitialized()
	logger.Info(msg, keyvals...)
}

// Debug logs a debug message
func Debug(msg string, keyvals ...any) {
	ensureInitialized()
	logger.Debug(msg, keyvals...)
}

// Error logs an error message
func Error(msg string, keyvals ...any) {
	ensureInitialized()
	logger.Error(msg, keyvals...)
}

// Warn logs a warning message
func Warn(msg string, keyvals ...any) {
	ensureInitialized()
	logger.Warn(msg, keyvals...)
}

// With returns a new logger with additional context
func With(keyvals ...any) *log.Logger {
	ensureInitialized()
	return logger.With(keyvals...)
}

// Disable completely disables logging output
func Disable() {
	ensureInitialized()
	logger.SetOutput(io.Discard)
}

// Enable re-enables logging output to stderr
func Enable() {
	ensureInitialized()
	logger.SetOutput(os.Stderr)
}
