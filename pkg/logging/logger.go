// Package logging provides structured logging configuration using zerolog.
// Every record carries the service tag; components add their own name.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ServiceName is attached to every record as the "service" field.
const ServiceName = "bank-transactions"

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	// Set global log level
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	var output io.Writer = cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	logger := zerolog.New(output).With().
		Timestamp().
		Str("service", ServiceName).
		Logger()

	// Set as global logger
	log.Logger = logger

	return logger
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// ForComponent derives a component logger from base, or from the global
// logger when base is nil.
func ForComponent(base *zerolog.Logger, component string) zerolog.Logger {
	if base == nil {
		return NewLogger(component)
	}
	return base.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Page boundaries (page number, transaction count, hasMore)
//   - Pagination decisions (last page, cutoff reached)
//   - Outgoing requests (method, path, status)
//
// Info: Normal operation events
//   - CLI start and completed fetches
//
// Warn: Warning conditions that don't prevent operation
//   - Non-200 responses from the bank
//
// Error: Error conditions requiring attention
//   - Malformed transaction lists (pagination truncated)
//   - Empty pages announcing more pages
//   - Failed fetches
//
// Context Fields:
//   - service: always ServiceName
//   - component: paginator, transport, cli
//   - account_id: bank account identifier
//   - page: page number
//   - cutoff: caller supplied cutoff date
//   - status: HTTP status code
//   - error_class: transport error classification (network, decode, request)
//   - duration: request or fetch duration
