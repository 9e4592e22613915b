// Package logger configures the application's structured logging.
//
// It uses zerolog for application logs and adapts the same logger to
// pgx's tracelog interface so SQL statements end up in the same stream.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"github.com/singnet/snet-converter-services/internal/config"
)

// New builds the main application logger from the observability config.
//
// Production and "json" format write JSON lines to stdout; everything else
// uses zerolog.ConsoleWriter for human-friendly output.
func New(cfg *config.ObservabilityConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg *config.ObservabilityConfig, w io.Writer) zerolog.Logger {
	level := ParseLevel(cfg.GetLogLevel())

	// Stack() on error events needs a marshaler that understands pkg/errors.
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var out io.Writer = w
	if !cfg.IsProduction() && cfg.Logging.Format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger()
}

// ParseLevel converts a config level string into a zerolog level.
// Unknown values fall back to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewPgxLogger returns the logger handed to pgx-zerolog.
//
// It is a child of the application logger, so SQL lines share its writer,
// format (JSON or console), level and service fields. The extra
// "component":"database" field makes them easy to filter.
func NewPgxLogger(app zerolog.Logger) zerolog.Logger {
	return app.With().Str("component", "database").Logger()
}

// GetPgxTraceLogLevel maps a zerolog level to a pgx tracelog level.
//
// tracelog logs every query at info, so an info logger yields full SQL
// tracing and a warn logger only reports failures.
func GetPgxTraceLogLevel(level zerolog.Level) int {
	switch level {
	case zerolog.TraceLevel:
		return int(tracelog.LogLevelTrace)
	case zerolog.DebugLevel:
		return int(tracelog.LogLevelDebug)
	case zerolog.InfoLevel:
		return int(tracelog.LogLevelInfo)
	case zerolog.WarnLevel:
		return int(tracelog.LogLevelWarn)
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return int(tracelog.LogLevelError)
	case zerolog.Disabled:
		return int(tracelog.LogLevelNone)
	default:
		return int(tracelog.LogLevelInfo)
	}
}
