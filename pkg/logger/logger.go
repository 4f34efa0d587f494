// Package logger builds the zerolog loggers used across the engine. Every
// component derives its child logger from one constructed here, so the
// service field and time format stay uniform.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const serviceName = "fantasyedge"

// Config holds logger configuration.
type Config struct {
	Level  string // trace, debug, info, warn, error
	Pretty bool   // human-readable console output for development
}

// New creates the root structured logger. Unknown or empty levels fall back
// to info rather than failing startup.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var output io.Writer = os.Stdout
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(output).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// SetGlobalLogger replaces the zerolog package-level logger so code logging
// through zerolog/log shares the engine's output and fields.
func SetGlobalLogger(l zerolog.Logger) {
	log.Logger = l
}
