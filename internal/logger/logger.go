package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger for type safety and extensibility
type Logger struct {
	zerolog.Logger
}

// NewLogger creates a new Logger writing to stdout with the given zerolog level
func NewLogger(level zerolog.Level) *Logger {
	return NewLoggerTo(os.Stdout, level)
}

// NewLoggerTo creates a new Logger writing human-readable lines to w
func NewLoggerTo(w io.Writer, level zerolog.Level) *Logger {
	log := &Logger{
		Logger: zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    w != os.Stdout,
		}).With().Timestamp().Logger().Level(level),
	}
	log.Debug().Msgf("Log level: %s", level)
	return log
}
