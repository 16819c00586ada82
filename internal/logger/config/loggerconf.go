package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// LogLevel is a pflag.Value holding zerolog level
type LogLevel struct {
	Level zerolog.Level
}

// String returns log level as string
func (l *LogLevel) String() string {
	return l.Level.String()
}

// Set validates and sets the log level from string
func (l *LogLevel) Set(value string) error {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if level == zerolog.NoLevel {
		return fmt.Errorf("invalid log level: %q", value)
	}
	l.Level = level
	return nil
}

// Type is used by pflag in usage output
func (l *LogLevel) Type() string {
	return "level"
}
