package logger

import (
	"bytes"
	"testing"

	"github.com/ar4ie13/tutorialplatform/internal/logger/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerTo_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, zerolog.WarnLevel)

	log.Info().Msg("hidden")
	log.Warn().Msg("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

func TestLogLevel_Set(t *testing.T) {
	var lvl config.LogLevel

	require.NoError(t, lvl.Set("WARN"))
	assert.Equal(t, zerolog.WarnLevel, lvl.Level)
	assert.Equal(t, "warn", lvl.String())

	assert.Error(t, lvl.Set("loud"))
	assert.Error(t, lvl.Set(""))
	assert.Equal(t, zerolog.WarnLevel, lvl.Level, "failed Set must keep previous level")
}
