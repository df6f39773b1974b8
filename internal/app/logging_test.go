package app

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moderation-console/internal/core/port"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}

func TestBuildLogger_WritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	logger, fluentClient, err := buildLogger(loggerSetup{appName: "moderation-console", writer: &buf, level: "debug"})
	require.NoError(t, err)
	assert.Nil(t, fluentClient)

	logger.Info("ready", port.Fields{"component": "test"})
	assert.Contains(t, buf.String(), "ready")
	assert.Contains(t, buf.String(), "service_name=moderation-console")
}
