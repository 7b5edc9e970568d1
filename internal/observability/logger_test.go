package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := NewLogger(LogConfig{
		Level:     "info",
		File:      logFile,
		MaxSizeMB: 1,
	})
	require.NoError(t, err)

	logger.Info().Str("component", "test").Msg("hello")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"hello"`)
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestNewLoggerBadLevelFallsBackToInfo(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "app.log")

	logger, err := NewLogger(LogConfig{Level: "verbose", File: logFile})
	require.NoError(t, err)

	logger.Debug().Msg("dropped")
	logger.Info().Msg("kept")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(t.Context(), "req-123")
	assert.Equal(t, "req-123", RequestID(ctx))
	assert.Empty(t, RequestID(t.Context()))
}
