package logging_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/AraragiEro/kahuna-bot/internal/infrastructure/config"
	"github.com/AraragiEro/kahuna-bot/internal/infrastructure/logging"
)

func TestZapLogger_MapsLevelsAndMetadata(t *testing.T) {
	// Arrange
	core, logs := observer.New(zapcore.DebugLevel)
	logger := logging.NewZapLoggerFrom(zap.New(core))

	// Act
	logger.Log("DEBUG", "resolved", map[string]interface{}{"plan": "caps", "nodes": 12})
	logger.Log("WARNING", "stale prices", nil)
	logger.Log("ERROR", "failed", map[string]interface{}{"error": errors.New("boom")})
	logger.Log("whatever", "fallback", nil)

	// Assert
	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, map[string]interface{}{"plan": "caps", "nodes": int64(12)}, entries[0].ContextMap())
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "boom", entries[2].ContextMap()["error"])
	assert.Equal(t, zapcore.InfoLevel, entries[3].Level)
}

func TestNewZapLogger_RejectsUnknownLevel(t *testing.T) {
	// Act
	_, err := logging.NewZapLogger(config.LoggingConfig{Level: "chatty", Format: "json", Output: "stdout"})

	// Assert
	assert.Error(t, err)
}

func TestNewZapLogger_TextFormat(t *testing.T) {
	// Act
	logger, err := logging.NewZapLogger(config.LoggingConfig{Level: "debug", Format: "text", Output: "stderr"})

	// Assert
	require.NoError(t, err)
	logger.Named("test").Log("INFO", "hello", nil)
}
