package common_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AraragiEro/kahuna-bot/internal/application/common"
	"github.com/AraragiEro/kahuna-bot/internal/application/mediator"
)

type logEntry struct {
	level    string
	message  string
	metadata map[string]interface{}
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, message: message, metadata: metadata})
}

type sampleQuery struct{}

func TestLoggingMiddleware_LogsSuccessAtDebug(t *testing.T) {
	// Arrange
	logger := &recordingLogger{}
	mw := common.LoggingMiddleware(logger)
	var handlerLogger common.PlannerLogger
	next := func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		handlerLogger = common.LoggerFromContext(ctx)
		return 42, nil
	}

	// Act
	resp, err := mw(context.Background(), &sampleQuery{}, next)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 42, resp)
	assert.Same(t, logger, handlerLogger)
	require.Len(t, logger.entries, 1)
	assert.Equal(t, "DEBUG", logger.entries[0].level)
	assert.Equal(t, "common_test.sampleQuery", logger.entries[0].metadata["request"])
}

func TestLoggingMiddleware_LogsFailureAtError(t *testing.T) {
	// Arrange
	fallback := &recordingLogger{}
	scoped := &recordingLogger{}
	mw := common.LoggingMiddleware(fallback)
	next := func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return nil, errors.New("plan not found")
	}

	// Act
	_, err := mw(common.WithLogger(context.Background(), scoped), &sampleQuery{}, next)

	// Assert
	require.Error(t, err)
	assert.Empty(t, fallback.entries)
	require.Len(t, scoped.entries, 1)
	assert.Equal(t, "ERROR", scoped.entries[0].level)
	assert.Equal(t, "plan not found", scoped.entries[0].metadata["error"])
}
