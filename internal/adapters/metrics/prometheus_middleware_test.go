package metrics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AraragiEro/kahuna-bot/internal/adapters/metrics"
	"github.com/AraragiEro/kahuna-bot/internal/application/mediator"
)

type PingQuery struct{}

type BreakCommand struct{}

func TestPrometheusMiddleware_CountsByRequestAndStatus(t *testing.T) {
	// Arrange
	collector := metrics.NewRequestMetricsCollector()
	mw := metrics.PrometheusMiddleware(collector)
	ok := func(ctx context.Context, request mediator.Request) (mediator.Response, error) { return "pong", nil }
	fail := func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return nil, errors.New("boom")
	}

	// Act
	resp, err := mw(context.Background(), &PingQuery{}, ok)
	require.NoError(t, err)
	_, _ = mw(context.Background(), &PingQuery{}, ok)
	_, failErr := mw(context.Background(), &BreakCommand{}, fail)

	// Assert
	assert.Equal(t, "pong", resp)
	assert.EqualError(t, failErr, "boom")
	total := collector.RequestsTotal()
	assert.Equal(t, 2.0, testutil.ToFloat64(total.WithLabelValues("PingQuery", "query", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(total.WithLabelValues("BreakCommand", "command", "error")))
}

func TestPrometheusMiddleware_NilCollectorPassesThrough(t *testing.T) {
	// Arrange
	mw := metrics.PrometheusMiddleware(nil)
	called := false
	next := func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		called = true
		return nil, nil
	}

	// Act
	_, err := mw(context.Background(), &PingQuery{}, next)

	// Assert
	require.NoError(t, err)
	assert.True(t, called)
}

func TestRequestName(t *testing.T) {
	assert.Equal(t, "PingQuery", metrics.RequestName(&PingQuery{}))
	assert.Equal(t, "BreakCommand", metrics.RequestName(BreakCommand{}))
	assert.Equal(t, "UnknownRequest", metrics.RequestName(nil))
}
