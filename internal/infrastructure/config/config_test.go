package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AraragiEro/kahuna-bot/internal/infrastructure/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_FileValuesAndDefaults(t *testing.T) {
	// Arrange
	path := writeConfig(t, `
database:
  type: sqlite
  path: /var/lib/kahuna/kahuna.db
industry:
  plan_limit: 8
  report_cache_ttl: 30m
`)

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "/var/lib/kahuna/kahuna.db", cfg.Database.Path)
	assert.Equal(t, 8, cfg.Industry.PlanLimit)
	assert.Equal(t, 30*time.Minute, cfg.Industry.ReportCacheTTL)
	assert.Equal(t, 20, cfg.Industry.CostConcurrency)
	assert.Equal(t, 30*24*time.Hour, cfg.Industry.VoidHorizon)
	assert.InDelta(t, 0.68, cfg.Industry.Skills.ManufacturingTimeEff, 1e-12)
	assert.Equal(t, "/tmp/kahuna-daemon.sock", cfg.Daemon.SocketPath)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	// Arrange
	path := writeConfig(t, `
logging:
  level: info
`)
	t.Setenv("KAHUNA_LOGGING_LEVEL", "debug")
	t.Setenv("KAHUNA_INDUSTRY_COST_CONCURRENCY", "4")

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 4, cfg.Industry.CostConcurrency)
}

func TestLoadConfig_InvalidValuesAreRejected(t *testing.T) {
	// Arrange
	path := writeConfig(t, `
logging:
  level: chatty
`)

	// Act
	_, err := config.LoadConfig(path)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Level")
}

func TestLoadConfig_VoidHorizonMustBeWholeHours(t *testing.T) {
	// Arrange
	path := writeConfig(t, `
industry:
  void_horizon: 90m
`)

	// Act
	_, err := config.LoadConfig(path)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VoidHorizon")
	assert.Contains(t, err.Error(), "whole_hours")
}

func TestValidateConfig_PostgresNeedsURLOrName(t *testing.T) {
	// Arrange
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Database.Type = "postgres"
	cfg.Database.Name = ""

	// Act
	err := config.ValidateConfig(cfg)
	cfg.Database.URL = "postgresql://kahuna@localhost:5432/kahuna"
	withURL := config.ValidateConfig(cfg)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required_without_url")
	assert.NoError(t, withURL)
}

func TestValidateConfig_MetricsPathIsAbsolute(t *testing.T) {
	// Arrange
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Metrics.Path = "metrics"

	// Act
	err := config.ValidateConfig(cfg)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url_path")
}

func TestLoadConfigOrDefault_FallsBackOnError(t *testing.T) {
	// Arrange
	path := writeConfig(t, "database: [not a map")

	// Act
	cfg := config.LoadConfigOrDefault(path)

	// Assert
	require.NotNil(t, cfg)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 5, cfg.Industry.PlanLimit)
	assert.NoError(t, config.ValidateConfig(cfg))
}
