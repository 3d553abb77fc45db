package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lotes-erp/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "read_committed", cfg.Inventory.TxIsolation)
	assert.Equal(t, 3, cfg.Inventory.TxMaxRetries)
	assert.Equal(t, "0.00001", cfg.Inventory.DeficitTolerance)
	assert.Equal(t, "lotes:audit", cfg.Redis.AuditStream)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("INVENTORY_TX_ISOLATION", "serializable")
	t.Setenv("INVENTORY_TX_MAX_RETRIES", "5")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "serializable", cfg.Inventory.TxIsolation)
	assert.Equal(t, 5, cfg.Inventory.TxMaxRetries)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestLoad_IsolationInvalida(t *testing.T) {
	t.Setenv("INVENTORY_TX_ISOLATION", "repeatable_read")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_ReintentosNegativos(t *testing.T) {
	t.Setenv("INVENTORY_TX_MAX_RETRIES", "-1")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "lotes", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/lotes?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro/db"
	assert.Equal(t, "postgres://otro/db", c.ConnectionString())
}
