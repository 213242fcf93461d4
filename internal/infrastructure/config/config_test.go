package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "marketplace-backend", cfg.App.Name)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "marketplace", cfg.Database.DBName)
	assert.Equal(t, time.Minute, cfg.Automation.ScanInterval)
	assert.Equal(t, 90*24*time.Hour, cfg.Automation.ExecutionRetention)
	assert.Equal(t, 10, cfg.Automation.LowStockThreshold)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("MARKETPLACE_DATABASE_HOST", "db.internal")
	t.Setenv("MARKETPLACE_AUTOMATION_LOW_STOCK_THRESHOLD", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 25, cfg.Automation.LowStockThreshold)
}

func TestDSN(t *testing.T) {
	dbc := DatabaseConfig{
		Host: "localhost", Port: 5432, User: "postgres",
		Password: "secret", DBName: "marketplace", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=marketplace sslmode=disable",
		dbc.DSN())
}

func TestValidateRetentionFloor(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Automation.ExecutionRetention = time.Hour

	assert.Error(t, cfg.validate())
}
