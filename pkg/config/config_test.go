package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoreHTTP, cfg.Store.Driver)
	assert.Equal(t, "http://127.0.0.1:8000/api", cfg.Backend.URL)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 20.0, cfg.Backend.RateLimit)
	assert.Equal(t, 5, cfg.Backend.Burst)
	assert.Equal(t, 1500*time.Millisecond, cfg.Stocktake.DebounceWindow)
	assert.Equal(t, 3*time.Second, cfg.Notify.TTL)
	assert.False(t, cfg.Optimization.RecomputeAfterMove)
	assert.True(t, cfg.DB.Migrate)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "Memory")
	v.Set("BACKEND_URL", "https://wms.example.com/api/")
	v.Set("SCAN_DEBOUNCE_MS", "800")
	v.Set("OPTIMIZATION_RECOMPUTE_AFTER_MOVE", "true")
	v.Set("BACKEND_RATE_LIMIT", "2.5")
	v.Set("DB_MIGRATE", "false")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, "https://wms.example.com/api", cfg.Backend.URL)
	assert.Equal(t, 800*time.Millisecond, cfg.Stocktake.DebounceWindow)
	assert.True(t, cfg.Optimization.RecomputeAfterMove)
	assert.Equal(t, 2.5, cfg.Backend.RateLimit)
	assert.False(t, cfg.DB.Migrate)
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "mongo")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "wms", Password: "p@ss:w", DBName: "smartwms", SSLMode: "disable"}
	assert.Equal(t, "postgres://wms:p%40ss%3Aw@db:5432/smartwms?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
