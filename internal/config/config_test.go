package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://api.deezer.com", cfg.Catalog.BaseURL)
	assert.Empty(t, cfg.Catalog.ProxyPrefix)
	assert.Equal(t, 15*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 0.7, cfg.Player.DefaultVolume)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NotEmpty(t, cfg.State.DBPath)
}

func TestFromViper_UnsetKeepsDefaults(t *testing.T) {
	cfg := FromViper(viper.New())

	assert.Equal(t, DefaultConfig(), cfg)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("catalog-url", "http://localhost:9999")
	v.Set("catalog-proxy", "http://proxy.local/")
	v.Set("catalog-timeout", "5s")
	v.Set("state-db", "/tmp/test.db")
	v.Set("default-volume", 0.4)
	v.Set("log-level", "debug")
	v.Set("log-format", "json")

	cfg := FromViper(v)

	assert.Equal(t, "http://localhost:9999", cfg.Catalog.BaseURL)
	assert.Equal(t, "http://proxy.local/", cfg.Catalog.ProxyPrefix)
	assert.Equal(t, 5*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, "/tmp/test.db", cfg.State.DBPath)
	assert.Equal(t, 0.4, cfg.Player.DefaultVolume)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}
