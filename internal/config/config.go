// Package config defines the application configuration and its defaults.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application settings.
type Config struct {
	Catalog CatalogConfig
	State   StateConfig
	Player  PlayerConfig
	Log     LogConfig
}

// CatalogConfig configures the music catalog client.
type CatalogConfig struct {
	// BaseURL is the catalog API root.
	BaseURL string

	// ProxyPrefix, when set, is prepended to every request URL. Browser-
	// hosted builds use it to route around CORS restrictions.
	ProxyPrefix string

	// Timeout bounds each catalog request.
	Timeout time.Duration
}

// StateConfig configures local persistence.
type StateConfig struct {
	// DBPath is the SQLite database file holding playlist and preferences.
	DBPath string
}

// PlayerConfig configures playback defaults.
type PlayerConfig struct {
	// DefaultVolume is used when no persisted volume exists.
	DefaultVolume float64
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string
	Format string
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL: "https://api.deezer.com",
			Timeout: 15 * time.Second,
		},
		State: StateConfig{
			DBPath: defaultDBPath(),
		},
		Player: PlayerConfig{
			DefaultVolume: 0.7,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// FromViper builds a Config from bound flags and SONGIFY_* environment
// variables, falling back to defaults for anything unset.
func FromViper(v *viper.Viper) *Config {
	cfg := DefaultConfig()

	if s := v.GetString("catalog-url"); s != "" {
		cfg.Catalog.BaseURL = s
	}
	cfg.Catalog.ProxyPrefix = v.GetString("catalog-proxy")
	if d := v.GetDuration("catalog-timeout"); d > 0 {
		cfg.Catalog.Timeout = d
	}
	if s := v.GetString("state-db"); s != "" {
		cfg.State.DBPath = s
	}
	if f := v.GetFloat64("default-volume"); f > 0 {
		cfg.Player.DefaultVolume = f
	}
	if s := v.GetString("log-level"); s != "" {
		cfg.Log.Level = s
	}
	if s := v.GetString("log-format"); s != "" {
		cfg.Log.Format = s
	}

	return cfg
}

// defaultDBPath places the state database under the user config directory,
// falling back to the working directory when that is unavailable.
func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "songify.db"
	}
	return filepath.Join(dir, "songify", "songify.db")
}
