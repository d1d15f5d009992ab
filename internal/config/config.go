// Package config loads runtime configuration from an optional yaml file
// and environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings for the portal.
type Config struct {
	Port          int           `mapstructure:"port"`
	Storage       string        `mapstructure:"storage"` // "memory" or "postgres"
	BackendURL    string        `mapstructure:"backend_url"`
	SessionSecret string        `mapstructure:"session_secret"`
	FlashTTL      time.Duration `mapstructure:"flash_ttl"`
	LogLevel      string        `mapstructure:"log_level"`
}

// Load reads config.yaml when present and applies ACTIVITIES_* environment
// overrides on top of the defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("activities")
	v.AutomaticEnv()

	v.SetDefault("port", 8080)
	v.SetDefault("storage", "memory")
	v.SetDefault("backend_url", "")
	v.SetDefault("session_secret", "dev-secret-change-me")
	v.SetDefault("flash_ttl", "5s")
	v.SetDefault("log_level", "info")

	// A missing config file is fine; defaults plus env cover it.
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
