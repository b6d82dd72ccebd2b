// Package config provides configuration management for the GPS Lab
// client core using Viper, loading from .gpslab.yml, environment
// variables with the GPSLAB_ prefix, and command-line flags, in that
// ascending order of precedence.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Validation ValidationConfig `yaml:"validation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	Host           string   `yaml:"host"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type StorageConfig struct {
	// Path is the backing file for the local namespace. Empty selects
	// the in-memory backend.
	Path string `yaml:"path"`

	// MaxBytes caps the backend; zero means no quota.
	MaxBytes int64 `yaml:"max_bytes"`

	// CleanupInterval drives the background expired-entry sweeper.
	CleanupInterval time.Duration `yaml:"cleanup_interval"`

	// Watch enables cross-process change watching on the file backend.
	Watch bool `yaml:"watch"`
}

type ValidationConfig struct {
	// Locale is a BCP 47 tag for validation messages.
	Locale string `yaml:"locale"`

	AllowDisposable    bool `yaml:"allow_disposable"`
	RequireEducational bool `yaml:"require_educational"`
	MinPasswordLength  int  `yaml:"min_password_length"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load unmarshals the viper state into a Config, applies defaults, and
// validates the result.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Server.Port == 0 {
		config.Server.Port = 8350
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}

	// Handle snake_case keys set via viper (workaround for viper tag handling)
	if viper.IsSet("server.allowed_origins") && len(config.Server.AllowedOrigins) == 0 {
		config.Server.AllowedOrigins = viper.GetStringSlice("server.allowed_origins")
	}
	if viper.IsSet("storage.max_bytes") {
		config.Storage.MaxBytes = viper.GetInt64("storage.max_bytes")
	}
	if viper.IsSet("storage.cleanup_interval") {
		config.Storage.CleanupInterval = viper.GetDuration("storage.cleanup_interval")
	}
	if config.Storage.CleanupInterval == 0 {
		config.Storage.CleanupInterval = time.Minute
	}
	if viper.IsSet("storage.watch") {
		config.Storage.Watch = viper.GetBool("storage.watch")
	} else {
		config.Storage.Watch = true
	}

	if config.Validation.Locale == "" {
		config.Validation.Locale = "en"
	}
	if viper.IsSet("validation.allow_disposable") {
		config.Validation.AllowDisposable = viper.GetBool("validation.allow_disposable")
	}
	if viper.IsSet("validation.require_educational") {
		config.Validation.RequireEducational = viper.GetBool("validation.require_educational")
	}
	if viper.IsSet("validation.min_password_length") {
		config.Validation.MinPasswordLength = viper.GetInt("validation.min_password_length")
	}
	if config.Validation.MinPasswordLength == 0 {
		config.Validation.MinPasswordLength = 8
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "text"
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
