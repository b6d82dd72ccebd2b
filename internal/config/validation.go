package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

// validateConfig validates configuration values for security and
// correctness.
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := validateStorageConfig(&config.Storage); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}

	if err := validateValidationConfig(&config.Validation); err != nil {
		return fmt.Errorf("validation config: %w", err)
	}

	if err := validateLoggingConfig(&config.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// validateServerConfig validates server configuration values.
func validateServerConfig(config *ServerConfig) error {
	// Allow 0 for system-assigned ports in testing.
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return fmt.Errorf("host contains dangerous character: %s", char)
			}
		}
	}

	return nil
}

// validateStorageConfig validates storage configuration values.
func validateStorageConfig(config *StorageConfig) error {
	if config.Path != "" {
		if err := validatePath(config.Path); err != nil {
			return fmt.Errorf("invalid storage path '%s': %w", config.Path, err)
		}
	}

	if config.MaxBytes < 0 {
		return fmt.Errorf("max_bytes must not be negative, got %d", config.MaxBytes)
	}

	if config.CleanupInterval < 0 {
		return fmt.Errorf("cleanup_interval must not be negative, got %s", config.CleanupInterval)
	}

	return nil
}

// validateValidationConfig validates validation configuration values.
func validateValidationConfig(config *ValidationConfig) error {
	if _, err := language.Parse(config.Locale); err != nil {
		return fmt.Errorf("locale %q is not a valid BCP 47 tag: %w", config.Locale, err)
	}

	if config.MinPasswordLength < 1 {
		return fmt.Errorf("min_password_length must be at least 1, got %d", config.MinPasswordLength)
	}

	return nil
}

// validateLoggingConfig validates logging configuration values.
func validateLoggingConfig(config *LoggingConfig) error {
	switch config.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", config.Level)
	}

	switch config.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", config.Format)
	}

	return nil
}

// validatePath validates a file path for security.
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	// Reject path traversal attempts.
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
