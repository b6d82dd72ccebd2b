// Package cmd provides the gpslab command-line interface.
//
// Configuration sources, highest priority first:
//  1. Command-line flags (--config, --log-level, per-command flags)
//  2. GPSLAB_CONFIG_FILE environment variable, a custom config file path
//  3. Individual environment variables (GPSLAB_SERVER_PORT, etc.)
//  4. .gpslab.yml in the current directory
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gpslab/clientcore/internal/config"
	"github.com/gpslab/clientcore/internal/logging"
	"github.com/gpslab/clientcore/internal/metrics"
	"github.com/gpslab/clientcore/internal/storage"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gpslab",
	Short: "Client-side validation and storage tooling for the GPS Lab platform",
	Long: `gpslab bundles the GPS Lab client core: the form and credential
validation engine and the namespaced, expiry-aware key/value store that
backs the platform's client-side state.

Quick Start:
  gpslab validate email student@university.edu
  gpslab store set theme '"dark"'
  gpslab store list
  gpslab serve                  Start the local HTTP API
  gpslab watch                  Stream store change events`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .gpslab.yml, can also use GPSLAB_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig wires viper to the config file and GPSLAB_ environment
// variables. A missing config file is not an error; defaults apply.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("GPSLAB_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".gpslab")
	}

	viper.SetEnvPrefix("GPSLAB")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the process logger from the loaded configuration.
func newLogger(cfg *config.Config) logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
}

// openStore builds the local-namespace store over the configured
// backend: the JSON file backend when storage.path is set, otherwise
// in-memory.
func openStore(cfg *config.Config, logger logging.Logger, registry *metrics.Registry) (*storage.Store, storage.Backend, error) {
	var backend storage.Backend
	if cfg.Storage.Path != "" {
		fileBackend, err := storage.NewFileBackend(cfg.Storage.Path, cfg.Storage.MaxBytes, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("opening storage file: %w", err)
		}
		backend = fileBackend
	} else {
		backend = storage.NewMemoryBackend(cfg.Storage.MaxBytes)
	}

	store := storage.New(storage.Options{
		Backend: backend,
		Logger:  logger,
		Metrics: registry,
	})
	return store, backend, nil
}
