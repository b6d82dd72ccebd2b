package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gpslab/clientcore/internal/config"
	"github.com/gpslab/clientcore/internal/metrics"
	"github.com/gpslab/clientcore/internal/server"
	"github.com/gpslab/clientcore/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local HTTP API",
	Long: `Start the client-core HTTP server: validation endpoints under
/api/validate, the key/value surface under /api/store, /healthz, and a
WebSocket change feed at /ws. Runs the expired-entry sweeper and, with a
file-backed store, the cross-process change watcher alongside.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8350, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	registry := metrics.NewRegistry()

	store, backend, err := openStore(cfg, logger, registry)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cleaner := storage.NewCleaner(store, cfg.Storage.CleanupInterval, logger)
	go cleaner.Start(ctx)

	if fileBackend, ok := backend.(*storage.FileBackend); ok && cfg.Storage.Watch {
		go func() {
			if err := fileBackend.Watch(ctx); err != nil && ctx.Err() == nil {
				logger.Error(ctx, err, "file watch stopped")
			}
		}()
	}

	return server.New(cfg, store, logger, registry).Start(ctx)
}
