package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gpslab/clientcore/internal/config"
	"github.com/gpslab/clientcore/internal/metrics"
	"github.com/gpslab/clientcore/internal/storage"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream store change events to stdout",
	Long: `Subscribe to the store's change feed and print one JSON event
per line. With a file-backed store this includes changes made by other
processes, the desktop analog of cross-tab storage events. Stops on
Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	store, backend, err := openStore(cfg, logger, metrics.NewRegistry())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	unsubscribe := store.Subscribe(func(event storage.Event) {
		line, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Println(string(line))
	})
	defer unsubscribe()

	if fileBackend, ok := backend.(*storage.FileBackend); ok && cfg.Storage.Watch {
		go func() {
			if err := fileBackend.Watch(ctx); err != nil && ctx.Err() == nil {
				logger.Error(ctx, err, "file watch stopped")
			}
		}()
	}

	fmt.Fprintln(os.Stderr, "watching for changes, Ctrl-C to stop")
	<-ctx.Done()
	return nil
}
