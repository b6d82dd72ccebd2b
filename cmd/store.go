package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gpslab/clientcore/internal/config"
	"github.com/gpslab/clientcore/internal/metrics"
	"github.com/gpslab/clientcore/internal/storage"
)

var (
	storeOutput string
	storeTTL    time.Duration
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect and modify the local key/value store",
	Long: `Operate on the namespaced key/value store backing the client.
Values are JSON; bare strings are accepted as-is.

Examples:
  gpslab store set theme '"dark"'
  gpslab store set draft_content '{"title":"Notes"}' --ttl 24h
  gpslab store get theme
  gpslab store list -o yaml
  gpslab store cleanup`,
}

var storeGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Read one key",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreGet,
}

var storeSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write one key, optionally with a TTL",
	Args:  cobra.ExactArgs(2),
	RunE:  runStoreSet,
}

var storeRemoveCmd = &cobra.Command{
	Use:     "remove <key>",
	Aliases: []string{"rm"},
	Short:   "Delete one key",
	Args:    cobra.ExactArgs(1),
	RunE:    runStoreRemove,
}

var storeListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all entries in the namespace",
	Args:    cobra.NoArgs,
	RunE:    runStoreList,
}

var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every entry in the namespace",
	Args:  cobra.NoArgs,
	RunE:  runStoreClear,
}

var storeCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Sweep expired entries",
	Args:  cobra.NoArgs,
	RunE:  runStoreCleanup,
}

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storeGetCmd, storeSetCmd, storeRemoveCmd, storeListCmd, storeClearCmd, storeCleanupCmd)

	addOutputFlag(storeCmd.PersistentFlags(), &storeOutput)
	storeSetCmd.Flags().DurationVar(&storeTTL, "ttl", 0, "Expire the entry after this duration (e.g. 30m, 24h)")
}

func cliStore() (*storage.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)
	store, _, err := openStore(cfg, logger, metrics.NewRegistry())
	return store, err
}

func runStoreGet(cmd *cobra.Command, args []string) error {
	store, err := cliStore()
	if err != nil {
		return err
	}

	key := args[0]
	if !store.Has(key) {
		return fmt.Errorf("key %q not found", key)
	}
	return printPayload(os.Stdout, storeOutput, map[string]interface{}{
		"key":   key,
		"value": store.Get(key, nil),
	})
}

func runStoreSet(cmd *cobra.Command, args []string) error {
	store, err := cliStore()
	if err != nil {
		return err
	}

	key, raw := args[0], args[1]

	// JSON input stores the decoded value; anything else stores as a
	// plain string.
	var value interface{}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}

	opts := storage.SetOptions{}
	if storeTTL > 0 {
		opts.ExpiresIn = storeTTL
	}

	if !store.Set(key, value, opts) {
		if !store.Available() {
			return fmt.Errorf("storage backend is unavailable")
		}
		return fmt.Errorf("storage quota exceeded")
	}
	return nil
}

func runStoreRemove(cmd *cobra.Command, args []string) error {
	store, err := cliStore()
	if err != nil {
		return err
	}
	store.Remove(args[0])
	return nil
}

func runStoreList(cmd *cobra.Command, args []string) error {
	store, err := cliStore()
	if err != nil {
		return err
	}
	return printPayload(os.Stdout, storeOutput, store.GetAll())
}

func runStoreClear(cmd *cobra.Command, args []string) error {
	store, err := cliStore()
	if err != nil {
		return err
	}
	store.Clear()
	return nil
}

func runStoreCleanup(cmd *cobra.Command, args []string) error {
	store, err := cliStore()
	if err != nil {
		return err
	}
	swept := store.CleanupExpired()
	fmt.Fprintf(os.Stdout, "swept %d expired entries\n", swept)
	return nil
}
