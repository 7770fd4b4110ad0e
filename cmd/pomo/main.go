package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/pomo/internal/config"
	"github.com/sandeepkv93/pomo/internal/storage"
	"github.com/sandeepkv93/pomo/internal/tasks"
)

var Version = "dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "pomo failed: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string
	rootCmd := &cobra.Command{
		Use:           "pomo",
		Short:         "pomo - focus timer, task list and a place to vent",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd.Context(), configDir, "")
		},
	}
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory holding .pomo.yaml")

	rootCmd.AddCommand(uiCmd(&configDir))
	rootCmd.AddCommand(serveCmd(&configDir))
	rootCmd.AddCommand(tasksCmd(&configDir))
	return rootCmd
}

// openStore loads config and opens the configured backend. The sqlite
// backend keeps its database file inside the store directory.
func openStore(configDir string) (config.RuntimeConfig, storage.Store, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return cfg, nil, err
	}
	path := cfg.StorePath
	if cfg.StoreBackend == storage.BackendSQLite && filepath.Ext(path) == "" {
		path = filepath.Join(path, "pomo.db")
	}
	store, err := storage.Open(cfg.StoreBackend, path)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, store, nil
}

func openRegistry(ctx context.Context, configDir string) (*tasks.Registry, func(), error) {
	_, store, err := openStore(configDir)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { _ = storage.Close(store) }
	return tasks.NewRegistry(ctx, store), closeFn, nil
}
