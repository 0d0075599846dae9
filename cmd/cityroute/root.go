package main

import (
	"fmt"
	"log/slog"

	"lintang/cityroute/pkg/config"
	"lintang/cityroute/pkg/kv"
	"lintang/cityroute/pkg/logging"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "cityroute",
	Short: "cityroute - shortest path antar kota",
	Long: `cityroute menyimpan kota (node) dan jalan satu arah (edge) di pebble,
lalu menjawab query shortest path (jumlah edge paling sedikit) dan jarak minimum (haversine).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path file konfigurasi yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override level log (debug|info|warn|error)")

	rootCmd.AddCommand(serveCmd, importCmd, routeCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig config file + env, lalu flag cli.
func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, logging.New(cfg.Logging), nil
}

func openStore(cfg config.StorageConfig) (*kv.KVDB, error) {
	opts := &pebble.Options{}
	dir := cfg.Dir
	if cfg.InMemory {
		opts.FS = vfs.NewMem()
		dir = ""
	}
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("open pebble %q: %w", cfg.Dir, err)
	}
	return kv.NewKVDB(db), nil
}
