package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rebeliceyang/lazykit/internal/config"
	"github.com/rebeliceyang/lazykit/internal/datasource"
	"github.com/rebeliceyang/lazykit/internal/logging"
	"github.com/rebeliceyang/lazykit/internal/models"
	"github.com/spf13/cobra"
)

// Version is set via -ldflags
var Version = "dev"

var (
	cfgFile string

	// Data source overrides shared by every command
	driverFlag string
	dsnFlag    string
	tableFlag  string

	rootCmd = &cobra.Command{
		Use:     "lazykit",
		Short:   "Filterable, sortable terminal tables",
		Long:    "lazykit renders a database table with per-column filter popups,\nsortable headers and a live console panel.",
		Version: Version,
		RunE:    runDemo,

		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/lazykit/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "", "data source driver: sqlite or postgres")
	rootCmd.PersistentFlags().StringVar(&dsnFlag, "dsn", "", "data source connection string")
	rootCmd.PersistentFlags().StringVar(&tableFlag, "table", "", "table to display")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(attrsCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(exportCmd)
}

// loadConfig reads the config file and applies command line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(cfgFile)
	if err != nil {
		return nil, err
	}
	if driverFlag != "" {
		if driverFlag != cfg.Data.Driver && dsnFlag == "" {
			// pgx falls back to the PG* variables and ~/.pgpass
			cfg.Data.DSN = ""
		}
		cfg.Data.Driver = driverFlag
	}
	if dsnFlag != "" {
		cfg.Data.DSN = dsnFlag
	}
	if tableFlag != "" {
		cfg.Data.Table = tableFlag
	}
	return cfg, cfg.Validate()
}

// newLogger builds the logger for a command. Interactive commands pass a
// nil fallback so nothing is written to the terminal.
func newLogger(cfg *config.Config, fallback io.Writer) (*slog.Logger, io.Closer) {
	logger, closer := logging.New(cfg.Log, fallback)
	slog.SetDefault(logger)
	return logger, closer
}

// openSource opens the configured source, seeds the demo table when
// asked to and returns the table's columns.
func openSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (datasource.Source, []models.Column, error) {
	src, err := datasource.Open(ctx, cfg.Data.Driver, cfg.Data.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s source: %w", cfg.Data.Driver, err)
	}

	if lite, ok := src.(*datasource.SQLite); ok && cfg.Data.SeedDemo {
		if err := lite.SeedDemo(ctx, cfg.Data.Table); err != nil {
			_ = src.Close()
			return nil, nil, err
		}
		logger.Debug("demo table ready", "table", cfg.Data.Table)
	}

	cols, err := src.Columns(ctx, cfg.Data.Table)
	if err != nil {
		_ = src.Close()
		return nil, nil, err
	}
	return src, cols, nil
}

// ensureDir creates the parent directory of path
func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
