package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rebeliceyang/lazykit/internal/app"
	"github.com/rebeliceyang/lazykit/internal/config"
	"github.com/rebeliceyang/lazykit/internal/history"
	"github.com/rebeliceyang/lazykit/internal/presets"
	"github.com/spf13/cobra"
)

var (
	themeFlag     string
	exportDirFlag string

	demoCmd = &cobra.Command{
		Use:   "demo",
		Short: "Run the interactive table demo (default)",
		Args:  cobra.NoArgs,
		RunE:  runDemo,
	}
)

func init() {
	for _, c := range []*cobra.Command{rootCmd, demoCmd} {
		c.Flags().StringVar(&themeFlag, "theme", "", "color theme: default or catppuccin")
		c.Flags().StringVar(&exportDirFlag, "export-dir", ".", "directory for exported pages")
	}
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if themeFlag != "" {
		cfg.UI.Theme = themeFlag
	}

	logger, closer := newLogger(cfg, nil)
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	src, cols, err := openSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	opts := []app.Option{
		app.WithLogger(logger),
		app.WithExportDir(exportDirFlag),
	}

	if cfg.History.Enabled {
		path, err := config.ResolvePath(cfg.History.Path, "history.db")
		if err != nil {
			return err
		}
		if err := ensureDir(path); err != nil {
			return err
		}
		store, err := history.NewStore(path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		opts = append(opts, app.WithHistory(store))
	}

	presetPath, err := config.ResolvePath(cfg.Presets.Path, "presets.yaml")
	if err != nil {
		return err
	}
	mgr, err := presets.NewManager(presetPath)
	if err != nil {
		return err
	}
	opts = append(opts, app.WithPresets(mgr))

	a := app.New(ctx, cfg, src, cols, opts...)
	defer a.Shutdown()

	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if cfg.UI.MouseEnabled {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(a, programOpts...)
	a.StartConsole(p.Send)

	logger.Info("demo started", "driver", cfg.Data.Driver, "table", cfg.Data.Table, "columns", len(cols))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
