package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/marcus/notepadzone/internal/app"
	"github.com/marcus/notepadzone/internal/config"
	"github.com/marcus/notepadzone/internal/logging"
	"github.com/marcus/notepadzone/internal/state"
	"github.com/marcus/notepadzone/internal/store"
)

var (
	configPath string
	debugFlag  bool
)

var rootCmd = &cobra.Command{
	Use:           "notepadzone",
	Short:         "A live-synced notes board for the terminal",
	Long:          `NotePadZone keeps a shared list of short notes in sync across every client watching the same collection.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}

// setup loads config, the logger and the note backend shared by every command.
func setup(ctx context.Context, opts logging.Options) (*config.Config, *slog.Logger, store.Backend, func(), error) {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	opts.Debug = debugFlag
	logger, logCloser, err := logging.New(cfg.Log, opts)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("open log: %w", err)
	}

	backend, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		_ = logCloser.Close()
		return nil, nil, nil, nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}

	cleanup := func() {
		if err := backend.Close(); err != nil {
			logger.Warn("close store", "err", err)
		}
		closeQuietly(logCloser)
	}
	return cfg, logger, backend, cleanup, nil
}

func runTUI(ctx context.Context) error {
	cfg, logger, backend, cleanup, err := setup(ctx, logging.Options{})
	if err != nil {
		return err
	}
	defer cleanup()

	// Load persistent state (ignore errors - state is optional)
	prefs, err := state.Init(config.StateDir())
	if err != nil {
		logger.Warn("load state", "err", err)
	}

	bridge := app.NewSnapshotBridge()
	defer bridge.Close()
	unsubscribe := backend.Subscribe(bridge.Push)
	defer unsubscribe()

	model := app.New(app.Options{
		Store:         backend,
		Bridge:        bridge,
		Theme:         prefs,
		Clipboard:     app.SystemClipboard,
		Logger:        logger,
		TruncateLimit: cfg.UI.TruncateLimit,
		TimeLayout:    cfg.UI.TimeFormat,
		Version:       effectiveVersion(Version),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run application: %w", err)
	}
	return nil
}

func closeQuietly(c io.Closer) {
	_ = c.Close()
}
