package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/project-dashboard/internal/api"
	"github.com/nhle/project-dashboard/internal/app"
	"github.com/nhle/project-dashboard/internal/logging"
)

// runTUI opens the terminal UI. Logs go to the configured file because the
// UI owns the terminal.
func runTUI(ctx context.Context, opts *RootOptions) error {
	cfg := opts.Config

	log, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	s, err := opts.deps.openStore(cfg, log)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	appOpts := app.Options{
		Store:           s,
		ConfigPath:      opts.ConfigPath,
		Config:          cfg,
		Log:             log,
		Now:             opts.deps.now,
		RefreshInterval: time.Duration(cfg.Display.RefreshIntervalSec) * time.Second,
	}

	ring, err := opts.deps.openKeyring(cfg)
	if err != nil {
		log.WithError(err).Warn("keyring unavailable, login disabled")
	} else {
		appOpts.Tokens = ring
		appOpts.Auth = api.NewClient(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSec)*time.Second)
	}

	log.Info("starting dashboard")
	p := tea.NewProgram(app.New(appOpts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
