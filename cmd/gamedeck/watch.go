package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gamedeck/internal/api"
	"gamedeck/internal/config"
	"gamedeck/internal/render"
	"gamedeck/internal/ui"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Open the interactive dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd)
			if err != nil {
				return err
			}
			logger := buildLogger(cfg)
			defer func() { _ = logger.Sync() }()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			client := api.New(cfg.BaseURL, cfg.RequestTimeout)
			renderer := render.New(render.Options{
				Width:    100,
				Color:    render.ShouldColor(os.Stdout, cfg.NoColor),
				Markdown: true,
			})

			app := ui.NewApp(ctx, ui.Config{
				Client:       client,
				PollInterval: cfg.PollInterval,
				ArtInterval:  cfg.ArtInterval,
				ArtAttempts:  cfg.ArtMaxAttempts,
				Renderer:     renderer,
				Logger:       logger,
			})

			program := tea.NewProgram(app, tea.WithContext(ctx), tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				logger.Error("dashboard exited", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().String("poll-interval", config.DefaultPollInterval.String(), "Status poll interval")
	cmd.Flags().String("art-interval", config.DefaultArtInterval.String(), "Cover art probe interval")
	return cmd
}
