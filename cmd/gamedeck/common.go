package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gamedeck/internal/api"
	"gamedeck/internal/config"
)

// cmdEnv bundles what every one-shot command needs.
type cmdEnv struct {
	cfg    config.Config
	logger *zap.Logger
	client *api.Client
	ctx    context.Context
	cancel context.CancelFunc
}

func setup(cmd *cobra.Command) (*cmdEnv, error) {
	cfg, err := config.Load(cmd)
	if err != nil {
		return nil, err
	}
	logger := buildLogger(cfg)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return &cmdEnv{
		cfg:    cfg,
		logger: logger,
		client: api.New(cfg.BaseURL, cfg.RequestTimeout),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

func (e *cmdEnv) close() {
	e.cancel()
	_ = e.logger.Sync()
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(payload))
	return nil
}
