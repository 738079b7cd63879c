// gamedeck is the terminal dashboard for the autonomous game-building
// agent: watch its conversation live, browse the generated cartridges,
// and manage the idea backlog.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gamedeck/internal/config"
)

func main() {
	_ = godotenv.Load()
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gamedeck",
		Short:         "gamedeck - dashboard for the game-building agent",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("base-url", config.DefaultBaseURL, "Backend base URL")
	cmd.PersistentFlags().String("timeout", config.DefaultRequestTimeout.String(), "Request timeout (e.g. 10s)")
	cmd.PersistentFlags().Bool("verbose", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output JSON only")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().String("log-file", "", "Write logs to a file")

	cmd.AddCommand(
		newWatchCmd(),
		newStatusCmd(),
		newStartCmd(),
		newStopCmd(),
		newLogCmd(),
		newGamesCmd(),
		newPlayCmd(),
		newFinishedCmd(),
		newIdeasCmd(),
		newStatsCmd(),
	)
	return cmd
}

// buildLogger returns the process logger. When a log file is set the
// terminal stays clean, which matters for the TUI.
func buildLogger(cfg config.Config) *zap.Logger {
	if cfg.LogFile != "" {
		zcfg := zap.NewProductionConfig()
		if cfg.Verbose {
			zcfg = zap.NewDevelopmentConfig()
		}
		zcfg.OutputPaths = []string{cfg.LogFile}
		zcfg.ErrorOutputPaths = []string{cfg.LogFile}
		logger, err := zcfg.Build()
		if err == nil {
			return logger
		}
	}
	if cfg.Verbose {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
