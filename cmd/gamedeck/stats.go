package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show usage limits and the current work session",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			stats, err := env.client.Stats(env.ctx)
			if err != nil {
				return fmt.Errorf("fetch stats: %w", err)
			}
			if env.cfg.JSON {
				return printJSON(stats)
			}

			fmt.Printf("session usage: %d%%\n", stats.UsageStats.Session)
			fmt.Printf("weekly usage:  %d%%\n", stats.UsageStats.Weekly)
			if stats.WorkSession.StartTime != nil {
				fmt.Printf("work session:  started %s\n", *stats.WorkSession.StartTime)
			}
			if stats.WorkSession.IdeaID != nil {
				fmt.Printf("working on:    idea #%d\n", *stats.WorkSession.IdeaID)
			}
			if stats.WorkSession.DurationSeconds > 0 {
				fmt.Printf("elapsed:       %ds\n", stats.WorkSession.DurationSeconds)
			}
			return nil
		},
	}
}
