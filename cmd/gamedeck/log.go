package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gamedeck/internal/config"
	"gamedeck/internal/render"
	"gamedeck/internal/transcript"
)

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the agent's conversation log",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			status, err := env.client.Status(env.ctx)
			if err != nil {
				return fmt.Errorf("fetch status: %w", err)
			}
			records := status.ConversationLog
			if env.cfg.TailLines > 0 && len(records) > env.cfg.TailLines {
				records = records[len(records)-env.cfg.TailLines:]
			}

			if env.cfg.JSON {
				return printJSON(records)
			}

			entries := transcript.DecodeLog(records)
			renderer := render.New(render.Options{
				Width:    100,
				Color:    render.ShouldColor(os.Stdout, env.cfg.NoColor),
				Markdown: true,
			})
			for _, unit := range renderer.Log(entries) {
				if unit == "" {
					continue
				}
				fmt.Println(unit)
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().Int("tail", config.DefaultTailLines, "Only print the last N messages")
	return cmd
}
