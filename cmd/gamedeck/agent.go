package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the agent's current state",
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
			if env.cfg.JSON {
				return printJSON(status)
			}

			state := "offline"
			if status.IsOnline {
				state = "idle"
				if status.IsRunning {
					state = "running"
				}
			}
			fmt.Printf("agent: %s\n", state)
			if status.CurrentPrompt != nil {
				fmt.Printf("building: %s\n", *status.CurrentPrompt)
			}
			fmt.Printf("messages: %d\n", len(status.ConversationLog))
			fmt.Printf("queued ideas: %d\n", len(status.IdeasQueue))
			fmt.Printf("completed games: %d\n", status.NumCompletedIdeas)
			if status.SessionTimestamp != "" {
				fmt.Printf("session: %s\n", status.SessionTimestamp)
			}
			return nil
		},
	}
}

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Bring the agent online",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			resp, err := env.client.StartAgent(env.ctx)
			if err != nil {
				return fmt.Errorf("start agent: %w", err)
			}
			if env.cfg.JSON {
				return printJSON(resp)
			}
			fmt.Println(resp.Message)
			return nil
		},
	}
}

func newStopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the agent after its current job",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				fmt.Print("Stop the agent after the current job? [y/N] ")
				reader := bufio.NewReader(os.Stdin)
				answer, _ := reader.ReadString('\n')
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					fmt.Println("Keeping the agent running.")
					return nil
				}
			}

			resp, err := env.client.StopAgent(env.ctx)
			if err != nil {
				return fmt.Errorf("stop agent: %w", err)
			}
			if env.cfg.JSON {
				return printJSON(resp)
			}
			fmt.Println(resp.Message)
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	return cmd
}
