package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gamedeck/internal/api"
	"gamedeck/internal/ideas"
	"gamedeck/internal/llm"
)

func newIdeasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ideas",
		Short: "Manage the agent's idea backlog",
	}
	cmd.AddCommand(
		newIdeasListCmd(),
		newIdeasAddCmd(),
		newIdeasPopCmd(),
		newIdeasQueueCmd(),
		newIdeasShowCmd(),
		newProposeCmd(),
	)
	return cmd
}

func newIdeasListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backlog entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			backlog, err := env.client.ListIdeas(env.ctx)
			if err != nil {
				return fmt.Errorf("list ideas: %w", err)
			}
			if env.cfg.JSON {
				return printJSON(backlog)
			}
			if len(backlog) == 0 {
				fmt.Println("The backlog is empty.")
				return nil
			}
			for _, idea := range backlog {
				fmt.Printf("#%d  [%s]  %s\n", idea.ID, idea.State, idea.Prompt)
			}
			return nil
		},
	}
}

func newIdeasAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <prompt>",
		Short: "Queue a new idea",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			repos, _ := cmd.Flags().GetStringSlice("repo")
			prompt := strings.Join(args, " ")
			if err := env.client.CreateIdea(env.ctx, api.IdeaRequest{Prompt: prompt, Repos: repos}); err != nil {
				return fmt.Errorf("queue idea: %w", err)
			}
			fmt.Println("Queued:", prompt)
			return nil
		},
	}
	cmd.Flags().StringSlice("repo", nil, "Base repositories for the idea")
	return cmd
}

func newIdeasPopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pop",
		Short: "Take the next idea off the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			idea, err := env.client.PopIdea(env.ctx)
			if err != nil {
				return fmt.Errorf("pop idea: %w", err)
			}
			if env.cfg.JSON {
				return printJSON(idea)
			}
			fmt.Printf("#%d  %s\n", idea.ID, idea.Prompt)
			return nil
		},
	}
}

func newIdeasQueueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Show queue fullness",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			status, err := env.client.QueueStatus(env.ctx)
			if err != nil {
				return fmt.Errorf("queue status: %w", err)
			}
			if env.cfg.JSON {
				return printJSON(status)
			}
			full := ""
			if status.IsFull {
				full = " (full)"
			}
			fmt.Printf("%d / %d queued%s\n", status.Size, status.MaxSize, full)
			return nil
		},
	}
}

func newIdeasShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one backlog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid idea id %q", args[0])
			}
			idea, err := env.client.GetIdea(env.ctx, id)
			if err != nil {
				return fmt.Errorf("fetch idea: %w", err)
			}
			if env.cfg.JSON {
				return printJSON(idea)
			}
			fmt.Printf("#%d  [%s]\n%s\n", idea.ID, idea.State, idea.Prompt)
			if len(idea.Repos) > 0 {
				fmt.Println("repos:", strings.Join(idea.Repos, ", "))
			}
			return nil
		},
	}
}

func newProposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Generate ideas and feed the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			count, _ := cmd.Flags().GetInt("count")
			follow, _ := cmd.Flags().GetBool("follow")

			var model llm.Client
			apiKey := os.Getenv("OPENROUTER_API_KEY")
			if apiKey == "" {
				apiKey = os.Getenv("OPENAI_API_KEY")
			}
			if os.Getenv("GAMEDECK_MOCK_LLM") == "1" {
				model = llm.NewMockClient()
			} else if apiKey != "" {
				model = llm.NewOpenRouterClient(apiKey, env.cfg.ProposeBaseURL, "", "gamedeck")
			}
			if model == nil {
				env.logger.Info("no model key configured, using built-in ideas")
			}

			proposer := ideas.New(env.client, model, env.cfg.ProposeModel, env.logger)
			if follow {
				err := proposer.Run(env.ctx)
				if err == env.ctx.Err() {
					return nil
				}
				return err
			}

			for i := 0; i < count; i++ {
				prompt, err := proposer.Submit(env.ctx)
				if err != nil {
					env.logger.Error("proposal failed", zap.Error(err))
					return err
				}
				fmt.Println("Queued:", prompt)
			}
			return nil
		},
	}
	cmd.Flags().Int("count", 1, "Number of ideas to propose")
	cmd.Flags().Bool("follow", false, "Keep proposing, throttled by queue fullness")
	cmd.Flags().String("model", "", "Model for idea generation")
	return cmd
}
