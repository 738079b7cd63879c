package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gamedeck/internal/api"
	"gamedeck/internal/catalog"
)

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "List generated game cartridges",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			genre, _ := cmd.Flags().GetString("genre")
			baseGame, _ := cmd.Flags().GetString("type")
			pageNum, _ := cmd.Flags().GetInt("page")
			all, _ := cmd.Flags().GetBool("all")

			packs, err := env.client.Manifest(env.ctx)
			if err != nil {
				return fmt.Errorf("fetch manifest: %w", err)
			}
			projects := catalog.Flatten(packs)
			if len(projects) == 0 {
				fmt.Println("No games have been generated yet.")
				return nil
			}

			filter := catalog.Filter{Genre: genre, BaseGame: baseGame}
			view := catalog.NewView(catalog.SortCoverFirst(projects), filter)

			var items []api.Project
			hasMore := false
			if all {
				for n := 0; ; n++ {
					page := view.Page(n, env.cfg.PageSize)
					items = append(items, page.Items...)
					if !page.HasMore {
						break
					}
				}
			} else {
				page := view.Page(pageNum, env.cfg.PageSize)
				items = page.Items
				hasMore = page.HasMore
			}

			if env.cfg.JSON {
				return printJSON(items)
			}
			if len(items) == 0 {
				fmt.Println("No games match the current filters.")
				return nil
			}

			recommended := make(map[catalog.CuratedKey]bool, len(catalog.CuratedList))
			for _, key := range catalog.CuratedList {
				recommended[key] = true
			}
			for _, project := range items {
				marker := " "
				if recommended[catalog.CuratedKey{PackID: project.GamePackID, ProjectID: project.ID}] {
					marker = "*"
				}
				name := project.Metadata.Name
				if name == "" {
					name = "Untitled " + project.ID
				}
				line := fmt.Sprintf("%s %s/%s  %s", marker, project.GamePackID, project.ID, name)
				if genres := project.Metadata.Genre; len(genres) > 0 {
					line += "  [" + strings.Join(genres, ", ") + "]"
				}
				fmt.Println(line)
			}
			fmt.Printf("\n%d of %d games", len(items), view.Total())
			if hasMore {
				fmt.Printf(", next: --page %d", pageNum+1)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("genre", "", "Only games with this genre")
	cmd.Flags().String("type", "", "Only games of this base type")
	cmd.Flags().Int("page", 0, "Page number, starting at 0")
	cmd.Flags().Bool("all", false, "Print every page")
	cmd.Flags().Int("page-size", catalog.DefaultPageSize, "Games per page")
	return cmd
}

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [pack] [game]",
		Short: "Resolve a game's playable URL",
		Long:  "With no arguments, lists available packs; with one, the games inside a pack; with two, resolves the playable URL.",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			if len(args) < 2 {
				packs, err := env.client.ProjectsList(env.ctx)
				if err != nil {
					return fmt.Errorf("list packs: %w", err)
				}
				if len(args) == 1 {
					for _, pack := range packs {
						if pack.Timestamp != args[0] {
							continue
						}
						for _, game := range pack.Games {
							fmt.Printf("%s/%s\n", pack.Timestamp, game)
						}
						return nil
					}
					return fmt.Errorf("no pack named %q", args[0])
				}
				if env.cfg.JSON {
					return printJSON(packs)
				}
				preferred, _ := catalog.PreferredPack(packs)
				for _, pack := range packs {
					marker := " "
					if pack.Timestamp == preferred.Timestamp {
						marker = "*"
					}
					fmt.Printf("%s %s  (%d games)\n", marker, pack.Timestamp, len(pack.Games))
				}
				return nil
			}

			entry, err := env.client.ResolveEntryPoint(env.ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("resolve entry point: %w", err)
			}
			if entry.Path == nil {
				return fmt.Errorf("game %s/%s has no playable entry point", args[0], args[1])
			}
			if env.cfg.JSON {
				return printJSON(map[string]string{
					"url":        env.client.PlayURL(*entry.Path),
					"storage":    entry.Storage,
					"cover_art":  env.client.CoverArtURL(args[0], args[1]),
					"banner_art": env.client.BannerArtURL(args[0], args[1]),
				})
			}
			fmt.Println(env.client.PlayURL(*entry.Path))
			return nil
		},
	}
	return cmd
}

func newFinishedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finished",
		Short: "List ideas the agent has completed",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			ideas, err := env.client.FinishedProjects(env.ctx)
			if err != nil {
				return fmt.Errorf("fetch finished projects: %w", err)
			}
			if env.cfg.JSON {
				return printJSON(ideas)
			}
			if len(ideas) == 0 {
				fmt.Println("Nothing finished yet.")
				return nil
			}
			for _, idea := range ideas {
				fmt.Printf("#%d  %s\n", idea.ID, idea.Prompt)
			}
			return nil
		},
	}
}
