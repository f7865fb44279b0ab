package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newAchievementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "Achievement commands",
	}

	cmd.AddCommand(newAchievementsListCmd())
	cmd.AddCommand(newAchievementsPlayerCmd())

	return cmd
}

func newAchievementsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the achievement catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Achievement

			if err := client.Get("/api/v1/achievements", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAchievementsPlayerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "player <player-id>",
		Short: "Show a player's unlocked achievements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Unlock

			if err := client.Get("/api/v1/players/"+url.PathEscape(args[0])+"/achievements", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
