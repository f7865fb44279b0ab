package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Statistics commands",
	}

	cmd.AddCommand(newStatsLeaderboardCmd())
	cmd.AddCommand(newStatsPlayerCmd())
	cmd.AddCommand(newStatsFormCmd())

	return cmd
}

func newStatsLeaderboardCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			if from != "" {
				params.Set("from", from)
			}
			if to != "" {
				params.Set("to", to)
			}
			path := "/api/v1/stats/leaderboard"
			if len(params) > 0 {
				path += "?" + params.Encode()
			}
			var result []LeaderboardEntry

			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Window start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&to, "to", "", "Window end date (YYYY-MM-DD, inclusive)")

	return cmd
}

func newStatsPlayerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "player <player-id>",
		Short: "Show a player's career record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlayerStats

			if err := client.Get("/api/v1/stats/players/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newStatsFormCmd() *cobra.Command {
	var sessions int

	cmd := &cobra.Command{
		Use:   "form <player-id>",
		Short: "Show a player's recent form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/stats/players/" + url.PathEscape(args[0]) + "/form"
			if sessions > 0 {
				path += fmt.Sprintf("?sessions=%d", sessions)
			}
			var result []SessionForm

			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&sessions, "sessions", 0, "Number of recent sessions (default 5)")

	return cmd
}
