package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session and frame commands",
	}

	cmd.AddCommand(newSessionStartCmd())
	cmd.AddCommand(newSessionListCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionEndCmd())
	cmd.AddCommand(newSessionJoinCmd())
	cmd.AddCommand(newSessionFrameCmd())
	cmd.AddCommand(newSessionUndoCmd())

	return cmd
}

func newSessionStartCmd() *cobra.Command {
	var players []string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new session",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"player_ids": players}
			var result Session

			if err := client.Post("/api/v1/sessions", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&players, "players", nil, "Participating player IDs (required)")
	_ = cmd.MarkFlagRequired("players")

	return cmd
}

func newSessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Session

			if err := client.Get("/api/v1/sessions", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <session-id>",
		Short: "Show one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session

			if err := client.Get("/api/v1/sessions/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <session-id>",
		Short: "End a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session

			if err := client.Post("/api/v1/sessions/"+url.PathEscape(args[0])+"/end", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionJoinCmd() *cobra.Command {
	var player string

	cmd := &cobra.Command{
		Use:   "join <session-id>",
		Short: "Add a participant to an active session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"player_id": player}
			var result Session

			if err := client.Post("/api/v1/sessions/"+url.PathEscape(args[0])+"/participants", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&player, "player", "", "Player ID to add (required)")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newSessionFrameCmd() *cobra.Command {
	var winner, loser, clipURL string
	var brush, clearance bool

	cmd := &cobra.Command{
		Use:   "frame <session-id>",
		Short: "Record a frame result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"winner_id": winner,
				"loser_id":  loser,
			}
			if brush {
				req["brush"] = true
			}
			if clearance {
				req["clearance"] = true
			}
			if clipURL != "" {
				req["clip_url"] = clipURL
			}
			var result RecordFrameResult

			if err := client.Post("/api/v1/sessions/"+url.PathEscape(args[0])+"/frames", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&winner, "winner", "", "Winning player ID (required)")
	cmd.Flags().StringVar(&loser, "loser", "", "Losing player ID (required)")
	cmd.Flags().BoolVar(&brush, "brush", false, "Loser never potted a ball")
	cmd.Flags().BoolVar(&clearance, "clearance", false, "Winner cleared the table in one visit")
	cmd.Flags().StringVar(&clipURL, "clip", "", "Video clip URL")
	_ = cmd.MarkFlagRequired("winner")
	_ = cmd.MarkFlagRequired("loser")

	return cmd
}

func newSessionUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo <session-id>",
		Short: "Remove the most recently recorded frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Frame

			if err := client.Delete("/api/v1/sessions/"+url.PathEscape(args[0])+"/frames/last", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
