package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tropicaldog17/engage/internal/app"
	"github.com/tropicaldog17/engage/internal/models"
	"github.com/tropicaldog17/engage/internal/services"
)

func NewDrainCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "drain",
		Short: "Execute due scheduled actions once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				report, err := a.Worker.Drain(ctx)
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), opts, report, func(w io.Writer) {
					printDrainReport(w, report)
				})
			})
		},
	}
}

func printDrainReport(w io.Writer, r *services.DrainReport) {
	fmt.Fprintf(w, "claimed %d, sent %d, failed %d, abandoned %d, errors %d\n",
		r.Claimed, r.Sent, r.Failed, r.Abandoned, r.Errors)
}

func NewSnapshotCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Recompute the leaderboard snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				n, err := a.Ranking.RefreshSnapshot(ctx)
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), opts, map[string]int{"rows": n}, func(w io.Writer) {
					fmt.Fprintf(w, "snapshot refreshed: %d rows\n", n)
				})
			})
		},
	}
}

func NewLeaderboardCommand(opts *RootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the current leaderboard snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				rows, err := a.Ranking.Leaderboard(ctx, limit)
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), opts, rows, func(w io.Writer) {
					for _, r := range rows {
						fmt.Fprintf(w, "%3d  %-24s %8d  %s%%\n", r.Rank, r.UserID, r.Balance, r.SharePercent.StringFixed(2))
					}
				})
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "rows to print (max 100)")
	return cmd
}

func NewCancelCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <action-id>",
		Short: "Cancel a pending scheduled action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if err := a.Queue.Cancel(ctx, args[0]); err != nil {
					return err
				}
				result := map[string]string{"id": args[0], "status": string(models.StatusCancelled)}
				return output(cmd.OutOrStdout(), opts, result, func(w io.Writer) {
					fmt.Fprintf(w, "cancelled %s\n", args[0])
				})
			})
		},
	}
}

func NewReenqueueCommand(opts *RootOptions) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "reenqueue <action-id>",
		Short: "Schedule a copy of a failed or cancelled action",
		Long: `Create a new pending action from a failed or cancelled one. The original
keeps its terminal state and the copy records it in reenqueued_from.

Examples:
  engagectl reenqueue 6f1c...
  engagectl reenqueue 6f1c... --at 2024-05-01T09:00:00Z`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var when time.Time
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at %q: %w", at, err)
				}
				when = t
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				created, err := a.Queue.Reenqueue(ctx, args[0], when)
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), opts, created, func(w io.Writer) {
					fmt.Fprintf(w, "reenqueued %s as %s for %s\n", args[0], created.ID, created.ScheduledFor.Format(time.RFC3339))
				})
			})
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "RFC3339 time to run at (default now)")
	return cmd
}

func NewResetBalanceCommand(opts *RootOptions) *cobra.Command {
	var (
		target int64
		ref    string
	)
	cmd := &cobra.Command{
		Use:   "reset-balance <user-id>",
		Short: "Set a user's coin balance to an absolute value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				res, err := a.Ledger.ResetBalance(ctx, &models.ResetBalance{UserID: args[0], Target: target, OperatorRef: ref})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), opts, res, func(w io.Writer) {
					if !res.Applied {
						fmt.Fprintf(w, "%s already at %d\n", res.UserID, res.Balance)
						return
					}
					fmt.Fprintf(w, "%s balance now %d\n", res.UserID, res.Balance)
				})
			})
		},
	}
	cmd.Flags().Int64Var(&target, "target", 0, "balance to set")
	cmd.Flags().StringVar(&ref, "ref", "", "operator reference recorded in the ledger (required)")
	_ = cmd.MarkFlagRequired("ref")
	return cmd
}
