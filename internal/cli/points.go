package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agripath-app/agripath/internal/daemon"
	"github.com/agripath-app/agripath/internal/domain"
)

func init() {
	pointsCmd.Flags().StringVar(&pointsReason, "reason", "Activity", "Reason recorded with the award")
	rootCmd.AddCommand(pointsCmd)
	rootCmd.AddCommand(badgeCmd)
}

var pointsReason string

var pointsCmd = &cobra.Command{
	Use:   "points <delta>",
	Short: "Add points to the profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runPoints,
}

func runPoints(cmd *cobra.Command, args []string) error {
	delta, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid delta %q: %w", args[0], err)
	}
	return withDaemon(func(ctx context.Context, d *daemon.Daemon) error {
		if err := d.Engine.AddPoints(delta, pointsReason); err != nil {
			return err
		}
		d.Engine.Wait()
		p := d.Engine.Snapshot()
		fmt.Printf("+%d pts (%s) — total %d, level %d\n",
			delta, pointsReason, p.Points, domain.LevelForPoints(p.Points))
		return nil
	})
}

var badgeCmd = &cobra.Command{
	Use:   "badge <name>",
	Short: "Award a badge explicitly (module/special/market badges)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(func(ctx context.Context, d *daemon.Daemon) error {
			if err := d.Engine.AwardBadge(args[0]); err != nil {
				return err
			}
			d.Engine.Wait()
			fmt.Printf("Badge %q awarded.\n", args[0])
			return nil
		})
	},
}
