package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agripath-app/agripath/internal/daemon"
	"github.com/agripath-app/agripath/internal/domain"
)

func init() {
	completeCmd.Flags().IntVar(&completePoints, "points", 20, "Points awarded for the module")
	rootCmd.AddCommand(completeCmd)
}

var completePoints int

var completeCmd = &cobra.Command{
	Use:   "complete <module name>",
	Short: "Record a finished learning module",
	Long: `Record a finished learning module: awards its points and the
module badge. Badge and point totals reconcile against the remote
profile service in the background.`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

func runComplete(cmd *cobra.Command, args []string) error {
	module := args[0]
	return withDaemon(func(ctx context.Context, d *daemon.Daemon) error {
		if err := d.Engine.AddPoints(completePoints, "Module: "+module); err != nil {
			return err
		}
		if err := d.Engine.AwardBadge(domain.BadgeModulePrefix + module); err != nil {
			return err
		}
		d.Engine.Wait()
		p := d.Engine.Snapshot()
		fmt.Printf("Module %q complete: +%d pts (total %d, level %d)\n",
			module, completePoints, p.Points, domain.LevelForPoints(p.Points))
		return nil
	})
}
