package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agripath-app/agripath/internal/daemon"
)

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of entries to show")
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(historyCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull the authoritative profile from the remote service",
	Long: `Force a reconciliation: overwrite local name, points, and badges
with the remote service's values. Use after marketplace redemptions or
other changes made outside this device.`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	return withDaemon(func(ctx context.Context, d *daemon.Daemon) error {
		if err := d.Engine.RefreshProfile(ctx); err != nil {
			return fmt.Errorf("refresh profile: %w", err)
		}
		p := d.Engine.Snapshot()
		fmt.Printf("Synced: %d pts, %d badge(s)\n", p.Points, len(p.Badges))
		return nil
	})
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent point activity",
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	return withDaemonOffline(func(d *daemon.Daemon) error {
		entries, err := d.DB.RecentPointsLog(historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No activity recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tDELTA\tREASON\tBALANCE")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%+d\t%s\t%d\n",
				e.Time.Format("2006-01-02 15:04"), e.Delta, e.Reason, e.Balance)
		}
		return w.Flush()
	})
}
