package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agripath-app/agripath/internal/app/engine"
	"github.com/agripath-app/agripath/internal/daemon"
)

func init() {
	rootCmd.AddCommand(checkinCmd)
}

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Claim the daily check-in reward",
	Long:  `Claim today's check-in. Each calendar day admits one claim.`,
	RunE:  runCheckin,
}

func runCheckin(cmd *cobra.Command, args []string) error {
	return withDaemon(func(ctx context.Context, d *daemon.Daemon) error {
		if !d.Engine.DailyCheckIn() {
			fmt.Println("Already checked in today — come back tomorrow.")
			return nil
		}
		d.Engine.Wait()
		p := d.Engine.Snapshot()
		fmt.Printf("Checked in! +%d pts (total %d, streak %d day(s))\n",
			engine.CheckInReward, p.Points, p.StreakDays)
		return nil
	})
}
