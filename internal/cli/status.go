package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agripath-app/agripath/internal/daemon"
	"github.com/agripath-app/agripath/internal/domain"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the learner profile: level, points, streak, badges",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withDaemon(func(ctx context.Context, d *daemon.Daemon) error {
		d.Engine.Wait() // settle the init sync so we print reconciled numbers
		p := d.Engine.Snapshot()

		name := p.DisplayName
		if name == "" {
			name = d.Config.Profile.DefaultName
		}

		fmt.Printf("%s  (device %s)\n", name, shortID(p.DeviceID))
		if p.Account != nil {
			fmt.Printf("Account:  %s\n", p.Account.Email)
		}
		fmt.Printf("Level:    %d  (%d pts, %d to next)\n",
			domain.LevelForPoints(p.Points), p.Points, domain.PointsToNextLevel(p.Points))
		fmt.Printf("Streak:   %d day(s)\n", p.StreakDays)
		if len(p.Badges) == 0 {
			fmt.Println("Badges:   none yet — run 'agripath checkin' to get started")
		} else {
			fmt.Printf("Badges:   %s\n", strings.Join(p.Badges, ", "))
		}
		if p.SimpleMode {
			fmt.Println("Simple mode: on")
		}
		return nil
	})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
