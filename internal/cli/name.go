package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agripath-app/agripath/internal/daemon"
)

func init() {
	rootCmd.AddCommand(nameCmd)
	rootCmd.AddCommand(simpleCmd)
}

var nameCmd = &cobra.Command{
	Use:   "name <display name>",
	Short: "Set the profile display name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(func(ctx context.Context, d *daemon.Daemon) error {
			if err := d.Engine.SetDisplayName(args[0]); err != nil {
				return err
			}
			d.Engine.Wait()
			fmt.Printf("Display name set to %q.\n", args[0])
			return nil
		})
	},
}

var simpleCmd = &cobra.Command{
	Use:   "simple <on|off>",
	Short: "Toggle the simplified UI preference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var on bool
		switch args[0] {
		case "on":
			on = true
		case "off":
			on = false
		default:
			return fmt.Errorf("expected 'on' or 'off', got %q", args[0])
		}
		// Preference-only write: no session start, no snapshot touch.
		return withDaemonOffline(func(d *daemon.Daemon) error {
			if err := d.DB.SetSimpleMode(on); err != nil {
				return err
			}
			fmt.Printf("Simple mode %s.\n", args[0])
			return nil
		})
	},
}
