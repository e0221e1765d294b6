// Package cli implements the AgriPath command-line interface using Cobra.
// Each subcommand maps to one engine operation (checkin, complete, sync,
// etc.) so support staff and scripts can drive the profile without the
// web UI.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agripath-app/agripath/internal/daemon"
)

var rootCmd = &cobra.Command{
	Use:   "agripath",
	Short: "AgriPath — companion engine for the farmer learning platform",
	Long: `AgriPath keeps the device-keyed learner profile: points, badges,
streaks, and the daily check-in. State lives locally for instant reads
and syncs opportunistically with the remote profile service.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// withDaemon runs fn against a fully started daemon (snapshot loaded,
// session resumed, streak ticked) and drains syncs before returning.
func withDaemon(fn func(ctx context.Context, d *daemon.Daemon) error) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		return err
	}
	return fn(ctx, d)
}

// withDaemonOffline runs fn without session start — for purely local
// reads that should not touch the network.
func withDaemonOffline(fn func(d *daemon.Daemon) error) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()
	return fn(d)
}
