package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agripath-app/agripath/internal/daemon"
)

func init() {
	registerCmd.Flags().StringVar(&registerFullName, "name", "", "Full name for the new account")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

var registerFullName string

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in and link this device to the account",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	password, err := promptPassword()
	if err != nil {
		return err
	}
	return withDaemon(func(ctx context.Context, d *daemon.Daemon) error {
		if err := d.Auth.Login(ctx, args[0], password); err != nil {
			return err
		}
		d.Engine.Wait()
		fmt.Printf("Signed in as %s.\n", args[0])
		return nil
	})
}

var registerCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Create an account and link this device",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegister,
}

func runRegister(cmd *cobra.Command, args []string) error {
	password, err := promptPassword()
	if err != nil {
		return err
	}
	return withDaemon(func(ctx context.Context, d *daemon.Daemon) error {
		if err := d.Auth.Register(ctx, args[0], password, registerFullName); err != nil {
			return err
		}
		d.Engine.Wait()
		fmt.Printf("Registered and signed in as %s.\n", args[0])
		return nil
	})
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out (keeps device-keyed points and badges)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(func(ctx context.Context, d *daemon.Daemon) error {
			if err := d.Auth.Logout(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemonOffline(func(d *daemon.Daemon) error {
			acct, err := d.Auth.CurrentAccount(context.Background())
			if err != nil {
				fmt.Println("Not signed in.")
				return nil
			}
			if acct.FullName != "" {
				fmt.Printf("%s <%s>\n", acct.FullName, acct.Email)
			} else {
				fmt.Println(acct.Email)
			}
			return nil
		})
	},
}

// promptPassword reads a password from stdin. Plain read — the CLI is a
// support tool, not the primary auth surface.
func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
