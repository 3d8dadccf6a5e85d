// Package main implements sitectl, the command-line client for the site API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sitekit/sitekit/pkg/config"
	"github.com/sitekit/sitekit/pkg/output"
)

var (
	// version is set at build time
	version = "0.3.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitectl",
		Short: "sitectl - command-line client for the site API",
		Long: `sitectl talks to the site's API the same way the web client does:
requests under the passthrough prefix go to the session-cookie API layer,
everything else goes straight to the backend with a bearer token.`,
		Version:      version,
		SilenceUsage: true,
	}

	addGlobalFlags(cmd.PersistentFlags())

	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newRegisterCmd())
	cmd.AddCommand(newWhoamiCmd())
	cmd.AddCommand(newSessionCmd())
	cmd.AddCommand(newVerifyCmd())
	cmd.AddCommand(newTimerCmd())
	cmd.AddCommand(newPhraseCmd())
	cmd.AddCommand(newAdminCmd())

	return cmd
}

// addGlobalFlags registers the flags shared by every subcommand.
func addGlobalFlags(fs *pflag.FlagSet) {
	fs.BoolP("verbose", "v", false, "Enable verbose logging")
	fs.String("config", config.Path(), "Path to the config file")
	fs.StringP("output", "o", string(output.FormatTable), "Output format (table, json, yaml)")
}

// renderFromCmd writes data in the format selected by --output.
func renderFromCmd(cmd *cobra.Command, data interface{}, table *output.Table) error {
	format, _ := cmd.Flags().GetString("output")
	r, err := output.New(output.Format(format))
	if err != nil {
		return err
	}
	return r.Render(cmd.OutOrStdout(), data, table)
}

// appFromCmd builds the wired client stack for one invocation.
func appFromCmd(cmd *cobra.Command) (*app, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	configPath, _ := cmd.Flags().GetString("config")
	return newApp(cmd.Context(), configPath, verbose)
}
