// Package cli implements the Pulse command-line interface using Cobra.
// Each subcommand maps to a session, task or progress operation.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "Pulse — focus intervals with levels and streaks",
	Long: `Pulse tracks timed work and break intervals, awards points for
completed ones, and keeps a daily streak and level for your account.

Run 'pulse start' to begin an interval and 'pulse complete' to finish it.`,
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
