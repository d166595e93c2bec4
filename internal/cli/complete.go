package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulse-labs/pulse/internal/daemon"
)

func init() {
	rootCmd.AddCommand(completeCmd)
}

var completeCmd = &cobra.Command{
	Use:   "complete <session-id>",
	Short: "Complete an open interval and collect points",
	Args:  cobra.ExactArgs(1),
	RunE:  runComplete,
}

func runComplete(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	res, err := d.Sessions.Complete(args[0], d.Config.Account.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Completed %s interval: +%d points\n", res.Session.Kind, res.Session.PointsEarned)
	fmt.Printf("  Points:  %d\n", res.Account.Points)
	fmt.Printf("  Level:   %d\n", res.Account.Level)
	fmt.Printf("  Streak:  %d day(s)\n", res.Account.Streak)
	return nil
}
