package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulse-labs/pulse/internal/daemon"
	"github.com/pulse-labs/pulse/internal/domain"
)

func init() {
	startCmd.Flags().IntVarP(&startMinutes, "minutes", "m", 0, "Interval length in minutes (default from config)")
	startCmd.Flags().StringVarP(&startKind, "kind", "k", "work", "Interval kind: work, break or long_break")
	startCmd.Flags().StringVarP(&startTask, "task", "t", "", "Linked task id")
	rootCmd.AddCommand(startCmd)
}

var (
	startMinutes int
	startKind    string
	startTask    string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a focus or break interval",
	RunE:  runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	kind := domain.Kind(startKind)
	minutes := startMinutes
	if minutes == 0 {
		switch kind {
		case domain.KindBreak:
			minutes = d.Config.Timer.BreakMinutes
		case domain.KindLongBreak:
			minutes = d.Config.Timer.LongBreakMinutes
		default:
			minutes = d.Config.Timer.WorkMinutes
		}
	}

	sess, err := d.Sessions.Start(d.Config.Account.ID, kind, minutes, startTask)
	if err != nil {
		return err
	}

	acct, err := d.DB.GetAccount(d.Config.Account.ID)
	if err != nil {
		return err
	}
	preview, _ := d.Sessions.Preview(minutes, kind, acct.Streak)

	fmt.Printf("Started %d-minute %s interval.\n", minutes, kind)
	fmt.Printf("  Session:  %s\n", sess.ID)
	if startTask != "" {
		fmt.Printf("  Task:     %s\n", startTask)
	}
	fmt.Printf("  Worth:    %d points at your current streak\n", preview)
	fmt.Printf("\nFinish with: pulse complete %s\n", sess.ID)
	return nil
}
