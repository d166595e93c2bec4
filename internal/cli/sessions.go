package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pulse-labs/pulse/internal/daemon"
)

func init() {
	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 20, "Number of sessions to show")
	rootCmd.AddCommand(sessionsCmd)
}

var sessionsLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List your recent intervals",
	RunE:  runSessions,
}

func runSessions(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	sessions, err := d.DB.ListSessions(d.Config.Account.ID, sessionsLimit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions yet. Run 'pulse start' to begin one.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tMINUTES\tSTATE\tPOINTS\tSTARTED")
	for _, s := range sessions {
		state := "open"
		if s.Completed {
			state = "completed"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%s\n",
			s.ID, s.Kind, s.DurationMin, state, s.PointsEarned,
			s.StartedAt.Format("2006-01-02 15:04"),
		)
	}
	return w.Flush()
}
