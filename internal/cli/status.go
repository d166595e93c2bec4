package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pulse-labs/pulse/internal/app/scoring"
	"github.com/pulse-labs/pulse/internal/daemon"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show your points, level and streak",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	acct, err := d.DB.GetAccount(d.Config.Account.ID)
	if err != nil {
		return err
	}

	pct := scoring.LevelProgressPercent(acct.Points, acct.Level)
	next := scoring.PointsThresholdForLevel(acct.Level)

	fmt.Printf("Level %d  (%d points)\n", acct.Level, acct.Points)
	fmt.Printf("  [%s] %d%% to level %d (at %d points)\n",
		progressBar(pct, 20), pct, acct.Level+1, next)
	fmt.Printf("  Streak: %d day(s)\n", acct.Streak)
	if !acct.LastCompleted.IsZero() {
		fmt.Printf("  Last completed: %s\n", acct.LastCompleted.Format("2006-01-02 15:04"))
	}
	return nil
}

// progressBar renders pct as a fixed-width bar of # and - runes.
func progressBar(pct, width int) string {
	filled := pct * width / 100
	return strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
}
