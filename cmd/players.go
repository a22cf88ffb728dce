package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iljabvh/firstserve/internal/report"
)

var (
	playersMinMatches int
	playersStat       string
	playersMinObs     int
	playersFocus      string
	playersTop        int
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Show the final player ledger of a run",
	Long: `Print every player of a run with at least --min-matches matches, ranked by
win rate. With --stat, rank by one running average instead, hiding players
with fewer than --min-observations observations of it.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{configOptional: "true"},
	RunE:        runPlayers,
}

func init() {
	addRunFlag(playersCmd)
	playersCmd.Flags().IntVar(&playersMinMatches, "min-matches", -1, "minimum matches played (default: report.minMatches)")
	playersCmd.Flags().StringVar(&playersStat, "stat", "", "rank by this statistic instead of win rate")
	playersCmd.Flags().IntVar(&playersMinObs, "min-observations", -1, "minimum observations for --stat (default: report.minObservations)")
	playersCmd.Flags().StringVar(&playersFocus, "focus", "", "highlight this player")
	playersCmd.Flags().IntVar(&playersTop, "top", 0, "only show the first N rows (0 = all)")
}

func runPlayers(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := resolveRun(db)
	if err != nil {
		return err
	}
	players, err := db.GetPlayers(run.RunID)
	if err != nil {
		return fmt.Errorf("load players: %w", err)
	}
	report.PrintRunSummary(os.Stdout, *run)

	if playersStat != "" {
		minObs := playersMinObs
		if minObs < 0 {
			minObs = minObservationsDefault()
		}
		report.PrintStatTable(os.Stdout, players, playersStat, minObs)
		return nil
	}

	minMatches := playersMinMatches
	if minMatches < 0 {
		minMatches = minMatchesDefault()
	}
	qualified := report.Qualified(players, minMatches)
	if playersTop > 0 && len(qualified) > playersTop {
		qualified = qualified[:playersTop]
	}
	if len(qualified) == 0 {
		fmt.Fprintf(os.Stdout, "No player has %d or more matches.\n", minMatches)
		return nil
	}
	report.PrintPlayerTable(os.Stdout, qualified, statColumns(players), playersFocus)
	return nil
}
