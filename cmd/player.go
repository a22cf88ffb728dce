package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iljabvh/firstserve/internal/model"
	"github.com/iljabvh/firstserve/internal/report"
)

var playerCmd = &cobra.Command{
	Use:   "player <name>",
	Short: "Match-by-match history of one player",
	Long: `Print the player's final ledger entry followed by every match they played
in import order: the opponent, the result, their record before the match and
the statistic values the match contributed.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{configOptional: "true"},
	RunE:        runPlayer,
}

func init() {
	addRunFlag(playerCmd)
}

func runPlayer(cmd *cobra.Command, args []string) error {
	name := args[0]
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
	var rec *model.PlayerRecord
	for i := range players {
		if players[i].Name == name {
			rec = &players[i]
			break
		}
	}
	if rec == nil {
		return fmt.Errorf("player %q not found in run %s", name, run.RunID)
	}

	history, err := db.GetPlayerHistory(run.RunID, name)
	if err != nil {
		return fmt.Errorf("query history: %w", err)
	}

	template := statColumns(players)
	report.PrintPlayerTable(os.Stdout, []model.PlayerRecord{*rec}, template, name)
	report.PrintPlayerHistory(os.Stdout, name, history, template)
	return nil
}
