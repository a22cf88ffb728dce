package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iljabvh/firstserve/internal/model"
	"github.com/iljabvh/firstserve/internal/report"
)

var matchCmd = &cobra.Command{
	Use:   "match <match-id>",
	Short: "Show the ledger entry of one imported match",
	Long: `Print both players' state before the match (counters and running averages)
and the statistic values the match contributed to each of them.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{configOptional: "true"},
	RunE:        runMatch,
}

func init() {
	addRunFlag(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	matchID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid match id: %w", err)
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := resolveRun(db)
	if err != nil {
		return err
	}
	m, err := db.GetMatch(run.RunID, matchID)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if m == nil {
		return fmt.Errorf("match %d not found in run %s", matchID, run.RunID)
	}

	var pre []model.PlayerRecord
	for _, p := range m.Prematch {
		pre = append(pre, p)
	}
	report.PrintMatchRecord(os.Stdout, *m, statColumns(pre))
	return nil
}
