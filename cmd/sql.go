package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the ledger database",
	Long: `Run an arbitrary SQL query against the ledger database and print results as a table.

Schema overview:
  runs(id, source, seed_run_id, created_at, rows_read, matches_imported, matches_skipped, player_count)
  players(run_id, name, seen_order, matches_played, matches_won, win_rate)
  player_stats(run_id, name, stat, value, observations)
  matches(run_id, match_id, row_index, player1, player2, winner)
  match_players(run_id, match_id, name, pre_matches_played, pre_matches_won, pre_win_rate)
  match_stats(run_id, match_id, name, phase, stat, value, observations)

phase is 'pre' (running average before the match) or 'post' (value the match contributed).`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{configOptional: "true"},
	RunE:        runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
