package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iljabvh/firstserve/internal/report"
)

var listCmd = &cobra.Command{
	Use:         "list",
	Short:       "List all stored import runs",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{configOptional: "true"},
	RunE:        runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns()
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "No runs stored yet. Run 'firstserve import <matches.csv>' to add one.")
		return nil
	}
	report.PrintRunList(os.Stdout, runs)
	return nil
}
