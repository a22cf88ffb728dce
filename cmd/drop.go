package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dropForce bool
	dropRun   string
)

// dropCmd deletes one stored run, or the whole ledger database.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete a stored run or the whole ledger database",
	Long: "Without --run, permanently delete the SQLite ledger database. All imported runs will be lost.\n" +
		"With --run, delete only that run and its match ledger.",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{configOptional: "true"},
	RunE:        runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().StringVar(&dropRun, "run", "", "delete only the run with this id prefix")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if dropRun != "" {
		return dropOneRun()
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil {
			if os.IsNotExist(err) {
				if p == dbPath {
					fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
					return nil
				}
				continue
			}
			return fmt.Errorf("remove database: %w", err)
		}
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func dropOneRun() error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.GetRunByPrefix(dropRun)
	if err != nil {
		return fmt.Errorf("query run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("no run found with id prefix %q", dropRun)
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete run %s (%s, %d matches).\n",
			run.RunID, run.Source, run.MatchesImported)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := db.DeleteRun(run.RunID); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted run: %s\n", run.RunID)
	return nil
}
