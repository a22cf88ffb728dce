package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/iljabvh/firstserve/internal/model"
	"github.com/iljabvh/firstserve/internal/storage"
)

// runPrefix is shared by every command that reads a stored run.
var runPrefix string

func addRunFlag(c *cobra.Command) {
	c.Flags().StringVar(&runPrefix, "run", "", "run id prefix (default: newest run)")
}

// resolveRun finds the run selected by --run, defaulting to the newest one.
func resolveRun(db *storage.DB) (*model.RunSummary, error) {
	run, err := db.GetRunByPrefix(runPrefix)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	if run == nil {
		if runPrefix == "" {
			return nil, fmt.Errorf("no runs stored yet; run 'firstserve import <matches.csv>' first")
		}
		return nil, fmt.Errorf("no run found with id prefix %q", runPrefix)
	}
	return run, nil
}

// statColumns returns the configured template, or the sorted union of the
// statistics stored for players when no config was loaded.
func statColumns(players []model.PlayerRecord) []string {
	if cfg != nil {
		return cfg.Statistics.Template
	}
	seen := make(map[string]bool)
	var out []string
	for _, p := range players {
		for s := range p.Stats {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	sort.Strings(out)
	return out
}

func minMatchesDefault() int {
	if cfg != nil {
		return cfg.Report.MinMatches
	}
	return 0
}

func minObservationsDefault() int {
	if cfg != nil {
		return cfg.Report.MinObservations
	}
	return 0
}
