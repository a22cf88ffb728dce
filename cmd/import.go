package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iljabvh/firstserve/internal/importer"
	"github.com/iljabvh/firstserve/internal/ledger"
	"github.com/iljabvh/firstserve/internal/matchdata"
	"github.com/iljabvh/firstserve/internal/metrics"
	"github.com/iljabvh/firstserve/internal/model"
	"github.com/iljabvh/firstserve/internal/report"
	"github.com/iljabvh/firstserve/internal/storage"
)

var (
	importSeed        string
	importMetricsFile string
	importDryRun      bool
	importMinMatches  int
	importTop         int
)

var importCmd = &cobra.Command{
	Use:   "import <matches.csv|matches.xlsx>",
	Short: "Import match rows and store the resulting ledger",
	Long: `Read a match file (one row per match, ID, Name_1, Name_2, Result_CUR_1,
Result_CUR_2 and statistic columns suffixed _1/_2), resolve every winner and
fold the statistics into per-player running averages.

Matches that are neither two-set nor three-set are skipped. Contradicting
scorelines or tied sets abort the whole import and nothing is stored.

With --seed the import continues from the final ledger of a stored run.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importSeed, "seed", "", "continue from the ledger of this run (id prefix)")
	importCmd.Flags().StringVar(&importMetricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "import without storing the run")
	importCmd.Flags().IntVar(&importMinMatches, "min-matches", -1, "minimum matches for the summary table (default: report.minMatches)")
	importCmd.Flags().IntVar(&importTop, "top", 20, "rows in the summary table")
}

func runImport(cmd *cobra.Command, args []string) error {
	if err := requireConfig(); err != nil {
		return err
	}
	path := args[0]
	sugar := logger.Sugar()

	table, err := matchdata.Load(path)
	if err != nil {
		return fmt.Errorf("load match data: %w", err)
	}
	sugar.Infow("Loaded match data", "path", path, "rows", table.Len())

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	seed, seedRunID, err := loadSeed(db)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	imp, err := importer.New(importer.OptionsFromConfig(cfg, logger, metrics.NewImportMetrics(reg)))
	if err != nil {
		return fmt.Errorf("configure importer: %w", err)
	}

	res, err := imp.Import(seed, table)
	if err != nil {
		var me *importer.MatchError
		if errors.As(err, &me) {
			logger.Error("Import aborted", zap.Int("row", me.Index), zap.Int64("match_id", me.ID), zap.Error(me.Err))
		}
		return fmt.Errorf("import matches: %w", err)
	}

	run := model.RunSummary{
		RunID:           uuid.NewString(),
		Source:          filepath.Base(path),
		SeedRunID:       seedRunID,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		Rows:            res.Stats.Rows,
		MatchesImported: res.Stats.Imported,
		MatchesSkipped:  res.Stats.Skipped,
		Players:         res.Ledger.Len(),
	}

	if importDryRun {
		color.New(color.FgYellow).Fprintln(os.Stdout, "Dry run: nothing stored.")
	} else {
		if err := db.InsertRun(run, res.Ledger.Players(), res.Matches); err != nil {
			return fmt.Errorf("store run: %w", err)
		}
		sugar.Infow("Stored run", "run_id", run.RunID, "db", dbPath)
	}

	if importMetricsFile != "" {
		if err := metrics.WriteTextfile(importMetricsFile, reg); err != nil {
			return err
		}
	}

	minMatches := importMinMatches
	if minMatches < 0 {
		minMatches = cfg.Report.MinMatches
	}
	report.PrintRunSummary(os.Stdout, run)
	top := report.Qualified(res.Ledger.Players(), minMatches)
	if len(top) > importTop {
		top = top[:importTop]
	}
	if len(top) == 0 {
		fmt.Fprintf(os.Stdout, "No player has %d or more matches.\n", minMatches)
		return nil
	}
	report.PrintPlayerTable(os.Stdout, top, res.Ledger.Template(), "")
	return nil
}

// loadSeed returns an empty ledger, or the stored ledger of --seed.
func loadSeed(db *storage.DB) (*ledger.Ledger, string, error) {
	seed := ledger.New(cfg.Statistics.Template)
	if importSeed == "" {
		return seed, "", nil
	}
	run, err := db.GetRunByPrefix(importSeed)
	if err != nil {
		return nil, "", fmt.Errorf("query seed run: %w", err)
	}
	if run == nil {
		return nil, "", fmt.Errorf("no run found with id prefix %q", importSeed)
	}
	seed, err = db.LoadLedger(run.RunID, cfg.Statistics.Template)
	if err != nil {
		return nil, "", fmt.Errorf("load seed ledger: %w", err)
	}
	logger.Info("Seeded ledger", zap.String("run_id", run.RunID), zap.Int("players", seed.Len()))
	return seed, run.RunID, nil
}
