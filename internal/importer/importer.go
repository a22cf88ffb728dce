// Package importer folds match rows into a player ledger and a match ledger.
package importer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iljabvh/firstserve/internal/config"
	"github.com/iljabvh/firstserve/internal/ledger"
	"github.com/iljabvh/firstserve/internal/matchdata"
	"github.com/iljabvh/firstserve/internal/metrics"
	"github.com/iljabvh/firstserve/internal/model"
	"github.com/iljabvh/firstserve/internal/score"
)

const defaultProgressEvery = 10000

// Options configures an Importer.
type Options struct {
	Formats       map[model.Format]bool
	Columns       []config.ColumnMapping
	ProgressEvery int
	Logger        *zap.Logger
	Metrics       *metrics.ImportMetrics
}

// OptionsFromConfig builds Options from a loaded config.
func OptionsFromConfig(cfg *config.Config, logger *zap.Logger, m *metrics.ImportMetrics) Options {
	return Options{
		Formats:       cfg.Formats(),
		Columns:       cfg.Statistics.Columns,
		ProgressEvery: cfg.Import.ProgressEvery,
		Logger:        logger,
		Metrics:       m,
	}
}

// Importer drives the per-match pipeline. It holds no ledger state between
// calls to Import.
type Importer struct {
	columns       []config.ColumnMapping
	progressEvery int
	logger        *zap.Logger
	metrics       *metrics.ImportMetrics
}

// New validates opts and returns an Importer. Both two-set and three-set
// formats must be enabled.
func New(opts Options) (*Importer, error) {
	if !opts.Formats[model.FormatTwoSets] || !opts.Formats[model.FormatThreeSets] {
		return nil, ErrFormatsNotEnabled
	}
	imp := &Importer{
		columns:       opts.Columns,
		progressEvery: opts.ProgressEvery,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
	}
	if imp.progressEvery <= 0 {
		imp.progressEvery = defaultProgressEvery
	}
	if imp.logger == nil {
		imp.logger = zap.NewNop()
	}
	if imp.metrics == nil {
		imp.metrics = metrics.NewNop()
	}
	return imp, nil
}

// Stats summarises one import run.
type Stats struct {
	Rows           int
	Imported       int
	Skipped        int
	PlayersCreated int
	ByFormat       map[model.Format]int
}

// Result is the outcome of a successful run.
type Result struct {
	Ledger  *ledger.Ledger
	Matches []model.MatchRecord
	Stats   Stats
}

// Import processes every row of table in order against a copy of seed. seed
// is never modified. Any fatal row error aborts the run with a *MatchError and
// a nil result.
func (imp *Importer) Import(seed *ledger.Ledger, table *matchdata.Table) (*Result, error) {
	if seed == nil {
		return nil, ErrNilSeed
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	imp.warnMissingColumns(seed, table)

	res := &Result{
		Ledger: seed.Clone(),
		Stats:  Stats{ByFormat: make(map[model.Format]int)},
	}
	seen := make(map[int64]int, table.Len())

	for row := 0; row < table.Len(); row++ {
		res.Stats.Rows++
		imp.metrics.RowsSeen.Inc()
		if row > 0 && row%imp.progressEvery == 0 {
			imp.logger.Info("Importing matches", zap.Int("row", row), zap.Int("imported", res.Stats.Imported))
		}

		id, err := table.Int(matchdata.ColID, row)
		if err != nil {
			return nil, &MatchError{Index: row, Err: err}
		}
		if first, dup := seen[id]; dup {
			return nil, &MatchError{Index: row, ID: id, Err: fmt.Errorf("%w: first at row %d", ErrDuplicateMatchID, first)}
		}
		seen[id] = row
		rec, imported, err := imp.importRow(res, table, row, id)
		if err != nil {
			return nil, &MatchError{Index: row, ID: id, Err: err}
		}
		if !imported {
			res.Stats.Skipped++
			continue
		}
		res.Matches = append(res.Matches, rec)
		res.Stats.Imported++
	}

	imp.metrics.LedgerPlayers.Set(float64(res.Ledger.Len()))
	imp.logger.Info("Import finished",
		zap.Int("rows", res.Stats.Rows),
		zap.Int("imported", res.Stats.Imported),
		zap.Int("skipped", res.Stats.Skipped),
		zap.Int("players_created", res.Stats.PlayersCreated),
		zap.Int("players", res.Ledger.Len()),
	)
	return res, nil
}

// importRow runs one row through the pipeline. It returns imported=false for
// rows skipped because of their format.
func (imp *Importer) importRow(res *Result, table *matchdata.Table, row int, id int64) (model.MatchRecord, bool, error) {
	player1, _ := table.Value(matchdata.ColName1, row)
	player2, _ := table.Value(matchdata.ColName2, row)
	result1, _ := table.Value(matchdata.ColResult1, row)
	result2, _ := table.Value(matchdata.ColResult2, row)

	sets := [2][]string{
		model.Primary:   score.SplitSets(result1),
		model.Secondary: score.SplitSets(result2),
	}
	format := score.ClassifyFormat(sets)
	if format == model.FormatUnsupported {
		reason := metrics.ReasonUnsupportedFormat
		imp.metrics.MatchesSkipped.WithLabelValues(reason).Inc()
		imp.logger.Debug("Skipping match",
			zap.Int64("match_id", id),
			zap.Int("row", row),
			zap.String("reason", reason),
			zap.Int("sets_primary", len(sets[model.Primary])),
			zap.Int("sets_secondary", len(sets[model.Secondary])),
		)
		return model.MatchRecord{}, false, nil
	}

	winner, loser, err := score.ResolveSets(format, sets, player1, player2)
	if err != nil {
		return model.MatchRecord{}, false, err
	}

	rec := model.NewMatchRecord(id, row, player1, player2)
	l := res.Ledger

	for _, p := range []string{winner, loser} {
		live, created := l.GetOrCreate(p)
		if created {
			res.Stats.PlayersCreated++
			imp.metrics.PlayersCreated.Inc()
		}
		rec.Prematch[p] = live.Clone()
	}

	if err := l.RecordMatchResult(loser, false); err != nil {
		return model.MatchRecord{}, false, err
	}
	if err := l.RecordMatchResult(winner, true); err != nil {
		return model.MatchRecord{}, false, err
	}

	for _, p := range []string{winner, loser} {
		if err := imp.applyStatistics(l, &rec, table, row, p, player1, player2); err != nil {
			return model.MatchRecord{}, false, err
		}
	}

	rec.Winner = winner
	res.Stats.ByFormat[format]++
	imp.metrics.MatchesImported.WithLabelValues(format.String()).Inc()
	return rec, true, nil
}

// applyStatistics folds every configured column for player and mirrors the
// raw values into the match record.
func (imp *Importer) applyStatistics(l *ledger.Ledger, rec *model.MatchRecord, table *matchdata.Table, row int, player, player1, player2 string) error {
	slot, err := slotFor(player, player1, player2)
	if err != nil {
		return err
	}
	for _, c := range imp.columns {
		if !l.Tracks(c.Stat) {
			continue
		}
		v, ok, err := table.FloatCell(c.Source+slot, row)
		if err != nil {
			imp.metrics.MalformedValues.WithLabelValues(c.Stat).Inc()
			imp.logger.Debug("Treating malformed statistic as missing",
				zap.String("player", player),
				zap.String("stat", c.Stat),
				zap.Error(err),
			)
		}
		applied, err := l.ApplyStatistic(player, c.Stat, v, ok)
		if err != nil {
			return err
		}
		if applied {
			rec.Postmatch[player][c.Stat] = v
			imp.metrics.StatObservations.WithLabelValues(c.Stat).Inc()
		}
	}
	return nil
}

// slotFor returns the column suffix under which player appears in this row.
func slotFor(player, player1, player2 string) (string, error) {
	switch player {
	case player1:
		return "1", nil
	case player2:
		return "2", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPlayerKey, player)
	}
}

func (imp *Importer) warnMissingColumns(l *ledger.Ledger, table *matchdata.Table) {
	for _, c := range imp.columns {
		if !l.Tracks(c.Stat) {
			imp.logger.Debug("Column maps to an untracked statistic", zap.String("source", c.Source), zap.String("stat", c.Stat))
			continue
		}
		for _, slot := range []string{"1", "2"} {
			if !table.Has(c.Source + slot) {
				imp.logger.Warn("Statistic column missing, values treated as absent",
					zap.String("column", c.Source+slot),
					zap.String("stat", c.Stat),
				)
			}
		}
	}
}

// IsFatal reports whether err aborted a run because of bad match data.
func IsFatal(err error) bool {
	var me *MatchError
	return errors.As(err, &me)
}
