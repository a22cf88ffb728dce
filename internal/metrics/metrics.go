// Package metrics exposes import counters for a node-exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ReasonUnsupportedFormat labels matches that are neither two-set nor three-set.
const ReasonUnsupportedFormat = "unsupported_format"

// ImportMetrics counts what a single import run did.
type ImportMetrics struct {
	RowsSeen         prometheus.Counter
	MatchesImported  *prometheus.CounterVec
	MatchesSkipped   *prometheus.CounterVec
	PlayersCreated   prometheus.Counter
	LedgerPlayers    prometheus.Gauge
	StatObservations *prometheus.CounterVec
	MalformedValues  *prometheus.CounterVec
}

// NewImportMetrics registers the import metrics on reg.
func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	f := promauto.With(reg)
	return &ImportMetrics{
		RowsSeen: f.NewCounter(prometheus.CounterOpts{
			Name: "firstserve_import_rows_total",
			Help: "Match rows read by the importer.",
		}),
		MatchesImported: f.NewCounterVec(prometheus.CounterOpts{
			Name: "firstserve_import_matches_total",
			Help: "Matches folded into the ledger, by format.",
		}, []string{"format"}),
		MatchesSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "firstserve_import_matches_skipped_total",
			Help: "Matches skipped without touching the ledger, by reason.",
		}, []string{"reason"}),
		PlayersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "firstserve_import_players_created_total",
			Help: "Players registered on first appearance.",
		}),
		LedgerPlayers: f.NewGauge(prometheus.GaugeOpts{
			Name: "firstserve_ledger_players",
			Help: "Players in the ledger after the last import.",
		}),
		StatObservations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "firstserve_import_stat_observations_total",
			Help: "Non-missing statistic values folded into running averages, by statistic.",
		}, []string{"stat"}),
		MalformedValues: f.NewCounterVec(prometheus.CounterOpts{
			Name: "firstserve_import_malformed_values_total",
			Help: "Statistic cells that were not numbers and were treated as missing, by statistic.",
		}, []string{"stat"}),
	}
}

// NewNop returns metrics registered on a throwaway registry.
func NewNop() *ImportMetrics {
	return NewImportMetrics(prometheus.NewRegistry())
}

// WriteTextfile writes every metric gathered by g to path in the text
// exposition format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
