package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImportMetrics_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewImportMetrics(reg)

	m.RowsSeen.Add(3)
	m.MatchesImported.WithLabelValues("two-set").Inc()
	m.MatchesSkipped.WithLabelValues(ReasonUnsupportedFormat).Inc()
	m.LedgerPlayers.Set(2)

	n, err := testutil.GatherAndCount(reg,
		"firstserve_import_rows_total",
		"firstserve_import_matches_total",
		"firstserve_import_matches_skipped_total",
		"firstserve_ledger_players",
	)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RowsSeen))
}

func TestNewImportMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewImportMetrics(reg)
	assert.Panics(t, func() { NewImportMetrics(reg) })
}

func TestNewNop_Independent(t *testing.T) {
	a, b := NewNop(), NewNop()
	a.RowsSeen.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RowsSeen))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewImportMetrics(reg)
	m.PlayersCreated.Add(5)

	path := filepath.Join(t.TempDir(), "firstserve.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "firstserve_import_players_created_total 5")
}
