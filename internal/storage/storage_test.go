package storage

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/iljabvh/firstserve/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func makeRun(id, createdAt string) model.RunSummary {
	return model.RunSummary{
		RunID:           id,
		Source:          "atp.csv",
		CreatedAt:       createdAt,
		Rows:            4,
		MatchesImported: 3,
		MatchesSkipped:  1,
		Players:         2,
	}
}

// makeLedger returns the players and the single match of "A beat B".
func makeLedger() ([]model.PlayerRecord, []model.MatchRecord) {
	players := []model.PlayerRecord{
		{
			Name:          "B",
			Stats:         map[string]model.StatisticField{"FirstServePCT": {Value: 0.5, Observations: 1}, "Aces": {}},
			MatchesPlayed: 1,
		},
		{
			Name:          "A",
			Stats:         map[string]model.StatisticField{"FirstServePCT": {Value: 0.6, Observations: 1}, "Aces": {Value: 7, Observations: 1}},
			MatchesPlayed: 1,
			MatchesWon:    1,
			WinRate:       1,
		},
	}
	m := model.NewMatchRecord(42, 0, "A", "B")
	m.Winner = "A"
	m.Prematch["A"] = model.PlayerRecord{
		Name:          "A",
		Stats:         map[string]model.StatisticField{"FirstServePCT": {Value: 0.4, Observations: 3}, "Aces": {}},
		MatchesPlayed: 3,
		MatchesWon:    2,
		WinRate:       2.0 / 3.0,
	}
	m.Prematch["B"] = model.PlayerRecord{
		Name:  "B",
		Stats: map[string]model.StatisticField{"FirstServePCT": {}, "Aces": {}},
	}
	m.Postmatch["A"]["FirstServePCT"] = 0.6
	m.Postmatch["A"]["Aces"] = 7
	m.Postmatch["B"]["FirstServePCT"] = 0.5
	return players, []model.MatchRecord{m}
}

func TestInsertRunAndList(t *testing.T) {
	db := openMemDB(t)
	players, matches := makeLedger()

	if err := db.InsertRun(makeRun("run-old", "2025-01-01T00:00:00Z"), players, matches); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}
	newer := makeRun("run-new", "2025-02-01T00:00:00Z")
	newer.SeedRunID = "run-old"
	if err := db.InsertRun(newer, nil, nil); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	runs, err := db.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-new" {
		t.Errorf("expected newest run first, got %q", runs[0].RunID)
	}
	if diff := cmp.Diff(newer, runs[0]); diff != "" {
		t.Errorf("run summary mismatch (-want +got):\n%s", diff)
	}
}

func TestGetRunByPrefix(t *testing.T) {
	db := openMemDB(t)
	for _, r := range []model.RunSummary{
		makeRun("abc111", "2025-01-01T00:00:00Z"),
		makeRun("abc222", "2025-03-01T00:00:00Z"),
		makeRun("def333", "2025-02-01T00:00:00Z"),
	} {
		if err := db.InsertRun(r, nil, nil); err != nil {
			t.Fatalf("InsertRun: %v", err)
		}
	}

	tests := []struct {
		prefix string
		want   string
	}{
		{"", "abc222"},
		{"abc", "abc222"},
		{"abc1", "abc111"},
		{"def", "def333"},
	}
	for _, tt := range tests {
		got, err := db.GetRunByPrefix(tt.prefix)
		if err != nil {
			t.Fatalf("GetRunByPrefix(%q): %v", tt.prefix, err)
		}
		if got == nil || got.RunID != tt.want {
			t.Errorf("GetRunByPrefix(%q) = %v, want %s", tt.prefix, got, tt.want)
		}
	}

	none, err := db.GetRunByPrefix("zzz")
	if err != nil {
		t.Fatalf("GetRunByPrefix: %v", err)
	}
	if none != nil {
		t.Errorf("expected nil for unknown prefix, got %+v", none)
	}
}

func TestPlayersRoundTrip(t *testing.T) {
	db := openMemDB(t)
	players, matches := makeLedger()
	if err := db.InsertRun(makeRun("r1", "2025-01-01T00:00:00Z"), players, matches); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	got, err := db.GetPlayers("r1")
	if err != nil {
		t.Fatalf("GetPlayers: %v", err)
	}
	// First-seen order is preserved.
	if diff := cmp.Diff(players, got); diff != "" {
		t.Errorf("players mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchRoundTrip(t *testing.T) {
	db := openMemDB(t)
	players, matches := makeLedger()
	if err := db.InsertRun(makeRun("r1", "2025-01-01T00:00:00Z"), players, matches); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	got, err := db.GetMatch("r1", 42)
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if got == nil {
		t.Fatal("expected match 42")
	}
	if diff := cmp.Diff(matches[0], *got); diff != "" {
		t.Errorf("match mismatch (-want +got):\n%s", diff)
	}

	missing, err := db.GetMatch("r1", 7)
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown match, got %+v", missing)
	}
}

func TestGetPlayerHistory(t *testing.T) {
	db := openMemDB(t)
	players, matches := makeLedger()
	if err := db.InsertRun(makeRun("r1", "2025-01-01T00:00:00Z"), players, matches); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	history, err := db.GetPlayerHistory("r1", "B")
	if err != nil {
		t.Fatalf("GetPlayerHistory: %v", err)
	}
	want := []model.PlayerMatchEntry{{
		MatchID:     42,
		Opponent:    "A",
		Won:         false,
		Contributed: map[string]float64{"FirstServePCT": 0.5},
	}}
	if diff := cmp.Diff(want, history); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}

	winner, err := db.GetPlayerHistory("r1", "A")
	if err != nil {
		t.Fatalf("GetPlayerHistory: %v", err)
	}
	if len(winner) != 1 || !winner[0].Won || winner[0].PreMatchesPlayed != 3 {
		t.Errorf("unexpected history for A: %+v", winner)
	}
}

func TestDeleteRunCascades(t *testing.T) {
	db := openMemDB(t)
	players, matches := makeLedger()
	if err := db.InsertRun(makeRun("r1", "2025-01-01T00:00:00Z"), players, matches); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}
	if err := db.DeleteRun("r1"); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}

	for _, table := range []string{"players", "player_stats", "matches", "match_players", "match_stats"} {
		_, rows, err := db.QueryRaw("SELECT COUNT(*) FROM " + table)
		if err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if rows[0][0] != "0" {
			t.Errorf("%s: expected 0 rows after delete, got %s", table, rows[0][0])
		}
	}
}

func TestInsertIdempotency(t *testing.T) {
	db := openMemDB(t)
	players, matches := makeLedger()
	run := makeRun("r1", "2025-01-01T00:00:00Z")
	for i := 0; i < 2; i++ {
		if err := db.InsertRun(run, players, matches); err != nil {
			t.Fatalf("InsertRun #%d: %v", i+1, err)
		}
	}

	got, err := db.GetPlayers("r1")
	if err != nil {
		t.Fatalf("GetPlayers: %v", err)
	}
	if len(got) != len(players) {
		t.Errorf("expected %d players after re-insert, got %d", len(players), len(got))
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	if err := db.InsertRun(makeRun("r1", "2025-01-01T00:00:00Z"), nil, nil); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	cols, rows, err := db.QueryRaw("SELECT id, source, seed_run_id FROM runs")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if diff := cmp.Diff([]string{"id", "source", "seed_run_id"}, cols); diff != "" {
		t.Errorf("columns mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"r1", "atp.csv", ""}}, rows); diff != "" {
		t.Errorf("rows mismatch:\n%s", diff)
	}

	if _, _, err := db.QueryRaw("SELECT * FROM nope"); err == nil {
		t.Error("expected error for unknown table")
	}
}

func TestLoadLedger(t *testing.T) {
	db := openMemDB(t)
	players, matches := makeLedger()
	if err := db.InsertRun(makeRun("r1", "2025-01-01T00:00:00Z"), players, matches); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	l, err := db.LoadLedger("r1", []string{"FirstServePCT", "DoubleFaults"})
	if err != nil {
		t.Fatalf("LoadLedger: %v", err)
	}
	if l.Len() != 2 {
		t.Fatalf("expected 2 players, got %d", l.Len())
	}
	a := l.Get("A")
	want := map[string]model.StatisticField{
		"FirstServePCT": {Value: 0.6, Observations: 1},
		"DoubleFaults":  {},
	}
	if diff := cmp.Diff(want, a.Stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
	if a.MatchesWon != 1 || a.WinRate != 1 {
		t.Errorf("unexpected counters: %+v", *a)
	}
	if got := l.Players()[0].Name; got != "B" {
		t.Errorf("expected first-seen order to start with B, got %s", got)
	}
}
