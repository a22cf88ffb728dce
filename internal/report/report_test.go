package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iljabvh/firstserve/internal/model"
)

func makePlayer(name string, played, won int, serve float64, obs int) model.PlayerRecord {
	p := model.NewPlayerRecord(name, []string{"FirstServePCT"})
	p.MatchesPlayed = played
	p.MatchesWon = won
	if played > 0 {
		p.WinRate = float64(won) / float64(played)
	}
	p.Stats["FirstServePCT"] = model.StatisticField{Value: serve, Observations: obs}
	return p
}

func TestQualified(t *testing.T) {
	players := []model.PlayerRecord{
		makePlayer("Low", 10, 3, 0.6, 10),
		makePlayer("Few", 2, 2, 0.7, 2),
		makePlayer("High", 10, 8, 0.6, 10),
		makePlayer("Tied", 20, 16, 0.6, 20),
		makePlayer("None", 0, 0, 0, 0),
	}
	got := Qualified(players, 5)

	var names []string
	for _, p := range got {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Tied", "High", "Low"}, names)
	assert.Len(t, Qualified(players, 0), 4, "players without matches have no win rate")
}

func TestPrintPlayerTable(t *testing.T) {
	var buf bytes.Buffer
	players := []model.PlayerRecord{makePlayer("Alice", 10, 7, 0.65, 9), makePlayer("Bob", 4, 1, 0, 0)}
	PrintPlayerTable(&buf, players, []string{"FirstServePCT"}, "Bob")

	out := buf.String()
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "70.0%")
	assert.Contains(t, out, "0.650 (9)")
	assert.Contains(t, out, "—")
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Bob") {
			assert.Contains(t, line, ">")
		}
	}
}

func TestPrintStatTable(t *testing.T) {
	var buf bytes.Buffer
	players := []model.PlayerRecord{
		makePlayer("Alice", 10, 7, 0.65, 60),
		makePlayer("Bob", 10, 7, 0.72, 25),
		makePlayer("Carol", 10, 7, 0.90, 3),
	}
	PrintStatTable(&buf, players, "FirstServePCT", 20)

	out := buf.String()
	assert.NotContains(t, out, "Carol")
	assert.Contains(t, out, "LOW")
	assert.Contains(t, out, "OK")
	assert.Less(t, strings.Index(out, "Bob"), strings.Index(out, "Alice"))
}

func TestPrintMatchRecord(t *testing.T) {
	m := model.NewMatchRecord(42, 3, "Alice", "Bob")
	m.Winner = "Alice"
	m.Prematch["Alice"] = makePlayer("Alice", 4, 3, 0.6, 4)
	m.Prematch["Bob"] = makePlayer("Bob", 0, 0, 0, 0)
	m.Postmatch["Alice"]["FirstServePCT"] = 0.71

	var buf bytes.Buffer
	PrintMatchRecord(&buf, m, []string{"FirstServePCT"})

	out := buf.String()
	assert.Contains(t, out, "Match 42 (row 3): Alice vs Bob")
	assert.Contains(t, out, "Winner: Alice")
	assert.Contains(t, out, "0.710")
	assert.Contains(t, out, "75.0%")
}

func TestPrintPlayerHistory(t *testing.T) {
	entries := []model.PlayerMatchEntry{
		{MatchID: 1, Opponent: "Bob", Won: true, Contributed: map[string]float64{"FirstServePCT": 0.6}},
		{MatchID: 2, Opponent: "Carol", Won: false, PreMatchesPlayed: 1, PreWinRate: 1},
	}
	var buf bytes.Buffer
	PrintPlayerHistory(&buf, "Alice", entries, []string{"FirstServePCT"})

	out := buf.String()
	assert.Contains(t, out, "Alice: 2 matches")
	assert.Contains(t, out, "Carol")
	assert.Contains(t, out, "100.0%")
}

func TestPrintRunList(t *testing.T) {
	var buf bytes.Buffer
	PrintRunList(&buf, []model.RunSummary{
		{RunID: "0123456789abcdef", Source: "atp.csv", CreatedAt: "2025-01-01T00:00:00Z", SeedRunID: "fedcba9876543210"},
	})
	out := buf.String()
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789abcdef")
	assert.Contains(t, out, "fedcba98")
}

func TestWilsonCI(t *testing.T) {
	lo, hi := wilsonCI(0, 0)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)

	lo, hi = wilsonCI(50, 100)
	assert.InDelta(t, 0.5, (lo+hi)/2, 1e-9)
	assert.InDelta(t, 0.404, lo, 1e-3)

	lo, hi = wilsonCI(10, 10)
	assert.Less(t, lo, 1.0)
	assert.InDelta(t, 1.0, hi, 1e-9)
}

func TestSampleFlag(t *testing.T) {
	assert.Equal(t, "VERY_LOW", sampleFlag(19))
	assert.Equal(t, "LOW", sampleFlag(20))
	assert.Equal(t, "OK", sampleFlag(50))
}
