package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/iljabvh/firstserve/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintRunSummary prints a one-line header for an import run.
func PrintRunSummary(w io.Writer, r model.RunSummary) {
	seed := "empty"
	if r.SeedRunID != "" {
		seed = shortID(r.SeedRunID)
	}
	fmt.Fprintf(w, "\nRun: %s  |  Source: %s  |  Created: %s  |  Seed: %s\n",
		shortID(r.RunID), r.Source, r.CreatedAt, seed)
	fmt.Fprintf(w, "Rows: %d  |  Imported: %d  |  Skipped: %d  |  Players: %d\n\n",
		r.Rows, r.MatchesImported, r.MatchesSkipped, r.Players)
}

// PrintRunList prints all stored runs.
func PrintRunList(w io.Writer, runs []model.RunSummary) {
	table := newTable(w)
	table.Header("RUN", "CREATED", "SOURCE", "ROWS", "IMPORTED", "SKIPPED", "PLAYERS", "SEED")
	for _, r := range runs {
		seed := "—"
		if r.SeedRunID != "" {
			seed = shortID(r.SeedRunID)
		}
		table.Append(
			shortID(r.RunID),
			r.CreatedAt,
			r.Source,
			strconv.Itoa(r.Rows),
			strconv.Itoa(r.MatchesImported),
			strconv.Itoa(r.MatchesSkipped),
			strconv.Itoa(r.Players),
			seed,
		)
	}
	table.Render()
}

// Qualified returns players with at least minMatches played, sorted by win
// rate descending, then matches played descending, then name.
func Qualified(players []model.PlayerRecord, minMatches int) []model.PlayerRecord {
	var out []model.PlayerRecord
	for _, p := range players {
		if p.MatchesPlayed >= minMatches && p.HasWinRate() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WinRate != out[j].WinRate {
			return out[i].WinRate > out[j].WinRate
		}
		if out[i].MatchesPlayed != out[j].MatchesPlayed {
			return out[i].MatchesPlayed > out[j].MatchesPlayed
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// PrintPlayerTable prints win/loss counts and every template statistic.
// If focus is non-empty, that player's row is marked with ">".
func PrintPlayerTable(w io.Writer, players []model.PlayerRecord, template []string, focus string) {
	table := newTable(w)

	header := []any{" ", "PLAYER", "M", "W", "L", "WIN%", "95% CI"}
	for _, s := range template {
		header = append(header, s)
	}
	table.Header(header...)

	for _, p := range players {
		marker := " "
		if focus != "" && p.Name == focus {
			marker = ">"
		}
		winPct, ci := "—", "—"
		if p.HasWinRate() {
			lo, hi := wilsonCI(p.MatchesWon, p.MatchesPlayed)
			winPct = fmt.Sprintf("%.1f%%", p.WinRate*100)
			ci = fmt.Sprintf("%.0f–%.0f%%", lo*100, hi*100)
		}
		row := []any{
			marker,
			p.Name,
			strconv.Itoa(p.MatchesPlayed),
			strconv.Itoa(p.MatchesWon),
			strconv.Itoa(p.MatchesLost()),
			winPct,
			ci,
		}
		for _, s := range template {
			row = append(row, formatField(p.Stats[s]))
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintStatTable ranks players by one running average, hiding players with
// fewer than minObs observations.
func PrintStatTable(w io.Writer, players []model.PlayerRecord, stat string, minObs int) {
	type entry struct {
		name string
		f    model.StatisticField
	}
	var rows []entry
	for _, p := range players {
		f, ok := p.Stats[stat]
		if !ok || f.Observations < minObs || f.Observations == 0 {
			continue
		}
		rows = append(rows, entry{p.Name, f})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].f.Value > rows[j].f.Value })

	table := newTable(w)
	table.Header("#", "PLAYER", stat, "N", "SAMPLE")
	for i, r := range rows {
		table.Append(
			strconv.Itoa(i+1),
			r.name,
			fmt.Sprintf("%.3f", r.f.Value),
			strconv.Itoa(r.f.Observations),
			sampleFlag(r.f.Observations),
		)
	}
	table.Render()
}

// PrintMatchRecord prints both players' state before a match and the values
// the match contributed.
func PrintMatchRecord(w io.Writer, m model.MatchRecord, template []string) {
	fmt.Fprintf(w, "\nMatch %d (row %d): %s vs %s  |  Winner: %s\n\n",
		m.ID, m.Index, m.Players[0], m.Players[1], m.Winner)

	table := newTable(w)
	header := []any{"PLAYER", "PHASE", "M", "WIN%"}
	for _, s := range template {
		header = append(header, s)
	}
	table.Header(header...)

	for _, name := range m.Players {
		pre := m.Prematch[name]
		winPct := "—"
		if pre.HasWinRate() {
			winPct = fmt.Sprintf("%.1f%%", pre.WinRate*100)
		}
		row := []any{name, "pre", strconv.Itoa(pre.MatchesPlayed), winPct}
		for _, s := range template {
			row = append(row, formatField(pre.Stats[s]))
		}
		table.Append(row...)

		post := m.Postmatch[name]
		row = []any{name, "match", "", ""}
		for _, s := range template {
			row = append(row, formatValue(post, s))
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintPlayerHistory prints one player's matches in import order.
func PrintPlayerHistory(w io.Writer, name string, entries []model.PlayerMatchEntry, template []string) {
	fmt.Fprintf(w, "\n%s: %d matches\n\n", name, len(entries))

	table := newTable(w)
	header := []any{"MATCH", "OPPONENT", "RESULT", "PRE_M", "PRE_WIN%"}
	for _, s := range template {
		header = append(header, s)
	}
	table.Header(header...)

	for _, e := range entries {
		result := "L"
		if e.Won {
			result = "W"
		}
		preWin := "—"
		if e.PreMatchesPlayed > 0 {
			preWin = fmt.Sprintf("%.1f%%", e.PreWinRate*100)
		}
		row := []any{
			strconv.FormatInt(e.MatchID, 10),
			e.Opponent,
			result,
			strconv.Itoa(e.PreMatchesPlayed),
			preWin,
		}
		for _, s := range template {
			row = append(row, formatValue(e.Contributed, s))
		}
		table.Append(row...)
	}
	table.Render()
}

func formatField(f model.StatisticField) string {
	if f.Observations == 0 {
		return "—"
	}
	return fmt.Sprintf("%.3f (%d)", f.Value, f.Observations)
}

func formatValue(m map[string]float64, stat string) string {
	v, ok := m[stat]
	if !ok {
		return "—"
	}
	return fmt.Sprintf("%.3f", v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func sampleFlag(n int) string {
	switch {
	case n >= 50:
		return "OK"
	case n >= 20:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

// wilsonCI computes the 95% Wilson score confidence interval for a proportion.
// Returns (lo, hi) as fractions in [0, 1].
func wilsonCI(hits, n int) (lo, hi float64) {
	if n == 0 {
		return 0, 1
	}
	z := 1.96
	p := float64(hits) / float64(n)
	nf := float64(n)
	denom := 1 + z*z/nf
	center := (p + z*z/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom
	return math.Max(0, center-half), math.Min(1, center+half)
}
