package storage

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/iljabvh/firstserve/internal/ledger"
	"github.com/iljabvh/firstserve/internal/model"
)

const (
	phasePre  = "pre"
	phasePost = "post"
)

// InsertRun stores a finished import: the run summary, the final ledger and
// every match record, in one transaction.
func (db *DB) InsertRun(run model.RunSummary, players []model.PlayerRecord, matches []model.MatchRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO runs(id, source, seed_run_id, created_at, rows_read, matches_imported, matches_skipped, player_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Source, run.SeedRunID, run.CreatedAt,
		run.Rows, run.MatchesImported, run.MatchesSkipped, run.Players,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if err := insertPlayers(tx, run.RunID, players); err != nil {
		return err
	}
	if err := insertMatches(tx, run.RunID, matches); err != nil {
		return err
	}
	return tx.Commit()
}

func insertPlayers(tx *sql.Tx, runID string, players []model.PlayerRecord) error {
	pstmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO players(run_id, name, seen_order, matches_played, matches_won, win_rate)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer pstmt.Close()

	sstmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_stats(run_id, name, stat, value, observations)
		VALUES (?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer sstmt.Close()

	for i, p := range players {
		if _, err := pstmt.Exec(runID, p.Name, i, p.MatchesPlayed, p.MatchesWon, p.WinRate); err != nil {
			return fmt.Errorf("insert player %q: %w", p.Name, err)
		}
		for _, stat := range sortedKeys(p.Stats) {
			f := p.Stats[stat]
			if _, err := sstmt.Exec(runID, p.Name, stat, f.Value, f.Observations); err != nil {
				return fmt.Errorf("insert player_stats for %q/%s: %w", p.Name, stat, err)
			}
		}
	}
	return nil
}

func insertMatches(tx *sql.Tx, runID string, matches []model.MatchRecord) error {
	mstmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO matches(run_id, match_id, row_index, player1, player2, winner)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer mstmt.Close()

	pstmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO match_players(run_id, match_id, name, pre_matches_played, pre_matches_won, pre_win_rate)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer pstmt.Close()

	sstmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO match_stats(run_id, match_id, name, phase, stat, value, observations)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer sstmt.Close()

	for _, m := range matches {
		if _, err := mstmt.Exec(runID, m.ID, m.Index, m.Players[0], m.Players[1], m.Winner); err != nil {
			return fmt.Errorf("insert match %d: %w", m.ID, err)
		}
		for _, name := range m.Players {
			pre := m.Prematch[name]
			if _, err := pstmt.Exec(runID, m.ID, name, pre.MatchesPlayed, pre.MatchesWon, pre.WinRate); err != nil {
				return fmt.Errorf("insert match_players for %d/%q: %w", m.ID, name, err)
			}
			for _, stat := range sortedKeys(pre.Stats) {
				f := pre.Stats[stat]
				if _, err := sstmt.Exec(runID, m.ID, name, phasePre, stat, f.Value, f.Observations); err != nil {
					return fmt.Errorf("insert match_stats for %d/%q: %w", m.ID, name, err)
				}
			}
			post := m.Postmatch[name]
			for _, stat := range sortedKeys(post) {
				if _, err := sstmt.Exec(runID, m.ID, name, phasePost, stat, post[stat], 1); err != nil {
					return fmt.Errorf("insert match_stats for %d/%q: %w", m.ID, name, err)
				}
			}
		}
	}
	return nil
}

// ListRuns returns all stored runs, newest first.
func (db *DB) ListRuns() ([]model.RunSummary, error) {
	rows, err := db.conn.Query(`
		SELECT id, source, seed_run_id, created_at, rows_read, matches_imported, matches_skipped, player_count
		FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RunSummary
	for rows.Next() {
		var r model.RunSummary
		if err := rows.Scan(&r.RunID, &r.Source, &r.SeedRunID, &r.CreatedAt,
			&r.Rows, &r.MatchesImported, &r.MatchesSkipped, &r.Players); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRunByPrefix finds the newest run whose id starts with prefix. An empty
// prefix selects the newest run overall.
func (db *DB) GetRunByPrefix(prefix string) (*model.RunSummary, error) {
	var r model.RunSummary
	err := db.conn.QueryRow(`
		SELECT id, source, seed_run_id, created_at, rows_read, matches_imported, matches_skipped, player_count
		FROM runs WHERE id LIKE ? ORDER BY created_at DESC LIMIT 1`, prefix+"%").
		Scan(&r.RunID, &r.Source, &r.SeedRunID, &r.CreatedAt,
			&r.Rows, &r.MatchesImported, &r.MatchesSkipped, &r.Players)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetPlayers returns the final ledger of a run in first-seen order.
func (db *DB) GetPlayers(runID string) ([]model.PlayerRecord, error) {
	rows, err := db.conn.Query(`
		SELECT name, matches_played, matches_won, win_rate
		FROM players WHERE run_id = ? ORDER BY seen_order`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerRecord
	byName := make(map[string]int)
	for rows.Next() {
		p := model.PlayerRecord{Stats: make(map[string]model.StatisticField)}
		if err := rows.Scan(&p.Name, &p.MatchesPlayed, &p.MatchesWon, &p.WinRate); err != nil {
			return nil, err
		}
		byName[p.Name] = len(out)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	srows, err := db.conn.Query(`
		SELECT name, stat, value, observations FROM player_stats WHERE run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var name, stat string
		var f model.StatisticField
		if err := srows.Scan(&name, &stat, &f.Value, &f.Observations); err != nil {
			return nil, err
		}
		if i, ok := byName[name]; ok {
			out[i].Stats[stat] = f
		}
	}
	return out, srows.Err()
}

// LoadLedger rebuilds the final ledger of a run so a follow-up import can
// continue from it. Statistics outside template are dropped.
func (db *DB) LoadLedger(runID string, template []string) (*ledger.Ledger, error) {
	players, err := db.GetPlayers(runID)
	if err != nil {
		return nil, err
	}
	l := ledger.New(template)
	for _, p := range players {
		for stat := range p.Stats {
			if !l.Tracks(stat) {
				delete(p.Stats, stat)
			}
		}
		l.Restore(p)
	}
	return l, nil
}

// GetMatch rebuilds one match record, or returns nil if it is not stored.
func (db *DB) GetMatch(runID string, matchID int64) (*model.MatchRecord, error) {
	var m model.MatchRecord
	err := db.conn.QueryRow(`
		SELECT match_id, row_index, player1, player2, winner
		FROM matches WHERE run_id = ? AND match_id = ?`, runID, matchID).
		Scan(&m.ID, &m.Index, &m.Players[0], &m.Players[1], &m.Winner)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec := model.NewMatchRecord(m.ID, m.Index, m.Players[0], m.Players[1])
	rec.Winner = m.Winner

	prows, err := db.conn.Query(`
		SELECT name, pre_matches_played, pre_matches_won, pre_win_rate
		FROM match_players WHERE run_id = ? AND match_id = ?`, runID, matchID)
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		p := model.PlayerRecord{Stats: make(map[string]model.StatisticField)}
		if err := prows.Scan(&p.Name, &p.MatchesPlayed, &p.MatchesWon, &p.WinRate); err != nil {
			return nil, err
		}
		rec.Prematch[p.Name] = p
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}

	srows, err := db.conn.Query(`
		SELECT name, phase, stat, value, observations
		FROM match_stats WHERE run_id = ? AND match_id = ?`, runID, matchID)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var name, phase, stat string
		var f model.StatisticField
		if err := srows.Scan(&name, &phase, &stat, &f.Value, &f.Observations); err != nil {
			return nil, err
		}
		switch phase {
		case phasePre:
			if p, ok := rec.Prematch[name]; ok && p.Stats != nil {
				p.Stats[stat] = f
			}
		case phasePost:
			if post, ok := rec.Postmatch[name]; ok {
				post[stat] = f.Value
			}
		}
	}
	return &rec, srows.Err()
}

// GetPlayerHistory returns every stored match of one player in import order.
func (db *DB) GetPlayerHistory(runID, name string) ([]model.PlayerMatchEntry, error) {
	rows, err := db.conn.Query(`
		SELECT m.match_id,
		       CASE WHEN m.player1 = ? THEN m.player2 ELSE m.player1 END,
		       m.winner = ?,
		       p.pre_matches_played, p.pre_win_rate
		FROM matches m
		JOIN match_players p ON p.run_id = m.run_id AND p.match_id = m.match_id AND p.name = ?
		WHERE m.run_id = ?
		ORDER BY m.row_index`, name, name, name, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerMatchEntry
	index := make(map[int64]int)
	for rows.Next() {
		e := model.PlayerMatchEntry{Contributed: make(map[string]float64)}
		var won int
		if err := rows.Scan(&e.MatchID, &e.Opponent, &won, &e.PreMatchesPlayed, &e.PreWinRate); err != nil {
			return nil, err
		}
		e.Won = won != 0
		index[e.MatchID] = len(out)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	srows, err := db.conn.Query(`
		SELECT match_id, stat, value FROM match_stats
		WHERE run_id = ? AND name = ? AND phase = ?`, runID, name, phasePost)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var id int64
		var stat string
		var v float64
		if err := srows.Scan(&id, &stat, &v); err != nil {
			return nil, err
		}
		if i, ok := index[id]; ok {
			out[i].Contributed[stat] = v
		}
	}
	return out, srows.Err()
}

// DeleteRun removes a run and everything recorded under it.
func (db *DB) DeleteRun(runID string) error {
	_, err := db.conn.Exec(`DELETE FROM runs WHERE id = ?`, runID)
	return err
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
