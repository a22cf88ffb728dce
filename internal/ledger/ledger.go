// Package ledger owns the per-player running statistics of an import.
package ledger

import (
	"errors"
	"fmt"
	"slices"

	"github.com/iljabvh/firstserve/internal/model"
)

var ErrUnknownPlayer = errors.New("player not in ledger")

// Ledger maps player names to their live records. It is not safe for
// concurrent use; an import owns exactly one ledger.
type Ledger struct {
	template []string
	players  map[string]*model.PlayerRecord
	order    []string // first-seen order
}

// New returns an empty ledger whose players are seeded from template.
func New(template []string) *Ledger {
	return &Ledger{
		template: slices.Clone(template),
		players:  make(map[string]*model.PlayerRecord),
	}
}

// Template returns the canonical statistic names tracked per player.
func (l *Ledger) Template() []string {
	return slices.Clone(l.template)
}

// Tracks reports whether stat is part of the template.
func (l *Ledger) Tracks(stat string) bool {
	return slices.Contains(l.template, stat)
}

// Len returns the number of registered players.
func (l *Ledger) Len() int {
	return len(l.order)
}

// Get returns the live record for name, or nil.
func (l *Ledger) Get(name string) *model.PlayerRecord {
	return l.players[name]
}

// GetOrCreate returns the record for name, registering a zeroed one from the
// template on first appearance. The second result is true if it was created.
func (l *Ledger) GetOrCreate(name string) (*model.PlayerRecord, bool) {
	if p, ok := l.players[name]; ok {
		return p, false
	}
	rec := model.NewPlayerRecord(name, l.template)
	l.players[name] = &rec
	l.order = append(l.order, name)
	return &rec, true
}

// Restore registers a previously persisted record, replacing any existing one.
// Template statistics missing from rec are added zeroed.
func (l *Ledger) Restore(rec model.PlayerRecord) {
	c := rec.Clone()
	for _, s := range l.template {
		if _, ok := c.Stats[s]; !ok {
			c.Stats[s] = model.StatisticField{}
		}
	}
	if _, ok := l.players[c.Name]; !ok {
		l.order = append(l.order, c.Name)
	}
	l.players[c.Name] = &c
}

// RecordMatchResult counts one played match for name and recomputes the win rate.
func (l *Ledger) RecordMatchResult(name string, won bool) error {
	p, ok := l.players[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPlayer, name)
	}
	p.MatchesPlayed++
	if won {
		p.MatchesWon++
	}
	p.WinRate = float64(p.MatchesWon) / float64(p.MatchesPlayed)
	return nil
}

// ApplyStatistic folds one observation of stat into name's running mean.
// It reports whether the value was applied; statistics outside the template
// and missing values are ignored.
func (l *Ledger) ApplyStatistic(name, stat string, v float64, ok bool) (bool, error) {
	p, exists := l.players[name]
	if !exists {
		return false, fmt.Errorf("%w: %q", ErrUnknownPlayer, name)
	}
	field, tracked := p.Stats[stat]
	if !tracked || !ok {
		return false, nil
	}
	before := field.Observations
	Accumulate(&field, v, ok)
	p.Stats[stat] = field
	return field.Observations > before, nil
}

// Players returns deep copies of all records in first-seen order.
func (l *Ledger) Players() []model.PlayerRecord {
	out := make([]model.PlayerRecord, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, l.players[name].Clone())
	}
	return out
}

// Clone returns an independent copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	c := New(l.template)
	for _, name := range l.order {
		rec := l.players[name].Clone()
		c.players[name] = &rec
		c.order = append(c.order, name)
	}
	return c
}
