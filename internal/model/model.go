package model

// Perspective identifies which participant a reported scoreline is relative to.
type Perspective int

const (
	Primary   Perspective = 0 // relative to Name_1
	Secondary Perspective = 1 // relative to Name_2
)

func (p Perspective) String() string {
	switch p {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	default:
		return "?"
	}
}

// Perspectives lists both perspectives in row order.
var Perspectives = [2]Perspective{Primary, Secondary}

// Format classifies a match by the number of sets in its scorelines.
type Format int

const (
	FormatUnsupported Format = 0
	FormatTwoSets     Format = 2
	FormatThreeSets   Format = 3
)

func (f Format) String() string {
	switch f {
	case FormatTwoSets:
		return "two-set"
	case FormatThreeSets:
		return "three-set"
	default:
		return "unsupported"
	}
}

// SetScore holds one set's game counts as reported from one perspective.
type SetScore struct {
	Self     string
	Opponent string
}

// Tally counts sets won in one perspective. Index 0 is the player the
// scoreline is relative to, index 1 the opponent.
type Tally struct {
	Players [2]string
	Sets    [2]int
}

// SetsWon returns the sets won by name, or 0 if name is not in the tally.
func (t Tally) SetsWon(name string) int {
	for i, p := range t.Players {
		if p == name {
			return t.Sets[i]
		}
	}
	return 0
}

// Total is the number of sets counted.
func (t Tally) Total() int {
	return t.Sets[0] + t.Sets[1]
}

// ---- Ledger state ----

// StatisticField is a running mean of one statistic for one player.
// A Value of exactly 0 is treated as "no data yet" by the accumulator.
type StatisticField struct {
	Value        float64
	Observations int
}

// PlayerRecord is the live statistic state of one player.
type PlayerRecord struct {
	Name          string
	Stats         map[string]StatisticField
	MatchesPlayed int
	MatchesWon    int
	WinRate       float64 // MatchesWon / MatchesPlayed; 0 until the first match
}

// NewPlayerRecord returns a record with every template statistic zeroed.
func NewPlayerRecord(name string, template []string) PlayerRecord {
	stats := make(map[string]StatisticField, len(template))
	for _, s := range template {
		stats[s] = StatisticField{}
	}
	return PlayerRecord{Name: name, Stats: stats}
}

// HasWinRate reports whether WinRate is defined.
func (p *PlayerRecord) HasWinRate() bool {
	return p.MatchesPlayed > 0
}

func (p *PlayerRecord) MatchesLost() int {
	return p.MatchesPlayed - p.MatchesWon
}

// Clone returns a deep copy that shares no state with p.
func (p *PlayerRecord) Clone() PlayerRecord {
	c := *p
	c.Stats = make(map[string]StatisticField, len(p.Stats))
	for k, v := range p.Stats {
		c.Stats[k] = v
	}
	return c
}

// ---- Match ledger ----

// MatchRecord is the audit entry for one imported match.
//
// Prematch holds deep copies of both players before the match was folded in.
// Postmatch holds only the raw statistic values this match contributed.
type MatchRecord struct {
	ID        int64
	Index     int // row position in the source table
	Players   [2]string
	Prematch  map[string]PlayerRecord
	Postmatch map[string]map[string]float64
	Winner    string
}

// NewMatchRecord returns an empty record for the two named players.
func NewMatchRecord(id int64, index int, player1, player2 string) MatchRecord {
	return MatchRecord{
		ID:      id,
		Index:   index,
		Players: [2]string{player1, player2},
		Prematch: map[string]PlayerRecord{
			player1: {},
			player2: {},
		},
		Postmatch: map[string]map[string]float64{
			player1: {},
			player2: {},
		},
	}
}

// Loser returns the participant that is not the winner.
func (m *MatchRecord) Loser() string {
	if m.Players[0] == m.Winner {
		return m.Players[1]
	}
	return m.Players[0]
}

// Opponent returns the other participant of the match.
func (m *MatchRecord) Opponent(name string) string {
	if m.Players[0] == name {
		return m.Players[1]
	}
	return m.Players[0]
}

// RunSummary is a lightweight record for list/show commands.
type RunSummary struct {
	RunID           string
	Source          string
	SeedRunID       string // empty when the run started from an empty ledger
	CreatedAt       string
	Rows            int
	MatchesImported int
	MatchesSkipped  int
	Players         int
}

// PlayerMatchEntry is one row of a player's match history.
type PlayerMatchEntry struct {
	MatchID          int64
	Opponent         string
	Won              bool
	PreMatchesPlayed int
	PreWinRate       float64
	Contributed      map[string]float64
}
