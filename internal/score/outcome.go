package score

import (
	"fmt"

	"github.com/iljabvh/firstserve/internal/model"
)

// ResolveOutcome decides the winner from the tallies of both perspectives.
// A player wins only if both tallies give them strictly more sets.
func ResolveOutcome(tallies [2]model.Tally, player1, player2 string) (winner, loser string, err error) {
	p := tallies[model.Primary]
	s := tallies[model.Secondary]

	switch {
	case p.SetsWon(player1) > p.SetsWon(player2) && s.SetsWon(player1) > s.SetsWon(player2):
		return player1, player2, nil
	case p.SetsWon(player2) > p.SetsWon(player1) && s.SetsWon(player2) > s.SetsWon(player1):
		return player2, player1, nil
	default:
		return "", "", fmt.Errorf("%w: %s %d-%d %s vs %s %d-%d %s", ErrInconsistentResult,
			player1, p.SetsWon(player1), p.SetsWon(player2), player2,
			player1, s.SetsWon(player1), s.SetsWon(player2), player2)
	}
}

// Resolve runs the full pipeline for one match: classify, repair both
// perspectives, count sets and resolve the winner.
func Resolve(scorelines [2]string, player1, player2 string) (winner, loser string, err error) {
	var sets [2][]string
	for _, p := range model.Perspectives {
		sets[p] = SplitSets(scorelines[p])
	}
	format := ClassifyFormat(sets)
	if format == model.FormatUnsupported {
		return "", "", fmt.Errorf("%w: %d and %d sets", ErrUnsupportedFormat, len(sets[0]), len(sets[1]))
	}
	return ResolveSets(format, sets, player1, player2)
}

// ResolveSets repairs and tallies already classified per-set strings. The
// primary scoreline is relative to player1, the secondary to player2.
func ResolveSets(format model.Format, sets [2][]string, player1, player2 string) (winner, loser string, err error) {
	self := [2][2]string{
		model.Primary:   {player1, player2},
		model.Secondary: {player2, player1},
	}
	var tallies [2]model.Tally
	for _, p := range model.Perspectives {
		repaired, err := RepairSets(format, sets[p])
		if err != nil {
			return "", "", fmt.Errorf("%s scoreline: %w", p, err)
		}
		tallies[p], err = CountSets(repaired, self[p][0], self[p][1])
		if err != nil {
			return "", "", fmt.Errorf("%s scoreline: %w", p, err)
		}
	}
	return ResolveOutcome(tallies, player1, player2)
}
