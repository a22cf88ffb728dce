// Package score turns the two mirrored scorelines of a match into a winner.
package score

import (
	"fmt"
	"strings"

	"github.com/iljabvh/firstserve/internal/model"
)

// SplitSets splits a scoreline such as "6-4 7-6" into its per-set strings.
func SplitSets(scoreline string) []string {
	return strings.Fields(scoreline)
}

// ClassifyFormat returns the format shared by both perspectives. Both
// scorelines must list the same number of sets, either two or three.
func ClassifyFormat(sets [2][]string) model.Format {
	switch {
	case len(sets[0]) == 2 && len(sets[1]) == 2:
		return model.FormatTwoSets
	case len(sets[0]) == 3 && len(sets[1]) == 3:
		return model.FormatThreeSets
	default:
		return model.FormatUnsupported
	}
}

// RepairSets splits each set into game counts and undoes the mirroring artifact.
//
// Mirrored rows render a two-digit tiebreak count reversed, e.g. a true 10-8
// appears as 01-8. In a two-set match both sets are checked for leading zeroes.
// In a three-set match only the first listed set can carry the artifact, and
// there the whole set string was reversed, so every multi-digit count of that
// set is reversed back ("81-02" -> "18-20", "91-12" -> "19-21").
func RepairSets(format model.Format, sets []string) ([]model.SetScore, error) {
	if int(format) != len(sets) {
		return nil, fmt.Errorf("%w: %d sets for %s match", ErrUnsupportedFormat, len(sets), format)
	}

	out := make([]model.SetScore, 0, len(sets))
	for i, s := range sets {
		games, err := splitGames(s)
		if err != nil {
			return nil, err
		}
		switch {
		case format == model.FormatTwoSets:
			games.Self = fixLeadingZero(games.Self)
			games.Opponent = fixLeadingZero(games.Opponent)
		case format == model.FormatThreeSets && i == 0:
			games.Self = reverseMultiDigit(games.Self)
			games.Opponent = reverseMultiDigit(games.Opponent)
		}
		out = append(out, games)
	}
	return out, nil
}

func splitGames(set string) (model.SetScore, error) {
	parts := strings.Split(set, "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return model.SetScore{}, fmt.Errorf("%w: %q", ErrMalformedScore, set)
	}
	return model.SetScore{Self: parts[0], Opponent: parts[1]}, nil
}

func fixLeadingZero(games string) string {
	if len(games) > 1 && games[0] == '0' {
		return reverse(games)
	}
	return games
}

func reverseMultiDigit(games string) string {
	if len(games) > 1 {
		return reverse(games)
	}
	return games
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
