package score

import (
	"fmt"
	"strconv"

	"github.com/iljabvh/firstserve/internal/model"
)

// CountSets counts the sets won by self and opponent. The first game count of
// every set belongs to self.
func CountSets(sets []model.SetScore, self, opponent string) (model.Tally, error) {
	t := model.Tally{Players: [2]string{self, opponent}}
	for _, s := range sets {
		a, err := strconv.Atoi(s.Self)
		if err != nil {
			return model.Tally{}, fmt.Errorf("%w: games %q", ErrMalformedScore, s.Self)
		}
		b, err := strconv.Atoi(s.Opponent)
		if err != nil {
			return model.Tally{}, fmt.Errorf("%w: games %q", ErrMalformedScore, s.Opponent)
		}
		switch {
		case a > b:
			t.Sets[0]++
		case b > a:
			t.Sets[1]++
		default:
			return model.Tally{}, fmt.Errorf("%w: %d-%d", ErrInvalidSetScore, a, b)
		}
	}
	return t, nil
}
