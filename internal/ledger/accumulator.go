package ledger

import (
	"math"

	"github.com/iljabvh/firstserve/internal/model"
)

// Accumulate folds one observed value into a running mean in place.
//
// Missing values (ok == false or NaN) leave f untouched. A field with no
// observations or a stored value of exactly 0 is overwritten instead of
// averaged, so a genuine 0 observation never contributes to the mean.
func Accumulate(f *model.StatisticField, v float64, ok bool) {
	if !ok || math.IsNaN(v) {
		return
	}
	if f.Observations == 0 || f.Value == 0 {
		f.Value = v
	} else {
		n := float64(f.Observations)
		f.Value = (v + n*f.Value) / (n + 1)
	}
	f.Observations++
}
