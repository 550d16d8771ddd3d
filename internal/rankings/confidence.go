// Package rankings turns nation and player tallies into confidence-corrected
// leaderboards.
package rankings

import (
	"errors"
	"fmt"
	"math"

	"barrank/internal/model"
)

// ErrNoNations marks a (game mode, window) slice where zero nations have
// recorded games, leaving the confidence factor undefined. Only that slice
// aborts; other game modes are unaffected.
var ErrNoNations = errors.New("no nations with recorded games")

// DeriveConfidence computes k and CF for one game mode from the unfiltered
// set of nations with at least one recorded game. The activity gate (k/4)
// is derived afterwards, never fed back into k.
func DeriveConfidence(nations map[string]*model.NationAggregate) (model.ConfidenceFactor, error) {
	if len(nations) == 0 {
		return model.ConfidenceFactor{}, ErrNoNations
	}
	total := 0
	for _, na := range nations {
		total += na.TotalGames
	}
	avg := float64(total) / float64(len(nations))
	k := avg / 2
	return model.ConfidenceFactor{
		K:        k,
		CF:       2 * k,
		MinGames: k / 4,
	}, nil
}

// AdjustedScore applies the damping formula:
// (wins - losses) / (total games + CF) * 10000.
func AdjustedScore(wins, losses, totalGames int, cf float64) float64 {
	return float64(wins-losses) / (float64(totalGames) + cf) * 10000
}

// DisplayScore is the adjusted score rounded to the nearest integer, the
// form shown on the site.
func DisplayScore(adjusted float64) int {
	return int(math.Round(adjusted))
}

// SliceFailure reports a slice-fatal condition for one game mode. Other
// slices keep their results.
type SliceFailure struct {
	GameMode string
	Err      error
}

func (f *SliceFailure) Error() string {
	return fmt.Sprintf("game mode %q: %v", f.GameMode, f.Err)
}

func (f *SliceFailure) Unwrap() error { return f.Err }
