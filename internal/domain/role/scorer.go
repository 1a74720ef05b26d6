package role

import (
	"math"
	"sort"

	"github.com/scoutlens/scoutlens/internal/domain/percentile"
	"github.com/scoutlens/scoutlens/internal/domain/position"
	"github.com/scoutlens/scoutlens/internal/domain/record"
)

// Score is the weighted average of the player's percentile ranks across the
// archetype's statistics. Stats the player has no value for are skipped, so
// partial data degrades gracefully instead of dragging the score down. A
// player with no usable stats scores 0.
func Score(p record.Player, a Archetype, ix percentile.Index) float64 {
	var sum, sumW float64
	for stat, w := range a.Weights {
		pct := ix.Percentile(stat, p.Num(stat))
		if math.IsNaN(pct) {
			continue
		}
		sum += pct * w
		sumW += w
	}
	if sumW == 0 {
		return 0
	}
	return sum / sumW
}

// Best is a player's strongest eligible role. Role is empty when the player
// matches no archetype baseline.
type Best struct {
	Role  string  `json:"role"`
	Score float64 `json:"score"`
}

// BestFor scores the player against every archetype whose baseline overlaps
// the player's positions and returns the highest. Ties resolve to the
// earlier catalog entry.
func BestFor(p record.Player, catalog []Archetype, ix percentile.Index) Best {
	best := Best{}
	bestScore := -1.0
	for _, a := range catalog {
		if !position.SharesAny(p.Positions, a.NormalizedBaseline()) {
			continue
		}
		if sc := Score(p, a, ix); sc > bestScore {
			bestScore = sc
			best = Best{Role: a.Name, Score: sc}
		}
	}
	best.Score = math.Max(0, math.Min(100, best.Score))
	return best
}

// EligibleScores returns the player's score for every archetype they
// qualify for, catalog order.
func EligibleScores(p record.Player, catalog []Archetype, ix percentile.Index) []Best {
	var out []Best
	for _, a := range catalog {
		if !position.SharesAny(p.Positions, a.NormalizedBaseline()) {
			continue
		}
		out = append(out, Best{Role: a.Name, Score: Score(p, a, ix)})
	}
	return out
}

func orderedStats(weights map[string]float64) []string {
	out := make([]string, 0, len(weights))
	for stat := range weights {
		out = append(out, stat)
	}
	sort.Strings(out)
	return out
}
