package valuation

import (
	"math"
	"sort"

	"github.com/scoutlens/scoutlens/internal/domain/leaguetier"
	"github.com/scoutlens/scoutlens/internal/domain/record"
	"github.com/scoutlens/scoutlens/internal/platform/numparse"
)

// expectedTierAverages are the transfer-value midpoints (in pounds) each
// tier is assumed to center on; observed in-game values are compared against
// these to recalibrate the base scales.
var expectedTierAverages = map[leaguetier.Tier]float64{
	leaguetier.Elite:   50_000_000,
	leaguetier.Strong:  8_000_000,
	leaguetier.Solid:   3_000_000,
	leaguetier.Growth:  1_500_000,
	leaguetier.Develop: 800_000,
}

// Anchoring is the dataset-derived recalibration of base scales.
type Anchoring struct {
	Averages    map[leaguetier.Tier]float64 `json:"averages"`
	Adjustments map[leaguetier.Tier]float64 `json:"adjustments"`
	SampleSizes map[leaguetier.Tier]int     `json:"sampleSizes"`
}

// ComputeAnchoring measures each tier's average in-game transfer value
// (contract-adjusted, IQR outlier-filtered) against the expected average and
// derives a damped adjustment factor per tier. Small samples blend toward
// neutral.
func ComputeAnchoring(players []record.Player, month, year int) Anchoring {
	groups := make(map[leaguetier.Tier][]float64, len(leaguetier.All))
	for _, p := range players {
		mid := numparse.ParseMoneyRange(p.Cell("Transfer Value")).Mid
		if math.IsNaN(mid) || mid <= 0 {
			continue
		}
		mult := ExpiryMultiplier(p.Cell("Expires"), month, year)
		adjusted := mid / math.Max(mult, 0.15)
		tier := leaguetier.Classify(p.League)
		groups[tier] = append(groups[tier], adjusted)
	}

	a := Anchoring{
		Averages:    make(map[leaguetier.Tier]float64, len(leaguetier.All)),
		Adjustments: make(map[leaguetier.Tier]float64, len(leaguetier.All)),
		SampleSizes: make(map[leaguetier.Tier]int, len(leaguetier.All)),
	}
	for _, tier := range leaguetier.All {
		values := groups[tier]
		a.SampleSizes[tier] = len(values)
		a.Averages[tier] = robustAverage(values, expectedTierAverages[tier])

		ratio := a.Averages[tier] / expectedTierAverages[tier]
		clamped := math.Min(math.Max(ratio, 0.4), 2.5)

		damping := 0.5
		if tier == leaguetier.Elite {
			damping = 0.4
		}
		damped := math.Pow(clamped, damping)

		sampleWeight := math.Min(float64(len(values))/20, 1.0)
		a.Adjustments[tier] = 1.0 + sampleWeight*(damped-1.0)
	}
	return a
}

// Apply scales the config's base scales by the anchoring adjustments.
func (a Anchoring) Apply(cfg Config) Config {
	scaled := make(map[string]float64, len(cfg.BaseScales))
	for tier, scale := range cfg.BaseScales {
		adj, ok := a.Adjustments[leaguetier.Tier(tier)]
		if !ok {
			adj = 1.0
		}
		scaled[tier] = scale * adj
	}
	cfg.BaseScales = scaled
	return cfg
}

// robustAverage is the mean after 1.5 IQR outlier filtering, the median
// when filtering empties the sample, the plain mean below three samples,
// and the fallback when there is no data at all.
func robustAverage(values []float64, fallback float64) float64 {
	switch {
	case len(values) == 0:
		return fallback
	case len(values) < 3:
		return mean(values)
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	median := sorted[len(sorted)/2]
	q1 := sorted[len(sorted)/4]
	q3 := sorted[len(sorted)*3/4]
	iqr := q3 - q1

	var filtered []float64
	for _, v := range values {
		if v >= q1-1.5*iqr && v <= q3+1.5*iqr {
			filtered = append(filtered, v)
		}
	}
	if len(filtered) == 0 {
		return median
	}
	return mean(filtered)
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
