// Package percentile computes mid-rank percentiles of player statistics
// against a comparison pool.
package percentile

import (
	"math"
	"sort"
)

// lessIsBetter lists the statistics where a lower raw value is the better
// performance, so their percentiles are inverted.
var lessIsBetter = map[string]bool{
	"Conceded/90":     true,
	"Goals Allowed/90": true,
	"G/Sh":            true,
	"G/SoT":           true,
}

// Inverted reports whether the statistic scores low-raw-value as good.
func Inverted(stat string) bool {
	return lessIsBetter[stat]
}

// Pool is the sorted ascending sample of finite values for one statistic.
type Pool []float64

// NewPool builds a pool from raw values, dropping NaN and infinities.
func NewPool(values []float64) Pool {
	out := make(Pool, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

// Percentile returns the mid-rank percentile of value within the pool on a
// 0..100 scale, inverted when the statistic is lower-is-better. An empty
// pool or a non-finite value yields NaN.
func (p Pool) Percentile(stat string, value float64) float64 {
	if len(p) == 0 || !isFinite(value) {
		return math.NaN()
	}

	lo := sort.SearchFloat64s(p, value)
	hi := sort.Search(len(p), func(i int) bool { return p[i] > value })
	mid := float64(lo+hi) / 2

	pct := mid / float64(len(p)) * 100
	if Inverted(stat) {
		pct = 100 - pct
	}
	return math.Min(100, math.Max(0, pct))
}

// Index maps statistic names to their pools for one comparison cohort.
type Index map[string]Pool

// Percentile looks up value's percentile for stat. Missing statistics
// behave as empty pools.
func (ix Index) Percentile(stat string, value float64) float64 {
	return ix[stat].Percentile(stat, value)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
