package valuation

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/scoutlens/scoutlens/internal/domain/leaguetier"
	"github.com/scoutlens/scoutlens/internal/domain/percentile"
	"github.com/scoutlens/scoutlens/internal/domain/position"
	"github.com/scoutlens/scoutlens/internal/domain/record"
	"github.com/scoutlens/scoutlens/internal/domain/role"
)

// bigMetrics are the per-family headline statistics whose top-decile hits
// earn the big-metric and excellence boosts.
var bigMetrics = map[position.Family][]string{
	position.FamilyGK: {"Expected Goals Prevented/90", "Save Ratio", "Saves Held", "Conceded/90"},
	position.FamilyDF: {"Tackles/90", "Interceptions/90", "Blocks/90", "Shots Blocked/90", "Clearances/90", "Header Win Rate"},
	position.FamilyMF: {"Progressive Passes/90", "OP Key Passes/90", "Key Passes/90", "Dribbles/90", "Chances Created/90"},
	position.FamilyFW: {"Goals / 90", "xG/90", "SoT/90", "Conversion Rate", "OP Key Passes/90"},
}

// leagueContextMinPeers is the smallest same-tier sample the league standing
// factor will compare against; leagueContextMinPool gates the factor on
// having a meaningfully sized dataset at all.
const (
	leagueContextMinPeers = 10
	leagueContextMinPool  = 100
)

// Engine evaluates players against one dataset snapshot. PeerScores carries
// the best-role scores of every player grouped by league tier, sorted
// descending, for the league standing factor; leave it nil to disable that
// factor.
type Engine struct {
	Catalog    []role.Archetype
	Index      percentile.Index
	Month      int
	Year       int
	PoolSize   int
	PeerScores map[leaguetier.Tier][]float64
}

// Component is one named multiplicative factor of a valuation. The final
// value is the ordered product of all components.
type Component struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Versatility describes how many roles a player covers competently.
type Versatility struct {
	Multiplier      float64     `json:"multiplier"`
	TopRoles        []role.Best `json:"topRoles,omitempty"`
	ApplicableRoles int         `json:"applicableRoles"`
}

// Result is a full valuation with its factor breakdown. ValueM is in
// millions of pounds.
type Result struct {
	ValueM             float64           `json:"valueM"`
	BestRole           string            `json:"bestRole"`
	BestScore          float64           `json:"bestScore"`
	Tier               leaguetier.Tier   `json:"tier"`
	Family             position.Family   `json:"family"`
	PerformanceTier    string            `json:"performanceTier"`
	ContractMultiplier float64           `json:"contractMultiplier"`
	Versatility        Versatility       `json:"versatility"`
	Components         []Component       `json:"components"`
}

// PerformanceTier buckets a best-role score: elite at 95+, excellent at
// 90+, good at 75+, average below.
func PerformanceTier(score float64) string {
	switch {
	case score >= 95:
		return "elite"
	case score >= 90:
		return "excellent"
	case score >= 75:
		return "good"
	default:
		return "average"
	}
}

// TrueValue runs the full multiplicative pipeline for one player.
func (e Engine) TrueValue(p record.Player, cfg Config) Result {
	tier := leaguetier.Classify(p.League)
	best := role.BestFor(p, e.Catalog, e.Index)
	vers := e.versatility(p, best)

	components := []Component{
		{"base", lookup(cfg.BaseScales, string(tier), 4.0)},
		{"score", e.scoreAdj(best.Score, p.Family, cfg)},
		{"league", lookup(cfg.LeagueWeights, string(tier), 0.70)},
		{"minutes", minutesTrust(p.Minutes, p.Family, cfg)},
		{"age", InterpAge(p.Age, cfg.AgeCurve[string(p.Family)])},
		{"bigMetrics", e.bigMetricBoost(p, cfg)},
		{"excellence", e.excellenceBoost(p, cfg)},
		{"contract", ExpiryMultiplier(p.Cell("Expires"), e.Month, e.Year)},
		{"versatility", 1 + (vers.Multiplier-1)*cfg.RoleVersatilityBonus},
		{"scarcity", scarcity(p, cfg)},
		{"leagueContext", e.leagueContext(tier, best.Score)},
		{"economic", lookup(cfg.EconomicFactors, string(tier), 1.0)},
		{"inflation", orDefault(cfg.InflationRate, 1.0)},
		{"reputation", reputation(best.Score, cfg)},
	}

	value := 1.0
	for _, c := range components {
		value *= c.Value
	}

	return Result{
		ValueM:             value,
		BestRole:           best.Role,
		BestScore:          best.Score,
		Tier:               tier,
		Family:             p.Family,
		PerformanceTier:    PerformanceTier(best.Score),
		ContractMultiplier: components[7].Value,
		Versatility:        vers,
		Components:         components,
	}
}

// BuyAt estimates the realistic purchase price: the true value under the
// standing buy discount, adjusted for seller motivation.
func (e Engine) BuyAt(p record.Player, cfg Config) float64 {
	res := e.TrueValue(p, cfg)

	mult := orDefault(cfg.BuyDiscount, 0.87)
	if res.ContractMultiplier < 0.8 {
		mult *= lookup(cfg.SellerMotivation, "contractExpiring", 0.85)
	}
	if p.Age <= 21 && res.BestScore >= 70 {
		mult *= lookup(cfg.SellerMotivation, "youngProspect", 1.15)
	}
	if res.BestScore >= 90 {
		mult *= lookup(cfg.SellerMotivation, "starPlayer", 1.25)
	}
	return res.ValueM * mult
}

// WeeklyWage estimates a fair weekly wage from the true value, floored per
// league tier.
func (e Engine) WeeklyWage(p record.Player, cfg Config) float64 {
	res := e.TrueValue(p, cfg)

	lfac := lookup(cfg.WageLeagueFactor, string(res.Tier), 1.0)
	ageBoost := InterpAge(p.Age, cfg.WageAgeBoost[string(res.Family)])
	perfBonus := lookup(cfg.WagePerformanceBonus, res.PerformanceTier, 1.0)

	raw := orDefault(cfg.WagePerM, 2800) * res.ValueM * lfac * ageBoost * perfBonus
	floor := math.Max(orDefault(cfg.WageMinAbsolute, 100), lookup(cfg.WageGroupFloor, string(res.Tier), 120))
	return math.Max(floor, raw)
}

// WeeklyWageMax is the negotiation ceiling: the fair wage times the max
// multiplier, with extra headroom for top scorers.
func (e Engine) WeeklyWageMax(p record.Player, cfg Config) float64 {
	base := e.WeeklyWage(p, cfg)
	res := e.TrueValue(p, cfg)

	mult := orDefault(cfg.WageMaxMult, 1.50)
	switch {
	case res.BestScore >= 95:
		mult *= 1.15
	case res.BestScore >= 90:
		mult *= 1.10
	}
	return base * mult
}

func (e Engine) scoreAdj(score float64, fam position.Family, cfg Config) float64 {
	power := lookup(cfg.ScorePower, string(fam), 1.05)
	floor := orDefault(cfg.ScoreFloor, 0.15)
	return math.Max(floor, math.Pow(score/100, power))
}

func (e Engine) bigMetricBoost(p record.Player, cfg Config) float64 {
	return 1 + float64(e.bigMetricHits(p, orDefault(cfg.BigMetricBoostTopPct, 90)))*orDefault(cfg.BigMetricBoostPerHit, 0.035)
}

func (e Engine) excellenceBoost(p record.Player, cfg Config) float64 {
	return 1 + float64(e.bigMetricHits(p, orDefault(cfg.ExcellenceThreshold, 95)))*orDefault(cfg.ExcellenceBonus, 0.08)
}

func (e Engine) bigMetricHits(p record.Player, threshold float64) int {
	hits := 0
	for _, stat := range bigMetrics[p.Family] {
		if pct := e.Index.Percentile(stat, p.Num(stat)); pct >= threshold {
			hits++
		}
	}
	return hits
}

func (e Engine) versatility(p record.Player, best role.Best) Versatility {
	scores := role.EligibleScores(p, e.Catalog, e.Index)
	if len(scores) <= 1 {
		return Versatility{Multiplier: 1.0, ApplicableRoles: len(scores)}
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	good := 0
	for _, s := range scores {
		if s.Score >= 70 {
			good++
		}
	}

	top := scores
	if len(top) > 3 {
		top = top[:3]
	}
	return Versatility{
		Multiplier:      1 + math.Min(float64(good-1), 3)*0.05,
		TopRoles:        top,
		ApplicableRoles: len(scores),
	}
}

// leagueContext rewards standing out among same-tier peers. Below the pool
// and peer-sample minimums the factor is neutral.
func (e Engine) leagueContext(tier leaguetier.Tier, score float64) float64 {
	if e.PoolSize <= leagueContextMinPool || e.PeerScores == nil {
		return 1.0
	}
	peers := e.PeerScores[tier]
	if len(peers) < leagueContextMinPeers {
		return 1.0
	}

	// peers are sorted descending; rank is the first entry at or below the
	// player's score
	rank := sort.Search(len(peers), func(i int) bool { return peers[i] <= score })
	pct := (1 - float64(rank)/float64(len(peers))) * 100

	switch {
	case pct >= 90:
		return 1.20
	case pct >= 75:
		return 1.10
	case pct >= 50:
		return 1.05
	case pct >= 25:
		return 1.00
	default:
		return 0.95
	}
}

// InterpAge linearly interpolates an age multiplier from a curve keyed by
// age. Ages outside the curve clamp to the endpoints; an unknown age or
// empty curve is neutral.
func InterpAge(age float64, curve map[string]float64) float64 {
	if math.IsNaN(age) || len(curve) == 0 {
		return 1
	}

	type pt struct{ x, y float64 }
	pts := make([]pt, 0, len(curve))
	for k, v := range curve {
		x, err := strconv.ParseFloat(k, 64)
		if err != nil {
			continue
		}
		pts = append(pts, pt{x, v})
	}
	if len(pts) == 0 {
		return 1
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].x < pts[j].x })

	if age <= pts[0].x {
		return pts[0].y
	}
	if age >= pts[len(pts)-1].x {
		return pts[len(pts)-1].y
	}
	for i := 1; i < len(pts); i++ {
		if age <= pts[i].x {
			t := (age - pts[i-1].x) / (pts[i].x - pts[i-1].x)
			return pts[i-1].y + t*(pts[i].y-pts[i-1].y)
		}
	}
	return 1
}

func minutesTrust(mins float64, fam position.Family, cfg Config) float64 {
	floor := orDefault(cfg.MinMinutesFloor, 0.40)
	if math.IsNaN(mins) || mins <= 0 {
		return floor
	}

	ref := lookup(cfg.MinMinutesRef, string(fam), 2000)
	if mins <= ref {
		return math.Max(floor, math.Min(1, math.Sqrt(mins/ref)))
	}

	boost := orDefault(cfg.MinutesBoostCurve, 1.2)
	bonusRef := ref * 0.5
	bonusCurve := math.Min(1, (mins-ref)/bonusRef)
	return math.Min(boost, 1+bonusCurve*(boost-1))
}

func scarcity(p record.Player, cfg Config) float64 {
	if len(p.Positions) == 0 {
		return 1.0
	}
	tok := p.Positions[0]
	if v, ok := cfg.PositionScarcity[tok]; ok {
		return v
	}
	// side-qualified tokens fall back to their bare base
	if i := strings.Index(tok, " ("); i > 0 {
		if v, ok := cfg.PositionScarcity[tok[:i]]; ok {
			return v
		}
	}
	return 1.0
}

func reputation(score float64, cfg Config) float64 {
	level := "regional"
	switch {
	case score >= 90:
		level = "worldClass"
	case score >= 80:
		level = "international"
	case score >= 70:
		level = "national"
	}
	return lookup(cfg.ReputationBonus, level, 1.0)
}

func lookup(m map[string]float64, key string, def float64) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
