package squad

import (
	"fmt"

	"github.com/scoutlens/scoutlens/internal/domain/leaguetier"
	"github.com/scoutlens/scoutlens/internal/domain/position"
)

// Fit classifies how a transfer target relates to the club's squad.
type Fit string

const (
	FitEssential Fit = "ESSENTIAL"
	FitRisky     Fit = "RISKY"
	FitUpgrade   Fit = "UPGRADE"
	FitDepth     Fit = "DEPTH"
	FitLuxury    Fit = "LUXURY"
	FitSurplus   Fit = "SURPLUS"
	FitSimilar   Fit = "SIMILAR"
	FitDowngrade Fit = "DOWNGRADE"
)

// Priority orders recommendations for the shortlist.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// Candidate is the transfer target under consideration.
type Candidate struct {
	Name               string
	BestRole           string
	BestScore          float64
	Family             position.Family
	Tier               leaguetier.Tier
	Value              float64
	PerformanceTier    string
	ContractMultiplier float64
	Versatility        float64
}

// Recommendation is the contextual verdict on a candidate.
type Recommendation struct {
	Summary  string   `json:"summary"`
	Notes    []string `json:"notes,omitempty"`
	Priority Priority `json:"priority"`
	ClubFit  Fit      `json:"clubFit"`

	AdjustedScore   float64 `json:"adjustedScore"`
	LeagueTierBonus float64 `json:"leagueTierBonus"`
	NeedLevel       string  `json:"needLevel"`
}

// value thresholds per club tier for expensive/affordable judgements, in
// absolute pounds
var valueThresholds = map[leaguetier.Tier]struct{ High, Low float64 }{
	leaguetier.Elite:   {High: 100_000_000, Low: 20_000_000},
	leaguetier.Strong:  {High: 30_000_000, Low: 5_000_000},
	leaguetier.Solid:   {High: 10_000_000, Low: 1_000_000},
	leaguetier.Growth:  {High: 3_000_000, Low: 300_000},
	leaguetier.Develop: {High: 1_000_000, Low: 100_000},
}

// Recommend classifies a candidate against the club context. A nil context
// falls back to a performance-only verdict.
func Recommend(c Candidate, ctx *Context) Recommendation {
	if ctx == nil {
		return recommendWithoutContext(c)
	}

	exp := ctx.Expectation

	// adjust the candidate's score for league tier distance
	var bonus float64
	playerRank := leaguetier.Rank(c.Tier)
	clubRank := leaguetier.Rank(ctx.Tier)
	switch {
	case playerRank > clubRank:
		bonus = float64(playerRank-clubRank) * 5
	case playerRank < clubRank:
		bonus = float64(playerRank-clubRank) * 3
	}
	adjusted := c.BestScore + bonus

	roleData := ctx.Roles[c.BestRole]
	var roleBest, roleCount float64
	var roleBestPlayer string
	if roleData != nil {
		roleBest = roleData.BestScore
		roleCount = float64(roleData.Count)
		roleBestPlayer = roleData.BestPlayer
	}

	coverage := ctx.Coverage[c.BestRole]
	var flexBest float64
	for _, cov := range coverage {
		if !cov.IsPrimary && cov.Score > flexBest {
			flexBest = cov.Score
		}
	}
	hasFlexCoverage := flexBest > 0

	significantUpgrade := adjusted > roleBest+10
	upgrade := adjusted > roleBest+3
	similar := adjusted >= roleBest-3 && adjusted <= roleBest+3

	posData := ctx.Positions[c.Family]
	criticalPosition := posData == nil || posData.IsCritical
	noRolePlayers := roleCount == 0
	needsRoleUpgrade := roleBest < exp.Good
	weakRole := roleBest < exp.Min
	criticalRole := noRolePlayers && !hasFlexCoverage

	th, ok := valueThresholds[ctx.Tier]
	if !ok {
		th = valueThresholds[leaguetier.Solid]
	}
	expensive := c.Value > th.High
	affordable := c.Value < th.Low

	r := Recommendation{
		AdjustedScore:   adjusted,
		LeagueTierBonus: bonus,
		NeedLevel:       needLevel(posData),
	}

	switch {
	case criticalPosition || criticalRole:
		if adjusted >= exp.Min {
			if criticalRole {
				r.Summary = fmt.Sprintf("Critical role need: no %s specialist or capable coverage", c.BestRole)
			} else {
				r.Summary = fmt.Sprintf("Critical need: no %s coverage in squad", c.Family)
			}
			r.Priority = PriorityCritical
			r.ClubFit = FitEssential
		} else {
			r.Summary = fmt.Sprintf("Fills a squad gap but may struggle at %s level", ctx.Tier)
			r.Priority = PriorityMedium
			r.ClubFit = FitRisky
		}

	case noRolePlayers && hasFlexCoverage && !significantUpgrade:
		r.Summary = fmt.Sprintf("Role covered by flexible players (best %.1f), not a critical need", flexBest)
		if upgrade {
			r.Priority = PriorityMedium
			r.ClubFit = FitUpgrade
		} else {
			r.Priority = PriorityLow
			r.ClubFit = FitDepth
		}

	case noRolePlayers && significantUpgrade:
		r.Summary = fmt.Sprintf("Major %s signing, establishes specialist quality", c.BestRole)
		r.Priority = PriorityHigh
		r.ClubFit = FitEssential

	case (weakRole || needsRoleUpgrade) && significantUpgrade:
		r.Summary = fmt.Sprintf("Major %s upgrade over current best %.1f (%s)", c.BestRole, roleBest, roleBestPlayer)
		r.Priority = PriorityHigh
		r.ClubFit = FitUpgrade

	case needsRoleUpgrade && upgrade:
		r.ClubFit = FitUpgrade
		switch {
		case playerRank > clubRank:
			r.Summary = fmt.Sprintf("Step-up %s signing, higher-tier quality improves the role", c.BestRole)
			r.Priority = PriorityHigh
		case playerRank == clubRank:
			r.Summary = fmt.Sprintf("Solid %s upgrade over current best %.1f", c.BestRole, roleBest)
			r.Priority = PriorityMedium
		default:
			r.Summary = fmt.Sprintf("Lower-tier %s, may need time to adapt", c.BestRole)
			r.Priority = PriorityLow
		}

	case roleBest >= exp.Good:
		switch {
		case significantUpgrade && playerRank >= clubRank:
			r.Summary = fmt.Sprintf("Elite %s upgrade, but the role is already strong", c.BestRole)
			r.ClubFit = FitLuxury
			if affordable {
				r.Priority = PriorityMedium
			} else {
				r.Priority = PriorityLow
			}
		case roleCount >= 2:
			r.Summary = fmt.Sprintf("%s already well covered (%d players)", c.BestRole, int(roleCount))
			r.Priority = PriorityLow
			r.ClubFit = FitSurplus
		case similar:
			r.Summary = fmt.Sprintf("%s depth, adds a rotation option at current level", c.BestRole)
			r.Priority = PriorityLow
			r.ClubFit = FitDepth
		default:
			r.Summary = fmt.Sprintf("Below the current %s standard (best %.1f)", c.BestRole, roleBest)
			r.Priority = PriorityLow
			r.ClubFit = FitDowngrade
		}

	default:
		switch {
		case significantUpgrade:
			r.Summary = fmt.Sprintf("Major %s upgrade, significant improvement on %.1f", c.BestRole, roleBest)
			r.Priority = PriorityHigh
			r.ClubFit = FitUpgrade
		case upgrade:
			r.Summary = fmt.Sprintf("Good %s improvement over current best %.1f", c.BestRole, roleBest)
			r.Priority = PriorityMedium
			r.ClubFit = FitUpgrade
		case similar:
			if roleCount >= 2 {
				r.Summary = fmt.Sprintf("%s depth at a similar level to current best %.1f", c.BestRole, roleBest)
			} else {
				r.Summary = fmt.Sprintf("%s cover, fills a thin role", c.BestRole)
			}
			r.Priority = PriorityLow
			r.ClubFit = FitSimilar
		default:
			r.Summary = fmt.Sprintf("Below the current %s standard (best %.1f)", c.BestRole, roleBest)
			r.Priority = PriorityLow
			r.ClubFit = FitDowngrade
		}
	}

	if playerRank > clubRank && r.Priority != PriorityLow {
		r.Notes = append(r.Notes, fmt.Sprintf("Higher league pedigree (+%.0f adjusted rating)", bonus))
	} else if playerRank < clubRank {
		r.Notes = append(r.Notes, fmt.Sprintf("Lower league background (%.0f rating adjustment)", bonus))
	}
	if c.ContractMultiplier < 0.8 && r.Priority != PriorityLow {
		r.Notes = append(r.Notes, "Contract expiring, opportunity for a discount")
	}
	if c.Versatility > 1.1 && r.Priority != PriorityLow {
		r.Notes = append(r.Notes, "Versatile, covers multiple roles")
	}
	if expensive && r.Priority == PriorityHigh {
		r.Notes = append(r.Notes, "Premium investment for this budget level")
	} else if affordable && r.Priority == PriorityMedium {
		r.Notes = append(r.Notes, "Good value, affordable improvement")
	}

	return r
}

func recommendWithoutContext(c Candidate) Recommendation {
	r := Recommendation{AdjustedScore: c.BestScore, NeedLevel: "UNKNOWN", ClubFit: FitSimilar}
	switch c.PerformanceTier {
	case "elite":
		r.Summary = "Exceptional talent, premium investment"
		r.Priority = PriorityHigh
	case "excellent":
		r.Summary = "High-quality player, solid investment"
		r.Priority = PriorityMedium
	case "good":
		r.Summary = "Good squad player at fair value"
		r.Priority = PriorityLow
	default:
		r.Summary = "Squad depth option"
		r.Priority = PriorityLow
	}
	return r
}

func needLevel(pg *PositionGroup) string {
	switch {
	case pg == nil || pg.IsCritical:
		return "CRITICAL"
	case pg.IsWeak:
		return "WEAK"
	case pg.NeedsUpgrade:
		return "UPGRADE"
	default:
		return "STRONG"
	}
}
