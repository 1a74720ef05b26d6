// Package squad analyzes a club's squad quality by position family and role
// and classifies transfer targets against it.
package squad

import (
	"math"

	"github.com/scoutlens/scoutlens/internal/domain/leaguetier"
	"github.com/scoutlens/scoutlens/internal/domain/percentile"
	"github.com/scoutlens/scoutlens/internal/domain/position"
	"github.com/scoutlens/scoutlens/internal/domain/record"
	"github.com/scoutlens/scoutlens/internal/domain/role"
)

// Expectation is the score band a tier demands: Min is the lowest
// acceptable best-in-position score, Good the target.
type Expectation struct {
	Min  float64 `json:"min"`
	Good float64 `json:"good"`
}

var tierExpectations = map[leaguetier.Tier]Expectation{
	leaguetier.Elite:   {Min: 75, Good: 85},
	leaguetier.Strong:  {Min: 65, Good: 75},
	leaguetier.Solid:   {Min: 55, Good: 65},
	leaguetier.Growth:  {Min: 45, Good: 55},
	leaguetier.Develop: {Min: 35, Good: 45},
}

// ExpectationFor returns the score band for a tier, defaulting to solid.
func ExpectationFor(tier leaguetier.Tier) Expectation {
	if e, ok := tierExpectations[tier]; ok {
		return e
	}
	return tierExpectations[leaguetier.Solid]
}

// PlayerEval is one squad member's evaluation.
type PlayerEval struct {
	Name       string             `json:"name"`
	Score      float64            `json:"score"`
	Role       string             `json:"role"`
	Age        float64            `json:"age"`
	Position   string             `json:"position"`
	RoleScores map[string]float64 `json:"roleScores"`
}

// PositionGroup aggregates the squad members of one positional family.
type PositionGroup struct {
	Players      []PlayerEval `json:"players"`
	BestScore    float64      `json:"bestScore"`
	AvgScore     float64      `json:"avgScore"`
	NeedsUpgrade bool         `json:"needsUpgrade"`
	IsWeak       bool         `json:"isWeak"`
	IsCritical   bool         `json:"isCritical"`
}

// RoleGroup aggregates the squad members whose best role is this role.
type RoleGroup struct {
	Count      int     `json:"count"`
	BestScore  float64 `json:"bestScore"`
	AvgScore   float64 `json:"avgScore"`
	BestPlayer string  `json:"bestPlayer"`
}

// Coverage is a player who can cover a role competently even though it is
// not their best role: within 10 points of their own best and at least 60.
type Coverage struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	IsPrimary bool    `json:"isPrimary"`
	BestRole  string  `json:"bestRole"`
}

const (
	coverageSlack = 10
	coverageFloor = 60
)

// Context is the full picture of one club's squad.
type Context struct {
	Club        string                             `json:"club"`
	League      string                             `json:"league"`
	Tier        leaguetier.Tier                    `json:"tier"`
	SquadSize   int                                `json:"squadSize"`
	AvgScore    float64                            `json:"avgScore"`
	TopScore    float64                            `json:"topScore"`
	Positions   map[position.Family]*PositionGroup `json:"positions"`
	Roles       map[string]*RoleGroup              `json:"roles"`
	Coverage    map[string][]Coverage              `json:"coverage"`
	ClubTier    string                             `json:"clubTier"`
	Expectation Expectation                        `json:"expectation"`

	CriticalNeeds  []position.Family `json:"criticalNeeds"`
	WeakPositions  []position.Family `json:"weakPositions"`
	UpgradeNeeds   []position.Family `json:"upgradeNeeds"`
}

var familyOrder = []position.Family{position.FamilyGK, position.FamilyDF, position.FamilyMF, position.FamilyFW}

// Analyze evaluates every player at the club and rolls the results up by
// position family and role. ok is false when the club has no players in the
// dataset.
func Analyze(club string, players []record.Player, catalog []role.Archetype, ix percentile.Index) (*Context, bool) {
	var squad []record.Player
	for _, p := range players {
		if p.Club == club {
			squad = append(squad, p)
		}
	}
	if len(squad) == 0 {
		return nil, false
	}

	tier := leaguetier.Classify(squad[0].League)
	exp := ExpectationFor(tier)

	ctx := &Context{
		Club:        club,
		League:      squad[0].League,
		Tier:        tier,
		SquadSize:   len(squad),
		Positions:   make(map[position.Family]*PositionGroup, len(familyOrder)),
		Roles:       make(map[string]*RoleGroup),
		Coverage:    make(map[string][]Coverage),
		Expectation: exp,
	}
	for _, fam := range familyOrder {
		ctx.Positions[fam] = &PositionGroup{}
	}

	var scoreSum, top float64
	for _, p := range squad {
		best := role.BestFor(p, catalog, ix)
		eval := PlayerEval{
			Name:       p.Name,
			Score:      best.Score,
			Role:       best.Role,
			Age:        p.Age,
			Position:   p.Cell("Pos"),
			RoleScores: make(map[string]float64),
		}

		for _, sc := range role.EligibleScores(p, catalog, ix) {
			eval.RoleScores[sc.Role] = sc.Score
			if sc.Score >= best.Score-coverageSlack && sc.Score >= coverageFloor {
				ctx.Coverage[sc.Role] = append(ctx.Coverage[sc.Role], Coverage{
					Name:      p.Name,
					Score:     sc.Score,
					IsPrimary: sc.Role == best.Role,
					BestRole:  best.Role,
				})
			}
		}

		ctx.Positions[p.Family].Players = append(ctx.Positions[p.Family].Players, eval)

		if best.Role != "" {
			rg := ctx.Roles[best.Role]
			if rg == nil {
				rg = &RoleGroup{}
				ctx.Roles[best.Role] = rg
			}
			rg.Count++
			rg.AvgScore += best.Score
			if best.Score > rg.BestScore {
				rg.BestScore = best.Score
				rg.BestPlayer = p.Name
			}
		}

		scoreSum += best.Score
		top = math.Max(top, best.Score)
	}

	for _, rg := range ctx.Roles {
		rg.AvgScore /= float64(rg.Count)
	}

	ctx.AvgScore = scoreSum / float64(len(squad))
	ctx.TopScore = top

	for _, fam := range familyOrder {
		pg := ctx.Positions[fam]
		if len(pg.Players) == 0 {
			pg.NeedsUpgrade = true
			pg.IsWeak = true
			pg.IsCritical = true
			ctx.CriticalNeeds = append(ctx.CriticalNeeds, fam)
			ctx.WeakPositions = append(ctx.WeakPositions, fam)
			ctx.UpgradeNeeds = append(ctx.UpgradeNeeds, fam)
			continue
		}
		var sum float64
		for _, pe := range pg.Players {
			sum += pe.Score
			pg.BestScore = math.Max(pg.BestScore, pe.Score)
		}
		pg.AvgScore = sum / float64(len(pg.Players))
		pg.NeedsUpgrade = pg.BestScore < exp.Good
		pg.IsWeak = pg.BestScore < exp.Min
		if pg.NeedsUpgrade {
			ctx.UpgradeNeeds = append(ctx.UpgradeNeeds, fam)
		}
		if pg.IsWeak {
			ctx.WeakPositions = append(ctx.WeakPositions, fam)
		}
	}

	ctx.ClubTier = clubTier(tier, ctx.AvgScore, exp)
	return ctx, true
}

func clubTier(tier leaguetier.Tier, avg float64, exp Expectation) string {
	switch {
	case tier == leaguetier.Elite && avg >= exp.Good:
		return "worldClass"
	case tier == leaguetier.Elite && avg >= exp.Min:
		return "topTier"
	case (tier == leaguetier.Elite || tier == leaguetier.Strong) && avg >= exp.Min:
		return "professional"
	case avg >= exp.Min*0.8:
		return "semiPro"
	default:
		return "amateur"
	}
}
