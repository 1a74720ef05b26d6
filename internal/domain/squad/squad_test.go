package squad

import (
	"testing"

	"github.com/scoutlens/scoutlens/internal/domain/leaguetier"
	"github.com/scoutlens/scoutlens/internal/domain/percentile"
	"github.com/scoutlens/scoutlens/internal/domain/position"
	"github.com/scoutlens/scoutlens/internal/domain/record"
	"github.com/scoutlens/scoutlens/internal/domain/role"
)

// fixture: a small squad with no goalkeeper, strong striker play, weak
// central midfield
func fixtureSquad() ([]record.Player, percentile.Index) {
	ix := percentile.Index{
		"Shots/90":              percentile.NewPool([]float64{1, 2, 3, 4}),
		"SoT/90":                percentile.NewPool([]float64{0.5, 1, 1.5, 2}),
		"Conversion Rate":       percentile.NewPool([]float64{5, 10, 15, 20}),
		"Goals / 90":            percentile.NewPool([]float64{0.1, 0.3, 0.5, 0.8}),
		"xG/90":                 percentile.NewPool([]float64{0.1, 0.3, 0.5, 0.8}),
		"Progressive Passes/90": percentile.NewPool([]float64{2, 4, 6, 8}),
		"Passes Attempted/90":   percentile.NewPool([]float64{20, 40, 60, 80}),
		"Passes Completed/90":   percentile.NewPool([]float64{15, 30, 45, 60}),
	}
	mk := func(name, pos string, cells map[string]string) record.Player {
		raw := map[string]string{
			"Name": name, "Position": pos,
			"Club": "Riverford FC", "Division": "Sky Bet League One",
			"Age": "25", "Mins": "2000",
		}
		for k, v := range cells {
			raw[k] = v
		}
		return record.New(raw)
	}
	players := []record.Player{
		mk("Ace Striker", "ST (C)", map[string]string{
			"Shots/90": "4", "SoT/90": "2", "Conv %": "20", "Gls/90": "0.8", "xG/90": "0.8",
		}),
		mk("Weak Mid", "M (C)", map[string]string{
			"Pr passes/90": "2", "Ps A/90": "20", "Ps C/90": "15",
		}),
		mk("Solid Back", "D (C)", nil),
	}
	return players, ix
}

func TestAnalyzeCriticalNeed(t *testing.T) {
	players, ix := fixtureSquad()
	ctx, ok := Analyze("Riverford FC", players, role.Builtin, ix)
	if !ok {
		t.Fatal("club should be found")
	}

	if ctx.Tier != leaguetier.Solid {
		t.Fatalf("tier: %v", ctx.Tier)
	}
	if ctx.SquadSize != 3 {
		t.Fatalf("size: %d", ctx.SquadSize)
	}

	gk := ctx.Positions[position.FamilyGK]
	if !gk.IsCritical || !gk.IsWeak || !gk.NeedsUpgrade {
		t.Fatalf("empty GK slot should be critical: %+v", gk)
	}
	found := false
	for _, fam := range ctx.CriticalNeeds {
		if fam == position.FamilyGK {
			found = true
		}
	}
	if !found {
		t.Fatalf("GK missing from critical needs: %v", ctx.CriticalNeeds)
	}

	fw := ctx.Positions[position.FamilyFW]
	if fw.IsCritical || fw.BestScore < 80 {
		t.Fatalf("striker slot should be strong: %+v", fw)
	}
	if fw.NeedsUpgrade {
		t.Fatalf("87.5 beats solid-tier good threshold 65: %+v", fw)
	}
}

func TestAnalyzeUnknownClub(t *testing.T) {
	players, ix := fixtureSquad()
	if _, ok := Analyze("Nowhere United", players, role.Builtin, ix); ok {
		t.Fatal("unknown club should not resolve")
	}
}

func TestAnalyzeRoleGroups(t *testing.T) {
	players, ix := fixtureSquad()
	ctx, _ := Analyze("Riverford FC", players, role.Builtin, ix)

	rg := ctx.Roles["ST — Poacher"]
	if rg == nil || rg.BestPlayer != "Ace Striker" || rg.Count != 1 {
		t.Fatalf("poacher group: %+v", rg)
	}
}

func TestRecommendCriticalNeed(t *testing.T) {
	players, ix := fixtureSquad()
	ctx, _ := Analyze("Riverford FC", players, role.Builtin, ix)

	keeper := Candidate{
		Name: "New Keeper", BestRole: "GK — Shot Stopper", BestScore: 60,
		Family: position.FamilyGK, Tier: leaguetier.Solid,
		Value: 500_000, ContractMultiplier: 1.0, Versatility: 1.0,
	}
	r := Recommend(keeper, ctx)
	if r.Priority != PriorityCritical || r.ClubFit != FitEssential {
		t.Fatalf("keeper for empty slot: %+v", r)
	}
	if r.NeedLevel != "CRITICAL" {
		t.Fatalf("need level: %q", r.NeedLevel)
	}
}

func TestRecommendWeakCandidateForCriticalSlotIsRisky(t *testing.T) {
	players, ix := fixtureSquad()
	ctx, _ := Analyze("Riverford FC", players, role.Builtin, ix)

	// adjusted score below the solid-tier minimum of 55
	keeper := Candidate{
		Name: "Shaky Keeper", BestRole: "GK — Shot Stopper", BestScore: 40,
		Family: position.FamilyGK, Tier: leaguetier.Solid,
		ContractMultiplier: 1.0, Versatility: 1.0,
	}
	r := Recommend(keeper, ctx)
	if r.ClubFit != FitRisky || r.Priority != PriorityMedium {
		t.Fatalf("weak keeper: %+v", r)
	}
}

func TestRecommendLeagueTierAdjustment(t *testing.T) {
	players, ix := fixtureSquad()
	ctx, _ := Analyze("Riverford FC", players, role.Builtin, ix)

	fromElite := Candidate{
		Name: "Premier Mid", BestRole: "CM — Progresser", BestScore: 60,
		Family: position.FamilyMF, Tier: leaguetier.Elite,
		ContractMultiplier: 1.0, Versatility: 1.0,
	}
	r := Recommend(fromElite, ctx)
	// two tiers up: +10 adjustment
	if r.LeagueTierBonus != 10 || r.AdjustedScore != 70 {
		t.Fatalf("tier bonus: %+v", r)
	}

	fromDevelop := fromElite
	fromDevelop.Tier = leaguetier.Develop
	r = Recommend(fromDevelop, ctx)
	// two tiers down: -6
	if r.LeagueTierBonus != -6 || r.AdjustedScore != 54 {
		t.Fatalf("tier penalty: %+v", r)
	}
}

func TestRecommendSurplus(t *testing.T) {
	ctx := &Context{
		Tier:        leaguetier.Solid,
		Expectation: ExpectationFor(leaguetier.Solid),
		Positions: map[position.Family]*PositionGroup{
			position.FamilyFW: {BestScore: 80, AvgScore: 75, Players: []PlayerEval{{}, {}}},
		},
		Roles: map[string]*RoleGroup{
			"ST — Poacher": {Count: 2, BestScore: 80, AvgScore: 75, BestPlayer: "Incumbent"},
		},
		Coverage: map[string][]Coverage{},
	}

	similar := Candidate{
		Name: "Another Striker", BestRole: "ST — Poacher", BestScore: 79,
		Family: position.FamilyFW, Tier: leaguetier.Solid,
		ContractMultiplier: 1.0, Versatility: 1.0,
	}
	r := Recommend(similar, ctx)
	if r.ClubFit != FitSurplus || r.Priority != PriorityLow {
		t.Fatalf("surplus: %+v", r)
	}
}

func TestRecommendWithoutContext(t *testing.T) {
	r := Recommend(Candidate{PerformanceTier: "elite"}, nil)
	if r.Priority != PriorityHigh {
		t.Fatalf("elite without context: %+v", r)
	}
	r = Recommend(Candidate{PerformanceTier: "average"}, nil)
	if r.Priority != PriorityLow {
		t.Fatalf("average without context: %+v", r)
	}
}

func TestClubTierClassification(t *testing.T) {
	cases := []struct {
		tier leaguetier.Tier
		avg  float64
		want string
	}{
		{leaguetier.Elite, 90, "worldClass"},
		{leaguetier.Elite, 78, "topTier"},
		{leaguetier.Strong, 70, "professional"},
		{leaguetier.Solid, 50, "semiPro"},
		{leaguetier.Solid, 30, "amateur"},
	}
	for _, c := range cases {
		if got := clubTier(c.tier, c.avg, ExpectationFor(c.tier)); got != c.want {
			t.Fatalf("clubTier(%v, %v) = %q, want %q", c.tier, c.avg, got, c.want)
		}
	}
}
