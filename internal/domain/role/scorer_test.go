package role

import (
	"testing"

	"github.com/scoutlens/scoutlens/internal/domain/percentile"
	"github.com/scoutlens/scoutlens/internal/domain/record"
)

func poolOf(vals ...float64) percentile.Pool {
	return percentile.NewPool(vals)
}

func TestScoreSkipsMissingStats(t *testing.T) {
	a := Archetype{
		Name:     "Test",
		Baseline: []string{"ST (C)"},
		Weights:  map[string]float64{"Shots/90": 2, "SoT/90": 1},
	}
	ix := percentile.Index{
		"Shots/90": poolOf(1, 2, 3, 4),
		"SoT/90":   poolOf(1, 2, 3, 4),
	}

	full := record.New(map[string]string{"Shots/90": "4", "SoT/90": "4"})
	partial := record.New(map[string]string{"Shots/90": "4"})

	fullScore := Score(full, a, ix)
	partialScore := Score(partial, a, ix)
	if fullScore != 87.5 || partialScore != 87.5 {
		t.Fatalf("missing stat should be skipped, not zeroed: full=%v partial=%v", fullScore, partialScore)
	}
}

func TestScoreNoUsableStats(t *testing.T) {
	a := Builtin[0]
	ix := percentile.Index{}
	p := record.New(map[string]string{"Name": "X"})
	if got := Score(p, a, ix); got != 0 {
		t.Fatalf("no usable stats should score 0, got %v", got)
	}
}

func TestBestForGatesOnBaseline(t *testing.T) {
	// A goalkeeper with striker-grade shooting numbers must still be scored
	// as a goalkeeper.
	ix := percentile.Index{
		"Shots/90":                    poolOf(0, 1, 2, 3),
		"Goals / 90":                  poolOf(0, 0.2, 0.5, 0.9),
		"Expected Goals Prevented/90": poolOf(-0.2, 0, 0.1, 0.3),
	}
	gk := record.New(map[string]string{
		"Position":   "GK",
		"Shots/90":   "3",
		"Goals / 90": "0.9",
		"xGP/90":     "0.3",
	})

	best := BestFor(gk, Builtin, ix)
	if best.Role != "GK — Shot Stopper" && best.Role != "GK — Sweeper Keeper" {
		t.Fatalf("goalkeeper matched outfield role %q", best.Role)
	}
}

func TestBestForNoEligibleRole(t *testing.T) {
	p := record.New(map[string]string{"Position": "???"})
	best := BestFor(p, Builtin, percentile.Index{})
	if best.Role != "" || best.Score != 0 {
		t.Fatalf("expected sentinel, got %+v", best)
	}
}

func TestBestForTieFirstWins(t *testing.T) {
	// Both striker archetypes degrade to identical scores when only shared
	// stats are present; the earlier catalog entry must win.
	ix := percentile.Index{"Shots/90": poolOf(1, 2, 3, 4)}
	st := record.New(map[string]string{"Position": "ST (C)", "Shots/90": "4"})

	best := BestFor(st, Builtin, ix)
	if best.Role != "ST — Poacher" {
		t.Fatalf("tie should resolve to first catalog entry, got %q", best.Role)
	}
}

func TestArchetypeValidate(t *testing.T) {
	good := Archetype{
		Name:     "Libero",
		Baseline: []string{"D (C)", "DM"},
		Weights:  map[string]float64{"Progressive Passes/90": 1.5},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid archetype rejected: %v", err)
	}

	bad := []Archetype{
		{Baseline: []string{"GK"}, Weights: map[string]float64{"x": 1}},
		{Name: "NoBaseline", Weights: map[string]float64{"x": 1}},
		{Name: "BadToken", Baseline: []string{"XX (C)"}, Weights: map[string]float64{"x": 1}},
		{Name: "NoWeights", Baseline: []string{"GK"}},
		{Name: "NegWeight", Baseline: []string{"GK"}, Weights: map[string]float64{"x": -1}},
	}
	for i, a := range bad {
		if err := a.Validate(); err == nil {
			t.Fatalf("case %d should fail validation", i)
		}
	}
}

func TestAllStats(t *testing.T) {
	stats := AllStats(Builtin)
	if len(stats) == 0 {
		t.Fatal("empty stat union")
	}
	seen := make(map[string]bool)
	for _, s := range stats {
		if seen[s] {
			t.Fatalf("duplicate stat %q", s)
		}
		seen[s] = true
	}
	for _, want := range []string{"Expected Goals Prevented/90", "Goals / 90", "Tackles/90"} {
		if !seen[want] {
			t.Fatalf("missing %q", want)
		}
	}
}
