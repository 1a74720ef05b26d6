package valuation

import (
	"reflect"
	"testing"
)

func TestNormalizeBackfillsMissingKeys(t *testing.T) {
	partial := Config{
		LeagueWeights: map[string]float64{"elite": 2.0},
		ScoreFloor:    0.2,
	}

	n := partial.Normalize()

	if n.LeagueWeights["elite"] != 2.0 {
		t.Fatalf("user value overwritten: %v", n.LeagueWeights["elite"])
	}
	if n.LeagueWeights["develop"] != 0.62 {
		t.Fatalf("missing tier not backfilled: %v", n.LeagueWeights["develop"])
	}
	if n.ScoreFloor != 0.2 {
		t.Fatalf("user scalar overwritten: %v", n.ScoreFloor)
	}
	if n.WagePerM != 2800 {
		t.Fatalf("missing scalar not backfilled: %v", n.WagePerM)
	}
	for _, tier := range []string{"elite", "strong", "solid", "growth", "develop"} {
		if _, ok := n.BaseScales[tier]; !ok {
			t.Fatalf("tier %s missing from base scales", tier)
		}
	}
	if len(n.AgeCurve["FW"]) == 0 {
		t.Fatalf("age curve not backfilled")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	partial := Config{
		BaseScales: map[string]float64{"strong": 15},
		WagePerM:   3000,
	}

	once := partial.Normalize()
	twice := once.Normalize()
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("normalize is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestNormalizeOfDefaultIsDefault(t *testing.T) {
	if !reflect.DeepEqual(Default().Normalize(), Default()) {
		t.Fatal("default config should normalize to itself")
	}
}

func TestNormalizePreservesPartialCurves(t *testing.T) {
	partial := Config{
		AgeCurve: map[string]map[string]float64{
			"FW": {"20": 0.9, "30": 0.8},
		},
	}
	n := partial.Normalize()

	if !reflect.DeepEqual(n.AgeCurve["FW"], map[string]float64{"20": 0.9, "30": 0.8}) {
		t.Fatalf("user curve replaced: %v", n.AgeCurve["FW"])
	}
	if len(n.AgeCurve["GK"]) == 0 {
		t.Fatal("untouched family curve missing")
	}
}
