package percentile

import (
	"math"
	"testing"
)

func TestPercentileMidRankTies(t *testing.T) {
	p := NewPool([]float64{10, 10, 10, 20})
	got := p.Percentile("Tackles/90", 10)
	if got != 37.5 {
		t.Fatalf("tie mid-rank: got %v, want 37.5", got)
	}
	if top := p.Percentile("Tackles/90", 20); top != 87.5 {
		t.Fatalf("max value: got %v, want 87.5", top)
	}
}

func TestPercentileBounds(t *testing.T) {
	p := NewPool([]float64{1, 2, 3, 4, 5})
	for _, v := range []float64{0, 1, 3, 5, 99} {
		got := p.Percentile("xG/90", v)
		if got < 0 || got > 100 {
			t.Fatalf("percentile out of bounds for %v: %v", v, got)
		}
	}
	if below := p.Percentile("xG/90", -10); below != 0 {
		t.Fatalf("below pool: got %v, want 0", below)
	}
	if above := p.Percentile("xG/90", 100); above != 100 {
		t.Fatalf("above pool: got %v, want 100", above)
	}
}

func TestPercentileMonotonic(t *testing.T) {
	p := NewPool([]float64{3, 1, 4, 1, 5, 9, 2, 6})
	prev := math.Inf(-1)
	for _, v := range []float64{0, 1, 2, 3, 4, 5, 6, 9, 10} {
		got := p.Percentile("Key Passes/90", v)
		if got < prev {
			t.Fatalf("not monotonic at %v: %v < %v", v, got, prev)
		}
		prev = got
	}
}

func TestPercentileInversion(t *testing.T) {
	p := NewPool([]float64{0.5, 1.0, 1.5, 2.0})
	low := p.Percentile("Conceded/90", 0.5)
	high := p.Percentile("Conceded/90", 2.0)
	if low <= high {
		t.Fatalf("inversion: conceding less should rank higher, got %v vs %v", low, high)
	}
	if low != 87.5 {
		t.Fatalf("inverted tie rank: got %v, want 87.5", low)
	}
}

func TestPercentileEmptyAndNaN(t *testing.T) {
	var empty Pool
	if got := empty.Percentile("xG/90", 1); !math.IsNaN(got) {
		t.Fatalf("empty pool should be NaN, got %v", got)
	}
	p := NewPool([]float64{1, 2, 3})
	if got := p.Percentile("xG/90", math.NaN()); !math.IsNaN(got) {
		t.Fatalf("NaN value should be NaN, got %v", got)
	}
}

func TestNewPoolDropsNonFinite(t *testing.T) {
	p := NewPool([]float64{2, math.NaN(), 1, math.Inf(1)})
	if len(p) != 2 || p[0] != 1 || p[1] != 2 {
		t.Fatalf("unexpected pool: %v", p)
	}
}

func TestIndexMissingStat(t *testing.T) {
	ix := Index{"xG/90": NewPool([]float64{1, 2})}
	if got := ix.Percentile("Tackles/90", 1); !math.IsNaN(got) {
		t.Fatalf("missing stat should be NaN, got %v", got)
	}
}
