package position

import (
	"reflect"
	"testing"
)

func TestExpand(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"GK", []string{"GK"}},
		{"D (RLC)", []string{"D (R)", "D (L)", "D (C)"}},
		{"D (C), DM", []string{"D (C)", "DM"}},
		{"M/AM (C)", []string{"M (C)", "AM (C)"}},
		{"ST", []string{"ST (C)"}},
		{"ST (C)", []string{"ST (C)"}},
		{"WB (RL), DM", []string{"WB (R)", "WB (L)", "DM"}},
		{"AM (RL), ST (C)", []string{"AM (R)", "AM (L)", "ST (C)"}},
		{"", nil},
		{"???", nil},
	}
	for _, c := range cases {
		got := Expand(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("Expand(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestExpandDeduplicates(t *testing.T) {
	got := Expand("M (C), M/AM (C)")
	want := []string{"M (C)", "AM (C)"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Expand dedupe = %v, want %v", got, want)
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"st", "ST (C)"},
		{"M", "M (C)"},
		{"AM", "AM (C)"},
		{"D", "D (C)"},
		{"gk", "GK"},
		{"DM (C)", "DM"},
		{"WB (C)", ""},
		{"X (C)", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFamilyOf(t *testing.T) {
	cases := []struct {
		tokens []string
		want   Family
	}{
		{[]string{"GK"}, FamilyGK},
		{[]string{"ST (C)", "GK"}, FamilyGK},
		{[]string{"D (C)", "ST (C)"}, FamilyDF},
		{[]string{"WB (R)", "M (C)"}, FamilyDF},
		{[]string{"ST (C)", "AM (C)"}, FamilyFW},
		{[]string{"M (C)", "AM (L)"}, FamilyMF},
		{nil, FamilyMF},
	}
	for _, c := range cases {
		if got := FamilyOf(c.tokens); got != c.want {
			t.Fatalf("FamilyOf(%v) = %v, want %v", c.tokens, got, c.want)
		}
	}
}

func TestSharesAny(t *testing.T) {
	if !SharesAny([]string{"D (C)", "DM"}, []string{"DM"}) {
		t.Fatal("expected overlap")
	}
	if SharesAny([]string{"D (C)"}, []string{"ST (C)"}) {
		t.Fatal("expected no overlap")
	}
	if SharesAny(nil, []string{"GK"}) {
		t.Fatal("empty set never overlaps")
	}
}
