package valuation

import "testing"

func TestParseExpiryFormats(t *testing.T) {
	cases := []struct {
		in    string
		month int
		year  int
	}{
		{"30/6/2025", 6, 2025},
		{"30/06/25", 6, 2025},
		{"Jun 2025", 6, 2025},
		{"June 2025", 6, 2025},
		{"6/2025", 6, 2025},
		{"06/25", 6, 2025},
		{"2025", 6, 2025},
		{"1/1/2020", 1, 2020},
		{"31/12/2035", 12, 2035},
	}
	for _, c := range cases {
		got, ok := ParseExpiry(c.in)
		if !ok {
			t.Fatalf("ParseExpiry(%q) failed", c.in)
		}
		if got.Month != c.month || got.Year != c.year {
			t.Fatalf("ParseExpiry(%q) = %+v, want %d/%d", c.in, got, c.month, c.year)
		}
	}
}

func TestParseExpiryRejects(t *testing.T) {
	for _, in := range []string{"", "nonsense", "32/6/2025", "30/13/2025", "2019", "2036", "25", "6/2019", "Juny 2025"} {
		if _, ok := ParseExpiry(in); ok {
			t.Fatalf("ParseExpiry(%q) should fail", in)
		}
	}
}

func TestExpiryMultiplierBoundaries(t *testing.T) {
	// game date June 2024
	cases := []struct {
		expiry string
		want   float64
	}{
		{"6/2024", 0.15},  // expires this month
		{"5/2024", 0.15},  // already expired
		{"12/2024", 0.7},  // exactly 6 months
		{"6/2025", 0.9},   // exactly 12 months
		{"6/2026", 0.98},  // exactly 24 months
		{"7/2026", 1.0},   // beyond 24 months
		{"garbage", 1.0},  // unparseable is neutral
		{"", 1.0},
	}
	for _, c := range cases {
		got := ExpiryMultiplier(c.expiry, 6, 2024)
		if !approxEq(got, c.want) {
			t.Fatalf("ExpiryMultiplier(%q) = %v, want %v", c.expiry, got, c.want)
		}
	}
}

func TestExpiryMultiplierRamps(t *testing.T) {
	// 3 months out sits halfway up the 0.3-0.7 ramp
	if got := ExpiryMultiplier("9/2024", 6, 2024); !approxEq(got, 0.5) {
		t.Fatalf("3 months: got %v, want 0.5", got)
	}
	// 18 months out sits halfway up the 0.9-0.98 ramp
	if got := ExpiryMultiplier("12/2025", 6, 2024); !approxEq(got, 0.94) {
		t.Fatalf("18 months: got %v, want 0.94", got)
	}
}

func TestContractInfo(t *testing.T) {
	info := Contract("6/2024", 6, 2024)
	if info.Status != "EXPIRED" || !info.Parsed {
		t.Fatalf("expired contract: %+v", info)
	}

	info = Contract("12/2024", 6, 2024)
	if info.Status != "6mo left" {
		t.Fatalf("six months: %+v", info)
	}

	info = Contract("12/2025", 6, 2024)
	if info.Status != "1yr 6mo" {
		t.Fatalf("18 months: %+v", info)
	}

	info = Contract("6/2028", 6, 2024)
	if info.Status != "4+ years" {
		t.Fatalf("long contract: %+v", info)
	}

	info = Contract("not a date", 6, 2024)
	if info.Parsed || info.Status != "Unknown" || info.Multiplier != 1.0 {
		t.Fatalf("unparseable: %+v", info)
	}
}

func approxEq(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
