package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadValuation_DefaultsOnly(t *testing.T) {
	cfg, err := LoadValuation("", nil)
	if err != nil {
		t.Fatalf("LoadValuation: %v", err)
	}
	if cfg.LeagueWeights["elite"] != 1.45 {
		t.Fatalf("elite league weight = %v, want 1.45", cfg.LeagueWeights["elite"])
	}
	if cfg.BuyDiscount != 0.87 {
		t.Fatalf("buy discount = %v, want 0.87", cfg.BuyDiscount)
	}
}

func TestLoadValuation_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "valuation.yaml")
	doc := "buyDiscount: 0.80\nleagueWeights:\n  elite: 1.60\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg, err := LoadValuation(path, nil)
	if err != nil {
		t.Fatalf("LoadValuation: %v", err)
	}
	if cfg.BuyDiscount != 0.80 {
		t.Fatalf("buy discount = %v, want 0.80", cfg.BuyDiscount)
	}
	if cfg.LeagueWeights["elite"] != 1.60 {
		t.Fatalf("elite league weight = %v, want 1.60", cfg.LeagueWeights["elite"])
	}
	// Keys the file does not touch keep their defaults.
	if cfg.LeagueWeights["develop"] != 0.62 {
		t.Fatalf("develop league weight = %v, want 0.62", cfg.LeagueWeights["develop"])
	}
	if cfg.WagePerM != 2800 {
		t.Fatalf("wage per million = %v, want 2800", cfg.WagePerM)
	}
}

func TestLoadValuation_OverlayWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "valuation.yaml")
	if err := os.WriteFile(path, []byte("buyDiscount: 0.80\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg, err := LoadValuation(path, []byte(`{"buyDiscount":0.75}`))
	if err != nil {
		t.Fatalf("LoadValuation: %v", err)
	}
	if cfg.BuyDiscount != 0.75 {
		t.Fatalf("buy discount = %v, want 0.75", cfg.BuyDiscount)
	}
}

func TestLoadValuation_BadOverlay(t *testing.T) {
	if _, err := LoadValuation("", []byte("{not json")); err == nil {
		t.Fatal("want error for malformed overlay")
	}
}
