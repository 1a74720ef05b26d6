// Package role defines the role archetype catalog and scores players
// against it using percentile ranks.
package role

import (
	"fmt"
	"math"

	"github.com/scoutlens/scoutlens/internal/domain/position"
)

// Archetype is a playing role: the position tokens it applies to and the
// weighted statistics that describe it.
type Archetype struct {
	Name     string             `json:"name" validate:"required"`
	Baseline []string           `json:"baseline" validate:"required,min=1"`
	Weights  map[string]float64 `json:"weights" validate:"required,min=1"`
}

// Validate checks a user-supplied archetype before it joins the catalog.
func (a Archetype) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("archetype name is required")
	}
	if len(a.Baseline) == 0 {
		return fmt.Errorf("archetype %q: baseline positions are required", a.Name)
	}
	for _, tok := range a.Baseline {
		if position.Normalize(tok) == "" {
			return fmt.Errorf("archetype %q: unknown position token %q", a.Name, tok)
		}
	}
	if len(a.Weights) == 0 {
		return fmt.Errorf("archetype %q: at least one weighted stat is required", a.Name)
	}
	for stat, w := range a.Weights {
		if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("archetype %q: weight for %q must be a positive number", a.Name, stat)
		}
	}
	return nil
}

// NormalizedBaseline returns the baseline tokens in canonical form.
func (a Archetype) NormalizedBaseline() []string {
	out := make([]string, 0, len(a.Baseline))
	for _, tok := range a.Baseline {
		if n := position.Normalize(tok); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Builtin is the compiled-in catalog. Order matters: ties in best-role
// selection resolve to the earlier entry.
var Builtin = []Archetype{
	{
		Name:     "GK — Shot Stopper",
		Baseline: []string{"GK"},
		Weights: map[string]float64{
			"Expected Goals Prevented/90": 1.7,
			"Saves Held":                  1.2,
			"Saves Parried":               0.8,
			"Saves Tipped":                0.6,
			"Conceded/90":                 1.2,
			"Clean Sheets/90":             0.9,
		},
	},
	{
		Name:     "GK — Sweeper Keeper",
		Baseline: []string{"GK"},
		Weights: map[string]float64{
			"Passes Attempted/90":         1.2,
			"Passes Completed/90":         0.9,
			"Pass Completion%":            0.9,
			"Progressive Passes/90":       1.6,
			"Expected Goals Prevented/90": 1.8,
			"Saves Held":                  1.0,
			"Saves Parried":               1.0,
		},
	},
	{
		Name:     "CB — Stopper",
		Baseline: []string{"D (C)"},
		Weights: map[string]float64{
			"Tackles/90":       1.5,
			"Tackle Ratio":     1.2,
			"Interceptions/90": 1.3,
			"Blocks/90":        1.1,
			"Shots Blocked/90": 1.0,
			"Clearances/90":    1.0,
			"Headers won/90":   1.1,
			"Header Win Rate":  1.1,
		},
	},
	{
		Name:     "CB — Ball Playing",
		Baseline: []string{"D (C)"},
		Weights: map[string]float64{
			"Passes Attempted/90":   1.4,
			"Passes Completed/90":   1.2,
			"Pass Completion%":      1.1,
			"Progressive Passes/90": 1.7,
			"Key Passes/90":         1.2,
			"Interceptions/90":      1.0,
			"Tackles/90":            0.9,
			"Chances Created/90":    1.0,
		},
	},
	{
		Name:     "FB — Overlapping",
		Baseline: []string{"D (R)", "D (L)", "WB (R)", "WB (L)"},
		Weights: map[string]float64{
			"Crosses Attempted/90":    1.4,
			"Crosses Completed/90":    1.6,
			"Cross Completion Ratio":  1.2,
			"OP Crosses Attempted/90": 1.5,
			"OP Crosses Completed/90": 1.6,
			"OP Key Passes/90":        1.4,
			"Key Passes/90":           1.2,
			"Dribbles/90":             1.2,
			"Tackles/90":              1.0,
			"Interceptions/90":        1.0,
		},
	},
	{
		Name:     "FB — Inverted",
		Baseline: []string{"D (R)", "D (L)", "WB (R)", "WB (L)"},
		Weights: map[string]float64{
			"Passes Attempted/90":   1.3,
			"Passes Completed/90":   1.3,
			"Pass Completion%":      1.4,
			"Progressive Passes/90": 1.7,
			"OP Key Passes/90":      1.4,
			"Interceptions/90":      1.1,
			"Tackles/90":            1.0,
			"Chances Created/90":    1.1,
		},
	},
	{
		Name:     "DM — Ball Winner",
		Baseline: []string{"DM"},
		Weights: map[string]float64{
			"Tackles/90":             1.6,
			"Tackle Ratio":           1.3,
			"Interceptions/90":       1.6,
			"Blocks/90":              1.2,
			"Shots Blocked/90":       1.2,
			"Possession Won/90":      1.5,
			"Pressures Completed/90": 1.2,
		},
	},
	{
		Name:     "DM — Deep-Lying Playmaker",
		Baseline: []string{"DM"},
		Weights: map[string]float64{
			"Passes Attempted/90":   1.6,
			"Passes Completed/90":   1.3,
			"Pass Completion%":      1.3,
			"Progressive Passes/90": 1.7,
			"OP Key Passes/90":      1.3,
			"Key Passes/90":         1.1,
			"Interceptions/90":      1.0,
		},
	},
	{
		Name:     "CM — Box to Box",
		Baseline: []string{"M (C)"},
		Weights: map[string]float64{
			"Progressive Passes/90":  1.4,
			"OP Key Passes/90":       1.2,
			"Dribbles/90":            1.2,
			"Pressures Completed/90": 1.1,
			"Tackles/90":             1.2,
			"Interceptions/90":       1.2,
			"Shots/90":               1.1,
			"SoT/90":                 1.1,
		},
	},
	{
		Name:     "CM — Progresser",
		Baseline: []string{"M (C)"},
		Weights: map[string]float64{
			"Progressive Passes/90": 1.7,
			"Passes Completed/90":   1.3,
			"Passes Attempted/90":   1.4,
			"OP Key Passes/90":      1.5,
			"Key Passes/90":         1.3,
			"Dribbles/90":           1.2,
			"Chances Created/90":    1.5,
		},
	},
	{
		Name:     "AM — Classic 10",
		Baseline: []string{"AM (C)"},
		Weights: map[string]float64{
			"OP Key Passes/90":      1.7,
			"Key Passes/90":         1.6,
			"Chances Created/90":    1.7,
			"Assist":                1.5,
			"Progressive Passes/90": 1.3,
			"Dribbles/90":           1.2,
			"Shots/90":              1.0,
		},
	},
	{
		Name:     "AM — Shadow Striker",
		Baseline: []string{"AM (C)"},
		Weights: map[string]float64{
			"Shots/90":           1.5,
			"SoT/90":             1.5,
			"Dribbles/90":        1.1,
			"Chances Created/90": 1.1,
			"Key Passes/90":      1.1,
			"Conversion Rate":    1.6,
			"Goals / 90":         1.8,
		},
	},
	{
		Name:     "Winger — Classic",
		Baseline: []string{"AM (R)", "AM (L)", "M (R)", "M (L)"},
		Weights: map[string]float64{
			"Crosses Attempted/90":    1.4,
			"Crosses Completed/90":    1.6,
			"Cross Completion Ratio":  1.3,
			"OP Crosses Attempted/90": 1.5,
			"OP Crosses Completed/90": 1.7,
			"OP Key Passes/90":        1.4,
			"Dribbles/90":             1.6,
			"Assist":                  1.5,
		},
	},
	{
		Name:     "Winger — Inverted",
		Baseline: []string{"AM (R)", "AM (L)", "M (R)", "M (L)"},
		Weights: map[string]float64{
			"Shots/90":              1.6,
			"SoT/90":                1.6,
			"Dribbles/90":           1.6,
			"OP Key Passes/90":      1.3,
			"Chances Created/90":    1.4,
			"Conversion Rate":       1.6,
			"Progressive Passes/90": 1.2,
		},
	},
	{
		Name:     "ST — Poacher",
		Baseline: []string{"ST (C)"},
		Weights: map[string]float64{
			"Shots/90":        1.6,
			"SoT/90":          1.7,
			"Conversion Rate": 1.7,
			"Goals / 90":      1.9,
			"xG/90":           1.7,
		},
	},
	{
		Name:     "ST — Target Man",
		Baseline: []string{"ST (C)"},
		Weights: map[string]float64{
			"Headers won/90":            1.8,
			"Header Win Rate":           1.7,
			"Aerial Duels Attempted/90": 1.6,
			"Shots/90":                  1.2,
			"SoT/90":                    1.1,
			"Key Passes/90":             1.0,
		},
	},
}

// AllStats returns the union of weighted statistics across the catalog,
// first-seen order.
func AllStats(catalog []Archetype) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range catalog {
		for _, stat := range orderedStats(a.Weights) {
			if !seen[stat] {
				seen[stat] = true
				out = append(out, stat)
			}
		}
	}
	return out
}
