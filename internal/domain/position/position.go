// Package position models Football Manager position strings as a canonical
// token set and buckets tokens into the four positional families used for
// scoring and valuation.
package position

import (
	"regexp"
	"strings"
)

// Family is the coarse positional bucket a player is valued under.
type Family string

const (
	FamilyGK Family = "GK"
	FamilyDF Family = "DF"
	FamilyMF Family = "MF"
	FamilyFW Family = "FW"
)

// Canonical is the 14-token canonical position space. Every raw position
// string expands into a subset of this list.
var Canonical = []string{
	"GK",
	"D (R)", "D (C)", "D (L)",
	"WB (R)", "WB (L)",
	"DM",
	"M (R)", "M (C)", "M (L)",
	"AM (R)", "AM (C)", "AM (L)",
	"ST (C)",
}

// bareCenter collapses side-less bases onto their central token.
var bareCenter = map[string]string{
	"D":  "D (C)",
	"M":  "M (C)",
	"AM": "AM (C)",
	"ST": "ST (C)",
}

var sided = regexp.MustCompile(`^([A-Za-z/]+)\s*\(([^)]+)\)$`)

// Expand parses a raw comma-separated position string, e.g.
// "D (RLC), DM, M/AM (C)", into the set of canonical tokens it covers.
// Unrecognized fragments are skipped. Input order is preserved with
// duplicates removed.
func Expand(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	add := func(tok string) {
		tok = Normalize(tok)
		if tok == "" || seen[tok] {
			return
		}
		seen[tok] = true
		out = append(out, tok)
	}

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m := sided.FindStringSubmatch(part)
		if m == nil {
			for _, base := range strings.Split(part, "/") {
				base = strings.TrimSpace(base)
				if strings.EqualFold(base, "WB") {
					add("WB (R)")
					add("WB (L)")
					continue
				}
				add(base)
			}
			continue
		}
		bases := strings.Split(m[1], "/")
		for _, base := range bases {
			base = strings.ToUpper(strings.TrimSpace(base))
			for _, side := range m[2] {
				switch side {
				case 'R', 'r':
					add(base + " (R)")
				case 'C', 'c':
					add(base + " (C)")
				case 'L', 'l':
					add(base + " (L)")
				}
			}
		}
	}
	return out
}

// Normalize maps a single token onto its canonical form: uppercases the
// base, collapses bare side-less bases to the central variant, and drops
// tokens outside the canonical space ("" return).
func Normalize(tok string) string {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return ""
	}

	base := tok
	side := ""
	if m := sided.FindStringSubmatch(tok); m != nil {
		base = strings.TrimSpace(m[1])
		side = strings.ToUpper(strings.TrimSpace(m[2]))
	}
	base = strings.ToUpper(base)

	if side == "" {
		if c, ok := bareCenter[base]; ok {
			return c
		}
		if base == "GK" || base == "DM" {
			return base
		}
		return ""
	}

	// DM and GK never carry a side qualifier; ST only plays central.
	switch base {
	case "GK":
		return "GK"
	case "DM":
		return "DM"
	case "ST":
		return "ST (C)"
	}
	if base == "WB" && side == "C" {
		return ""
	}

	cand := base + " (" + side + ")"
	for _, c := range Canonical {
		if c == cand {
			return cand
		}
	}
	return ""
}

// FamilyOf buckets a token set into a family. Goalkeepers win over any
// outfield token, defenders over attackers, and strikers over midfield.
// An empty or unrecognized set defaults to midfield.
func FamilyOf(tokens []string) Family {
	var df, fw bool
	for _, t := range tokens {
		switch {
		case t == "GK":
			return FamilyGK
		case strings.HasPrefix(t, "D ") || strings.HasPrefix(t, "WB"):
			df = true
		case strings.HasPrefix(t, "ST"):
			fw = true
		}
	}
	if df {
		return FamilyDF
	}
	if fw {
		return FamilyFW
	}
	return FamilyMF
}

// SharesAny reports whether the two token sets intersect.
func SharesAny(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	for _, t := range b {
		if set[t] {
			return true
		}
	}
	return false
}
