// Package record models one row of an imported squad statistics export and
// the header canonicalization that makes exports from different sources
// comparable.
package record

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/scoutlens/scoutlens/internal/domain/position"
	"github.com/scoutlens/scoutlens/internal/platform/numparse"
)

// renameMap canonicalizes export column headers. Keys are headers as they
// appear in game exports, values are the canonical statistic names the rest
// of the engine uses.
var renameMap = map[string]string{
	"Name": "Name", "Position": "Pos", "Age": "Age", "Weight": "Weight", "Height": "Height",
	"Inf": "Info", "Club": "Club", "Division": "League", "Nat": "Nat", "2nd Nat": "2nd Nat",
	"Home-Grown Status": "Home-Grown Status", "Personality": "Personality", "Media Handling": "Media Handling",
	"Wage": "Wage", "Transfer Value": "Transfer Value", "Asking Price": "Asking Price", "Preferred Foot": "Preferred Foot",
	"Expires": "Expires", "Contract Expiry": "Expires", "Contract Expires": "Expires", "Expiry": "Expires",
	"Yel": "Yellow Cards", "xG": "Expected Goals", "Starts": "Starts", "Red": "Red Cards", "PoM": "Player of the Match",
	"Pen/R": "Pens Scored Ratio", "Pens S": "Pens Scored", "Pens Saved Ratio": "Pens Saved Ratio", "Pens Saved": "Pens Saved",
	"Pens Faced": "Pens Faced", "Pens": "Pens", "Mins": "Minutes", "Gls/90": "Goals / 90", "Conc": "Conceded", "Gls": "Goals",
	"Fls": "Fouls", "FA": "Fouled", "xG/90": "xG/90", "xA/90": "Expected Assists/90", "xA": "Expected Assists",
	"Con/90": "Conceded/90", "Clean Sheets": "Clean Sheets", "Cln/90": "Clean Sheets/90", "Av Rat": "Avg Rating",
	"Mins/Gl": "Minutes / Goal", "Ast": "Assist", "Hdrs A": "Headers Attempted", "Apps": "Appearances",
	"Tck/90": "Tackles/90", "Tck W": "Tackles Won", "Tck A": "Tackles Attempted", "Tck R": "Tackle Ratio",
	"Shot/90": "Shots/90", "Shot %": "Shot on Target Ratio", "ShT/90": "SoT/90", "ShT": "Shots on Target",
	"Shots Outside Box/90": "Shots Outside Box/90", "Shts Blckd/90": "Shots Blocked/90", "Shts Blckd": "Shots Blocked",
	"Shots": "Shots", "Svt": "Saves Tipped", "Svp": "Saves Parried", "Svh": "Saves Held", "Sv %": "Save Ratio",
	"Pr passes/90": "Progressive Passes/90", "Pr Passes": "Progressive Passes",
	"Pres C/90": "Pressures Completed/90", "Pres C": "Pressures Completed", "Pres A/90": "Pressures Attempted/90", "Pres A": "Pressures Attempted",
	"Poss Won/90": "Possession Won/90", "Poss Lost/90": "Possession Lost/90", "Ps C/90": "Passes Completed/90", "Ps C": "Passes Completed",
	"Ps A/90": "Passes Attempted/90", "Pas A": "Passes Attempted", "Pas %": "Pass Completion%",
	"OP-KP/90": "OP Key Passes/90", "OP-KP": "OP Key Passes",
	"OP-Crs C/90": "OP Crosses Completed/90", "OP-Crs C": "OP Crosses Completed",
	"OP-Crs A/90": "OP Crosses Attempted/90", "OP-Crs A": "OP Crosses Attempted", "OP-Cr %": "OP Cross Completion Ratio",
	"Off": "Offsides", "Gl Mst": "Mistakes Leading to Goal", "K Tck/90": "Key Tackles/90", "K Tck": "Key Tackles",
	"K Ps/90": "Key Passes/90", "K Pas": "Key Passes", "K Hdrs/90": "Key Headers/90", "Int/90": "Interceptions/90", "Itc": "Interceptions",
	"Sprints/90": "Sprint/90", "Hdr %": "Header Win Rate", "Hdrs W/90": "Headers won/90", "Hdrs": "Headers", "Hdrs L/90": "Headers Lost/90",
	"Goals Outside Box": "Goals Outside Box", "xGP/90": "Expected Goals Prevented/90", "xGP": "Expected Goals Prevented",
	"Drb/90": "Dribbles/90", "Drb": "Dribbles", "Distance": "Distance Covered (KM)", "Cr C/90": "Crosses Completed/90", "Cr C": "Crosses Completed",
	"Crs A/90": "Crosses Attempted/90", "Cr A": "Crosses Attempted", "Cr C/A": "Cross Completion Ratio", "Conv %": "Conversion Rate",
	"Clr/90": "Clearances/90", "Clear": "Clearances", "CCC": "Chances Created", "Ch C/90": "Chances Created/90",
	"Blk/90": "Blocks/90", "Blk": "Blocks", "Aer A/90": "Aerial Duels Attempted/90",
}

// displayLabels overrides canonical statistic names for presentation.
var displayLabels = map[string]string{
	"Pass Completion%": "Pass %",
	"SoT/90":           "Shots on Target/90",
	"Goals / 90":       "Goals/90",
}

// CanonicalHeader maps an export header to its canonical name, returning the
// input unchanged when no rename applies.
func CanonicalHeader(h string) string {
	h = strings.TrimSpace(h)
	if mapped, ok := renameMap[h]; ok {
		return mapped
	}
	return h
}

// DisplayLabel returns the presentation label for a canonical statistic.
func DisplayLabel(stat string) string {
	if l, ok := displayLabels[stat]; ok {
		return l
	}
	return stat
}

// NormalizeName strips diacritics so accented and plain spellings of a
// player name compare equal.
func NormalizeName(name string) string {
	decomposed := norm.NFD.String(name)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// KeyNorm lowercases and strips everything but letters and digits, the
// comparison form used for fuzzy column lookup.
func KeyNorm(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Player is one imported row after header canonicalization. Fields holds
// every cell keyed by canonical column name; the struct fields are the
// precomputed accessors the engine reads on hot paths. Players are immutable
// after construction.
type Player struct {
	Fields map[string]string

	Name      string
	Club      string
	League    string
	Positions []string
	Family    position.Family
	Age       float64
	Minutes   float64

	normKeys map[string]string
}

// New builds a Player from raw export cells, canonicalizing headers,
// trimming values, normalizing the name, and precomputing the position and
// numeric accessors.
func New(raw map[string]string) Player {
	fields := make(map[string]string, len(raw))
	normKeys := make(map[string]string, len(raw))
	for k, v := range raw {
		ck := CanonicalHeader(k)
		v = strings.TrimSpace(v)
		if ck == "Name" {
			v = NormalizeName(v)
		}
		fields[ck] = v
		normKeys[KeyNorm(ck)] = ck
	}

	p := Player{
		Fields:   fields,
		normKeys: normKeys,
		Name:     fields["Name"],
		Club:     fields["Club"],
		League:   fields["League"],
	}
	p.Positions = position.Expand(fields["Pos"])
	p.Family = position.FamilyOf(p.Positions)
	p.Age = numparse.Numerify(fields["Age"])
	p.Minutes = numparse.Numerify(fields["Minutes"])
	return p
}

// Cell resolves a column by exact canonical name, then through the rename
// table, then by normalized-key comparison. Missing columns return "".
func (p Player) Cell(key string) string {
	if v, ok := p.Fields[key]; ok {
		return v
	}
	if mapped, ok := renameMap[key]; ok {
		if v, ok := p.Fields[mapped]; ok {
			return v
		}
	}
	if ck, ok := p.normKeys[KeyNorm(key)]; ok {
		return p.Fields[ck]
	}
	return ""
}

// Num parses the resolved cell as a number, NaN when missing or
// unparseable.
func (p Player) Num(key string) float64 {
	return numparse.Numerify(p.Cell(key))
}

// FindColumn resolves the first candidate present in columns: exact
// normalized match first, then rename-table redirection, then substring
// containment. Empty string when nothing resolves.
func FindColumn(columns []string, candidates ...string) string {
	byNorm := make(map[string]string, len(columns))
	for _, c := range columns {
		byNorm[KeyNorm(c)] = c
	}
	for _, name := range candidates {
		if c, ok := byNorm[KeyNorm(name)]; ok {
			return c
		}
		if mapped, ok := renameMap[name]; ok {
			if c, ok := byNorm[KeyNorm(mapped)]; ok {
				return c
			}
		}
	}
	for _, c := range columns {
		kn := KeyNorm(c)
		for _, name := range candidates {
			if n := KeyNorm(name); n != "" && strings.Contains(kn, n) {
				return c
			}
		}
	}
	return ""
}
