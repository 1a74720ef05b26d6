// Package leaguetier classifies competition names into the five-tier quality
// scale used by the valuation model. Classification is ordered: explicit
// downgrades first, then curated competition lists from best tier to worst,
// then substring heuristics, with "solid" as the default for anything
// unrecognized.
package leaguetier

import (
	"regexp"
	"strings"
)

// Tier orders league quality from elite (best) down to develop.
type Tier string

const (
	Elite   Tier = "elite"
	Strong  Tier = "strong"
	Solid   Tier = "solid"
	Growth  Tier = "growth"
	Develop Tier = "develop"
)

// All lists the tiers best-first.
var All = []Tier{Elite, Strong, Solid, Growth, Develop}

// Rank returns the tier's position on a 1..5 scale, develop=1, elite=5.
// Unknown tiers rank as solid.
func Rank(t Tier) int {
	switch t {
	case Elite:
		return 5
	case Strong:
		return 4
	case Growth:
		return 2
	case Develop:
		return 1
	default:
		return 3
	}
}

// Valid reports whether t is one of the five known tiers.
func Valid(t Tier) bool {
	switch t {
	case Elite, Strong, Solid, Growth, Develop:
		return true
	}
	return false
}

func union(names []string) *regexp.Regexp {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}

var groupNames = map[Tier][]string{
	Elite: {
		"Premier League", "LALIGA EA SPORTS", "LaLiga EA SPORTS", "Bundesliga", "Serie A", "Serie A TIM", "Ligue 1 Uber Eats",
		"Eredivisie", "Brasileirão Assaí Série A", "Brasileirao Assai Serie A", "Liga MX",
	},
	Strong: {
		"Sky Bet Championship", "Championship", "2. Bundesliga", "LaLiga Hypermotion", "Serie BKT", "Ligue 2 BKT", "Keuken Kampioen Divisie",
		"Liga Portugal Betclic", "Jupiler Pro League", "cinch Premiership", "Admiral Bundesliga", "Super League (Greece)", "Super League Greece",
		"Spor Toto Süper Lig", "Süper Lig", "3F Superliga", "Eliteserien", "Superligaen", "PKO Ekstraklasa", "Allsvenskan", "Raiffeisen Super League",
		"Fortuna liga", "Fortuna Liga", "OTP Bank Liga", "SuperSport HNL", "Mozzart Bet SuperLiga", "Cyta Championship",
		"MLS", "Major League Soccer", "Meiji Yasuda J1 League", "J1 League", "Hana 1Q K League 1", "K League 1",
		"QNB Stars League", "Iran Pro League", "ADNOC Pro League",
		"Botola Pro 1", "DSTV Premiership", "Egyptian Premier League", "Ligue Professionnelle 1",
	},
	Solid: {
		"Sky Bet League One", "Sky Bet League Two", "Vanarama National League", "Liga Portugal 2 SABSEG",
		"3. Liga", "OBOS-ligaen", "PostNord-ligaen", "Challenge League", "Admiral 2. Liga", "Challenger Pro League",
		"Veikkausliiga", "Prva Liga Telemach", "I liga", "Fortuna 1 Liga", "II liga",
		"Serie C NOW", "Serie C", "Championnat National", "Segunda Federación", "Primera Federación",
		"Eerste Divisie", "Liga 2 BKT", "Liga Profesional de Fútbol", "Liga Profesional de Futbol",
		"Liga BetPlay Dimayor", "Primera División (Uruguay)", "Primera División (Paraguay)", "Primera División (Chile)",
		"Campeonato AFP PlanVital", "Liga Promerica", "Liga Panameña de Fútbol", "New Zealand National League",
	},
	Growth: {
		"USL Championship", "Canadian Premier League", "Liga BBVA Expansión MX", "Expansion MX",
		"Chinese Super League", "Ping An Chinese Football Association Super League",
		"Thai League 1", "V.League 1", "Vietnam V League 1", "A-League", "Isuzu UTE A-League",
		"K League 2", "J2 League", "Meiji Yasuda J2 League",
		"Jordan Pro League", "Kuwaiti Premier League", "Bahrain Premier League", "Uzbekistan Superliga", "Lebanese Premier League",
		"Malaysia Super League", "Astro Liga Super Malaysia",
		"Ligue 1 (Algeria)", "Liga 1 Mobilis", "Nigeria Professional Football League", "NPFL",
		"Vodacom Tanzania Premier League", "Zambia Super League", "MTN/FAZ Super Division", "Ghana Premier League",
	},
	Develop: {
		"National League North", "National League South", "Regionalliga", "Segunda Federación RFEF", "Tercera Federación",
		"Serie D", "Primera C/Torneo Argentino", "Primera B Metropolitana", "Torneo Federal A",
		"Primera B Nacional (Paraguay)", "Primera División B (Paraguay)", "Primera División B (Chile)", "Segunda División (Chile)",
		"USL League One", "USL League Two", "MLS Next Pro", "NISA",
		"Roshn Saudi League", "Saudi Pro League", "Roshin Saudi League", "Roshn Saudi Pro League",
		"Qatar Second Division", "Oman Professional League", "Iraq Stars League", "Turkmenistan Ýokary Liga", "Turkmenistan Yokary Liga",
		"Philippines Football League", "Kyrgyz Premier League", "Afghan Premier League", "Pakistan Premier League", "Sri Lanka Super League",
		"Bangladesh Premier League", "Hong Kong First Division League", "Hong Kong Premier League", "J3 League", "K League 3",
		"Liga 2 Indonesia", "JD Cymru North", "JD Cymru South",
	},
}

// Small European top flights that would otherwise match a broader pattern
// get forced down explicitly.
var downgradeToDevelop = union([]string{
	"Gibraltar Football League", "Gibraltar National League",
	"Betri deildin", "Betri deildin menn", "Faroe",
	"BGL Ligue", "Luxembourg National Division",
	"NIFL Premiership", "Sports Direct Premiership",
	"JD Cymru Premier", "Cymru Premier", "Welsh Premier",
	"A Lyga", "Virsliga", "Optibet Virsliga", "Optibet A lyga",
	"Abissnet Superiore",
	"Meridianbet 1.CFL", "Prva crnogorska liga",
	"Prva Makedonska Fudbalska Liga",
	"Crystalbet Erovnuli Liga", "Erovnuli Liga",
	"Maltese Premier League", "Campionato Sammarinese", "Andorran Primera Divisió", "Primera Divisió",
})

var saudiOverride = regexp.MustCompile(`(?i)saudi|roshn`)

type group struct {
	tier Tier
	re   *regexp.Regexp
}

var groups = func() []group {
	out := make([]group, 0, len(All))
	for _, t := range All {
		out = append(out, group{tier: t, re: union(groupNames[t])})
	}
	return out
}()

var (
	growthHeuristic  = regexp.MustCompile(`(?i)expansi[oó]n mx|usl|canadian premier|j2|k league 2|china|thai|v\.?league|malaysia|uzbek|lebanon|tanzania|zambia`)
	solidHeuristic   = regexp.MustCompile(`(?i)premier|first div|1st division|pro liga|liga 1|liga i|championship`)
	developHeuristic = regexp.MustCompile(`(?i)second|2nd|liga 2|division 2|liga ii|league two`)
)

// Classify maps a competition name to its tier.
func Classify(league string) Tier {
	s := strings.TrimSpace(league)
	if s == "" {
		return Solid
	}
	if downgradeToDevelop.MatchString(s) {
		return Develop
	}
	if saudiOverride.MatchString(s) {
		return Develop
	}
	for _, g := range groups {
		if g.re.MatchString(s) {
			return g.tier
		}
	}
	switch {
	case growthHeuristic.MatchString(s):
		return Growth
	case solidHeuristic.MatchString(s):
		return Solid
	case developHeuristic.MatchString(s):
		return Develop
	}
	return Solid
}
