// Package valuation estimates transfer values, buy prices, and wages from
// role scores, league tier, age, minutes, and contract situation.
package valuation

// Config holds every tunable constant of the value model. Tier-keyed maps
// use the five league tier names, family-keyed maps use GK/DF/MF/FW, and age
// curves map age (as a string key, for clean serialization) to a multiplier.
type Config struct {
	LeagueWeights map[string]float64 `json:"leagueWeights" koanf:"leagueWeights"`
	BaseScales    map[string]float64 `json:"baseScales" koanf:"baseScales"`

	ScorePower map[string]float64 `json:"scorePower" koanf:"scorePower"`
	ScoreFloor float64            `json:"scoreFloor" koanf:"scoreFloor"`

	MinMinutesRef     map[string]float64 `json:"minMinutesRef" koanf:"minMinutesRef"`
	MinMinutesFloor   float64            `json:"minMinutesFloor" koanf:"minMinutesFloor"`
	MinutesBoostCurve float64            `json:"minutesBoostCurve" koanf:"minutesBoostCurve"`

	AgeCurve map[string]map[string]float64 `json:"ageCurve" koanf:"ageCurve"`

	BigMetricBoostTopPct float64 `json:"bigMetricBoostTopPct" koanf:"bigMetricBoostTopPct"`
	BigMetricBoostPerHit float64 `json:"bigMetricBoostPerHit" koanf:"bigMetricBoostPerHit"`
	ExcellenceThreshold  float64 `json:"excellenceThreshold" koanf:"excellenceThreshold"`
	ExcellenceBonus      float64 `json:"excellenceBonus" koanf:"excellenceBonus"`

	RoleVersatilityBonus float64 `json:"roleVersatilityBonus" koanf:"roleVersatilityBonus"`

	PositionScarcity map[string]float64 `json:"positionScarcity" koanf:"positionScarcity"`

	BuyDiscount      float64            `json:"buyDiscount" koanf:"buyDiscount"`
	SellerMotivation map[string]float64 `json:"sellerMotivation" koanf:"sellerMotivation"`

	WagePerM             float64                       `json:"wagePerM" koanf:"wagePerM"`
	WageLeagueFactor     map[string]float64            `json:"wageLeagueFactor" koanf:"wageLeagueFactor"`
	WageAgeBoost         map[string]map[string]float64 `json:"wageAgeBoost" koanf:"wageAgeBoost"`
	WagePerformanceBonus map[string]float64            `json:"wagePerformanceBonus" koanf:"wagePerformanceBonus"`
	WageGroupFloor       map[string]float64            `json:"wageGroupFloor" koanf:"wageGroupFloor"`
	WageMinAbsolute      float64                       `json:"wageMinAbsolute" koanf:"wageMinAbsolute"`
	WageMaxMult          float64                       `json:"wageMaxMult" koanf:"wageMaxMult"`

	InflationRate   float64            `json:"inflationRate" koanf:"inflationRate"`
	EconomicFactors map[string]float64 `json:"economicFactors" koanf:"economicFactors"`
	ReputationBonus map[string]float64 `json:"reputationBonus" koanf:"reputationBonus"`
}

// Default returns the built-in value model constants.
func Default() Config {
	return Config{
		LeagueWeights: map[string]float64{"elite": 1.45, "strong": 1.00, "solid": 0.82, "growth": 0.72, "develop": 0.62},
		BaseScales:    map[string]float64{"elite": 95.0, "strong": 12.0, "solid": 7.5, "growth": 5.0, "develop": 3.5},

		ScorePower: map[string]float64{"GK": 1.08, "DF": 1.06, "MF": 1.04, "FW": 1.02},
		ScoreFloor: 0.15,

		MinMinutesRef:     map[string]float64{"GK": 2500, "DF": 2200, "MF": 2000, "FW": 1800},
		MinMinutesFloor:   0.40,
		MinutesBoostCurve: 1.2,

		AgeCurve: map[string]map[string]float64{
			"GK": {"16": 0.75, "20": 0.85, "24": 0.95, "28": 1.00, "32": 1.02, "35": 0.98, "38": 0.90, "42": 0.75},
			"DF": {"16": 0.80, "19": 0.90, "22": 0.98, "26": 1.00, "29": 0.98, "32": 0.94, "35": 0.87, "38": 0.78},
			"MF": {"16": 0.82, "18": 0.92, "21": 0.98, "25": 1.00, "28": 0.98, "31": 0.93, "34": 0.85, "37": 0.75},
			"FW": {"16": 0.78, "18": 0.88, "21": 0.96, "24": 1.00, "27": 0.98, "30": 0.92, "33": 0.83, "36": 0.70},
		},

		BigMetricBoostTopPct: 90,
		BigMetricBoostPerHit: 0.035,
		ExcellenceThreshold:  95,
		ExcellenceBonus:      0.08,

		RoleVersatilityBonus: 0.15,

		PositionScarcity: map[string]float64{
			"GK": 1.05, "D (C)": 1.00, "D (L)": 1.08, "D (R)": 1.08,
			"DM": 1.12, "M (C)": 1.00, "M (L)": 1.06, "M (R)": 1.06,
			"AM (C)": 1.15, "AM (L)": 1.10, "AM (R)": 1.10, "ST": 1.08,
		},

		BuyDiscount: 0.87,
		SellerMotivation: map[string]float64{
			"contractExpiring": 0.75,
			"youngProspect":    1.25,
			"starPlayer":       1.35,
			"rivalClub":        1.15,
		},

		WagePerM:         2800,
		WageLeagueFactor: map[string]float64{"elite": 1.40, "strong": 1.15, "solid": 1.00, "growth": 0.88, "develop": 0.82},
		WageAgeBoost: map[string]map[string]float64{
			"GK": {"17": 0.85, "21": 0.92, "25": 0.98, "29": 1.00, "33": 1.05, "37": 1.02, "40": 0.95},
			"DF": {"17": 0.88, "20": 0.94, "24": 0.99, "28": 1.00, "31": 1.03, "34": 0.98, "37": 0.90},
			"MF": {"17": 0.87, "19": 0.93, "23": 0.98, "27": 1.00, "30": 1.02, "33": 0.96, "36": 0.88},
			"FW": {"17": 0.85, "19": 0.91, "23": 0.97, "26": 1.00, "29": 0.98, "32": 0.92, "35": 0.82},
		},
		WagePerformanceBonus: map[string]float64{"elite": 1.25, "excellent": 1.15, "good": 1.05, "average": 1.00},
		WageGroupFloor:       map[string]float64{"elite": 1200, "strong": 700, "solid": 400, "growth": 200, "develop": 120},
		WageMinAbsolute:      100,
		WageMaxMult:          1.50,

		InflationRate:   1.03,
		EconomicFactors: map[string]float64{"elite": 1.10, "strong": 1.05, "solid": 1.00, "growth": 0.95, "develop": 0.90},
		ReputationBonus: map[string]float64{"worldClass": 1.30, "international": 1.20, "national": 1.10, "regional": 1.00},
	}
}

// Normalize back-fills any missing scalar or map entry from the defaults
// without touching values the caller set. Applying it twice yields the same
// config.
func (c Config) Normalize() Config {
	d := Default()

	c.LeagueWeights = mergeMap(c.LeagueWeights, d.LeagueWeights)
	c.BaseScales = mergeMap(c.BaseScales, d.BaseScales)
	c.ScorePower = mergeMap(c.ScorePower, d.ScorePower)
	c.MinMinutesRef = mergeMap(c.MinMinutesRef, d.MinMinutesRef)
	c.PositionScarcity = mergeMap(c.PositionScarcity, d.PositionScarcity)
	c.SellerMotivation = mergeMap(c.SellerMotivation, d.SellerMotivation)
	c.WageLeagueFactor = mergeMap(c.WageLeagueFactor, d.WageLeagueFactor)
	c.WagePerformanceBonus = mergeMap(c.WagePerformanceBonus, d.WagePerformanceBonus)
	c.WageGroupFloor = mergeMap(c.WageGroupFloor, d.WageGroupFloor)
	c.EconomicFactors = mergeMap(c.EconomicFactors, d.EconomicFactors)
	c.ReputationBonus = mergeMap(c.ReputationBonus, d.ReputationBonus)
	c.AgeCurve = mergeCurves(c.AgeCurve, d.AgeCurve)
	c.WageAgeBoost = mergeCurves(c.WageAgeBoost, d.WageAgeBoost)

	if c.ScoreFloor == 0 {
		c.ScoreFloor = d.ScoreFloor
	}
	if c.MinMinutesFloor == 0 {
		c.MinMinutesFloor = d.MinMinutesFloor
	}
	if c.MinutesBoostCurve == 0 {
		c.MinutesBoostCurve = d.MinutesBoostCurve
	}
	if c.BigMetricBoostTopPct == 0 {
		c.BigMetricBoostTopPct = d.BigMetricBoostTopPct
	}
	if c.BigMetricBoostPerHit == 0 {
		c.BigMetricBoostPerHit = d.BigMetricBoostPerHit
	}
	if c.ExcellenceThreshold == 0 {
		c.ExcellenceThreshold = d.ExcellenceThreshold
	}
	if c.ExcellenceBonus == 0 {
		c.ExcellenceBonus = d.ExcellenceBonus
	}
	if c.RoleVersatilityBonus == 0 {
		c.RoleVersatilityBonus = d.RoleVersatilityBonus
	}
	if c.BuyDiscount == 0 {
		c.BuyDiscount = d.BuyDiscount
	}
	if c.WagePerM == 0 {
		c.WagePerM = d.WagePerM
	}
	if c.WageMinAbsolute == 0 {
		c.WageMinAbsolute = d.WageMinAbsolute
	}
	if c.WageMaxMult == 0 {
		c.WageMaxMult = d.WageMaxMult
	}
	if c.InflationRate == 0 {
		c.InflationRate = d.InflationRate
	}
	return c
}

func mergeMap(dst, defaults map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range dst {
		out[k] = v
	}
	return out
}

func mergeCurves(dst, defaults map[string]map[string]float64) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(defaults))
	for fam, curve := range defaults {
		out[fam] = curve
	}
	for fam, curve := range dst {
		if len(curve) > 0 {
			out[fam] = curve
		}
	}
	return out
}
