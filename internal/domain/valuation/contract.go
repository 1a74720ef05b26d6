package valuation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Expiry is a parsed contract end date, month precision.
type Expiry struct {
	Month int
	Year  int
}

var (
	ddmmyyyyRe  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	ddmmyyRe    = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2})$`)
	monthNameRe = regexp.MustCompile(`^([A-Za-z]+)\s+(\d{4})$`)
	mYYYYRe     = regexp.MustCompile(`^(\d{1,2})/(\d{4})$`)
	mmYYRe      = regexp.MustCompile(`^(\d{1,2})/(\d{2})$`)
	yearRe      = regexp.MustCompile(`^(\d{4})$`)
)

var monthNames = map[string]int{
	"jan": 1, "january": 1, "feb": 2, "february": 2, "mar": 3, "march": 3,
	"apr": 4, "april": 4, "may": 5, "jun": 6, "june": 6,
	"jul": 7, "july": 7, "aug": 8, "august": 8, "sep": 9, "september": 9,
	"oct": 10, "october": 10, "nov": 11, "november": 11, "dec": 12, "december": 12,
}

// ParseExpiry parses the contract expiry formats game exports use:
// "30/6/2025", "30/06/25", "Jun 2025", "June 2025", "6/2025", "06/25" and a
// bare "2025" (which defaults to June). Years outside 2020-2035 and
// anything else fail with ok=false.
func ParseExpiry(s string) (Expiry, bool) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return Expiry{}, false
	}

	if m := ddmmyyyyRe.FindStringSubmatch(clean); m != nil {
		return checkExpiry(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := ddmmyyRe.FindStringSubmatch(clean); m != nil {
		return checkExpiry(atoi(m[1]), atoi(m[2]), fullYear(atoi(m[3])))
	}
	if m := monthNameRe.FindStringSubmatch(clean); m != nil {
		month, ok := monthNames[strings.ToLower(m[1])]
		if !ok {
			return Expiry{}, false
		}
		return checkExpiry(1, month, atoi(m[2]))
	}
	if m := mYYYYRe.FindStringSubmatch(clean); m != nil {
		return checkExpiry(1, atoi(m[1]), atoi(m[2]))
	}
	if m := mmYYRe.FindStringSubmatch(clean); m != nil {
		return checkExpiry(1, atoi(m[1]), fullYear(atoi(m[2])))
	}
	if m := yearRe.FindStringSubmatch(clean); m != nil {
		return checkExpiry(1, 6, atoi(m[1]))
	}
	return Expiry{}, false
}

func checkExpiry(day, month, year int) (Expiry, bool) {
	if day < 1 || day > 31 || month < 1 || month > 12 || year < 2020 || year > 2035 {
		return Expiry{}, false
	}
	return Expiry{Month: month, Year: year}, true
}

func fullYear(short int) int {
	if short < 50 {
		return 2000 + short
	}
	return 1900 + short
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// ExpiryMultiplier maps a contract expiry string onto the transfer-value
// multiplier: 0.15 once expired, ramping through 0.3-0.7 inside six months,
// 0.7-0.9 inside a year, 0.9-0.98 inside two, and 1.0 beyond. Unparseable
// input is neutral 1.0.
func ExpiryMultiplier(expiryStr string, month, year int) float64 {
	exp, ok := ParseExpiry(expiryStr)
	if !ok {
		return 1.0
	}
	return monthsMultiplier(monthsUntil(exp, month, year))
}

func monthsUntil(exp Expiry, month, year int) int {
	return (exp.Year*12 + exp.Month) - (year*12 + month)
}

func monthsMultiplier(m int) float64 {
	switch {
	case m <= 0:
		return 0.15
	case m <= 6:
		return 0.3 + float64(m)/6*0.4
	case m <= 12:
		return 0.7 + float64(m-6)/6*0.2
	case m <= 24:
		return 0.9 + float64(m-12)/12*0.08
	default:
		return 1.0
	}
}

// ContractInfo is the parsed contract situation for display.
type ContractInfo struct {
	Raw         string  `json:"raw"`
	Multiplier  float64 `json:"multiplier"`
	Status      string  `json:"status"`
	MonthsUntil int     `json:"monthsUntil"`
	Parsed      bool    `json:"parsed"`
}

// Contract summarizes the expiry string relative to the current game date.
func Contract(expiryStr string, month, year int) ContractInfo {
	info := ContractInfo{Raw: expiryStr, Multiplier: 1.0, Status: "Unknown"}
	exp, ok := ParseExpiry(expiryStr)
	if !ok {
		return info
	}

	m := monthsUntil(exp, month, year)
	info.Parsed = true
	info.MonthsUntil = m
	info.Multiplier = monthsMultiplier(m)
	switch {
	case m <= 0:
		info.Status = "EXPIRED"
	case m <= 12:
		info.Status = fmt.Sprintf("%dmo left", m)
	case m <= 24:
		info.Status = fmt.Sprintf("%dyr %dmo", m/12, m%12)
	default:
		info.Status = fmt.Sprintf("%d+ years", m/12)
	}
	return info
}
