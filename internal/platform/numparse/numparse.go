// Package numparse converts the loosely formatted numeric strings found in
// game exports (currency, percentages, k/m suffixes, dash placeholders) into
// float64 values. Missing or unparseable values become NaN, never zero.
package numparse

import (
	"math"
	"strconv"
	"strings"
)

// Numerify parses a display string into a float64. It strips currency
// symbols, thousands separators and a trailing percent sign, and applies
// k/m magnitude suffixes. Placeholder values ("-", "N/A", empty) and
// anything else unparseable return NaN.
func Numerify(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	if isPlaceholder(s) {
		return math.NaN()
	}

	mult := 1.0
	cleaned := strings.NewReplacer("£", "", "$", "", "€", "", ",", "", " ", "").Replace(s)
	cleaned = strings.TrimSuffix(cleaned, "%")

	switch {
	case hasFold(cleaned, "m"):
		mult = 1e6
		cleaned = cleaned[:len(cleaned)-1]
	case hasFold(cleaned, "k"):
		mult = 1e3
		cleaned = cleaned[:len(cleaned)-1]
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.NaN()
	}
	return v * mult
}

func hasFold(s, suffix string) bool {
	return len(s) > 0 && strings.EqualFold(s[len(s)-1:], suffix)
}

func isPlaceholder(s string) bool {
	for _, r := range s {
		if r != '-' && r != '–' && r != '—' {
			return false
		}
	}
	if s == "" {
		return false
	}
	return true
}

// MoneyRange is a parsed transfer-value estimate. Single figures collapse to
// Min == Max.
type MoneyRange struct {
	Min float64
	Max float64
	Mid float64
}

// ParseMoneyRange parses strings like "£10m - £15m" or "£2.5m". Either bound
// failing to parse yields a NaN range.
func ParseMoneyRange(s string) MoneyRange {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '–' || r == '—'
	})
	vals := make([]float64, 0, 2)
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		vals = append(vals, Numerify(p))
	}

	switch len(vals) {
	case 0:
		nan := math.NaN()
		return MoneyRange{Min: nan, Max: nan, Mid: nan}
	case 1:
		return MoneyRange{Min: vals[0], Max: vals[0], Mid: vals[0]}
	default:
		lo, hi := vals[0], vals[1]
		if hi < lo {
			lo, hi = hi, lo
		}
		return MoneyRange{Min: lo, Max: hi, Mid: (lo + hi) / 2}
	}
}

// FormatMoney renders an absolute amount in pounds as a compact display
// string (£1.25b, £12.5m, £850k).
func FormatMoney(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	neg := ""
	if v < 0 {
		neg = "-"
		v = -v
	}
	switch {
	case v >= 1e9:
		return neg + "£" + trimZeros(strconv.FormatFloat(v/1e9, 'f', 2, 64)) + "b"
	case v >= 1e6:
		return neg + "£" + trimZeros(strconv.FormatFloat(v/1e6, 'f', 2, 64)) + "m"
	case v >= 1e3:
		return neg + "£" + trimZeros(strconv.FormatFloat(v/1e3, 'f', 1, 64)) + "k"
	default:
		return neg + "£" + strconv.FormatFloat(v, 'f', 0, 64)
	}
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
