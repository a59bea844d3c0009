package cobertura

import (
	"math"
	"strconv"
	"strings"
)

// ParseInt parses a decimal integer numeral: optional sign, ASCII digits,
// no grouping separators.
func ParseInt(value string, loc Location) (int, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, malformed(value, loc, "empty numeral")
	}
	n, err := strconv.ParseInt(s, 10, 0)
	if err != nil {
		return 0, malformed(value, loc, "invalid integer %q", value)
	}
	return int(n), nil
}

// ParseNumber parses a decimal numeral with '.' as decimal point and no
// grouping separators. Hexadecimal, NaN and infinite values are rejected.
func ParseNumber(value string, loc Location) (float64, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, malformed(value, loc, "empty numeral")
	}
	if strings.ContainsAny(s, ",_xXpP") {
		return 0, malformed(value, loc, "invalid number %q", value)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, malformed(value, loc, "invalid number %q", value)
	}
	return f, nil
}

// parseCount parses a non negative count; fractional parts are truncated.
func parseCount(value string, loc Location) (int, error) {
	f, err := ParseNumber(value, loc)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, malformed(value, loc, "negative count %q", value)
	}
	if f >= float64(math.MaxInt) {
		return 0, malformed(value, loc, "count %q out of range", value)
	}
	return int(f), nil
}
