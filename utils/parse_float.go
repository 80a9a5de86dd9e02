package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseFloat converts a string to a float64, returning 0 if there's an error
func ParseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// FloatOr parses s, falling back when s is empty or not a number
func FloatOr(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// IntOr parses s as an integer, accepting "12.0" style values. It falls back
// when s is empty or not a number.
func IntOr(s string, fallback int) int {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(f)
	}
	return fallback
}
