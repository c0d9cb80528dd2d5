package parser

import (
	"math"
	"strconv"
	"strings"
)

const infinityWord = "Infinity"

// scanNumber returns the length of the longest prefix of s that reads as a
// decimal floating-point literal: an optional sign followed by either
// "Infinity" or digits with an optional fraction and exponent. It returns 0
// when s has no numeric prefix.
func scanNumber(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], infinityWord) {
		return i + len(infinityWord)
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// parseLiteral converts the numeric prefix of s (of length n, as returned by
// scanNumber) to a float64.
func parseLiteral(s string, n int) float64 {
	lit := s[:n]
	switch strings.TrimLeft(lit, "+-") {
	case infinityWord:
		if strings.HasPrefix(lit, "-") {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	// scanNumber only admits well-formed literals, so the sole possible error
	// is a range error, for which ParseFloat already returns ±Inf.
	v, _ := strconv.ParseFloat(lit, 64)
	return v
}
