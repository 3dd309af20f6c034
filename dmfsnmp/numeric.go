package dmfsnmp

import (
	"math"
	"strconv"
)

// atoi parses the longest leading integer of s, after optional spaces and
// a sign. Anything unparsable is 0, and out of range values saturate.
func atoi(s string) int {
	i := skipSpace(s)
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == digits {
		return 0
	}
	// only range errors are left, and ParseInt saturates on those
	n, _ := strconv.ParseInt(s[start:i], 10, 0)
	return int(n)
}

// atof parses the longest leading decimal float of s, after optional
// spaces. Anything unparsable is 0.
func atof(s string) float64 {
	i := skipSpace(s)
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	mant := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i == mant || (i == mant+1 && s[mant] == '.') {
		return 0
	}
	// an exponent only counts when it has digits
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	f, err := strconv.ParseFloat(s[start:i], 64)
	if err != nil && !math.IsInf(f, 0) {
		return 0
	}
	return f
}

func skipSpace(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || (s[i] >= '\t' && s[i] <= '\r')) {
		i++
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
