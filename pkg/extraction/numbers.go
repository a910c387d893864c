package extraction

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// parseInt reads a decimal integer, accepting any Unicode decimal digits.
// Values outside the int range clamp to math.MaxInt / math.MinInt so an
// absurd day count still lands past every return window.
func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(asciiDigits(strings.TrimSpace(s)))
	if err == nil {
		return n, true
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
		return n, true // Atoi already returns the clamped bound
	}
	return 0, false
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(asciiDigits(strings.TrimSpace(s)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// floatToInt truncates toward zero, clamping to the int range.
func floatToInt(f float64) (int, bool) {
	switch {
	case math.IsNaN(f):
		return 0, false
	case f >= math.MaxInt:
		return math.MaxInt, true
	case f <= math.MinInt:
		return math.MinInt, true
	}
	return int(f), true
}

// asciiDigits rewrites non-ASCII decimal digits (Arabic-Indic, fullwidth, ...)
// to '0'-'9'. Decimal digit blocks are contiguous runs of ten.
func asciiDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x80 || !unicode.IsDigit(r) {
			return r
		}
		zero := r
		for unicode.IsDigit(zero - 1) {
			zero--
		}
		return '0' + (r-zero)%10
	}, s)
}
