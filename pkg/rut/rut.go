// Package rut validates and formats Chilean RUT identifiers.
package rut

import (
	"strings"
	"unicode"
)

// Clean strips everything but digits and the verifier K, uppercased.
func Clean(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == 'k' || r == 'K':
			b.WriteRune('K')
		}
	}
	return b.String()
}

// Format renders a RUT as XX.XXX.XXX-X.
func Format(raw string) string {
	cleaned := Clean(raw)
	if len(cleaned) < 2 {
		return cleaned
	}

	body := cleaned[:len(cleaned)-1]
	dv := cleaned[len(cleaned)-1:]

	var b strings.Builder
	for i, r := range body {
		if i > 0 && (len(body)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String() + "-" + dv
}

// CheckDigit computes the modulo-11 verifier for a RUT body.
func CheckDigit(body string) string {
	digits := make([]int, 0, len(body))
	for _, r := range body {
		if unicode.IsDigit(r) {
			digits = append(digits, int(r-'0'))
		}
	}
	if len(digits) == 0 {
		return ""
	}

	sum := 0
	multiplier := 2
	for i := len(digits) - 1; i >= 0; i-- {
		sum += digits[i] * multiplier
		if multiplier == 7 {
			multiplier = 2
		} else {
			multiplier++
		}
	}

	switch remainder := 11 - (sum % 11); remainder {
	case 11:
		return "0"
	case 10:
		return "K"
	default:
		return string(rune('0' + remainder))
	}
}

// Valid reports whether the RUT has a correct verifier digit.
func Valid(raw string) bool {
	cleaned := Clean(raw)
	// 7-digit body plus verifier is the shortest RUT issued.
	if len(cleaned) < 8 || len(cleaned) > 9 {
		return false
	}

	body := cleaned[:len(cleaned)-1]
	dv := cleaned[len(cleaned)-1:]

	for _, r := range body {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return CheckDigit(body) == dv
}

// Normalize returns the storage form: digits and K only, no punctuation.
func Normalize(raw string) string {
	return Clean(raw)
}
