// Package pricing turns free-form listing strings into comparable numbers.
package pricing

import (
	"math"
	"strconv"
	"strings"

	"swissprop/server/internal/models"
)

// Unpriced is the value assigned to prices that cannot be read. It sorts after
// every real price and must never enter an aggregate.
var Unpriced = math.Inf(1)

// ParsePrice converts a listing price such as "CHF 1,250,000" into a number.
// Every rune other than an ASCII digit or '.' is dropped, which removes
// currency codes, thousands separators and whitespace. "Price on request",
// an empty residue, more than one decimal point or an otherwise invalid
// number yield Unpriced.
//
// Dots are kept wherever they appear, so an abbreviated currency prefix is
// read as a decimal point: "Fr. 850'000" parses to 0.85, not 850000. Such a
// listing falls below any realistic minimum price and is filtered out rather
// than guessed at.
func ParsePrice(text string) float64 {
	if text == models.PriceOnRequest {
		return Unpriced
	}

	var b strings.Builder
	dots := 0
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.':
			dots++
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" || dots > 1 {
		return Unpriced
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return Unpriced
	}
	return value
}

// IsPriced reports whether v is a real price rather than the Unpriced sentinel.
func IsPriced(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// ParseSize reads the leading number of a size string such as "120 m²".
// Missing or unreadable sizes are 0.
func ParseSize(size *string) float64 {
	if size == nil {
		return 0
	}
	fields := strings.Fields(*size)
	if len(fields) == 0 {
		return 0
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(fields[0], ",", "."), 64)
	if err != nil {
		return 0
	}
	return value
}
