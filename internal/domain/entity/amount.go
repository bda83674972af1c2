package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MaxMagnitude is the largest amount accepted for a single movement or goal
var MaxMagnitude = decimal.New(1, 12)

// ParseMagnitude parses a user-supplied amount into a positive magnitude.
// A decimal comma is accepted as well as a dot. Values above MaxMagnitude, or too
// small to survive conversion to float64, are rejected.
func ParseMagnitude(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}

	if !d.IsPositive() || d.GreaterThan(MaxMagnitude) {
		return decimal.Zero, ErrInvalidAmount
	}

	// underflows to 0 once stored
	if d.InexactFloat64() == 0 {
		return decimal.Zero, ErrInvalidAmount
	}

	return d, nil
}
