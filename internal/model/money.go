package model

import (
	"fmt"
	"math"
)

// Cents converts a decimal price from the backend wire format into minor
// units. Rounds half away from zero to absorb float representation noise
// (19.99 arrives as 19.989999...).
func Cents(price float64) int64 {
	return int64(math.Round(price * 100))
}

// Decimal converts minor units back to the backend's decimal format.
func Decimal(cents int64) float64 {
	return float64(cents) / 100
}

// FormatCents renders minor units as a display string, e.g. "$19.99".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
