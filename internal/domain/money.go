package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCents converts a decimal money string ("69.98", "70", "69.9")
// into int64 cents without going through floating point.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	cents := w*100 + f
	if negative {
		cents = -cents
	}
	return cents, nil
}

// FormatCents renders cents with exactly two decimal places, as the
// payment processor requires for the signed amount field.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// CentsWithin reports whether two amounts agree within tolerance cents.
func CentsWithin(a, b, tolerance int64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}
