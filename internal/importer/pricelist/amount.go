package pricelist

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount accepts both decimal comma and decimal point notation.
// Format examples: "1.234,56", "1,234.56", "3,20", "3.20", "€ 3,20".
// When both separators appear the last one is the decimal separator; a
// single separator repeated more than once groups thousands.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '€', ' ', ' ', '\'':
			return -1
		}

		return r
	}, s)

	if clean == "" {
		return decimal.Zero, fmt.Errorf("invalid number %q", s)
	}

	lastComma := strings.LastIndex(clean, ",")
	lastDot := strings.LastIndex(clean, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(clean, ",") > 1 {
			clean = strings.ReplaceAll(clean, ",", "")
		} else {
			clean = strings.Replace(clean, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(clean, ".") > 1 {
			clean = strings.ReplaceAll(clean, ".", "")
		}
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", s)
	}

	return d, nil
}

// parseCount parses a whole number of units; "12,00" is accepted.
func parseCount(s string) (int, error) {
	d, err := parseAmount(s)
	if err != nil {
		return 0, err
	}

	if !d.IsInteger() {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}

	return int(d.IntPart()), nil
}
