package util

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal parses a numeric cell the way invoice exports format
// them: spaces and NBSPs stripped, comma as the decimal point. A lone
// comma or dot with trailing digits is always a fraction, so "1,500"
// is one and a half kilos, not fifteen hundred. Returns false for
// anything non-numeric.
func ParseDecimal(input string) (decimal.Decimal, bool) {
	s := strings.ReplaceAll(input, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ParsePositiveInt reports the integer value of a row-number cell.
// Spreadsheets often render integers as "3.0", so a trailing zero
// fraction is accepted.
func ParsePositiveInt(input string) (int, bool) {
	d, ok := ParseDecimal(input)
	if !ok || !d.IsInteger() {
		return 0, false
	}
	n := int(d.IntPart())
	if n <= 0 {
		return 0, false
	}
	return n, true
}
