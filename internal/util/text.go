package util

import (
	"regexp"
	"strings"

	"supplymatch/internal"
)

var (
	reSpaces      = regexp.MustCompile(`\s+`)
	reArticleCode = regexp.MustCompile(`\s*\*[\dA-Za-zА-Яа-я]+\s*$`)
)

// NormalizeKey is the mapping-store key normalization: trim plus
// collapse of internal whitespace, so two invoice names differing only
// in spacing hit the same entry.
func NormalizeKey(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// CollapseSpaces flattens newlines and runs of whitespace to single
// spaces.
func CollapseSpaces(input string) string {
	return NormalizeKey(input)
}

// StripArticleCode removes a trailing embedded article code from a name
// cell ("Мука Высший *10013" → "Мука Высший") and collapses newlines.
func StripArticleCode(name string) string {
	s := strings.ReplaceAll(name, "\n", " ")
	s = reArticleCode.ReplaceAllString(s, "")
	return CollapseSpaces(s)
}

// NormalizeUnit maps free-text unit cells to the three supported units.
// Anything unrecognized is a piece.
func NormalizeUnit(unit string) internal.Unit {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		return internal.UnitPiece
	}
	if strings.Contains(u, "кг") || strings.Contains(u, "kilogram") || strings.Contains(u, "килограмм") {
		return internal.UnitKilogram
	}
	if strings.Contains(u, "л") || strings.Contains(u, "литр") || strings.Contains(u, "liter") {
		return internal.UnitLiter
	}
	return internal.UnitPiece
}

func StringPtr(v string) *string  { return &v }
func FloatPtr(v float64) *float64 { return &v }
