package match

import (
	"strings"
	"unicode/utf8"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"supplymatch/internal"
)

// MatchSupplier picks the counteragent whose name is closest to the one
// printed on the invoice. The threshold must be beaten, not met; a
// query shorter than three runes is too ambiguous to trust. Ties keep
// the first candidate seen.
func MatchSupplier(name string, suppliers []internal.Supplier, minScore int) *internal.Supplier {
	query := strings.ToLower(strings.TrimSpace(name))
	if utf8.RuneCountInString(query) < 3 || len(suppliers) == 0 {
		return nil
	}

	var best *internal.Supplier
	bestScore := minScore
	for i := range suppliers {
		candidate := strings.ToLower(suppliers[i].Name)
		if candidate == "" {
			continue
		}
		score := fuzzy.Ratio(query, candidate)
		score = maxInt(score, fuzzy.PartialRatio(query, candidate))
		score = maxInt(score, fuzzy.TokenSetRatio(query, candidate, false))
		score = maxInt(score, fuzzy.TokenSortRatio(query, candidate, false))
		if score > bestScore {
			bestScore = score
			best = &suppliers[i]
		}
	}
	if best == nil {
		return nil
	}
	found := *best
	return &found
}
