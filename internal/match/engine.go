package match

import (
	"sort"
	"strings"
	"unicode/utf8"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"supplymatch/internal"
)

// Engine ranks catalog items against free-form invoice line names.
// It is stateless apart from the typo table and safe for concurrent use.
type Engine struct {
	typos *TypoTable
}

func NewEngine(typos *TypoTable) *Engine {
	if typos == nil {
		typos = DefaultTypos()
	}
	return &Engine{typos: typos}
}

// Search returns up to limit candidates scoring at least minScore,
// best first, shorter names winning ties. An empty query or catalog
// yields no candidates. Codes are tried before fuzzy matching: an
// exact code hit is definitive and skips ranking entirely.
func (e *Engine) Search(query string, catalog []internal.CatalogItem, limit, minScore int) []internal.MatchCandidate {
	if strings.TrimSpace(query) == "" || len(catalog) == 0 {
		return nil
	}
	q := e.typos.Normalize(query)

	if res := searchByCode(q, catalog, limit); len(res) > 0 {
		return res
	}

	result := e.searchIn(catalog, q, limit, minScore)

	// Relaxations fire only when the full query found nothing.
	var words []string
	if len(result) == 0 {
		words = e.typos.Tokenize(q)
		if len(words) == 0 {
			for _, w := range strings.Fields(q) {
				if utf8.RuneCountInString(w) >= 2 {
					words = append(words, w)
				}
			}
		}
		if len(words) > 0 {
			short := words[0]
			if len(words) >= 2 {
				short = words[0] + " " + words[1]
			}
			if short != q {
				result = e.searchIn(catalog, short, limit, minScore)
			}
		}
	}
	if len(result) == 0 && len(words) > 0 {
		longest := words[0]
		for _, w := range words[1:] {
			if utf8.RuneCountInString(w) > utf8.RuneCountInString(longest) {
				longest = w
			}
		}
		if utf8.RuneCountInString(longest) >= 4 {
			result = e.searchIn(catalog, longest, limit, minScore)
		}
	}
	// Фритюрное масло в накладных пишут десятком способов.
	if len(result) == 0 && strings.Contains(q, "масло") && strings.Contains(q, "фритюр") {
		result = e.searchIn(catalog, "масло фритюра", limit, minScore)
	}
	return result
}

// searchByCode resolves numeric article codes: either a digit token
// inside a mixed query ("гранат 00375") or a fully numeric query, exact
// match first, then substring. Hits keep catalog order.
func searchByCode(q string, catalog []internal.CatalogItem, limit int) []internal.MatchCandidate {
	var codeToken string
	for _, p := range strings.Fields(q) {
		if len(p) >= 3 && isAllDigits(p) {
			codeToken = p
			break
		}
	}
	if codeToken != "" {
		var out []internal.MatchCandidate
		for _, it := range catalog {
			if stripSpaces(it.Code) == codeToken {
				out = append(out, codeHit(it))
			}
		}
		if len(out) > 0 {
			return clip(out, limit)
		}
	}

	qClean := stripSpaces(q)
	if qClean == "" || !isAllDigits(qClean) {
		return nil
	}
	var exact, partial []internal.MatchCandidate
	for _, it := range catalog {
		code := stripSpaces(it.Code)
		if code == qClean {
			exact = append(exact, codeHit(it))
		} else if strings.Contains(code, qClean) {
			partial = append(partial, codeHit(it))
		}
	}
	if len(exact) > 0 {
		return clip(exact, limit)
	}
	return clip(partial, limit)
}

func (e *Engine) searchIn(catalog []internal.CatalogItem, query string, limit, minScore int) []internal.MatchCandidate {
	words := e.typos.Tokenize(query)
	required := 1
	if len(words) >= 2 {
		required = 2
	}

	var matches []internal.MatchCandidate
	for _, it := range catalog {
		name := strings.ToLower(it.Name)
		code := strings.ToLower(it.Code)

		score := fuzzy.Ratio(query, name)
		score = maxInt(score, fuzzy.Ratio(query, code))
		score = maxInt(score, fuzzy.PartialRatio(query, name))
		// forceAscii off: the default would strip Cyrillic before
		// tokenizing and zero out both token ratios.
		score = maxInt(score, fuzzy.TokenSetRatio(query, name, false))
		score = maxInt(score, fuzzy.TokenSortRatio(query, name, false))

		switch {
		case code != "" && query == code:
			score = 100
		case name == query || strings.HasPrefix(name, query+" ") || strings.HasSuffix(name, " "+query):
			score = maxInt(score, 95)
		case score <= 35:
			continue
		}

		if !anyWordInName(words, name) {
			continue
		}
		if countKeywordMatches(words, name) < required {
			continue
		}

		matches = append(matches, internal.MatchCandidate{
			ID: it.ID, Name: it.Name, Code: it.Code, Score: score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return utf8.RuneCountInString(matches[i].Name) < utf8.RuneCountInString(matches[j].Name)
	})
	matches = clip(matches, limit)

	out := matches[:0:0]
	for _, m := range matches {
		if m.Score >= minScore {
			out = append(out, m)
		}
	}
	return out
}

// anyWordInName requires at least one significant word of the query,
// whole or by its first five runes, inside the candidate name. No
// significant words means the gate is open.
func anyWordInName(words []string, name string) bool {
	if len(words) == 0 {
		return true
	}
	for _, w := range words {
		if strings.Contains(name, w) || containsPrefix(name, w) {
			return true
		}
	}
	return false
}

func countKeywordMatches(words []string, name string) int {
	count := 0
	for _, w := range words {
		if strings.Contains(name, w) || containsPrefix(name, w) {
			count++
		}
	}
	return count
}

// containsPrefix matches a word by its five-rune stem, tolerating
// declension endings.
func containsPrefix(name, word string) bool {
	r := []rune(word)
	if len(r) < 5 {
		return false
	}
	return strings.Contains(name, string(r[:5]))
}

func codeHit(it internal.CatalogItem) internal.MatchCandidate {
	return internal.MatchCandidate{ID: it.ID, Name: it.Name, Code: it.Code, Score: 100}
}

func clip(matches []internal.MatchCandidate, limit int) []internal.MatchCandidate {
	if limit > 0 && len(matches) > limit {
		return matches[:limit]
	}
	return matches
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
