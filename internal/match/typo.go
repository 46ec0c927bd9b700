package match

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Words carrying no matching signal. The tokenizer drops them along
// with anything shorter than three runes.
var stopWords = map[string]struct{}{
	"для": {}, "или": {}, "и": {}, "в": {}, "на": {}, "с": {},
	"по": {}, "из": {}, "от": {}, "до": {}, "без": {},
}

var tokenSplit = regexp.MustCompile(`[\s/\-()]+`)

// TypoTable rewrites recurring supplier misspellings before matching.
type TypoTable struct {
	rules []typoRule
}

type typoRule struct {
	re   *regexp.Regexp
	with string
}

// DefaultTypos is the curated misspelling table collected from real
// invoices.
func DefaultTypos() *TypoTable {
	return NewTypoTable(map[string]string{
		"авакадо": "авокадо",
		"нохот":   "нори",
		"мачёный": "маринованный",
	})
}

// NewTypoTable compiles word-boundary replacement rules. The boundary
// classes are written out explicitly: \b in Go regexp is ASCII-only and
// never fires around Cyrillic words.
func NewTypoTable(typos map[string]string) *TypoTable {
	t := &TypoTable{}
	for from, to := range typos {
		re := regexp.MustCompile(`(^|[\s/\-()])` + regexp.QuoteMeta(from) + `($|[\s/\-()])`)
		t.rules = append(t.rules, typoRule{re: re, with: "${1}" + to + "${2}"})
	}
	return t
}

// Normalize lowercases the query and applies the typo rules. Each rule
// runs to a fixed point because a match consumes its trailing separator
// and can hide an adjacent occurrence of the same word.
func (t *TypoTable) Normalize(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, r := range t.rules {
		for prev := ""; prev != q; {
			prev = q
			q = r.re.ReplaceAllString(q, r.with)
		}
	}
	return q
}

// Tokenize splits a query into significant words.
func (t *TypoTable) Tokenize(query string) []string {
	var out []string
	for _, w := range tokenSplit.Split(strings.ToLower(query), -1) {
		if utf8.RuneCountInString(w) < 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}
