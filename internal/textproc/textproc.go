// Package textproc tokenizes raw article text and ranks keywords by frequency.
package textproc

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokens is an ordered list of cleaned, lower-cased tokens.
type Tokens []string

// Keyword is a token with its frequency over a token list.
type Keyword struct {
	Token string
	Count int
}

// Preprocess lower-cases the text, splits it into alphanumeric tokens and
// drops short tokens and stopwords. Empty input yields an empty list.
func Preprocess(text string) Tokens {
	if text == "" {
		return Tokens{}
	}

	text = strings.ToLower(text)

	// Split on everything that is not a letter or digit (Unicode-aware).
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	filtered := make(Tokens, 0, len(tokens))
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) <= 2 {
			continue
		}
		if IsStopword(tok) {
			continue
		}
		filtered = append(filtered, tok)
	}
	return filtered
}

// RankKeywords counts token frequencies and returns the top n, descending by
// count. Ties keep first-seen order, so the ranking is stable across runs.
func RankKeywords(tokens Tokens, n int) []Keyword {
	if n <= 0 || len(tokens) == 0 {
		return nil
	}

	counts := make(map[string]int, len(tokens))
	firstSeen := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))

	for i, tok := range tokens {
		if _, seen := counts[tok]; !seen {
			firstSeen[tok] = i
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if n > len(order) {
		n = len(order)
	}
	ranked := make([]Keyword, 0, n)
	for _, tok := range order[:n] {
		ranked = append(ranked, Keyword{Token: tok, Count: counts[tok]})
	}
	return ranked
}

// Join renders tokens as the single space-joined string the term-frequency
// renderer consumes.
func Join(tokens Tokens) string {
	return strings.Join(tokens, " ")
}
