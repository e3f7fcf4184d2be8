package analysis

import (
	"sort"
	"strings"
)

// DefaultMaxKeywords is the number of keywords kept per text.
const DefaultMaxKeywords = 10

// Keyword is a word and the number of times it occurs in a text.
type Keyword struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// KeywordExtractor ranks non-stopword tokens by frequency.
type KeywordExtractor struct {
	stopwords map[string]struct{}
	limit     int
}

// NewKeywordExtractor creates an extractor over a fixed stopword list.
// Stopwords are compared in lowercase; limit <= 0 means DefaultMaxKeywords.
func NewKeywordExtractor(stopwords []string, limit int) *KeywordExtractor {
	if limit <= 0 {
		limit = DefaultMaxKeywords
	}
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return &KeywordExtractor{stopwords: set, limit: limit}
}

// IsStopword reports whether word is in the stopword set.
func (e *KeywordExtractor) IsStopword(word string) bool {
	_, ok := e.stopwords[strings.ToLower(word)]
	return ok
}

// Extract returns up to limit keywords ordered by descending count.
// Ties keep the order in which the words first appeared.
func (e *KeywordExtractor) Extract(text string) []Keyword {
	counts := make(map[string]int)
	var order []string
	for _, tok := range Tokens(text) {
		if e.IsStopword(tok) {
			continue
		}
		if _, seen := counts[tok]; !seen {
			order = append(order, tok)
		}
		counts[tok]++
	}

	keywords := make([]Keyword, 0, len(order))
	for _, w := range order {
		keywords = append(keywords, Keyword{Word: w, Count: counts[w]})
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Count > keywords[j].Count
	})

	if len(keywords) > e.limit {
		keywords = keywords[:e.limit]
	}
	return keywords
}

// Words returns just the words of keywords, preserving order.
func Words(keywords []Keyword) []string {
	words := make([]string, len(keywords))
	for i, k := range keywords {
		words[i] = k.Word
	}
	return words
}
