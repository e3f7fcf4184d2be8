// Package analysis derives summary, keywords, sentiment and country tags from news text.
package analysis

import (
	"strings"
	"unicode"
)

// extraLetters are the non-ASCII letters used by the Albanian stopword list.
const extraLetters = "ëËçÇüÜ"

// Normalize strips every rune that is not a Latin letter, one of the extra
// Albanian letters or whitespace, then splits the result into tokens.
// Case is preserved.
func Normalize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return r
		case unicode.IsSpace(r):
			return r
		case strings.ContainsRune(extraLetters, r):
			return r
		}
		return -1
	}, text)
	return strings.Fields(cleaned)
}

// Tokens returns the normalized tokens of text in lowercase.
func Tokens(text string) []string {
	tokens := Normalize(text)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}
	return tokens
}
