package analysis

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"go.uber.org/zap"

	"github.com/TobiSchelling/NewsLens/internal/logger"
)

// DefaultSummarySentences is the number of leading sentences kept as a summary.
const DefaultSummarySentences = 3

// abbreviations end with a period but do not end a sentence. Punkt's English
// model misses the Albanian ones.
var abbreviations = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {}, "sr": {}, "jr": {},
	"st": {}, "vs": {}, "nr": {}, "gen": {}, "gov": {}, "sen": {},
	"z": {}, "znj": {}, "p.sh": {}, "u.s": {}, "e.g": {}, "i.e": {},
}

// sentence closers that may trail the terminal punctuation.
const closers = `"')]}»”’`

var punkt = sync.OnceValues(func() (*sentences.DefaultSentenceTokenizer, error) {
	return english.NewSentenceTokenizer(nil)
})

// Summarizer keeps the first sentences of a text.
type Summarizer struct {
	sentences int
}

// NewSummarizer creates a summarizer keeping n sentences; n <= 0 means
// DefaultSummarySentences.
func NewSummarizer(n int) *Summarizer {
	if n <= 0 {
		n = DefaultSummarySentences
	}
	return &Summarizer{sentences: n}
}

// Summarize returns the first sentences of text joined by a single space.
func (s *Summarizer) Summarize(text string) string {
	sentences := SplitSentences(text)
	if len(sentences) > s.sentences {
		sentences = sentences[:s.sentences]
	}
	return strings.Join(sentences, " ")
}

// SplitSentences splits text with the Punkt English model. Each sentence has
// its whitespace collapsed; text after the last terminator is its own sentence.
func SplitSentences(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	tokenizer, err := punkt()
	if err != nil {
		logger.Warn("sentence model unavailable, keeping text whole", zap.Error(err))
		return []string{collapse(text)}
	}

	var out []string
	for _, s := range tokenizer.Tokenize(text) {
		frag := collapse(s.Text)
		if frag == "" {
			continue
		}
		// Closing quotes split off the previous sentence belong to it.
		if n := len(out); n > 0 {
			lead := leadingClosers(frag)
			if lead != "" && (len(lead) == len(frag) || frag[len(lead)] == ' ') {
				out[n-1] += lead
				frag = strings.TrimSpace(frag[len(lead):])
				if frag == "" {
					continue
				}
			}
			if endsWithAbbreviation(out[n-1]) {
				out[n-1] += " " + frag
				continue
			}
		}
		out = append(out, frag)
	}
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// leadingClosers returns the ASCII closers at the start of s.
func leadingClosers(s string) string {
	end := 0
	for end < len(s) && strings.ContainsRune(closers, rune(s[end])) {
		end++
	}
	return s[:end]
}

// endsWithAbbreviation reports whether a fragment ends in a known
// abbreviation or a single capital initial, as in "J. Smith".
func endsWithAbbreviation(frag string) bool {
	fields := strings.Fields(frag)
	if len(fields) == 0 {
		return false
	}
	last := fields[len(fields)-1]
	if !strings.HasSuffix(last, ".") {
		return false
	}
	word := strings.TrimLeft(strings.TrimSuffix(last, "."), closers+"([{«“‘")
	if word == "" {
		return false
	}
	if _, ok := abbreviations[strings.ToLower(word)]; ok {
		return true
	}
	if utf8.RuneCountInString(word) == 1 {
		r, _ := utf8.DecodeRuneInString(word)
		return unicode.IsUpper(r)
	}
	return false
}
