package analysis

import "strings"

// Lexicon is a weighted word-list polarity scorer.
type Lexicon struct {
	positive map[string]float64
	negative map[string]float64
}

// negators flip the polarity of the next lexicon word within negationWindow tokens.
var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "dont": {}, "didnt": {}, "isnt": {}, "wasnt": {},
	"nuk": {}, "jo": {}, "s": {}, "pa": {},
}

const negationWindow = 3

// NewLexicon creates a scorer from the built-in word lists. Extra words are
// merged over them and win on conflict.
func NewLexicon(extraPositive, extraNegative map[string]float64) *Lexicon {
	l := &Lexicon{
		positive: buildPositiveWords(),
		negative: buildNegativeWords(),
	}
	for w, weight := range extraPositive {
		w = strings.ToLower(w)
		delete(l.negative, w)
		l.positive[w] = weight
	}
	for w, weight := range extraNegative {
		w = strings.ToLower(w)
		delete(l.positive, w)
		l.negative[w] = weight
	}
	return l
}

// Polarity returns the mean weight of the matched words, clamped to [-1, 1].
// Texts without any lexicon word score 0.
func (l *Lexicon) Polarity(text string) float64 {
	var score float64
	matches := 0
	window := 0

	for _, word := range Tokens(text) {
		if _, ok := negators[word]; ok {
			window = negationWindow
			continue
		}
		sign := 1.0
		if window > 0 {
			sign = -1.0
			window--
		}

		if weight, ok := l.positive[word]; ok {
			score += sign * weight
			matches++
			window = 0
		} else if weight, ok := l.negative[word]; ok {
			score -= sign * weight
			matches++
			window = 0
		}
	}

	if matches == 0 {
		return 0.0
	}

	normalized := score / float64(matches)
	if normalized > 1.0 {
		normalized = 1.0
	} else if normalized < -1.0 {
		normalized = -1.0
	}
	return normalized
}

func buildPositiveWords() map[string]float64 {
	return map[string]float64{
		// English
		"good":       0.7,
		"great":      0.8,
		"excellent":  1.0,
		"best":       0.9,
		"win":        0.7,
		"won":        0.7,
		"wins":       0.7,
		"victory":    0.8,
		"success":    0.8,
		"successful": 0.8,
		"happy":      0.8,
		"celebrate":  0.7,
		"celebrated": 0.7,
		"growth":     0.5,
		"improve":    0.5,
		"improved":   0.5,
		"progress":   0.5,
		"peace":      0.6,
		"agreement":  0.4,
		"support":    0.4,
		"strong":     0.5,
		"positive":   0.5,
		"benefit":    0.5,
		"hope":       0.5,
		"achieved":   0.6,
		"record":     0.3,

		// Albanian
		"fitore":      0.8,
		"fitoi":       0.7,
		"fitojnë":     0.7,
		"fiton":       0.7,
		"sukses":      0.8,
		"suksesshme":  0.8,
		"gëzim":       0.8,
		"gëzuan":      0.7,
		"gëzuar":      0.7,
		"lumtur":      0.8,
		"mirë":        0.6,
		"shkëlqyer":   1.0,
		"bukur":       0.6,
		"paqe":        0.6,
		"marrëveshje": 0.4,
		"rritje":      0.5,
		"përmirësim":  0.5,
		"përparim":    0.5,
		"arritje":     0.6,
		"mbështetje":  0.4,
		"festë":       0.6,
		"festuan":     0.6,
		"pozitiv":     0.5,
		"pozitive":    0.5,
		"shpresë":     0.5,
	}
}

func buildNegativeWords() map[string]float64 {
	return map[string]float64{
		// English
		"bad":        0.7,
		"worst":      1.0,
		"poor":       0.6,
		"war":        0.8,
		"attack":     0.8,
		"killed":     1.0,
		"death":      0.9,
		"dead":       0.9,
		"crisis":     0.8,
		"fail":       0.7,
		"failed":     0.7,
		"failure":    0.7,
		"loss":       0.6,
		"lost":       0.6,
		"crash":      0.8,
		"conflict":   0.7,
		"corruption": 0.8,
		"scandal":    0.8,
		"violence":   0.9,
		"fear":       0.6,
		"decline":    0.5,
		"threat":     0.6,
		"accident":   0.7,
		"injured":    0.7,
		"arrested":   0.5,
		"negative":   0.5,

		// Albanian
		"luftë":      0.8,
		"sulm":       0.8,
		"sulmi":      0.8,
		"vdekje":     0.9,
		"vdiq":       0.9,
		"vrarë":      1.0,
		"krizë":      0.8,
		"dështim":    0.7,
		"dështoi":    0.7,
		"humbje":     0.6,
		"humbi":      0.6,
		"aksident":   0.7,
		"plagosur":   0.7,
		"arrestuar":  0.5,
		"korrupsion": 0.8,
		"skandal":    0.8,
		"dhunë":      0.9,
		"frikë":      0.6,
		"keq":        0.7,
		"rënie":      0.5,
		"kërcënim":   0.6,
		"negativ":    0.5,
		"trishtim":   0.7,
		"tragjedi":   0.9,
	}
}
