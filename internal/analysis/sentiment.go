package analysis

import (
	"math"
	"strings"
)

// Sentiment is the polarity class of a text.
type Sentiment string

const (
	Positive Sentiment = "Positive"
	Neutral  Sentiment = "Neutral"
	Negative Sentiment = "Negative"
)

// Sentiments lists every sentiment in display order.
var Sentiments = []Sentiment{Positive, Neutral, Negative}

// Valid reports whether s is one of the three sentiments.
func (s Sentiment) Valid() bool {
	switch s {
	case Positive, Neutral, Negative:
		return true
	}
	return false
}

func (s Sentiment) String() string { return string(s) }

// ParseSentiment matches label against Sentiments ignoring case and
// surrounding space.
func ParseSentiment(label string) (Sentiment, bool) {
	label = strings.TrimSpace(label)
	for _, s := range Sentiments {
		if strings.EqualFold(label, string(s)) {
			return s, true
		}
	}
	return "", false
}

// PolarityScorer scores a text between -1 (negative) and 1 (positive).
type PolarityScorer interface {
	Polarity(text string) float64
}

// Classifier buckets polarity scores into sentiments.
type Classifier struct {
	scorer PolarityScorer
}

// NewClassifier creates a classifier backed by scorer.
func NewClassifier(scorer PolarityScorer) *Classifier {
	return &Classifier{scorer: scorer}
}

// Classify returns the sentiment of text along with its polarity.
func (c *Classifier) Classify(text string) (Sentiment, float64) {
	p := c.scorer.Polarity(text)
	return FromPolarity(p), p
}

// FromPolarity maps polarity > 0 to Positive, < 0 to Negative and
// everything else (including NaN) to Neutral.
func FromPolarity(p float64) Sentiment {
	switch {
	case math.IsNaN(p):
		return Neutral
	case p > 0:
		return Positive
	case p < 0:
		return Negative
	}
	return Neutral
}
