package analysis

import "github.com/TobiSchelling/NewsLens/internal/config"

// Result holds everything derived from one text.
type Result struct {
	Summary   string
	Keywords  []Keyword
	Sentiment Sentiment
	Polarity  float64
	Country   string
}

// Analyzer runs the summarizer, keyword extractor, classifier and tagger
// over a text.
type Analyzer struct {
	keywords   *KeywordExtractor
	summarizer *Summarizer
	classifier *Classifier
	tagger     *CountryTagger
}

// Options configures an Analyzer. A nil Scorer uses the built-in lexicon.
type Options struct {
	Stopwords        []string
	Countries        []string
	UnknownCountry   string
	SummarySentences int
	MaxKeywords      int
	Scorer           PolarityScorer
}

// New creates an analyzer from explicit options.
func New(opts Options) *Analyzer {
	scorer := opts.Scorer
	if scorer == nil {
		scorer = NewLexicon(nil, nil)
	}
	return &Analyzer{
		keywords:   NewKeywordExtractor(opts.Stopwords, opts.MaxKeywords),
		summarizer: NewSummarizer(opts.SummarySentences),
		classifier: NewClassifier(scorer),
		tagger:     NewCountryTagger(opts.Countries, opts.UnknownCountry),
	}
}

// NewFromConfig creates an analyzer from the analysis config section.
func NewFromConfig(cfg config.Analysis) *Analyzer {
	return New(Options{
		Stopwords:        cfg.Stopwords,
		Countries:        cfg.Countries,
		UnknownCountry:   cfg.UnknownCountry,
		SummarySentences: cfg.SummarySentences,
		MaxKeywords:      cfg.MaxKeywords,
		Scorer:           NewLexicon(cfg.Lexicon.Positive, cfg.Lexicon.Negative),
	})
}

// Analyze derives summary, keywords, sentiment and country from text.
func (a *Analyzer) Analyze(text string) Result {
	sentiment, polarity := a.classifier.Classify(text)
	return Result{
		Summary:   a.summarizer.Summarize(text),
		Keywords:  a.keywords.Extract(text),
		Sentiment: sentiment,
		Polarity:  polarity,
		Country:   a.tagger.Detect(text),
	}
}
