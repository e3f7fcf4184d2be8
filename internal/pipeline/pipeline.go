package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/TobiSchelling/NewsLens/internal/analysis"
	"github.com/TobiSchelling/NewsLens/internal/collect"
	"github.com/TobiSchelling/NewsLens/internal/config"
	"github.com/TobiSchelling/NewsLens/internal/database"
	"github.com/TobiSchelling/NewsLens/internal/fetch"
	"github.com/TobiSchelling/NewsLens/internal/logger"
)

// ErrNoContent is returned when a submission yields no text to analyze.
var ErrNoContent = errors.New("no text provided or extracted")

// DefaultMinFeedContent is the feed content length below which the item
// URL is fetched instead.
const DefaultMinFeedContent = 200

// Acquirer fetches article text for a URL.
type Acquirer interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Store persists analyses.
type Store interface {
	SaveAnalysis(ctx context.Context, a database.Analysis) (database.Analysis, error)
	HasSourceURL(ctx context.Context, url string) (bool, error)
}

// FeedSource lists recent feed entries.
type FeedSource interface {
	ParseAll(ctx context.Context, daysBack int) []collect.FeedEntry
}

// Submission is one request to analyze text. When URL is set it is fetched
// and wins over Text; Text is the fallback when the fetch fails.
type Submission struct {
	Text     string
	URL      string
	Category string
	// Origin is recorded as the source URL when Text is analyzed as given.
	Origin string
}

// Outcome is the result of one submission.
type Outcome struct {
	Record   database.Analysis
	Keywords []analysis.Keyword
	Polarity float64
	Country  string
	// FetchErr is set when the URL could not be fetched and Text was used.
	FetchErr error
}

// Pipeline orchestrates acquisition, analysis and storage.
type Pipeline struct {
	analyzer       *analysis.Analyzer
	acquirer       Acquirer
	store          Store
	minFeedContent int
}

// New creates a pipeline from its parts.
func New(analyzer *analysis.Analyzer, acquirer Acquirer, store Store) *Pipeline {
	return &Pipeline{
		analyzer:       analyzer,
		acquirer:       acquirer,
		store:          store,
		minFeedContent: DefaultMinFeedContent,
	}
}

// FromConfig wires the pipeline with the configured analyzer and fetcher.
func FromConfig(cfg *config.Config, db *database.DB) *Pipeline {
	p := New(analysis.NewFromConfig(cfg.Analysis), fetch.NewAcquirer(cfg.Fetch), db)
	if cfg.Fetch.MinFeedContent > 0 {
		p.minFeedContent = cfg.Fetch.MinFeedContent
	}
	return p
}

// Submit acquires, analyzes and stores one submission. If storage fails the
// computed Outcome is still returned together with the error.
func (p *Pipeline) Submit(ctx context.Context, sub Submission) (*Outcome, error) {
	text := sub.Text
	sourceURL := sub.Origin
	var fetchErr error

	if u := strings.TrimSpace(sub.URL); u != "" {
		fetched, err := p.acquirer.Fetch(ctx, u)
		if err != nil {
			fetchErr = err
			logger.Warn("url fetch failed, using pasted text", zap.String("url", u), zap.Error(err))
		} else {
			text = fetched
			sourceURL = u
		}
	}

	if strings.TrimSpace(text) == "" {
		if fetchErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoContent, fetchErr)
		}
		return nil, ErrNoContent
	}

	result := p.analyzer.Analyze(text)
	out := &Outcome{
		Record: database.Analysis{
			OriginalText: text,
			Summary:      result.Summary,
			Keywords:     analysis.Words(result.Keywords),
			Sentiment:    result.Sentiment,
			Category:     sub.Category,
			SourceURL:    sourceURL,
		},
		Keywords: result.Keywords,
		Polarity: result.Polarity,
		Country:  result.Country,
		FetchErr: fetchErr,
	}

	saved, err := p.store.SaveAnalysis(ctx, out.Record)
	if err != nil {
		logger.Error("saving analysis failed", zap.Error(err))
		return out, err
	}
	out.Record = saved

	logger.Info("analysis saved",
		zap.Int64("id", saved.ID),
		zap.String("sentiment", saved.Sentiment.String()),
		zap.String("category", saved.Category),
		zap.String("country", out.Country))
	return out, nil
}

// CollectResult summarizes a feed collection run.
type CollectResult struct {
	Found    int
	Analyzed int
	Skipped  int
	Failed   int
	Sources  map[string]int
}

// CollectFeeds analyzes recent feed entries that were not analyzed before.
// Each entry's feed name becomes its category.
func (p *Pipeline) CollectFeeds(ctx context.Context, feeds FeedSource, daysBack int) (*CollectResult, error) {
	entries := feeds.ParseAll(ctx, daysBack)
	r := &CollectResult{Found: len(entries), Sources: make(map[string]int)}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return r, err
		}

		seen, err := p.store.HasSourceURL(ctx, entry.URL)
		if err != nil {
			return r, err
		}
		if seen {
			r.Skipped++
			continue
		}

		sub := Submission{Text: entry.Content, Category: entry.Source, Origin: entry.URL}
		if len([]rune(entry.Content)) < p.minFeedContent {
			sub.URL = entry.URL
		}

		_, err = p.Submit(ctx, sub)
		if err != nil {
			var se *database.StorageError
			if errors.As(err, &se) {
				return r, err
			}
			r.Failed++
			logger.Warn("skipping feed entry", zap.String("url", entry.URL), zap.Error(err))
			continue
		}
		r.Analyzed++
		r.Sources[entry.Source]++
	}

	logger.Info("collection complete",
		zap.Int("found", r.Found), zap.Int("analyzed", r.Analyzed),
		zap.Int("skipped", r.Skipped), zap.Int("failed", r.Failed))
	return r, nil
}
