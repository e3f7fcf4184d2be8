package collect

import (
	"github.com/TobiSchelling/NewsLens/internal/config"
)

// NewFeedParserFromConfig builds a parser for the configured feeds.
func NewFeedParserFromConfig(cfg *config.Config) *FeedParser {
	feeds := make([]FeedConfig, len(cfg.Sources.Feeds))
	for i, f := range cfg.Sources.Feeds {
		feeds[i] = FeedConfig{URL: f.URL, Name: f.Name}
	}
	return NewFeedParser(feeds, cfg.Fetch.Timeout, cfg.Fetch.UserAgent)
}
