package collect

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/TobiSchelling/NewsLens/internal/logger"
)

const maxPerFeed = 20

// FeedEntry represents a parsed feed entry.
type FeedEntry struct {
	URL           string
	Title         string
	PublishedDate string // YYYY-MM-DD or empty
	Content       string
	Source        string
}

// FeedConfig represents a single feed configuration.
type FeedConfig struct {
	URL  string
	Name string
}

// FeedParser parses RSS/Atom feeds.
type FeedParser struct {
	feeds     []FeedConfig
	client    *http.Client
	userAgent string
	now       func() time.Time
}

// NewFeedParser creates a new FeedParser.
func NewFeedParser(feeds []FeedConfig, timeout time.Duration, userAgent string) *FeedParser {
	return &FeedParser{
		feeds:     feeds,
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		now:       time.Now,
	}
}

// ParseAll parses all configured feeds and returns entries within daysBack.
// A feed that fails to load is logged and skipped.
func (fp *FeedParser) ParseAll(ctx context.Context, daysBack int) []FeedEntry {
	cutoff := fp.now().AddDate(0, 0, -daysBack).Truncate(24 * time.Hour)
	var all []FeedEntry

	parser := gofeed.NewParser()
	parser.Client = fp.client
	if fp.userAgent != "" {
		parser.UserAgent = fp.userAgent
	}

	for _, fc := range fp.feeds {
		name := fc.Name
		if name == "" {
			name = extractSourceName(fc.URL)
		}

		entries, err := parseFeed(ctx, parser, fc.URL, name, cutoff)
		if err != nil {
			logger.Warn("failed to parse feed", zap.String("url", fc.URL), zap.Error(err))
			continue
		}
		all = append(all, entries...)
		logger.Info("parsed feed",
			zap.String("source", name), zap.Int("entries", len(entries)), zap.Int("days_back", daysBack))
	}

	return all
}

func parseFeed(ctx context.Context, parser *gofeed.Parser, feedURL, sourceName string, cutoff time.Time) ([]FeedEntry, error) {
	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	var entries []FeedEntry
	for _, item := range feed.Items {
		if len(entries) >= maxPerFeed {
			break
		}

		entry := parseItem(item, sourceName)
		if entry == nil {
			continue
		}
		if isWithinWindow(entry.PublishedDate, cutoff) {
			entries = append(entries, *entry)
		}
	}

	return entries, nil
}

// parseItem turns a feed item into an entry. Items without a title are
// dropped, as are items with neither inline text nor a fetchable link since
// there is nothing to analyze.
func parseItem(item *gofeed.Item, source string) *FeedEntry {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return nil
	}

	itemURL := strings.TrimSpace(item.Link)
	if itemURL == "" && isFetchable(item.GUID) {
		itemURL = strings.TrimSpace(item.GUID)
	}

	// content:encoded usually carries the full story and the description a
	// teaser, but some portals swap them.
	content := stripHTML(item.Content)
	if desc := stripHTML(item.Description); len(desc) > len(content) {
		content = desc
	}

	if itemURL == "" {
		if content == "" {
			return nil
		}
		itemURL = strings.TrimSpace(item.GUID)
	}

	var publishedDate string
	if pub := itemTime(item); pub != nil {
		publishedDate = pub.UTC().Format(dateLayout)
	}

	return &FeedEntry{
		URL:           itemURL,
		Title:         title,
		PublishedDate: publishedDate,
		Content:       content,
		Source:        source,
	}
}

const dateLayout = "2006-01-02"

func itemTime(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	return item.UpdatedParsed
}

// isFetchable reports whether raw is an absolute http(s) URL.
func isFetchable(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// isWithinWindow keeps undated entries.
func isWithinWindow(publishedDate string, cutoff time.Time) bool {
	pub, err := time.Parse(dateLayout, publishedDate)
	if err != nil {
		return true
	}
	return !pub.Before(cutoff)
}

// stripHTML returns the visible text of an HTML fragment with whitespace
// collapsed. Entities are decoded by the parser.
func stripHTML(text string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return strings.Join(strings.Fields(text), " ")
	}
	// Block elements would otherwise glue adjacent words together.
	doc.Find("p, br, div, li").Each(func(_ int, s *goquery.Selection) {
		s.BeforeHtml(" ")
	})
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// genericSLDs are second-level labels under a country domain, as in
// top-channel.com.al or gazeta.gov.al.
var genericSLDs = map[string]bool{"com": true, "net": true, "org": true, "gov": true, "edu": true, "co": true}

func extractSourceName(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil || u.Hostname() == "" {
		return feedURL
	}
	host := strings.ToLower(u.Hostname())

	for _, prefix := range []string{"www.", "rss.", "feeds.", "lajme.", "news."} {
		host = strings.TrimPrefix(host, prefix)
	}

	parts := strings.Split(host, ".")
	switch {
	case len(parts) >= 3 && genericSLDs[parts[len(parts)-2]]:
		return strings.ToUpper(parts[len(parts)-3])
	case len(parts) >= 2:
		return strings.ToUpper(parts[len(parts)-2])
	}
	return strings.ToUpper(host)
}
