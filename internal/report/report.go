// Package report derives the statistics views over stored analyses.
package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/TobiSchelling/NewsLens/internal/analysis"
	"github.com/TobiSchelling/NewsLens/internal/database"
)

// TopKeywordLimit caps the global keyword ranking.
const TopKeywordLimit = 10

// UnknownCategory labels analyses submitted without a category.
const UnknownCategory = "Unknown"

// DefaultChannels seed the channel comparison table.
var DefaultChannels = []string{"TOP CHANNEL", "NEWS 24", "EURONEWS", "ABC NEWS", "ORA NEWS"}

// Count is a label with its number of analyses.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// SentimentHistogram counts analyses per sentiment.
type SentimentHistogram struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

func (h *SentimentHistogram) add(sentiment string, n int) {
	switch analysis.Sentiment(sentiment) {
	case analysis.Positive:
		h.Positive += n
	case analysis.Neutral:
		h.Neutral += n
	case analysis.Negative:
		h.Negative += n
	}
}

// ChannelSentiment is one row of the category by sentiment overview.
type ChannelSentiment struct {
	Channel   string `json:"channel"`
	Sentiment string `json:"sentiment"`
	Count     int    `json:"count"`
}

// ChannelRow is one channel of the comparison table.
type ChannelRow struct {
	Channel string `json:"channel"`
	SentimentHistogram
}

// Report is the full statistics view.
type Report struct {
	Total        int                `json:"total"`
	Sentiments   SentimentHistogram `json:"sentiments"`
	TopKeywords  []Count            `json:"top_keywords"`
	MonthlyTrend []Count            `json:"monthly_trend"`
	DailyTrend   []Count            `json:"daily_trend"`
	Categories   []Count            `json:"categories"`
	Overview     []ChannelSentiment `json:"overview"`
	Channels     []ChannelRow       `json:"channels"`
}

// Store is the subset of the analysis store the report is built from.
type Store interface {
	CountAnalyses(ctx context.Context) (int, error)
	CountBySentiment(ctx context.Context) ([]database.Count, error)
	CountByCategory(ctx context.Context) ([]database.Count, error)
	CountByMonth(ctx context.Context) ([]database.Count, error)
	CountByDay(ctx context.Context) ([]database.Count, error)
	CountByCategorySentiment(ctx context.Context) ([]database.CategorySentimentCount, error)
	GetKeywordLists(ctx context.Context) ([][]string, error)
}

// Aggregate computes the report over the given records. Records are
// expected in insertion order, which breaks keyword ranking ties.
func Aggregate(records []database.Analysis, channels []string) *Report {
	r := newReport(channels)
	r.Total = len(records)

	months := map[string]int{}
	days := map[string]int{}
	categories := map[string]int{}
	cells := map[[2]string]int{}
	keywords := make([][]string, 0, len(records))

	for _, rec := range records {
		sentiment := string(rec.Sentiment)
		r.Sentiments.add(sentiment, 1)
		if m := database.MonthKey(rec.Timestamp); m != "" {
			months[m]++
		}
		if d := database.DayKey(rec.Timestamp); d != "" {
			days[d]++
		}
		categories[rec.Category]++
		cells[[2]string{rec.Category, sentiment}]++
		keywords = append(keywords, rec.Keywords)
	}

	r.MonthlyTrend = sortedCounts(months)
	r.DailyTrend = sortedCounts(days)
	r.Categories = labelCategories(sortedCounts(categories))
	r.TopKeywords = rankKeywords(keywords)

	keys := make([][2]string, 0, len(cells))
	for k := range cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	for _, k := range keys {
		r.addCell(k[0], k[1], cells[k])
	}
	return r
}

// Build computes the report from the store's grouped queries.
func Build(ctx context.Context, store Store, channels []string) (*Report, error) {
	r := newReport(channels)

	total, err := store.CountAnalyses(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting analyses: %w", err)
	}
	r.Total = total

	bySentiment, err := store.CountBySentiment(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting sentiments: %w", err)
	}
	for _, c := range bySentiment {
		r.Sentiments.add(c.Label, c.Count)
	}

	lists, err := store.GetKeywordLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading keywords: %w", err)
	}
	r.TopKeywords = rankKeywords(lists)

	byMonth, err := store.CountByMonth(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting months: %w", err)
	}
	r.MonthlyTrend = convert(byMonth)

	byDay, err := store.CountByDay(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting days: %w", err)
	}
	r.DailyTrend = convert(byDay)

	byCategory, err := store.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting categories: %w", err)
	}
	r.Categories = labelCategories(convert(byCategory))

	cells, err := store.CountByCategorySentiment(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting channel sentiments: %w", err)
	}
	for _, c := range cells {
		r.addCell(c.Category, c.Sentiment, c.Count)
	}
	return r, nil
}

func newReport(channels []string) *Report {
	if len(channels) == 0 {
		channels = DefaultChannels
	}
	r := &Report{
		TopKeywords:  []Count{},
		MonthlyTrend: []Count{},
		DailyTrend:   []Count{},
		Categories:   []Count{},
		Overview:     []ChannelSentiment{},
		Channels:     make([]ChannelRow, 0, len(channels)),
	}
	for _, ch := range channels {
		r.Channels = append(r.Channels, ChannelRow{Channel: ch})
	}
	return r
}

// addCell records one category/sentiment total in the overview and, when the
// category is a known channel, in the comparison table.
func (r *Report) addCell(category, sentiment string, n int) {
	label := category
	if label == "" {
		label = UnknownCategory
	}
	r.Overview = append(r.Overview, ChannelSentiment{Channel: label, Sentiment: sentiment, Count: n})

	for i := range r.Channels {
		if r.Channels[i].Channel == category {
			r.Channels[i].add(sentiment, n)
			return
		}
	}
}

// rankKeywords counts keywords over all lists and returns the top entries
// by count, ties broken by first occurrence.
func rankKeywords(lists [][]string) []Count {
	counts := map[string]int{}
	var order []string
	for _, list := range lists {
		for _, w := range list {
			if w == "" {
				continue
			}
			if _, seen := counts[w]; !seen {
				order = append(order, w)
			}
			counts[w]++
		}
	}

	ranked := make([]Count, 0, len(order))
	for _, w := range order {
		ranked = append(ranked, Count{Label: w, Count: counts[w]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > TopKeywordLimit {
		ranked = ranked[:TopKeywordLimit]
	}
	return ranked
}

func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for label, n := range m {
		out = append(out, Count{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func convert(in []database.Count) []Count {
	out := make([]Count, 0, len(in))
	for _, c := range in {
		out = append(out, Count{Label: c.Label, Count: c.Count})
	}
	return out
}

func labelCategories(in []Count) []Count {
	for i := range in {
		if in[i].Label == "" {
			in[i].Label = UnknownCategory
		}
	}
	return in
}
