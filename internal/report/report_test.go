package report

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/TobiSchelling/NewsLens/internal/analysis"
	"github.com/TobiSchelling/NewsLens/internal/database"
)

func sampleRecords() []database.Analysis {
	return []database.Analysis{
		{ID: 1, Keywords: []string{"zgjedhje", "qeveria"}, Sentiment: analysis.Positive, Category: "TOP CHANNEL", Timestamp: "2026-01-10 08:00:00"},
		{ID: 2, Keywords: []string{"qeveria", "ekonomia"}, Sentiment: analysis.Negative, Category: "TOP CHANNEL", Timestamp: "2026-01-12 09:00:00"},
		{ID: 3, Keywords: []string{"futboll"}, Sentiment: analysis.Neutral, Category: "", Timestamp: "2026-02-01 10:00:00"},
		{ID: 4, Keywords: []string{}, Sentiment: analysis.Positive, Category: "BBC", Timestamp: "2026-02-01 11:00:00"},
	}
}

func TestAggregateEmpty(t *testing.T) {
	r := Aggregate(nil, nil)
	if r.Total != 0 || r.Sentiments != (SentimentHistogram{}) {
		t.Errorf("expected zero report, got %+v", r)
	}
	if len(r.TopKeywords) != 0 || len(r.MonthlyTrend) != 0 || len(r.Categories) != 0 || len(r.Overview) != 0 {
		t.Errorf("expected empty lists, got %+v", r)
	}
	if len(r.Channels) != len(DefaultChannels) {
		t.Fatalf("expected %d seeded channels, got %d", len(DefaultChannels), len(r.Channels))
	}
	for i, ch := range r.Channels {
		if ch.Channel != DefaultChannels[i] || ch.SentimentHistogram != (SentimentHistogram{}) {
			t.Errorf("unexpected channel row %+v", ch)
		}
	}
}

func TestAggregate(t *testing.T) {
	r := Aggregate(sampleRecords(), nil)

	if r.Total != 4 {
		t.Errorf("expected total 4, got %d", r.Total)
	}
	if r.Sentiments != (SentimentHistogram{Positive: 2, Neutral: 1, Negative: 1}) {
		t.Errorf("unexpected histogram %+v", r.Sentiments)
	}
	if r.Sentiments.Positive+r.Sentiments.Neutral+r.Sentiments.Negative != r.Total {
		t.Error("histogram does not sum to total")
	}

	wantKeywords := []Count{{"qeveria", 2}, {"zgjedhje", 1}, {"ekonomia", 1}, {"futboll", 1}}
	if !reflect.DeepEqual(r.TopKeywords, wantKeywords) {
		t.Errorf("expected keywords %v, got %v", wantKeywords, r.TopKeywords)
	}

	wantMonths := []Count{{"2026-01", 2}, {"2026-02", 2}}
	if !reflect.DeepEqual(r.MonthlyTrend, wantMonths) {
		t.Errorf("expected months %v, got %v", wantMonths, r.MonthlyTrend)
	}

	wantCategories := []Count{{UnknownCategory, 1}, {"BBC", 1}, {"TOP CHANNEL", 2}}
	if !reflect.DeepEqual(r.Categories, wantCategories) {
		t.Errorf("expected categories %v, got %v", wantCategories, r.Categories)
	}

	if r.Channels[0].Channel != "TOP CHANNEL" || r.Channels[0].Positive != 1 || r.Channels[0].Negative != 1 {
		t.Errorf("unexpected TOP CHANNEL row %+v", r.Channels[0])
	}
	for _, ch := range r.Channels {
		if ch.Channel == "BBC" {
			t.Error("categories outside the channel list must not be added")
		}
	}
	if len(r.Overview) != 4 || r.Overview[0].Channel != UnknownCategory {
		t.Errorf("unexpected overview %+v", r.Overview)
	}
}

func TestAggregateKeywordLimit(t *testing.T) {
	var records []database.Analysis
	for _, w := range strings.Fields("a b c d e f g h i j k l") {
		records = append(records, database.Analysis{Keywords: []string{w}, Sentiment: analysis.Neutral})
	}
	r := Aggregate(records, nil)
	if len(r.TopKeywords) != TopKeywordLimit {
		t.Fatalf("expected %d keywords, got %d", TopKeywordLimit, len(r.TopKeywords))
	}
	if r.TopKeywords[0].Label != "a" || r.TopKeywords[9].Label != "j" {
		t.Errorf("ties must keep first occurrence order: %v", r.TopKeywords)
	}
}

func TestAggregateCustomChannels(t *testing.T) {
	r := Aggregate(sampleRecords(), []string{"BBC"})
	if len(r.Channels) != 1 || r.Channels[0].Positive != 1 {
		t.Errorf("unexpected channels %+v", r.Channels)
	}
}

func TestBuildMatchesAggregate(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "report.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	ctx := context.Background()
	for _, rec := range sampleRecords() {
		if _, err := db.SaveAnalysis(ctx, rec); err != nil {
			t.Fatalf("SaveAnalysis: %v", err)
		}
	}

	stored, err := db.GetAllAnalyses(ctx)
	if err != nil {
		t.Fatalf("GetAllAnalyses: %v", err)
	}
	want := Aggregate(stored, nil)

	got, err := Build(ctx, db, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build and Aggregate disagree:\nbuild:     %+v\naggregate: %+v", got, want)
	}
}

type failingStore struct{ Store }

func (failingStore) CountAnalyses(context.Context) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestBuildPropagatesStoreError(t *testing.T) {
	if _, err := Build(context.Background(), failingStore{}, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(Aggregate(sampleRecords(), nil))
	for _, want := range []string{
		"Total analyses: **4**",
		"- Positive: 2",
		"1. qeveria (2)",
		"- Jan 2026: 2",
		"| TOP CHANNEL | 1 | 0 | 1 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("expected markdown to contain %q\n%s", want, md)
		}
	}

	empty := Markdown(Aggregate(nil, nil))
	if !strings.Contains(empty, "_No data yet._") {
		t.Errorf("expected placeholder in empty report:\n%s", empty)
	}
}
