package database

import "github.com/TobiSchelling/NewsLens/internal/analysis"

// Analysis is one stored analysis record.
type Analysis struct {
	ID           int64              `json:"id"`
	OriginalText string             `json:"original_text"`
	Summary      string             `json:"summary"`
	Keywords     []string           `json:"keywords"`
	Sentiment    analysis.Sentiment `json:"sentiment"`
	Category     string             `json:"category"`
	SourceURL    string             `json:"source_url,omitempty"`
	Timestamp    string             `json:"timestamp"`
}

// analysisRow mirrors the analyses table. Legacy rows may hold NULLs, so
// every text column is read through COALESCE.
type analysisRow struct {
	ID           int64  `db:"id"`
	OriginalText string `db:"original_text"`
	Summary      string `db:"summary"`
	Keywords     string `db:"keywords"`
	Sentiment    string `db:"sentiment"`
	Category     string `db:"category"`
	SourceURL    string `db:"source_url"`
	Timestamp    string `db:"timestamp"`
}

func (r analysisRow) toAnalysis() Analysis {
	return Analysis{
		ID:           r.ID,
		OriginalText: r.OriginalText,
		Summary:      r.Summary,
		Keywords:     SplitKeywords(r.Keywords),
		Sentiment:    analysis.Sentiment(r.Sentiment),
		Category:     r.Category,
		SourceURL:    r.SourceURL,
		Timestamp:    r.Timestamp,
	}
}

// Count is a label with the number of analyses carrying it.
type Count struct {
	Label string `db:"label" json:"label"`
	Count int    `db:"count" json:"count"`
}

// CategorySentimentCount is one cell of the category by sentiment table.
type CategorySentimentCount struct {
	Category  string `db:"category" json:"category"`
	Sentiment string `db:"sentiment" json:"sentiment"`
	Count     int    `db:"count" json:"count"`
}

// Stats holds aggregate database statistics.
type Stats struct {
	TotalAnalyses int `json:"total_analyses"`
	Positive      int `json:"positive"`
	Neutral       int `json:"neutral"`
	Negative      int `json:"negative"`
	Categories    int `json:"categories"`
	Months        int `json:"months"`
	FromURL       int `json:"from_url"`
}
