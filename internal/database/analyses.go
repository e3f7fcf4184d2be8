package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/TobiSchelling/NewsLens/internal/analysis"
	"github.com/jmoiron/sqlx"
)

// KeywordSeparator joins keywords in the keywords column.
const KeywordSeparator = ", "

const selectAnalyses = `SELECT id,
	COALESCE(original_text, '') AS original_text,
	COALESCE(summary, '') AS summary,
	COALESCE(keywords, '') AS keywords,
	COALESCE(sentiment, '') AS sentiment,
	COALESCE(category, '') AS category,
	source_url,
	COALESCE(timestamp, '') AS timestamp
	FROM analyses`

// JoinKeywords encodes keywords for storage.
func JoinKeywords(words []string) string {
	return strings.Join(words, KeywordSeparator)
}

// SplitKeywords decodes the keywords column. An empty value yields an
// empty list.
func SplitKeywords(s string) []string {
	words := []string{}
	for _, w := range strings.Split(s, ",") {
		w = strings.TrimSpace(w)
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// SaveAnalysis inserts one analysis and returns it with ID and Timestamp set.
func (db *DB) SaveAnalysis(ctx context.Context, a Analysis) (Analysis, error) {
	if !a.Sentiment.Valid() {
		return Analysis{}, &StorageError{Op: "save", Err: fmt.Errorf("invalid sentiment %q, want one of %v", a.Sentiment, analysis.Sentiments)}
	}
	if len(a.Keywords) > analysis.DefaultMaxKeywords {
		return Analysis{}, &StorageError{Op: "save", Err: fmt.Errorf("%d keywords exceeds limit of %d", len(a.Keywords), analysis.DefaultMaxKeywords)}
	}

	a.Timestamp = db.now().UTC().Format(TimestampLayout)
	row := analysisRow{
		OriginalText: a.OriginalText,
		Summary:      a.Summary,
		Keywords:     JoinKeywords(a.Keywords),
		Sentiment:    string(a.Sentiment),
		Category:     a.Category,
		SourceURL:    a.SourceURL,
		Timestamp:    a.Timestamp,
	}

	err := db.withConn(ctx, "save", func(conn *sqlx.DB) error {
		result, err := conn.NamedExecContext(ctx,
			`INSERT INTO analyses (original_text, summary, keywords, sentiment, category, source_url, timestamp)
			VALUES (:original_text, :summary, :keywords, :sentiment, :category, :source_url, :timestamp)`,
			row,
		)
		if err != nil {
			return err
		}
		a.ID, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return Analysis{}, err
	}
	if a.Keywords == nil {
		a.Keywords = []string{}
	}
	return a, nil
}

// GetAllAnalyses returns every stored analysis in insertion order.
func (db *DB) GetAllAnalyses(ctx context.Context) ([]Analysis, error) {
	var rows []analysisRow
	err := db.withConn(ctx, "list", func(conn *sqlx.DB) error {
		return conn.SelectContext(ctx, &rows, selectAnalyses+" ORDER BY id")
	})
	if err != nil {
		return nil, err
	}
	return toAnalyses(rows), nil
}

// GetRecentAnalyses returns up to limit analyses, newest first.
func (db *DB) GetRecentAnalyses(ctx context.Context, limit int) ([]Analysis, error) {
	var rows []analysisRow
	err := db.withConn(ctx, "recent", func(conn *sqlx.DB) error {
		return conn.SelectContext(ctx, &rows, selectAnalyses+" ORDER BY id DESC LIMIT ?", limit)
	})
	if err != nil {
		return nil, err
	}
	return toAnalyses(rows), nil
}

// GetRecentAnalysesBySentiment returns up to limit analyses labelled s,
// newest first.
func (db *DB) GetRecentAnalysesBySentiment(ctx context.Context, s analysis.Sentiment, limit int) ([]Analysis, error) {
	var rows []analysisRow
	err := db.withConn(ctx, "recent", func(conn *sqlx.DB) error {
		return conn.SelectContext(ctx, &rows, selectAnalyses+" WHERE sentiment = ? ORDER BY id DESC LIMIT ?", string(s), limit)
	})
	if err != nil {
		return nil, err
	}
	return toAnalyses(rows), nil
}

// GetAnalysis returns one analysis by ID, or nil if it does not exist.
func (db *DB) GetAnalysis(ctx context.Context, id int64) (*Analysis, error) {
	var row analysisRow
	found := true
	err := db.withConn(ctx, "get", func(conn *sqlx.DB) error {
		err := conn.GetContext(ctx, &row, selectAnalyses+" WHERE id = ?", id)
		if errors.Is(err, sql.ErrNoRows) {
			found = false
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	a := row.toAnalysis()
	return &a, nil
}

// HasSourceURL reports whether an analysis was already stored for url.
func (db *DB) HasSourceURL(ctx context.Context, url string) (bool, error) {
	var count int
	err := db.withConn(ctx, "lookup", func(conn *sqlx.DB) error {
		return conn.GetContext(ctx, &count, "SELECT COUNT(*) FROM analyses WHERE source_url = ?", url)
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetKeywordLists returns the decoded keyword list of every analysis.
func (db *DB) GetKeywordLists(ctx context.Context) ([][]string, error) {
	var raw []string
	err := db.withConn(ctx, "keywords", func(conn *sqlx.DB) error {
		return conn.SelectContext(ctx, &raw, "SELECT COALESCE(keywords, '') FROM analyses ORDER BY id")
	})
	if err != nil {
		return nil, err
	}
	lists := make([][]string, 0, len(raw))
	for _, s := range raw {
		lists = append(lists, SplitKeywords(s))
	}
	return lists, nil
}

func toAnalyses(rows []analysisRow) []Analysis {
	out := make([]Analysis, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toAnalysis())
	}
	return out
}
