package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// CountAnalyses returns the number of stored analyses.
func (db *DB) CountAnalyses(ctx context.Context) (int, error) {
	var n int
	err := db.withConn(ctx, "count", func(conn *sqlx.DB) error {
		return conn.GetContext(ctx, &n, "SELECT COUNT(*) FROM analyses")
	})
	return n, err
}

// CountBySentiment groups analyses by sentiment label.
func (db *DB) CountBySentiment(ctx context.Context) ([]Count, error) {
	return db.counts(ctx, "count by sentiment",
		`SELECT COALESCE(sentiment, '') AS label, COUNT(*) AS count
		FROM analyses GROUP BY label ORDER BY label`)
}

// CountByCategory groups analyses by category. Missing categories count
// under the empty label.
func (db *DB) CountByCategory(ctx context.Context) ([]Count, error) {
	return db.counts(ctx, "count by category",
		`SELECT COALESCE(category, '') AS label, COUNT(*) AS count
		FROM analyses GROUP BY label ORDER BY label`)
}

// CountByMonth groups analyses by YYYY-MM of their timestamp, ascending.
func (db *DB) CountByMonth(ctx context.Context) ([]Count, error) {
	return db.counts(ctx, "count by month",
		`SELECT strftime('%Y-%m', timestamp) AS label, COUNT(*) AS count
		FROM analyses WHERE strftime('%Y-%m', timestamp) IS NOT NULL
		GROUP BY label ORDER BY label`)
}

// CountByDay groups analyses by YYYY-MM-DD of their timestamp, ascending.
func (db *DB) CountByDay(ctx context.Context) ([]Count, error) {
	return db.counts(ctx, "count by day",
		`SELECT date(timestamp) AS label, COUNT(*) AS count
		FROM analyses WHERE date(timestamp) IS NOT NULL
		GROUP BY label ORDER BY label`)
}

// CountByCategorySentiment groups analyses by category and sentiment.
func (db *DB) CountByCategorySentiment(ctx context.Context) ([]CategorySentimentCount, error) {
	var out []CategorySentimentCount
	err := db.withConn(ctx, "count by category and sentiment", func(conn *sqlx.DB) error {
		return conn.SelectContext(ctx, &out,
			`SELECT COALESCE(category, '') AS category, COALESCE(sentiment, '') AS sentiment, COUNT(*) AS count
			FROM analyses GROUP BY COALESCE(category, ''), COALESCE(sentiment, '')
			ORDER BY 1, 2`)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (db *DB) counts(ctx context.Context, op, query string) ([]Count, error) {
	out := []Count{}
	err := db.withConn(ctx, op, func(conn *sqlx.DB) error {
		return conn.SelectContext(ctx, &out, query)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetStats returns aggregate database statistics.
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	s := &Stats{}

	queries := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM analyses", &s.TotalAnalyses},
		{"SELECT COUNT(*) FROM analyses WHERE sentiment = 'Positive'", &s.Positive},
		{"SELECT COUNT(*) FROM analyses WHERE sentiment = 'Neutral'", &s.Neutral},
		{"SELECT COUNT(*) FROM analyses WHERE sentiment = 'Negative'", &s.Negative},
		{"SELECT COUNT(DISTINCT COALESCE(category, '')) FROM analyses", &s.Categories},
		{"SELECT COUNT(DISTINCT strftime('%Y-%m', timestamp)) FROM analyses", &s.Months},
		{"SELECT COUNT(*) FROM analyses WHERE source_url != ''", &s.FromURL},
	}

	err := db.withConn(ctx, "stats", func(conn *sqlx.DB) error {
		for _, q := range queries {
			if err := conn.QueryRowContext(ctx, q.sql).Scan(q.dest); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}
