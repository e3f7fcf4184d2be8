package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var pragmas = []string{
	"PRAGMA busy_timeout = 5000",
	"PRAGMA journal_mode = WAL",
}

// StorageError reports a failed store operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// DB is the analysis store backed by a SQLite file. Every operation opens
// its own connection and closes it before returning.
type DB struct {
	path string
	now  func() time.Time
}

// Open prepares the SQLite database at the given path and migrates its schema.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db := &DB{path: dbPath, now: time.Now}
	err := db.withConn(context.Background(), "migrate", func(conn *sqlx.DB) error {
		return migrate(conn.DB)
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// withConn opens a connection, runs fn and always closes the connection.
// Failures are returned as *StorageError tagged with op.
func (db *DB) withConn(ctx context.Context, op string, fn func(conn *sqlx.DB) error) error {
	conn, err := sqlx.Open("sqlite", db.path)
	if err != nil {
		return &StorageError{Op: op, Err: fmt.Errorf("opening database: %w", err)}
	}
	defer conn.Close()
	conn.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := conn.ExecContext(ctx, p); err != nil {
			return &StorageError{Op: op, Err: fmt.Errorf("opening database: %w", err)}
		}
	}

	if err := fn(conn); err != nil {
		return &StorageError{Op: op, Err: err}
	}
	return nil
}
